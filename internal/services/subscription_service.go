// internal/services/subscription_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/idreamhq/idream-backend/internal/config"
	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

// ErrLimitExceeded is returned when a shop has no remaining quota for a
// limit key. Handlers map it to a 400 with a limit-specific message.
var ErrLimitExceeded = errors.New("subscription limit exceeded")

type SubscriptionService struct {
	db  *gorm.DB
	cfg *config.Config
}

type PlanLimitInput struct {
	LimitKey   string `json:"limit_key" validate:"required"`
	LimitValue int64  `json:"limit_value" validate:"min=-1"`
}

type CreatePlanRequest struct {
	Name        string           `json:"name" validate:"required,min=2,max=100"`
	Description string           `json:"description"`
	Price       float64          `json:"price" validate:"min=0"`
	Limits      []PlanLimitInput `json:"limits"`
}

type UpdatePlanRequest struct {
	Description string           `json:"description"`
	Price       *float64         `json:"price" validate:"omitempty,min=0"`
	IsActive    *bool            `json:"is_active"`
	Limits      []PlanLimitInput `json:"limits"`
}

type SubscribeRequest struct {
	ShopID         uuid.UUID `json:"shop_id" validate:"required"`
	PlanID         uuid.UUID `json:"plan_id" validate:"required"`
	BillingCycleID uuid.UUID `json:"billing_cycle_id" validate:"required"`
}

type SubscribeResponse struct {
	Subscription *models.ShopSubscription `json:"subscription"`
	ClientSecret string                   `json:"client_secret,omitempty"`
}

func NewSubscriptionService(db *gorm.DB, cfg *config.Config) *SubscriptionService {
	stripe.Key = cfg.Payment.StripeSecretKey
	return &SubscriptionService{db: db, cfg: cfg}
}

// ---- Plans ----

func (s *SubscriptionService) ListPlans(includeInactive bool) ([]models.SubscriptionPlan, error) {
	query := s.db.Preload("Limits").Order("price asc")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var plans []models.SubscriptionPlan
	if err := query.Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *SubscriptionService) GetPlan(planID uuid.UUID) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := s.db.Preload("Limits").First(&plan, planID).Error; err != nil {
		return nil, errors.New("plan not found")
	}
	return &plan, nil
}

func (s *SubscriptionService) CreatePlan(req *CreatePlanRequest) (*models.SubscriptionPlan, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.SubscriptionPlan
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, errors.New("plan with this name already exists")
	}

	plan := &models.SubscriptionPlan{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return fmt.Errorf("failed to create plan: %w", err)
		}
		return s.replaceLimits(tx, plan.ID, req.Limits)
	})
	if err != nil {
		return nil, err
	}
	return s.GetPlan(plan.ID)
}

func (s *SubscriptionService) UpdatePlan(planID uuid.UUID, req *UpdatePlanRequest) (*models.SubscriptionPlan, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var plan models.SubscriptionPlan
	if err := s.db.First(&plan, planID).Error; err != nil {
		return nil, errors.New("plan not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.Description != "" {
			plan.Description = req.Description
		}
		if req.Price != nil {
			plan.Price = *req.Price
		}
		if req.IsActive != nil {
			plan.IsActive = *req.IsActive
		}
		if err := tx.Save(&plan).Error; err != nil {
			return fmt.Errorf("failed to update plan: %w", err)
		}
		if req.Limits != nil {
			return s.replaceLimits(tx, plan.ID, req.Limits)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetPlan(plan.ID)
}

func (s *SubscriptionService) DeletePlan(planID uuid.UUID) error {
	var count int64
	if err := s.db.Model(&models.ShopSubscription{}).Where("plan_id = ?", planID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check plan usage: %w", err)
	}
	if count > 0 {
		return errors.New("plan has subscriptions and cannot be deleted")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", planID).Delete(&models.SubscriptionPlanLimit{}).Error; err != nil {
			return fmt.Errorf("failed to delete plan limits: %w", err)
		}
		if err := tx.Delete(&models.SubscriptionPlan{}, planID).Error; err != nil {
			return fmt.Errorf("failed to delete plan: %w", err)
		}
		return nil
	})
}

func (s *SubscriptionService) ListBillingCycles() ([]models.BillingCycle, error) {
	var cycles []models.BillingCycle
	if err := s.db.Order("months asc").Find(&cycles).Error; err != nil {
		return nil, fmt.Errorf("failed to list billing cycles: %w", err)
	}
	return cycles, nil
}

func (s *SubscriptionService) replaceLimits(tx *gorm.DB, planID uuid.UUID, limits []PlanLimitInput) error {
	if err := tx.Where("plan_id = ?", planID).Delete(&models.SubscriptionPlanLimit{}).Error; err != nil {
		return fmt.Errorf("failed to reset plan limits: %w", err)
	}
	for _, l := range limits {
		limit := models.SubscriptionPlanLimit{
			PlanID:     planID,
			LimitKey:   l.LimitKey,
			LimitValue: l.LimitValue,
		}
		if err := tx.Create(&limit).Error; err != nil {
			return fmt.Errorf("failed to create plan limit: %w", err)
		}
	}
	return nil
}

// ---- Subscriptions ----

func (s *SubscriptionService) GetShopSubscription(shopID uuid.UUID) (*models.ShopSubscription, error) {
	var sub models.ShopSubscription
	if err := s.db.Preload("Plan.Limits").Preload("BillingCycle").Preload("Downgrade").
		Where("shop_id = ?", shopID).First(&sub).Error; err != nil {
		return nil, errors.New("subscription not found")
	}
	return &sub, nil
}

// Subscribe puts a shop on a plan. Paid plans go through a Stripe payment
// intent and stay pending until the payment is confirmed; free plans activate
// immediately.
func (s *SubscriptionService) Subscribe(req *SubscribeRequest) (*SubscribeResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var shop models.Shop
	if err := s.db.First(&shop, req.ShopID).Error; err != nil {
		return nil, errors.New("shop not found")
	}

	plan, err := s.GetPlan(req.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, errors.New("plan is not available")
	}

	var cycle models.BillingCycle
	if err := s.db.First(&cycle, req.BillingCycleID).Error; err != nil {
		return nil, errors.New("billing cycle not found")
	}

	now := time.Now()
	endDate := now.AddDate(0, cycle.Months, 0)
	amount := plan.Price * float64(cycle.Months)

	var sub models.ShopSubscription
	var clientSecret string

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// One subscription row per shop; re-subscribing replaces it.
		if err := tx.Where("shop_id = ?", req.ShopID).First(&sub).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("database error: %w", err)
			}
			sub = models.ShopSubscription{ShopID: req.ShopID}
		}

		sub.PlanID = plan.ID
		sub.BillingCycleID = cycle.ID
		sub.StartDate = now
		sub.EndDate = endDate
		sub.ScheduledDowngradePlanID = nil

		if amount <= 0 {
			sub.Status = models.SubscriptionStatusActive
			sub.PaymentReference = ""
		} else {
			pi, err := s.createPaymentIntent(amount, shop, plan)
			if err != nil {
				return err
			}
			sub.Status = models.SubscriptionStatusPending
			sub.PaymentReference = pi.ID
			clientSecret = pi.ClientSecret
		}

		if err := tx.Save(&sub).Error; err != nil {
			return fmt.Errorf("failed to save subscription: %w", err)
		}

		event := models.SubscriptionEventSubscribed
		if sub.Status == models.SubscriptionStatusActive {
			event = models.SubscriptionEventActivated
		}
		return s.logEvent(tx, &sub, event, models.JSONB{
			"billing_cycle": cycle.Name,
			"amount":        amount,
		})
	})
	if err != nil {
		return nil, err
	}

	return &SubscribeResponse{Subscription: &sub, ClientSecret: clientSecret}, nil
}

// ConfirmPayment activates a pending subscription once its payment intent
// has succeeded.
func (s *SubscriptionService) ConfirmPayment(paymentIntentID string) (*models.ShopSubscription, error) {
	var sub models.ShopSubscription
	if err := s.db.Where("payment_reference = ?", paymentIntentID).First(&sub).Error; err != nil {
		return nil, errors.New("subscription not found")
	}

	if sub.Status == models.SubscriptionStatusActive {
		return &sub, nil
	}

	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, errors.New("payment has not succeeded")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&sub).Update("status", models.SubscriptionStatusActive).Error; err != nil {
			return fmt.Errorf("failed to activate subscription: %w", err)
		}
		sub.Status = models.SubscriptionStatusActive
		return s.logEvent(tx, &sub, models.SubscriptionEventActivated, models.JSONB{
			"payment_intent": paymentIntentID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriptionService) Cancel(shopID uuid.UUID) (*models.ShopSubscription, error) {
	var sub models.ShopSubscription
	if err := s.db.Where("shop_id = ?", shopID).First(&sub).Error; err != nil {
		return nil, errors.New("subscription not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&sub).Update("status", models.SubscriptionStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}
		sub.Status = models.SubscriptionStatusCancelled
		return s.logEvent(tx, &sub, models.SubscriptionEventCancelled, nil)
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ScheduleDowngrade marks the subscription to move to a cheaper plan when
// the current period ends. Nothing changes until then.
func (s *SubscriptionService) ScheduleDowngrade(shopID, targetPlanID uuid.UUID) (*models.ShopSubscription, error) {
	var sub models.ShopSubscription
	if err := s.db.Where("shop_id = ?", shopID).First(&sub).Error; err != nil {
		return nil, errors.New("subscription not found")
	}

	target, err := s.GetPlan(targetPlanID)
	if err != nil {
		return nil, err
	}
	if !target.IsActive {
		return nil, errors.New("plan is not available")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&sub).Update("scheduled_downgrade_plan_id", target.ID).Error; err != nil {
			return fmt.Errorf("failed to schedule downgrade: %w", err)
		}
		sub.ScheduledDowngradePlanID = &target.ID
		return s.logEvent(tx, &sub, models.SubscriptionEventDowngradeScheduled, models.JSONB{
			"target_plan": target.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ExpireOverdue sweeps subscriptions past their end date. Subscriptions with
// a scheduled downgrade roll onto the target plan instead of expiring.
func (s *SubscriptionService) ExpireOverdue() (int, error) {
	var overdue []models.ShopSubscription
	if err := s.db.Where("status = ? AND end_date < ?", models.SubscriptionStatusActive, time.Now()).
		Find(&overdue).Error; err != nil {
		return 0, fmt.Errorf("failed to find overdue subscriptions: %w", err)
	}

	processed := 0
	for i := range overdue {
		sub := &overdue[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if sub.ScheduledDowngradePlanID != nil {
				// Updates writes the map values back into sub, clearing the
				// pointer, so grab the target plan first.
				targetPlanID := *sub.ScheduledDowngradePlanID
				var cycle models.BillingCycle
				if err := tx.First(&cycle, sub.BillingCycleID).Error; err != nil {
					return fmt.Errorf("billing cycle not found: %w", err)
				}
				now := time.Now()
				updates := map[string]interface{}{
					"plan_id":                     targetPlanID,
					"scheduled_downgrade_plan_id": nil,
					"start_date":                  now,
					"end_date":                    now.AddDate(0, cycle.Months, 0),
					"status":                      models.SubscriptionStatusActive,
				}
				if err := tx.Model(sub).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to apply downgrade: %w", err)
				}
				sub.PlanID = targetPlanID
				return s.logEvent(tx, sub, models.SubscriptionEventDowngraded, nil)
			}

			if err := tx.Model(sub).Update("status", models.SubscriptionStatusExpired).Error; err != nil {
				return fmt.Errorf("failed to expire subscription: %w", err)
			}
			sub.Status = models.SubscriptionStatusExpired
			return s.logEvent(tx, sub, models.SubscriptionEventExpired, nil)
		})
		if err != nil {
			logrus.WithError(err).WithField("shop_id", sub.ShopID).Error("Failed to process overdue subscription")
			continue
		}
		processed++
	}
	return processed, nil
}

// StartExpirySweep runs ExpireOverdue on an interval until stop is closed.
func (s *SubscriptionService) StartExpirySweep(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := s.ExpireOverdue(); err != nil {
					logrus.WithError(err).Error("Subscription expiry sweep failed")
				} else if n > 0 {
					logrus.WithField("count", n).Info("Expired overdue subscriptions")
				}
			case <-stop:
				return
			}
		}
	}()
}

// ---- Limits ----

// LimitFor resolves the effective value for a limit key. Shops without an
// active subscription are not limited at all; with one, a missing key means
// zero.
func (s *SubscriptionService) LimitFor(db *gorm.DB, shopID uuid.UUID, limitKey string) (int64, error) {
	planID, err := s.effectivePlanID(db, shopID)
	if err != nil {
		return 0, err
	}
	if planID == uuid.Nil {
		return models.LimitUnlimited, nil
	}

	var limit models.SubscriptionPlanLimit
	if err := db.Where("plan_id = ? AND limit_key = ?", planID, limitKey).First(&limit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load plan limit: %w", err)
	}
	return limit.LimitValue, nil
}

// CheckLimit reports whether the shop has remaining quota without consuming.
func (s *SubscriptionService) CheckLimit(shopID uuid.UUID, limitKey string) (bool, error) {
	limitValue, err := s.LimitFor(s.db, shopID, limitKey)
	if err != nil {
		return false, err
	}
	if limitValue == models.LimitUnlimited {
		return true, nil
	}

	var usage models.SubscriptionUsage
	if err := s.db.Where("shop_id = ? AND limit_key = ?", shopID, limitKey).First(&usage).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return limitValue > 0, nil
		}
		return false, fmt.Errorf("failed to load usage: %w", err)
	}
	return usage.Used < limitValue, nil
}

// ConsumeLimit atomically takes one unit of quota inside the caller's
// transaction. The conditional update makes check and consume a single
// statement, so concurrent creators cannot both pass at the last slot.
func (s *SubscriptionService) ConsumeLimit(tx *gorm.DB, shopID uuid.UUID, limitKey string) error {
	limitValue, err := s.LimitFor(tx, shopID, limitKey)
	if err != nil {
		return err
	}
	if limitValue == 0 {
		return ErrLimitExceeded
	}

	usage := models.SubscriptionUsage{ShopID: shopID, LimitKey: limitKey, Used: 0}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop_id"}, {Name: "limit_key"}},
		DoNothing: true,
	}).Create(&usage).Error; err != nil {
		return fmt.Errorf("failed to ensure usage row: %w", err)
	}

	res := tx.Model(&models.SubscriptionUsage{}).
		Where("shop_id = ? AND limit_key = ?", shopID, limitKey).
		Where("? = ? OR used < ?", limitValue, models.LimitUnlimited, limitValue).
		Update("used", gorm.Expr("used + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to consume limit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLimitExceeded
	}
	return nil
}

// ReleaseLimit returns one unit of quota. Never goes below zero.
func (s *SubscriptionService) ReleaseLimit(tx *gorm.DB, shopID uuid.UUID, limitKey string) error {
	res := tx.Model(&models.SubscriptionUsage{}).
		Where("shop_id = ? AND limit_key = ? AND used > 0", shopID, limitKey).
		Update("used", gorm.Expr("used - 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to release limit: %w", res.Error)
	}
	return nil
}

func (s *SubscriptionService) GetUsage(shopID uuid.UUID) ([]models.SubscriptionUsage, error) {
	var usage []models.SubscriptionUsage
	if err := s.db.Where("shop_id = ?", shopID).Order("limit_key asc").Find(&usage).Error; err != nil {
		return nil, fmt.Errorf("failed to load usage: %w", err)
	}
	return usage, nil
}

// effectivePlanID returns the shop's active plan, or uuid.Nil when the shop
// has no live subscription. Unsubscribed shops are deliberately unrestricted.
func (s *SubscriptionService) effectivePlanID(db *gorm.DB, shopID uuid.UUID) (uuid.UUID, error) {
	var sub models.ShopSubscription
	err := db.Where("shop_id = ? AND status = ? AND end_date > ?",
		shopID, models.SubscriptionStatusActive, time.Now()).First(&sub).Error
	if err == nil {
		return sub.PlanID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return uuid.Nil, nil
}

func (s *SubscriptionService) createPaymentIntent(amount float64, shop models.Shop, plan *models.SubscriptionPlan) (*stripe.PaymentIntent, error) {
	amountInCents := int64(amount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(s.cfg.Payment.Currency),
	}
	params.AddMetadata("shop_id", shop.ID.String())
	params.AddMetadata("plan_id", plan.ID.String())
	params.AddMetadata("plan_name", plan.Name)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return pi, nil
}

func (s *SubscriptionService) logEvent(tx *gorm.DB, sub *models.ShopSubscription, event models.SubscriptionEvent, details models.JSONB) error {
	log := models.SubscriptionLog{
		ShopID:  sub.ShopID,
		PlanID:  sub.PlanID,
		Event:   event,
		Details: details,
	}
	if err := tx.Create(&log).Error; err != nil {
		return fmt.Errorf("failed to write subscription log: %w", err)
	}
	return nil
}
