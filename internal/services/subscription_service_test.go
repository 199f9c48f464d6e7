// internal/services/subscription_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
)

type SubscriptionServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	svc      *SubscriptionService
	freePlan *models.SubscriptionPlan
	cycle    *models.BillingCycle
	shop     *models.Shop
}

func (s *SubscriptionServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewSubscriptionService(s.db, testConfig())

	s.freePlan = createTestPlan(s.T(), s.db, "Free", 0, map[string]int64{
		models.LimitMaxProducts:  2,
		models.LimitMaxHotOffers: 1,
	})
	s.cycle = createTestBillingCycle(s.T(), s.db, "monthly", 1)

	category := createTestCategory(s.T(), s.db, "Fashion")
	s.shop = createTestShop(s.T(), s.db, "corner", category.ID)
}

func (s *SubscriptionServiceTestSuite) subscribe(planID uuid.UUID) *models.ShopSubscription {
	resp, err := s.svc.Subscribe(&SubscribeRequest{
		ShopID:         s.shop.ID,
		PlanID:         planID,
		BillingCycleID: s.cycle.ID,
	})
	s.Require().NoError(err)
	return resp.Subscription
}

func (s *SubscriptionServiceTestSuite) TestSubscribeFreePlanActivatesImmediately() {
	resp, err := s.svc.Subscribe(&SubscribeRequest{
		ShopID:         s.shop.ID,
		PlanID:         s.freePlan.ID,
		BillingCycleID: s.cycle.ID,
	})
	s.Require().NoError(err)
	s.Equal(models.SubscriptionStatusActive, resp.Subscription.Status)
	s.Empty(resp.ClientSecret)

	var logs []models.SubscriptionLog
	s.Require().NoError(s.db.Where("shop_id = ?", s.shop.ID).Find(&logs).Error)
	s.Require().Len(logs, 1)
	s.Equal(models.SubscriptionEventActivated, logs[0].Event)
}

func (s *SubscriptionServiceTestSuite) TestResubscribeKeepsSingleRow() {
	silver := createTestPlan(s.T(), s.db, "Silver", 0, map[string]int64{
		models.LimitMaxProducts: 5,
	})

	s.subscribe(s.freePlan.ID)
	sub := s.subscribe(silver.ID)
	s.Equal(silver.ID, sub.PlanID)

	var count int64
	s.db.Model(&models.ShopSubscription{}).Where("shop_id = ?", s.shop.ID).Count(&count)
	s.Equal(int64(1), count)
}

func (s *SubscriptionServiceTestSuite) TestConsumeLimitBlocksAtCap() {
	s.subscribe(s.freePlan.ID)
	s.Require().NoError(s.svc.ConsumeLimit(s.db, s.shop.ID, models.LimitMaxProducts))
	s.Require().NoError(s.svc.ConsumeLimit(s.db, s.shop.ID, models.LimitMaxProducts))

	err := s.svc.ConsumeLimit(s.db, s.shop.ID, models.LimitMaxProducts)
	s.ErrorIs(err, ErrLimitExceeded)

	var usage models.SubscriptionUsage
	s.Require().NoError(s.db.Where("shop_id = ? AND limit_key = ?",
		s.shop.ID, models.LimitMaxProducts).First(&usage).Error)
	s.Equal(int64(2), usage.Used)
}

func (s *SubscriptionServiceTestSuite) TestReleaseLimitRestoresQuota() {
	s.subscribe(s.freePlan.ID)
	s.Require().NoError(s.svc.ConsumeLimit(s.db, s.shop.ID, models.LimitMaxHotOffers))
	s.ErrorIs(s.svc.ConsumeLimit(s.db, s.shop.ID, models.LimitMaxHotOffers), ErrLimitExceeded)

	s.Require().NoError(s.svc.ReleaseLimit(s.db, s.shop.ID, models.LimitMaxHotOffers))
	s.NoError(s.svc.ConsumeLimit(s.db, s.shop.ID, models.LimitMaxHotOffers))
}

func (s *SubscriptionServiceTestSuite) TestReleaseLimitNeverGoesNegative() {
	s.Require().NoError(s.svc.ReleaseLimit(s.db, s.shop.ID, models.LimitMaxProducts))

	var usage models.SubscriptionUsage
	err := s.db.Where("shop_id = ? AND limit_key = ?",
		s.shop.ID, models.LimitMaxProducts).First(&usage).Error
	if err == nil {
		s.GreaterOrEqual(usage.Used, int64(0))
	}
}

func (s *SubscriptionServiceTestSuite) TestUnlimitedLimitNeverBlocks() {
	gold := createTestPlan(s.T(), s.db, "Gold", 0, map[string]int64{
		models.LimitMaxProducts: models.LimitUnlimited,
	})
	s.subscribe(gold.ID)

	for i := 0; i < 25; i++ {
		s.Require().NoError(s.svc.ConsumeLimit(s.db, s.shop.ID, models.LimitMaxProducts))
	}
}

func (s *SubscriptionServiceTestSuite) TestMissingLimitKeyMeansZero() {
	s.subscribe(s.freePlan.ID)
	err := s.svc.ConsumeLimit(s.db, s.shop.ID, "max_banners")
	s.ErrorIs(err, ErrLimitExceeded)

	ok, err := s.svc.CheckLimit(s.shop.ID, "max_banners")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *SubscriptionServiceTestSuite) TestUnsubscribedShopIsUnrestricted() {
	limit, err := s.svc.LimitFor(s.db, s.shop.ID, models.LimitMaxProducts)
	s.Require().NoError(err)
	s.Equal(int64(models.LimitUnlimited), limit)

	for i := 0; i < 5; i++ {
		s.Require().NoError(s.svc.ConsumeLimit(s.db, s.shop.ID, models.LimitMaxProducts))
	}
}

func (s *SubscriptionServiceTestSuite) TestUnsubscribedShopAllowedWithoutAnyPlans() {
	s.Require().NoError(s.db.Where("1 = 1").Delete(&models.SubscriptionPlanLimit{}).Error)
	s.Require().NoError(s.db.Where("1 = 1").Delete(&models.SubscriptionPlan{}).Error)

	ok, err := s.svc.CheckLimit(s.shop.ID, models.LimitMaxProducts)
	s.Require().NoError(err)
	s.True(ok)
	s.NoError(s.svc.ConsumeLimit(s.db, s.shop.ID, models.LimitMaxProducts))
}

func (s *SubscriptionServiceTestSuite) TestActiveSubscriptionLimitApplies() {
	gold := createTestPlan(s.T(), s.db, "Gold", 0, map[string]int64{
		models.LimitMaxProducts: 50,
	})
	s.subscribe(gold.ID)

	limit, err := s.svc.LimitFor(s.db, s.shop.ID, models.LimitMaxProducts)
	s.Require().NoError(err)
	s.Equal(int64(50), limit)
}

func (s *SubscriptionServiceTestSuite) TestCancelSubscription() {
	s.subscribe(s.freePlan.ID)

	sub, err := s.svc.Cancel(s.shop.ID)
	s.Require().NoError(err)
	s.Equal(models.SubscriptionStatusCancelled, sub.Status)
}

func (s *SubscriptionServiceTestSuite) TestExpireOverdueExpiresPastSubscriptions() {
	sub := s.subscribe(s.freePlan.ID)
	s.Require().NoError(s.db.Model(&models.ShopSubscription{}).Where("id = ?", sub.ID).
		UpdateColumn("end_date", time.Now().Add(-time.Hour)).Error)

	processed, err := s.svc.ExpireOverdue()
	s.Require().NoError(err)
	s.Equal(1, processed)

	var reloaded models.ShopSubscription
	s.Require().NoError(s.db.First(&reloaded, sub.ID).Error)
	s.Equal(models.SubscriptionStatusExpired, reloaded.Status)
}

func (s *SubscriptionServiceTestSuite) TestScheduledDowngradeRollsOverInsteadOfExpiring() {
	gold := createTestPlan(s.T(), s.db, "Gold", 0, map[string]int64{
		models.LimitMaxProducts: 50,
	})
	sub := s.subscribe(gold.ID)

	_, err := s.svc.ScheduleDowngrade(s.shop.ID, s.freePlan.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.db.Model(&models.ShopSubscription{}).Where("id = ?", sub.ID).
		UpdateColumn("end_date", time.Now().Add(-time.Hour)).Error)

	processed, err := s.svc.ExpireOverdue()
	s.Require().NoError(err)
	s.Equal(1, processed)

	var reloaded models.ShopSubscription
	s.Require().NoError(s.db.First(&reloaded, sub.ID).Error)
	s.Equal(models.SubscriptionStatusActive, reloaded.Status)
	s.Equal(s.freePlan.ID, reloaded.PlanID)
	s.Nil(reloaded.ScheduledDowngradePlanID)
	s.True(reloaded.EndDate.After(time.Now()))

	var log models.SubscriptionLog
	s.Require().NoError(s.db.Where("shop_id = ? AND event = ?",
		s.shop.ID, models.SubscriptionEventDowngraded).First(&log).Error)
}

func (s *SubscriptionServiceTestSuite) TestDeletePlanBlockedWhenInUse() {
	s.subscribe(s.freePlan.ID)
	s.Error(s.svc.DeletePlan(s.freePlan.ID))
}

func TestSubscriptionServiceSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}
