// internal/handlers/subscription.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/idreamhq/idream-backend/internal/i18n"
	"github.com/idreamhq/idream-backend/internal/middleware"
	"github.com/idreamhq/idream-backend/internal/services"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// GET /subscriptions/plans
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	includeInactive := c.Query("all") == "true"
	plans, err := h.subscriptionService.ListPlans(includeInactive)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"plans": plans})
}

// GET /subscriptions/billing-cycles
func (h *SubscriptionHandler) ListBillingCycles(c *gin.Context) {
	cycles, err := h.subscriptionService.ListBillingCycles()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"billing_cycles": cycles})
}

// POST /admin/subscriptions/plans
func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	plan, err := h.subscriptionService.CreatePlan(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"plan": plan})
}

// PUT /admin/subscriptions/plans/:id
func (h *SubscriptionHandler) UpdatePlan(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid plan id", nil)
		return
	}

	var req services.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	plan, err := h.subscriptionService.UpdatePlan(planID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"plan": plan})
}

// DELETE /admin/subscriptions/plans/:id
func (h *SubscriptionHandler) DeletePlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid plan id", nil)
		return
	}

	if err := h.subscriptionService.DeletePlan(planID); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /admin/subscriptions/subscribe
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	resp, err := h.subscriptionService.Subscribe(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, resp)
}

// POST /admin/subscriptions/confirm-payment
func (h *SubscriptionHandler) ConfirmPayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		PaymentIntentID string `json:"payment_intent_id" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PaymentIntentID == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), nil)
		return
	}

	sub, err := h.subscriptionService.ConfirmPayment(req.PaymentIntentID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"subscription": sub})
}

// GET /admin/shops/:id/subscription
func (h *SubscriptionHandler) GetShopSubscription(c *gin.Context) {
	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid shop id", nil)
		return
	}

	sub, err := h.subscriptionService.GetShopSubscription(shopID)
	if err != nil {
		utils.NotFoundResponse(c, "subscription")
		return
	}
	utils.SuccessResponse(c, gin.H{"subscription": sub})
}

// GET /admin/shops/:id/usage
func (h *SubscriptionHandler) GetShopUsage(c *gin.Context) {
	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid shop id", nil)
		return
	}

	usage, err := h.subscriptionService.GetUsage(shopID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"usage": usage})
}

// POST /admin/shops/:id/subscription/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid shop id", nil)
		return
	}

	sub, err := h.subscriptionService.Cancel(shopID)
	if err != nil {
		utils.NotFoundResponse(c, "subscription")
		return
	}
	utils.SuccessResponse(c, gin.H{"subscription": sub})
}

// POST /admin/shops/:id/subscription/downgrade
func (h *SubscriptionHandler) ScheduleDowngrade(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid shop id", nil)
		return
	}

	var req struct {
		PlanID uuid.UUID `json:"plan_id" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PlanID == uuid.Nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), nil)
		return
	}

	sub, err := h.subscriptionService.ScheduleDowngrade(shopID, req.PlanID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"subscription": sub})
}

// POST /admin/subscriptions/expire-overdue
func (h *SubscriptionHandler) ExpireOverdue(c *gin.Context) {
	count, err := h.subscriptionService.ExpireOverdue()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"processed": count})
}

// GET /admin/me/shop/subscription convenience for shop admins
func (h *SubscriptionHandler) MyShopSubscription(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok || user.ShopID == nil {
		utils.NotFoundResponse(c, "subscription")
		return
	}

	sub, err := h.subscriptionService.GetShopSubscription(*user.ShopID)
	if err != nil {
		utils.NotFoundResponse(c, "subscription")
		return
	}
	utils.SuccessResponse(c, gin.H{"subscription": sub})
}
