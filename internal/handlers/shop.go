// internal/handlers/shop.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/idreamhq/idream-backend/internal/i18n"
	"github.com/idreamhq/idream-backend/internal/middleware"
	"github.com/idreamhq/idream-backend/internal/services"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type ShopHandler struct {
	shopService  *services.ShopService
	orderService *services.OrderService
}

func NewShopHandler(shopService *services.ShopService, orderService *services.OrderService) *ShopHandler {
	return &ShopHandler{shopService: shopService, orderService: orderService}
}

// GET /shops (public storefront)
func (h *ShopHandler) ListPublicShops(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filters := shopFiltersFromQuery(c)

	result, err := h.shopService.ListPublicShops(filters, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, *result)
}

// GET /shops/:id (public storefront)
func (h *ShopHandler) GetPublicShop(c *gin.Context) {
	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid shop id", nil)
		return
	}

	shop, err := h.shopService.GetPublicShop(shopID)
	if err != nil {
		utils.NotFoundResponse(c, "shop")
		return
	}
	utils.SuccessResponse(c, gin.H{"shop": shop})
}

// POST /shops/:id/share
func (h *ShopHandler) Share(c *gin.Context) {
	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid shop id", nil)
		return
	}

	var req services.ShareRequest
	// Body is optional for shares.
	_ = c.ShouldBindJSON(&req)

	var userID *uuid.UUID
	if user, ok := middleware.GetUserFromContext(c); ok {
		userID = &user.ID
	}

	resp, err := h.orderService.RecordShare(shopID, userID, &req)
	if err != nil {
		utils.NotFoundResponse(c, "shop")
		return
	}
	utils.SuccessResponse(c, resp)
}

// GET /admin/shops
func (h *ShopHandler) ListShops(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	scope := middleware.GetScopeFromContext(c)
	filters := shopFiltersFromQuery(c)

	result, err := h.shopService.ListShops(scope, filters, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, *result)
}

// GET /admin/shops/:id
func (h *ShopHandler) GetShop(c *gin.Context) {
	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid shop id", nil)
		return
	}

	shop, err := h.shopService.GetShop(shopID)
	if err != nil {
		utils.NotFoundResponse(c, "shop")
		return
	}
	utils.SuccessResponse(c, gin.H{"shop": shop})
}

// POST /admin/shops
func (h *ShopHandler) CreateShop(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	shop, err := h.shopService.CreateShop(&req, actor.ID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyShopCreated),
		"shop":    shop,
	})
}

// PUT /admin/shops/:id
func (h *ShopHandler) UpdateShop(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid shop id", nil)
		return
	}

	var req services.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	scope := middleware.GetScopeFromContext(c)
	shop, err := h.shopService.UpdateShop(scope, shopID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"shop": shop})
}

// PATCH /admin/shops/:id/activate
func (h *ShopHandler) Activate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid shop id", nil)
		return
	}

	shop, err := h.shopService.Activate(shopID, actor.ID)
	if err != nil {
		utils.NotFoundResponse(c, "shop")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyShopActivated),
		"shop":    shop,
	})
}

// PATCH /admin/shops/:id/deactivate
func (h *ShopHandler) Deactivate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid shop id", nil)
		return
	}

	shop, err := h.shopService.Deactivate(shopID)
	if err != nil {
		utils.NotFoundResponse(c, "shop")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyShopDeactivated),
		"shop":    shop,
	})
}

// DELETE /admin/shops/:id
func (h *ShopHandler) DeleteShop(c *gin.Context) {
	shopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid shop id", nil)
		return
	}

	scope := middleware.GetScopeFromContext(c)
	if err := h.shopService.DeleteShop(scope, shopID); err != nil {
		if errors.Is(err, services.ErrLimitExceeded) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.NotFoundResponse(c, "shop")
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

func shopFiltersFromQuery(c *gin.Context) services.ShopFilters {
	var filters services.ShopFilters
	filters.Search = c.Query("search")
	if categoryID, err := uuid.Parse(c.Query("category_id")); err == nil {
		filters.CategoryID = &categoryID
	}
	if active, err := strconv.ParseBool(c.Query("is_active")); err == nil {
		filters.IsActive = &active
	}
	return filters
}
