// internal/handlers/product.go
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

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GET /products (public storefront)
func (h *ProductHandler) ListPublicProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filters := productFiltersFromQuery(c)

	result, err := h.productService.ListPublicProducts(filters, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, *result)
}

// GET /products/hot-offers (public storefront)
func (h *ProductHandler) ListHotOffers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filters := productFiltersFromQuery(c)
	filters.HotOffers = true

	result, err := h.productService.ListPublicProducts(filters, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, *result)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	product, err := h.productService.GetProduct(productID)
	if err != nil {
		utils.NotFoundResponse(c, "product")
		return
	}
	utils.SuccessResponse(c, gin.H{"product": product})
}

// GET /admin/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	scope := middleware.GetScopeFromContext(c)
	filters := productFiltersFromQuery(c)

	result, err := h.productService.ListProducts(scope, filters, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, *result)
}

// POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	scope := middleware.GetScopeFromContext(c)
	product, err := h.productService.CreateProduct(scope, &req, actor.ID)
	if err != nil {
		if errors.Is(err, services.ErrLimitExceeded) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductLimit), nil)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// PUT /admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	scope := middleware.GetScopeFromContext(c)
	product, err := h.productService.UpdateProduct(scope, productID, &req, actor.ID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"product": product})
}

// PATCH /admin/products/:id/hot-offer
func (h *ProductHandler) SetHotOffer(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	var req struct {
		IsHotOffer bool `json:"is_hot_offer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	scope := middleware.GetScopeFromContext(c)
	product, err := h.productService.SetHotOffer(scope, productID, req.IsHotOffer)
	if err != nil {
		if errors.Is(err, services.ErrLimitExceeded) {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyHotOfferLimit), nil)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"product": product})
}

// PATCH /admin/products/:id/activate
func (h *ProductHandler) Activate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	product, err := h.productService.Activate(productID, actor.ID)
	if err != nil {
		utils.NotFoundResponse(c, "product")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductActivated),
		"product": product,
	})
}

// PATCH /admin/products/:id/deactivate
func (h *ProductHandler) Deactivate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	product, err := h.productService.Deactivate(productID)
	if err != nil {
		utils.NotFoundResponse(c, "product")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeactivated),
		"product": product,
	})
}

// DELETE /admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	scope := middleware.GetScopeFromContext(c)
	if err := h.productService.DeleteProduct(scope, productID); err != nil {
		utils.NotFoundResponse(c, "product")
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

func productFiltersFromQuery(c *gin.Context) services.ProductFilters {
	var filters services.ProductFilters
	filters.Search = c.Query("search")
	if shopID, err := uuid.Parse(c.Query("shop_id")); err == nil {
		filters.ShopID = &shopID
	}
	if categoryID, err := uuid.Parse(c.Query("category_id")); err == nil {
		filters.CategoryID = &categoryID
	}
	if hot, err := strconv.ParseBool(c.Query("hot_offers")); err == nil && hot {
		filters.HotOffers = true
	}
	if minPrice, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filters.MinPrice = &minPrice
	}
	if maxPrice, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filters.MaxPrice = &maxPrice
	}
	if active, err := strconv.ParseBool(c.Query("is_active")); err == nil {
		filters.IsActive = &active
	}
	return filters
}
