// internal/handlers/content.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/idreamhq/idream-backend/internal/i18n"
	"github.com/idreamhq/idream-backend/internal/middleware"
	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/services"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// ---- Cart ----

// GET /cart
func (h *ContentHandler) GetCart(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	items, err := h.contentService.GetCart(user.ID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"items": items})
}

// POST /cart
func (h *ContentHandler) AddToCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	item, err := h.contentService.AddToCart(user.ID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"item": item})
}

// DELETE /cart/:productId
func (h *ContentHandler) RemoveFromCart(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product id", nil)
		return
	}

	if err := h.contentService.RemoveFromCart(user.ID, productID); err != nil {
		utils.NotFoundResponse(c, "cart item")
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// DELETE /cart
func (h *ContentHandler) ClearCart(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.contentService.ClearCart(user.ID); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"cleared": true})
}

// ---- Advertisements ----

// GET /advertisements
func (h *ContentHandler) ListActiveAdvertisements(c *gin.Context) {
	ads, err := h.contentService.ListActiveAdvertisements(c.Query("placement"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"advertisements": ads})
}

// GET /admin/advertisements
func (h *ContentHandler) ListAdvertisements(c *gin.Context) {
	ads, err := h.contentService.ListAdvertisements()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"advertisements": ads})
}

// POST /admin/advertisements
func (h *ContentHandler) CreateAdvertisement(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.AdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	ad, err := h.contentService.CreateAdvertisement(&req, actor.ID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"advertisement": ad})
}

// PUT /admin/advertisements/:id
func (h *ContentHandler) UpdateAdvertisement(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid advertisement id", nil)
		return
	}

	var req services.AdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	ad, err := h.contentService.UpdateAdvertisement(adID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"advertisement": ad})
}

// DELETE /admin/advertisements/:id
func (h *ContentHandler) DeleteAdvertisement(c *gin.Context) {
	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid advertisement id", nil)
		return
	}

	if err := h.contentService.DeleteAdvertisement(adID); err != nil {
		utils.NotFoundResponse(c, "advertisement")
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// ---- Videos ----

// GET /videos
func (h *ContentHandler) ListVideos(c *gin.Context) {
	activeOnly := c.DefaultQuery("all", "false") != "true"
	videos, err := h.contentService.ListVideos(activeOnly)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"videos": videos})
}

// POST /admin/videos
func (h *ContentHandler) CreateVideo(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	video, err := h.contentService.CreateVideo(&req, actor.ID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"video": video})
}

// DELETE /admin/videos/:id
func (h *ContentHandler) DeleteVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid video id", nil)
		return
	}

	if err := h.contentService.DeleteVideo(videoID); err != nil {
		utils.NotFoundResponse(c, "video")
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// ---- Pages ----

// GET /pages/:slug
func (h *ContentHandler) GetPage(c *gin.Context) {
	page, err := h.contentService.GetPage(c.Param("slug"))
	if err != nil {
		utils.NotFoundResponse(c, "page")
		return
	}
	utils.SuccessResponse(c, gin.H{"page": page})
}

// GET /admin/pages
func (h *ContentHandler) ListPages(c *gin.Context) {
	pages, err := h.contentService.ListPages()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"pages": pages})
}

// PUT /admin/pages
func (h *ContentHandler) UpsertPage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	page, err := h.contentService.UpsertPage(&req, actor.ID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"page": page})
}

// DELETE /admin/pages/:slug
func (h *ContentHandler) DeletePage(c *gin.Context) {
	if err := h.contentService.DeletePage(c.Param("slug")); err != nil {
		utils.NotFoundResponse(c, "page")
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// ---- Contact ----

// POST /contact
func (h *ContentHandler) SubmitContact(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.ContactRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	contact, err := h.contentService.SubmitContact(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"contact": contact})
}

// GET /admin/contacts
func (h *ContentHandler) ListContacts(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.ContactStatus(c.Query("status"))

	result, err := h.contentService.ListContacts(status, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.PaginatedResponse(c, *result)
}

// PATCH /admin/contacts/:id/status
func (h *ContentHandler) SetContactStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid contact id", nil)
		return
	}

	var req struct {
		Status models.ContactStatus `json:"status" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	contact, err := h.contentService.SetContactStatus(contactID, req.Status)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"contact": contact})
}
