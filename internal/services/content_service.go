// internal/services/content_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type ContentService struct {
	db *gorm.DB
}

type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1,max=99"`
}

type AdvertisementRequest struct {
	Title     string     `json:"title" validate:"required,min=2,max=255"`
	Images    []string   `json:"images" validate:"required,min=1,dive,url"`
	Link      string     `json:"link" validate:"omitempty,url"`
	Placement string     `json:"placement" validate:"required,max=50"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Priority  int        `json:"priority" validate:"min=0"`
}

type VideoRequest struct {
	Title    string `json:"title" validate:"required,min=2,max=255"`
	URL      string `json:"url" validate:"required,url"`
	Priority int    `json:"priority" validate:"min=0"`
}

type PageRequest struct {
	Slug    string `json:"slug" validate:"required,min=2,max=100"`
	Title   string `json:"title" validate:"required,min=2,max=255"`
	Content string `json:"content" validate:"required"`
}

type ContactRequestInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,egyptian_phone"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required,min=5,max=5000"`
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// ---- Cart ----

func (s *ContentService) GetCart(userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.db.Preload("Product.Shop").Where("user_id = ?", userID).
		Order("created_at desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return items, nil
}

// AddToCart upserts the item; adding an existing product updates quantity.
func (s *ContentService) AddToCart(userID uuid.UUID, req *CartItemRequest) (*models.CartItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.Where("is_active = ?", true).First(&product, req.ProductID).Error; err != nil {
		return nil, errors.New("product not found")
	}

	var item models.CartItem
	err := s.db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load cart item: %w", err)
		}
		item = models.CartItem{UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	} else {
		item.Quantity = req.Quantity
		if err := s.db.Save(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	item.Product = product
	return &item, nil
}

func (s *ContentService) RemoveFromCart(userID, productID uuid.UUID) error {
	res := s.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("cart item not found")
	}
	return nil
}

func (s *ContentService) ClearCart(userID uuid.UUID) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// ---- Advertisements ----

// ListActiveAdvertisements returns ads currently inside their display window
// for a placement.
func (s *ContentService) ListActiveAdvertisements(placement string) ([]models.Advertisement, error) {
	now := time.Now()
	query := s.db.Where("is_active = ?", true).
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now)
	if placement != "" {
		query = query.Where("placement = ?", placement)
	}

	var ads []models.Advertisement
	if err := query.Order("priority desc").Find(&ads).Error; err != nil {
		return nil, fmt.Errorf("failed to list advertisements: %w", err)
	}
	return ads, nil
}

func (s *ContentService) ListAdvertisements() ([]models.Advertisement, error) {
	var ads []models.Advertisement
	if err := s.db.Order("priority desc, created_at desc").Find(&ads).Error; err != nil {
		return nil, fmt.Errorf("failed to list advertisements: %w", err)
	}
	return ads, nil
}

func (s *ContentService) CreateAdvertisement(req *AdvertisementRequest, createdBy uuid.UUID) (*models.Advertisement, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, errors.New("end date must be after start date")
	}

	ad := &models.Advertisement{
		Title:     req.Title,
		Images:    pq.StringArray(req.Images),
		Link:      req.Link,
		Placement: req.Placement,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Priority:  req.Priority,
		IsActive:  true,
		CreatedBy: createdBy,
	}
	if err := s.db.Create(ad).Error; err != nil {
		return nil, fmt.Errorf("failed to create advertisement: %w", err)
	}
	return ad, nil
}

func (s *ContentService) UpdateAdvertisement(adID uuid.UUID, req *AdvertisementRequest) (*models.Advertisement, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var ad models.Advertisement
	if err := s.db.First(&ad, adID).Error; err != nil {
		return nil, errors.New("advertisement not found")
	}

	ad.Title = req.Title
	ad.Images = pq.StringArray(req.Images)
	ad.Link = req.Link
	ad.Placement = req.Placement
	ad.StartDate = req.StartDate
	ad.EndDate = req.EndDate
	ad.Priority = req.Priority
	if err := s.db.Save(&ad).Error; err != nil {
		return nil, fmt.Errorf("failed to update advertisement: %w", err)
	}
	return &ad, nil
}

func (s *ContentService) DeleteAdvertisement(adID uuid.UUID) error {
	res := s.db.Delete(&models.Advertisement{}, adID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete advertisement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("advertisement not found")
	}
	return nil
}

// ---- Videos ----

func (s *ContentService) ListVideos(activeOnly bool) ([]models.Video, error) {
	query := s.db.Order("priority desc, created_at desc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var videos []models.Video
	if err := query.Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

func (s *ContentService) CreateVideo(req *VideoRequest, createdBy uuid.UUID) (*models.Video, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	video := &models.Video{
		Title:     req.Title,
		URL:       req.URL,
		Priority:  req.Priority,
		IsActive:  true,
		CreatedBy: createdBy,
	}
	if err := s.db.Create(video).Error; err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	return video, nil
}

func (s *ContentService) DeleteVideo(videoID uuid.UUID) error {
	res := s.db.Delete(&models.Video{}, videoID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete video: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("video not found")
	}
	return nil
}

// ---- Pages ----

func (s *ContentService) GetPage(slug string) (*models.Page, error) {
	var page models.Page
	if err := s.db.Where("slug = ? AND is_active = ?", slug, true).First(&page).Error; err != nil {
		return nil, errors.New("page not found")
	}
	return &page, nil
}

func (s *ContentService) ListPages() ([]models.Page, error) {
	var pages []models.Page
	if err := s.db.Order("slug asc").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

func (s *ContentService) UpsertPage(req *PageRequest, createdBy uuid.UUID) (*models.Page, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var page models.Page
	err := s.db.Where("slug = ?", req.Slug).First(&page).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load page: %w", err)
		}
		page = models.Page{
			Slug:      req.Slug,
			Title:     req.Title,
			Content:   req.Content,
			IsActive:  true,
			CreatedBy: createdBy,
		}
		if err := s.db.Create(&page).Error; err != nil {
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
		return &page, nil
	}

	page.Title = req.Title
	page.Content = req.Content
	if err := s.db.Save(&page).Error; err != nil {
		return nil, fmt.Errorf("failed to update page: %w", err)
	}
	return &page, nil
}

func (s *ContentService) DeletePage(slug string) error {
	res := s.db.Where("slug = ?", slug).Delete(&models.Page{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete page: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("page not found")
	}
	return nil
}

// ---- Contact ----

func (s *ContentService) SubmitContact(req *ContactRequestInput) (*models.ContactRequest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	contact := &models.ContactRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.ContactStatusNew,
	}
	if err := s.db.Create(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to submit contact request: %w", err)
	}
	return contact, nil
}

func (s *ContentService) ListContacts(status models.ContactStatus, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.ContactRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count contact requests: %w", err)
	}

	var contacts []models.ContactRequest
	query = utils.ApplySort(query, params, []string{"created_at", "status"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to list contact requests: %w", err)
	}

	result := utils.CreatePaginationResult(contacts, total, params)
	return &result, nil
}

func (s *ContentService) SetContactStatus(contactID uuid.UUID, status models.ContactStatus) (*models.ContactRequest, error) {
	if status != models.ContactStatusNew && status != models.ContactStatusRead && status != models.ContactStatusResolved {
		return nil, errors.New("invalid contact status")
	}

	var contact models.ContactRequest
	if err := s.db.First(&contact, contactID).Error; err != nil {
		return nil, errors.New("contact request not found")
	}

	if err := s.db.Model(&contact).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact request: %w", err)
	}
	contact.Status = status
	return &contact, nil
}
