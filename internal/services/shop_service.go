// internal/services/shop_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/middleware"
	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type ShopService struct {
	db *gorm.DB
}

type CreateShopRequest struct {
	Name       string    `json:"name" validate:"required,min=2,max=255"`
	Email      string    `json:"email" validate:"required,email"`
	Mobile     string    `json:"mobile" validate:"required,egyptian_phone"`
	Whatsapp   string    `json:"whatsapp" validate:"required,egyptian_phone"`
	Logo       string    `json:"logo" validate:"omitempty,url"`
	Address    string    `json:"address"`
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
	Priority   int       `json:"priority" validate:"min=0"`
}

type UpdateShopRequest struct {
	Name       string     `json:"name" validate:"omitempty,min=2,max=255"`
	Mobile     string     `json:"mobile" validate:"omitempty,egyptian_phone"`
	Whatsapp   string     `json:"whatsapp" validate:"omitempty,egyptian_phone"`
	Logo       string     `json:"logo" validate:"omitempty,url"`
	Address    string     `json:"address"`
	CategoryID *uuid.UUID `json:"category_id"`
	Priority   *int       `json:"priority" validate:"omitempty,min=0"`
}

type ShopFilters struct {
	CategoryID *uuid.UUID
	Search     string
	IsActive   *bool
}

func NewShopService(db *gorm.DB) *ShopService {
	return &ShopService{db: db}
}

// ListPublicShops returns active approved shops for the storefront, busiest
// first by priority.
func (s *ShopService) ListPublicShops(filters ShopFilters, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Shop{}).Preload("Category").
		Where("is_active = ? AND is_approved = ?", true, true)

	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Search != "" {
		search := "%" + filters.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count shops: %w", err)
	}

	var shops []models.Shop
	query = query.Order("priority desc, created_at desc")
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}

	result := utils.CreatePaginationResult(shops, total, params)
	return &result, nil
}

// ListShops is the admin listing, narrowed by the caller's scope.
func (s *ShopService) ListShops(scope *middleware.Scope, filters ShopFilters, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := scope.ApplyShops(s.db.Model(&models.Shop{})).Preload("Category")

	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Search != "" {
		search := "%" + filters.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count shops: %w", err)
	}

	var shops []models.Shop
	query = utils.ApplySort(query, params, []string{"created_at", "name", "priority"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}

	result := utils.CreatePaginationResult(shops, total, params)
	return &result, nil
}

func (s *ShopService) GetShop(shopID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.Preload("Category").First(&shop, shopID).Error; err != nil {
		return nil, errors.New("shop not found")
	}
	return &shop, nil
}

// GetPublicShop resolves a storefront shop by id, loading only active
// approved products.
func (s *ShopService) GetPublicShop(shopID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	err := s.db.Preload("Category").
		Preload("Products", "is_active = ? AND is_approved = ?", true, true).
		Where("is_active = ? AND is_approved = ?", true, true).
		First(&shop, shopID).Error
	if err != nil {
		return nil, errors.New("shop not found")
	}
	return &shop, nil
}

func (s *ShopService) CreateShop(req *CreateShopRequest, createdBy uuid.UUID) (*models.Shop, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.Shop
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, errors.New("shop with this email already exists")
	}

	var category models.Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		return nil, errors.New("category not found")
	}

	shop := &models.Shop{
		Name:       req.Name,
		Email:      req.Email,
		Mobile:     req.Mobile,
		Whatsapp:   req.Whatsapp,
		Logo:       req.Logo,
		Address:    req.Address,
		CategoryID: category.ID,
		Priority:   req.Priority,
		CreatedBy:  createdBy,
	}
	if err := s.db.Create(shop).Error; err != nil {
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}

	return s.GetShop(shop.ID)
}

func (s *ShopService) UpdateShop(scope *middleware.Scope, shopID uuid.UUID, req *UpdateShopRequest) (*models.Shop, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	shop, err := s.getScopedShop(scope, shopID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		shop.Name = req.Name
	}
	if req.Mobile != "" {
		shop.Mobile = req.Mobile
	}
	if req.Whatsapp != "" {
		shop.Whatsapp = req.Whatsapp
	}
	if req.Logo != "" {
		shop.Logo = req.Logo
	}
	if req.Address != "" {
		shop.Address = req.Address
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := s.db.First(&category, *req.CategoryID).Error; err != nil {
			return nil, errors.New("category not found")
		}
		shop.CategoryID = category.ID
	}
	if req.Priority != nil {
		shop.Priority = *req.Priority
	}

	if err := s.db.Save(shop).Error; err != nil {
		return nil, fmt.Errorf("failed to update shop: %w", err)
	}
	return s.GetShop(shop.ID)
}

// Activate approves and publishes a shop, stamping who approved it and when.
func (s *ShopService) Activate(shopID, approvedBy uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.First(&shop, shopID).Error; err != nil {
		return nil, errors.New("shop not found")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_active":   true,
		"is_approved": true,
		"approved_by": approvedBy,
		"approved_at": now,
	}
	if err := s.db.Model(&shop).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to activate shop: %w", err)
	}
	shop.IsActive = true
	shop.IsApproved = true
	shop.ApprovedBy = &approvedBy
	shop.ApprovedAt = &now
	return &shop, nil
}

// Deactivate pulls a shop off the storefront. Approval history is kept.
func (s *ShopService) Deactivate(shopID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.First(&shop, shopID).Error; err != nil {
		return nil, errors.New("shop not found")
	}

	if err := s.db.Model(&shop).Update("is_active", false).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate shop: %w", err)
	}
	shop.IsActive = false
	return &shop, nil
}

func (s *ShopService) DeleteShop(scope *middleware.Scope, shopID uuid.UUID) error {
	shop, err := s.getScopedShop(scope, shopID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to delete shop products: %w", err)
		}
		if err := tx.Delete(shop).Error; err != nil {
			return fmt.Errorf("failed to delete shop: %w", err)
		}
		return nil
	})
}

func (s *ShopService) getScopedShop(scope *middleware.Scope, shopID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := scope.ApplyShops(s.db.Model(&models.Shop{})).First(&shop, "shops.id = ?", shopID).Error; err != nil {
		return nil, errors.New("shop not found")
	}
	return &shop, nil
}
