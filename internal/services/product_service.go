// internal/services/product_service.go
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

type ProductService struct {
	db            *gorm.DB
	subscriptions *SubscriptionService
}

type CreateProductRequest struct {
	Name        string            `json:"name" validate:"required,min=2,max=255"`
	Description string            `json:"description"`
	Price       float64           `json:"price" validate:"required,gt=0"`
	Image       string            `json:"image" validate:"omitempty,url"`
	ShopID      uuid.UUID         `json:"shop_id" validate:"required"`
	CategoryID  *uuid.UUID        `json:"category_id"`
	ProductType models.StringList `json:"product_type"`
	IsHotOffer  bool              `json:"is_hot_offer"`
}

type UpdateProductRequest struct {
	Name        string            `json:"name" validate:"omitempty,min=2,max=255"`
	Description *string           `json:"description"`
	Price       *float64          `json:"price" validate:"omitempty,gt=0"`
	Image       string            `json:"image" validate:"omitempty,url"`
	CategoryID  *uuid.UUID        `json:"category_id"`
	ProductType models.StringList `json:"product_type"`
}

type ProductFilters struct {
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
	Search     string
	HotOffers  bool
	MinPrice   *float64
	MaxPrice   *float64
	IsActive   *bool
}

func NewProductService(db *gorm.DB, subscriptions *SubscriptionService) *ProductService {
	return &ProductService{db: db, subscriptions: subscriptions}
}

// ListPublicProducts serves the storefront: active approved products from
// active shops only.
func (s *ProductService) ListPublicProducts(filters ProductFilters, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Product{}).Preload("Shop").
		Joins("JOIN shops ON shops.id = products.shop_id").
		Where("products.is_active = ? AND products.is_approved = ?", true, true).
		Where("shops.is_active = ?", true)

	query = s.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	query = utils.ApplySort(query, params, []string{"products.created_at", "products.price", "products.average_rating", "products.name"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result := utils.CreatePaginationResult(products, total, params)
	return &result, nil
}

// ListProducts is the admin listing, narrowed by the caller's scope.
func (s *ProductService) ListProducts(scope *middleware.Scope, filters ProductFilters, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := scope.ApplyProducts(s.db.Model(&models.Product{})).Preload("Shop")
	query = s.applyFilters(query, filters)

	if filters.IsActive != nil {
		query = query.Where("products.is_active = ?", *filters.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	query = utils.ApplySort(query, params, []string{"products.created_at", "products.price", "products.average_rating", "products.name"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result := utils.CreatePaginationResult(products, total, params)
	return &result, nil
}

func (s *ProductService) GetProduct(productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Shop").Preload("Reviews", "is_active = ?", true).
		First(&product, productID).Error; err != nil {
		return nil, errors.New("product not found")
	}
	return &product, nil
}

// CreateProduct consumes one unit of the shop's product quota in the same
// transaction that inserts the row. At the limit nothing is created.
func (s *ProductService) CreateProduct(scope *middleware.Scope, req *CreateProductRequest, createdBy uuid.UUID) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !scope.AllowsShop(s.db, req.ShopID) {
		return nil, errors.New("shop not found")
	}

	var shop models.Shop
	if err := s.db.First(&shop, req.ShopID).Error; err != nil {
		return nil, errors.New("shop not found")
	}

	// Products inherit the shop's category unless one is given.
	categoryID := shop.CategoryID
	if req.CategoryID != nil {
		categoryID = *req.CategoryID
	}

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Image:         req.Image,
		ShopID:        shop.ID,
		CategoryID:    categoryID,
		ProductType:   req.ProductType,
		AverageRating: models.DefaultRating,
		CreatedBy:     createdBy,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.subscriptions.ConsumeLimit(tx, shop.ID, models.LimitMaxProducts); err != nil {
			return err
		}
		if req.IsHotOffer {
			if err := s.subscriptions.ConsumeLimit(tx, shop.ID, models.LimitMaxHotOffers); err != nil {
				return err
			}
			product.IsHotOffer = true
		}
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(product.ID)
}

func (s *ProductService) UpdateProduct(scope *middleware.Scope, productID uuid.UUID, req *UpdateProductRequest, updatedBy uuid.UUID) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.getScopedProduct(scope, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Image != "" {
		product.Image = req.Image
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.ProductType != nil {
		product.ProductType = req.ProductType
	}
	product.UpdatedBy = &updatedBy

	if err := s.db.Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.GetProduct(product.ID)
}

// SetHotOffer toggles a product's hot offer flag against the hot offer
// quota. Marking consumes a unit, unmarking releases it.
func (s *ProductService) SetHotOffer(scope *middleware.Scope, productID uuid.UUID, hot bool) (*models.Product, error) {
	product, err := s.getScopedProduct(scope, productID)
	if err != nil {
		return nil, err
	}

	if product.IsHotOffer == hot {
		return product, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if hot {
			if err := s.subscriptions.ConsumeLimit(tx, product.ShopID, models.LimitMaxHotOffers); err != nil {
				return err
			}
		} else {
			if err := s.subscriptions.ReleaseLimit(tx, product.ShopID, models.LimitMaxHotOffers); err != nil {
				return err
			}
		}
		if err := tx.Model(product).Update("is_hot_offer", hot).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	product.IsHotOffer = hot
	return product, nil
}

// Activate approves and publishes a product, stamping the approver.
func (s *ProductService) Activate(productID, approvedBy uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		return nil, errors.New("product not found")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_active":   true,
		"is_approved": true,
		"approved_by": approvedBy,
		"approved_at": now,
	}
	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to activate product: %w", err)
	}
	product.IsActive = true
	product.IsApproved = true
	product.ApprovedBy = &approvedBy
	product.ApprovedAt = &now
	return &product, nil
}

func (s *ProductService) Deactivate(productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		return nil, errors.New("product not found")
	}

	if err := s.db.Model(&product).Update("is_active", false).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate product: %w", err)
	}
	product.IsActive = false
	return &product, nil
}

// DeleteProduct removes the row and returns its quota, hot offer quota
// included when the product held one.
func (s *ProductService) DeleteProduct(scope *middleware.Scope, productID uuid.UUID) error {
	product, err := s.getScopedProduct(scope, productID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete product reviews: %w", err)
		}
		if err := tx.Delete(product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		if err := s.subscriptions.ReleaseLimit(tx, product.ShopID, models.LimitMaxProducts); err != nil {
			return err
		}
		if product.IsHotOffer {
			if err := s.subscriptions.ReleaseLimit(tx, product.ShopID, models.LimitMaxHotOffers); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ProductService) applyFilters(query *gorm.DB, filters ProductFilters) *gorm.DB {
	if filters.ShopID != nil {
		query = query.Where("products.shop_id = ?", *filters.ShopID)
	}
	if filters.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filters.CategoryID)
	}
	if filters.HotOffers {
		query = query.Where("products.is_hot_offer = ?", true)
	}
	if filters.MinPrice != nil {
		query = query.Where("products.price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filters.MaxPrice)
	}
	if filters.Search != "" {
		search := "%" + filters.Search + "%"
		query = query.Where("LOWER(products.name) LIKE LOWER(?) OR LOWER(products.description) LIKE LOWER(?)", search, search)
	}
	return query
}

func (s *ProductService) getScopedProduct(scope *middleware.Scope, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := scope.ApplyProducts(s.db.Model(&models.Product{})).
		First(&product, "products.id = ?", productID).Error; err != nil {
		return nil, errors.New("product not found")
	}
	return &product, nil
}
