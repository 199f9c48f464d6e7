// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type CategoryService struct {
	db *gorm.DB
}

type CategoryRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Image    string `json:"image" validate:"omitempty,url"`
	Priority int    `json:"priority" validate:"min=0"`
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) ListCategories(activeOnly bool) ([]models.Category, error) {
	query := s.db.Order("priority desc, name asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return nil, errors.New("category not found")
	}
	return &category, nil
}

func (s *CategoryService) CreateCategory(req *CategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.Category
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, errors.New("category with this name already exists")
	}

	category := &models.Category{
		Name:     req.Name,
		Image:    req.Image,
		Priority: req.Priority,
		IsActive: true,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(categoryID uuid.UUID, req *CategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return nil, errors.New("category not found")
	}

	category.Name = req.Name
	category.Image = req.Image
	category.Priority = req.Priority
	if err := s.db.Save(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &category, nil
}

// DeleteCategory refuses to remove a category still referenced by shops.
func (s *CategoryService) DeleteCategory(categoryID uuid.UUID) error {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return errors.New("category not found")
	}

	var shopCount int64
	if err := s.db.Model(&models.Shop{}).Where("category_id = ?", categoryID).Count(&shopCount).Error; err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if shopCount > 0 {
		return errors.New("category has shops and cannot be deleted")
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *CategoryService) SetActive(categoryID uuid.UUID, active bool) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		return nil, errors.New("category not found")
	}

	if err := s.db.Model(&category).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	category.IsActive = active
	return &category, nil
}
