// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

type CreateUserRequest struct {
	Name        string      `json:"name" validate:"required,min=2,max=100"`
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,strong_password"`
	Phone       string      `json:"phone" validate:"omitempty,egyptian_phone"`
	RoleID      uuid.UUID   `json:"role_id" validate:"required"`
	ShopID      *uuid.UUID  `json:"shop_id"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
}

type UpdateUserRequest struct {
	Name        string      `json:"name" validate:"omitempty,min=2,max=100"`
	Phone       string      `json:"phone" validate:"omitempty,egyptian_phone"`
	RoleID      *uuid.UUID  `json:"role_id"`
	ShopID      *uuid.UUID  `json:"shop_id"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
}

type UserFilters struct {
	RoleID   *uuid.UUID
	ShopID   *uuid.UUID
	Search   string
	IsActive *bool
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) ListUsers(filters UserFilters, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.User{}).Preload("Role").Preload("Shop")

	if filters.RoleID != nil {
		query = query.Where("role_id = ?", *filters.RoleID)
	}
	if filters.ShopID != nil {
		query = query.Where("shop_id = ?", *filters.ShopID)
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
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	query = utils.ApplySort(query, params, []string{"created_at", "name", "email", "last_login_at"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := utils.CreatePaginationResult(users, total, params)
	return &result, nil
}

func (s *UserService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role.Permissions").Preload("Shop").Preload("AllowedCategories").
		First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func (s *UserService) CreateUser(req *CreateUserRequest, createdBy uuid.UUID) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, errors.New("user with this email already exists")
	}

	var role models.Role
	if err := s.db.First(&role, req.RoleID).Error; err != nil {
		return nil, errors.New("role not found")
	}

	// Shop admins must belong to a shop
	if role.Name == models.RoleShopAdmin && req.ShopID == nil {
		return nil, errors.New("shop is required for shop admins")
	}

	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		RoleID:    role.ID,
		ShopID:    req.ShopID,
		IsActive:  true,
		CreatedBy: &createdBy,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if len(req.CategoryIDs) > 0 {
			if err := s.assignCategories(tx, user, req.CategoryIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(user.ID)
}

func (s *UserService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.Name != "" {
			user.Name = req.Name
		}
		if req.Phone != "" {
			user.Phone = req.Phone
		}
		if req.RoleID != nil {
			var role models.Role
			if err := tx.First(&role, *req.RoleID).Error; err != nil {
				return errors.New("role not found")
			}
			user.RoleID = role.ID
		}
		if req.ShopID != nil {
			user.ShopID = req.ShopID
		}
		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		if req.CategoryIDs != nil {
			if err := s.assignCategories(tx, &user, req.CategoryIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(user.ID)
}

// SetActive flips account access. A deactivated user fails every
// authenticated request on the next token check.
func (s *UserService) SetActive(userID uuid.UUID, active bool) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	if err := s.db.Model(&user).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.IsActive = active
	return &user, nil
}

func (s *UserService) DeleteUser(userID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}

	if err := s.db.Delete(&user).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *UserService) assignCategories(tx *gorm.DB, user *models.User, categoryIDs []uuid.UUID) error {
	var categories []models.Category
	if len(categoryIDs) > 0 {
		if err := tx.Find(&categories, categoryIDs).Error; err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		if len(categories) != len(categoryIDs) {
			return errors.New("one or more categories not found")
		}
	}
	if err := tx.Model(user).Association("AllowedCategories").Replace(categories); err != nil {
		return fmt.Errorf("failed to assign categories: %w", err)
	}
	return nil
}
