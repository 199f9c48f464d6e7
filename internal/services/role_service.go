// internal/services/role_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type RoleService struct {
	db *gorm.DB
}

type CreateRoleRequest struct {
	Name          string      `json:"name" validate:"required,min=2,max=50"`
	Description   string      `json:"description" validate:"max=255"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

type UpdateRoleRequest struct {
	Description   string      `json:"description" validate:"max=255"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

func (s *RoleService) ListRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.Preload("Permissions").Order("name asc").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (s *RoleService) GetRole(roleID uuid.UUID) (*models.Role, error) {
	var role models.Role
	if err := s.db.Preload("Permissions").First(&role, roleID).Error; err != nil {
		return nil, errors.New("role not found")
	}
	return &role, nil
}

func (s *RoleService) CreateRole(req *CreateRoleRequest) (*models.Role, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.Role
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, errors.New("role with this name already exists")
	}

	role := &models.Role{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}
		return s.replacePermissions(tx, role, req.PermissionIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(role.ID)
}

func (s *RoleService) UpdateRole(roleID uuid.UUID, req *UpdateRoleRequest) (*models.Role, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var role models.Role
	if err := s.db.First(&role, roleID).Error; err != nil {
		return nil, errors.New("role not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.Description != "" {
			role.Description = req.Description
		}
		if err := tx.Save(&role).Error; err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}
		if req.PermissionIDs != nil {
			return s.replacePermissions(tx, &role, req.PermissionIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(role.ID)
}

// DeleteRole refuses to remove a role that still has users; reassignment is
// the caller's responsibility.
func (s *RoleService) DeleteRole(roleID uuid.UUID) error {
	var role models.Role
	if err := s.db.First(&role, roleID).Error; err != nil {
		return errors.New("role not found")
	}

	var userCount int64
	if err := s.db.Model(&models.User{}).Where("role_id = ?", roleID).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to check role usage: %w", err)
	}
	if userCount > 0 {
		return errors.New("role is assigned to users and cannot be deleted")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&role).Association("Permissions").Clear(); err != nil {
			return fmt.Errorf("failed to clear role permissions: %w", err)
		}
		if err := tx.Delete(&role).Error; err != nil {
			return fmt.Errorf("failed to delete role: %w", err)
		}
		return nil
	})
}

func (s *RoleService) ListPermissions() ([]models.Permission, error) {
	var permissions []models.Permission
	if err := s.db.Order("resource asc, action asc").Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return permissions, nil
}

// SetPermissionActive toggles a permission globally. An inactive permission
// stops granting access even to roles that carry it.
func (s *RoleService) SetPermissionActive(permissionID uuid.UUID, active bool) (*models.Permission, error) {
	var permission models.Permission
	if err := s.db.First(&permission, permissionID).Error; err != nil {
		return nil, errors.New("permission not found")
	}

	if err := s.db.Model(&permission).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update permission: %w", err)
	}
	permission.IsActive = active
	return &permission, nil
}

func (s *RoleService) replacePermissions(tx *gorm.DB, role *models.Role, permissionIDs []uuid.UUID) error {
	var permissions []models.Permission
	if len(permissionIDs) > 0 {
		if err := tx.Find(&permissions, permissionIDs).Error; err != nil {
			return fmt.Errorf("failed to load permissions: %w", err)
		}
		if len(permissions) != len(permissionIDs) {
			return errors.New("one or more permissions not found")
		}
	}
	if err := tx.Model(role).Association("Permissions").Replace(permissions); err != nil {
		return fmt.Errorf("failed to assign permissions: %w", err)
	}
	return nil
}
