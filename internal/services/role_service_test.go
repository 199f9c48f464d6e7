// internal/services/role_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
)

type RoleServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *RoleService
}

func (s *RoleServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewRoleService(s.db)
}

func (s *RoleServiceTestSuite) seedPermission(resource models.PermissionResource, action models.PermissionAction) *models.Permission {
	permission := &models.Permission{
		Name:     models.PermissionName(resource, action),
		Resource: resource,
		Action:   action,
		IsActive: true,
	}
	s.Require().NoError(s.db.Create(permission).Error)
	return permission
}

func (s *RoleServiceTestSuite) TestCreateRoleWithPermissions() {
	read := s.seedPermission(models.ResourceShops, models.ActionRead)

	role, err := s.svc.CreateRole(&CreateRoleRequest{
		Name:          "auditor",
		PermissionIDs: []uuid.UUID{read.ID},
	})
	s.Require().NoError(err)

	loaded, err := s.svc.GetRole(role.ID)
	s.Require().NoError(err)
	s.Require().Len(loaded.Permissions, 1)
	s.Equal(read.Name, loaded.Permissions[0].Name)
}

func (s *RoleServiceTestSuite) TestCreateRoleRejectsUnknownPermission() {
	_, err := s.svc.CreateRole(&CreateRoleRequest{
		Name:          "auditor",
		PermissionIDs: []uuid.UUID{uuid.New()},
	})
	s.Error(err)
}

func (s *RoleServiceTestSuite) TestDeleteRoleBlockedWhileAssigned() {
	role, err := s.svc.CreateRole(&CreateRoleRequest{Name: "auditor"})
	s.Require().NoError(err)
	createTestUser(s.T(), s.db, "auditor@test.com", role)

	s.Error(s.svc.DeleteRole(role.ID))

	// Nothing changed.
	var count int64
	s.db.Model(&models.Role{}).Where("id = ?", role.ID).Count(&count)
	s.Equal(int64(1), count)
}

func (s *RoleServiceTestSuite) TestDeleteUnassignedRole() {
	role, err := s.svc.CreateRole(&CreateRoleRequest{Name: "auditor"})
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeleteRole(role.ID))
	_, err = s.svc.GetRole(role.ID)
	s.Error(err)
}

func (s *RoleServiceTestSuite) TestUpdateRoleReplacesPermissions() {
	read := s.seedPermission(models.ResourceShops, models.ActionRead)
	update := s.seedPermission(models.ResourceShops, models.ActionUpdate)

	role, err := s.svc.CreateRole(&CreateRoleRequest{
		Name:          "auditor",
		PermissionIDs: []uuid.UUID{read.ID},
	})
	s.Require().NoError(err)

	_, err = s.svc.UpdateRole(role.ID, &UpdateRoleRequest{
		PermissionIDs: []uuid.UUID{update.ID},
	})
	s.Require().NoError(err)

	loaded, err := s.svc.GetRole(role.ID)
	s.Require().NoError(err)
	s.Require().Len(loaded.Permissions, 1)
	s.Equal(update.Name, loaded.Permissions[0].Name)
}

func (s *RoleServiceTestSuite) TestTogglingPermissionAffectsEveryRole() {
	read := s.seedPermission(models.ResourceShops, models.ActionRead)
	role, err := s.svc.CreateRole(&CreateRoleRequest{
		Name:          "auditor",
		PermissionIDs: []uuid.UUID{read.ID},
	})
	s.Require().NoError(err)

	_, err = s.svc.SetPermissionActive(read.ID, false)
	s.Require().NoError(err)

	loaded, err := s.svc.GetRole(role.ID)
	s.Require().NoError(err)

	user := models.User{Role: *loaded}
	s.False(user.HasPermission(models.ResourceShops, models.ActionRead))
}

func TestRoleServiceSuite(t *testing.T) {
	suite.Run(t, new(RoleServiceTestSuite))
}
