// internal/handlers/role.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/idreamhq/idream-backend/internal/i18n"
	"github.com/idreamhq/idream-backend/internal/services"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type RoleHandler struct {
	roleService *services.RoleService
}

func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// GET /roles
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"roles": roles})
}

// GET /roles/:id
func (h *RoleHandler) GetRole(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid role id", nil)
		return
	}

	role, err := h.roleService.GetRole(roleID)
	if err != nil {
		utils.NotFoundResponse(c, "role")
		return
	}
	utils.SuccessResponse(c, gin.H{"role": role})
}

// POST /roles
func (h *RoleHandler) CreateRole(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	role, err := h.roleService.CreateRole(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.CreatedResponse(c, gin.H{"role": role})
}

// PUT /roles/:id
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid role id", nil)
		return
	}

	var req services.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	role, err := h.roleService.UpdateRole(roleID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	utils.SuccessResponse(c, gin.H{"role": role})
}

// DELETE /roles/:id
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid role id", nil)
		return
	}

	if err := h.roleService.DeleteRole(roleID); err != nil {
		if err.Error() == "role not found" {
			utils.NotFoundResponse(c, "role")
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyRoleInUse), err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// GET /permissions
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.roleService.ListPermissions()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"permissions": permissions})
}

// PATCH /permissions/:id/activate and /permissions/:id/deactivate
func (h *RoleHandler) SetPermissionActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		permissionID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "invalid permission id", nil)
			return
		}

		permission, err := h.roleService.SetPermissionActive(permissionID, active)
		if err != nil {
			utils.NotFoundResponse(c, "permission")
			return
		}
		utils.SuccessResponse(c, gin.H{"permission": permission})
	}
}
