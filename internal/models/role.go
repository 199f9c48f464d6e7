// internal/models/role.go
package models

type Role struct {
	BaseModel
	Name        string `json:"name" gorm:"uniqueIndex;size:50;not null"`
	Description string `json:"description" gorm:"size:255"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions"`
	Users       []User       `json:"users,omitempty" gorm:"foreignKey:RoleID"`
}

type Permission struct {
	BaseModel
	Name     string             `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Resource PermissionResource `json:"resource" gorm:"type:varchar(50);not null;index"`
	Action   PermissionAction   `json:"action" gorm:"type:varchar(50);not null"`
	IsActive bool               `json:"is_active" gorm:"default:true"`
}

// PermissionName builds the canonical "resource.action" permission name.
func PermissionName(resource PermissionResource, action PermissionAction) string {
	return string(resource) + "." + string(action)
}
