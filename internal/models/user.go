// internal/models/user.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	BaseModel
	Email           string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string     `json:"-" gorm:"size:255;not null"`
	Name            string     `json:"name" gorm:"size:100"`
	Phone           string     `json:"phone" gorm:"size:20"`
	RoleID          uuid.UUID  `json:"role_id" gorm:"type:uuid;not null;index"`
	ShopID          *uuid.UUID `json:"shop_id" gorm:"type:uuid;index"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
	IsEmailVerified bool       `json:"is_email_verified" gorm:"default:false"`
	LastLoginAt     *time.Time `json:"last_login_at"`
	CreatedBy       *uuid.UUID `json:"created_by" gorm:"type:uuid"`

	// Relationships
	Role              Role       `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	Shop              *Shop      `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
	AllowedCategories []Category `json:"allowed_categories,omitempty" gorm:"many2many:user_allowed_categories"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// HasPermission reports whether the user's role carries an active permission
// named exactly "resource.action". The role and its permissions must already
// be preloaded.
func (u *User) HasPermission(resource PermissionResource, action PermissionAction) bool {
	want := string(resource) + "." + string(action)
	for _, p := range u.Role.Permissions {
		if p.IsActive && p.Name == want {
			return true
		}
	}
	return false
}
