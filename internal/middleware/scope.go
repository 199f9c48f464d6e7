// internal/middleware/scope.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
)

const ContextScopeKey = "scope"

// Scope is the per-request row visibility, resolved once from the acting
// user's role and injected into every admin query instead of being
// re-implemented per controller.
type Scope struct {
	// All grants unrestricted visibility.
	All bool
	// ShopID restricts rows to a single shop.
	ShopID *uuid.UUID
	// CategoryIDs restricts shops (and their products) to these categories.
	CategoryIDs []uuid.UUID
	// CreatedBy restricts shops to ones the user created. Fallback for mall
	// admins with no assigned categories.
	CreatedBy *uuid.UUID
}

// ResolveScope computes the scope for the authenticated user. Must run after
// AuthRequired.
func ResolveScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserFromContext(c)
		if !ok {
			c.Next()
			return
		}

		scope := ScopeForUser(user)
		c.Set(ContextScopeKey, scope)
		c.Next()
	}
}

func ScopeForUser(user *models.User) *Scope {
	switch user.Role.Name {
	case models.RoleShopAdmin:
		return &Scope{ShopID: user.ShopID}
	case models.RoleMallAdmin:
		if len(user.AllowedCategories) > 0 {
			ids := make([]uuid.UUID, 0, len(user.AllowedCategories))
			for _, cat := range user.AllowedCategories {
				ids = append(ids, cat.ID)
			}
			return &Scope{CategoryIDs: ids}
		}
		createdBy := user.ID
		return &Scope{CreatedBy: &createdBy}
	default:
		return &Scope{All: true}
	}
}

// ApplyShops narrows a shops query to the scope.
func (s *Scope) ApplyShops(db *gorm.DB) *gorm.DB {
	if s == nil || s.All {
		return db
	}
	if s.ShopID != nil {
		return db.Where("shops.id = ?", *s.ShopID)
	}
	if len(s.CategoryIDs) > 0 {
		return db.Where("shops.category_id IN ?", s.CategoryIDs)
	}
	if s.CreatedBy != nil {
		return db.Where("shops.created_by = ?", *s.CreatedBy)
	}
	// A scope with no visible rows matches nothing.
	return db.Where("1 = 0")
}

// ApplyProducts narrows a products query to the scope.
func (s *Scope) ApplyProducts(db *gorm.DB) *gorm.DB {
	if s == nil || s.All {
		return db
	}
	if s.ShopID != nil {
		return db.Where("products.shop_id = ?", *s.ShopID)
	}
	if len(s.CategoryIDs) > 0 {
		return db.Joins("JOIN shops ON shops.id = products.shop_id").
			Where("shops.category_id IN ?", s.CategoryIDs)
	}
	if s.CreatedBy != nil {
		return db.Joins("JOIN shops ON shops.id = products.shop_id").
			Where("shops.created_by = ?", *s.CreatedBy)
	}
	return db.Where("1 = 0")
}

// AllowsShop reports whether a specific shop id is visible under the scope.
func (s *Scope) AllowsShop(db *gorm.DB, shopID uuid.UUID) bool {
	if s == nil || s.All {
		return true
	}
	if s.ShopID != nil {
		return *s.ShopID == shopID
	}
	var count int64
	s.ApplyShops(db.Model(&models.Shop{}).Where("shops.id = ?", shopID)).Count(&count)
	return count > 0
}

func GetScopeFromContext(c *gin.Context) *Scope {
	if v, exists := c.Get(ContextScopeKey); exists {
		if scope, ok := v.(*Scope); ok {
			return scope
		}
	}
	return &Scope{All: true}
}
