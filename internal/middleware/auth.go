// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/i18n"
	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"
)

// AuthRequired validates the bearer token and loads the acting user with its
// role and permissions. Requests with an invalid token, a missing user, or an
// inactive account are rejected with 401.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthRequired),
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthInvalidToken),
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthTokenExpired),
			})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthInvalidToken),
			})
			c.Abort()
			return
		}

		var user models.User
		if err := db.Preload("Role.Permissions").Preload("AllowedCategories").
			First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthInvalidToken),
			})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthAccountInactive),
			})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, &user)
		c.Set(ContextUserIDKey, user.ID.String())
		c.Set(ContextRoleKey, user.Role.Name)
		c.Next()
	}
}

// CheckPermission gates a route on a fine-grained "resource.action"
// permission. 401 without an authenticated user, 403 without the permission.
func CheckPermission(resource models.PermissionResource, action models.PermissionAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		user, ok := GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthRequired),
			})
			c.Abort()
			return
		}

		if user.Role.ID == uuid.Nil || !user.Role.IsActive {
			c.JSON(http.StatusForbidden, gin.H{
				"error": i18n.T(lang, i18n.KeyPermissionDenied),
			})
			c.Abort()
			return
		}

		if !user.HasPermission(resource, action) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": i18n.T(lang, i18n.KeyPermissionDenied),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleRequired performs coarse role-name matching. Some routes use this
// instead of CheckPermission; both styles coexist.
func RoleRequired(roleNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		roleName, exists := c.Get(ContextRoleKey)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthRequired),
			})
			c.Abort()
			return
		}

		for _, name := range roleNames {
			if roleName == name {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": i18n.T(lang, i18n.KeyAccessDenied),
		})
		c.Abort()
	}
}

// OptionalAuth loads the user when a valid token is present and silently
// continues otherwise.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			c.Next()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		var user models.User
		if err := db.Preload("Role.Permissions").First(&user, userID).Error; err != nil {
			c.Next()
			return
		}

		if user.IsActive {
			c.Set(ContextUserKey, &user)
			c.Set(ContextUserIDKey, user.ID.String())
			c.Set(ContextRoleKey, user.Role.Name)
		}
		c.Next()
	}
}

func GetUserFromContext(c *gin.Context) (*models.User, bool) {
	if v, exists := c.Get(ContextUserKey); exists {
		if user, ok := v.(*models.User); ok {
			return user, true
		}
	}
	return nil, false
}
