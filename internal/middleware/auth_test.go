// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	user   *models.User
	role   *models.Role
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.db = newTestDB(s.T())
	utils.SetJWTSecret("middleware-test-secret")

	permission := models.Permission{
		Name:     models.PermissionName(models.ResourceProducts, models.ActionCreate),
		Resource: models.ResourceProducts,
		Action:   models.ActionCreate,
		IsActive: true,
	}
	s.role = &models.Role{
		Name:        "editor",
		IsActive:    true,
		Permissions: []models.Permission{permission},
	}
	s.Require().NoError(s.db.Create(s.role).Error)

	s.user = &models.User{
		Email:    "editor@test.com",
		RoleID:   s.role.ID,
		IsActive: true,
	}
	s.Require().NoError(s.user.SetPassword("Str0ngPass"))
	s.Require().NoError(s.db.Create(s.user).Error)

	s.router = gin.New()
	authed := s.router.Group("/", AuthRequired(s.db))
	authed.GET("/me", func(c *gin.Context) {
		user, ok := GetUserFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	authed.POST("/products",
		CheckPermission(models.ResourceProducts, models.ActionCreate),
		func(c *gin.Context) { c.Status(http.StatusCreated) })
	authed.DELETE("/products",
		CheckPermission(models.ResourceProducts, models.ActionDelete),
		func(c *gin.Context) { c.Status(http.StatusOK) })
}

func (s *AuthMiddlewareTestSuite) request(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *AuthMiddlewareTestSuite) token() string {
	token, err := utils.GenerateJWT(s.user.ID, s.user.Email, s.role.Name, 1)
	s.Require().NoError(err)
	return token
}

func (s *AuthMiddlewareTestSuite) TestValidTokenLoadsUser() {
	w := s.request("GET", "/me", s.token())
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "editor@test.com")
}

func (s *AuthMiddlewareTestSuite) TestMissingHeaderRejected() {
	w := s.request("GET", "/me", "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestGarbageTokenRejected() {
	w := s.request("GET", "/me", "garbage")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestTokenForUnknownUserRejected() {
	token, err := utils.GenerateJWT(uuid.New(), "ghost@test.com", "editor", 1)
	s.Require().NoError(err)

	w := s.request("GET", "/me", token)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestDeactivatedUserRejected() {
	s.Require().NoError(s.db.Model(&models.User{}).Where("id = ?", s.user.ID).
		UpdateColumn("is_active", false).Error)

	w := s.request("GET", "/me", s.token())
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestPermissionGranted() {
	w := s.request("POST", "/products", s.token())
	s.Equal(http.StatusCreated, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestMissingPermissionForbidden() {
	w := s.request("DELETE", "/products", s.token())
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestInactivePermissionForbidden() {
	s.Require().NoError(s.db.Model(&models.Permission{}).
		Where("resource = ? AND action = ?", models.ResourceProducts, models.ActionCreate).
		UpdateColumn("is_active", false).Error)

	w := s.request("POST", "/products", s.token())
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *AuthMiddlewareTestSuite) TestInactiveRoleForbidden() {
	s.Require().NoError(s.db.Model(&models.Role{}).Where("id = ?", s.role.ID).
		UpdateColumn("is_active", false).Error)

	w := s.request("POST", "/products", s.token())
	s.Equal(http.StatusForbidden, w.Code)
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}
