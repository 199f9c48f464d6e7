// internal/services/auth_service_test.go
package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	cfg := testConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	s.svc = NewAuthService(s.db, cfg)

	createTestRole(s.T(), s.db, models.RoleGuest)
}

func (s *AuthServiceTestSuite) register(email string) *AuthResponse {
	resp, err := s.svc.Register(&RegisterRequest{
		Name:     "Sara",
		Email:    email,
		Password: "Str0ngPass",
	})
	s.Require().NoError(err)
	return resp
}

func (s *AuthServiceTestSuite) TestRegisterAssignsGuestRole() {
	resp := s.register("sara@test.com")

	s.Equal(models.RoleGuest, resp.User.Role.Name)
	s.NotEmpty(resp.AccessToken)
	s.NotEmpty(resp.RefreshToken)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	s.Require().NoError(err)
	s.Equal(resp.User.ID.String(), claims.UserID)
	s.Equal(models.RoleGuest, claims.Role)
}

func (s *AuthServiceTestSuite) TestRegisterRejectsDuplicateEmail() {
	s.register("sara@test.com")

	_, err := s.svc.Register(&RegisterRequest{
		Name:     "Other",
		Email:    "sara@test.com",
		Password: "Str0ngPass",
	})
	s.Error(err)
}

func (s *AuthServiceTestSuite) TestRegisterRejectsShortPassword() {
	_, err := s.svc.Register(&RegisterRequest{
		Name:     "Sara",
		Email:    "sara@test.com",
		Password: "tiny",
	})
	s.Error(err)
}

// Registration only asks for an email and a password; name and phone are
// optional and the phone is free-form.
func (s *AuthServiceTestSuite) TestRegisterMinimalPayload() {
	resp, err := s.svc.Register(&RegisterRequest{
		Email:    "a@test.com",
		Phone:    "123",
		Password: "secret1",
	})
	s.Require().NoError(err)
	s.Equal("a@test.com", resp.User.Email)
	s.Equal(models.RoleGuest, resp.User.Role.Name)

	_, err = s.svc.Login(&LoginRequest{Email: "a@test.com", Password: "secret1"})
	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestEmailCaseInsensitive() {
	s.register("Mixed.Case@Test.com")

	resp, err := s.svc.Login(&LoginRequest{Email: "Mixed.Case@Test.com", Password: "Str0ngPass"})
	s.Require().NoError(err)
	s.Equal("mixed.case@test.com", resp.User.Email)

	_, err = s.svc.Register(&RegisterRequest{
		Email:    "MIXED.CASE@TEST.COM",
		Password: "Str0ngPass",
	})
	s.EqualError(err, "user with this email already exists")
}

func (s *AuthServiceTestSuite) TestLogin() {
	s.register("sara@test.com")

	resp, err := s.svc.Login(&LoginRequest{Email: "sara@test.com", Password: "Str0ngPass"})
	s.Require().NoError(err)
	s.NotEmpty(resp.AccessToken)
	s.NotNil(resp.User.LastLoginAt)
}

func (s *AuthServiceTestSuite) TestLoginWrongPassword() {
	s.register("sara@test.com")

	_, err := s.svc.Login(&LoginRequest{Email: "sara@test.com", Password: "WrongPass1"})
	s.EqualError(err, "invalid email or password")
}

func (s *AuthServiceTestSuite) TestLoginDeactivatedAccount() {
	resp := s.register("sara@test.com")
	s.Require().NoError(s.db.Model(&models.User{}).Where("id = ?", resp.User.ID).
		UpdateColumn("is_active", false).Error)

	_, err := s.svc.Login(&LoginRequest{Email: "sara@test.com", Password: "Str0ngPass"})
	s.EqualError(err, "account is deactivated")
}

func (s *AuthServiceTestSuite) TestPasswordHashNeverSerialized() {
	resp := s.register("sara@test.com")

	payload, err := json.Marshal(resp.User)
	s.Require().NoError(err)
	s.NotContains(string(payload), "Str0ngPass")
	s.NotContains(string(payload), resp.User.PasswordHash)
	s.NotContains(string(payload), "password_hash")
}

func (s *AuthServiceTestSuite) TestRefreshTokenIssuesNewAccessToken() {
	resp := s.register("sara@test.com")

	refreshed, err := s.svc.RefreshToken(resp.RefreshToken)
	s.Require().NoError(err)
	s.Equal(resp.User.ID, refreshed.User.ID)

	claims, err := utils.ValidateJWT(refreshed.AccessToken)
	s.Require().NoError(err)
	s.Equal(resp.User.ID.String(), claims.UserID)
}

func (s *AuthServiceTestSuite) TestRefreshTokenRejectsGarbage() {
	_, err := s.svc.RefreshToken("not-a-token")
	s.Error(err)
}

func (s *AuthServiceTestSuite) TestChangePassword() {
	resp := s.register("sara@test.com")

	err := s.svc.ChangePassword(resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "WrongPass1",
		NewPassword:     "NewStr0ngPass",
	})
	s.Error(err)

	err = s.svc.ChangePassword(resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "Str0ngPass",
		NewPassword:     "NewStr0ngPass",
	})
	s.Require().NoError(err)

	_, err = s.svc.Login(&LoginRequest{Email: "sara@test.com", Password: "NewStr0ngPass"})
	s.NoError(err)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
