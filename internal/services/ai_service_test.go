// internal/services/ai_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/models"
)

func TestFallbackIntentKeywords(t *testing.T) {
	intent := fallbackIntent("I want a red dress please")
	assert.Equal(t, "products", intent.Target)
	assert.Equal(t, []string{"red", "dress"}, intent.Keywords)
	assert.Nil(t, intent.MaxPrice)
	assert.False(t, intent.HotOffer)
}

func TestFallbackIntentDetectsShops(t *testing.T) {
	intent := fallbackIntent("show me shoe shops")
	assert.Equal(t, "shops", intent.Target)
	assert.Contains(t, intent.Keywords, "shoe")
}

func TestFallbackIntentDetectsShopsArabic(t *testing.T) {
	intent := fallbackIntent("عايز محل احذية")
	assert.Equal(t, "shops", intent.Target)
}

func TestFallbackIntentParsesMaxPrice(t *testing.T) {
	intent := fallbackIntent("find shoes under 500")
	assert.Equal(t, "products", intent.Target)
	if assert.NotNil(t, intent.MaxPrice) {
		assert.Equal(t, 500.0, *intent.MaxPrice)
	}
	assert.NotContains(t, intent.Keywords, "500")
}

func TestFallbackIntentDetectsHotOffers(t *testing.T) {
	assert.True(t, fallbackIntent("any offers on phones?").HotOffer)
	assert.True(t, fallbackIntent("فيه عروض؟").HotOffer)
	assert.False(t, fallbackIntent("a phone").HotOffer)
}

type AIServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *AIService
}

func (s *AIServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	// No API key configured, so intent extraction uses the keyword fallback.
	s.svc = NewAIService(s.db, testConfig())

	category := createTestCategory(s.T(), s.db, "Fashion")
	shop := createTestShop(s.T(), s.db, "trendy", category.ID)

	low := createTestProduct(s.T(), s.db, shop, "Blue Dress", 200)
	s.Require().NoError(s.db.Model(low).UpdateColumn("average_rating", 3.0).Error)
	high := createTestProduct(s.T(), s.db, shop, "Red Dress", 800)
	s.Require().NoError(s.db.Model(high).UpdateColumn("average_rating", 4.8).Error)
	createTestProduct(s.T(), s.db, shop, "Leather Jacket", 1500)
}

func (s *AIServiceTestSuite) TestChatFindsProductsByKeyword() {
	resp, err := s.svc.Chat(context.Background(), "en", &ChatRequest{Message: "I want a dress"})
	s.Require().NoError(err)
	s.Require().Len(resp.Products, 2)
	// Best rated first.
	s.Equal("Red Dress", resp.Products[0].Name)
	s.NotEmpty(resp.Reply)
}

func (s *AIServiceTestSuite) TestChatAppliesPriceCeiling() {
	resp, err := s.svc.Chat(context.Background(), "en", &ChatRequest{Message: "dress under 500"})
	s.Require().NoError(err)
	s.Require().Len(resp.Products, 1)
	s.Equal("Blue Dress", resp.Products[0].Name)
}

func (s *AIServiceTestSuite) TestChatFindsShops() {
	resp, err := s.svc.Chat(context.Background(), "en", &ChatRequest{Message: "show me trendy shops"})
	s.Require().NoError(err)
	s.Require().Len(resp.Shops, 1)
	s.Empty(resp.Products)
}

func (s *AIServiceTestSuite) TestChatNoResults() {
	resp, err := s.svc.Chat(context.Background(), "en", &ChatRequest{Message: "spaceship"})
	s.Require().NoError(err)
	s.Empty(resp.Products)
	s.Empty(resp.Shops)
	s.NotEmpty(resp.Reply)
}

func (s *AIServiceTestSuite) TestChatIgnoresInactiveProducts() {
	s.Require().NoError(s.db.Model(&models.Product{}).
		Where("name = ?", "Red Dress").UpdateColumn("is_active", false).Error)

	resp, err := s.svc.Chat(context.Background(), "en", &ChatRequest{Message: "dress"})
	s.Require().NoError(err)
	s.Require().Len(resp.Products, 1)
	s.Equal("Blue Dress", resp.Products[0].Name)
}

func (s *AIServiceTestSuite) TestChatRejectsTooShortMessage() {
	_, err := s.svc.Chat(context.Background(), "en", &ChatRequest{Message: "a"})
	s.Error(err)
}

func TestAIServiceSuite(t *testing.T) {
	suite.Run(t, new(AIServiceTestSuite))
}
