// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/middleware"
	"github.com/idreamhq/idream-backend/internal/models"
)

type ProductServiceTestSuite struct {
	suite.Suite
	db    *gorm.DB
	subs  *SubscriptionService
	svc   *ProductService
	shop  *models.Shop
	scope *middleware.Scope
}

func (s *ProductServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.subs = NewSubscriptionService(s.db, testConfig())
	s.svc = NewProductService(s.db, s.subs)

	plan := createTestPlan(s.T(), s.db, "Free", 0, map[string]int64{
		models.LimitMaxProducts:  2,
		models.LimitMaxHotOffers: 1,
	})

	category := createTestCategory(s.T(), s.db, "Food")
	s.shop = createTestShop(s.T(), s.db, "bakery", category.ID)
	activateTestSubscription(s.T(), s.db, s.shop.ID, plan.ID)
	s.scope = &middleware.Scope{All: true}
}

func (s *ProductServiceTestSuite) createProduct(name string, hot bool) (*models.Product, error) {
	return s.svc.CreateProduct(s.scope, &CreateProductRequest{
		Name:       name,
		Price:      10,
		ShopID:     s.shop.ID,
		IsHotOffer: hot,
	}, uuid.New())
}

func (s *ProductServiceTestSuite) productCount() int64 {
	var count int64
	s.db.Model(&models.Product{}).Where("shop_id = ?", s.shop.ID).Count(&count)
	return count
}

func (s *ProductServiceTestSuite) usage(key string) int64 {
	var usage models.SubscriptionUsage
	err := s.db.Where("shop_id = ? AND limit_key = ?", s.shop.ID, key).First(&usage).Error
	if err != nil {
		return 0
	}
	return usage.Used
}

func (s *ProductServiceTestSuite) TestCreateStopsAtPlanLimit() {
	_, err := s.createProduct("croissant", false)
	s.Require().NoError(err)
	_, err = s.createProduct("baguette", false)
	s.Require().NoError(err)

	_, err = s.createProduct("eclair", false)
	s.ErrorIs(err, ErrLimitExceeded)

	s.Equal(int64(2), s.productCount())
	s.Equal(int64(2), s.usage(models.LimitMaxProducts))
}

func (s *ProductServiceTestSuite) TestFailedHotOfferCreateRollsBackProductQuota() {
	_, err := s.createProduct("croissant", true)
	s.Require().NoError(err)

	// The second hot offer fails, and the product quota it consumed inside
	// the same transaction must come back.
	_, err = s.createProduct("baguette", true)
	s.ErrorIs(err, ErrLimitExceeded)

	s.Equal(int64(1), s.productCount())
	s.Equal(int64(1), s.usage(models.LimitMaxProducts))
	s.Equal(int64(1), s.usage(models.LimitMaxHotOffers))
}

func (s *ProductServiceTestSuite) TestDeleteReleasesQuota() {
	first, err := s.createProduct("croissant", false)
	s.Require().NoError(err)
	_, err = s.createProduct("baguette", false)
	s.Require().NoError(err)

	_, err = s.createProduct("eclair", false)
	s.Require().ErrorIs(err, ErrLimitExceeded)

	s.Require().NoError(s.svc.DeleteProduct(s.scope, first.ID))

	_, err = s.createProduct("eclair", false)
	s.NoError(err)
}

func (s *ProductServiceTestSuite) TestSetHotOfferHonorsLimit() {
	first, err := s.createProduct("croissant", false)
	s.Require().NoError(err)
	second, err := s.createProduct("baguette", false)
	s.Require().NoError(err)

	_, err = s.svc.SetHotOffer(s.scope, first.ID, true)
	s.Require().NoError(err)

	_, err = s.svc.SetHotOffer(s.scope, second.ID, true)
	s.ErrorIs(err, ErrLimitExceeded)

	// Clearing the flag returns the slot.
	_, err = s.svc.SetHotOffer(s.scope, first.ID, false)
	s.Require().NoError(err)
	_, err = s.svc.SetHotOffer(s.scope, second.ID, true)
	s.NoError(err)
}

func (s *ProductServiceTestSuite) TestNewProductsStartWithDefaultRating() {
	product, err := s.createProduct("croissant", false)
	s.Require().NoError(err)
	s.Equal(models.DefaultRating, product.AverageRating)
	s.False(product.IsActive)
	s.False(product.IsApproved)
}

func (s *ProductServiceTestSuite) TestProductInheritsShopCategory() {
	product, err := s.createProduct("croissant", false)
	s.Require().NoError(err)
	s.Equal(s.shop.CategoryID, product.CategoryID)
}

func (s *ProductServiceTestSuite) TestShopAdminCannotCreateInForeignShop() {
	other := createTestShop(s.T(), s.db, "rival", s.shop.CategoryID)
	scope := &middleware.Scope{ShopID: &other.ID}

	_, err := s.svc.CreateProduct(scope, &CreateProductRequest{
		Name:   "croissant",
		Price:  10,
		ShopID: s.shop.ID,
	}, uuid.New())
	s.Error(err)
	s.Equal(int64(0), s.productCount())
}

func (s *ProductServiceTestSuite) TestMallAdminScopeFiltersByCategory() {
	otherCategory := createTestCategory(s.T(), s.db, "Toys")
	otherShop := createTestShop(s.T(), s.db, "toystore", otherCategory.ID)

	_, err := s.createProduct("croissant", false)
	s.Require().NoError(err)
	_, err = s.svc.CreateProduct(s.scope, &CreateProductRequest{
		Name:   "teddy",
		Price:  30,
		ShopID: otherShop.ID,
	}, uuid.New())
	s.Require().NoError(err)

	scope := &middleware.Scope{CategoryIDs: []uuid.UUID{s.shop.CategoryID}}
	result, err := s.svc.ListProducts(scope, ProductFilters{}, testPaginationParams())
	s.Require().NoError(err)
	s.Equal(int64(1), result.Total)
}

func (s *ProductServiceTestSuite) TestActivateStampsApprover() {
	product, err := s.createProduct("croissant", false)
	s.Require().NoError(err)

	approver := uuid.New()
	activated, err := s.svc.Activate(product.ID, approver)
	s.Require().NoError(err)
	s.True(activated.IsActive)
	s.True(activated.IsApproved)
	s.Require().NotNil(activated.ApprovedBy)
	s.Equal(approver, *activated.ApprovedBy)
	s.NotNil(activated.ApprovedAt)
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
