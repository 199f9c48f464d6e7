// internal/services/order_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/middleware"
	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

func TestBuildWhatsappLink(t *testing.T) {
	link := buildWhatsappLink("+201001234567", []string{"2x Koshari (50.00)"}, 50, "")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/201001234567?text="), link)
	assert.Contains(t, link, "New+order")
	assert.Contains(t, link, "Total%3A+50.00+EGP")
	assert.NotContains(t, link, "Note")
}

func TestBuildWhatsappLinkPrefixesLocalNumbers(t *testing.T) {
	link := buildWhatsappLink("01001234567", []string{"1x Tea (10.00)"}, 10, "no sugar")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/201001234567?text="), link)
	assert.Contains(t, link, "Note%3A+no+sugar")
}

type OrderServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	svc      *OrderService
	shop     *models.Shop
	products []*models.Product
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewOrderService(s.db)

	category := createTestCategory(s.T(), s.db, "Food")
	s.shop = createTestShop(s.T(), s.db, "kitchen", category.ID)
	s.products = []*models.Product{
		createTestProduct(s.T(), s.db, s.shop, "Koshari", 25),
		createTestProduct(s.T(), s.db, s.shop, "Molokhia", 40),
	}
}

func (s *OrderServiceTestSuite) TestCreateOrderSnapshotsPrices() {
	resp, err := s.svc.CreateOrder(nil, &CreateOrderRequest{
		ShopID: s.shop.ID,
		Items: []OrderItemInput{
			{ProductID: s.products[0].ID, Quantity: 2},
			{ProductID: s.products[1].ID, Quantity: 1},
		},
		Note: "extra spicy",
	})
	s.Require().NoError(err)
	s.Equal(90.0, resp.Order.TotalPrice)
	s.True(strings.HasPrefix(resp.WhatsappLink, "https://wa.me/2"))

	// Later price edits must not rewrite the logged order.
	s.Require().NoError(s.db.Model(&models.Product{}).Where("id = ?", s.products[0].ID).
		UpdateColumn("price", 999).Error)

	var reloaded models.OrderLog
	s.Require().NoError(s.db.First(&reloaded, resp.Order.ID).Error)
	s.Equal(90.0, reloaded.TotalPrice)

	items, ok := reloaded.Items["items"].([]interface{})
	s.Require().True(ok)
	s.Len(items, 2)
}

func (s *OrderServiceTestSuite) TestCreateOrderAllowsRepeatedProductLines() {
	resp, err := s.svc.CreateOrder(nil, &CreateOrderRequest{
		ShopID: s.shop.ID,
		Items: []OrderItemInput{
			{ProductID: s.products[0].ID, Quantity: 1},
			{ProductID: s.products[0].ID, Quantity: 2},
		},
	})
	s.Require().NoError(err)
	s.Equal(s.products[0].Price*3, resp.Order.TotalPrice)

	items, ok := resp.Order.Items["items"].([]map[string]interface{})
	s.Require().True(ok)
	s.Len(items, 2)
}

func (s *OrderServiceTestSuite) TestCreateOrderRejectsInactiveShop() {
	s.Require().NoError(s.db.Model(&models.Shop{}).Where("id = ?", s.shop.ID).
		UpdateColumn("is_active", false).Error)

	_, err := s.svc.CreateOrder(nil, &CreateOrderRequest{
		ShopID: s.shop.ID,
		Items:  []OrderItemInput{{ProductID: s.products[0].ID, Quantity: 1}},
	})
	s.Error(err)
}

func (s *OrderServiceTestSuite) TestCreateOrderRejectsForeignProducts() {
	other := createTestShop(s.T(), s.db, "rival", s.shop.CategoryID)
	foreign := createTestProduct(s.T(), s.db, other, "Burger", 60)

	_, err := s.svc.CreateOrder(nil, &CreateOrderRequest{
		ShopID: s.shop.ID,
		Items:  []OrderItemInput{{ProductID: foreign.ID, Quantity: 1}},
	})
	s.Error(err)

	var count int64
	s.db.Model(&models.OrderLog{}).Count(&count)
	s.Equal(int64(0), count)
}

func (s *OrderServiceTestSuite) TestCreateOrderRejectsInactiveProduct() {
	s.Require().NoError(s.db.Model(&models.Product{}).Where("id = ?", s.products[0].ID).
		UpdateColumn("is_active", false).Error)

	_, err := s.svc.CreateOrder(nil, &CreateOrderRequest{
		ShopID: s.shop.ID,
		Items:  []OrderItemInput{{ProductID: s.products[0].ID, Quantity: 1}},
	})
	s.Error(err)
}

func (s *OrderServiceTestSuite) TestListOrdersScopedToShop() {
	other := createTestShop(s.T(), s.db, "rival", s.shop.CategoryID)
	otherProduct := createTestProduct(s.T(), s.db, other, "Burger", 60)

	_, err := s.svc.CreateOrder(nil, &CreateOrderRequest{
		ShopID: s.shop.ID,
		Items:  []OrderItemInput{{ProductID: s.products[0].ID, Quantity: 1}},
	})
	s.Require().NoError(err)
	_, err = s.svc.CreateOrder(nil, &CreateOrderRequest{
		ShopID: other.ID,
		Items:  []OrderItemInput{{ProductID: otherProduct.ID, Quantity: 1}},
	})
	s.Require().NoError(err)

	scope := &middleware.Scope{ShopID: &s.shop.ID}
	result, err := s.svc.ListOrders(scope, utils.DateRange{}, testPaginationParams())
	s.Require().NoError(err)
	s.Equal(int64(1), result.Total)

	all, err := s.svc.ListOrders(&middleware.Scope{All: true}, utils.DateRange{}, testPaginationParams())
	s.Require().NoError(err)
	s.Equal(int64(2), all.Total)
}

func (s *OrderServiceTestSuite) TestRecordShareReturnsShareLink() {
	userID := uuid.New()
	resp, err := s.svc.RecordShare(s.shop.ID, &userID, &ShareRequest{Platform: "whatsapp"})
	s.Require().NoError(err)
	s.Equal("/s/"+s.shop.ID.String(), resp.ShareLink)

	var log models.ShareLog
	s.Require().NoError(s.db.Where("shop_id = ?", s.shop.ID).First(&log).Error)
	s.Equal("whatsapp", log.Platform)
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
