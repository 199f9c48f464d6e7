// internal/services/report_service_test.go
package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/middleware"
	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

func TestReportWriteCSV(t *testing.T) {
	report := &Report{
		Headers: []string{"name", "total"},
		Rows:    [][]string{{"متجر الأمل", "3"}, {"corner, the", "1"}},
	}

	var buf bytes.Buffer
	assert.NoError(t, report.WriteCSV(&buf))

	out := buf.Bytes()
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, out[:3], "UTF-8 BOM")

	body := string(out[3:])
	lines := strings.Split(strings.TrimSpace(body), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "name,total", strings.TrimSpace(lines[0]))
	assert.Contains(t, body, "متجر الأمل")
	assert.Contains(t, body, `"corner, the"`)
}

type ReportServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	svc  *ReportService
	shop *models.Shop
}

func (s *ReportServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewReportService(s.db)

	category := createTestCategory(s.T(), s.db, "Fashion")
	s.shop = createTestShop(s.T(), s.db, "corner", category.ID)
	createTestProduct(s.T(), s.db, s.shop, "Dress", 200)
	createTestProduct(s.T(), s.db, s.shop, "Shirt", 90)
}

func (s *ReportServiceTestSuite) TestShopsReportCountsActivity() {
	orders := NewOrderService(s.db)
	var product models.Product
	s.Require().NoError(s.db.Where("name = ?", "Dress").First(&product).Error)
	_, err := orders.CreateOrder(nil, &CreateOrderRequest{
		ShopID: s.shop.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	s.Require().NoError(err)

	report, err := s.svc.ShopsReport(&middleware.Scope{All: true}, utils.DateRange{})
	s.Require().NoError(err)
	s.Require().Len(report.Rows, 1)

	row := report.Rows[0]
	s.Equal("corner", row[0])
	s.Equal("2", row[4]) // products
	s.Equal("1", row[5]) // orders
}

func (s *ReportServiceTestSuite) TestShopsReportHonorsScope() {
	other := createTestShop(s.T(), s.db, "rival", s.shop.CategoryID)

	report, err := s.svc.ShopsReport(&middleware.Scope{ShopID: &other.ID}, utils.DateRange{})
	s.Require().NoError(err)
	s.Require().Len(report.Rows, 1)
	s.Equal("rival", report.Rows[0][0])
}

func (s *ReportServiceTestSuite) TestProductsReport() {
	report, err := s.svc.ProductsReport(&middleware.Scope{All: true}, utils.DateRange{})
	s.Require().NoError(err)
	s.Len(report.Rows, 2)
	s.NotEmpty(report.Headers)
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
