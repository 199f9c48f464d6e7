// internal/services/report_service.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/middleware"
	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type ReportService struct {
	db *gorm.DB
}

// Report is a tabular result that renders as JSON rows or CSV.
type Report struct {
	Title       string                   `json:"title"`
	GeneratedAt time.Time                `json:"generated_at"`
	Headers     []string                 `json:"headers"`
	Rows        [][]string               `json:"rows"`
	Records     []map[string]interface{} `json:"records"`
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// WriteCSV renders the report with a UTF-8 BOM so spreadsheet tools open
// Arabic text correctly.
func (r *Report) WriteCSV(w io.Writer) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Headers); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ShopsReport aggregates per-shop activity: products, orders, shares.
func (s *ReportService) ShopsReport(scope *middleware.Scope, dateRange utils.DateRange) (*Report, error) {
	var shops []models.Shop
	query := scope.ApplyShops(s.db.Model(&models.Shop{})).Preload("Category")
	query = dateRange.ApplyTo(query, "shops.created_at")
	if err := query.Order("priority desc").Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("failed to load shops: %w", err)
	}

	report := &Report{
		Title:       "shops",
		GeneratedAt: time.Now(),
		Headers:     []string{"name", "email", "category", "active", "products", "orders", "shares", "created_at"},
	}

	for _, shop := range shops {
		var productCount, orderCount, shareCount int64
		s.db.Model(&models.Product{}).Where("shop_id = ?", shop.ID).Count(&productCount)
		s.db.Model(&models.OrderLog{}).Where("shop_id = ?", shop.ID).Count(&orderCount)
		s.db.Model(&models.ShareLog{}).Where("shop_id = ?", shop.ID).Count(&shareCount)

		report.Rows = append(report.Rows, []string{
			shop.Name,
			shop.Email,
			shop.Category.Name,
			strconv.FormatBool(shop.IsActive),
			strconv.FormatInt(productCount, 10),
			strconv.FormatInt(orderCount, 10),
			strconv.FormatInt(shareCount, 10),
			shop.CreatedAt.Format(time.RFC3339),
		})
		report.Records = append(report.Records, map[string]interface{}{
			"name":       shop.Name,
			"email":      shop.Email,
			"category":   shop.Category.Name,
			"active":     shop.IsActive,
			"products":   productCount,
			"orders":     orderCount,
			"shares":     shareCount,
			"created_at": shop.CreatedAt,
		})
	}
	return report, nil
}

func (s *ReportService) ProductsReport(scope *middleware.Scope, dateRange utils.DateRange) (*Report, error) {
	var products []models.Product
	query := scope.ApplyProducts(s.db.Model(&models.Product{})).Preload("Shop")
	query = dateRange.ApplyTo(query, "products.created_at")
	if err := query.Order("products.created_at desc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	report := &Report{
		Title:       "products",
		GeneratedAt: time.Now(),
		Headers:     []string{"name", "shop", "price", "hot_offer", "active", "rating", "reviews", "created_at"},
	}
	for _, p := range products {
		report.Rows = append(report.Rows, []string{
			p.Name,
			p.Shop.Name,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.FormatBool(p.IsHotOffer),
			strconv.FormatBool(p.IsActive),
			strconv.FormatFloat(p.AverageRating, 'f', 2, 64),
			strconv.FormatInt(p.TotalReviews, 10),
			p.CreatedAt.Format(time.RFC3339),
		})
		report.Records = append(report.Records, map[string]interface{}{
			"name":       p.Name,
			"shop":       p.Shop.Name,
			"price":      p.Price,
			"hot_offer":  p.IsHotOffer,
			"active":     p.IsActive,
			"rating":     p.AverageRating,
			"reviews":    p.TotalReviews,
			"created_at": p.CreatedAt,
		})
	}
	return report, nil
}

func (s *ReportService) OrdersReport(scope *middleware.Scope, dateRange utils.DateRange) (*Report, error) {
	var orders []models.OrderLog
	query := s.db.Model(&models.OrderLog{}).Preload("Shop").
		Joins("JOIN shops ON shops.id = order_logs.shop_id")
	query = scopeJoinedShops(scope, query)
	query = dateRange.ApplyTo(query, "order_logs.created_at")
	if err := query.Order("order_logs.created_at desc").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	report := &Report{
		Title:       "orders",
		GeneratedAt: time.Now(),
		Headers:     []string{"shop", "total_price", "created_at"},
	}
	for _, o := range orders {
		report.Rows = append(report.Rows, []string{
			o.Shop.Name,
			strconv.FormatFloat(o.TotalPrice, 'f', 2, 64),
			o.CreatedAt.Format(time.RFC3339),
		})
		report.Records = append(report.Records, map[string]interface{}{
			"shop":        o.Shop.Name,
			"total_price": o.TotalPrice,
			"created_at":  o.CreatedAt,
		})
	}
	return report, nil
}

func (s *ReportService) SharesReport(scope *middleware.Scope, dateRange utils.DateRange) (*Report, error) {
	var shares []models.ShareLog
	query := s.db.Model(&models.ShareLog{}).Preload("Shop").
		Joins("JOIN shops ON shops.id = share_logs.shop_id")
	query = scopeJoinedShops(scope, query)
	query = dateRange.ApplyTo(query, "share_logs.created_at")
	if err := query.Order("share_logs.created_at desc").Find(&shares).Error; err != nil {
		return nil, fmt.Errorf("failed to load shares: %w", err)
	}

	report := &Report{
		Title:       "shares",
		GeneratedAt: time.Now(),
		Headers:     []string{"shop", "platform", "created_at"},
	}
	for _, sh := range shares {
		report.Rows = append(report.Rows, []string{
			sh.Shop.Name,
			sh.Platform,
			sh.CreatedAt.Format(time.RFC3339),
		})
		report.Records = append(report.Records, map[string]interface{}{
			"shop":       sh.Shop.Name,
			"platform":   sh.Platform,
			"created_at": sh.CreatedAt,
		})
	}
	return report, nil
}

func (s *ReportService) SubscriptionsReport(dateRange utils.DateRange) (*Report, error) {
	var logs []models.SubscriptionLog
	query := s.db.Model(&models.SubscriptionLog{}).Preload("Shop").Preload("Plan")
	query = dateRange.ApplyTo(query, "subscription_logs.created_at")
	if err := query.Order("subscription_logs.created_at desc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to load subscription logs: %w", err)
	}

	report := &Report{
		Title:       "subscriptions",
		GeneratedAt: time.Now(),
		Headers:     []string{"shop", "plan", "event", "created_at"},
	}
	for _, l := range logs {
		report.Rows = append(report.Rows, []string{
			l.Shop.Name,
			l.Plan.Name,
			string(l.Event),
			l.CreatedAt.Format(time.RFC3339),
		})
		report.Records = append(report.Records, map[string]interface{}{
			"shop":       l.Shop.Name,
			"plan":       l.Plan.Name,
			"event":      l.Event,
			"created_at": l.CreatedAt,
		})
	}
	return report, nil
}
