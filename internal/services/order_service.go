// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/middleware"
	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type OrderService struct {
	db *gorm.DB
}

type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	ShopID uuid.UUID        `json:"shop_id" validate:"required"`
	Items  []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Note   string           `json:"note" validate:"max=500"`
}

type OrderResponse struct {
	Order        *models.OrderLog `json:"order"`
	WhatsappLink string           `json:"whatsapp_link"`
}

type ShareRequest struct {
	Platform string `json:"platform" validate:"omitempty,max=50"`
}

type ShareResponse struct {
	ShareLink string `json:"share_link"`
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder snapshots the requested items into an order log and builds the
// wa.me deep link that hands the order to the shop. There is no in-app
// checkout; the log is the whole record.
func (s *OrderService) CreateOrder(userID *uuid.UUID, req *CreateOrderRequest) (*OrderResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var shop models.Shop
	if err := s.db.Where("is_active = ? AND is_approved = ?", true, true).
		First(&shop, req.ShopID).Error; err != nil {
		return nil, errors.New("shop not found")
	}

	// The same product may appear on several lines, so resolve distinct IDs.
	seen := make(map[uuid.UUID]bool, len(req.Items))
	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}

	var products []models.Product
	if err := s.db.Where("shop_id = ? AND is_active = ?", shop.ID, true).
		Find(&products, productIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if len(products) != len(productIDs) {
		return nil, errors.New("one or more products not available")
	}

	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// Snapshot names and prices so the log survives later edits.
	var total float64
	items := make([]map[string]interface{}, 0, len(req.Items))
	var lines []string
	for _, item := range req.Items {
		product := byID[item.ProductID]
		lineTotal := product.Price * float64(item.Quantity)
		total += lineTotal
		items = append(items, map[string]interface{}{
			"product_id": product.ID.String(),
			"name":       product.Name,
			"price":      product.Price,
			"quantity":   item.Quantity,
			"total":      lineTotal,
		})
		lines = append(lines, fmt.Sprintf("%dx %s (%.2f)", item.Quantity, product.Name, lineTotal))
	}

	whatsappLink := buildWhatsappLink(shop.Whatsapp, lines, total, req.Note)

	order := &models.OrderLog{
		ShopID:       shop.ID,
		UserID:       userID,
		Items:        models.JSONB{"items": items, "note": req.Note},
		TotalPrice:   total,
		WhatsappLink: whatsappLink,
	}
	if err := s.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	return &OrderResponse{Order: order, WhatsappLink: whatsappLink}, nil
}

// ListOrders returns order logs visible under the caller's scope.
func (s *OrderService) ListOrders(scope *middleware.Scope, dateRange utils.DateRange, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.OrderLog{}).Preload("Shop").
		Joins("JOIN shops ON shops.id = order_logs.shop_id")
	query = scopeJoinedShops(scope, query)
	query = dateRange.ApplyTo(query, "order_logs.created_at")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.OrderLog
	query = query.Order("order_logs.created_at desc")
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	result := utils.CreatePaginationResult(orders, total, params)
	return &result, nil
}

// RecordShare logs a share of the shop's public link and returns the link.
func (s *OrderService) RecordShare(shopID uuid.UUID, userID *uuid.UUID, req *ShareRequest) (*ShareResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var shop models.Shop
	if err := s.db.Where("is_active = ?", true).First(&shop, shopID).Error; err != nil {
		return nil, errors.New("shop not found")
	}

	share := &models.ShareLog{
		ShopID:   shop.ID,
		UserID:   userID,
		Platform: req.Platform,
	}
	if err := s.db.Create(share).Error; err != nil {
		return nil, fmt.Errorf("failed to record share: %w", err)
	}

	return &ShareResponse{ShareLink: shop.ShareLink}, nil
}

// buildWhatsappLink assembles a wa.me deep link with the order summary as a
// pre-filled message. Egyptian local numbers get the country code prefix.
func buildWhatsappLink(phone string, lines []string, total float64, note string) string {
	number := strings.TrimPrefix(phone, "+")
	if strings.HasPrefix(number, "01") {
		number = "2" + number
	}

	var msg strings.Builder
	msg.WriteString("New order:\n")
	msg.WriteString(strings.Join(lines, "\n"))
	msg.WriteString(fmt.Sprintf("\nTotal: %.2f EGP", total))
	if note != "" {
		msg.WriteString("\nNote: " + note)
	}

	return "https://wa.me/" + number + "?text=" + url.QueryEscape(msg.String())
}

// scopeJoinedShops applies shop scoping to a query already joined on shops.
func scopeJoinedShops(scope *middleware.Scope, query *gorm.DB) *gorm.DB {
	if scope == nil || scope.All {
		return query
	}
	if scope.ShopID != nil {
		return query.Where("shops.id = ?", *scope.ShopID)
	}
	if len(scope.CategoryIDs) > 0 {
		return query.Where("shops.category_id IN ?", scope.CategoryIDs)
	}
	if scope.CreatedBy != nil {
		return query.Where("shops.created_by = ?", *scope.CreatedBy)
	}
	return query.Where("1 = 0")
}
