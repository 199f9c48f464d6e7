// internal/services/ai_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/idreamhq/idream-backend/internal/config"
	"github.com/idreamhq/idream-backend/internal/i18n"
	"github.com/idreamhq/idream-backend/internal/models"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type AIService struct {
	db           *gorm.DB
	apiKey       string
	modelVersion string
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,min=2,max=500"`
}

type ChatResponse struct {
	Reply    string           `json:"reply"`
	Products []models.Product `json:"products,omitempty"`
	Shops    []models.Shop    `json:"shops,omitempty"`
}

// searchIntent is what the model extracts from a free-text message.
type searchIntent struct {
	Target   string   `json:"target"` // "products" or "shops"
	Keywords []string `json:"keywords"`
	MaxPrice *float64 `json:"max_price"`
	MinPrice *float64 `json:"min_price"`
	HotOffer bool     `json:"hot_offer"`
}

func NewAIService(db *gorm.DB, cfg *config.Config) *AIService {
	return &AIService{
		db:           db,
		apiKey:       cfg.AI.GeminiAPIKey,
		modelVersion: cfg.AI.ModelVersion,
	}
}

// Chat turns a free-text shopping question into a catalog search. The
// language model only extracts intent; results always come from the
// database, so the assistant cannot invent products.
func (s *AIService) Chat(ctx context.Context, lang string, req *ChatRequest) (*ChatResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	intent := s.extractIntent(ctx, req.Message)

	if intent.Target == "shops" {
		shops, err := s.searchShops(intent)
		if err != nil {
			return nil, err
		}
		if len(shops) == 0 {
			return &ChatResponse{Reply: i18n.T(lang, i18n.KeyAINoResults)}, nil
		}
		return &ChatResponse{Reply: i18n.T(lang, i18n.KeyAIShopsIntro), Shops: shops}, nil
	}

	products, err := s.searchProducts(intent)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return &ChatResponse{Reply: i18n.T(lang, i18n.KeyAINoResults)}, nil
	}
	return &ChatResponse{Reply: i18n.T(lang, i18n.KeyAIProductsIntro), Products: products}, nil
}

// extractIntent asks Gemini for a structured intent and falls back to plain
// keyword extraction when the model is unavailable.
func (s *AIService) extractIntent(ctx context.Context, message string) searchIntent {
	if s.apiKey == "" {
		return fallbackIntent(message)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		logrus.WithError(err).Warn("Gemini client init failed, using keyword fallback")
		return fallbackIntent(message)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelVersion)
	model.ResponseMIMEType = "application/json"

	prompt := fmt.Sprintf(`
        You extract shopping search intent from marketplace chat messages,
        which may be written in Arabic or English.
        Message: %q

        Output Schema (JSON):
        {
            "target": "products" or "shops",
            "keywords": ["string"],
            "max_price": number or null,
            "min_price": number or null,
            "hot_offer": boolean
        }
        Keywords must be the product or shop terms to search for, in the
        language they were written in.
    `, message)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		logrus.WithError(err).Warn("Gemini intent extraction failed, using keyword fallback")
		return fallbackIntent(message)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return fallbackIntent(message)
	}

	var rawJSON string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			rawJSON = string(txt)
			break
		}
	}

	var intent searchIntent
	if err := json.Unmarshal([]byte(strings.TrimSpace(rawJSON)), &intent); err != nil {
		logrus.WithError(err).Warn("Gemini returned unparseable intent")
		return fallbackIntent(message)
	}
	if intent.Target != "shops" {
		intent.Target = "products"
	}
	if len(intent.Keywords) == 0 {
		return fallbackIntent(message)
	}
	return intent
}

var (
	pricePattern = regexp.MustCompile(`(?:under|below|أقل من|اقل من)\s*(\d+)`)
	// Filler words stripped before treating the rest as keywords.
	stopWords = map[string]bool{
		"i": true, "want": true, "a": true, "an": true, "the": true,
		"for": true, "me": true, "find": true, "show": true, "buy": true,
		"need": true, "looking": true, "please": true, "some": true,
		"عايز": true, "عايزة": true, "اريد": true, "أريد": true,
		"ممكن": true, "لو": true, "سمحت": true, "ابحث": true, "عن": true,
	}
)

// fallbackIntent does a crude keyword split so chat search still works
// without a model key.
func fallbackIntent(message string) searchIntent {
	intent := searchIntent{Target: "products"}
	lower := strings.ToLower(message)

	if strings.Contains(lower, "shop") || strings.Contains(lower, "store") ||
		strings.Contains(lower, "محل") || strings.Contains(lower, "متجر") {
		intent.Target = "shops"
	}
	if strings.Contains(lower, "offer") || strings.Contains(lower, "عرض") ||
		strings.Contains(lower, "عروض") {
		intent.HotOffer = true
	}
	if m := pricePattern.FindStringSubmatch(lower); len(m) == 2 {
		if price, err := strconv.ParseFloat(m[1], 64); err == nil {
			intent.MaxPrice = &price
		}
	}

	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ".,!?؟")
		if word == "" || stopWords[word] {
			continue
		}
		if _, err := strconv.ParseFloat(word, 64); err == nil {
			continue
		}
		intent.Keywords = append(intent.Keywords, word)
	}
	return intent
}

func (s *AIService) searchProducts(intent searchIntent) ([]models.Product, error) {
	query := s.db.Model(&models.Product{}).Preload("Shop").
		Joins("JOIN shops ON shops.id = products.shop_id").
		Where("products.is_active = ? AND shops.is_active = ?", true, true)

	if intent.HotOffer {
		query = query.Where("products.is_hot_offer = ?", true)
	}
	if intent.MaxPrice != nil {
		query = query.Where("products.price <= ?", *intent.MaxPrice)
	}
	if intent.MinPrice != nil {
		query = query.Where("products.price >= ?", *intent.MinPrice)
	}
	query = applyKeywords(query, intent.Keywords, "products.name", "products.description")

	var products []models.Product
	if err := query.Order("products.average_rating desc").Limit(10).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

func (s *AIService) searchShops(intent searchIntent) ([]models.Shop, error) {
	query := s.db.Model(&models.Shop{}).Preload("Category").
		Where("is_active = ? AND is_approved = ?", true, true)
	query = applyKeywords(query, intent.Keywords, "shops.name", "shops.address")

	var shops []models.Shop
	if err := query.Order("priority desc").Limit(10).Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("failed to search shops: %w", err)
	}
	return shops, nil
}

func applyKeywords(query *gorm.DB, keywords []string, columns ...string) *gorm.DB {
	if len(keywords) == 0 {
		return query
	}
	var clauses []string
	var args []interface{}
	for _, kw := range keywords {
		for _, col := range columns {
			clauses = append(clauses, "LOWER("+col+") LIKE LOWER(?)")
			args = append(args, "%"+kw+"%")
		}
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}
