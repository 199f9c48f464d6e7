// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaginationParams struct {
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Sort     string `json:"sort"`
	Order    string `json:"order"`
	Search   string `json:"search"`
	Category string `json:"category"`
}

type PaginationResult struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
	Data       interface{} `json:"data"`
}

// DateRange carries optional from/to filters parsed from query params.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	sort := c.DefaultQuery("sort", "created_at")
	order := c.DefaultQuery("order", "desc")
	search := c.Query("search")
	category := c.Query("category")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return PaginationParams{
		Page:     page,
		Limit:    limit,
		Sort:     sort,
		Order:    order,
		Search:   search,
		Category: category,
	}
}

// GetDateRange parses "from" and "to" query params (RFC3339 or 2006-01-02).
func GetDateRange(c *gin.Context) DateRange {
	var dr DateRange
	if from := c.Query("from"); from != "" {
		if t, err := parseDate(from); err == nil {
			dr.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := parseDate(to); err == nil {
			// Date-only "to" bounds are inclusive of the whole day.
			if len(to) == len("2006-01-02") {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			dr.To = &t
		}
	}
	return dr
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// Apply adds created_at bounds to a query.
func (dr DateRange) Apply(db *gorm.DB) *gorm.DB {
	return dr.ApplyTo(db, "created_at")
}

// ApplyTo adds bounds on an explicit column, for joined queries where
// created_at would be ambiguous.
func (dr DateRange) ApplyTo(db *gorm.DB, column string) *gorm.DB {
	if dr.From != nil {
		db = db.Where(column+" >= ?", *dr.From)
	}
	if dr.To != nil {
		db = db.Where(column+" <= ?", *dr.To)
	}
	return db
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	offset := (params.Page - 1) * params.Limit
	return db.Offset(offset).Limit(params.Limit)
}

// ApplySort orders by params.Sort when it is in the allow list. Allowed
// entries may be table-qualified ("products.created_at") for joined queries;
// clients still pass the bare column name. Anything else falls back to the
// first allowed field.
func ApplySort(db *gorm.DB, params PaginationParams, allowedSortFields []string) *gorm.DB {
	sortField := ""
	for _, field := range allowedSortFields {
		name := field
		if idx := strings.LastIndex(field, "."); idx >= 0 {
			name = field[idx+1:]
		}
		if name == params.Sort {
			sortField = field
			break
		}
	}
	if sortField == "" {
		if len(allowedSortFields) > 0 {
			sortField = allowedSortFields[0]
		} else {
			sortField = "created_at"
		}
	}

	return db.Order(sortField + " " + params.Order)
}

func CreatePaginationResult(data interface{}, total int64, params PaginationParams) PaginationResult {
	totalPages := int(math.Ceil(float64(total) / float64(params.Limit)))

	return PaginationResult{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.Limit))
	c.Header("X-Total-Pages", strconv.Itoa(result.TotalPages))
}
