// internal/utils/pagination_test.go
package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := GetPaginationParams(testContext(t, ""))
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsClampsBadInput(t *testing.T) {
	params := GetPaginationParams(testContext(t, "page=-3&limit=5000&order=sideways"))
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsPassesValues(t *testing.T) {
	params := GetPaginationParams(testContext(t, "page=3&limit=50&sort=name&order=asc&search=tea"))
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.Limit)
	assert.Equal(t, "name", params.Sort)
	assert.Equal(t, "asc", params.Order)
	assert.Equal(t, "tea", params.Search)
}

func TestCreatePaginationResult(t *testing.T) {
	result := CreatePaginationResult([]string{"a"}, 45, PaginationParams{Page: 2, Limit: 20})
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, int64(45), result.Total)
	assert.Equal(t, 3, result.TotalPages)
}

func TestGetDateRangeDateOnlyToIsInclusive(t *testing.T) {
	dr := GetDateRange(testContext(t, "from=2026-01-01&to=2026-01-31"))
	require.NotNil(t, dr.From)
	require.NotNil(t, dr.To)

	endOfMonth := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	assert.True(t, dr.To.After(endOfMonth), "to bound should cover the whole day")
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), dr.From.UTC())
}

func TestGetDateRangeRFC3339(t *testing.T) {
	dr := GetDateRange(testContext(t, "from=2026-01-01T10:30:00Z"))
	require.NotNil(t, dr.From)
	assert.Nil(t, dr.To)
	assert.Equal(t, 10, dr.From.UTC().Hour())
}

func TestGetDateRangeIgnoresGarbage(t *testing.T) {
	dr := GetDateRange(testContext(t, "from=yesterday&to=whenever"))
	assert.Nil(t, dr.From)
	assert.Nil(t, dr.To)
}
