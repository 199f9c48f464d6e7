// internal/handlers/report.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/idreamhq/idream-backend/internal/middleware"
	"github.com/idreamhq/idream-backend/internal/services"
	"github.com/idreamhq/idream-backend/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GET /admin/reports/shops?format=json|csv&from=...&to=...
func (h *ReportHandler) ShopsReport(c *gin.Context) {
	scope := middleware.GetScopeFromContext(c)
	report, err := h.reportService.ShopsReport(scope, utils.GetDateRange(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	h.render(c, report)
}

// GET /admin/reports/products
func (h *ReportHandler) ProductsReport(c *gin.Context) {
	scope := middleware.GetScopeFromContext(c)
	report, err := h.reportService.ProductsReport(scope, utils.GetDateRange(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	h.render(c, report)
}

// GET /admin/reports/orders
func (h *ReportHandler) OrdersReport(c *gin.Context) {
	scope := middleware.GetScopeFromContext(c)
	report, err := h.reportService.OrdersReport(scope, utils.GetDateRange(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	h.render(c, report)
}

// GET /admin/reports/shares
func (h *ReportHandler) SharesReport(c *gin.Context) {
	scope := middleware.GetScopeFromContext(c)
	report, err := h.reportService.SharesReport(scope, utils.GetDateRange(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	h.render(c, report)
}

// GET /admin/reports/subscriptions
func (h *ReportHandler) SubscriptionsReport(c *gin.Context) {
	report, err := h.reportService.SubscriptionsReport(utils.GetDateRange(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	h.render(c, report)
}

func (h *ReportHandler) render(c *gin.Context, report *services.Report) {
	if c.DefaultQuery("format", "json") != "csv" {
		utils.SuccessResponse(c, report)
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", report.Title, time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := report.WriteCSV(c.Writer); err != nil {
		utils.InternalErrorResponse(c, err.Error())
	}
}
