package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pahanabooks/console-api/internal/application/service"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/request"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/response"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/document"
)

// ReportHandler serves the aggregated sales report and the backend
// analytics passthrough
type ReportHandler struct {
	reportService    *service.ReportService
	analyticsService *service.AnalyticsService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, analyticsService *service.AnalyticsService) *ReportHandler {
	return &ReportHandler{reportService: reportService, analyticsService: analyticsService}
}

// Summary returns the latest aggregated report, generating one when none
// exists yet or when refresh=true
func (h *ReportHandler) Summary(c *gin.Context) {
	if c.Query("refresh") != "true" {
		if latest, ok := h.reportService.Latest(); ok {
			response.OK(c, "Report retrieved successfully", latest)
			return
		}
	}

	r := h.reportService.Generate(c.Request.Context())
	message := "Report generated successfully"
	if r.Partial {
		message = "Report generated with missing data"
	}
	response.OK(c, message, r)
}

// Export renders the aggregated report as pdf, xlsx or txt
func (h *ReportHandler) Export(c *gin.Context) {
	format, err := document.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, apperror.NewBadRequestError(err.Error()))
		return
	}

	out, err := h.reportService.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendRendered(c, out)
}

// Dashboard passes the backend dashboard analytics through
func (h *ReportHandler) Dashboard(c *gin.Context) {
	q, ok := analyticsQuery(c)
	if !ok {
		return
	}

	out, err := h.analyticsService.Dashboard(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dashboard analytics retrieved successfully", out)
}

// Reports passes the detailed backend reports through
func (h *ReportHandler) Reports(c *gin.Context) {
	q, ok := analyticsQuery(c)
	if !ok {
		return
	}

	out, err := h.analyticsService.Reports(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Reports retrieved successfully"
	if out.Source == service.SourceCache {
		message = "Backend unavailable, showing cached report"
	}
	response.OK(c, message, out)
}

// ExportAnalytics passes the backend analytics export through
func (h *ReportHandler) ExportAnalytics(c *gin.Context) {
	q, ok := analyticsQuery(c)
	if !ok {
		return
	}

	out, err := h.analyticsService.Export(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Export retrieved successfully", out)
}

func analyticsQuery(c *gin.Context) (repository.AnalyticsQuery, bool) {
	var req request.AnalyticsRequest
	if !bindQuery(c, &req) {
		return repository.AnalyticsQuery{}, false
	}
	return repository.AnalyticsQuery{
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		ReportType: req.ReportType,
		Format:     req.Format,
	}, true
}
