package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tally/internal/domain/models"
	"github.com/mamadbah2/tally/internal/service/reporting"
)

// Reports builds business reports.
type Reports interface {
	Financial() reporting.Financial
	DailyReport(day string) (models.DailyReport, error)
}

// ReportHandler serves the reports page.
type ReportHandler struct {
	reports Reports
	logger  *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(reports Reports, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, logger: logger}
}

// Financial returns the business report.
func (h *ReportHandler) Financial(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports.Financial())
}

// Daily returns the figures of ?date= (today when omitted).
func (h *ReportHandler) Daily(c *gin.Context) {
	report, err := h.reports.DailyReport(c.Query("date"))
	if err != nil {
		respondError(c, h.logger, "failed to build daily report", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
