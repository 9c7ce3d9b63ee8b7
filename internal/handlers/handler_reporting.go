package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/dto"
	"github.com/SscSPs/copro_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers report routes under the periods group.
func registerReportingRoutes(periods *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	periods.GET("/:id/trial-balance", h.getTrialBalance)
	periods.GET("/:id/profit-and-loss", h.getProfitAndLoss)
	periods.GET("/:id/balance-sheet", h.getBalanceSheet)
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Lists every non-zero balance of the period in debit and credit columns
// @Tags reports
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /periods/{id}/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	periodID := c.Param("id")
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Generating trial balance", slog.String("period_id", periodID))

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), periodID)
	if err != nil {
		respondWithError(c, err, "Failed to generate trial balance report")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(periodID, rows))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Revenue and expense of the period, excluding closing entries
// @Tags reports
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} domain.PAndLReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /periods/{id}/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to generate profit and loss report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Tags reports
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /periods/{id}/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	report, err := h.reportingService.BalanceSheet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to generate balance sheet report")
		return
	}
	c.JSON(http.StatusOK, report)
}
