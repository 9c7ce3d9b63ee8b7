package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/dto"
	"github.com/SscSPs/copro_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles the fiscal period lifecycle, balances and closing.
type periodHandler struct {
	periodService  portssvc.PeriodSvcFacade
	balanceService portssvc.BalanceLedgerSvc
	closingService portssvc.ClosingSvc
}

// RegisterPeriodRoutes registers period, balance and closing routes. Reports
// hang off the same group.
func RegisterPeriodRoutes(
	rg *gin.RouterGroup,
	periodService portssvc.PeriodSvcFacade,
	balanceService portssvc.BalanceLedgerSvc,
	closingService portssvc.ClosingSvc,
	reportingService portssvc.ReportingService,
) {
	h := &periodHandler{
		periodService:  periodService,
		balanceService: balanceService,
		closingService: closingService,
	}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/current", h.getCurrentPeriod)
		periods.GET("/:id", h.getPeriod)
		periods.POST("/:id/current", h.markCurrent)
		periods.POST("/:id/close", h.closePeriod)
		periods.GET("/:id/balances", h.listBalances)
		periods.GET("/:id/balances/:code", h.getBalance)
		periods.POST("/:id/balances/:code/recompute", h.recomputeBalance)
	}
	registerReportingRoutes(periods, reportingService)
}

// createPeriod godoc
// @Summary Define a fiscal period
// @Description Creates an open period. Periods may not overlap.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   period body dto.CreatePeriodRequest true "Period bounds"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Overlapping period"
// @Security BearerAuth
// @Router /periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if !bindJSON(c, &req, "CreatePeriod") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create fiscal period")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Fiscal period created", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Tags periods
// @Produce  json
// @Success 200 {array} dto.PeriodResponse
// @Security BearerAuth
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list fiscal periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

// getCurrentPeriod godoc
// @Summary Get the current fiscal period
// @Tags periods
// @Produce  json
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} map[string]string "No current period"
// @Security BearerAuth
// @Router /periods/current [get]
func (h *periodHandler) getCurrentPeriod(c *gin.Context) {
	period, err := h.periodService.GetCurrent(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to resolve current period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// getPeriod godoc
// @Summary Get a fiscal period
// @Tags periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Security BearerAuth
// @Router /periods/{id} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	period, err := h.periodService.GetPeriod(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve fiscal period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// markCurrent godoc
// @Summary Mark a period as current
// @Description Moves the current flag to an open period.
// @Tags periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 409 {object} map[string]string "Period closed or concurrent change"
// @Security BearerAuth
// @Router /periods/{id}/current [post]
func (h *periodHandler) markCurrent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	period, err := h.periodService.MarkCurrent(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to mark period current")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Current period changed", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description Transfers the net result to retained earnings, carries balance-sheet
// @Description balances into the successor period and closes the period.
// @Tags periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.ClosePeriodResponse
// @Failure 404 {object} map[string]string "Period or designated account not found"
// @Failure 409 {object} map[string]string "Already closed or successor overlap"
// @Security BearerAuth
// @Router /periods/{id}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	periodID := c.Param("id")
	logger.Info("Received request to close period", slog.String("period_id", periodID))

	result, err := h.closingService.ClosePeriod(c.Request.Context(), periodID, userID)
	if err != nil {
		respondWithError(c, err, "Failed to close fiscal period")
		return
	}
	logger.Info("Fiscal period closed",
		slog.String("period_id", periodID),
		slog.String("successor_id", result.Successor.PeriodID),
		slog.String("net_result", result.NetResult.StringFixed(2)))
	c.JSON(http.StatusOK, dto.ToClosePeriodResponse(result))
}

// listBalances godoc
// @Summary List the balances of a period
// @Tags balances
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {array} dto.BalanceResponse
// @Security BearerAuth
// @Router /periods/{id}/balances [get]
func (h *periodHandler) listBalances(c *gin.Context) {
	balances, err := h.balanceService.ListPeriodBalances(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to list balances")
		return
	}
	resp := make([]dto.BalanceResponse, len(balances))
	for i := range balances {
		resp[i] = dto.ToBalanceResponse(&balances[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getBalance godoc
// @Summary Get the balance of an account in a period
// @Tags balances
// @Produce  json
// @Param   id path string true "Period ID"
// @Param   code path string true "Account code"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} map[string]string "Account or period not found"
// @Security BearerAuth
// @Router /periods/{id}/balances/{code} [get]
func (h *periodHandler) getBalance(c *gin.Context) {
	balance, err := h.balanceService.GetBalance(c.Request.Context(), c.Param("code"), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance))
}

// recomputeBalance godoc
// @Summary Recompute the balance of an account in a period
// @Description Sets current = opening + debits - credits over the period's entries.
// @Tags balances
// @Produce  json
// @Param   id path string true "Period ID"
// @Param   code path string true "Account code"
// @Success 200 {object} dto.BalanceResponse
// @Failure 409 {object} map[string]string "Period closed"
// @Security BearerAuth
// @Router /periods/{id}/balances/{code}/recompute [post]
func (h *periodHandler) recomputeBalance(c *gin.Context) {
	balance, err := h.balanceService.Recompute(c.Request.Context(), c.Param("code"), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to recompute balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance))
}
