package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/dto"
	"github.com/SscSPs/copro_ledger/internal/middleware"
	"github.com/SscSPs/copro_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// billingHandler handles billing runs, subscriptions and suppliers.
type billingHandler struct {
	billingService      portssvc.BillingSvc
	subscriptionService portssvc.SubscriptionSvc
	supplierService     portssvc.SupplierSvc
	posthogClient       *utils.PosthogClientWrapper
}

// RegisterBillingRoutes registers billing, subscription and supplier routes.
// posthogClient may be nil.
func RegisterBillingRoutes(
	rg *gin.RouterGroup,
	billingService portssvc.BillingSvc,
	subscriptionService portssvc.SubscriptionSvc,
	supplierService portssvc.SupplierSvc,
	posthogClient *utils.PosthogClientWrapper,
) {
	h := &billingHandler{
		billingService:      billingService,
		subscriptionService: subscriptionService,
		supplierService:     supplierService,
		posthogClient:       posthogClient,
	}

	rg.POST("/billing/runs", h.runBilling)

	subscriptions := rg.Group("/subscriptions")
	{
		subscriptions.POST("", h.createSubscription)
		subscriptions.GET("", h.listSubscriptions)
		subscriptions.GET("/:subscriptionID", h.getSubscription)
		subscriptions.DELETE("/:subscriptionID", h.deactivateSubscription)
	}
	rg.POST("/lots/:lotID/release", h.releaseLot)

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.createSupplier)
		suppliers.GET("", h.listSuppliers)
		suppliers.GET("/:code", h.getSupplier)
		suppliers.DELETE("/:code", h.deactivateSupplier)
	}
}

// runBilling godoc
// @Summary Run recurring billing
// @Description Bills every due subscription for the cycle containing targetDate.
// @Description Cycles already billed are skipped unless force is set.
// @Tags billing
// @Accept  json
// @Produce  json
// @Param   run body dto.BillingRunRequest true "Billing run"
// @Success 200 {object} domain.BillingReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Designated account missing"
// @Failure 409 {object} map[string]string "No current period"
// @Security BearerAuth
// @Router /billing/runs [post]
func (h *billingHandler) runBilling(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BillingRunRequest
	if !bindJSON(c, &req, "RunBilling") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	target, err := time.Parse(domain.DateLayout, req.TargetDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetDate must be YYYY-MM-DD"})
		return
	}

	logger.Info("Received billing run", slog.String("target_date", req.TargetDate), slog.Bool("force", req.Force))
	report, err := h.billingService.RunBilling(c.Request.Context(), target, req.Force, userID)
	if err != nil {
		respondWithError(c, err, "Failed to run billing")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "billing_run_completed", map[string]any{
		"target_date":    req.TargetDate,
		"forced":         req.Force,
		"candidates":     report.Candidates,
		"newly_billed":   report.NewlyBilled,
		"already_billed": report.AlreadyBilled,
		"lot_missing":    report.LotMissing,
	})
	c.JSON(http.StatusOK, report)
}

// createSubscription godoc
// @Summary Create a subscription
// @Tags subscriptions
// @Accept  json
// @Produce  json
// @Param   subscription body dto.CreateSubscriptionRequest true "Subscription"
// @Success 201 {object} domain.Subscription
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Lot not found"
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *billingHandler) createSubscription(c *gin.Context) {
	var req dto.CreateSubscriptionRequest
	if !bindJSON(c, &req, "CreateSubscription") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sub, err := h.subscriptionService.CreateSubscription(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create subscription")
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// listSubscriptions godoc
// @Summary List subscriptions
// @Tags subscriptions
// @Produce  json
// @Param   active query bool false "Only active subscriptions"
// @Success 200 {array} domain.Subscription
// @Security BearerAuth
// @Router /subscriptions [get]
func (h *billingHandler) listSubscriptions(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))
	subs, err := h.subscriptionService.ListSubscriptions(c.Request.Context(), activeOnly)
	if err != nil {
		respondWithError(c, err, "Failed to list subscriptions")
		return
	}
	if subs == nil {
		subs = []domain.Subscription{}
	}
	c.JSON(http.StatusOK, subs)
}

// getSubscription godoc
// @Summary Get a subscription
// @Tags subscriptions
// @Produce  json
// @Param   subscriptionID path string true "Subscription ID"
// @Success 200 {object} domain.Subscription
// @Failure 404 {object} map[string]string "Subscription not found"
// @Security BearerAuth
// @Router /subscriptions/{subscriptionID} [get]
func (h *billingHandler) getSubscription(c *gin.Context) {
	sub, err := h.subscriptionService.GetSubscription(c.Request.Context(), c.Param("subscriptionID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve subscription")
		return
	}
	c.JSON(http.StatusOK, sub)
}

// deactivateSubscription godoc
// @Summary Deactivate a subscription
// @Tags subscriptions
// @Param   subscriptionID path string true "Subscription ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Subscription not found"
// @Security BearerAuth
// @Router /subscriptions/{subscriptionID} [delete]
func (h *billingHandler) deactivateSubscription(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.subscriptionService.DeactivateSubscription(c.Request.Context(), c.Param("subscriptionID"), userID); err != nil {
		respondWithError(c, err, "Failed to deactivate subscription")
		return
	}
	c.Status(http.StatusNoContent)
}

// releaseLot godoc
// @Summary Release a deleted lot
// @Description Clears the lot reference of every subscription billed to it.
// @Tags subscriptions
// @Produce  json
// @Param   lotID path string true "Lot ID"
// @Success 200 {object} map[string]int "cleared"
// @Security BearerAuth
// @Router /lots/{lotID}/release [post]
func (h *billingHandler) releaseLot(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	cleared, err := h.subscriptionService.ReleaseLot(c.Request.Context(), c.Param("lotID"), userID)
	if err != nil {
		respondWithError(c, err, "Failed to release lot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

// createSupplier godoc
// @Summary Register a supplier
// @Tags suppliers
// @Accept  json
// @Produce  json
// @Param   supplier body dto.CreateSupplierRequest true "Supplier"
// @Success 201 {object} domain.Supplier
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Supplier code already exists"
// @Security BearerAuth
// @Router /suppliers [post]
func (h *billingHandler) createSupplier(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !bindJSON(c, &req, "CreateSupplier") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create supplier")
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// listSuppliers godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce  json
// @Success 200 {array} domain.Supplier
// @Security BearerAuth
// @Router /suppliers [get]
func (h *billingHandler) listSuppliers(c *gin.Context) {
	suppliers, err := h.supplierService.ListSuppliers(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list suppliers")
		return
	}
	if suppliers == nil {
		suppliers = []domain.Supplier{}
	}
	c.JSON(http.StatusOK, suppliers)
}

// getSupplier godoc
// @Summary Get a supplier
// @Tags suppliers
// @Produce  json
// @Param   code path string true "Supplier code"
// @Success 200 {object} domain.Supplier
// @Failure 404 {object} map[string]string "Supplier not found"
// @Security BearerAuth
// @Router /suppliers/{code} [get]
func (h *billingHandler) getSupplier(c *gin.Context) {
	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// deactivateSupplier godoc
// @Summary Deactivate a supplier
// @Tags suppliers
// @Param   code path string true "Supplier code"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Supplier not found"
// @Security BearerAuth
// @Router /suppliers/{code} [delete]
func (h *billingHandler) deactivateSupplier(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.supplierService.DeactivateSupplier(c.Request.Context(), c.Param("code"), userID); err != nil {
		respondWithError(c, err, "Failed to deactivate supplier")
		return
	}
	c.Status(http.StatusNoContent)
}
