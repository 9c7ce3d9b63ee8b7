package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/dto"
	"github.com/SscSPs/copro_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles manual entry of transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// RegisterTransactionRoutes registers routes related to transactions.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := &transactionHandler{transactionService: transactionService}

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.postTransaction)
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.PATCH("/:transactionID/entries", h.amendEntries)
		transactions.DELETE("/:transactionID", h.deleteTransaction)
	}
	rg.GET("/periods/:id/transactions", h.listTransactions)
}

// postTransaction godoc
// @Summary Post a transaction
// @Description Records a balanced set of entries, optionally with a supporting document
// @Description (base64 content). Without periodID the current period is used.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Unknown account, lot or supplier"
// @Failure 409 {object} map[string]string "Period closed or no current period"
// @Failure 422 {object} map[string]string "Unbalanced transaction"
// @Failure 502 {object} map[string]string "Document rejected"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if !bindJSON(c, &req, "PostTransaction") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	logger.Info("Received request to post transaction",
		slog.String("label", req.Label),
		slog.Int("entries", len(req.Entries)),
		slog.Bool("with_document", req.Document != nil))

	tx, err := h.transactionService.PostTransaction(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to post transaction")
		return
	}
	logger.Info("Transaction posted", slog.String("transaction_id", tx.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(tx))
}

// getTransaction godoc
// @Summary Get a transaction with its entries
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	tx, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("transactionID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(tx))
}

// listTransactions godoc
// @Summary List the transactions of a period
// @Description Newest operation date first, paginated with nextToken.
// @Tags transactions
// @Produce  json
// @Param   id path string true "Period ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /periods/{id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// amendEntries godoc
// @Summary Add and remove entries of a transaction
// @Description The transaction must still balance after the change.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   entries body dto.AmendEntriesRequest true "Entries to add and entry IDs to remove"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Period closed"
// @Failure 422 {object} map[string]string "Unbalanced transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID}/entries [patch]
func (h *transactionHandler) amendEntries(c *gin.Context) {
	var req dto.AmendEntriesRequest
	if !bindJSON(c, &req, "AmendEntries") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	tx, err := h.transactionService.AmendEntries(c.Request.Context(), c.Param("transactionID"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to amend transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(tx))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes the transaction, its entries and its supporting document.
// @Tags transactions
// @Param   transactionID path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Period closed"
// @Security BearerAuth
// @Router /transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	transactionID := c.Param("transactionID")
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		respondWithError(c, err, "Failed to delete transaction")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction deleted", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}
