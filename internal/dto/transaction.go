package dto

import (
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryRequest is one debit or credit line of a transaction request.
type EntryRequest struct {
	AccountCode  string           `json:"accountCode" binding:"required"`
	Amount       decimal.Decimal  `json:"amount"`
	Type         domain.EntryType `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	LotID        string           `json:"lotID,omitempty"`
	SupplierCode string           `json:"supplierCode,omitempty"`
}

// DocumentRequest carries a supporting document inline.
type DocumentRequest struct {
	FileName string `json:"fileName" binding:"required"`
	Content  []byte `json:"content" binding:"required"` // base64 in JSON
}

// CreateTransactionRequest defines the data needed to post a transaction.
// PeriodID defaults to the current period when empty.
type CreateTransactionRequest struct {
	OperationDate string           `json:"operationDate" binding:"required,datetime=2006-01-02"`
	Label         string           `json:"label" binding:"required,max=255"`
	PeriodID      string           `json:"periodID"`
	Entries       []EntryRequest   `json:"entries" binding:"required,min=1,dive"`
	Document      *DocumentRequest `json:"document,omitempty"`
}

// AmendEntriesRequest adds and removes entries of an existing transaction.
type AmendEntriesRequest struct {
	Add    []EntryRequest `json:"add" binding:"omitempty,dive"`
	Remove []string       `json:"remove"`
}

// ListTransactionsParams defines the query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID      string           `json:"entryID"`
	AccountCode  string           `json:"accountCode"`
	Amount       decimal.Decimal  `json:"amount"`
	Type         domain.EntryType `json:"type"`
	LotID        string           `json:"lotID,omitempty"`
	SupplierCode string           `json:"supplierCode,omitempty"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	PeriodID      string                   `json:"periodID"`
	OperationDate string                   `json:"operationDate"`
	Label         string                   `json:"label"`
	Source        domain.TransactionSource `json:"source"`
	Document      *domain.DocumentRef      `json:"document,omitempty"`
	Entries       []EntryResponse          `json:"entries"`
	CreatedAt     time.Time                `json:"createdAt"`
	CreatedBy     string                   `json:"createdBy"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(tx *domain.Transaction) TransactionResponse {
	entries := make([]EntryResponse, len(tx.Entries))
	for i, e := range tx.Entries {
		entries[i] = EntryResponse{
			EntryID:      e.EntryID,
			AccountCode:  e.AccountCode,
			Amount:       e.Amount,
			Type:         e.Type,
			LotID:        e.Counterparty.LotID(),
			SupplierCode: e.Counterparty.SupplierCode(),
		}
	}
	return TransactionResponse{
		TransactionID: tx.TransactionID,
		PeriodID:      tx.PeriodID,
		OperationDate: tx.OperationDate.Format(domain.DateLayout),
		Label:         tx.Label,
		Source:        tx.Source,
		Document:      tx.Document,
		Entries:       entries,
		CreatedAt:     tx.CreatedAt,
		CreatedBy:     tx.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction.
func ToTransactionResponses(txs []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}
