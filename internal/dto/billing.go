package dto

import (
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BillingRunRequest triggers the recurring billing generator.
type BillingRunRequest struct {
	TargetDate string `json:"targetDate" binding:"required,datetime=2006-01-02"`
	Force      bool   `json:"force"`
}

// CreateSubscriptionRequest defines the data needed to create a subscription.
type CreateSubscriptionRequest struct {
	LotID       string           `json:"lotID" binding:"required,max=64"`
	Amount      decimal.Decimal  `json:"amount"`
	Frequency   domain.Frequency `json:"frequency" binding:"required,oneof=MONTHLY QUARTERLY YEARLY"`
	StartDate   string           `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     string           `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Description string           `json:"description" binding:"max=1000"`
}

// CreateSupplierRequest defines the data needed to register a supplier.
type CreateSupplierRequest struct {
	Code      string `json:"code" binding:"required,max=20,supplier_code"`
	LegalName string `json:"legalName" binding:"required,max=255"`
	Address   string `json:"address"`
	City      string `json:"city" binding:"max=100"`
	Phone     string `json:"phone" binding:"omitempty,len=10,numeric"`
	Email     string `json:"email" binding:"omitempty,email"`
}
