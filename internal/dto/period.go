package dto

import (
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePeriodRequest defines the data needed to open a fiscal period.
type CreatePeriodRequest struct {
	StartDate   string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     string `json:"endDate" binding:"required,datetime=2006-01-02"`
	MarkCurrent bool   `json:"markCurrent"`
}

// PeriodResponse defines the data returned for a fiscal period.
type PeriodResponse struct {
	PeriodID  string `json:"periodID"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IsOpen    bool   `json:"isOpen"`
	IsCurrent bool   `json:"isCurrent"`
}

// ToPeriodResponse converts a domain.FiscalPeriod to PeriodResponse DTO
func ToPeriodResponse(p *domain.FiscalPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		StartDate: p.StartDate.Format(domain.DateLayout),
		EndDate:   p.EndDate.Format(domain.DateLayout),
		IsOpen:    p.IsOpen,
		IsCurrent: p.IsCurrent,
	}
}

// ToPeriodResponses converts a slice of periods.
func ToPeriodResponses(periods []domain.FiscalPeriod) []PeriodResponse {
	responses := make([]PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToPeriodResponse(&periods[i])
	}
	return responses
}

// BalanceResponse is one account's balance within a period.
type BalanceResponse struct {
	AccountCode string          `json:"accountCode"`
	PeriodID    string          `json:"periodID"`
	Opening     decimal.Decimal `json:"opening"`
	Current     decimal.Decimal `json:"current"`
}

// ToBalanceResponse converts a domain.AccountPeriodBalance to BalanceResponse DTO
func ToBalanceResponse(b *domain.AccountPeriodBalance) BalanceResponse {
	return BalanceResponse{
		AccountCode: b.AccountCode,
		PeriodID:    b.PeriodID,
		Opening:     b.Opening,
		Current:     b.Current,
	}
}

// ClosePeriodResponse reports the outcome of closing a period.
type ClosePeriodResponse struct {
	ClosedPeriod          PeriodResponse  `json:"closedPeriod"`
	Successor             PeriodResponse  `json:"successor"`
	NetResult             decimal.Decimal `json:"netResult"`
	ClosingTransactionID  string          `json:"closingTransactionID,omitempty"`
	TransferTransactionID string          `json:"transferTransactionID,omitempty"`
	CarriedForward        int             `json:"carriedForward"`
}

// ToClosePeriodResponse converts a domain.ClosingResult to ClosePeriodResponse DTO
func ToClosePeriodResponse(r *domain.ClosingResult) ClosePeriodResponse {
	return ClosePeriodResponse{
		ClosedPeriod:          ToPeriodResponse(&r.ClosedPeriod),
		Successor:             ToPeriodResponse(&r.Successor),
		NetResult:             r.NetResult,
		ClosingTransactionID:  r.ClosingTransactionID,
		TransferTransactionID: r.TransferTransactionID,
		CarriedForward:        r.CarriedForward,
	}
}
