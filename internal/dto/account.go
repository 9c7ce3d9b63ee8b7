package dto

import (
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code           string                `json:"code" yaml:"code" binding:"required,max=20"`
	Label          string                `json:"label" yaml:"label" binding:"required,max=255"`
	Classification domain.Classification `json:"classification" yaml:"classification" binding:"required,oneof=ASSET LIABILITY REVENUE EXPENSE ADJUSTMENT"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Label          *string                `json:"label" binding:"omitempty,max=255"`
	Classification *domain.Classification `json:"classification" binding:"omitempty,oneof=ASSET LIABILITY REVENUE EXPENSE ADJUSTMENT"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	Code           string                `json:"code"`
	Label          string                `json:"label"`
	Classification domain.Classification `json:"classification"`
	CreatedAt      time.Time             `json:"createdAt"`
	CreatedBy      string                `json:"createdBy"`
	LastUpdatedAt  time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy  string                `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		Code:           acc.Code,
		Label:          acc.Label,
		Classification: acc.Classification,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
