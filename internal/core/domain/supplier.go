package domain

// Supplier is a vendor that journal entries may be tagged with.
type Supplier struct {
	Code      string `json:"code"` // ^[A-Z0-9_-]+$
	LegalName string `json:"legalName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Phone     string `json:"phone"` // Exactly 10 digits when set
	Email     string `json:"email"`
	IsActive  bool   `json:"isActive"`
	AuditFields
}
