package mapping

import (
	"database/sql"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/SscSPs/copro_ledger/internal/models"
)

// ToModelSubscription converts a domain Subscription to a model Subscription
func ToModelSubscription(d domain.Subscription) models.Subscription {
	m := models.Subscription{
		SubscriptionID: d.SubscriptionID,
		LotID:          nullString(d.LotID),
		Amount:         d.Amount,
		Frequency:      string(d.Frequency),
		StartDate:      d.StartDate,
		IsActive:       d.IsActive,
		Description:    d.Description,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
	if d.EndDate != nil {
		m.EndDate = sql.NullTime{Time: *d.EndDate, Valid: true}
	}
	return m
}

// ToDomainSubscription converts a model Subscription to a domain Subscription
func ToDomainSubscription(m models.Subscription) domain.Subscription {
	d := domain.Subscription{
		SubscriptionID: m.SubscriptionID,
		LotID:          m.LotID.String,
		Amount:         m.Amount,
		Frequency:      domain.Frequency(m.Frequency),
		StartDate:      domain.DateOnly(m.StartDate),
		IsActive:       m.IsActive,
		Description:    m.Description,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	if m.EndDate.Valid {
		end := domain.DateOnly(m.EndDate.Time)
		d.EndDate = &end
	}
	return d
}

// ToModelSupplier converts a domain Supplier to a model Supplier
func ToModelSupplier(d domain.Supplier) models.Supplier {
	return models.Supplier{
		Code:        d.Code,
		LegalName:   d.LegalName,
		Address:     d.Address,
		City:        d.City,
		Phone:       d.Phone,
		Email:       d.Email,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSupplier converts a model Supplier to a domain Supplier
func ToDomainSupplier(m models.Supplier) domain.Supplier {
	return domain.Supplier{
		Code:        m.Code,
		LegalName:   m.LegalName,
		Address:     m.Address,
		City:        m.City,
		Phone:       m.Phone,
		Email:       m.Email,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
