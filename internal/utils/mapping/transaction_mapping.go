package mapping

import (
	"database/sql"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/SscSPs/copro_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction header to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID: d.TransactionID,
		PeriodID:      d.PeriodID,
		OperationDate: d.OperationDate,
		Label:         d.Label,
		Source:        string(d.Source),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.Document != nil {
		m.DocumentReference = nullString(d.Document.Reference)
		m.DocumentSize = sql.NullInt64{Int64: d.Document.Size, Valid: true}
		m.DocumentExtension = nullString(d.Document.Extension)
	}
	return m
}

// ToDomainTransaction converts a model Transaction header to a domain Transaction without entries
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID: m.TransactionID,
		PeriodID:      m.PeriodID,
		OperationDate: domain.DateOnly(m.OperationDate),
		Label:         m.Label,
		Source:        domain.TransactionSource(m.Source),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.DocumentReference.Valid {
		d.Document = &domain.DocumentRef{
			Reference: m.DocumentReference.String,
			Size:      m.DocumentSize.Int64,
			Extension: m.DocumentExtension.String,
		}
	}
	return d
}

// ToModelEntry converts a domain JournalEntry to a model JournalEntry
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		AccountCode:   d.AccountCode,
		Amount:        d.Amount,
		EntryType:     models.EntryType(d.Type),
		LotID:         nullString(d.Counterparty.LotID()),
		SupplierCode:  nullString(d.Counterparty.SupplierCode()),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	var cp domain.Counterparty
	switch {
	case m.LotID.Valid:
		cp = domain.ForLot(m.LotID.String)
	case m.SupplierCode.Valid:
		cp = domain.ForSupplier(m.SupplierCode.String)
	}
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		AccountCode:   m.AccountCode,
		Amount:        m.Amount,
		Type:          domain.EntryType(m.EntryType),
		Counterparty:  cp,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
