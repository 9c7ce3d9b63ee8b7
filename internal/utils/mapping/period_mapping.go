package mapping

import (
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/SscSPs/copro_ledger/internal/models"
)

// ToModelPeriod converts a domain FiscalPeriod to a model FiscalPeriod
func ToModelPeriod(d domain.FiscalPeriod) models.FiscalPeriod {
	return models.FiscalPeriod{
		PeriodID:    d.PeriodID,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		IsOpen:      d.IsOpen,
		IsCurrent:   d.IsCurrent,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriod converts a model FiscalPeriod to a domain FiscalPeriod.
// DATE columns come back at midnight UTC already; DateOnly guards other drivers.
func ToDomainPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:    m.PeriodID,
		StartDate:   domain.DateOnly(m.StartDate),
		EndDate:     domain.DateOnly(m.EndDate),
		IsOpen:      m.IsOpen,
		IsCurrent:   m.IsCurrent,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBalance converts a domain AccountPeriodBalance to its model
func ToModelBalance(d domain.AccountPeriodBalance) models.AccountPeriodBalance {
	return models.AccountPeriodBalance{
		AccountCode:   d.AccountCode,
		PeriodID:      d.PeriodID,
		Opening:       d.Opening,
		Current:       d.Current,
		LastUpdatedAt: d.LastUpdatedAt,
	}
}

// ToDomainBalance converts a model AccountPeriodBalance to its domain type
func ToDomainBalance(m models.AccountPeriodBalance) domain.AccountPeriodBalance {
	return domain.AccountPeriodBalance{
		AccountCode:   m.AccountCode,
		PeriodID:      m.PeriodID,
		Opening:       m.Opening,
		Current:       m.Current,
		LastUpdatedAt: m.LastUpdatedAt,
	}
}
