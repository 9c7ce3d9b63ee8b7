package services

import (
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
)

// NewServiceContainer wires every ledger service on top of one store. The same
// options (clock, collaborators, designated accounts) are shared by all of them.
func NewServiceContainer(store portsrepo.Store, options ...ServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:      NewAccountService(store, options...),
		Period:       NewPeriodService(store, options...),
		Balance:      NewBalanceService(store, options...),
		Transaction:  NewTransactionService(store, options...),
		Closing:      NewClosingService(store, options...),
		Billing:      NewBillingService(store, options...),
		Subscription: NewSubscriptionService(store, options...),
		Supplier:     NewSupplierService(store, options...),
		Reporting:    NewReportingService(store),
	}
}
