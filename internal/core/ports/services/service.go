package services

// ServiceContainer holds instances of all the application services.
// It is the entry point used by the HTTP handlers and the CLI.
type ServiceContainer struct {
	Account      AccountSvcFacade
	Period       PeriodSvcFacade
	Balance      BalanceLedgerSvc
	Transaction  TransactionSvcFacade
	Closing      ClosingSvc
	Billing      BillingSvc
	Subscription SubscriptionSvc
	Supplier     SupplierSvc
	Reporting    ReportingService
}
