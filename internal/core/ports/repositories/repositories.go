package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Inside TransactionManager.RunInTx every repository shares the same unit of work.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	PeriodRepo       PeriodRepositoryFacade
	BalanceRepo      BalanceRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	SubscriptionRepo SubscriptionRepositoryFacade
	SupplierRepo     SupplierRepositoryFacade
}
