package services

// ServiceContainer holds instances of all the application services.
// Handlers receive it from main and pick the facades they need.
type ServiceContainer struct {
	Building       BuildingSvcFacade
	Charge         ChargeSvcFacade
	Transaction    TransactionSvcFacade
	Expense        ExpenseSvcFacade
	Finance        FinanceSvcFacade
	CashFlow       CashFlowSvc
	Reconciliation ReconciliationSvcFacade
	Invoice        InvoiceSvc
	Auth           AuthSvc
}
