package services

import (
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
	"github.com/vaadbayit/vaad_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Building = NewBuildingService(repos.BuildingRepo)
	container.Charge = NewChargeService(repos.LedgerRepo, repos.BuildingRepo)
	container.Transaction = NewTransactionService(repos.LedgerRepo, repos.BuildingRepo)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.BuildingRepo)

	// Reconciliation reads its system balance through the aggregator.
	container.Finance = NewFinanceService(repos.LedgerRepo)
	container.CashFlow = NewCashFlowService(repos.LedgerRepo)
	container.Reconciliation = NewReconciliationService(repos.LedgerRepo, container.Finance)
	container.Invoice = NewInvoiceService(repos.LedgerRepo, repos.InvoiceRepo)

	container.Auth = NewAuthService(cfg)

	return container
}
