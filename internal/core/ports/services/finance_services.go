package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// FinancialAggregator exposes the range aggregates. A nil buildingID
// aggregates over every building.
type FinancialAggregator interface {
	FinancialSummary(ctx context.Context, r domain.DateRange, buildingID *int64, excludeSentinel bool) (domain.FinancialSummary, error)
	ExpenseDetails(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.ExpenseDetail, error)
	SpecialTransactionsBalance(ctx context.Context, r domain.DateRange, buildingID *int64) (decimal.Decimal, error)
}

// FinanceReports are the derived views built on the aggregator.
type FinanceReports interface {
	DashboardKPIs(ctx context.Context, r domain.DateRange, buildingID *int64) (domain.Balances, error)
	HalfYearSummary(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.HalfYearRow, error)
	UnpaidCharges(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.UnpaidCharge, error)
}

// FinanceSvcFacade combines the aggregator and its reports.
type FinanceSvcFacade interface {
	FinancialAggregator
	FinanceReports
}

// CashFlowSvc projects monthly net cash flow around the current month.
type CashFlowSvc interface {
	MonthlySeries(ctx context.Context, buildingID *int64, monthsBack, monthsForward int) (*domain.CashFlowSeries, error)
}

// ReconciliationSvcFacade aligns the system balance with a bank statement.
type ReconciliationSvcFacade interface {
	ProposeAdjustment(ctx context.Context, buildingID int64, r domain.DateRange, bankBalance decimal.Decimal) (*domain.ReconciliationProposal, error)
	CommitAdjustment(ctx context.Context, buildingID int64, difference decimal.Decimal, note string) (int64, error)
	// UndoLastAdjustment returns false when there was nothing to undo.
	UndoLastAdjustment(ctx context.Context, buildingID int64) (bool, error)
}
