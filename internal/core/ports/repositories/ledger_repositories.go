package repositories

import (
	"context"

	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// LedgerReader returns the raw financial facts for a closed date range,
// compared against charge_month. A nil buildingID means every building.
// Rows come back with their apartment reference resolved so callers can
// classify sentinel rows themselves.
type LedgerReader interface {
	ExpectedChargesInRange(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.ExpectedChargeRow, error)
	TransactionsInRange(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error)
	// ExpensePaymentsInRange returns installments of every status joined with
	// their expense, supplier and building.
	ExpensePaymentsInRange(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.ExpenseDetail, error)
	SentinelTransactionsInRange(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error)
	// PaidTransactionsInRange lists positive payments, newest payment first,
	// each flagged with whether its invoice was delivered.
	PaidTransactionsInRange(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error)
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)
	// HasExpectedCharges reports whether the building has any expected charge
	// in the given months of year.
	HasExpectedCharges(ctx context.Context, buildingID int64, year int, months []int) (bool, error)

	// FindLatestReconciliation returns the newest manual reconciliation of the
	// building by (payment_date desc, transaction_id desc), or apperrors.ErrNotFound.
	FindLatestReconciliation(ctx context.Context, buildingID int64) (*domain.Transaction, error)
	// FindSentinelAccount resolves the building's association apartment.
	// It never returns ErrNotFound: a building without an apartment numbered
	// "0" falls back to the legacy id 0.
	FindSentinelAccount(ctx context.Context, buildingID int64) (domain.SentinelAccount, error)
}

// LedgerWriter holds the single-purpose monetary writes.
type LedgerWriter interface {
	InsertTransaction(ctx context.Context, txn domain.Transaction) (int64, error)
	// InsertTransactions writes all rows in one database transaction.
	InsertTransactions(ctx context.Context, txns []domain.Transaction) ([]int64, error)
	// DeleteTransaction reports whether a row was removed.
	DeleteTransaction(ctx context.Context, transactionID int64) (bool, error)
	// InsertExpectedChargesIfAbsent inserts every charge whose (building,
	// apartment, month) is not present yet and leaves existing rows untouched. It returns
	// the number of rows actually inserted.
	InsertExpectedChargesIfAbsent(ctx context.Context, charges []domain.ExpectedCharge) (int, error)
}

// LedgerRepositoryFacade is the ledger store.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
