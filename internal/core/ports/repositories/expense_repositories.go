package repositories

import (
	"context"

	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// SupplierRepository defines supplier persistence.
type SupplierRepository interface {
	// CreateSupplier stores the supplier and links it to buildingIDs.
	CreateSupplier(ctx context.Context, supplier domain.Supplier, buildingIDs []int64) (*domain.Supplier, error)
	FindSupplierByID(ctx context.Context, supplierID int64) (*domain.Supplier, error)
	ListSuppliersByBuilding(ctx context.Context, buildingID int64) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) error
	// DeleteSupplier fails with apperrors.ErrValidation while expenses still
	// reference the supplier.
	DeleteSupplier(ctx context.Context, supplierID int64) error
}

// ExpenseRepository defines expense persistence.
type ExpenseRepository interface {
	// CreateExpense writes the expense and its installments in one transaction.
	CreateExpense(ctx context.Context, expense domain.Expense, installments []domain.ExpensePayment) (*domain.Expense, error)
	FindExpenseByID(ctx context.Context, expenseID int64) (*domain.Expense, error)
	// ListExpenses returns expenses newest start date first. A nil buildingID
	// lists every building.
	ListExpenses(ctx context.Context, buildingID *int64) ([]domain.ExpenseListItem, error)
	// UpdateExpense rewrites the expense and replaces its installments in one
	// transaction.
	UpdateExpense(ctx context.Context, expense domain.Expense, installments []domain.ExpensePayment) error
	UpdateExpenseStatus(ctx context.Context, expenseID int64, status domain.ExpenseStatus) error
	DeleteExpense(ctx context.Context, expenseID int64) error
}

// ExpenseRepositoryFacade combines supplier and expense persistence.
type ExpenseRepositoryFacade interface {
	SupplierRepository
	ExpenseRepository
}
