package services

import (
	"context"

	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// SupplierSvc manages suppliers.
type SupplierSvc interface {
	CreateSupplier(ctx context.Context, supplier domain.Supplier, buildingIDs []int64) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, buildingID int64) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, supplierID int64) error
}

// ExpenseSvc manages expenses and their installments.
type ExpenseSvc interface {
	CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	ListExpenses(ctx context.Context, buildingID *int64) ([]domain.ExpenseListItem, error)
	// UpdateExpense replaces the expense and re-derives its installments.
	UpdateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	UpdateExpenseStatus(ctx context.Context, expenseID int64, status domain.ExpenseStatus) error
	DeleteExpense(ctx context.Context, expenseID int64) error
}

// ExpenseSvcFacade combines supplier and expense management.
type ExpenseSvcFacade interface {
	SupplierSvc
	ExpenseSvc
}
