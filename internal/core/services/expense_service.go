package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
)

type expenseService struct {
	BaseService
	repo         portsrepo.ExpenseRepositoryFacade
	buildingRepo portsrepo.BuildingReader
}

// NewExpenseService creates a new expense service.
func NewExpenseService(repo portsrepo.ExpenseRepositoryFacade, buildingRepo portsrepo.BuildingReader) portssvc.ExpenseSvcFacade {
	return &expenseService{repo: repo, buildingRepo: buildingRepo}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) CreateSupplier(ctx context.Context, supplier domain.Supplier, buildingIDs []int64) (*domain.Supplier, error) {
	supplier.Name = strings.TrimSpace(supplier.Name)
	if supplier.Name == "" {
		return nil, fmt.Errorf("%w: supplier name is required", apperrors.ErrValidation)
	}
	for _, id := range buildingIDs {
		if _, err := s.buildingRepo.FindBuildingByID(ctx, id); err != nil {
			return nil, err
		}
	}
	created, err := s.repo.CreateSupplier(ctx, supplier, buildingIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to create supplier", slog.String("name", supplier.Name))
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return created, nil
}

func (s *expenseService) ListSuppliers(ctx context.Context, buildingID int64) ([]domain.Supplier, error) {
	suppliers, err := s.repo.ListSuppliersByBuilding(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *expenseService) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	supplier.Name = strings.TrimSpace(supplier.Name)
	if supplier.Name == "" {
		return nil, fmt.Errorf("%w: supplier name is required", apperrors.ErrValidation)
	}
	if err := s.repo.UpdateSupplier(ctx, supplier); err != nil {
		return nil, err
	}
	return s.repo.FindSupplierByID(ctx, supplier.SupplierID)
}

// DeleteSupplier refuses suppliers that still have expenses.
func (s *expenseService) DeleteSupplier(ctx context.Context, supplierID int64) error {
	if err := s.repo.DeleteSupplier(ctx, supplierID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Supplier deleted", slog.Int64("supplier_id", supplierID))
	return nil
}

func (s *expenseService) ListExpenses(ctx context.Context, buildingID *int64) ([]domain.ExpenseListItem, error) {
	items, err := s.repo.ListExpenses(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	if items == nil {
		items = []domain.ExpenseListItem{}
	}
	return items, nil
}

// CreateExpense derives the installments and stores the expense with them.
func (s *expenseService) CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	installments, err := s.prepareExpense(ctx, &expense)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateExpense(ctx, expense, installments)
	if err != nil {
		s.LogError(ctx, err, "Failed to create expense",
			slog.Int64("building_id", expense.BuildingID),
			slog.Int64("supplier_id", expense.SupplierID))
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	s.LogInfo(ctx, "Expense created",
		slog.Int64("expense_id", created.ExpenseID),
		slog.Int("installments", len(installments)),
		slog.String("total_cost", created.TotalCost.String()))
	return created, nil
}

// UpdateExpense keeps the stored status when none is given. Cost fields and
// installments are derived again exactly as on create.
func (s *expenseService) UpdateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	existing, err := s.repo.FindExpenseByID(ctx, expense.ExpenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status == "" {
		expense.Status = existing.Status
	}
	installments, err := s.prepareExpense(ctx, &expense)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateExpense(ctx, expense, installments); err != nil {
		s.LogError(ctx, err, "Failed to update expense", slog.Int64("expense_id", expense.ExpenseID))
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	s.LogInfo(ctx, "Expense updated",
		slog.Int64("expense_id", expense.ExpenseID),
		slog.Int("installments", len(installments)))
	return &expense, nil
}

// prepareExpense validates the expense against its building and supplier and
// derives its installments.
func (s *expenseService) prepareExpense(ctx context.Context, expense *domain.Expense) ([]domain.ExpensePayment, error) {
	if expense.Status == "" {
		expense.Status = domain.ExpensePending
	}
	if !expense.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown expense status %q", apperrors.ErrValidation, expense.Status)
	}
	if _, err := s.buildingRepo.FindBuildingByID(ctx, expense.BuildingID); err != nil {
		return nil, err
	}
	supplier, err := s.repo.FindSupplierByID(ctx, expense.SupplierID)
	if err != nil {
		return nil, err
	}
	if expense.ExpenseType == "" {
		expense.ExpenseType = supplier.ExpenseType
	}

	installments, err := expense.Installments()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return installments, nil
}

func (s *expenseService) UpdateExpenseStatus(ctx context.Context, expenseID int64, status domain.ExpenseStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown expense status %q", apperrors.ErrValidation, status)
	}
	if err := s.repo.UpdateExpenseStatus(ctx, expenseID, status); err != nil {
		return err
	}
	s.LogInfo(ctx, "Expense status updated", slog.Int64("expense_id", expenseID), slog.String("status", string(status)))
	return nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, expenseID int64) error {
	return s.repo.DeleteExpense(ctx, expenseID)
}
