package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	"github.com/vaadbayit/vaad_backend/internal/core/services"
)

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExpenseRepository)
	buildings := new(MockBuildingRepository)
	svc := services.NewExpenseService(repo, buildings)

	buildings.On("FindBuildingByID", mock.Anything, buildingB).Return(&domain.Building{BuildingID: buildingB}, nil)
	repo.On("FindSupplierByID", mock.Anything, int64(4)).Return(&domain.Supplier{SupplierID: 4, Name: "Elevators Ltd", ExpenseType: "maintenance"}, nil)
	repo.On("CreateExpense", mock.Anything,
		mock.MatchedBy(func(e domain.Expense) bool {
			return e.TotalCost.Equal(dec(1200)) && e.ExpenseType == "maintenance" && e.Status == domain.ExpensePending
		}),
		mock.MatchedBy(func(p []domain.ExpensePayment) bool { return len(p) == 12 }),
	).Return(&domain.Expense{ExpenseID: 10, TotalCost: dec(1200)}, nil)

	created, err := svc.CreateExpense(ctx, domain.Expense{
		BuildingID:  buildingB,
		SupplierID:  4,
		StartDate:   month(2024, 1),
		MonthlyCost: dec(100),
		NumPayments: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ExpenseID)
	repo.AssertExpectations(t)
}

func TestCreateExpense_Invalid(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExpenseRepository)
	buildings := new(MockBuildingRepository)
	svc := services.NewExpenseService(repo, buildings)

	buildings.On("FindBuildingByID", mock.Anything, buildingB).Return(&domain.Building{BuildingID: buildingB}, nil)
	repo.On("FindSupplierByID", mock.Anything, int64(4)).Return(&domain.Supplier{SupplierID: 4}, nil)

	_, err := svc.CreateExpense(ctx, domain.Expense{BuildingID: buildingB, SupplierID: 4, NumPayments: 0, TotalCost: dec(5)})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreateExpense(ctx, domain.Expense{BuildingID: buildingB, SupplierID: 4, Status: "refunded"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "CreateExpense", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateExpenseStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExpenseRepository)
	svc := services.NewExpenseService(repo, new(MockBuildingRepository))

	repo.On("UpdateExpenseStatus", mock.Anything, int64(3), domain.ExpensePaid).Return(nil)
	repo.On("UpdateExpenseStatus", mock.Anything, int64(4), domain.ExpensePaid).Return(apperrors.ErrNotFound)

	assert.NoError(t, svc.UpdateExpenseStatus(ctx, 3, domain.ExpensePaid))
	assert.ErrorIs(t, svc.UpdateExpenseStatus(ctx, 4, domain.ExpensePaid), apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.UpdateExpenseStatus(ctx, 3, "unknown"), apperrors.ErrValidation)
}

func TestCreateSupplier(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExpenseRepository)
	buildings := new(MockBuildingRepository)
	svc := services.NewExpenseService(repo, buildings)

	buildings.On("FindBuildingByID", mock.Anything, int64(9)).Return(nil, apperrors.ErrNotFound)
	_, err := svc.CreateSupplier(ctx, domain.Supplier{Name: "Gardener"}, []int64{9})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.CreateSupplier(ctx, domain.Supplier{Name: " "}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateExpenseRederivesInstallments(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExpenseRepository)
	buildings := new(MockBuildingRepository)
	svc := services.NewExpenseService(repo, buildings)

	repo.On("FindExpenseByID", mock.Anything, int64(10)).Return(&domain.Expense{ExpenseID: 10, Status: domain.ExpensePaid}, nil)
	buildings.On("FindBuildingByID", mock.Anything, buildingB).Return(&domain.Building{BuildingID: buildingB}, nil)
	repo.On("FindSupplierByID", mock.Anything, int64(4)).Return(&domain.Supplier{SupplierID: 4, ExpenseType: "cleaning"}, nil)
	repo.On("UpdateExpense", mock.Anything,
		mock.MatchedBy(func(e domain.Expense) bool {
			return e.ExpenseID == 10 && e.Status == domain.ExpensePaid && e.MonthlyCost.Equal(dec(200)) && e.ExpenseType == "cleaning"
		}),
		mock.MatchedBy(func(p []domain.ExpensePayment) bool {
			return len(p) == 3 && p[2].ChargeMonth.Equal(month(2024, 4))
		}),
	).Return(nil)

	updated, err := svc.UpdateExpense(ctx, domain.Expense{
		ExpenseID:   10,
		BuildingID:  buildingB,
		SupplierID:  4,
		StartDate:   month(2024, 2),
		TotalCost:   dec(600),
		NumPayments: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, month(2024, 4), updated.EndDate)
	repo.AssertExpectations(t)
}

func TestUpdateExpense_Errors(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExpenseRepository)
	buildings := new(MockBuildingRepository)
	svc := services.NewExpenseService(repo, buildings)

	repo.On("FindExpenseByID", mock.Anything, int64(11)).Return(nil, apperrors.ErrNotFound)
	_, err := svc.UpdateExpense(ctx, domain.Expense{ExpenseID: 11})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	repo.On("FindExpenseByID", mock.Anything, int64(12)).Return(&domain.Expense{ExpenseID: 12, Status: domain.ExpensePending}, nil)
	buildings.On("FindBuildingByID", mock.Anything, buildingB).Return(&domain.Building{BuildingID: buildingB}, nil)
	repo.On("FindSupplierByID", mock.Anything, int64(4)).Return(&domain.Supplier{SupplierID: 4}, nil)
	_, err = svc.UpdateExpense(ctx, domain.Expense{ExpenseID: 12, BuildingID: buildingB, SupplierID: 4, NumPayments: 2})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "UpdateExpense", mock.Anything, mock.Anything, mock.Anything)
}

func TestListExpenses(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExpenseRepository)
	svc := services.NewExpenseService(repo, new(MockBuildingRepository))

	b := buildingB
	repo.On("ListExpenses", mock.Anything, &b).Return(nil, nil)

	items, err := svc.ListExpenses(ctx, &b)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestUpdateAndDeleteSupplier(t *testing.T) {
	ctx := context.Background()
	repo := new(MockExpenseRepository)
	svc := services.NewExpenseService(repo, new(MockBuildingRepository))

	repo.On("UpdateSupplier", mock.Anything, domain.Supplier{SupplierID: 4, Name: "Gardener", Segment: "services"}).Return(nil)
	repo.On("FindSupplierByID", mock.Anything, int64(4)).Return(&domain.Supplier{SupplierID: 4, Name: "Gardener", Segment: "services"}, nil)

	updated, err := svc.UpdateSupplier(ctx, domain.Supplier{SupplierID: 4, Name: " Gardener ", Segment: "services"})
	require.NoError(t, err)
	assert.Equal(t, "Gardener", updated.Name)

	_, err = svc.UpdateSupplier(ctx, domain.Supplier{SupplierID: 4})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	repo.On("DeleteSupplier", mock.Anything, int64(4)).Return(apperrors.NewAppError(400, "supplier still has expenses", apperrors.ErrValidation))
	repo.On("DeleteSupplier", mock.Anything, int64(5)).Return(nil)
	assert.ErrorIs(t, svc.DeleteSupplier(ctx, 4), apperrors.ErrValidation)
	assert.NoError(t, svc.DeleteSupplier(ctx, 5))
}
