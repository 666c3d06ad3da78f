//go:build integration

package pgsql

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
	"github.com/vaadbayit/vaad_backend/pkg/database"
)

type PostgresRepositorySuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	repos     portsrepo.RepositoryProvider
}

func TestPostgresRepositorySuite(t *testing.T) {
	suite.Run(t, new(PostgresRepositorySuite))
}

func (s *PostgresRepositorySuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("vaad_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Require().NoError(database.RunMigrations(dsn, "file://../../../../migrations", logger))

	s.pool, err = database.NewPgxPool(ctx, dsn, true)
	s.Require().NoError(err)
	s.repos = NewRepositoryProvider(s.pool, 10*time.Second)
}

func (s *PostgresRepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE buildings, suppliers RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// seedBuilding creates a building with apartments "1", "2" and the association apartment "0".
func (s *PostgresRepositorySuite) seedBuilding(ctx context.Context) (*domain.Building, map[string]domain.Apartment) {
	b, err := s.repos.BuildingRepo.CreateBuilding(ctx, domain.Building{Name: "Herzl 12"})
	s.Require().NoError(err)

	apartments, err := s.repos.BuildingRepo.SetupApartments(ctx, b.BuildingID, []domain.ApartmentSetup{
		{Floor: 0, ApartmentNumber: "0"},
		{Floor: 1, ApartmentNumber: "1", Resident: &domain.Resident{Role: domain.RoleOwner, FirstName: "Dana", LastName: "Levi", StartDate: month(2024, time.January), IsActive: true}},
		{Floor: 1, ApartmentNumber: "2"},
	})
	s.Require().NoError(err)

	byNumber := make(map[string]domain.Apartment, len(apartments))
	for _, a := range apartments {
		byNumber[a.ApartmentNumber] = a
	}
	return b, byNumber
}

func (s *PostgresRepositorySuite) TestSetupApartmentsIsAllOrNothing() {
	ctx := context.Background()
	b, err := s.repos.BuildingRepo.CreateBuilding(ctx, domain.Building{Name: "Ben Yehuda 3"})
	s.Require().NoError(err)

	_, err = s.repos.BuildingRepo.SetupApartments(ctx, b.BuildingID, []domain.ApartmentSetup{
		{ApartmentNumber: "1"},
		{ApartmentNumber: "1"},
	})
	s.Require().ErrorIs(err, apperrors.ErrDuplicate)

	apartments, err := s.repos.BuildingRepo.ListApartments(ctx, b.BuildingID)
	s.Require().NoError(err)
	s.Empty(apartments)
}

func (s *PostgresRepositorySuite) TestExpectedChargesInsertOnlyWhenAbsent() {
	ctx := context.Background()
	b, apts := s.seedBuilding(ctx)

	charges := []domain.ExpectedCharge{
		{ApartmentID: apts["1"].ApartmentID, BuildingID: b.BuildingID, ChargeMonth: month(2024, time.March), ExpectedAmount: decimal.NewFromInt(300)},
		{ApartmentID: apts["2"].ApartmentID, BuildingID: b.BuildingID, ChargeMonth: month(2024, time.March), ExpectedAmount: decimal.NewFromInt(300)},
	}
	inserted, err := s.repos.LedgerRepo.InsertExpectedChargesIfAbsent(ctx, charges)
	s.Require().NoError(err)
	s.Equal(2, inserted)

	charges[0].ExpectedAmount = decimal.NewFromInt(999)
	inserted, err = s.repos.LedgerRepo.InsertExpectedChargesIfAbsent(ctx, charges)
	s.Require().NoError(err)
	s.Zero(inserted)

	rows, err := s.repos.LedgerRepo.ExpectedChargesInRange(ctx, domain.MonthRange(month(2024, time.March)), &b.BuildingID)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	for _, row := range rows {
		s.True(row.ExpectedAmount.Equal(decimal.NewFromInt(300)), "existing charge must keep its snapshot")
		s.Require().NotNil(row.Apartment.ApartmentNumber)
	}
}

func (s *PostgresRepositorySuite) TestSentinelTransactionsMatchBothConventions() {
	ctx := context.Background()
	b, apts := s.seedBuilding(ctx)
	march := month(2024, time.March)
	resident, err := s.repos.BuildingRepo.FindActiveResident(ctx, apts["1"].ApartmentID)
	s.Require().NoError(err)

	ids, err := s.repos.LedgerRepo.InsertTransactions(ctx, []domain.Transaction{
		{BuildingID: b.BuildingID, ApartmentID: apts["1"].ApartmentID, ResidentID: &resident.ResidentID, ChargeMonth: march, PaymentDate: march, AmountPaid: decimal.NewFromInt(300), Method: domain.MethodCash},
		{BuildingID: b.BuildingID, ApartmentID: apts["0"].ApartmentID, ChargeMonth: march, PaymentDate: march, AmountPaid: decimal.NewFromInt(50), Method: domain.MethodManualReconciliation},
		{BuildingID: b.BuildingID, ApartmentID: domain.LegacySentinelApartmentID, ChargeMonth: march, PaymentDate: march, AmountPaid: decimal.NewFromInt(-20), Method: domain.MethodBankTransfer},
	})
	s.Require().NoError(err)
	s.Len(ids, 3)

	all, err := s.repos.LedgerRepo.TransactionsInRange(ctx, domain.MonthRange(march), &b.BuildingID)
	s.Require().NoError(err)
	s.Len(all, 3)
	s.Equal("Dana Levi", all[0].ResidentName)

	special, err := s.repos.LedgerRepo.SentinelTransactionsInRange(ctx, domain.MonthRange(march), &b.BuildingID)
	s.Require().NoError(err)
	s.Require().Len(special, 2)
	for _, row := range special {
		s.True(row.IsSpecial())
	}
}

func (s *PostgresRepositorySuite) TestLatestReconciliationAndDelete() {
	ctx := context.Background()
	b, apts := s.seedBuilding(ctx)

	_, err := s.repos.LedgerRepo.FindLatestReconciliation(ctx, b.BuildingID)
	s.Require().ErrorIs(err, apperrors.ErrNotFound)

	account, err := s.repos.LedgerRepo.FindSentinelAccount(ctx, b.BuildingID)
	s.Require().NoError(err)
	s.Equal(apts["0"].ApartmentID, account.ApartmentID)

	day := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	first, err := s.repos.LedgerRepo.InsertTransaction(ctx, domain.Transaction{
		BuildingID: b.BuildingID, ApartmentID: account.ApartmentID, ChargeMonth: month(2024, time.May),
		PaymentDate: day, AmountPaid: decimal.NewFromInt(10), Method: domain.MethodManualReconciliation,
	})
	s.Require().NoError(err)
	second, err := s.repos.LedgerRepo.InsertTransaction(ctx, domain.Transaction{
		BuildingID: b.BuildingID, ApartmentID: account.ApartmentID, ChargeMonth: month(2024, time.May),
		PaymentDate: day, AmountPaid: decimal.NewFromInt(-4), Method: domain.MethodManualReconciliation,
	})
	s.Require().NoError(err)
	s.Greater(second, first)

	latest, err := s.repos.LedgerRepo.FindLatestReconciliation(ctx, b.BuildingID)
	s.Require().NoError(err)
	s.Equal(second, latest.TransactionID)

	removed, err := s.repos.LedgerRepo.DeleteTransaction(ctx, second)
	s.Require().NoError(err)
	s.True(removed)
	removed, err = s.repos.LedgerRepo.DeleteTransaction(ctx, second)
	s.Require().NoError(err)
	s.False(removed)
}

func (s *PostgresRepositorySuite) TestSentinelAccountFallsBackToLegacyID() {
	ctx := context.Background()
	b, err := s.repos.BuildingRepo.CreateBuilding(ctx, domain.Building{Name: "No association apartment"})
	s.Require().NoError(err)

	account, err := s.repos.LedgerRepo.FindSentinelAccount(ctx, b.BuildingID)
	s.Require().NoError(err)
	s.Equal(domain.LegacySentinelApartmentID, account.ApartmentID)
	s.Nil(account.ResidentID)
}

func (s *PostgresRepositorySuite) TestBuildingFeeSkipsAssociationApartment() {
	ctx := context.Background()
	b, apts := s.seedBuilding(ctx)

	updated, err := s.repos.BuildingRepo.UpsertBuildingFee(ctx, b.BuildingID, decimal.NewFromInt(250))
	s.Require().NoError(err)
	s.Equal(2, updated)

	_, err = s.repos.BuildingRepo.FindChargeSetting(ctx, apts["0"].ApartmentID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	setting, err := s.repos.BuildingRepo.FindChargeSetting(ctx, apts["2"].ApartmentID)
	s.Require().NoError(err)
	s.Equal(domain.DefaultChargeType, setting.ChargeType)
}

func (s *PostgresRepositorySuite) TestExpenseInstallmentsAreReported() {
	ctx := context.Background()
	b, _ := s.seedBuilding(ctx)

	supplier, err := s.repos.ExpenseRepo.CreateSupplier(ctx, domain.Supplier{Name: "Elevators Ltd", ExpenseType: "maintenance"}, []int64{b.BuildingID})
	s.Require().NoError(err)

	expense := domain.Expense{
		BuildingID: b.BuildingID, SupplierID: supplier.SupplierID, StartDate: month(2024, time.January),
		TotalCost: decimal.NewFromInt(1000), NumPayments: 3, ExpenseType: "maintenance", Status: domain.ExpensePending,
	}
	installments, err := expense.Installments()
	s.Require().NoError(err)
	created, err := s.repos.ExpenseRepo.CreateExpense(ctx, expense, installments)
	s.Require().NoError(err)

	rows, err := s.repos.LedgerRepo.ExpensePaymentsInRange(ctx, domain.DateRange{Start: month(2024, time.January), End: month(2024, time.December)}, &b.BuildingID)
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	total := decimal.Zero
	for _, row := range rows {
		s.Equal("Elevators Ltd", row.SupplierName)
		total = total.Add(row.Cost)
	}
	s.True(total.Equal(decimal.NewFromInt(1000)))

	s.Require().NoError(s.repos.ExpenseRepo.UpdateExpenseStatus(ctx, created.ExpenseID, domain.ExpensePaid))
	require.NoError(s.T(), s.repos.ExpenseRepo.DeleteExpense(ctx, created.ExpenseID))
	rows, err = s.repos.LedgerRepo.ExpensePaymentsInRange(ctx, domain.DateRange{Start: month(2024, time.January), End: month(2024, time.December)}, &b.BuildingID)
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *PostgresRepositorySuite) TestLegacyChargesAreKeyedPerBuilding() {
	ctx := context.Background()
	first, _ := s.seedBuilding(ctx)
	second, err := s.repos.BuildingRepo.CreateBuilding(ctx, domain.Building{Name: "Dizengoff 90"})
	s.Require().NoError(err)
	march := month(2024, time.March)

	inserted, err := s.repos.LedgerRepo.InsertExpectedChargesIfAbsent(ctx, []domain.ExpectedCharge{
		{ApartmentID: domain.LegacySentinelApartmentID, BuildingID: first.BuildingID, ChargeMonth: march, ExpectedAmount: decimal.NewFromInt(100)},
		{ApartmentID: domain.LegacySentinelApartmentID, BuildingID: second.BuildingID, ChargeMonth: march, ExpectedAmount: decimal.NewFromInt(100)},
	})
	s.Require().NoError(err)
	s.Equal(2, inserted)

	exists, err := s.repos.LedgerRepo.HasExpectedCharges(ctx, second.BuildingID, 2024, []int{2, 3})
	s.Require().NoError(err)
	s.True(exists)
	exists, err = s.repos.LedgerRepo.HasExpectedCharges(ctx, second.BuildingID, 2024, []int{4})
	s.Require().NoError(err)
	s.False(exists)
}

func (s *PostgresRepositorySuite) TestPaidTransactionsAndInvoices() {
	ctx := context.Background()
	b, apts := s.seedBuilding(ctx)
	march := month(2024, time.March)
	resident, err := s.repos.BuildingRepo.FindActiveResident(ctx, apts["1"].ApartmentID)
	s.Require().NoError(err)

	ids, err := s.repos.LedgerRepo.InsertTransactions(ctx, []domain.Transaction{
		{BuildingID: b.BuildingID, ApartmentID: apts["1"].ApartmentID, ResidentID: &resident.ResidentID, ChargeMonth: march, PaymentDate: march, AmountPaid: decimal.NewFromInt(300), Method: domain.MethodCash},
		{BuildingID: b.BuildingID, ApartmentID: apts["1"].ApartmentID, ResidentID: &resident.ResidentID, ChargeMonth: march, PaymentDate: march.AddDate(0, 0, 9), AmountPaid: decimal.NewFromInt(50), Method: domain.MethodCheck},
		{BuildingID: b.BuildingID, ApartmentID: apts["0"].ApartmentID, ChargeMonth: march, PaymentDate: march.AddDate(0, 0, 20), AmountPaid: decimal.NewFromInt(-20), Method: domain.MethodManualReconciliation},
	})
	s.Require().NoError(err)

	paid, err := s.repos.LedgerRepo.PaidTransactionsInRange(ctx, domain.MonthRange(march), &b.BuildingID)
	s.Require().NoError(err)
	s.Require().Len(paid, 2)
	s.Equal(ids[1], paid[0].TransactionID)
	s.Equal(ids[0], paid[1].TransactionID)
	s.False(paid[0].InvoiceSent)

	txn, err := s.repos.LedgerRepo.FindTransactionByID(ctx, ids[0])
	s.Require().NoError(err)
	inv, err := domain.InvoiceFor(*txn, march)
	s.Require().NoError(err)
	created, err := s.repos.InvoiceRepo.CreateInvoice(ctx, inv)
	s.Require().NoError(err)
	_, err = s.repos.InvoiceRepo.CreateInvoice(ctx, inv)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	s.Require().NoError(s.repos.InvoiceRepo.LogInvoiceSend(ctx, created.InvoiceID, "dana@example.com"))
	s.ErrorIs(s.repos.InvoiceRepo.LogInvoiceSend(ctx, created.InvoiceID+100, "dana@example.com"), apperrors.ErrNotFound)

	paid, err = s.repos.LedgerRepo.PaidTransactionsInRange(ctx, domain.MonthRange(march), &b.BuildingID)
	s.Require().NoError(err)
	s.True(paid[1].InvoiceSent)

	_, err = s.repos.LedgerRepo.FindTransactionByID(ctx, ids[2]+100)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PostgresRepositorySuite) TestDashboardCountsSkipPlaceholders() {
	ctx := context.Background()
	s.seedBuilding(ctx)

	counts, err := s.repos.BuildingRepo.DashboardCounts(ctx)
	s.Require().NoError(err)
	s.Equal(domain.DashboardCounts{TotalBuildings: 1, TotalApartments: 2, ActiveResidents: 1}, counts)
}

func (s *PostgresRepositorySuite) TestSupplierAndExpenseMaintenance() {
	ctx := context.Background()
	b, _ := s.seedBuilding(ctx)

	supplier, err := s.repos.ExpenseRepo.CreateSupplier(ctx, domain.Supplier{Name: "Cleaners"}, []int64{b.BuildingID})
	s.Require().NoError(err)
	supplier.Segment = "services"
	s.Require().NoError(s.repos.ExpenseRepo.UpdateSupplier(ctx, *supplier))
	s.ErrorIs(s.repos.ExpenseRepo.UpdateSupplier(ctx, domain.Supplier{SupplierID: supplier.SupplierID + 100, Name: "x"}), apperrors.ErrNotFound)

	expense := domain.Expense{
		BuildingID: b.BuildingID, SupplierID: supplier.SupplierID, StartDate: month(2024, time.January),
		TotalCost: decimal.NewFromInt(600), NumPayments: 2, Status: domain.ExpensePending,
	}
	installments, err := expense.Installments()
	s.Require().NoError(err)
	created, err := s.repos.ExpenseRepo.CreateExpense(ctx, expense, installments)
	s.Require().NoError(err)

	s.ErrorIs(s.repos.ExpenseRepo.DeleteSupplier(ctx, supplier.SupplierID), apperrors.ErrValidation)

	created.NumPayments = 3
	created.MonthlyCost = decimal.Zero
	created.EndDate = time.Time{}
	installments, err = created.Installments()
	s.Require().NoError(err)
	s.Require().NoError(s.repos.ExpenseRepo.UpdateExpense(ctx, *created, installments))

	rows, err := s.repos.LedgerRepo.ExpensePaymentsInRange(ctx, domain.DateRange{Start: month(2024, time.January), End: month(2024, time.December)}, &b.BuildingID)
	s.Require().NoError(err)
	s.Len(rows, 3)

	items, err := s.repos.ExpenseRepo.ListExpenses(ctx, &b.BuildingID)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("Cleaners", items[0].SupplierName)
	s.Equal("Herzl 12", items[0].BuildingName)
	s.Equal(3, items[0].NumPayments)

	s.Require().NoError(s.repos.ExpenseRepo.DeleteExpense(ctx, created.ExpenseID))
	s.Require().NoError(s.repos.ExpenseRepo.DeleteSupplier(ctx, supplier.SupplierID))
	s.ErrorIs(s.repos.ExpenseRepo.DeleteSupplier(ctx, supplier.SupplierID), apperrors.ErrNotFound)
}
