package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
)

// --- In-memory ledger ---

// memLedger is a LedgerRepositoryFacade over slices. It applies the same
// range, building and join rules as the pgsql ledger.
type memLedger struct {
	mu         sync.Mutex
	buildings  map[int64]string
	apartments map[int64]domain.Apartment
	charges    []domain.ExpectedCharge
	txns       []domain.Transaction
	expenses   map[int64]domain.Expense
	payments   []domain.ExpensePayment
	nextID     int64
	failWith   error
}

var _ portsrepo.LedgerRepositoryFacade = (*memLedger)(nil)

func newMemLedger() *memLedger {
	return &memLedger{
		buildings:  map[int64]string{},
		apartments: map[int64]domain.Apartment{},
		expenses:   map[int64]domain.Expense{},
	}
}

func (l *memLedger) addBuilding(id int64, name string) {
	l.buildings[id] = name
}

func (l *memLedger) addApartment(a domain.Apartment) {
	l.apartments[a.ApartmentID] = a
}

func (l *memLedger) addTransaction(t domain.Transaction) int64 {
	id, _ := l.InsertTransaction(context.Background(), t)
	return id
}

func (l *memLedger) addCharge(c domain.ExpectedCharge) {
	l.charges = append(l.charges, c)
}

func (l *memLedger) addExpense(e domain.Expense) {
	payments, err := e.Installments()
	if err != nil {
		panic(err)
	}
	l.expenses[e.ExpenseID] = e
	l.payments = append(l.payments, payments...)
}

func (l *memLedger) ref(apartmentID int64) domain.ApartmentRef {
	if a, ok := l.apartments[apartmentID]; ok {
		return a.Ref()
	}
	return domain.ApartmentRef{ApartmentID: apartmentID}
}

func matchBuilding(filter *int64, buildingID int64) bool {
	return filter == nil || *filter == buildingID
}

func (l *memLedger) ExpectedChargesInRange(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.ExpectedChargeRow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return nil, l.failWith
	}
	var rows []domain.ExpectedChargeRow
	for _, c := range l.charges {
		if !r.Contains(c.ChargeMonth) || !matchBuilding(buildingID, c.BuildingID) {
			continue
		}
		rows = append(rows, domain.ExpectedChargeRow{ExpectedCharge: c, Apartment: l.ref(c.ApartmentID), BuildingName: l.buildings[c.BuildingID]})
	}
	return rows, nil
}

func (l *memLedger) TransactionsInRange(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return nil, l.failWith
	}
	var rows []domain.TransactionRow
	for _, t := range l.txns {
		if !r.Contains(t.ChargeMonth) || !matchBuilding(buildingID, t.BuildingID) {
			continue
		}
		rows = append(rows, domain.TransactionRow{Transaction: t, Apartment: l.ref(t.ApartmentID), BuildingName: l.buildings[t.BuildingID]})
	}
	return rows, nil
}

func (l *memLedger) SentinelTransactionsInRange(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error) {
	rows, err := l.TransactionsInRange(ctx, r, buildingID)
	if err != nil {
		return nil, err
	}
	var special []domain.TransactionRow
	for _, row := range rows {
		if row.IsSpecial() {
			special = append(special, row)
		}
	}
	return special, nil
}

func (l *memLedger) PaidTransactionsInRange(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error) {
	rows, err := l.TransactionsInRange(ctx, r, buildingID)
	if err != nil {
		return nil, err
	}
	paid := []domain.TransactionRow{}
	for _, row := range rows {
		if row.AmountPaid.IsPositive() {
			paid = append(paid, row)
		}
	}
	sort.SliceStable(paid, func(i, j int) bool {
		if !paid[i].PaymentDate.Equal(paid[j].PaymentDate) {
			return paid[i].PaymentDate.After(paid[j].PaymentDate)
		}
		return paid[i].TransactionID > paid[j].TransactionID
	})
	return paid, nil
}

func (l *memLedger) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.txns {
		if t.TransactionID == transactionID {
			found := t
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (l *memLedger) HasExpectedCharges(ctx context.Context, buildingID int64, year int, months []int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return false, l.failWith
	}
	for _, c := range l.charges {
		if c.BuildingID != buildingID || c.ChargeMonth.Year() != year {
			continue
		}
		for _, m := range months {
			if int(c.ChargeMonth.Month()) == m {
				return true, nil
			}
		}
	}
	return false, nil
}

func (l *memLedger) ExpensePaymentsInRange(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.ExpenseDetail, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return nil, l.failWith
	}
	var rows []domain.ExpenseDetail
	for _, p := range l.payments {
		e := l.expenses[p.ExpenseID]
		if !r.Contains(p.ChargeMonth) || !matchBuilding(buildingID, e.BuildingID) {
			continue
		}
		rows = append(rows, domain.ExpenseDetail{
			ExpenseID:   e.ExpenseID,
			BuildingID:  e.BuildingID,
			ChargeMonth: p.ChargeMonth,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			TotalCost:   e.TotalCost,
			MonthlyCost: e.MonthlyCost,
			NumPayments: e.NumPayments,
			Cost:        p.Cost,
			ExpenseType: p.ExpenseType,
			Status:      e.Status,
		})
	}
	return rows, nil
}

func (l *memLedger) FindLatestReconciliation(ctx context.Context, buildingID int64) (*domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var candidates []domain.Transaction
	for _, t := range l.txns {
		if t.BuildingID == buildingID && t.IsReconciliation() {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil, apperrors.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].PaymentDate.Equal(candidates[j].PaymentDate) {
			return candidates[i].PaymentDate.After(candidates[j].PaymentDate)
		}
		return candidates[i].TransactionID > candidates[j].TransactionID
	})
	latest := candidates[0]
	return &latest, nil
}

func (l *memLedger) FindSentinelAccount(ctx context.Context, buildingID int64) (domain.SentinelAccount, error) {
	for _, a := range l.apartments {
		if a.BuildingID == buildingID && a.ApartmentNumber == domain.SentinelApartmentNumber {
			return domain.SentinelAccount{BuildingID: buildingID, ApartmentID: a.ApartmentID}, nil
		}
	}
	return domain.SentinelAccount{BuildingID: buildingID, ApartmentID: domain.LegacySentinelApartmentID}, nil
}

func (l *memLedger) InsertTransaction(ctx context.Context, txn domain.Transaction) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return 0, l.failWith
	}
	l.nextID++
	txn.TransactionID = l.nextID
	l.txns = append(l.txns, txn)
	return txn.TransactionID, nil
}

func (l *memLedger) InsertTransactions(ctx context.Context, txns []domain.Transaction) ([]int64, error) {
	ids := make([]int64, 0, len(txns))
	for _, t := range txns {
		id, err := l.InsertTransaction(ctx, t)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (l *memLedger) DeleteTransaction(ctx context.Context, transactionID int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.txns {
		if t.TransactionID == transactionID {
			l.txns = append(l.txns[:i], l.txns[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (l *memLedger) InsertExpectedChargesIfAbsent(ctx context.Context, charges []domain.ExpectedCharge) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return 0, l.failWith
	}
	inserted := 0
	for _, c := range charges {
		exists := false
		for _, existing := range l.charges {
			if existing.BuildingID == c.BuildingID && existing.ApartmentID == c.ApartmentID && existing.ChargeMonth.Equal(c.ChargeMonth) {
				exists = true
				break
			}
		}
		if !exists {
			l.charges = append(l.charges, c)
			inserted++
		}
	}
	return inserted, nil
}

// --- Mock BuildingRepository ---
type MockBuildingRepository struct {
	mock.Mock
}

var _ portsrepo.BuildingRepositoryFacade = (*MockBuildingRepository)(nil)

func (m *MockBuildingRepository) CreateBuilding(ctx context.Context, building domain.Building) (*domain.Building, error) {
	args := m.Called(ctx, building)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}

func (m *MockBuildingRepository) UpdateBuilding(ctx context.Context, building domain.Building) error {
	return m.Called(ctx, building).Error(0)
}

func (m *MockBuildingRepository) DeleteBuilding(ctx context.Context, buildingID int64) error {
	return m.Called(ctx, buildingID).Error(0)
}

func (m *MockBuildingRepository) FindBuildingByID(ctx context.Context, buildingID int64) (*domain.Building, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}

func (m *MockBuildingRepository) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Building), args.Error(1)
}

func (m *MockBuildingRepository) SetupApartments(ctx context.Context, buildingID int64, setups []domain.ApartmentSetup) ([]domain.Apartment, error) {
	args := m.Called(ctx, buildingID, setups)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Apartment), args.Error(1)
}

func (m *MockBuildingRepository) ListApartments(ctx context.Context, buildingID int64) ([]domain.Apartment, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Apartment), args.Error(1)
}

func (m *MockBuildingRepository) FindApartmentByID(ctx context.Context, apartmentID int64) (*domain.Apartment, error) {
	args := m.Called(ctx, apartmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Apartment), args.Error(1)
}

func (m *MockBuildingRepository) CreateResident(ctx context.Context, resident domain.Resident) (*domain.Resident, error) {
	args := m.Called(ctx, resident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resident), args.Error(1)
}

func (m *MockBuildingRepository) FindResidentByID(ctx context.Context, residentID int64) (*domain.Resident, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resident), args.Error(1)
}

func (m *MockBuildingRepository) FindActiveResident(ctx context.Context, apartmentID int64) (*domain.Resident, error) {
	args := m.Called(ctx, apartmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resident), args.Error(1)
}

func (m *MockBuildingRepository) SetActiveResident(ctx context.Context, apartmentID, residentID int64) error {
	return m.Called(ctx, apartmentID, residentID).Error(0)
}

func (m *MockBuildingRepository) DeactivateResident(ctx context.Context, residentID int64, endDate time.Time) error {
	return m.Called(ctx, residentID, endDate).Error(0)
}

func (m *MockBuildingRepository) ListChargeSettings(ctx context.Context, buildingID int64) ([]domain.ChargeSetting, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChargeSetting), args.Error(1)
}

func (m *MockBuildingRepository) FindChargeSetting(ctx context.Context, apartmentID int64) (*domain.ChargeSetting, error) {
	args := m.Called(ctx, apartmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChargeSetting), args.Error(1)
}

func (m *MockBuildingRepository) UpsertChargeSetting(ctx context.Context, setting domain.ChargeSetting) error {
	return m.Called(ctx, setting).Error(0)
}

func (m *MockBuildingRepository) UpsertBuildingFee(ctx context.Context, buildingID int64, fee decimal.Decimal) (int, error) {
	args := m.Called(ctx, buildingID, fee)
	return args.Int(0), args.Error(1)
}

func (m *MockBuildingRepository) DashboardCounts(ctx context.Context) (domain.DashboardCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DashboardCounts), args.Error(1)
}

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

var _ portsrepo.ExpenseRepositoryFacade = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) CreateSupplier(ctx context.Context, supplier domain.Supplier, buildingIDs []int64) (*domain.Supplier, error) {
	args := m.Called(ctx, supplier, buildingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supplier), args.Error(1)
}

func (m *MockExpenseRepository) FindSupplierByID(ctx context.Context, supplierID int64) (*domain.Supplier, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supplier), args.Error(1)
}

func (m *MockExpenseRepository) ListSuppliersByBuilding(ctx context.Context, buildingID int64) ([]domain.Supplier, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Supplier), args.Error(1)
}

func (m *MockExpenseRepository) CreateExpense(ctx context.Context, expense domain.Expense, installments []domain.ExpensePayment) (*domain.Expense, error) {
	args := m.Called(ctx, expense, installments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID int64) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpenseStatus(ctx context.Context, expenseID int64, status domain.ExpenseStatus) error {
	return m.Called(ctx, expenseID, status).Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, expenseID int64) error {
	return m.Called(ctx, expenseID).Error(0)
}

func (m *MockExpenseRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *MockExpenseRepository) DeleteSupplier(ctx context.Context, supplierID int64) error {
	return m.Called(ctx, supplierID).Error(0)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, buildingID *int64) ([]domain.ExpenseListItem, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseListItem), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense, installments []domain.ExpensePayment) error {
	return m.Called(ctx, expense, installments).Error(0)
}

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepository = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	args := m.Called(ctx, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID int64) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) LogInvoiceSend(ctx context.Context, invoiceID int64, email string) error {
	return m.Called(ctx, invoiceID, email).Error(0)
}

// --- helpers ---

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func int64Ptr(v int64) *int64 { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
