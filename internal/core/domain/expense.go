package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is the lifecycle state of an expense; installments inherit it.
type ExpenseStatus string

const (
	ExpensePending   ExpenseStatus = "pending"
	ExpensePaid      ExpenseStatus = "paid"
	ExpenseCancelled ExpenseStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpensePending, ExpensePaid, ExpenseCancelled:
		return true
	}
	return false
}

// Expense is a cost owed to a supplier, paid in NumPayments monthly installments.
type Expense struct {
	ExpenseID         int64           `json:"expenseID"`
	BuildingID        int64           `json:"buildingID"`
	SupplierID        int64           `json:"supplierID"`
	SupplierReceiptID string          `json:"supplierReceiptID"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	MonthlyCost       decimal.Decimal `json:"monthlyCost"`
	NumPayments       int             `json:"numPayments"`
	ExpenseType       string          `json:"expenseType"`
	Status            ExpenseStatus   `json:"status"`
	Notes             string          `json:"notes"`
}

// ExpensePayment is one installment of an expense.
type ExpensePayment struct {
	PaymentID   int64           `json:"paymentID"`
	ExpenseID   int64           `json:"expenseID"`
	ChargeMonth time.Time       `json:"chargeMonth"`
	Cost        decimal.Decimal `json:"cost"`
	ExpenseType string          `json:"expenseType"`
}

// Installments derives the expense's monthly payments, one per month starting
// at the month of StartDate. It also fills in the derived cost fields:
// when MonthlyCost is zero it is TotalCost / NumPayments (rounded to agorot,
// the last installment absorbing the remainder), otherwise TotalCost is
// MonthlyCost × NumPayments. EndDate is the first day of the last installment month
// when unset.
func (e *Expense) Installments() ([]ExpensePayment, error) {
	if e.NumPayments <= 0 {
		return nil, fmt.Errorf("number of payments must be positive, got %d", e.NumPayments)
	}
	n := decimal.NewFromInt(int64(e.NumPayments))

	costs := make([]decimal.Decimal, e.NumPayments)
	switch {
	case e.MonthlyCost.IsPositive():
		e.TotalCost = e.MonthlyCost.Mul(n)
		for i := range costs {
			costs[i] = e.MonthlyCost
		}
	case e.TotalCost.IsPositive():
		e.MonthlyCost = e.TotalCost.DivRound(n, 2)
		allocated := decimal.Zero
		for i := 0; i < e.NumPayments-1; i++ {
			costs[i] = e.MonthlyCost
			allocated = allocated.Add(e.MonthlyCost)
		}
		costs[e.NumPayments-1] = e.TotalCost.Sub(allocated)
	default:
		return nil, fmt.Errorf("expense needs a positive total or monthly cost")
	}

	first := MonthStart(e.StartDate)
	if e.EndDate.IsZero() {
		e.EndDate = AddMonths(first, e.NumPayments-1)
	}

	payments := make([]ExpensePayment, e.NumPayments)
	for i := range payments {
		payments[i] = ExpensePayment{
			ExpenseID:   e.ExpenseID,
			ChargeMonth: AddMonths(first, i),
			Cost:        costs[i],
			ExpenseType: e.ExpenseType,
		}
	}
	return payments, nil
}

// ExpenseDetail is one installment joined with its parent expense's metadata.
type ExpenseDetail struct {
	ExpenseID         int64           `json:"expenseID"`
	BuildingID        int64           `json:"buildingID"`
	BuildingName      string          `json:"buildingName"`
	SupplierName      string          `json:"supplierName"`
	SupplierReceiptID string          `json:"supplierReceiptID"`
	ChargeMonth       time.Time       `json:"chargeMonth"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	MonthlyCost       decimal.Decimal `json:"monthlyCost"`
	NumPayments       int             `json:"numPayments"`
	Cost              decimal.Decimal `json:"cost"`
	ExpenseType       string          `json:"expenseType"`
	Status            ExpenseStatus   `json:"status"`
	Notes             string          `json:"notes"`
}

// ChargeYear and ChargeMonthNum mirror the calendar parts of ChargeMonth.
func (d ExpenseDetail) ChargeYear() int { return d.ChargeMonth.Year() }

func (d ExpenseDetail) ChargeMonthNum() int { return int(d.ChargeMonth.Month()) }

// ExpenseListItem is an expense with the names of its building and supplier.
type ExpenseListItem struct {
	Expense
	BuildingName string `json:"buildingName"`
	SupplierName string `json:"supplierName"`
}
