package domain

import (
	"github.com/shopspring/decimal"
)

// FinancialSummary holds the three headline sums for a range.
// Every field is zero, never absent, when no rows match.
type FinancialSummary struct {
	TotalExpected    decimal.Decimal `json:"totalExpected"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalExpenseCost decimal.Decimal `json:"totalExpenseCost"` // paid installments only
}

// ExpenseSplit is expense installment cost split by the parent expense status.
// Cancelled expenses count in neither bucket.
type ExpenseSplit struct {
	Paid    decimal.Decimal `json:"paid"`
	Pending decimal.Decimal `json:"pending"`
}

// SplitExpenses sums installment cost per status.
func SplitExpenses(details []ExpenseDetail) ExpenseSplit {
	split := ExpenseSplit{Paid: decimal.Zero, Pending: decimal.Zero}
	for _, d := range details {
		switch d.Status {
		case ExpensePaid:
			split.Paid = split.Paid.Add(d.Cost)
		case ExpensePending:
			split.Pending = split.Pending.Add(d.Cost)
		}
	}
	return split
}

// Balances are the dashboard KPIs derived from the aggregator primitives.
type Balances struct {
	TotalExpected   decimal.Decimal `json:"totalExpected"`
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	ExpensesPaid    decimal.Decimal `json:"expensesPaid"`
	ExpensesPending decimal.Decimal `json:"expensesPending"`
	SpecialBalance  decimal.Decimal `json:"specialBalance"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	FinalBalance    decimal.Decimal `json:"finalBalance"`
	FullBalance     decimal.Decimal `json:"fullBalance"`
}

// NewBalances derives the balances:
//
//	outstanding = expected - paid
//	final       = paid - expensesPaid + special
//	full        = final + outstanding - expensesPending
func NewBalances(summary FinancialSummary, split ExpenseSplit, special decimal.Decimal) Balances {
	outstanding := summary.TotalExpected.Sub(summary.TotalPaid)
	final := FinalBalance(summary.TotalPaid, split.Paid, special)
	return Balances{
		TotalExpected:   summary.TotalExpected,
		TotalPaid:       summary.TotalPaid,
		ExpensesPaid:    split.Paid,
		ExpensesPending: split.Pending,
		SpecialBalance:  special,
		Outstanding:     outstanding,
		FinalBalance:    final,
		FullBalance:     final.Add(outstanding).Sub(split.Pending),
	}
}

// FinalBalance is the cash actually realized: paid - expensesPaid + special.
// Reconciliation uses the same figure as its system balance.
func FinalBalance(paid, expensesPaid, special decimal.Decimal) decimal.Decimal {
	return paid.Sub(expensesPaid).Add(special)
}

// HalfYearRow is one line of the half-year report table.
type HalfYearRow struct {
	Label      string          `json:"label"`
	Year       int             `json:"year"`
	Half       int             `json:"half"`
	Range      DateRange       `json:"range"`
	Paid       decimal.Decimal `json:"paid"`
	Expenses   decimal.Decimal `json:"expenses"`
	Special    decimal.Decimal `json:"special"`
	Net        decimal.Decimal `json:"net"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// ReconciliationProposal compares a bank statement with the system balance.
type ReconciliationProposal struct {
	BuildingID    int64           `json:"buildingID"`
	Range         DateRange       `json:"range"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	ExpensesPaid  decimal.Decimal `json:"expensesPaid"`
	Special       decimal.Decimal `json:"special"`
	SystemBalance decimal.Decimal `json:"systemBalance"`
	BankBalance   decimal.Decimal `json:"bankBalance"`
	Difference    decimal.Decimal `json:"difference"`
}
