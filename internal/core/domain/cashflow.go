package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxBaselineMonths caps the backward walk that computes the baseline
// cumulative before a cash-flow window.
const MaxBaselineMonths = 100

// MonthFigures are the per-month inputs of the cash-flow projection.
type MonthFigures struct {
	Month           time.Time
	Expected        decimal.Decimal
	Special         decimal.Decimal
	ExpensesPaid    decimal.Decimal
	ExpensesPending decimal.Decimal
}

// IsEmpty is the baseline walk's termination predicate: a month with no
// expected income, no special income and no expenses in either state is
// taken as the start of the building's data. A genuine quiet month looks the
// same and ends the walk early.
func (f MonthFigures) IsEmpty() bool {
	return f.Expected.IsZero() && f.Special.IsZero() &&
		f.ExpensesPaid.IsZero() && f.ExpensesPending.IsZero()
}

// Net is expected + special - expensesPaid - expensesPending.
func (f MonthFigures) Net() decimal.Decimal {
	return f.Expected.Add(f.Special).Sub(f.ExpensesPaid).Sub(f.ExpensesPending)
}

// CashFlowMonth is one point of the series.
type CashFlowMonth struct {
	Month      time.Time       `json:"month"`
	Net        decimal.Decimal `json:"net"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// CashFlowSeries is the history window, its forecast, and the baseline the
// history cumulative starts from. Both series are chronological.
type CashFlowSeries struct {
	Anchor         time.Time       `json:"anchor"`
	BaseCumulative decimal.Decimal `json:"baseCumulative"`
	History        []CashFlowMonth `json:"history"`
	Forecast       []CashFlowMonth `json:"forecast"`
}

// Accumulate turns figures into points whose cumulative starts at start.
func Accumulate(start decimal.Decimal, figures []MonthFigures) []CashFlowMonth {
	points := make([]CashFlowMonth, 0, len(figures))
	running := start
	for _, f := range figures {
		net := f.Net()
		running = running.Add(net)
		points = append(points, CashFlowMonth{Month: f.Month, Net: net, Cumulative: running})
	}
	return points
}

// LastCumulative returns the cumulative of the last point, or fallback when
// there are no points.
func LastCumulative(points []CashFlowMonth, fallback decimal.Decimal) decimal.Decimal {
	if len(points) == 0 {
		return fallback
	}
	return points[len(points)-1].Cumulative
}
