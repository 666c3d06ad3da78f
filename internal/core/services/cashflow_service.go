package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
)

type cashFlowService struct {
	BaseService
	ledger portsrepo.LedgerReader
}

// CashFlowServiceOption is a functional option for configuring the cash-flow service
type CashFlowServiceOption func(*cashFlowService)

// WithCashFlowClock replaces the clock that decides the anchor month.
func WithCashFlowClock(now func() time.Time) CashFlowServiceOption {
	return func(s *cashFlowService) {
		s.now = now
	}
}

// NewCashFlowService creates a new cash-flow projector.
func NewCashFlowService(ledger portsrepo.LedgerReader, options ...CashFlowServiceOption) portssvc.CashFlowSvc {
	svc := &cashFlowService{ledger: ledger}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CashFlowSvc = (*cashFlowService)(nil)

// MonthlySeries builds the history window ending at the current month, the
// baseline before it, and the forecast after it.
func (s *cashFlowService) MonthlySeries(ctx context.Context, buildingID *int64, monthsBack, monthsForward int) (*domain.CashFlowSeries, error) {
	if monthsBack < 0 || monthsForward < 0 {
		return nil, fmt.Errorf("%w: month counts cannot be negative", apperrors.ErrValidation)
	}
	anchor := s.CurrentMonth()

	base, walked, err := s.baseCumulative(ctx, anchor, monthsBack, buildingID)
	if err != nil {
		return nil, err
	}

	history := make([]domain.MonthFigures, 0, monthsBack)
	for i := monthsBack - 1; i >= 0; i-- {
		f, err := s.historyFigures(ctx, domain.AddMonths(anchor, -i), buildingID)
		if err != nil {
			return nil, err
		}
		history = append(history, f)
	}
	historyPoints := domain.Accumulate(base, history)

	forecast := make([]domain.MonthFigures, 0, monthsForward)
	for i := 1; i <= monthsForward; i++ {
		f, err := s.forecastFigures(ctx, domain.AddMonths(anchor, i), buildingID)
		if err != nil {
			return nil, err
		}
		forecast = append(forecast, f)
	}
	forecastPoints := domain.Accumulate(domain.LastCumulative(historyPoints, base), forecast)

	s.LogDebug(ctx, "Cash-flow series computed",
		buildingAttr(buildingID),
		slog.String("anchor", anchor.Format(domain.DateLayout)),
		slog.Int("baseline_months", walked),
		slog.String("base_cumulative", base.String()))

	return &domain.CashFlowSeries{
		Anchor:         anchor,
		BaseCumulative: base,
		History:        historyPoints,
		Forecast:       forecastPoints,
	}, nil
}

// baseCumulative walks backwards from the month just before the history
// window. It stops at the first empty month or after
// domain.MaxBaselineMonths months, whichever comes first, and returns the
// sum of the walked months' net and how many months contributed.
func (s *cashFlowService) baseCumulative(ctx context.Context, anchor time.Time, monthsBack int, buildingID *int64) (decimal.Decimal, int, error) {
	base := decimal.Zero
	for i := 0; i < domain.MaxBaselineMonths; i++ {
		f, err := s.historyFigures(ctx, domain.AddMonths(anchor, -(monthsBack+i)), buildingID)
		if err != nil {
			return decimal.Zero, i, err
		}
		if f.IsEmpty() {
			return base, i, nil
		}
		base = base.Add(f.Net())
	}
	return base, domain.MaxBaselineMonths, nil
}

// historyFigures uses every expected charge including the sentinel's and
// installment cost by status.
func (s *cashFlowService) historyFigures(ctx context.Context, month time.Time, buildingID *int64) (domain.MonthFigures, error) {
	r := domain.MonthRange(month)
	f := domain.MonthFigures{Month: r.Start}

	expected, err := s.expected(ctx, r, buildingID)
	if err != nil {
		return f, err
	}
	f.Expected = expected

	specials, err := s.ledger.SentinelTransactionsInRange(ctx, r, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load special transactions", slog.String("month", r.Start.Format(domain.DateLayout)))
		return f, fmt.Errorf("failed to load special transactions: %w", err)
	}
	f.Special = decimal.Zero
	for _, t := range specials {
		f.Special = f.Special.Add(t.AmountPaid)
	}

	details, err := s.expenses(ctx, r, buildingID)
	if err != nil {
		return f, err
	}
	split := domain.SplitExpenses(details)
	f.ExpensesPaid, f.ExpensesPending = split.Paid, split.Pending
	return f, nil
}

// forecastFigures values future expenses at the expense's monthly cost and
// carries no special income.
func (s *cashFlowService) forecastFigures(ctx context.Context, month time.Time, buildingID *int64) (domain.MonthFigures, error) {
	r := domain.MonthRange(month)
	f := domain.MonthFigures{
		Month:           r.Start,
		Special:         decimal.Zero,
		ExpensesPaid:    decimal.Zero,
		ExpensesPending: decimal.Zero,
	}

	expected, err := s.expected(ctx, r, buildingID)
	if err != nil {
		return f, err
	}
	f.Expected = expected

	details, err := s.expenses(ctx, r, buildingID)
	if err != nil {
		return f, err
	}
	for _, d := range details {
		switch d.Status {
		case domain.ExpensePaid:
			f.ExpensesPaid = f.ExpensesPaid.Add(d.MonthlyCost)
		case domain.ExpensePending:
			f.ExpensesPending = f.ExpensesPending.Add(d.MonthlyCost)
		}
	}
	return f, nil
}

func (s *cashFlowService) expected(ctx context.Context, r domain.DateRange, buildingID *int64) (decimal.Decimal, error) {
	charges, err := s.ledger.ExpectedChargesInRange(ctx, r, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load expected charges", slog.String("month", r.Start.Format(domain.DateLayout)))
		return decimal.Zero, fmt.Errorf("failed to load expected charges: %w", err)
	}
	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.ExpectedAmount)
	}
	return total, nil
}

func (s *cashFlowService) expenses(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.ExpenseDetail, error) {
	details, err := s.ledger.ExpensePaymentsInRange(ctx, r, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load expense payments", slog.String("month", r.Start.Format(domain.DateLayout)))
		return nil, fmt.Errorf("failed to load expense payments: %w", err)
	}
	return details, nil
}
