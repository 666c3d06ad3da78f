package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
)

// financeService aggregates ledger rows into the financial primitives and
// the reports derived from them. All arithmetic happens here over typed
// rows; the ledger only filters by range and building.
type financeService struct {
	BaseService
	ledger portsrepo.LedgerReader
}

// NewFinanceService creates a new finance service.
func NewFinanceService(ledger portsrepo.LedgerReader) portssvc.FinanceSvcFacade {
	return &financeService{ledger: ledger}
}

var _ portssvc.FinanceSvcFacade = (*financeService)(nil)

func (s *financeService) FinancialSummary(ctx context.Context, r domain.DateRange, buildingID *int64, excludeSentinel bool) (domain.FinancialSummary, error) {
	summary := domain.FinancialSummary{
		TotalExpected:    decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalExpenseCost: decimal.Zero,
	}

	charges, err := s.ledger.ExpectedChargesInRange(ctx, r, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load expected charges", append(rangeAttrs(r), buildingAttr(buildingID))...)
		return summary, fmt.Errorf("failed to load expected charges: %w", err)
	}
	for _, c := range charges {
		if excludeSentinel && !c.Apartment.CountsAsResident() {
			continue
		}
		summary.TotalExpected = summary.TotalExpected.Add(c.ExpectedAmount)
	}

	txns, err := s.ledger.TransactionsInRange(ctx, r, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions", append(rangeAttrs(r), buildingAttr(buildingID))...)
		return summary, fmt.Errorf("failed to load transactions: %w", err)
	}
	for _, t := range txns {
		if excludeSentinel && !t.Apartment.CountsAsResident() {
			continue
		}
		summary.TotalPaid = summary.TotalPaid.Add(t.AmountPaid)
	}

	details, err := s.ledger.ExpensePaymentsInRange(ctx, r, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load expense payments", append(rangeAttrs(r), buildingAttr(buildingID))...)
		return summary, fmt.Errorf("failed to load expense payments: %w", err)
	}
	summary.TotalExpenseCost = domain.SplitExpenses(details).Paid

	return summary, nil
}

func (s *financeService) ExpenseDetails(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.ExpenseDetail, error) {
	details, err := s.ledger.ExpensePaymentsInRange(ctx, r, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load expense details", append(rangeAttrs(r), buildingAttr(buildingID))...)
		return nil, fmt.Errorf("failed to load expense details: %w", err)
	}
	if details == nil {
		details = []domain.ExpenseDetail{}
	}
	return details, nil
}

func (s *financeService) SpecialTransactionsBalance(ctx context.Context, r domain.DateRange, buildingID *int64) (decimal.Decimal, error) {
	rows, err := s.ledger.SentinelTransactionsInRange(ctx, r, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load special transactions", append(rangeAttrs(r), buildingAttr(buildingID))...)
		return decimal.Zero, fmt.Errorf("failed to load special transactions: %w", err)
	}
	total := decimal.Zero
	for _, t := range rows {
		total = total.Add(t.AmountPaid)
	}
	return total, nil
}

func (s *financeService) DashboardKPIs(ctx context.Context, r domain.DateRange, buildingID *int64) (domain.Balances, error) {
	summary, err := s.FinancialSummary(ctx, r, buildingID, true)
	if err != nil {
		return domain.Balances{}, err
	}
	details, err := s.ExpenseDetails(ctx, r, buildingID)
	if err != nil {
		return domain.Balances{}, err
	}
	special, err := s.SpecialTransactionsBalance(ctx, r, buildingID)
	if err != nil {
		return domain.Balances{}, err
	}

	balances := domain.NewBalances(summary, domain.SplitExpenses(details), special)
	s.LogDebug(ctx, "Dashboard KPIs computed",
		append(rangeAttrs(r), buildingAttr(buildingID), slog.String("final_balance", balances.FinalBalance.String()))...)
	return balances, nil
}

func (s *financeService) HalfYearSummary(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.HalfYearRow, error) {
	segments := r.HalfYearSegments()
	rows := make([]domain.HalfYearRow, 0, len(segments))
	cumulative := decimal.Zero

	for _, seg := range segments {
		summary, err := s.FinancialSummary(ctx, seg.Range, buildingID, true)
		if err != nil {
			return nil, err
		}
		special, err := s.SpecialTransactionsBalance(ctx, seg.Range, buildingID)
		if err != nil {
			return nil, err
		}

		net := domain.FinalBalance(summary.TotalPaid, summary.TotalExpenseCost, special)
		cumulative = cumulative.Add(net)
		rows = append(rows, domain.HalfYearRow{
			Label:      seg.Label,
			Year:       seg.Year,
			Half:       seg.Half,
			Range:      seg.Range,
			Paid:       summary.TotalPaid,
			Expenses:   summary.TotalExpenseCost,
			Special:    special,
			Net:        net,
			Cumulative: cumulative,
		})
	}
	return rows, nil
}

type chargeKey struct {
	apartmentID int64
	month       string
}

func (s *financeService) UnpaidCharges(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.UnpaidCharge, error) {
	charges, err := s.ledger.ExpectedChargesInRange(ctx, r, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load expected charges", append(rangeAttrs(r), buildingAttr(buildingID))...)
		return nil, fmt.Errorf("failed to load expected charges: %w", err)
	}
	txns, err := s.ledger.TransactionsInRange(ctx, r, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions", append(rangeAttrs(r), buildingAttr(buildingID))...)
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	paid := make(map[chargeKey]struct{}, len(txns))
	for _, t := range txns {
		paid[chargeKey{t.ApartmentID, t.ChargeMonth.Format(domain.DateLayout)}] = struct{}{}
	}

	unpaid := []domain.UnpaidCharge{}
	for _, c := range charges {
		if !c.Apartment.CountsAsResident() {
			continue
		}
		if _, ok := paid[chargeKey{c.ApartmentID, c.ChargeMonth.Format(domain.DateLayout)}]; ok {
			continue
		}
		unpaid = append(unpaid, domain.UnpaidCharge{
			ChargeMonth:     c.ChargeMonth,
			BuildingName:    c.BuildingName,
			ApartmentID:     c.ApartmentID,
			ApartmentNumber: *c.Apartment.ApartmentNumber,
			ExpectedAmount:  c.ExpectedAmount,
		})
	}
	return unpaid, nil
}
