package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
	"github.com/vaadbayit/vaad_backend/internal/middleware"
)

type reconciliationService struct {
	BaseService
	ledger     portsrepo.LedgerRepositoryFacade
	aggregator portssvc.FinancialAggregator
}

// ReconciliationServiceOption is a functional option for configuring the reconciliation service
type ReconciliationServiceOption func(*reconciliationService)

// WithReconciliationClock replaces the clock used for the adjustment's dates.
func WithReconciliationClock(now func() time.Time) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.now = now
	}
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(ledger portsrepo.LedgerRepositoryFacade, aggregator portssvc.FinancialAggregator, options ...ReconciliationServiceOption) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{ledger: ledger, aggregator: aggregator}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

func (s *reconciliationService) ProposeAdjustment(ctx context.Context, buildingID int64, r domain.DateRange, bankBalance decimal.Decimal) (*domain.ReconciliationProposal, error) {
	summary, err := s.aggregator.FinancialSummary(ctx, r, &buildingID, true)
	if err != nil {
		return nil, err
	}
	special, err := s.aggregator.SpecialTransactionsBalance(ctx, r, &buildingID)
	if err != nil {
		return nil, err
	}

	system := domain.FinalBalance(summary.TotalPaid, summary.TotalExpenseCost, special)
	return &domain.ReconciliationProposal{
		BuildingID:    buildingID,
		Range:         r,
		TotalPaid:     summary.TotalPaid,
		ExpensesPaid:  summary.TotalExpenseCost,
		Special:       special,
		SystemBalance: system,
		BankBalance:   bankBalance,
		Difference:    bankBalance.Sub(system),
	}, nil
}

func (s *reconciliationService) CommitAdjustment(ctx context.Context, buildingID int64, difference decimal.Decimal, note string) (int64, error) {
	if difference.IsZero() {
		return 0, fmt.Errorf("%w: nothing to reconcile, difference is zero", apperrors.ErrValidation)
	}

	account, err := s.ledger.FindSentinelAccount(ctx, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve association apartment", slog.Int64("building_id", buildingID))
		return 0, fmt.Errorf("failed to resolve association apartment: %w", err)
	}

	txn := domain.Transaction{
		BuildingID:  buildingID,
		ApartmentID: account.ApartmentID,
		ResidentID:  account.ResidentID,
		ChargeMonth: s.CurrentMonth(),
		PaymentDate: s.Today(),
		AmountPaid:  difference,
		Method:      domain.MethodManualReconciliation,
		Reference:   strings.TrimSpace(note),
	}
	id, err := s.ledger.InsertTransaction(ctx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to record reconciliation", slog.Int64("building_id", buildingID))
		return 0, fmt.Errorf("failed to record reconciliation: %w", err)
	}

	actor, _ := middleware.UserIDFromCtx(ctx)
	s.LogInfo(ctx, "Reconciliation recorded",
		slog.Int64("building_id", buildingID),
		slog.String("recorded_by", actor),
		slog.Int64("transaction_id", id),
		slog.String("difference", difference.String()))
	return id, nil
}

func (s *reconciliationService) UndoLastAdjustment(ctx context.Context, buildingID int64) (bool, error) {
	latest, err := s.ledger.FindLatestReconciliation(ctx, buildingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		s.LogError(ctx, err, "Failed to find latest reconciliation", slog.Int64("building_id", buildingID))
		return false, fmt.Errorf("failed to find latest reconciliation: %w", err)
	}

	// A concurrent undo may have removed the row already; that is reported as
	// nothing to undo.
	deleted, err := s.ledger.DeleteTransaction(ctx, latest.TransactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to delete reconciliation", slog.Int64("transaction_id", latest.TransactionID))
		return false, fmt.Errorf("failed to delete reconciliation: %w", err)
	}
	if deleted {
		s.LogInfo(ctx, "Reconciliation undone",
			slog.Int64("building_id", buildingID),
			slog.Int64("transaction_id", latest.TransactionID))
	}
	return deleted, nil
}
