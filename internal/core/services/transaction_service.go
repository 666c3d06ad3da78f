package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
)

type transactionService struct {
	BaseService
	ledger       portsrepo.LedgerRepositoryFacade
	buildingRepo portsrepo.BuildingRepositoryFacade
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(ledger portsrepo.LedgerRepositoryFacade, buildingRepo portsrepo.BuildingRepositoryFacade) portssvc.TransactionSvcFacade {
	return &transactionService{ledger: ledger, buildingRepo: buildingRepo}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) RecordPayment(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	if txn.Method == domain.MethodManualReconciliation {
		return nil, fmt.Errorf("%w: reconciliation rows are recorded through reconciliation", apperrors.ErrValidation)
	}
	if txn.ApartmentID != domain.LegacySentinelApartmentID {
		apartment, err := s.buildingRepo.FindApartmentByID(ctx, txn.ApartmentID)
		if err != nil {
			return nil, err
		}
		if apartment.BuildingID != txn.BuildingID {
			return nil, fmt.Errorf("%w: apartment %d is not in building %d", apperrors.ErrValidation, txn.ApartmentID, txn.BuildingID)
		}
	}
	if txn.PaymentDate.IsZero() {
		txn.PaymentDate = s.Today()
	}
	if txn.ChargeMonth.IsZero() {
		txn.ChargeMonth = txn.PaymentDate
	}
	txn.ChargeMonth = domain.MonthStart(txn.ChargeMonth)
	txn.PaymentDate = domain.DateOf(txn.PaymentDate)

	id, err := s.ledger.InsertTransaction(ctx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to record payment",
			slog.Int64("building_id", txn.BuildingID),
			slog.Int64("apartment_id", txn.ApartmentID))
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	txn.TransactionID = id
	return &txn, nil
}

func (s *transactionService) RecordBulkPayments(ctx context.Context, buildingID int64, requests []domain.PaymentRequest, method domain.PaymentMethod, paymentDate time.Time) (*portssvc.BulkPaymentResult, error) {
	if method == domain.MethodManualReconciliation {
		return nil, fmt.Errorf("%w: reconciliation rows are recorded through reconciliation", apperrors.ErrValidation)
	}
	if paymentDate.IsZero() {
		paymentDate = s.Today()
	}

	result := &portssvc.BulkPaymentResult{
		Recorded: []domain.Transaction{},
		Skipped:  []domain.SkippedPayment{},
	}
	skip := func(req domain.PaymentRequest, reason string) {
		result.Skipped = append(result.Skipped, domain.SkippedPayment{
			ApartmentID: req.ApartmentID,
			ChargeMonth: domain.MonthStart(req.ChargeMonth),
			Reason:      reason,
		})
	}

	for _, req := range requests {
		resident, err := s.buildingRepo.FindActiveResident(ctx, req.ApartmentID)
		if errors.Is(err, apperrors.ErrNotFound) {
			skip(req, domain.SkipReasonNoActiveResident)
			continue
		} else if err != nil {
			return nil, fmt.Errorf("failed to look up active resident: %w", err)
		}

		setting, err := s.buildingRepo.FindChargeSetting(ctx, req.ApartmentID)
		if errors.Is(err, apperrors.ErrNotFound) {
			skip(req, domain.SkipReasonNoMonthlyFee)
			continue
		} else if err != nil {
			return nil, fmt.Errorf("failed to look up monthly fee: %w", err)
		}

		residentID := resident.ResidentID
		result.Recorded = append(result.Recorded, domain.Transaction{
			BuildingID:  buildingID,
			ApartmentID: req.ApartmentID,
			ResidentID:  &residentID,
			ChargeMonth: domain.MonthStart(req.ChargeMonth),
			PaymentDate: domain.DateOf(paymentDate),
			AmountPaid:  setting.MonthlyFee,
			Method:      method,
		})
	}

	if len(result.Recorded) > 0 {
		ids, err := s.ledger.InsertTransactions(ctx, result.Recorded)
		if err != nil {
			s.LogError(ctx, err, "Failed to record bulk payments", slog.Int64("building_id", buildingID))
			return nil, fmt.Errorf("failed to record bulk payments: %w", err)
		}
		for i := range result.Recorded {
			result.Recorded[i].TransactionID = ids[i]
		}
	}

	s.LogInfo(ctx, "Bulk payments recorded",
		slog.Int64("building_id", buildingID),
		slog.Int("recorded", len(result.Recorded)),
		slog.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error) {
	rows, err := s.ledger.PaidTransactionsInRange(ctx, r, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if rows == nil {
		rows = []domain.TransactionRow{}
	}
	return rows, nil
}
