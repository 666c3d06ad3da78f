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

type chargeService struct {
	BaseService
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	buildingRepo portsrepo.BuildingRepositoryFacade
}

// NewChargeService creates a new charge service.
func NewChargeService(ledgerRepo portsrepo.LedgerRepositoryFacade, buildingRepo portsrepo.BuildingRepositoryFacade) portssvc.ChargeSvcFacade {
	return &chargeService{
		ledgerRepo:   ledgerRepo,
		buildingRepo: buildingRepo,
	}
}

var _ portssvc.ChargeSvcFacade = (*chargeService)(nil)

func (s *chargeService) GenerateExpectedCharges(ctx context.Context, buildingID int64, month time.Time) (int, error) {
	month = domain.MonthStart(month)

	settings, err := s.buildingRepo.ListChargeSettings(ctx, buildingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list charge settings", slog.Int64("building_id", buildingID))
		return 0, fmt.Errorf("failed to list charge settings: %w", err)
	}

	charges := make([]domain.ExpectedCharge, 0, len(settings))
	for _, setting := range settings {
		charges = append(charges, domain.ExpectedCharge{
			ApartmentID:    setting.ApartmentID,
			BuildingID:     buildingID,
			ChargeMonth:    month,
			ExpectedAmount: setting.MonthlyFee,
		})
	}
	if len(charges) == 0 {
		s.LogDebug(ctx, "No fee settings for building, nothing to generate", slog.Int64("building_id", buildingID))
		return 0, nil
	}

	inserted, err := s.ledgerRepo.InsertExpectedChargesIfAbsent(ctx, charges)
	if err != nil {
		s.LogError(ctx, err, "Failed to insert expected charges",
			slog.Int64("building_id", buildingID),
			slog.String("month", month.Format(domain.DateLayout)))
		return 0, fmt.Errorf("failed to generate expected charges: %w", err)
	}

	s.LogInfo(ctx, "Expected charges generated",
		slog.Int64("building_id", buildingID),
		slog.String("month", month.Format(domain.DateLayout)),
		slog.Int("candidates", len(charges)),
		slog.Int("inserted", inserted))
	return inserted, nil
}

func (s *chargeService) GenerateYear(ctx context.Context, buildingID int64, year int) ([]portssvc.MonthlyGeneration, error) {
	if year < 1900 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", apperrors.ErrValidation, year)
	}
	results := make([]portssvc.MonthlyGeneration, 0, 12)
	for m := time.January; m <= time.December; m++ {
		month := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		inserted, err := s.GenerateExpectedCharges(ctx, buildingID, month)
		if err != nil {
			return results, err
		}
		results = append(results, portssvc.MonthlyGeneration{Month: month, Inserted: inserted})
	}
	return results, nil
}

func (s *chargeService) HasExpectedCharges(ctx context.Context, buildingID int64, year int, months []int) (bool, error) {
	if year < 1900 || year > 9999 {
		return false, fmt.Errorf("%w: year %d out of range", apperrors.ErrValidation, year)
	}
	if len(months) == 0 {
		return false, fmt.Errorf("%w: at least one month is required", apperrors.ErrValidation)
	}
	for _, m := range months {
		if m < 1 || m > 12 {
			return false, fmt.Errorf("%w: month %d out of range", apperrors.ErrValidation, m)
		}
	}
	exists, err := s.ledgerRepo.HasExpectedCharges(ctx, buildingID, year, months)
	if err != nil {
		return false, fmt.Errorf("failed to check expected charges: %w", err)
	}
	return exists, nil
}

func (s *chargeService) SetBuildingMonthlyFee(ctx context.Context, buildingID int64, fee decimal.Decimal) (int, error) {
	if fee.IsNegative() {
		return 0, fmt.Errorf("%w: monthly fee cannot be negative", apperrors.ErrValidation)
	}
	if _, err := s.buildingRepo.FindBuildingByID(ctx, buildingID); err != nil {
		return 0, err
	}

	updated, err := s.buildingRepo.UpsertBuildingFee(ctx, buildingID, fee)
	if err != nil {
		s.LogError(ctx, err, "Failed to update building fee", slog.Int64("building_id", buildingID))
		return 0, fmt.Errorf("failed to update building fee: %w", err)
	}
	s.LogInfo(ctx, "Building monthly fee updated",
		slog.Int64("building_id", buildingID),
		slog.String("fee", fee.String()),
		slog.Int("apartments", updated))
	return updated, nil
}

func (s *chargeService) SetApartmentFee(ctx context.Context, apartmentID int64, fee decimal.Decimal, chargeType string) (*domain.ChargeSetting, error) {
	if fee.IsNegative() {
		return nil, fmt.Errorf("%w: monthly fee cannot be negative", apperrors.ErrValidation)
	}
	apartment, err := s.buildingRepo.FindApartmentByID(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if chargeType == "" {
		chargeType = domain.DefaultChargeType
	}

	setting := domain.ChargeSetting{
		ApartmentID: apartment.ApartmentID,
		BuildingID:  apartment.BuildingID,
		MonthlyFee:  fee,
		ChargeType:  chargeType,
	}
	if err := s.buildingRepo.UpsertChargeSetting(ctx, setting); err != nil {
		s.LogError(ctx, err, "Failed to update apartment fee", slog.Int64("apartment_id", apartmentID))
		return nil, fmt.Errorf("failed to update apartment fee: %w", err)
	}
	return &setting, nil
}
