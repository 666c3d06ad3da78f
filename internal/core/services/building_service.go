package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
)

type buildingService struct {
	BaseService
	repo portsrepo.BuildingRepositoryFacade
}

// NewBuildingService creates a new building service.
func NewBuildingService(repo portsrepo.BuildingRepositoryFacade) portssvc.BuildingSvcFacade {
	return &buildingService{repo: repo}
}

var _ portssvc.BuildingSvcFacade = (*buildingService)(nil)

func (s *buildingService) CreateBuilding(ctx context.Context, building domain.Building) (*domain.Building, error) {
	building.Name = strings.TrimSpace(building.Name)
	if building.Name == "" {
		return nil, fmt.Errorf("%w: building name is required", apperrors.ErrValidation)
	}

	created, err := s.repo.CreateBuilding(ctx, building)
	if err != nil {
		s.LogError(ctx, err, "Failed to create building", slog.String("name", building.Name))
		return nil, fmt.Errorf("failed to create building: %w", err)
	}
	s.LogInfo(ctx, "Building created", slog.Int64("building_id", created.BuildingID))
	return created, nil
}

func (s *buildingService) GetBuilding(ctx context.Context, buildingID int64) (*domain.Building, error) {
	return s.repo.FindBuildingByID(ctx, buildingID)
}

func (s *buildingService) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	buildings, err := s.repo.ListBuildings(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list buildings")
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	return buildings, nil
}

func (s *buildingService) UpdateBuilding(ctx context.Context, building domain.Building) (*domain.Building, error) {
	building.Name = strings.TrimSpace(building.Name)
	if building.Name == "" {
		return nil, fmt.Errorf("%w: building name is required", apperrors.ErrValidation)
	}
	if err := s.repo.UpdateBuilding(ctx, building); err != nil {
		return nil, err
	}
	return s.repo.FindBuildingByID(ctx, building.BuildingID)
}

func (s *buildingService) DeleteBuilding(ctx context.Context, buildingID int64) error {
	if err := s.repo.DeleteBuilding(ctx, buildingID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Building deleted", slog.Int64("building_id", buildingID))
	return nil
}

func (s *buildingService) DashboardCounts(ctx context.Context) (domain.DashboardCounts, error) {
	counts, err := s.repo.DashboardCounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count dashboard totals")
		return counts, fmt.Errorf("failed to count dashboard totals: %w", err)
	}
	return counts, nil
}

// SetupBuilding creates the building's apartments and their first residents
// all-or-nothing. Apartment numbers must be unique within the request; "0"
// creates the association apartment.
func (s *buildingService) SetupBuilding(ctx context.Context, buildingID int64, setups []domain.ApartmentSetup) ([]domain.Apartment, error) {
	if len(setups) == 0 {
		return nil, fmt.Errorf("%w: at least one apartment is required", apperrors.ErrValidation)
	}
	if _, err := s.repo.FindBuildingByID(ctx, buildingID); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(setups))
	for i := range setups {
		setups[i].ApartmentNumber = strings.TrimSpace(setups[i].ApartmentNumber)
		number := setups[i].ApartmentNumber
		if number == "" {
			return nil, fmt.Errorf("%w: apartment #%d has no number", apperrors.ErrValidation, i+1)
		}
		if _, dup := seen[number]; dup {
			return nil, fmt.Errorf("%w: apartment number %q appears twice", apperrors.ErrValidation, number)
		}
		seen[number] = struct{}{}
		if r := setups[i].Resident; r != nil {
			if err := validateResident(*r); err != nil {
				return nil, err
			}
			r.IsActive = true
			r.EndDate = nil
		}
	}

	apartments, err := s.repo.SetupApartments(ctx, buildingID, setups)
	if err != nil {
		s.LogError(ctx, err, "Building setup failed", slog.Int64("building_id", buildingID), slog.Int("apartments", len(setups)))
		return nil, fmt.Errorf("failed to set up building: %w", err)
	}
	s.LogInfo(ctx, "Building set up", slog.Int64("building_id", buildingID), slog.Int("apartments", len(apartments)))
	return apartments, nil
}

func (s *buildingService) ListApartments(ctx context.Context, buildingID int64) ([]domain.Apartment, error) {
	apartments, err := s.repo.ListApartments(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}
	return apartments, nil
}

// AddResident stores a new resident. An active new resident replaces the
// apartment's current one.
func (s *buildingService) AddResident(ctx context.Context, resident domain.Resident) (*domain.Resident, error) {
	if err := validateResident(resident); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindApartmentByID(ctx, resident.ApartmentID); err != nil {
		return nil, err
	}

	activate := resident.IsActive
	resident.IsActive = false
	created, err := s.repo.CreateResident(ctx, resident)
	if err != nil {
		s.LogError(ctx, err, "Failed to create resident", slog.Int64("apartment_id", resident.ApartmentID))
		return nil, fmt.Errorf("failed to create resident: %w", err)
	}
	if activate {
		if err := s.repo.SetActiveResident(ctx, created.ApartmentID, created.ResidentID); err != nil {
			return nil, fmt.Errorf("failed to activate resident: %w", err)
		}
		created.IsActive = true
	}
	return created, nil
}

func (s *buildingService) SetActiveResident(ctx context.Context, residentID int64) error {
	resident, err := s.repo.FindResidentByID(ctx, residentID)
	if err != nil {
		return err
	}
	if err := s.repo.SetActiveResident(ctx, resident.ApartmentID, residentID); err != nil {
		s.LogError(ctx, err, "Failed to activate resident", slog.Int64("resident_id", residentID))
		return fmt.Errorf("failed to activate resident: %w", err)
	}
	s.LogInfo(ctx, "Resident activated",
		slog.Int64("resident_id", residentID),
		slog.Int64("apartment_id", resident.ApartmentID))
	return nil
}

func (s *buildingService) DeactivateResident(ctx context.Context, residentID int64, endDate time.Time) error {
	if endDate.IsZero() {
		endDate = s.Today()
	}
	resident, err := s.repo.FindResidentByID(ctx, residentID)
	if err != nil {
		return err
	}
	if endDate.Before(resident.StartDate) {
		return fmt.Errorf("%w: end date is before the resident's start date", apperrors.ErrValidation)
	}
	return s.repo.DeactivateResident(ctx, residentID, domain.DateOf(endDate))
}

func validateResident(r domain.Resident) error {
	if strings.TrimSpace(r.FirstName) == "" && strings.TrimSpace(r.LastName) == "" {
		return fmt.Errorf("%w: resident name is required", apperrors.ErrValidation)
	}
	switch r.Role {
	case domain.RoleOwner, domain.RoleRenter:
	default:
		return fmt.Errorf("%w: unknown resident role %q", apperrors.ErrValidation, r.Role)
	}
	return nil
}
