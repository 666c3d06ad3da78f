package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// BuildingWriter defines write operations on buildings.
type BuildingWriter interface {
	CreateBuilding(ctx context.Context, building domain.Building) (*domain.Building, error)
	UpdateBuilding(ctx context.Context, building domain.Building) error
	// DeleteBuilding cascades to the building's dependents.
	DeleteBuilding(ctx context.Context, buildingID int64) error
}

// BuildingReader defines read operations on buildings.
type BuildingReader interface {
	FindBuildingByID(ctx context.Context, buildingID int64) (*domain.Building, error)
	ListBuildings(ctx context.Context) ([]domain.Building, error)
	DashboardCounts(ctx context.Context) (domain.DashboardCounts, error)
}

// ApartmentRepository covers apartments and their residents.
type ApartmentRepository interface {
	// SetupApartments creates every apartment (and its optional first
	// resident) in one transaction; either all rows are written or none.
	SetupApartments(ctx context.Context, buildingID int64, setups []domain.ApartmentSetup) ([]domain.Apartment, error)
	ListApartments(ctx context.Context, buildingID int64) ([]domain.Apartment, error)
	FindApartmentByID(ctx context.Context, apartmentID int64) (*domain.Apartment, error)

	CreateResident(ctx context.Context, resident domain.Resident) (*domain.Resident, error)
	FindResidentByID(ctx context.Context, residentID int64) (*domain.Resident, error)
	// FindActiveResident returns the apartment's current resident or apperrors.ErrNotFound.
	FindActiveResident(ctx context.Context, apartmentID int64) (*domain.Resident, error)
	// SetActiveResident deactivates the other residents of the apartment and
	// activates residentID, atomically.
	SetActiveResident(ctx context.Context, apartmentID, residentID int64) error
	DeactivateResident(ctx context.Context, residentID int64, endDate time.Time) error
}

// ChargeSettingRepository stores the current monthly fee of each apartment.
type ChargeSettingRepository interface {
	ListChargeSettings(ctx context.Context, buildingID int64) ([]domain.ChargeSetting, error)
	FindChargeSetting(ctx context.Context, apartmentID int64) (*domain.ChargeSetting, error)
	UpsertChargeSetting(ctx context.Context, setting domain.ChargeSetting) error
	// UpsertBuildingFee sets fee for every apartment of the building and
	// returns the number of apartments updated.
	UpsertBuildingFee(ctx context.Context, buildingID int64, fee decimal.Decimal) (int, error)
}

// BuildingRepositoryFacade combines the building-side repositories.
type BuildingRepositoryFacade interface {
	BuildingReader
	BuildingWriter
	ApartmentRepository
	ChargeSettingRepository
}
