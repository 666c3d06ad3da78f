package services

import (
	"context"
	"time"

	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// BuildingSvc manages buildings.
type BuildingSvc interface {
	CreateBuilding(ctx context.Context, building domain.Building) (*domain.Building, error)
	GetBuilding(ctx context.Context, buildingID int64) (*domain.Building, error)
	ListBuildings(ctx context.Context) ([]domain.Building, error)
	UpdateBuilding(ctx context.Context, building domain.Building) (*domain.Building, error)
	DeleteBuilding(ctx context.Context, buildingID int64) error
	// DashboardCounts excludes placeholder apartments ("0", "00", "000").
	DashboardCounts(ctx context.Context) (domain.DashboardCounts, error)
}

// ApartmentSvc manages apartments and residents.
type ApartmentSvc interface {
	SetupBuilding(ctx context.Context, buildingID int64, setups []domain.ApartmentSetup) ([]domain.Apartment, error)
	ListApartments(ctx context.Context, buildingID int64) ([]domain.Apartment, error)
	AddResident(ctx context.Context, resident domain.Resident) (*domain.Resident, error)
	SetActiveResident(ctx context.Context, residentID int64) error
	DeactivateResident(ctx context.Context, residentID int64, endDate time.Time) error
}

// BuildingSvcFacade combines building and apartment management.
type BuildingSvcFacade interface {
	BuildingSvc
	ApartmentSvc
}
