package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// MonthlyGeneration is the outcome of one month of a yearly generation.
type MonthlyGeneration struct {
	Month    time.Time `json:"month"`
	Inserted int       `json:"inserted"`
}

// ChargeGenerator materializes expected charges from fee settings.
type ChargeGenerator interface {
	// GenerateExpectedCharges inserts the missing (apartment, month) charges
	// of the building at each apartment's current fee and returns how many
	// rows were inserted. Apartments without a fee setting are skipped.
	GenerateExpectedCharges(ctx context.Context, buildingID int64, month time.Time) (int, error)
	// GenerateYear runs GenerateExpectedCharges for January through December.
	GenerateYear(ctx context.Context, buildingID int64, year int) ([]MonthlyGeneration, error)
	// HasExpectedCharges reports whether any charge of the building exists in
	// one of the given months (1-12) of year.
	HasExpectedCharges(ctx context.Context, buildingID int64, year int, months []int) (bool, error)
}

// FeeSettingSvc updates fee settings. Already generated charges keep their amount.
type FeeSettingSvc interface {
	SetBuildingMonthlyFee(ctx context.Context, buildingID int64, fee decimal.Decimal) (int, error)
	SetApartmentFee(ctx context.Context, apartmentID int64, fee decimal.Decimal, chargeType string) (*domain.ChargeSetting, error)
}

// ChargeSvcFacade combines charge generation and fee settings.
type ChargeSvcFacade interface {
	ChargeGenerator
	FeeSettingSvc
}
