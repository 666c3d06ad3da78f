package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Building is a residential building managed by the association.
type Building struct {
	BuildingID   int64     `json:"buildingID"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Street       string    `json:"street"`
	HomeNumber   string    `json:"homeNumber"`
	BankName     string    `json:"bankName"`
	BankAccount  string    `json:"bankAccount"`
	ContactEmail string    `json:"contactEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Apartment belongs to exactly one building.
type Apartment struct {
	ApartmentID     int64  `json:"apartmentID"`
	BuildingID      int64  `json:"buildingID"`
	Floor           int    `json:"floor"`
	ApartmentNumber string `json:"apartmentNumber"`
}

// IsSentinel reports whether this is the building's association apartment.
func (a Apartment) IsSentinel() bool {
	return a.Ref().IsSentinel()
}

// Ref returns the apartment reference used by ledger rows.
func (a Apartment) Ref() ApartmentRef {
	number := a.ApartmentNumber
	return ApartmentRef{ApartmentID: a.ApartmentID, ApartmentNumber: &number}
}

// ResidentRole is the relation of a resident to the apartment.
type ResidentRole string

const (
	RoleOwner  ResidentRole = "owner"
	RoleRenter ResidentRole = "renter"
)

// Resident lives in (or owns) an apartment for a validity window.
// At most one resident per apartment is active at a time.
type Resident struct {
	ResidentID  int64        `json:"residentID"`
	ApartmentID int64        `json:"apartmentID"`
	Role        ResidentRole `json:"role"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email"`
	StartDate   time.Time    `json:"startDate"`
	EndDate     *time.Time   `json:"endDate,omitempty"`
	IsActive    bool         `json:"isActive"`
}

// IsCurrent is true for the resident the ledger attributes payments to.
func (r Resident) IsCurrent() bool {
	return r.IsActive && r.EndDate == nil
}

// ChargeSetting is an apartment's current recurring monthly fee.
type ChargeSetting struct {
	ApartmentID int64           `json:"apartmentID"`
	BuildingID  int64           `json:"buildingID"`
	MonthlyFee  decimal.Decimal `json:"monthlyFee"`
	ChargeType  string          `json:"chargeType"`
}

// DefaultChargeType is the charge type written by bulk fee updates.
const DefaultChargeType = "monthly fee"

// ApartmentSetup describes one apartment to create during building setup,
// optionally with its first resident.
type ApartmentSetup struct {
	Floor           int
	ApartmentNumber string
	Resident        *Resident
}

// Supplier provides services to one or more buildings.
type Supplier struct {
	SupplierID  int64  `json:"supplierID"`
	Name        string `json:"name"`
	ExpenseType string `json:"expenseType"`
	Segment     string `json:"segment"`
}

// PlaceholderApartmentNumbers are apartment numbers that stand for the
// association rather than a home. They are left out of apartment counts.
var PlaceholderApartmentNumbers = []string{"0", "00", "000"}

// DashboardCounts are the headline counters of the dashboard.
type DashboardCounts struct {
	TotalBuildings  int `json:"totalBuildings"`
	TotalApartments int `json:"totalApartments"`
	ActiveResidents int `json:"activeResidents"`
}
