package dto

import (
	"time"

	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// BuildingRequest is used both to create and to replace a building.
type BuildingRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	City         string `json:"city"`
	Street       string `json:"street"`
	HomeNumber   string `json:"homeNumber"`
	BankName     string `json:"bankName"`
	BankAccount  string `json:"bankAccount"`
	ContactEmail string `json:"contactEmail" binding:"omitempty,email"`
}

func (r BuildingRequest) ToDomain(buildingID int64) domain.Building {
	return domain.Building{
		BuildingID:   buildingID,
		Name:         r.Name,
		City:         r.City,
		Street:       r.Street,
		HomeNumber:   r.HomeNumber,
		BankName:     r.BankName,
		BankAccount:  r.BankAccount,
		ContactEmail: r.ContactEmail,
	}
}

// ResidentRequest describes a resident to add.
type ResidentRequest struct {
	ApartmentID int64  `json:"apartmentID" binding:"omitempty,gt=0"`
	Role        string `json:"role" binding:"required,oneof=owner renter"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	StartDate   string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	Activate    bool   `json:"activate"`
}

// ToDomain converts the request; a missing start date means today.
func (r ResidentRequest) ToDomain(today time.Time) (domain.Resident, error) {
	start := today
	if r.StartDate != "" {
		var err error
		if start, err = ParseDate(r.StartDate); err != nil {
			return domain.Resident{}, err
		}
	}
	return domain.Resident{
		ApartmentID: r.ApartmentID,
		Role:        domain.ResidentRole(r.Role),
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phone:       r.Phone,
		Email:       r.Email,
		StartDate:   start,
		IsActive:    r.Activate,
	}, nil
}

// ApartmentSetupRequest is one apartment of a building setup.
type ApartmentSetupRequest struct {
	Floor           int              `json:"floor"`
	ApartmentNumber string           `json:"apartmentNumber" binding:"required"`
	Resident        *ResidentRequest `json:"resident"`
}

// SetupBuildingRequest creates all the building's apartments at once.
type SetupBuildingRequest struct {
	Apartments []ApartmentSetupRequest `json:"apartments" binding:"required,min=1,dive"`
}

func (r SetupBuildingRequest) ToDomain(today time.Time) ([]domain.ApartmentSetup, error) {
	setups := make([]domain.ApartmentSetup, len(r.Apartments))
	for i, a := range r.Apartments {
		setups[i] = domain.ApartmentSetup{Floor: a.Floor, ApartmentNumber: a.ApartmentNumber}
		if a.Resident != nil {
			res, err := a.Resident.ToDomain(today)
			if err != nil {
				return nil, err
			}
			setups[i].Resident = &res
		}
	}
	return setups, nil
}

// DeactivateResidentRequest ends a residency; a missing end date means today.
type DeactivateResidentRequest struct {
	EndDate string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// ResidentResponse is a resident with wire-formatted dates.
type ResidentResponse struct {
	ResidentID  int64   `json:"residentID"`
	ApartmentID int64   `json:"apartmentID"`
	Role        string  `json:"role"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate,omitempty"`
	IsActive    bool    `json:"isActive"`
}

func ToResidentResponse(r *domain.Resident) ResidentResponse {
	resp := ResidentResponse{
		ResidentID:  r.ResidentID,
		ApartmentID: r.ApartmentID,
		Role:        string(r.Role),
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phone:       r.Phone,
		Email:       r.Email,
		StartDate:   FormatDate(r.StartDate),
		IsActive:    r.IsActive,
	}
	if r.EndDate != nil {
		end := FormatDate(*r.EndDate)
		resp.EndDate = &end
	}
	return resp
}
