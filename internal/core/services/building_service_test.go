package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
	"github.com/vaadbayit/vaad_backend/internal/core/services"
)

type BuildingServiceTestSuite struct {
	suite.Suite
	repo    *MockBuildingRepository
	service portssvc.BuildingSvcFacade
	ctx     context.Context
}

func (s *BuildingServiceTestSuite) SetupTest() {
	s.repo = new(MockBuildingRepository)
	s.service = services.NewBuildingService(s.repo)
	s.ctx = context.Background()
}

func TestBuildingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BuildingServiceTestSuite))
}

func (s *BuildingServiceTestSuite) TestCreateBuilding() {
	s.repo.On("CreateBuilding", mock.Anything, domain.Building{Name: "Herzl 12", City: "Haifa"}).
		Return(&domain.Building{BuildingID: 3, Name: "Herzl 12", City: "Haifa"}, nil)

	b, err := s.service.CreateBuilding(s.ctx, domain.Building{Name: "  Herzl 12 ", City: "Haifa"})
	s.Require().NoError(err)
	s.Equal(int64(3), b.BuildingID)

	_, err = s.service.CreateBuilding(s.ctx, domain.Building{Name: "   "})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BuildingServiceTestSuite) TestSetupBuilding_Validation() {
	s.repo.On("FindBuildingByID", mock.Anything, buildingB).Return(&domain.Building{BuildingID: buildingB}, nil)

	_, err := s.service.SetupBuilding(s.ctx, buildingB, nil)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.service.SetupBuilding(s.ctx, buildingB, []domain.ApartmentSetup{
		{ApartmentNumber: "1"}, {ApartmentNumber: " 1 "},
	})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.service.SetupBuilding(s.ctx, buildingB, []domain.ApartmentSetup{
		{ApartmentNumber: "2", Resident: &domain.Resident{FirstName: "Dana", Role: "tenant"}},
	})
	s.ErrorIs(err, apperrors.ErrValidation)

	s.repo.AssertNotCalled(s.T(), "SetupApartments", mock.Anything, mock.Anything, mock.Anything)
}

func (s *BuildingServiceTestSuite) TestSetupBuilding_AllOrNothing() {
	s.repo.On("FindBuildingByID", mock.Anything, buildingB).Return(&domain.Building{BuildingID: buildingB}, nil)
	boom := errors.New("duplicate key")
	s.repo.On("SetupApartments", mock.Anything, buildingB, mock.AnythingOfType("[]domain.ApartmentSetup")).Return(nil, boom).Once()

	apartments, err := s.service.SetupBuilding(s.ctx, buildingB, []domain.ApartmentSetup{
		{ApartmentNumber: "0"},
		{ApartmentNumber: "1", Floor: 1, Resident: &domain.Resident{FirstName: "Dana", Role: domain.RoleOwner}},
	})
	s.ErrorIs(err, boom)
	s.Nil(apartments)
}

func (s *BuildingServiceTestSuite) TestSetupBuilding_ActivatesInitialResidents() {
	s.repo.On("FindBuildingByID", mock.Anything, buildingB).Return(&domain.Building{BuildingID: buildingB}, nil)
	s.repo.On("SetupApartments", mock.Anything, buildingB, mock.MatchedBy(func(setups []domain.ApartmentSetup) bool {
		return len(setups) == 1 && setups[0].Resident != nil && setups[0].Resident.IsActive
	})).Return([]domain.Apartment{{ApartmentID: 1, BuildingID: buildingB, ApartmentNumber: "1"}}, nil)

	apartments, err := s.service.SetupBuilding(s.ctx, buildingB, []domain.ApartmentSetup{
		{ApartmentNumber: "1", Resident: &domain.Resident{LastName: "Levi", Role: domain.RoleRenter}},
	})
	s.Require().NoError(err)
	s.Len(apartments, 1)
}

func (s *BuildingServiceTestSuite) TestAddActiveResidentReplacesCurrent() {
	s.repo.On("FindApartmentByID", mock.Anything, int64(5)).Return(&domain.Apartment{ApartmentID: 5, BuildingID: buildingB}, nil)
	s.repo.On("CreateResident", mock.Anything, mock.MatchedBy(func(r domain.Resident) bool { return !r.IsActive })).
		Return(&domain.Resident{ResidentID: 77, ApartmentID: 5}, nil)
	s.repo.On("SetActiveResident", mock.Anything, int64(5), int64(77)).Return(nil)

	r, err := s.service.AddResident(s.ctx, domain.Resident{ApartmentID: 5, FirstName: "Noa", Role: domain.RoleOwner, IsActive: true})
	s.Require().NoError(err)
	s.True(r.IsActive)
	s.repo.AssertExpectations(s.T())
}

func (s *BuildingServiceTestSuite) TestSetActiveResident() {
	s.repo.On("FindResidentByID", mock.Anything, int64(77)).Return(&domain.Resident{ResidentID: 77, ApartmentID: 5}, nil)
	s.repo.On("SetActiveResident", mock.Anything, int64(5), int64(77)).Return(nil)

	s.NoError(s.service.SetActiveResident(s.ctx, 77))

	s.repo.On("FindResidentByID", mock.Anything, int64(78)).Return(nil, apperrors.ErrNotFound)
	s.ErrorIs(s.service.SetActiveResident(s.ctx, 78), apperrors.ErrNotFound)
}

func (s *BuildingServiceTestSuite) TestDeactivateResident() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s.repo.On("FindResidentByID", mock.Anything, int64(77)).Return(&domain.Resident{ResidentID: 77, ApartmentID: 5, StartDate: start}, nil)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	s.repo.On("DeactivateResident", mock.Anything, int64(77), end).Return(nil)

	s.NoError(s.service.DeactivateResident(s.ctx, 77, end))
	s.ErrorIs(s.service.DeactivateResident(s.ctx, 77, start.AddDate(0, 0, -1)), apperrors.ErrValidation)
}

func (s *BuildingServiceTestSuite) TestDashboardCounts() {
	s.repo.On("DashboardCounts", mock.Anything).
		Return(domain.DashboardCounts{TotalBuildings: 2, TotalApartments: 14, ActiveResidents: 11}, nil).Once()

	counts, err := s.service.DashboardCounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(14, counts.TotalApartments)

	s.repo.On("DashboardCounts", mock.Anything).Return(domain.DashboardCounts{}, errors.New("connection reset")).Once()
	_, err = s.service.DashboardCounts(s.ctx)
	s.Error(err)
}
