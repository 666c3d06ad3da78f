package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
	"github.com/vaadbayit/vaad_backend/internal/dto"
	"github.com/vaadbayit/vaad_backend/internal/middleware"
)

// buildingHandler handles buildings, apartments and residents.
type buildingHandler struct {
	buildingService portssvc.BuildingSvcFacade
	now             func() time.Time
}

func newBuildingHandler(bs portssvc.BuildingSvcFacade) *buildingHandler {
	return &buildingHandler{buildingService: bs, now: time.Now}
}

func (h *buildingHandler) today() time.Time {
	return domain.DateOf(h.now().UTC())
}

// registerBuildingRoutes registers routes related to buildings and residents.
func registerBuildingRoutes(rg *gin.RouterGroup, buildingService portssvc.BuildingSvcFacade) {
	h := newBuildingHandler(buildingService)

	buildings := rg.Group("/buildings")
	{
		buildings.POST("", h.createBuilding)
		buildings.GET("", h.listBuildings)
		buildings.GET("/:building_id", h.getBuilding)
		buildings.PUT("/:building_id", h.updateBuilding)
		buildings.DELETE("/:building_id", h.deleteBuilding)

		buildings.POST("/:building_id/setup", h.setupBuilding)
		buildings.GET("/:building_id/apartments", h.listApartments)
		buildings.POST("/:building_id/residents", h.addResident)
	}

	rg.GET("/dashboard/counts", h.dashboardCounts)

	residents := rg.Group("/residents")
	{
		residents.POST("/:resident_id/activate", h.activateResident)
		residents.POST("/:resident_id/deactivate", h.deactivateResident)
	}
}

// createBuilding godoc
// @Summary Create a building
// @Tags buildings
// @Accept json
// @Produce json
// @Param building body dto.BuildingRequest true "Building details"
// @Success 201 {object} domain.Building
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings [post]
func (h *buildingHandler) createBuilding(c *gin.Context) {
	var req dto.BuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	building, err := h.buildingService.CreateBuilding(c.Request.Context(), req.ToDomain(0))
	if err != nil {
		respondWithError(c, err, "Failed to create building")
		return
	}
	c.JSON(http.StatusCreated, building)
}

// listBuildings godoc
// @Summary List buildings
// @Tags buildings
// @Produce json
// @Success 200 {array} domain.Building
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings [get]
func (h *buildingHandler) listBuildings(c *gin.Context) {
	buildings, err := h.buildingService.ListBuildings(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list buildings")
		return
	}
	c.JSON(http.StatusOK, buildings)
}

// getBuilding godoc
// @Summary Get a building
// @Tags buildings
// @Produce json
// @Param building_id path int true "Building ID"
// @Success 200 {object} domain.Building
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id} [get]
func (h *buildingHandler) getBuilding(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	building, err := h.buildingService.GetBuilding(c.Request.Context(), buildingID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve building")
		return
	}
	c.JSON(http.StatusOK, building)
}

// updateBuilding godoc
// @Summary Replace a building's details
// @Tags buildings
// @Accept json
// @Produce json
// @Param building_id path int true "Building ID"
// @Param building body dto.BuildingRequest true "Building details"
// @Success 200 {object} domain.Building
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id} [put]
func (h *buildingHandler) updateBuilding(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	var req dto.BuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	building, err := h.buildingService.UpdateBuilding(c.Request.Context(), req.ToDomain(buildingID))
	if err != nil {
		respondWithError(c, err, "Failed to update building")
		return
	}
	c.JSON(http.StatusOK, building)
}

// deleteBuilding godoc
// @Summary Delete a building with all its data
// @Tags buildings
// @Param building_id path int true "Building ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id} [delete]
func (h *buildingHandler) deleteBuilding(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	if err := h.buildingService.DeleteBuilding(c.Request.Context(), buildingID); err != nil {
		respondWithError(c, err, "Failed to delete building")
		return
	}
	c.Status(http.StatusNoContent)
}

// setupBuilding godoc
// @Summary Create all apartments of a building
// @Description Creates the apartments, each with an optional first resident, all or nothing. Apartment number "0" is the association apartment.
// @Tags buildings
// @Accept json
// @Produce json
// @Param building_id path int true "Building ID"
// @Param setup body dto.SetupBuildingRequest true "Apartments"
// @Success 201 {array} domain.Apartment
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id}/setup [post]
func (h *buildingHandler) setupBuilding(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	var req dto.SetupBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	setups, err := req.ToDomain(h.today())
	if err != nil {
		respondWithError(c, err, "Failed to set up building")
		return
	}

	apartments, err := h.buildingService.SetupBuilding(c.Request.Context(), buildingID, setups)
	if err != nil {
		respondWithError(c, err, "Failed to set up building")
		return
	}
	logger.Info("Building set up", slog.Int64("building_id", buildingID), slog.Int("apartments", len(apartments)))
	c.JSON(http.StatusCreated, apartments)
}

// listApartments godoc
// @Summary List a building's apartments
// @Tags buildings
// @Produce json
// @Param building_id path int true "Building ID"
// @Success 200 {array} domain.Apartment
// @Security BearerAuth
// @Router /buildings/{building_id}/apartments [get]
func (h *buildingHandler) listApartments(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	apartments, err := h.buildingService.ListApartments(c.Request.Context(), buildingID)
	if err != nil {
		respondWithError(c, err, "Failed to list apartments")
		return
	}
	c.JSON(http.StatusOK, apartments)
}

// addResident godoc
// @Summary Add a resident to an apartment
// @Description With activate=true the new resident replaces the apartment's current one.
// @Tags residents
// @Accept json
// @Produce json
// @Param building_id path int true "Building ID"
// @Param resident body dto.ResidentRequest true "Resident"
// @Success 201 {object} dto.ResidentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id}/residents [post]
func (h *buildingHandler) addResident(c *gin.Context) {
	if _, ok := pathID(c, "building_id"); !ok {
		return
	}
	var req dto.ResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.ApartmentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apartmentID is required"})
		return
	}
	resident, err := req.ToDomain(h.today())
	if err != nil {
		respondWithError(c, err, "Failed to add resident")
		return
	}

	created, err := h.buildingService.AddResident(c.Request.Context(), resident)
	if err != nil {
		respondWithError(c, err, "Failed to add resident")
		return
	}
	c.JSON(http.StatusCreated, dto.ToResidentResponse(created))
}

// activateResident godoc
// @Summary Make a resident the apartment's active resident
// @Tags residents
// @Param resident_id path int true "Resident ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /residents/{resident_id}/activate [post]
func (h *buildingHandler) activateResident(c *gin.Context) {
	residentID, ok := pathID(c, "resident_id")
	if !ok {
		return
	}
	if err := h.buildingService.SetActiveResident(c.Request.Context(), residentID); err != nil {
		respondWithError(c, err, "Failed to activate resident")
		return
	}
	c.Status(http.StatusNoContent)
}

// deactivateResident godoc
// @Summary End a residency
// @Tags residents
// @Accept json
// @Param resident_id path int true "Resident ID"
// @Param body body dto.DeactivateResidentRequest false "End date, defaults to today"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /residents/{resident_id}/deactivate [post]
func (h *buildingHandler) deactivateResident(c *gin.Context) {
	residentID, ok := pathID(c, "resident_id")
	if !ok {
		return
	}
	var req dto.DeactivateResidentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	var endDate time.Time
	if req.EndDate != "" {
		var err error
		if endDate, err = dto.ParseDate(req.EndDate); err != nil {
			respondWithError(c, err, "Failed to deactivate resident")
			return
		}
	}

	if err := h.buildingService.DeactivateResident(c.Request.Context(), residentID, endDate); err != nil {
		respondWithError(c, err, "Failed to deactivate resident")
		return
	}
	c.Status(http.StatusNoContent)
}

// dashboardCounts godoc
// @Summary Count buildings, apartments and current residents
// @Description Placeholder apartments ("0", "00", "000") are not counted.
// @Tags dashboard
// @Produce json
// @Success 200 {object} domain.DashboardCounts
// @Security BearerAuth
// @Router /dashboard/counts [get]
func (h *buildingHandler) dashboardCounts(c *gin.Context) {
	counts, err := h.buildingService.DashboardCounts(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to load dashboard counts")
		return
	}
	c.JSON(http.StatusOK, counts)
}
