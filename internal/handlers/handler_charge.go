package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
	"github.com/vaadbayit/vaad_backend/internal/dto"
	"github.com/vaadbayit/vaad_backend/internal/middleware"
)

type chargeHandler struct {
	chargeService portssvc.ChargeSvcFacade
}

// registerChargeRoutes registers fee settings and expected charge generation.
func registerChargeRoutes(rg *gin.RouterGroup, chargeService portssvc.ChargeSvcFacade) {
	h := &chargeHandler{chargeService: chargeService}

	rg.PUT("/buildings/:building_id/fees", h.setBuildingFee)
	rg.PUT("/apartments/:apartment_id/fee", h.setApartmentFee)
	rg.POST("/buildings/:building_id/charges/generate", h.generateMonth)
	rg.POST("/buildings/:building_id/charges/generate-year", h.generateYear)
	rg.GET("/buildings/:building_id/charges/exists", h.chargesExist)
}

// setBuildingFee godoc
// @Summary Set the monthly fee of every apartment in a building
// @Description Charges already generated keep the amount they were generated with.
// @Tags charges
// @Accept json
// @Produce json
// @Param building_id path int true "Building ID"
// @Param fee body dto.SetBuildingFeeRequest true "Monthly fee"
// @Success 200 {object} map[string]int "updated apartments"
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id}/fees [put]
func (h *chargeHandler) setBuildingFee(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	var req dto.SetBuildingFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.chargeService.SetBuildingMonthlyFee(c.Request.Context(), buildingID, req.MonthlyFee)
	if err != nil {
		respondWithError(c, err, "Failed to set monthly fee")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// setApartmentFee godoc
// @Summary Set one apartment's monthly fee
// @Tags charges
// @Accept json
// @Produce json
// @Param apartment_id path int true "Apartment ID"
// @Param fee body dto.SetApartmentFeeRequest true "Monthly fee"
// @Success 200 {object} domain.ChargeSetting
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /apartments/{apartment_id}/fee [put]
func (h *chargeHandler) setApartmentFee(c *gin.Context) {
	apartmentID, ok := pathID(c, "apartment_id")
	if !ok {
		return
	}
	var req dto.SetApartmentFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	setting, err := h.chargeService.SetApartmentFee(c.Request.Context(), apartmentID, req.MonthlyFee, req.ChargeType)
	if err != nil {
		respondWithError(c, err, "Failed to set apartment fee")
		return
	}
	c.JSON(http.StatusOK, setting)
}

// generateMonth godoc
// @Summary Generate expected charges for one month
// @Description Inserts the missing charges at each apartment's current fee. Re-running is harmless.
// @Tags charges
// @Accept json
// @Produce json
// @Param building_id path int true "Building ID"
// @Param body body dto.GenerateChargesRequest true "Month"
// @Success 200 {object} dto.GenerateChargesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id}/charges/generate [post]
func (h *chargeHandler) generateMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	var req dto.GenerateChargesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	month, err := dto.ParseMonth(req.Month)
	if err != nil {
		respondWithError(c, err, "Failed to generate charges")
		return
	}

	inserted, err := h.chargeService.GenerateExpectedCharges(c.Request.Context(), buildingID, month)
	if err != nil {
		respondWithError(c, err, "Failed to generate charges")
		return
	}
	logger.Info("Expected charges generated", slog.Int64("building_id", buildingID), slog.String("month", req.Month), slog.Int("inserted", inserted))
	c.JSON(http.StatusOK, dto.GenerateChargesResponse{Month: dto.FormatMonth(month), Inserted: inserted})
}

// generateYear godoc
// @Summary Generate expected charges for a calendar year
// @Tags charges
// @Accept json
// @Produce json
// @Param building_id path int true "Building ID"
// @Param body body dto.GenerateYearRequest true "Year"
// @Success 200 {object} dto.GenerateYearResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id}/charges/generate-year [post]
func (h *chargeHandler) generateYear(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	var req dto.GenerateYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	months, err := h.chargeService.GenerateYear(c.Request.Context(), buildingID, req.Year)
	if err != nil {
		respondWithError(c, err, "Failed to generate charges")
		return
	}
	c.JSON(http.StatusOK, dto.ToGenerateYearResponse(req.Year, months))
}

// chargesExist godoc
// @Summary Check whether charges were already generated
// @Description Reports whether the building has any expected charge in one of the given months of the year.
// @Tags charges
// @Produce json
// @Param building_id path int true "Building ID"
// @Param year query int true "Year"
// @Param months query []int true "Months (1-12)" collectionFormat(multi)
// @Success 200 {object} map[string]bool "exists"
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id}/charges/exists [get]
func (h *chargeHandler) chargesExist(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	var q dto.ChargesExistQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	exists, err := h.chargeService.HasExpectedCharges(c.Request.Context(), buildingID, q.Year, q.Months)
	if err != nil {
		respondWithError(c, err, "Failed to check charges")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
