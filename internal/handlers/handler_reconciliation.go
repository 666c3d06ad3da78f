package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
	"github.com/vaadbayit/vaad_backend/internal/dto"
	"github.com/vaadbayit/vaad_backend/internal/middleware"
)

type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// registerReconciliationRoutes registers bank reconciliation.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{reconciliationService: reconciliationService}

	reconciliation := rg.Group("/buildings/:building_id/reconciliation")
	{
		reconciliation.POST("/propose", h.propose)
		reconciliation.POST("", h.commit)
		reconciliation.DELETE("/last", h.undoLast)
	}
}

// propose godoc
// @Summary Compare a bank balance with the system balance
// @Description Nothing is written.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param building_id path int true "Building ID"
// @Param body body dto.ProposeReconciliationRequest true "Range and bank balance"
// @Success 200 {object} dto.ReconciliationProposalResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id}/reconciliation/propose [post]
func (h *reconciliationHandler) propose(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	var req dto.ProposeReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	r, err := req.Range()
	if err != nil {
		respondWithError(c, err, "Invalid date range")
		return
	}

	proposal, err := h.reconciliationService.ProposeAdjustment(c.Request.Context(), buildingID, r, *req.BankBalance)
	if err != nil {
		respondWithError(c, err, "Failed to compute reconciliation")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationProposalResponse(proposal))
}

// commit godoc
// @Summary Record a reconciliation adjustment
// @Description Writes the difference against the association apartment. A zero difference is rejected.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param building_id path int true "Building ID"
// @Param body body dto.CommitReconciliationRequest true "Difference and note"
// @Success 201 {object} dto.CommitReconciliationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id}/reconciliation [post]
func (h *reconciliationHandler) commit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	var req dto.CommitReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	id, err := h.reconciliationService.CommitAdjustment(c.Request.Context(), buildingID, req.Difference, req.Note)
	if err != nil {
		respondWithError(c, err, "Failed to record reconciliation")
		return
	}
	logger.Info("Reconciliation recorded", slog.Int64("building_id", buildingID), slog.Int64("transaction_id", id))
	c.JSON(http.StatusCreated, dto.CommitReconciliationResponse{TransactionID: id})
}

// undoLast godoc
// @Summary Undo the latest reconciliation adjustment
// @Tags reconciliation
// @Produce json
// @Param building_id path int true "Building ID"
// @Success 200 {object} dto.UndoReconciliationResponse
// @Security BearerAuth
// @Router /buildings/{building_id}/reconciliation/last [delete]
func (h *reconciliationHandler) undoLast(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	undone, err := h.reconciliationService.UndoLastAdjustment(c.Request.Context(), buildingID)
	if err != nil {
		respondWithError(c, err, "Failed to undo reconciliation")
		return
	}
	if undone {
		userID, _ := middleware.GetUserIDFromContext(c)
		middleware.GetLoggerFromCtx(c.Request.Context()).Info("Reconciliation undone",
			slog.Int64("building_id", buildingID), slog.String("user_id", userID))
	}
	c.JSON(http.StatusOK, dto.UndoReconciliationResponse{Undone: undone})
}
