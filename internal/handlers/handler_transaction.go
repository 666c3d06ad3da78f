package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
	"github.com/vaadbayit/vaad_backend/internal/dto"
)

type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// registerTransactionRoutes registers payment recording and listing.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := &transactionHandler{transactionService: transactionService}

	rg.POST("/buildings/:building_id/transactions", h.recordPayment)
	rg.POST("/buildings/:building_id/transactions/bulk", h.recordBulkPayments)
	rg.GET("/transactions", h.listTransactions)
}

// recordPayment godoc
// @Summary Record a payment received
// @Description apartmentID 0 records a special payment to the association.
// @Tags transactions
// @Accept json
// @Produce json
// @Param building_id path int true "Building ID"
// @Param payment body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id}/transactions [post]
func (h *transactionHandler) recordPayment(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	txn, err := req.ToDomain(buildingID)
	if err != nil {
		respondWithError(c, err, "Failed to record payment")
		return
	}

	recorded, err := h.transactionService.RecordPayment(c.Request.Context(), txn)
	if err != nil {
		respondWithError(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*recorded))
}

// recordBulkPayments godoc
// @Summary Mark apartment months as paid
// @Description Each item is paid at the apartment's current fee by its active resident. Items that cannot be paid are returned as skipped.
// @Tags transactions
// @Accept json
// @Produce json
// @Param building_id path int true "Building ID"
// @Param payments body dto.BulkPaymentRequest true "Apartment months"
// @Success 200 {object} dto.BulkPaymentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /buildings/{building_id}/transactions/bulk [post]
func (h *transactionHandler) recordBulkPayments(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	var req dto.BulkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	requests, err := req.ToDomain()
	if err != nil {
		respondWithError(c, err, "Failed to record payments")
		return
	}
	var paymentDate time.Time
	if req.PaymentDate != "" {
		if paymentDate, err = dto.ParseDate(req.PaymentDate); err != nil {
			respondWithError(c, err, "Failed to record payments")
			return
		}
	}

	result, err := h.transactionService.RecordBulkPayments(c.Request.Context(), buildingID, requests, domain.PaymentMethod(req.Method), paymentDate)
	if err != nil {
		respondWithError(c, err, "Failed to record payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToBulkPaymentResponse(result))
}

// listTransactions godoc
// @Summary List payments by charge month
// @Description Only positive payments are listed, newest payment date first.
// @Tags transactions
// @Produce json
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Param building_id query int false "Building ID, all buildings when omitted"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	r, err := q.ToDateRange()
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}

	rows, err := h.transactionService.ListTransactions(c.Request.Context(), r, q.BuildingID)
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionRowResponses(rows))
}
