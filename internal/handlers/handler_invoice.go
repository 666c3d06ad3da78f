package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
	"github.com/vaadbayit/vaad_backend/internal/dto"
	"github.com/vaadbayit/vaad_backend/internal/middleware"
)

type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvc
}

// registerInvoiceRoutes registers invoice issuing and delivery.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvc) {
	h := &invoiceHandler{invoiceService: invoiceService}

	rg.POST("/transactions/:transaction_id/invoice", h.createInvoice)
	rg.POST("/invoices/:invoice_id/sent", h.markSent)
}

// createInvoice godoc
// @Summary Issue the invoice of a payment
// @Description Only positive resident payments can be invoiced, each at most once.
// @Tags invoices
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transaction_id}/invoice [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	transactionID, ok := pathID(c, "transaction_id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), transactionID)
	if err != nil {
		respondWithError(c, err, "Failed to create invoice")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// markSent godoc
// @Summary Record that an invoice was sent
// @Tags invoices
// @Accept json
// @Param invoice_id path int true "Invoice ID"
// @Param body body dto.MarkInvoiceSentRequest true "Recipient"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /invoices/{invoice_id}/sent [post]
func (h *invoiceHandler) markSent(c *gin.Context) {
	invoiceID, ok := pathID(c, "invoice_id")
	if !ok {
		return
	}
	var req dto.MarkInvoiceSentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.invoiceService.MarkInvoiceSent(c.Request.Context(), invoiceID, req.Email); err != nil {
		respondWithError(c, err, "Failed to record invoice delivery")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Invoice marked as sent", slog.Int64("invoice_id", invoiceID))
	c.Status(http.StatusNoContent)
}
