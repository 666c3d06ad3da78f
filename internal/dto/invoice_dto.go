package dto

import (
	"github.com/shopspring/decimal"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// MarkInvoiceSentRequest records that an invoice was delivered.
type MarkInvoiceSentRequest struct {
	Email string `json:"email" binding:"required,email,max=320" example:"resident@example.com"`
}

type InvoiceResponse struct {
	InvoiceID     int64           `json:"invoiceID"`
	TransactionID int64           `json:"transactionID"`
	BuildingID    int64           `json:"buildingID"`
	ApartmentID   int64           `json:"apartmentID"`
	ResidentID    *int64          `json:"residentID,omitempty"`
	InvoiceDate   string          `json:"invoiceDate"`
	IssueDate     string          `json:"issueDate"`
	TotalDue      decimal.Decimal `json:"totalDue" swaggertype:"string"`
	TotalPaid     decimal.Decimal `json:"totalPaid" swaggertype:"string"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
}

func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		TransactionID: inv.TransactionID,
		BuildingID:    inv.BuildingID,
		ApartmentID:   inv.ApartmentID,
		ResidentID:    inv.ResidentID,
		InvoiceDate:   FormatDate(inv.InvoiceDate),
		IssueDate:     FormatDate(inv.IssueDate),
		TotalDue:      inv.TotalDue,
		TotalPaid:     inv.TotalPaid,
		PaymentMethod: string(inv.PaymentMethod),
		Status:        inv.Status,
		Notes:         inv.Notes,
	}
}
