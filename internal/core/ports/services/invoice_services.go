package services

import (
	"context"

	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// InvoiceSvc issues invoices for received payments and records their delivery.
type InvoiceSvc interface {
	CreateInvoice(ctx context.Context, transactionID int64) (*domain.Invoice, error)
	// MarkInvoiceSent logs a delivery; the paid transaction then reports
	// InvoiceSent.
	MarkInvoiceSent(ctx context.Context, invoiceID int64, email string) error
}
