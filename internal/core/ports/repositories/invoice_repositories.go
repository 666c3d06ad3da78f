package repositories

import (
	"context"

	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// InvoiceRepository stores invoices and their delivery log.
type InvoiceRepository interface {
	// CreateInvoice returns apperrors.ErrDuplicate when the transaction is
	// already invoiced.
	CreateInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error)
	FindInvoiceByID(ctx context.Context, invoiceID int64) (*domain.Invoice, error)
	LogInvoiceSend(ctx context.Context, invoiceID int64, email string) error
}
