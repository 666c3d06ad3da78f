package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.InvoiceRepository {
	return &PgxInvoiceRepository{BaseRepository: newBaseRepository(pool, queryTimeout)}
}

var _ portsrepo.InvoiceRepository = (*PgxInvoiceRepository)(nil)

func (r *PgxInvoiceRepository) CreateInvoice(ctx context.Context, inv domain.Invoice) (*domain.Invoice, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.Pool.QueryRow(ctx, `
		INSERT INTO invoices (transaction_id, building_id, apartment_id, resident_id, invoice_date, issue_date,
		                      total_due, total_paid, payment_method, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING invoice_id
	`,
		inv.TransactionID, inv.BuildingID, inv.ApartmentID, inv.ResidentID, inv.InvoiceDate, inv.IssueDate,
		inv.TotalDue, inv.TotalPaid, string(inv.PaymentMethod), inv.Status, inv.Notes,
	).Scan(&inv.InvoiceID)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to insert invoice for transaction %d: %w", inv.TransactionID, err), "invoice")
	}
	return &inv, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID int64) (*domain.Invoice, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var inv domain.Invoice
	var method string
	err := r.Pool.QueryRow(ctx, `
		SELECT invoice_id, transaction_id, building_id, apartment_id, resident_id, invoice_date, issue_date,
		       total_due, total_paid, payment_method, status, notes
		FROM invoices WHERE invoice_id = $1
	`, invoiceID).Scan(
		&inv.InvoiceID, &inv.TransactionID, &inv.BuildingID, &inv.ApartmentID, &inv.ResidentID, &inv.InvoiceDate, &inv.IssueDate,
		&inv.TotalDue, &inv.TotalPaid, &method, &inv.Status, &inv.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %d: %w", invoiceID, err)
	}
	inv.PaymentMethod = domain.PaymentMethod(method)
	return &inv, nil
}

// LogInvoiceSend records a delivery. Once a row exists the paid transaction
// reports InvoiceSent.
func (r *PgxInvoiceRepository) LogInvoiceSend(ctx context.Context, invoiceID int64, email string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.Pool.Exec(ctx, `INSERT INTO invoice_log (invoice_id, sent_to_email) VALUES ($1, $2)`, invoiceID, email)
	if err != nil {
		appErr := classify(fmt.Errorf("failed to log invoice %d delivery: %w", invoiceID, err), "invoice")
		if errors.Is(appErr, apperrors.ErrValidation) {
			return apperrors.ErrNotFound
		}
		return appErr
	}
	return nil
}
