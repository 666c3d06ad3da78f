package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
)

type invoiceService struct {
	BaseService
	ledger portsrepo.LedgerReader
	repo   portsrepo.InvoiceRepository
}

// InvoiceServiceOption configures an invoice service.
type InvoiceServiceOption func(*invoiceService)

// WithInvoiceClock replaces the clock used for the issue date.
func WithInvoiceClock(now func() time.Time) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.now = now
	}
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(ledger portsrepo.LedgerReader, repo portsrepo.InvoiceRepository, opts ...InvoiceServiceOption) portssvc.InvoiceSvc {
	s := &invoiceService{ledger: ledger, repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.InvoiceSvc = (*invoiceService)(nil)

// CreateInvoice issues the invoice of one resident payment. A transaction is
// invoiced at most once.
func (s *invoiceService) CreateInvoice(ctx context.Context, transactionID int64) (*domain.Invoice, error) {
	txn, err := s.ledger.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	invoice, err := domain.InvoiceFor(*txn, s.Today())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	created, err := s.repo.CreateInvoice(ctx, invoice)
	if err != nil {
		s.LogError(ctx, err, "Failed to create invoice", slog.Int64("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	s.LogInfo(ctx, "Invoice created",
		slog.Int64("invoice_id", created.InvoiceID),
		slog.Int64("transaction_id", transactionID))
	return created, nil
}

func (s *invoiceService) MarkInvoiceSent(ctx context.Context, invoiceID int64, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: recipient email is required", apperrors.ErrValidation)
	}
	if _, err := s.repo.FindInvoiceByID(ctx, invoiceID); err != nil {
		return err
	}
	if err := s.repo.LogInvoiceSend(ctx, invoiceID, email); err != nil {
		s.LogError(ctx, err, "Failed to log invoice delivery", slog.Int64("invoice_id", invoiceID))
		return fmt.Errorf("failed to log invoice delivery: %w", err)
	}
	s.LogInfo(ctx, "Invoice sent", slog.Int64("invoice_id", invoiceID))
	return nil
}
