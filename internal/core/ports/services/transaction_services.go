package services

import (
	"context"
	"time"

	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// BulkPaymentResult reports which requested months were recorded.
type BulkPaymentResult struct {
	Recorded []domain.Transaction    `json:"recorded"`
	Skipped  []domain.SkippedPayment `json:"skipped"`
}

// TransactionSvcFacade records and lists payments received.
type TransactionSvcFacade interface {
	RecordPayment(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)
	// RecordBulkPayments marks each (apartment, month) as paid with the
	// apartment's active resident and current fee. Requests that cannot be
	// honoured are returned as skipped, not as errors.
	RecordBulkPayments(ctx context.Context, buildingID int64, requests []domain.PaymentRequest, method domain.PaymentMethod, paymentDate time.Time) (*BulkPaymentResult, error)
	// ListTransactions returns the positive payments of the range, newest
	// payment date first.
	ListTransactions(ctx context.Context, r domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error)
}
