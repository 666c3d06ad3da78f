package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

func TestInvoiceFor(t *testing.T) {
	residentID := int64(9)
	paid := time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)
	issued := time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC)
	txn := domain.Transaction{
		TransactionID: 77,
		BuildingID:    1,
		ApartmentID:   12,
		ResidentID:    &residentID,
		PaymentDate:   paid,
		AmountPaid:    decimal.RequireFromString("350.50"),
		Method:        domain.MethodBankTransfer,
	}

	invoice, err := domain.InvoiceFor(txn, issued)
	require.NoError(t, err)
	assert.Equal(t, int64(77), invoice.TransactionID)
	assert.Equal(t, "2024-03-14", invoice.InvoiceDate.Format(domain.DateLayout))
	assert.Equal(t, "2024-03-20", invoice.IssueDate.Format(domain.DateLayout))
	assert.Equal(t, "350.5", invoice.TotalDue.String())
	assert.True(t, invoice.TotalDue.Equal(invoice.TotalPaid))
	assert.Equal(t, domain.InvoiceStatusIssued, invoice.Status)
	assert.Equal(t, domain.MethodBankTransfer, invoice.PaymentMethod)
}

func TestInvoiceFor_Rejects(t *testing.T) {
	residentID := int64(9)
	base := domain.Transaction{TransactionID: 1, ResidentID: &residentID, AmountPaid: decimal.NewFromInt(100), Method: domain.MethodCash}

	tests := []struct {
		name   string
		mutate func(*domain.Transaction)
	}{
		{"reconciliation", func(t *domain.Transaction) { t.Method = domain.MethodManualReconciliation }},
		{"zero amount", func(t *domain.Transaction) { t.AmountPaid = decimal.Zero }},
		{"negative amount", func(t *domain.Transaction) { t.AmountPaid = decimal.NewFromInt(-5) }},
		{"no resident", func(t *domain.Transaction) { t.ResidentID = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := base
			tt.mutate(&txn)
			_, err := domain.InvoiceFor(txn, time.Now())
			assert.Error(t, err)
		})
	}
}
