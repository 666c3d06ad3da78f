package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatusIssued is the status of a freshly created invoice.
const InvoiceStatusIssued = "issued"

// Invoice is the receipt issued for one received payment.
type Invoice struct {
	InvoiceID     int64           `json:"invoiceID"`
	TransactionID int64           `json:"transactionID"`
	BuildingID    int64           `json:"buildingID"`
	ApartmentID   int64           `json:"apartmentID"`
	ResidentID    *int64          `json:"residentID,omitempty"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	IssueDate     time.Time       `json:"issueDate"`
	TotalDue      decimal.Decimal `json:"totalDue"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
}

// InvoiceFor builds the invoice of a received payment. The invoice is dated
// on the payment date and fully paid. Only positive resident payments can be
// invoiced.
func InvoiceFor(txn Transaction, issued time.Time) (Invoice, error) {
	if txn.IsReconciliation() {
		return Invoice{}, fmt.Errorf("transaction %d is a reconciliation adjustment", txn.TransactionID)
	}
	if !txn.AmountPaid.IsPositive() {
		return Invoice{}, fmt.Errorf("transaction %d has no positive amount to invoice", txn.TransactionID)
	}
	if txn.ResidentID == nil {
		return Invoice{}, fmt.Errorf("transaction %d has no resident to invoice", txn.TransactionID)
	}
	return Invoice{
		TransactionID: txn.TransactionID,
		BuildingID:    txn.BuildingID,
		ApartmentID:   txn.ApartmentID,
		ResidentID:    txn.ResidentID,
		InvoiceDate:   DateOf(txn.PaymentDate),
		IssueDate:     DateOf(issued),
		TotalDue:      txn.AmountPaid,
		TotalPaid:     txn.AmountPaid,
		PaymentMethod: txn.Method,
		Status:        InvoiceStatusIssued,
		Notes:         "Generated from transaction",
	}, nil
}
