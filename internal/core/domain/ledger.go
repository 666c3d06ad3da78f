package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// LegacySentinelApartmentID is the literal apartment id older rows use for
	// association-level entries. No apartment row carries it.
	LegacySentinelApartmentID int64 = 0
	// SentinelApartmentNumber is the apartment number of the association apartment.
	SentinelApartmentNumber = "0"
)

// ApartmentRef is the apartment side of a ledger row. ApartmentNumber is nil
// when the row's apartment no longer exists (or never existed, as with id 0).
type ApartmentRef struct {
	ApartmentID     int64   `json:"apartmentID"`
	ApartmentNumber *string `json:"apartmentNumber,omitempty"`
}

// IsSentinel reports whether the row belongs to the association apartment,
// under either the legacy id-0 convention or an apartment numbered "0".
// An unresolved apartment is never a sentinel.
func (r ApartmentRef) IsSentinel() bool {
	if r.ApartmentID == LegacySentinelApartmentID {
		return true
	}
	return r.ApartmentNumber != nil && *r.ApartmentNumber == SentinelApartmentNumber
}

// Resolved reports whether the row's apartment still exists.
func (r ApartmentRef) Resolved() bool {
	return r.ApartmentNumber != nil
}

// CountsAsResident reports whether the row belongs to a resident apartment
// that still exists. Rows failing it are left out of resident totals.
func (r ApartmentRef) CountsAsResident() bool {
	return r.Resolved() && !r.IsSentinel()
}

// SentinelAccount is a building's association apartment, resolved once per
// building. ApartmentID is the id of the apartment numbered "0" when one
// exists, otherwise LegacySentinelApartmentID.
type SentinelAccount struct {
	BuildingID  int64  `json:"buildingID"`
	ApartmentID int64  `json:"apartmentID"`
	ResidentID  *int64 `json:"residentID,omitempty"`
}

// ExpectedCharge is what an apartment was billed for one month.
type ExpectedCharge struct {
	ApartmentID    int64           `json:"apartmentID"`
	BuildingID     int64           `json:"buildingID"`
	ChargeMonth    time.Time       `json:"chargeMonth"`
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`
}

// ExpectedChargeRow is an ExpectedCharge joined with its apartment.
type ExpectedChargeRow struct {
	ExpectedCharge
	Apartment    ApartmentRef `json:"apartment"`
	BuildingName string       `json:"buildingName"`
}

// PaymentMethod is how money reached the association.
type PaymentMethod string

const (
	MethodCash                 PaymentMethod = "cash"
	MethodBankTransfer         PaymentMethod = "bank_transfer"
	MethodCheck                PaymentMethod = "check"
	MethodCreditCard           PaymentMethod = "credit_card"
	MethodManualReconciliation PaymentMethod = "manual_reconciliation"
)

// Transaction is a payment received. A transaction against the sentinel
// apartment is a special transaction.
type Transaction struct {
	TransactionID int64           `json:"transactionID"`
	BuildingID    int64           `json:"buildingID"`
	ApartmentID   int64           `json:"apartmentID"`
	ResidentID    *int64          `json:"residentID,omitempty"`
	ChargeMonth   time.Time       `json:"chargeMonth"`
	PaymentDate   time.Time       `json:"paymentDate"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	Method        PaymentMethod   `json:"method"`
	Reference     string          `json:"reference"`
}

// IsReconciliation reports whether the row is a manual bank reconciliation.
func (t Transaction) IsReconciliation() bool {
	return t.Method == MethodManualReconciliation
}

// TransactionRow is a Transaction joined with its apartment and resident.
type TransactionRow struct {
	Transaction
	Apartment    ApartmentRef `json:"apartment"`
	BuildingName string       `json:"buildingName"`
	ResidentName string       `json:"residentName"`
	ResidentMail string       `json:"residentEmail"`
	// InvoiceSent is set once an invoice for the payment was delivered.
	InvoiceSent bool `json:"invoiceSent"`
}

// IsSpecial reports whether the row is a special (association-level) transaction.
func (t TransactionRow) IsSpecial() bool {
	return t.Apartment.IsSentinel()
}

// PaymentRequest asks to mark one apartment's month as paid.
type PaymentRequest struct {
	ApartmentID int64
	ChargeMonth time.Time
}

// SkippedPayment is a PaymentRequest that bulk recording could not honour.
type SkippedPayment struct {
	ApartmentID int64     `json:"apartmentID"`
	ChargeMonth time.Time `json:"chargeMonth"`
	Reason      string    `json:"reason"`
}

const (
	SkipReasonNoActiveResident = "No active resident"
	SkipReasonNoMonthlyFee     = "No monthly fee set"
)

// UnpaidCharge is an expected charge with no matching payment.
type UnpaidCharge struct {
	ChargeMonth     time.Time       `json:"chargeMonth"`
	BuildingName    string          `json:"buildingName"`
	ApartmentID     int64           `json:"apartmentID"`
	ApartmentNumber string          `json:"apartmentNumber"`
	ExpectedAmount  decimal.Decimal `json:"expectedAmount"`
}
