package dto

import (
	"github.com/shopspring/decimal"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
)

// SetBuildingFeeRequest sets one monthly fee for every apartment of a building.
type SetBuildingFeeRequest struct {
	MonthlyFee decimal.Decimal `json:"monthlyFee" swaggertype:"string" example:"350.00"`
}

// SetApartmentFeeRequest sets one apartment's monthly fee.
type SetApartmentFeeRequest struct {
	MonthlyFee decimal.Decimal `json:"monthlyFee" swaggertype:"string" example:"350.00"`
	ChargeType string          `json:"chargeType"`
}

// GenerateChargesRequest generates expected charges for one month.
type GenerateChargesRequest struct {
	Month string `json:"month" binding:"required,yearmonth" example:"2024-03"`
}

// GenerateYearRequest generates expected charges for a whole calendar year.
type GenerateYearRequest struct {
	Year int `json:"year" binding:"required,min=1900,max=9999" example:"2024"`
}

type GenerateChargesResponse struct {
	Month    string `json:"month"`
	Inserted int    `json:"inserted"`
}

type GenerateYearResponse struct {
	Year   int                       `json:"year"`
	Months []GenerateChargesResponse `json:"months"`
	Total  int                       `json:"total"`
}

func ToGenerateYearResponse(year int, months []portssvc.MonthlyGeneration) GenerateYearResponse {
	resp := GenerateYearResponse{Year: year, Months: make([]GenerateChargesResponse, len(months))}
	for i, m := range months {
		resp.Months[i] = GenerateChargesResponse{Month: FormatMonth(m.Month), Inserted: m.Inserted}
		resp.Total += m.Inserted
	}
	return resp
}

// ChargesExistQuery asks whether a building already has charges in some
// months of a year, e.g. ?year=2024&months=1&months=2.
type ChargesExistQuery struct {
	Year   int   `form:"year" binding:"required,min=1900,max=9999"`
	Months []int `form:"months" binding:"required,min=1,max=12,dive,min=1,max=12"`
}

// RecordPaymentRequest records one payment received. Apartment 0 records a
// special (association-level) payment.
type RecordPaymentRequest struct {
	ApartmentID int64           `json:"apartmentID" binding:"gte=0"`
	ResidentID  *int64          `json:"residentID" binding:"omitempty,gt=0"`
	ChargeMonth string          `json:"chargeMonth" binding:"omitempty,yearmonth" example:"2024-03"`
	PaymentDate string          `json:"paymentDate" binding:"omitempty,datetime=2006-01-02" example:"2024-03-05"`
	AmountPaid  decimal.Decimal `json:"amountPaid" swaggertype:"string" example:"350.00"`
	Method      string          `json:"method" binding:"required,oneof=cash bank_transfer check credit_card"`
	Reference   string          `json:"reference" binding:"max=200"`
}

func (r RecordPaymentRequest) ToDomain(buildingID int64) (domain.Transaction, error) {
	txn := domain.Transaction{
		BuildingID:  buildingID,
		ApartmentID: r.ApartmentID,
		ResidentID:  r.ResidentID,
		AmountPaid:  r.AmountPaid,
		Method:      domain.PaymentMethod(r.Method),
		Reference:   r.Reference,
	}
	var err error
	if r.ChargeMonth != "" {
		if txn.ChargeMonth, err = ParseMonth(r.ChargeMonth); err != nil {
			return txn, err
		}
	}
	if r.PaymentDate != "" {
		if txn.PaymentDate, err = ParseDate(r.PaymentDate); err != nil {
			return txn, err
		}
	}
	return txn, nil
}

// BulkPaymentItem is one (apartment, month) to mark as paid.
type BulkPaymentItem struct {
	ApartmentID int64  `json:"apartmentID" binding:"required,gt=0"`
	ChargeMonth string `json:"chargeMonth" binding:"required,yearmonth" example:"2024-03"`
}

// BulkPaymentRequest marks several apartment months as paid at the current fee.
type BulkPaymentRequest struct {
	Items       []BulkPaymentItem `json:"items" binding:"required,min=1,dive"`
	Method      string            `json:"method" binding:"required,oneof=cash bank_transfer check credit_card"`
	PaymentDate string            `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
}

func (r BulkPaymentRequest) ToDomain() ([]domain.PaymentRequest, error) {
	requests := make([]domain.PaymentRequest, len(r.Items))
	for i, item := range r.Items {
		month, err := ParseMonth(item.ChargeMonth)
		if err != nil {
			return nil, err
		}
		requests[i] = domain.PaymentRequest{ApartmentID: item.ApartmentID, ChargeMonth: month}
	}
	return requests, nil
}

type TransactionResponse struct {
	TransactionID   int64           `json:"transactionID"`
	BuildingID      int64           `json:"buildingID"`
	BuildingName    string          `json:"buildingName,omitempty"`
	ApartmentID     int64           `json:"apartmentID"`
	ApartmentNumber *string         `json:"apartmentNumber,omitempty"`
	ResidentID      *int64          `json:"residentID,omitempty"`
	ResidentName    string          `json:"residentName,omitempty"`
	ResidentEmail   string          `json:"residentEmail,omitempty"`
	ChargeMonth     string          `json:"chargeMonth"`
	PaymentDate     string          `json:"paymentDate"`
	AmountPaid      decimal.Decimal `json:"amountPaid" swaggertype:"string"`
	Method          string          `json:"method"`
	Reference       string          `json:"reference"`
	Special         bool            `json:"special"`
	InvoiceSent     bool            `json:"invoiceSent"`
}

func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		BuildingID:    t.BuildingID,
		ApartmentID:   t.ApartmentID,
		ResidentID:    t.ResidentID,
		ChargeMonth:   FormatMonth(t.ChargeMonth),
		PaymentDate:   FormatDate(t.PaymentDate),
		AmountPaid:    t.AmountPaid,
		Method:        string(t.Method),
		Reference:     t.Reference,
	}
}

func ToTransactionRowResponses(rows []domain.TransactionRow) []TransactionResponse {
	resp := make([]TransactionResponse, len(rows))
	for i, row := range rows {
		r := ToTransactionResponse(row.Transaction)
		r.BuildingName = row.BuildingName
		r.ApartmentNumber = row.Apartment.ApartmentNumber
		r.ResidentName = row.ResidentName
		r.ResidentEmail = row.ResidentMail
		r.Special = row.IsSpecial()
		r.InvoiceSent = row.InvoiceSent
		resp[i] = r
	}
	return resp
}

type SkippedPaymentResponse struct {
	ApartmentID int64  `json:"apartmentID"`
	ChargeMonth string `json:"chargeMonth"`
	Reason      string `json:"reason"`
}

type BulkPaymentResponse struct {
	Recorded []TransactionResponse   `json:"recorded"`
	Skipped  []SkippedPaymentResponse `json:"skipped"`
}

func ToBulkPaymentResponse(result *portssvc.BulkPaymentResult) BulkPaymentResponse {
	resp := BulkPaymentResponse{
		Recorded: make([]TransactionResponse, len(result.Recorded)),
		Skipped:  make([]SkippedPaymentResponse, len(result.Skipped)),
	}
	for i, t := range result.Recorded {
		resp.Recorded[i] = ToTransactionResponse(t)
	}
	for i, s := range result.Skipped {
		resp.Skipped[i] = SkippedPaymentResponse{ApartmentID: s.ApartmentID, ChargeMonth: FormatMonth(s.ChargeMonth), Reason: s.Reason}
	}
	return resp
}
