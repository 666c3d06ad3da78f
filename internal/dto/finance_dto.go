package dto

import (
	"github.com/shopspring/decimal"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	"github.com/vaadbayit/vaad_backend/internal/utils"
)

// SummaryQuery adds the sentinel toggle to the range filter.
type SummaryQuery struct {
	DateRangeQuery
	ExcludeSentinel *bool `form:"exclude_sentinel"`
}

// Exclude defaults to excluding the association apartment.
func (q SummaryQuery) Exclude() bool {
	return q.ExcludeSentinel == nil || *q.ExcludeSentinel
}

// CashFlowQuery selects the chart window; omitted sizes use the server defaults.
type CashFlowQuery struct {
	BuildingID    *int64 `form:"building_id" binding:"omitempty,gt=0"`
	MonthsBack    *int   `form:"months_back" binding:"omitempty,min=0,max=120"`
	MonthsForward *int   `form:"months_forward" binding:"omitempty,min=0,max=120"`
}

type FinancialSummaryResponse struct {
	StartDate        string          `json:"startDate"`
	EndDate          string          `json:"endDate"`
	TotalExpected    decimal.Decimal `json:"totalExpected" swaggertype:"string"`
	TotalPaid        decimal.Decimal `json:"totalPaid" swaggertype:"string"`
	TotalExpenseCost decimal.Decimal `json:"totalExpenseCost" swaggertype:"string"`
}

func ToFinancialSummaryResponse(r domain.DateRange, s domain.FinancialSummary) FinancialSummaryResponse {
	return FinancialSummaryResponse{
		StartDate:        FormatDate(r.Start),
		EndDate:          FormatDate(r.End),
		TotalExpected:    s.TotalExpected,
		TotalPaid:        s.TotalPaid,
		TotalExpenseCost: s.TotalExpenseCost,
	}
}

// KPIValue is an exact amount together with its card label.
type KPIValue struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
	Label  string          `json:"label"`
}

func kpi(amount decimal.Decimal) KPIValue {
	return KPIValue{Amount: amount, Label: utils.AbbreviateShekel(amount)}
}

type KPIResponse struct {
	StartDate       string   `json:"startDate"`
	EndDate         string   `json:"endDate"`
	TotalExpected   KPIValue `json:"totalExpected"`
	TotalPaid       KPIValue `json:"totalPaid"`
	ExpensesPaid    KPIValue `json:"expensesPaid"`
	ExpensesPending KPIValue `json:"expensesPending"`
	SpecialBalance  KPIValue `json:"specialBalance"`
	Outstanding     KPIValue `json:"outstanding"`
	FinalBalance    KPIValue `json:"finalBalance"`
	FullBalance     KPIValue `json:"fullBalance"`
}

func ToKPIResponse(r domain.DateRange, b domain.Balances) KPIResponse {
	return KPIResponse{
		StartDate:       FormatDate(r.Start),
		EndDate:         FormatDate(r.End),
		TotalExpected:   kpi(b.TotalExpected),
		TotalPaid:       kpi(b.TotalPaid),
		ExpensesPaid:    kpi(b.ExpensesPaid),
		ExpensesPending: kpi(b.ExpensesPending),
		SpecialBalance:  kpi(b.SpecialBalance),
		Outstanding:     kpi(b.Outstanding),
		FinalBalance:    kpi(b.FinalBalance),
		FullBalance:     kpi(b.FullBalance),
	}
}

type SpecialBalanceResponse struct {
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Balance   decimal.Decimal `json:"balance" swaggertype:"string"`
}

type HalfYearRowResponse struct {
	Label      string          `json:"label"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	Paid       decimal.Decimal `json:"paid" swaggertype:"string"`
	Expenses   decimal.Decimal `json:"expenses" swaggertype:"string"`
	Special    decimal.Decimal `json:"special" swaggertype:"string"`
	Net        decimal.Decimal `json:"net" swaggertype:"string"`
	Cumulative decimal.Decimal `json:"cumulative" swaggertype:"string"`
}

func ToHalfYearResponses(rows []domain.HalfYearRow) []HalfYearRowResponse {
	resp := make([]HalfYearRowResponse, len(rows))
	for i, row := range rows {
		resp[i] = HalfYearRowResponse{
			Label:      row.Label,
			StartDate:  FormatDate(row.Range.Start),
			EndDate:    FormatDate(row.Range.End),
			Paid:       row.Paid,
			Expenses:   row.Expenses,
			Special:    row.Special,
			Net:        row.Net,
			Cumulative: row.Cumulative,
		}
	}
	return resp
}

type UnpaidChargeResponse struct {
	ChargeMonth     string          `json:"chargeMonth"`
	BuildingName    string          `json:"buildingName"`
	ApartmentID     int64           `json:"apartmentID"`
	ApartmentNumber string          `json:"apartmentNumber"`
	ExpectedAmount  decimal.Decimal `json:"expectedAmount" swaggertype:"string"`
}

func ToUnpaidChargeResponses(charges []domain.UnpaidCharge) []UnpaidChargeResponse {
	resp := make([]UnpaidChargeResponse, len(charges))
	for i, c := range charges {
		resp[i] = UnpaidChargeResponse{
			ChargeMonth:     FormatMonth(c.ChargeMonth),
			BuildingName:    c.BuildingName,
			ApartmentID:     c.ApartmentID,
			ApartmentNumber: c.ApartmentNumber,
			ExpectedAmount:  c.ExpectedAmount,
		}
	}
	return resp
}

type CashFlowPoint struct {
	Month      string          `json:"month"`
	Net        decimal.Decimal `json:"net" swaggertype:"string"`
	Cumulative decimal.Decimal `json:"cumulative" swaggertype:"string"`
}

type CashFlowResponse struct {
	Anchor         string          `json:"anchor"`
	BaseCumulative decimal.Decimal `json:"baseCumulative" swaggertype:"string"`
	History        []CashFlowPoint `json:"history"`
	Forecast       []CashFlowPoint `json:"forecast"`
}

func toCashFlowPoints(points []domain.CashFlowMonth) []CashFlowPoint {
	out := make([]CashFlowPoint, len(points))
	for i, p := range points {
		out[i] = CashFlowPoint{Month: FormatMonth(p.Month), Net: p.Net, Cumulative: p.Cumulative}
	}
	return out
}

func ToCashFlowResponse(s *domain.CashFlowSeries) CashFlowResponse {
	return CashFlowResponse{
		Anchor:         FormatMonth(s.Anchor),
		BaseCumulative: s.BaseCumulative,
		History:        toCashFlowPoints(s.History),
		Forecast:       toCashFlowPoints(s.Forecast),
	}
}

// ProposeReconciliationRequest compares the bank balance with the system
// balance of the range.
type ProposeReconciliationRequest struct {
	StartDate   string          `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     string          `json:"endDate" binding:"required,datetime=2006-01-02"`
	BankBalance *decimal.Decimal `json:"bankBalance" binding:"required" swaggertype:"string" example:"15230.50"`
}

func (r ProposeReconciliationRequest) Range() (domain.DateRange, error) {
	return DateRangeQuery{StartDate: r.StartDate, EndDate: r.EndDate}.ToDateRange()
}

type ReconciliationProposalResponse struct {
	BuildingID    int64           `json:"buildingID"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	TotalPaid     decimal.Decimal `json:"totalPaid" swaggertype:"string"`
	ExpensesPaid  decimal.Decimal `json:"expensesPaid" swaggertype:"string"`
	Special       decimal.Decimal `json:"special" swaggertype:"string"`
	SystemBalance decimal.Decimal `json:"systemBalance" swaggertype:"string"`
	BankBalance   decimal.Decimal `json:"bankBalance" swaggertype:"string"`
	Difference    decimal.Decimal `json:"difference" swaggertype:"string"`
}

func ToReconciliationProposalResponse(p *domain.ReconciliationProposal) ReconciliationProposalResponse {
	return ReconciliationProposalResponse{
		BuildingID:    p.BuildingID,
		StartDate:     FormatDate(p.Range.Start),
		EndDate:       FormatDate(p.Range.End),
		TotalPaid:     p.TotalPaid,
		ExpensesPaid:  p.ExpensesPaid,
		Special:       p.Special,
		SystemBalance: p.SystemBalance,
		BankBalance:   p.BankBalance,
		Difference:    p.Difference,
	}
}

// CommitReconciliationRequest writes the difference as an adjustment.
type CommitReconciliationRequest struct {
	Difference decimal.Decimal `json:"difference" swaggertype:"string" example:"-120.00"`
	Note       string          `json:"note" binding:"max=500"`
}

type CommitReconciliationResponse struct {
	TransactionID int64 `json:"transactionID"`
}

type UndoReconciliationResponse struct {
	Undone bool `json:"undone"`
}
