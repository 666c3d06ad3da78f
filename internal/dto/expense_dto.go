package dto

import (
	"github.com/shopspring/decimal"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// CreateSupplierRequest creates a supplier linked to the given buildings.
type CreateSupplierRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	ExpenseType string  `json:"expenseType"`
	Segment     string  `json:"segment"`
	BuildingIDs []int64 `json:"buildingIDs" binding:"required,min=1,dive,gt=0"`
}

func (r CreateSupplierRequest) ToDomain() domain.Supplier {
	return domain.Supplier{Name: r.Name, ExpenseType: r.ExpenseType, Segment: r.Segment}
}

// UpdateSupplierRequest renames or reclassifies a supplier.
type UpdateSupplierRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	ExpenseType string `json:"expenseType"`
	Segment     string `json:"segment"`
}

func (r UpdateSupplierRequest) ToDomain(supplierID int64) domain.Supplier {
	return domain.Supplier{SupplierID: supplierID, Name: r.Name, ExpenseType: r.ExpenseType, Segment: r.Segment}
}

// ExpenseListQuery filters the expense list. Omitting building_id lists
// every building.
type ExpenseListQuery struct {
	BuildingID *int64 `form:"building_id" binding:"omitempty,gt=0"`
}

// CreateExpenseRequest creates an expense. Give either totalCost or
// monthlyCost; the other is derived from numPayments.
type CreateExpenseRequest struct {
	BuildingID        int64           `json:"buildingID" binding:"required,gt=0"`
	SupplierID        int64           `json:"supplierID" binding:"required,gt=0"`
	SupplierReceiptID string          `json:"supplierReceiptID"`
	StartDate         string          `json:"startDate" binding:"required,datetime=2006-01-02"`
	TotalCost         decimal.Decimal `json:"totalCost" swaggertype:"string"`
	MonthlyCost       decimal.Decimal `json:"monthlyCost" swaggertype:"string"`
	NumPayments       int             `json:"numPayments" binding:"required,min=1,max=600"`
	ExpenseType       string          `json:"expenseType"`
	Status            string          `json:"status" binding:"omitempty,oneof=pending paid cancelled"`
	Notes             string          `json:"notes"`
}

func (r CreateExpenseRequest) ToDomain() (domain.Expense, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return domain.Expense{}, err
	}
	return domain.Expense{
		BuildingID:        r.BuildingID,
		SupplierID:        r.SupplierID,
		SupplierReceiptID: r.SupplierReceiptID,
		StartDate:         start,
		TotalCost:         r.TotalCost,
		MonthlyCost:       r.MonthlyCost,
		NumPayments:       r.NumPayments,
		ExpenseType:       r.ExpenseType,
		Status:            domain.ExpenseStatus(r.Status),
		Notes:             r.Notes,
	}, nil
}

// UpdateExpenseRequest replaces an expense. Installments are derived again,
// and an omitted status keeps the stored one.
type UpdateExpenseRequest struct {
	CreateExpenseRequest
}

func (r UpdateExpenseRequest) ToDomain(expenseID int64) (domain.Expense, error) {
	expense, err := r.CreateExpenseRequest.ToDomain()
	if err != nil {
		return domain.Expense{}, err
	}
	expense.ExpenseID = expenseID
	return expense, nil
}

type UpdateExpenseStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid cancelled"`
}

type ExpenseResponse struct {
	ExpenseID         int64           `json:"expenseID"`
	BuildingID        int64           `json:"buildingID"`
	SupplierID        int64           `json:"supplierID"`
	SupplierReceiptID string          `json:"supplierReceiptID"`
	StartDate         string          `json:"startDate"`
	EndDate           string          `json:"endDate"`
	TotalCost         decimal.Decimal `json:"totalCost" swaggertype:"string"`
	MonthlyCost       decimal.Decimal `json:"monthlyCost" swaggertype:"string"`
	NumPayments       int             `json:"numPayments"`
	ExpenseType       string          `json:"expenseType"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes"`
}

func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:         e.ExpenseID,
		BuildingID:        e.BuildingID,
		SupplierID:        e.SupplierID,
		SupplierReceiptID: e.SupplierReceiptID,
		StartDate:         FormatDate(e.StartDate),
		EndDate:           FormatDate(e.EndDate),
		TotalCost:         e.TotalCost,
		MonthlyCost:       e.MonthlyCost,
		NumPayments:       e.NumPayments,
		ExpenseType:       e.ExpenseType,
		Status:            string(e.Status),
		Notes:             e.Notes,
	}
}

// ExpenseListItemResponse is an expense with its building and supplier names.
type ExpenseListItemResponse struct {
	ExpenseResponse
	BuildingName string `json:"buildingName"`
	SupplierName string `json:"supplierName"`
}

func ToExpenseListResponses(items []domain.ExpenseListItem) []ExpenseListItemResponse {
	resp := make([]ExpenseListItemResponse, len(items))
	for i := range items {
		resp[i] = ExpenseListItemResponse{
			ExpenseResponse: ToExpenseResponse(&items[i].Expense),
			BuildingName:    items[i].BuildingName,
			SupplierName:    items[i].SupplierName,
		}
	}
	return resp
}

// ExpenseDetailResponse is one installment with its expense's metadata.
type ExpenseDetailResponse struct {
	ExpenseID         int64           `json:"expenseID"`
	BuildingID        int64           `json:"buildingID"`
	BuildingName      string          `json:"buildingName"`
	SupplierName      string          `json:"supplierName"`
	SupplierReceiptID string          `json:"supplierReceiptID"`
	ChargeMonth       string          `json:"chargeMonth"`
	StartDate         string          `json:"startDate"`
	EndDate           string          `json:"endDate"`
	TotalCost         decimal.Decimal `json:"totalCost" swaggertype:"string"`
	MonthlyCost       decimal.Decimal `json:"monthlyCost" swaggertype:"string"`
	NumPayments       int             `json:"numPayments"`
	Cost              decimal.Decimal `json:"cost" swaggertype:"string"`
	ExpenseType       string          `json:"expenseType"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes"`
}

func ToExpenseDetailResponses(details []domain.ExpenseDetail) []ExpenseDetailResponse {
	resp := make([]ExpenseDetailResponse, len(details))
	for i, d := range details {
		resp[i] = ExpenseDetailResponse{
			ExpenseID:         d.ExpenseID,
			BuildingID:        d.BuildingID,
			BuildingName:      d.BuildingName,
			SupplierName:      d.SupplierName,
			SupplierReceiptID: d.SupplierReceiptID,
			ChargeMonth:       FormatMonth(d.ChargeMonth),
			StartDate:         FormatDate(d.StartDate),
			EndDate:           FormatDate(d.EndDate),
			TotalCost:         d.TotalCost,
			MonthlyCost:       d.MonthlyCost,
			NumPayments:       d.NumPayments,
			Cost:              d.Cost,
			ExpenseType:       d.ExpenseType,
			Status:            string(d.Status),
			Notes:             d.Notes,
		}
	}
	return resp
}
