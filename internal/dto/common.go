package dto

import (
	"fmt"
	"time"

	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

// MonthLayout is the wire format of a charge month.
const MonthLayout = "2006-01"

// DateRangeQuery is the common ?start_date=&end_date=&building_id= filter.
// Omitting building_id covers every building.
type DateRangeQuery struct {
	StartDate  string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string `form:"end_date" binding:"required,datetime=2006-01-02"`
	BuildingID *int64 `form:"building_id" binding:"omitempty,gt=0"`
}

// ToDateRange parses both ends; an inverted range is a validation error.
func (q DateRangeQuery) ToDateRange() (domain.DateRange, error) {
	start, err := ParseDate(q.StartDate)
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := ParseDate(q.EndDate)
	if err != nil {
		return domain.DateRange{}, err
	}
	r, err := domain.NewDateRange(start, end)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return r, nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidation, s)
	}
	return t, nil
}

// ParseMonth parses a YYYY-MM charge month into its first day.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid month %q, expected YYYY-MM", apperrors.ErrValidation, s)
	}
	return domain.MonthStart(t), nil
}

// FormatDate renders a calendar date in its wire format.
func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// FormatMonth renders a charge month in its wire format.
func FormatMonth(t time.Time) string {
	return t.Format(MonthLayout)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
