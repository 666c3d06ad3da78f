package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
	"github.com/vaadbayit/vaad_backend/internal/dto"
)

// financeHandler serves the read-only financial views.
type financeHandler struct {
	financeService  portssvc.FinanceSvcFacade
	cashFlowService portssvc.CashFlowSvc
	monthsBack      int
	monthsForward   int
}

// registerFinanceRoutes registers the financial reports. monthsBack and
// monthsForward are the cash-flow window used when the query omits them.
func registerFinanceRoutes(rg *gin.RouterGroup, financeService portssvc.FinanceSvcFacade, cashFlowService portssvc.CashFlowSvc, monthsBack, monthsForward int) {
	h := &financeHandler{
		financeService:  financeService,
		cashFlowService: cashFlowService,
		monthsBack:      monthsBack,
		monthsForward:   monthsForward,
	}

	finance := rg.Group("/finance")
	{
		finance.GET("/summary", h.summary)
		finance.GET("/kpis", h.kpis)
		finance.GET("/expenses", h.expenses)
		finance.GET("/special-balance", h.specialBalance)
		finance.GET("/half-year", h.halfYear)
		finance.GET("/unpaid", h.unpaid)
		finance.GET("/cashflow", h.cashFlow)
	}
}

// bindRange binds the range query, answering 400 on failure.
func bindRange(c *gin.Context) (dto.DateRangeQuery, domain.DateRange, bool) {
	var q dto.DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return q, domain.DateRange{}, false
	}
	r, err := q.ToDateRange()
	if err != nil {
		respondWithError(c, err, "Invalid date range")
		return q, domain.DateRange{}, false
	}
	return q, r, true
}

// summary godoc
// @Summary Expected, paid and expense totals for a range
// @Tags finance
// @Produce json
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Param building_id query int false "Building ID, all buildings when omitted"
// @Param exclude_sentinel query bool false "Leave association apartment payments out of the paid total (default true)"
// @Success 200 {object} dto.FinancialSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /finance/summary [get]
func (h *financeHandler) summary(c *gin.Context) {
	var q dto.SummaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	r, err := q.ToDateRange()
	if err != nil {
		respondWithError(c, err, "Invalid date range")
		return
	}

	summary, err := h.financeService.FinancialSummary(c.Request.Context(), r, q.BuildingID, q.Exclude())
	if err != nil {
		respondWithError(c, err, "Failed to compute financial summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToFinancialSummaryResponse(r, summary))
}

// kpis godoc
// @Summary Dashboard balances for a range
// @Tags finance
// @Produce json
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Param building_id query int false "Building ID"
// @Success 200 {object} dto.KPIResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /finance/kpis [get]
func (h *financeHandler) kpis(c *gin.Context) {
	q, r, ok := bindRange(c)
	if !ok {
		return
	}
	balances, err := h.financeService.DashboardKPIs(c.Request.Context(), r, q.BuildingID)
	if err != nil {
		respondWithError(c, err, "Failed to compute KPIs")
		return
	}
	c.JSON(http.StatusOK, dto.ToKPIResponse(r, balances))
}

// expenses godoc
// @Summary Expense installments in a range
// @Tags finance
// @Produce json
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Param building_id query int false "Building ID"
// @Success 200 {array} dto.ExpenseDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /finance/expenses [get]
func (h *financeHandler) expenses(c *gin.Context) {
	q, r, ok := bindRange(c)
	if !ok {
		return
	}
	details, err := h.financeService.ExpenseDetails(c.Request.Context(), r, q.BuildingID)
	if err != nil {
		respondWithError(c, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseDetailResponses(details))
}

// specialBalance godoc
// @Summary Net of association apartment transactions in a range
// @Tags finance
// @Produce json
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Param building_id query int false "Building ID"
// @Success 200 {object} dto.SpecialBalanceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /finance/special-balance [get]
func (h *financeHandler) specialBalance(c *gin.Context) {
	q, r, ok := bindRange(c)
	if !ok {
		return
	}
	balance, err := h.financeService.SpecialTransactionsBalance(c.Request.Context(), r, q.BuildingID)
	if err != nil {
		respondWithError(c, err, "Failed to compute special balance")
		return
	}
	c.JSON(http.StatusOK, dto.SpecialBalanceResponse{
		StartDate: dto.FormatDate(r.Start),
		EndDate:   dto.FormatDate(r.End),
		Balance:   balance,
	})
}

// halfYear godoc
// @Summary Half-year table of a range
// @Tags finance
// @Produce json
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Param building_id query int false "Building ID"
// @Success 200 {array} dto.HalfYearRowResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /finance/half-year [get]
func (h *financeHandler) halfYear(c *gin.Context) {
	q, r, ok := bindRange(c)
	if !ok {
		return
	}
	rows, err := h.financeService.HalfYearSummary(c.Request.Context(), r, q.BuildingID)
	if err != nil {
		respondWithError(c, err, "Failed to compute half-year summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToHalfYearResponses(rows))
}

// unpaid godoc
// @Summary Expected charges without a matching payment
// @Tags finance
// @Produce json
// @Param start_date query string true "Range start (YYYY-MM-DD)"
// @Param end_date query string true "Range end (YYYY-MM-DD)"
// @Param building_id query int false "Building ID"
// @Success 200 {array} dto.UnpaidChargeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /finance/unpaid [get]
func (h *financeHandler) unpaid(c *gin.Context) {
	q, r, ok := bindRange(c)
	if !ok {
		return
	}
	charges, err := h.financeService.UnpaidCharges(c.Request.Context(), r, q.BuildingID)
	if err != nil {
		respondWithError(c, err, "Failed to list unpaid charges")
		return
	}
	c.JSON(http.StatusOK, dto.ToUnpaidChargeResponses(charges))
}

// cashFlow godoc
// @Summary Monthly cash flow with forecast
// @Tags finance
// @Produce json
// @Param building_id query int false "Building ID"
// @Param months_back query int false "History months ending at the current month"
// @Param months_forward query int false "Forecast months after the current month"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /finance/cashflow [get]
func (h *financeHandler) cashFlow(c *gin.Context) {
	var q dto.CashFlowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	back, forward := h.monthsBack, h.monthsForward
	if q.MonthsBack != nil {
		back = *q.MonthsBack
	}
	if q.MonthsForward != nil {
		forward = *q.MonthsForward
	}

	series, err := h.cashFlowService.MonthlySeries(c.Request.Context(), q.BuildingID, back, forward)
	if err != nil {
		respondWithError(c, err, "Failed to compute cash flow")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(series))
}
