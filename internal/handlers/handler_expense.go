package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portssvc "github.com/vaadbayit/vaad_backend/internal/core/ports/services"
	"github.com/vaadbayit/vaad_backend/internal/dto"
)

type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// registerExpenseRoutes registers suppliers and expenses.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := &expenseHandler{expenseService: expenseService}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.createSupplier)
		suppliers.PUT("/:supplier_id", h.updateSupplier)
		suppliers.DELETE("/:supplier_id", h.deleteSupplier)
	}
	rg.GET("/buildings/:building_id/suppliers", h.listSuppliers)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.PUT("/:expense_id", h.updateExpense)
		expenses.PATCH("/:expense_id/status", h.updateExpenseStatus)
		expenses.DELETE("/:expense_id", h.deleteExpense)
	}
}

// createSupplier godoc
// @Summary Create a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Param supplier body dto.CreateSupplierRequest true "Supplier"
// @Success 201 {object} domain.Supplier
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /suppliers [post]
func (h *expenseHandler) createSupplier(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	supplier, err := h.expenseService.CreateSupplier(c.Request.Context(), req.ToDomain(), req.BuildingIDs)
	if err != nil {
		respondWithError(c, err, "Failed to create supplier")
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// updateSupplier godoc
// @Summary Update a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Param supplier_id path int true "Supplier ID"
// @Param supplier body dto.UpdateSupplierRequest true "Supplier"
// @Success 200 {object} domain.Supplier
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /suppliers/{supplier_id} [put]
func (h *expenseHandler) updateSupplier(c *gin.Context) {
	supplierID, ok := pathID(c, "supplier_id")
	if !ok {
		return
	}
	var req dto.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	supplier, err := h.expenseService.UpdateSupplier(c.Request.Context(), req.ToDomain(supplierID))
	if err != nil {
		respondWithError(c, err, "Failed to update supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// deleteSupplier godoc
// @Summary Delete a supplier
// @Description Suppliers that still have expenses cannot be deleted.
// @Tags suppliers
// @Param supplier_id path int true "Supplier ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /suppliers/{supplier_id} [delete]
func (h *expenseHandler) deleteSupplier(c *gin.Context) {
	supplierID, ok := pathID(c, "supplier_id")
	if !ok {
		return
	}
	if err := h.expenseService.DeleteSupplier(c.Request.Context(), supplierID); err != nil {
		respondWithError(c, err, "Failed to delete supplier")
		return
	}
	c.Status(http.StatusNoContent)
}

// listSuppliers godoc
// @Summary List a building's suppliers
// @Tags suppliers
// @Produce json
// @Param building_id path int true "Building ID"
// @Success 200 {array} domain.Supplier
// @Security BearerAuth
// @Router /buildings/{building_id}/suppliers [get]
func (h *expenseHandler) listSuppliers(c *gin.Context) {
	buildingID, ok := pathID(c, "building_id")
	if !ok {
		return
	}
	suppliers, err := h.expenseService.ListSuppliers(c.Request.Context(), buildingID)
	if err != nil {
		respondWithError(c, err, "Failed to list suppliers")
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// createExpense godoc
// @Summary Create an expense with its monthly installments
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	expense, err := req.ToDomain()
	if err != nil {
		respondWithError(c, err, "Failed to create expense")
		return
	}

	created, err := h.expenseService.CreateExpense(c.Request.Context(), expense)
	if err != nil {
		respondWithError(c, err, "Failed to create expense")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(created))
}

// listExpenses godoc
// @Summary List expenses, newest start date first
// @Tags expenses
// @Produce json
// @Param building_id query int false "Building ID, all buildings when omitted"
// @Success 200 {array} dto.ExpenseListItemResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	var q dto.ExpenseListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	items, err := h.expenseService.ListExpenses(c.Request.Context(), q.BuildingID)
	if err != nil {
		respondWithError(c, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseListResponses(items))
}

// updateExpense godoc
// @Summary Replace an expense and re-derive its installments
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense_id path int true "Expense ID"
// @Param expense body dto.UpdateExpenseRequest true "Expense"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses/{expense_id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	expenseID, ok := pathID(c, "expense_id")
	if !ok {
		return
	}
	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	expense, err := req.ToDomain(expenseID)
	if err != nil {
		respondWithError(c, err, "Failed to update expense")
		return
	}

	updated, err := h.expenseService.UpdateExpense(c.Request.Context(), expense)
	if err != nil {
		respondWithError(c, err, "Failed to update expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(updated))
}

// updateExpenseStatus godoc
// @Summary Change an expense's status
// @Tags expenses
// @Accept json
// @Param expense_id path int true "Expense ID"
// @Param status body dto.UpdateExpenseStatusRequest true "New status"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses/{expense_id}/status [patch]
func (h *expenseHandler) updateExpenseStatus(c *gin.Context) {
	expenseID, ok := pathID(c, "expense_id")
	if !ok {
		return
	}
	var req dto.UpdateExpenseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.expenseService.UpdateExpenseStatus(c.Request.Context(), expenseID, domain.ExpenseStatus(req.Status)); err != nil {
		respondWithError(c, err, "Failed to update expense")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteExpense godoc
// @Summary Delete an expense and its installments
// @Tags expenses
// @Param expense_id path int true "Expense ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses/{expense_id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	expenseID, ok := pathID(c, "expense_id")
	if !ok {
		return
	}
	if err := h.expenseService.DeleteExpense(c.Request.Context(), expenseID); err != nil {
		respondWithError(c, err, "Failed to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}
