package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: newBaseRepository(pool, queryTimeout)}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func (r *PgxExpenseRepository) CreateSupplier(ctx context.Context, supplier domain.Supplier, buildingIDs []int64) (*domain.Supplier, error) {
	err := r.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO suppliers (supplier_name, expense_type, segment) VALUES ($1, $2, $3) RETURNING supplier_id`,
			supplier.Name, supplier.ExpenseType, supplier.Segment,
		).Scan(&supplier.SupplierID)
		if err != nil {
			return classify(fmt.Errorf("failed to create supplier %q: %w", supplier.Name, err), "supplier "+supplier.Name)
		}

		if len(buildingIDs) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for _, buildingID := range buildingIDs {
			batch.Queue(
				`INSERT INTO building_suppliers (building_id, supplier_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				buildingID, supplier.SupplierID,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for _, buildingID := range buildingIDs {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return classify(fmt.Errorf("failed to link supplier to building %d: %w", buildingID, err), "building")
			}
		}
		return br.Close()
	})
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *PgxExpenseRepository) FindSupplierByID(ctx context.Context, supplierID int64) (*domain.Supplier, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var s domain.Supplier
	err := r.Pool.QueryRow(ctx,
		`SELECT supplier_id, supplier_name, expense_type, segment FROM suppliers WHERE supplier_id = $1`,
		supplierID,
	).Scan(&s.SupplierID, &s.Name, &s.ExpenseType, &s.Segment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supplier %d: %w", supplierID, err)
	}
	return &s, nil
}

func (r *PgxExpenseRepository) ListSuppliersByBuilding(ctx context.Context, buildingID int64) ([]domain.Supplier, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `
		SELECT s.supplier_id, s.supplier_name, s.expense_type, s.segment
		FROM suppliers s
		JOIN building_suppliers bs ON bs.supplier_id = s.supplier_id
		WHERE bs.building_id = $1
		ORDER BY s.supplier_name
	`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers of building %d: %w", buildingID, err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		var s domain.Supplier
		if err := rows.Scan(&s.SupplierID, &s.Name, &s.ExpenseType, &s.Segment); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *PgxExpenseRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx,
		`UPDATE suppliers SET supplier_name = $2, expense_type = $3, segment = $4 WHERE supplier_id = $1`,
		supplier.SupplierID, supplier.Name, supplier.ExpenseType, supplier.Segment,
	)
	if err != nil {
		return classify(fmt.Errorf("failed to update supplier %d: %w", supplier.SupplierID, err), "supplier "+supplier.Name)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteSupplier removes the supplier and its building links. Expenses keep a
// plain foreign key, so a supplier with expenses is rejected by the database.
func (r *PgxExpenseRepository) DeleteSupplier(ctx context.Context, supplierID int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx, `DELETE FROM suppliers WHERE supplier_id = $1`, supplierID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return apperrors.NewAppError(400, "supplier still has expenses", errors.Join(apperrors.ErrValidation, err))
		}
		return fmt.Errorf("failed to delete supplier %d: %w", supplierID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxExpenseRepository) CreateExpense(ctx context.Context, expense domain.Expense, installments []domain.ExpensePayment) (*domain.Expense, error) {
	err := r.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO expenses (building_id, supplier_id, supplier_receipt_id, start_date, end_date,
			                      total_cost, monthly_cost, num_payments, expense_type, status, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING expense_id
		`,
			expense.BuildingID, expense.SupplierID, expense.SupplierReceiptID, expense.StartDate, expense.EndDate,
			expense.TotalCost, expense.MonthlyCost, expense.NumPayments, expense.ExpenseType, string(expense.Status), expense.Notes,
		).Scan(&expense.ExpenseID)
		if err != nil {
			return classify(fmt.Errorf("failed to insert expense: %w", err), "expense")
		}

		return insertInstallments(ctx, tx, expense.ExpenseID, installments)
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func insertInstallments(ctx context.Context, tx pgx.Tx, expenseID int64, installments []domain.ExpensePayment) error {
	batch := &pgx.Batch{}
	for _, p := range installments {
		batch.Queue(
			`INSERT INTO payments (expense_id, charge_month, cost, expense_type) VALUES ($1, $2, $3, $4)`,
			expenseID, p.ChargeMonth, p.Cost, p.ExpenseType,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for _, p := range installments {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return classify(fmt.Errorf("failed to insert installment for %s: %w", p.ChargeMonth.Format(domain.DateLayout), err), "installment")
		}
	}
	return br.Close()
}

// UpdateExpense replaces the expense row and all of its installments.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense, installments []domain.ExpensePayment) error {
	return r.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE expenses
			SET building_id = $2, supplier_id = $3, supplier_receipt_id = $4, start_date = $5, end_date = $6,
			    total_cost = $7, monthly_cost = $8, num_payments = $9, expense_type = $10, status = $11, notes = $12
			WHERE expense_id = $1
		`,
			expense.ExpenseID, expense.BuildingID, expense.SupplierID, expense.SupplierReceiptID, expense.StartDate, expense.EndDate,
			expense.TotalCost, expense.MonthlyCost, expense.NumPayments, expense.ExpenseType, string(expense.Status), expense.Notes,
		)
		if err != nil {
			return classify(fmt.Errorf("failed to update expense %d: %w", expense.ExpenseID, err), "expense")
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE expense_id = $1`, expense.ExpenseID); err != nil {
			return fmt.Errorf("failed to clear installments of expense %d: %w", expense.ExpenseID, err)
		}
		return insertInstallments(ctx, tx, expense.ExpenseID, installments)
	})
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, buildingID *int64) ([]domain.ExpenseListItem, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, `
		SELECT e.expense_id, e.building_id, e.supplier_id, e.supplier_receipt_id, e.start_date, e.end_date,
		       e.total_cost, e.monthly_cost, e.num_payments, e.expense_type, e.status, e.notes,
		       b.building_name, s.supplier_name
		FROM expenses e
		JOIN buildings b ON b.building_id = e.building_id
		JOIN suppliers s ON s.supplier_id = e.supplier_id
		WHERE ($1::bigint IS NULL OR e.building_id = $1)
		ORDER BY e.start_date DESC, e.expense_id DESC
	`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	items := []domain.ExpenseListItem{}
	for rows.Next() {
		var it domain.ExpenseListItem
		var status string
		if err := rows.Scan(
			&it.ExpenseID, &it.BuildingID, &it.SupplierID, &it.SupplierReceiptID, &it.StartDate, &it.EndDate,
			&it.TotalCost, &it.MonthlyCost, &it.NumPayments, &it.ExpenseType, &status, &it.Notes,
			&it.BuildingName, &it.SupplierName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		it.Status = domain.ExpenseStatus(status)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return items, nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID int64) (*domain.Expense, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var e domain.Expense
	var status string
	err := r.Pool.QueryRow(ctx, `
		SELECT expense_id, building_id, supplier_id, supplier_receipt_id, start_date, end_date,
		       total_cost, monthly_cost, num_payments, expense_type, status, notes
		FROM expenses WHERE expense_id = $1
	`, expenseID).Scan(
		&e.ExpenseID, &e.BuildingID, &e.SupplierID, &e.SupplierReceiptID, &e.StartDate, &e.EndDate,
		&e.TotalCost, &e.MonthlyCost, &e.NumPayments, &e.ExpenseType, &status, &e.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %d: %w", expenseID, err)
	}
	e.Status = domain.ExpenseStatus(status)
	return &e, nil
}

func (r *PgxExpenseRepository) UpdateExpenseStatus(ctx context.Context, expenseID int64, status domain.ExpenseStatus) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx, `UPDATE expenses SET status = $2 WHERE expense_id = $1`, expenseID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update status of expense %d: %w", expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteExpense removes the expense; its installments go with it.
func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
