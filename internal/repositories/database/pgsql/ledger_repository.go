package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaadbayit/vaad_backend/internal/apperrors"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
)

// sentinelPredicate is the only place the association apartment is
// recognised in SQL. The row alias is "t" and the apartment join alias is "a".
const sentinelPredicate = `(t.apartment_id = 0 OR a.apartment_number = '0')`

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: newBaseRepository(pool, queryTimeout)}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func (r *PgxLedgerRepository) ExpectedChargesInRange(ctx context.Context, dr domain.DateRange, buildingID *int64) ([]domain.ExpectedChargeRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT t.apartment_id, t.building_id, t.charge_month, t.expected_amount,
		       a.apartment_number, b.building_name
		FROM expected_charges t
		JOIN buildings b ON b.building_id = t.building_id
		LEFT JOIN apartments a ON a.apartment_id = t.apartment_id
		WHERE t.charge_month BETWEEN $1 AND $2
		  AND ($3::bigint IS NULL OR t.building_id = $3)
		ORDER BY t.charge_month, b.building_name, a.apartment_number
	`
	rows, err := r.Pool.Query(ctx, query, dr.Start, dr.End, buildingID)
	if err != nil {
		return nil, fmt.Errorf("error querying expected charges: %w", err)
	}
	defer rows.Close()

	result := []domain.ExpectedChargeRow{}
	for rows.Next() {
		var row domain.ExpectedChargeRow
		if err := rows.Scan(
			&row.ApartmentID,
			&row.BuildingID,
			&row.ChargeMonth,
			&row.ExpectedAmount,
			&row.Apartment.ApartmentNumber,
			&row.BuildingName,
		); err != nil {
			return nil, fmt.Errorf("error scanning expected charge row: %w", err)
		}
		row.Apartment.ApartmentID = row.ApartmentID
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expected charge rows: %w", err)
	}
	return result, nil
}

const transactionRowsQuery = `
	SELECT t.transaction_id, t.building_id, t.apartment_id, t.resident_id,
	       t.charge_month, t.payment_date, t.amount_paid, t.method, t.reference,
	       a.apartment_number, b.building_name,
	       COALESCE(TRIM(res.first_name || ' ' || res.last_name), ''), COALESCE(res.email, ''),
	       EXISTS (
	           SELECT 1 FROM invoices i
	           JOIN invoice_log il ON il.invoice_id = i.invoice_id
	           WHERE i.transaction_id = t.transaction_id
	       )
	FROM transactions t
	JOIN buildings b ON b.building_id = t.building_id
	LEFT JOIN apartments a ON a.apartment_id = t.apartment_id
	LEFT JOIN residents res ON res.resident_id = t.resident_id
	WHERE t.charge_month BETWEEN $1 AND $2
	  AND ($3::bigint IS NULL OR t.building_id = $3)
`

func (r *PgxLedgerRepository) TransactionsInRange(ctx context.Context, dr domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error) {
	return r.queryTransactionRows(ctx, transactionRowsQuery+` ORDER BY t.charge_month, t.payment_date, t.transaction_id`, dr, buildingID)
}

func (r *PgxLedgerRepository) SentinelTransactionsInRange(ctx context.Context, dr domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error) {
	return r.queryTransactionRows(ctx, transactionRowsQuery+` AND `+sentinelPredicate+` ORDER BY t.charge_month, t.payment_date, t.transaction_id`, dr, buildingID)
}

func (r *PgxLedgerRepository) PaidTransactionsInRange(ctx context.Context, dr domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error) {
	return r.queryTransactionRows(ctx, transactionRowsQuery+` AND t.amount_paid > 0 ORDER BY t.payment_date DESC, t.transaction_id DESC`, dr, buildingID)
}

func (r *PgxLedgerRepository) queryTransactionRows(ctx context.Context, query string, dr domain.DateRange, buildingID *int64) ([]domain.TransactionRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.Pool.Query(ctx, query, dr.Start, dr.End, buildingID)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	result := []domain.TransactionRow{}
	for rows.Next() {
		var row domain.TransactionRow
		var method string
		if err := rows.Scan(
			&row.TransactionID,
			&row.BuildingID,
			&row.ApartmentID,
			&row.ResidentID,
			&row.ChargeMonth,
			&row.PaymentDate,
			&row.AmountPaid,
			&method,
			&row.Reference,
			&row.Apartment.ApartmentNumber,
			&row.BuildingName,
			&row.ResidentName,
			&row.ResidentMail,
			&row.InvoiceSent,
		); err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		row.Method = domain.PaymentMethod(method)
		row.Apartment.ApartmentID = row.ApartmentID
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return result, nil
}

func (r *PgxLedgerRepository) ExpensePaymentsInRange(ctx context.Context, dr domain.DateRange, buildingID *int64) ([]domain.ExpenseDetail, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT e.expense_id, e.building_id, b.building_name, s.supplier_name, e.supplier_receipt_id,
		       p.charge_month, e.start_date, e.end_date, e.total_cost, e.monthly_cost,
		       e.num_payments, p.cost, p.expense_type, e.status, e.notes
		FROM payments p
		JOIN expenses e ON e.expense_id = p.expense_id
		JOIN buildings b ON b.building_id = e.building_id
		JOIN suppliers s ON s.supplier_id = e.supplier_id
		WHERE p.charge_month BETWEEN $1 AND $2
		  AND ($3::bigint IS NULL OR e.building_id = $3)
		ORDER BY p.charge_month, e.expense_id
	`
	rows, err := r.Pool.Query(ctx, query, dr.Start, dr.End, buildingID)
	if err != nil {
		return nil, fmt.Errorf("error querying expense payments: %w", err)
	}
	defer rows.Close()

	result := []domain.ExpenseDetail{}
	for rows.Next() {
		var d domain.ExpenseDetail
		var status string
		if err := rows.Scan(
			&d.ExpenseID,
			&d.BuildingID,
			&d.BuildingName,
			&d.SupplierName,
			&d.SupplierReceiptID,
			&d.ChargeMonth,
			&d.StartDate,
			&d.EndDate,
			&d.TotalCost,
			&d.MonthlyCost,
			&d.NumPayments,
			&d.Cost,
			&d.ExpenseType,
			&status,
			&d.Notes,
		); err != nil {
			return nil, fmt.Errorf("error scanning expense payment row: %w", err)
		}
		d.Status = domain.ExpenseStatus(status)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense payment rows: %w", err)
	}
	return result, nil
}

func (r *PgxLedgerRepository) FindLatestReconciliation(ctx context.Context, buildingID int64) (*domain.Transaction, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE building_id = $1 AND method = $2
		ORDER BY payment_date DESC, transaction_id DESC
		LIMIT 1
	`
	t, err := scanTransaction(r.Pool.QueryRow(ctx, query, buildingID, string(domain.MethodManualReconciliation)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding latest reconciliation for building %d: %w", buildingID, err)
	}
	return t, nil
}

const transactionColumns = `transaction_id, building_id, apartment_id, resident_id, charge_month,
	payment_date, amount_paid, method, reference`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var method string
	if err := row.Scan(
		&t.TransactionID, &t.BuildingID, &t.ApartmentID, &t.ResidentID, &t.ChargeMonth,
		&t.PaymentDate, &t.AmountPaid, &method, &t.Reference,
	); err != nil {
		return nil, err
	}
	t.Method = domain.PaymentMethod(method)
	return &t, nil
}

func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	t, err := scanTransaction(r.Pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1`, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding transaction %d: %w", transactionID, err)
	}
	return t, nil
}

func (r *PgxLedgerRepository) HasExpectedCharges(ctx context.Context, buildingID int64, year int, months []int) (bool, error) {
	if len(months) == 0 {
		return false, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT EXISTS (
			SELECT 1 FROM expected_charges
			WHERE building_id = $1
			  AND EXTRACT(YEAR FROM charge_month)::int = $2
			  AND EXTRACT(MONTH FROM charge_month)::int = ANY($3)
		)
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, buildingID, year, months).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking expected charges of building %d: %w", buildingID, err)
	}
	return exists, nil
}

func (r *PgxLedgerRepository) FindSentinelAccount(ctx context.Context, buildingID int64) (domain.SentinelAccount, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT a.apartment_id, res.resident_id
		FROM apartments a
		LEFT JOIN LATERAL (
			SELECT resident_id FROM residents
			WHERE apartment_id = a.apartment_id
			ORDER BY is_active DESC, resident_id DESC
			LIMIT 1
		) res ON TRUE
		WHERE a.building_id = $1 AND a.apartment_number = $2
		LIMIT 1
	`
	account := domain.SentinelAccount{BuildingID: buildingID}
	err := r.Pool.QueryRow(ctx, query, buildingID, domain.SentinelApartmentNumber).Scan(&account.ApartmentID, &account.ResidentID)
	if errors.Is(err, pgx.ErrNoRows) {
		account.ApartmentID = domain.LegacySentinelApartmentID
		return account, nil
	}
	if err != nil {
		return account, fmt.Errorf("error resolving association apartment for building %d: %w", buildingID, err)
	}
	return account, nil
}

const insertTransactionQuery = `
	INSERT INTO transactions (building_id, apartment_id, resident_id, charge_month, payment_date, amount_paid, method, reference)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING transaction_id
`

func transactionArgs(t domain.Transaction) []any {
	return []any{t.BuildingID, t.ApartmentID, t.ResidentID, t.ChargeMonth, t.PaymentDate, t.AmountPaid, string(t.Method), t.Reference}
}

func (r *PgxLedgerRepository) InsertTransaction(ctx context.Context, txn domain.Transaction) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var id int64
	if err := r.Pool.QueryRow(ctx, insertTransactionQuery, transactionArgs(txn)...).Scan(&id); err != nil {
		return 0, classify(fmt.Errorf("failed to insert transaction: %w", err), "transaction")
	}
	return id, nil
}

func (r *PgxLedgerRepository) InsertTransactions(ctx context.Context, txns []domain.Transaction) ([]int64, error) {
	ids := make([]int64, 0, len(txns))
	err := r.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, t := range txns {
			batch.Queue(insertTransactionQuery, transactionArgs(t)...)
		}
		br := tx.SendBatch(ctx, batch)
		for range txns {
			var id int64
			if err := br.QueryRow().Scan(&id); err != nil {
				br.Close()
				return classify(fmt.Errorf("failed to insert transaction: %w", err), "transaction")
			}
			ids = append(ids, id)
		}
		return br.Close()
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PgxLedgerRepository) DeleteTransaction(ctx context.Context, transactionID int64) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1`, transactionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction %d: %w", transactionID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgxLedgerRepository) InsertExpectedChargesIfAbsent(ctx context.Context, charges []domain.ExpectedCharge) (int, error) {
	if len(charges) == 0 {
		return 0, nil
	}
	inserted := 0
	err := r.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, c := range charges {
			batch.Queue(`
				INSERT INTO expected_charges (apartment_id, building_id, charge_month, expected_amount)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (building_id, apartment_id, charge_month) DO NOTHING
			`, c.ApartmentID, c.BuildingID, c.ChargeMonth, c.ExpectedAmount)
		}
		br := tx.SendBatch(ctx, batch)
		for range charges {
			tag, err := br.Exec()
			if err != nil {
				br.Close()
				return classify(fmt.Errorf("failed to insert expected charge: %w", err), "expected charge")
			}
			inserted += int(tag.RowsAffected())
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
