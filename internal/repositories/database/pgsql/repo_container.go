package pgsql

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/vaadbayit/vaad_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the Postgres repositories. A non-positive
// queryTimeout falls back to DefaultQueryTimeout.
func NewRepositoryProvider(dbPool *pgxpool.Pool, queryTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:   newPgxLedgerRepository(dbPool, queryTimeout),
		BuildingRepo: newPgxBuildingRepository(dbPool, queryTimeout),
		ExpenseRepo:  newPgxExpenseRepository(dbPool, queryTimeout),
		InvoiceRepo:  newPgxInvoiceRepository(dbPool, queryTimeout),
	}
}
