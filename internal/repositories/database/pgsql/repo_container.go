package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/softblue/bank_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the PostgreSQL implementations of every repository port.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UnitOfWork:      newPgxUnitOfWork(dbPool),
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		CustomerRepo:    newPgxCustomerRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
	}
}
