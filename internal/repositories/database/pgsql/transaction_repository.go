package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	portsrepo "github.com/softblue/bank_backend/internal/core/ports/repositories"
	"github.com/softblue/bank_backend/internal/models"
	"github.com/softblue/bank_backend/internal/utils/mapping"
)

const transactionColumns = `transaction_id, account_id, amount, transaction_type, transaction_city,
	balance_after, idempotency_key, created_at`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger reads.
func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.Amount,
		&m.TransactionType,
		&m.TransactionCity,
		&m.BalanceAfter,
		&m.IdempotencyKey,
		&m.CreatedAt,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	return mapping.ToDomainTransaction(m), nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, storageError("scan transaction", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate transactions", err)
	}
	return txns, nil
}

// ListTransactionsByAccount uses keyset pagination on (created_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, after *portsrepo.TransactionCursor) ([]domain.Transaction, error) {
	var exists bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1)`, accountID).Scan(&exists); err != nil {
		return nil, storageError("check account", err)
	}
	if !exists {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1`
	args := []any{accountID}
	if after != nil {
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, after.CreatedAt, after.TransactionID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("list transactions", err)
	}
	return collectTransactions(rows)
}

// LoadStatementData reads everything from one REPEATABLE READ snapshot so the opening balance,
// the entries and the account agree with each other.
func (r *PgxTransactionRepository) LoadStatementData(ctx context.Context, accountID string, from, to time.Time) (*portsrepo.StatementData, error) {
	tx, err := r.Begin(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	acc, err := findAccount(ctx, tx, accountID, false)
	if err != nil {
		return nil, err
	}

	var opening decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN transaction_type = 'withdrawal' THEN -amount ELSE amount END), 0)
		FROM transactions
		WHERE account_id = $1 AND created_at < $2`, accountID, from).Scan(&opening)
	if err != nil {
		return nil, storageError("sum opening balance", err)
	}

	rows, err := tx.Query(ctx, `SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at, transaction_id`, accountID, from, to)
	if err != nil {
		return nil, storageError("list statement entries", err)
	}
	entries, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	return &portsrepo.StatementData{
		Account:        *acc,
		OpeningBalance: opening,
		Entries:        entries,
	}, nil
}
