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
	"github.com/softblue/bank_backend/internal/utils/mapping"
)

// PgxUnitOfWork runs ledger writes in a single READ COMMITTED transaction.
// Row locks taken with SELECT ... FOR UPDATE serialize writers on the same account.
type PgxUnitOfWork struct {
	BaseRepository
}

func newPgxUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

func (u *PgxUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := u.Begin(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	// Ignored once the transaction is committed.
	defer u.Rollback(ctx, tx)

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}
	return u.Commit(ctx, tx)
}

type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

func (t *pgxLedgerTx) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return findAccount(ctx, t.tx, accountID, true)
}

func (t *pgxLedgerTx) InsertAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (account_id, account_number, customer_id, account_type, balance, origin_city,
			interest_rate, overdraft_limit, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := t.tx.Exec(ctx, query,
		m.AccountID,
		m.AccountNumber,
		m.CustomerID,
		m.AccountType,
		m.Balance,
		m.OriginCity,
		m.InterestRate,
		m.OverdraftLimit,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return storageError("insert account "+m.AccountID, err)
	}
	return nil
}

func (t *pgxLedgerTx) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE accounts SET balance = $2, last_updated_at = $3 WHERE account_id = $1`,
		accountID, balance, now)
	if err != nil {
		return storageError("update balance of account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return nil
}

func (t *pgxLedgerTx) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return storageError("delete account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return nil
}

func (t *pgxLedgerTx) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (transaction_id, account_id, amount, transaction_type, transaction_city,
			balance_after, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := t.tx.Exec(ctx, query,
		m.TransactionID,
		m.AccountID,
		m.Amount,
		m.TransactionType,
		m.TransactionCity,
		m.BalanceAfter,
		m.IdempotencyKey,
		m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, m.TransactionID)
		}
		return storageError("insert transaction "+m.TransactionID, err)
	}
	return nil
}

func (t *pgxLedgerTx) FindTransactionByIdempotencyKey(ctx context.Context, accountID string, key string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND idempotency_key = $2`

	txn, err := scanTransaction(t.tx.QueryRow(ctx, query, accountID, key))
	if err != nil {
		return nil, storageError("idempotency key "+key, err)
	}
	return &txn, nil
}

func (t *pgxLedgerTx) DeleteTransactionsByAccount(ctx context.Context, accountID string) (int64, error) {
	tag, err := t.tx.Exec(ctx, `DELETE FROM transactions WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, storageError("delete ledger of account "+accountID, err)
	}
	return tag.RowsAffected(), nil
}

func (t *pgxLedgerTx) AttachAccountToCustomer(ctx context.Context, customerID string, accountID string) error {
	return t.updateAccountList(ctx, customerID,
		`UPDATE customers SET account_ids = array_append(account_ids, $2), last_updated_at = NOW()
		WHERE customer_id = $1`, accountID)
}

func (t *pgxLedgerTx) DetachAccountFromCustomer(ctx context.Context, customerID string, accountID string) error {
	return t.updateAccountList(ctx, customerID,
		`UPDATE customers SET account_ids = array_remove(account_ids, $2), last_updated_at = NOW()
		WHERE customer_id = $1`, accountID)
}

func (t *pgxLedgerTx) updateAccountList(ctx context.Context, customerID, query, accountID string) error {
	tag, err := t.tx.Exec(ctx, query, customerID, accountID)
	if err != nil {
		return storageError("update accounts of customer "+customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", customerID, apperrors.ErrNotFound)
	}
	return nil
}
