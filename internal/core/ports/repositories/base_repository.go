package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
)

// LedgerTx is the set of writes that must commit or roll back together.
// Implementations serialize callers on the same account between LockAccount and the end of the unit of work.
type LedgerTx interface {
	// LockAccount loads an account and holds its row lock until the unit of work ends.
	LockAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// InsertAccount persists a new account. A taken account number fails with apperrors.ErrDuplicate.
	InsertAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountBalance overwrites the stored balance of a locked account.
	UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) error

	// DeleteAccount removes a locked account.
	DeleteAccount(ctx context.Context, accountID string) error

	// InsertTransaction appends a ledger entry.
	InsertTransaction(ctx context.Context, txn domain.Transaction) error

	// FindTransactionByIdempotencyKey returns the entry recorded for key on the account, or apperrors.ErrNotFound.
	FindTransactionByIdempotencyKey(ctx context.Context, accountID string, key string) (*domain.Transaction, error)

	// DeleteTransactionsByAccount removes every ledger entry of the account and returns how many were removed.
	DeleteTransactionsByAccount(ctx context.Context, accountID string) (int64, error)

	// AttachAccountToCustomer appends accountID to the customer's account list.
	AttachAccountToCustomer(ctx context.Context, customerID string, accountID string) error

	// DetachAccountFromCustomer removes accountID from the customer's account list.
	DetachAccountFromCustomer(ctx context.Context, customerID string, accountID string) error
}

// UnitOfWork runs fn inside a single atomic transaction.
// If fn returns an error nothing it wrote becomes visible and the error is returned unchanged.
// Failures to begin or commit are reported as apperrors.ErrStorage.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
