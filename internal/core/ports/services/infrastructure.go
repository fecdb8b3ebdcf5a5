package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
)

// KeyedLocker provides mutual exclusion per key. Different keys never contend.
type KeyedLocker interface {
	// Lock blocks until the key is held or ctx is done. The returned func releases it and is safe to call twice.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// BalanceCache is a read-through cache of committed balances.
type BalanceCache interface {
	// GetBalance returns the cached balance and whether it was present.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, bool, error)

	// SetBalance stores a balance that was just committed. Callers hold the account lock.
	SetBalance(ctx context.Context, accountID string, balance decimal.Decimal) error

	// PrimeBalance stores a balance read from the store only if no entry exists yet.
	PrimeBalance(ctx context.Context, accountID string, balance decimal.Decimal) error

	// DeleteBalance evicts the account's entry.
	DeleteBalance(ctx context.Context, accountID string) error
}

// Notifier hands committed events to downstream consumers.
// Publish never blocks on delivery and never reports delivery failures to the caller.
type Notifier interface {
	Publish(ctx context.Context, event domain.Event)
}
