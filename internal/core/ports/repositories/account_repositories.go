package repositories

import (
	"context"

	"github.com/softblue/bank_backend/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// AccountNumberExists reports whether the account number is already assigned.
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)

	// ListAccountsByCustomer retrieves every account owned by a customer.
	ListAccountsByCustomer(ctx context.Context, customerID string) ([]domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces.
// Writes go through LedgerTx so they can share a transaction with ledger entries.
type AccountRepositoryFacade interface {
	AccountReader
}
