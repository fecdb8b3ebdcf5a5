package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetBalance returns the current balance of an account.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// ListAccountsByCustomer retrieves every account a customer owns.
	ListAccountsByCustomer(ctx context.Context, customerID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens an account for a customer, posting the initial balance as an opening deposit.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// DeleteAccount removes an account together with its ledger.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
