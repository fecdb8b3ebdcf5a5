package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
)

// TransactionCursor marks the last entry of a page when listing newest first.
type TransactionCursor struct {
	CreatedAt     time.Time
	TransactionID string
}

// StatementData is a consistent snapshot of the ledger figures a statement needs.
type StatementData struct {
	Account        domain.Account
	OpeningBalance decimal.Decimal
	Entries        []domain.Transaction
}

// TransactionReader defines read operations for ledger entries
type TransactionReader interface {
	// ListTransactionsByAccount returns up to limit entries, newest first, strictly older than the cursor when one is given.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, after *TransactionCursor) ([]domain.Transaction, error)

	// LoadStatementData reads the account, the signed sum of its entries before from,
	// and its entries in [from, to) ascending, all from the same snapshot.
	LoadStatementData(ctx context.Context, accountID string, from, to time.Time) (*StatementData, error)
}

// TransactionRepositoryFacade combines all ledger-related read interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
}
