package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the stored direction of a ledger entry.
type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
)

// Transaction represents a row of the transactions table.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	AccountID       string          `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionType TransactionType `db:"transaction_type"`
	TransactionCity string          `db:"transaction_city"`
	BalanceAfter    decimal.Decimal `db:"balance_after"`
	IdempotencyKey  *string         `db:"idempotency_key"` // Nullable
	CreatedAt       time.Time       `db:"created_at"`
}
