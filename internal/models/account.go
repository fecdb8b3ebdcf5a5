package models

import (
	"github.com/shopspring/decimal"
)

// AccountType is the stored product type of an account.
type AccountType string

const (
	Savings  AccountType = "savings"
	Checking AccountType = "checking"
)

// Account represents a row of the accounts table.
// InterestRate is only set for savings accounts, OverdraftLimit only for checking accounts.
type Account struct {
	AccountID      string           `db:"account_id"`
	AccountNumber  string           `db:"account_number"`
	CustomerID     string           `db:"customer_id"`
	AccountType    AccountType      `db:"account_type"`
	Balance        decimal.Decimal  `db:"balance"`
	OriginCity     string           `db:"origin_city"`
	InterestRate   *decimal.Decimal `db:"interest_rate"`   // Nullable
	OverdraftLimit *decimal.Decimal `db:"overdraft_limit"` // Nullable
	AuditFields
}
