package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/apperrors"
)

// TransactionType indicates whether a ledger entry adds to or draws from the balance.
type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == Deposit || t == Withdrawal
}

// AmountScale is the number of decimal places money is recorded with.
const AmountScale int32 = 2

// MaxAmount is the largest amount or balance the ledger can record (NUMERIC(20,2)).
var MaxAmount = decimal.RequireFromString("999999999999999999.99")

// Transaction is an immutable ledger entry recording one deposit or withdrawal.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"` // always positive
	TransactionType TransactionType `json:"transactionType"`
	TransactionCity string          `json:"transactionCity"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	IdempotencyKey  string          `json:"idempotencyKey,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// SignedAmount is the entry's effect on the balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.TransactionType == Withdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// SamePayload reports whether other describes the same request as t,
// ignoring server assigned fields.
func (t Transaction) SamePayload(other Transaction) bool {
	return t.AccountID == other.AccountID &&
		t.TransactionType == other.TransactionType &&
		t.Amount.Equal(other.Amount) &&
		t.TransactionCity == other.TransactionCity
}

// ValidateAmount checks that amount is strictly positive, at most MaxAmount
// and has at most two decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewInvalidAmountError(amount, "amount must be greater than zero")
	}
	if amount.GreaterThan(MaxAmount) {
		return apperrors.NewInvalidAmountError(amount, "amount exceeds the maximum")
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return apperrors.NewInvalidAmountError(amount, "amount must have at most two decimal places")
	}
	return nil
}

// SumSigned adds up the signed amounts of txns.
func SumSigned(txns []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.SignedAmount())
	}
	return total
}
