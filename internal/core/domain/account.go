package domain

import (
	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/apperrors"
)

// AccountType is the product an account was opened as. It never changes after creation.
type AccountType string

const (
	Savings  AccountType = "savings"
	Checking AccountType = "checking"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	return t == Savings || t == Checking
}

// SavingsDetails are the attributes only savings accounts carry.
type SavingsDetails struct {
	InterestRate decimal.Decimal `json:"interestRate"`
}

// CheckingDetails are the attributes only checking accounts carry.
type CheckingDetails struct {
	OverdraftLimit decimal.Decimal `json:"overdraftLimit"`
}

// AccountDetails holds exactly one of Savings or Checking, matching the account type.
type AccountDetails struct {
	Savings  *SavingsDetails  `json:"savings,omitempty"`
	Checking *CheckingDetails `json:"checking,omitempty"`
}

// ProductDefaults are the terms applied to newly opened accounts.
type ProductDefaults struct {
	SavingsInterestRate    decimal.Decimal
	CheckingOverdraftLimit decimal.Decimal
}

// DetailsFor returns the variant attributes for a new account of type t.
func (p ProductDefaults) DetailsFor(t AccountType) AccountDetails {
	switch t {
	case Savings:
		return AccountDetails{Savings: &SavingsDetails{InterestRate: p.SavingsInterestRate}}
	case Checking:
		return AccountDetails{Checking: &CheckingDetails{OverdraftLimit: p.CheckingOverdraftLimit}}
	default:
		return AccountDetails{}
	}
}

// Account represents a customer's bank account.
// Balance is only ever changed by posting a Transaction.
type Account struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	CustomerID    string          `json:"customerID"`
	AccountType   AccountType     `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	OriginCity    string          `json:"originCity"`
	Details       AccountDetails  `json:"details"`
	AuditFields
}

// OverdraftLimit is how far below zero the balance may go. Zero for savings accounts.
func (a Account) OverdraftLimit() decimal.Decimal {
	if a.AccountType == Checking && a.Details.Checking != nil {
		return a.Details.Checking.OverdraftLimit
	}
	return decimal.Zero
}

// Available is the largest amount that can currently be withdrawn.
func (a Account) Available() decimal.Decimal {
	return a.Balance.Add(a.OverdraftLimit())
}

// BalanceAfter returns the balance that results from posting amount as txnType.
// A withdrawal above Available fails with an insufficient funds error.
// A deposit that would push the balance past MaxAmount fails as an invalid amount.
func (a Account) BalanceAfter(txnType TransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch txnType {
	case Deposit:
		balance := a.Balance.Add(amount)
		if balance.GreaterThan(MaxAmount) {
			return decimal.Zero, apperrors.NewInvalidAmountError(amount, "amount exceeds the maximum")
		}
		return balance, nil
	case Withdrawal:
		available := a.Available()
		if amount.GreaterThan(available) {
			return decimal.Zero, apperrors.NewInsufficientFundsError(amount, available)
		}
		return a.Balance.Sub(amount), nil
	default:
		return decimal.Zero, apperrors.ErrValidation
	}
}
