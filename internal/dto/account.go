package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	CustomerID     string          `json:"customerId" binding:"required"`
	AccountType    string          `json:"accountType" binding:"required,accounttype"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	OriginCity     string          `json:"originCity" binding:"required"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	AccountNumber  string             `json:"accountNumber"`
	CustomerID     string             `json:"customerID"`
	AccountType    domain.AccountType `json:"accountType"`
	Balance        decimal.Decimal    `json:"balance"`
	OriginCity     string             `json:"originCity"`
	InterestRate   *decimal.Decimal   `json:"interestRate,omitempty"`
	OverdraftLimit *decimal.Decimal   `json:"overdraftLimit,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	resp := AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		CustomerID:    acc.CustomerID,
		AccountType:   acc.AccountType,
		Balance:       acc.Balance,
		OriginCity:    acc.OriginCity,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
	if acc.Details.Savings != nil {
		rate := acc.Details.Savings.InterestRate
		resp.InterestRate = &rate
	}
	if acc.Details.Checking != nil {
		limit := acc.Details.Checking.OverdraftLimit
		resp.OverdraftLimit = &limit
	}
	return resp
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountsResponse converts a slice of domain.Account to ListAccountsResponse DTO
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}
