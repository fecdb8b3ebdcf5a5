package domain

import (
	"github.com/shopspring/decimal"
)

// ClientDepositTotal is one row of the monthly deposits ranking.
type ClientDepositTotal struct {
	CustomerID    string          `json:"customerID"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	AccountNumber string          `json:"accountNumber"`
	TotalDeposits decimal.Decimal `json:"totalDeposits"`
}

// LargeWithdrawalClient is a customer whose monthly withdrawals on an account crossed the
// reporting threshold, with at least one of them made away from the account's origin city.
type LargeWithdrawalClient struct {
	CustomerID       string          `json:"customerID"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
}
