package dto

import (
	"github.com/softblue/bank_backend/internal/core/domain"
)

// ClientsByDepositsResponse ranks customers by deposits made in the month.
type ClientsByDepositsResponse struct {
	Month   int                         `json:"month"`
	Year    int                         `json:"year"`
	Clients []domain.ClientDepositTotal `json:"clients"`
}

// LargeWithdrawalsResponse lists customers flagged for large out-of-town withdrawals.
type LargeWithdrawalsResponse struct {
	Month   int                            `json:"month"`
	Year    int                            `json:"year"`
	Clients []domain.LargeWithdrawalClient `json:"clients"`
}
