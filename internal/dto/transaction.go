package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
)

// ApplyTransactionRequest defines the data needed to post a deposit or withdrawal.
type ApplyTransactionRequest struct {
	AccountID       string          `json:"accountId" binding:"required"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type" binding:"required,txntype"`
	TransactionCity string          `json:"transactionCity" binding:"required"`
	IdempotencyKey  string          `json:"-"` // from the Idempotency-Key header
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	AccountID       string                 `json:"accountID"`
	Amount          decimal.Decimal        `json:"amount"`
	Type            domain.TransactionType `json:"type"`
	TransactionCity string                 `json:"transactionCity"`
	BalanceAfter    decimal.Decimal        `json:"balanceAfter"`
	IdempotencyKey  string                 `json:"idempotencyKey,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		AccountID:       t.AccountID,
		Amount:          t.Amount,
		Type:            t.TransactionType,
		TransactionCity: t.TransactionCity,
		BalanceAfter:    t.BalanceAfter,
		IdempotencyKey:  t.IdempotencyKey,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to DTOs
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing an account's transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=10" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions, newest first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
