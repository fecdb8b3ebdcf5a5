package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
)

// PeriodParams selects a calendar month.
type PeriodParams struct {
	Month int `form:"month" binding:"required"`
	Year  int `form:"year" binding:"required"`
}

// StatementResponse defines the data returned for a monthly statement.
type StatementResponse struct {
	AccountID      string                `json:"accountID"`
	AccountNumber  string                `json:"accountNumber"`
	Month          int                   `json:"month"`
	Year           int                   `json:"year"`
	PeriodStart    time.Time             `json:"periodStart"`
	PeriodEnd      time.Time             `json:"periodEnd"`
	OpeningBalance decimal.Decimal       `json:"openingBalance"`
	ClosingBalance decimal.Decimal       `json:"closingBalance"`
	Transactions   []TransactionResponse `json:"transactions"`
}

// ToStatementResponse converts a domain.Statement to StatementResponse DTO
func ToStatementResponse(s *domain.Statement) StatementResponse {
	return StatementResponse{
		AccountID:      s.AccountID,
		AccountNumber:  s.AccountNumber,
		Month:          s.Period.Month,
		Year:           s.Period.Year,
		PeriodStart:    s.Period.Start,
		PeriodEnd:      s.Period.End,
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		Transactions:   ToTransactionResponses(s.Transactions),
	}
}
