package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/apperrors"
)

// StatementPeriod is a calendar month in UTC. End is exclusive.
type StatementPeriod struct {
	Month int
	Year  int
	Start time.Time
	End   time.Time
}

// NewStatementPeriod validates month and year and returns the period covering that month.
func NewStatementPeriod(month, year int) (StatementPeriod, error) {
	if month < 1 || month > 12 {
		return StatementPeriod{}, fmt.Errorf("%w: month must be between 1 and 12, got %d", apperrors.ErrValidation, month)
	}
	if year < 1 || year > 9999 {
		return StatementPeriod{}, fmt.Errorf("%w: year must be between 1 and 9999, got %d", apperrors.ErrValidation, year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return StatementPeriod{
		Month: month,
		Year:  year,
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}, nil
}

// Contains reports whether t falls inside the period.
func (p StatementPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Statement summarises an account's ledger for one month.
type Statement struct {
	AccountID      string          `json:"accountID"`
	AccountNumber  string          `json:"accountNumber"`
	Period         StatementPeriod `json:"period"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Transactions   []Transaction   `json:"transactions"`
}

// NewStatement derives the closing balance from the opening balance and the period's entries,
// which must be sorted by creation time ascending.
func NewStatement(account Account, period StatementPeriod, opening decimal.Decimal, entries []Transaction) Statement {
	if entries == nil {
		entries = []Transaction{}
	}
	return Statement{
		AccountID:      account.AccountID,
		AccountNumber:  account.AccountNumber,
		Period:         period,
		OpeningBalance: opening,
		ClosingBalance: opening.Add(SumSigned(entries)),
		Transactions:   entries,
	}
}
