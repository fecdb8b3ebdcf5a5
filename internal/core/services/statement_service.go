package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	portsrepo "github.com/softblue/bank_backend/internal/core/ports/repositories"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/utils/accounting"
)

// StatementService builds monthly statements from the ledger.
type StatementService struct {
	BaseService
	txnRepo portsrepo.TransactionReader
}

// NewStatementService creates a new statement builder.
func NewStatementService(repo portsrepo.TransactionReader, opts ...ServiceOption) *StatementService {
	svc := &StatementService{txnRepo: repo}
	svc.apply(opts)
	return svc
}

var _ portssvc.StatementSvc = (*StatementService)(nil)

// BuildStatement derives opening and closing balances from the ledger rather than the stored balance,
// so statements for past months stay correct after later activity.
func (s *StatementService) BuildStatement(ctx context.Context, accountID string, month, year int) (*domain.Statement, error) {
	period, err := domain.NewStatementPeriod(month, year)
	if err != nil {
		return nil, err
	}

	data, err := s.txnRepo.LoadStatementData(ctx, accountID, period.Start, period.End)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load statement data", slog.String("account_id", accountID))
		}
		return nil, err
	}

	statement := domain.NewStatement(data.Account, period, data.OpeningBalance, data.Entries)

	attrs := []any{slog.String("account_id", accountID), slog.Int("month", month), slog.Int("year", year)}
	if err := accounting.CheckRunningBalances(statement.OpeningBalance, statement.Transactions); err != nil {
		s.LogError(ctx, err, "Ledger running balance mismatch", attrs...)
	}
	if period.Contains(s.Now()) {
		if err := accounting.Reconcile(data.Account.Balance, statement.ClosingBalance); err != nil {
			s.LogError(ctx, err, "Stored balance drifted from ledger", attrs...)
		}
	}

	return &statement, nil
}
