package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/core/ports/repositories"
)

var _ repositories.TransactionRepositoryFacade = (*Store)(nil)

func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, after *repositories.TransactionCursor) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.accounts[accountID]; !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}

	entries := slices.Clone(s.ledger[accountID])
	slices.SortStableFunc(entries, func(a, b domain.Transaction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.TransactionID, a.TransactionID)
	})

	page := make([]domain.Transaction, 0, min(limit, len(entries)))
	for _, txn := range entries {
		if after != nil && !olderThan(txn, *after) {
			continue
		}
		page = append(page, txn)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func olderThan(txn domain.Transaction, cursor repositories.TransactionCursor) bool {
	if c := txn.CreatedAt.Compare(cursor.CreatedAt); c != 0 {
		return c < 0
	}
	return txn.TransactionID < cursor.TransactionID
}

func (s *Store) LoadStatementData(ctx context.Context, accountID string, from, to time.Time) (*repositories.StatementData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}

	opening := decimal.Zero
	entries := []domain.Transaction{}
	for _, txn := range s.ledger[accountID] {
		switch {
		case txn.CreatedAt.Before(from):
			opening = opening.Add(txn.SignedAmount())
		case txn.CreatedAt.Before(to):
			entries = append(entries, txn)
		}
	}
	slices.SortStableFunc(entries, func(a, b domain.Transaction) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return &repositories.StatementData{
		Account:        acc,
		OpeningBalance: opening,
		Entries:        entries,
	}, nil
}
