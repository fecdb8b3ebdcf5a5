package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/core/ports/repositories"
)

var _ repositories.AccountRepositoryFacade = (*Store)(nil)

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return &acc, nil
}

func (s *Store) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accountNumbers[accountNumber]
	return ok, nil
}

func (s *Store) ListAccountsByCustomer(ctx context.Context, customerID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := []domain.Account{}
	for _, acc := range s.accounts {
		if acc.CustomerID == customerID {
			accounts = append(accounts, acc)
		}
	}
	slices.SortFunc(accounts, compareAccounts)
	return accounts, nil
}

func compareAccounts(a, b domain.Account) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.AccountID, b.AccountID)
}
