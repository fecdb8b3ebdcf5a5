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

var _ repositories.CustomerRepositoryFacade = (*Store)(nil)

func (s *Store) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	if err := s.fault(OpSaveCustomer); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email := normaliseEmail(customer.Email)
	if _, taken := s.emails[email]; taken {
		return fmt.Errorf("%w: email %s", apperrors.ErrDuplicate, customer.Email)
	}
	if _, taken := s.customers[customer.CustomerID]; taken {
		return fmt.Errorf("%w: customer %s", apperrors.ErrDuplicate, customer.CustomerID)
	}
	customer.AccountIDs = slices.Clone(customer.AccountIDs)
	s.customers[customer.CustomerID] = customer
	s.emails[email] = customer.CustomerID
	return nil
}

func (s *Store) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	customer, ok := s.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", customerID, apperrors.ErrNotFound)
	}
	customer.AccountIDs = slices.Clone(customer.AccountIDs)
	return &customer, nil
}

func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	s.mu.RLock()
	id, ok := s.emails[normaliseEmail(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("customer with email %s: %w", email, apperrors.ErrNotFound)
	}
	return s.FindCustomerByID(ctx, id)
}

func (s *Store) ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	customers := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		c.AccountIDs = slices.Clone(c.AccountIDs)
		customers = append(customers, c)
	}
	slices.SortFunc(customers, func(a, b domain.Customer) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.CustomerID, b.CustomerID)
	})

	if offset >= len(customers) {
		return []domain.Customer{}, nil
	}
	end := min(offset+limit, len(customers))
	return customers[offset:end], nil
}
