package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/core/ports/repositories"
)

var _ repositories.ReportingRepository = (*Store)(nil)

// DepositTotalsByCustomer includes every customer with at least one entry in the period.
// The account number reported is that of the customer's oldest active account.
func (s *Store) DepositTotalsByCustomer(ctx context.Context, from, to time.Time) ([]domain.ClientDepositTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make(map[string]*domain.ClientDepositTotal)
	firstAccount := make(map[string]domain.Account)
	for _, acc := range s.accounts {
		customer, ok := s.customers[acc.CustomerID]
		if !ok {
			continue
		}
		active := false
		total := decimal.Zero
		for _, txn := range s.ledger[acc.AccountID] {
			if txn.CreatedAt.Before(from) || !txn.CreatedAt.Before(to) {
				continue
			}
			active = true
			if txn.TransactionType == domain.Deposit {
				total = total.Add(txn.Amount)
			}
		}
		if !active {
			continue
		}

		row, ok := rows[customer.CustomerID]
		if !ok {
			row = &domain.ClientDepositTotal{
				CustomerID:    customer.CustomerID,
				Name:          customer.Name,
				Email:         customer.Email,
				TotalDeposits: decimal.Zero,
			}
			rows[customer.CustomerID] = row
		}
		row.TotalDeposits = row.TotalDeposits.Add(total)
		if first, seen := firstAccount[customer.CustomerID]; !seen || compareAccounts(acc, first) < 0 {
			firstAccount[customer.CustomerID] = acc
			row.AccountNumber = acc.AccountNumber
		}
	}

	result := make([]domain.ClientDepositTotal, 0, len(rows))
	for _, row := range rows {
		result = append(result, *row)
	}
	slices.SortFunc(result, func(a, b domain.ClientDepositTotal) int {
		if c := b.TotalDeposits.Cmp(a.TotalDeposits); c != 0 {
			return c
		}
		return cmp.Compare(a.CustomerID, b.CustomerID)
	})
	return result, nil
}

func (s *Store) LargeWithdrawalClients(ctx context.Context, from, to time.Time, threshold decimal.Decimal) ([]domain.LargeWithdrawalClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make(map[string]*domain.LargeWithdrawalClient)
	for _, acc := range s.accounts {
		customer, ok := s.customers[acc.CustomerID]
		if !ok {
			continue
		}
		total := decimal.Zero
		awayFromOrigin := false
		for _, txn := range s.ledger[acc.AccountID] {
			if txn.TransactionType != domain.Withdrawal || txn.CreatedAt.Before(from) || !txn.CreatedAt.Before(to) {
				continue
			}
			total = total.Add(txn.Amount)
			if txn.TransactionCity != acc.OriginCity {
				awayFromOrigin = true
			}
		}
		if !awayFromOrigin || !total.GreaterThan(threshold) {
			continue
		}

		row, ok := rows[customer.CustomerID]
		if !ok {
			row = &domain.LargeWithdrawalClient{
				CustomerID:       customer.CustomerID,
				Name:             customer.Name,
				Email:            customer.Email,
				TotalWithdrawals: decimal.Zero,
			}
			rows[customer.CustomerID] = row
		}
		row.TotalWithdrawals = row.TotalWithdrawals.Add(total)
	}

	result := make([]domain.LargeWithdrawalClient, 0, len(rows))
	for _, row := range rows {
		result = append(result, *row)
	}
	slices.SortFunc(result, func(a, b domain.LargeWithdrawalClient) int {
		if c := b.TotalWithdrawals.Cmp(a.TotalWithdrawals); c != 0 {
			return c
		}
		return cmp.Compare(a.CustomerID, b.CustomerID)
	})
	return result, nil
}
