// Package memory is an in-process implementation of the repository ports.
// Writes made inside a unit of work are staged and only become visible when it commits.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/core/ports/repositories"
	"github.com/softblue/bank_backend/internal/platform/locking"
)

// Operation names passed to a FaultHook.
const (
	OpBegin             = "begin"
	OpInsertAccount     = "insert_account"
	OpUpdateBalance     = "update_balance"
	OpDeleteAccount     = "delete_account"
	OpInsertTransaction = "insert_transaction"
	OpDeleteLedger      = "delete_ledger"
	OpAttachAccount     = "attach_account"
	OpDetachAccount     = "detach_account"
	OpSaveCustomer      = "save_customer"
	OpCommit            = "commit"
)

// FaultHook is consulted before every write. A non-nil return fails that write.
type FaultHook func(op string) error

// Store keeps customers, accounts and ledger entries in memory.
type Store struct {
	mu             sync.RWMutex
	accounts       map[string]domain.Account
	accountNumbers map[string]string
	ledger         map[string][]domain.Transaction
	customers      map[string]domain.Customer
	emails         map[string]string

	rowLocks *locking.Local

	hookMu sync.RWMutex
	hook   FaultHook
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:       make(map[string]domain.Account),
		accountNumbers: make(map[string]string),
		ledger:         make(map[string][]domain.Transaction),
		customers:      make(map[string]domain.Customer),
		emails:         make(map[string]string),
		rowLocks:       locking.NewLocal(),
	}
}

// SetFaultHook installs hook, or removes it when nil.
func (s *Store) SetFaultHook(hook FaultHook) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hook = hook
}

// Repositories exposes the store through the repository ports.
func (s *Store) Repositories() repositories.RepositoryProvider {
	return repositories.RepositoryProvider{
		UnitOfWork:      s,
		AccountRepo:     s,
		TransactionRepo: s,
		CustomerRepo:    s,
		ReportingRepo:   s,
	}
}

func (s *Store) fault(op string) error {
	s.hookMu.RLock()
	hook := s.hook
	s.hookMu.RUnlock()
	if hook == nil {
		return nil
	}
	if err := hook(op); err != nil {
		return apperrors.NewStorageError(op, err)
	}
	return nil
}

// WithinTx runs fn against a staging area and applies its writes only if fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewStorageError("begin transaction", err)
	}
	if err := s.fault(OpBegin); err != nil {
		return err
	}

	tx := newLedgerTx(s)
	defer tx.releaseLocks()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *Store) commit(tx *ledgerTx) error {
	if err := s.fault(OpCommit); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, acc := range tx.accounts {
		if acc == nil {
			continue
		}
		if owner, taken := s.accountNumbers[acc.AccountNumber]; taken && owner != id {
			return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, acc.AccountNumber)
		}
	}
	for _, op := range tx.customerOps {
		if _, ok := s.customers[op.customerID]; !ok {
			return fmt.Errorf("customer %s: %w", op.customerID, apperrors.ErrNotFound)
		}
	}

	for accountID := range tx.ledgerDeleted {
		delete(s.ledger, accountID)
	}
	for id, acc := range tx.accounts {
		if acc == nil {
			if existing, ok := s.accounts[id]; ok {
				delete(s.accountNumbers, existing.AccountNumber)
			}
			delete(s.accounts, id)
			continue
		}
		s.accounts[id] = *acc
		s.accountNumbers[acc.AccountNumber] = id
	}
	for _, txn := range tx.entries {
		s.ledger[txn.AccountID] = append(s.ledger[txn.AccountID], txn)
	}
	for _, op := range tx.customerOps {
		customer := s.customers[op.customerID]
		if op.attach {
			if !customer.HasAccount(op.accountID) {
				customer.AccountIDs = append(slices.Clone(customer.AccountIDs), op.accountID)
			}
		} else {
			customer.AccountIDs = slices.DeleteFunc(slices.Clone(customer.AccountIDs), func(id string) bool {
				return id == op.accountID
			})
		}
		s.customers[op.customerID] = customer
	}
	return nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
