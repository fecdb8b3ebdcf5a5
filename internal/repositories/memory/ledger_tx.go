package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/core/ports/repositories"
)

type customerOp struct {
	customerID string
	accountID  string
	attach     bool
}

// ledgerTx stages writes for Store.commit. A nil entry in accounts marks a deletion.
type ledgerTx struct {
	store         *Store
	held          map[string]func()
	accounts      map[string]*domain.Account
	entries       []domain.Transaction
	ledgerDeleted map[string]bool
	customerOps   []customerOp
}

var _ repositories.LedgerTx = (*ledgerTx)(nil)

func newLedgerTx(s *Store) *ledgerTx {
	return &ledgerTx{
		store:         s,
		held:          make(map[string]func()),
		accounts:      make(map[string]*domain.Account),
		ledgerDeleted: make(map[string]bool),
	}
}

func (t *ledgerTx) releaseLocks() {
	for _, unlock := range t.held {
		unlock()
	}
	clear(t.held)
}

// account returns the account as this transaction currently sees it.
func (t *ledgerTx) account(accountID string) (domain.Account, bool) {
	if staged, ok := t.accounts[accountID]; ok {
		if staged == nil {
			return domain.Account{}, false
		}
		return *staged, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	acc, ok := t.store.accounts[accountID]
	return acc, ok
}

func (t *ledgerTx) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if _, ok := t.held[accountID]; !ok {
		unlock, err := t.store.rowLocks.Lock(ctx, accountID)
		if err != nil {
			return nil, apperrors.NewStorageError("lock account row", err)
		}
		t.held[accountID] = unlock
	}

	acc, ok := t.account(accountID)
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return &acc, nil
}

func (t *ledgerTx) InsertAccount(ctx context.Context, account domain.Account) error {
	if err := t.store.fault(OpInsertAccount); err != nil {
		return err
	}
	if _, ok := t.account(account.AccountID); ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	t.store.mu.RLock()
	_, taken := t.store.accountNumbers[account.AccountNumber]
	t.store.mu.RUnlock()
	if taken {
		return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, account.AccountNumber)
	}
	acc := account
	t.accounts[account.AccountID] = &acc
	return nil
}

func (t *ledgerTx) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) error {
	if err := t.store.fault(OpUpdateBalance); err != nil {
		return err
	}
	acc, ok := t.account(accountID)
	if !ok {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	acc.Balance = balance
	acc.LastUpdatedAt = now
	t.accounts[accountID] = &acc
	return nil
}

func (t *ledgerTx) DeleteAccount(ctx context.Context, accountID string) error {
	if err := t.store.fault(OpDeleteAccount); err != nil {
		return err
	}
	if _, ok := t.account(accountID); !ok {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	t.accounts[accountID] = nil
	return nil
}

func (t *ledgerTx) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	if err := t.store.fault(OpInsertTransaction); err != nil {
		return err
	}
	if txn.IdempotencyKey != "" {
		if _, err := t.FindTransactionByIdempotencyKey(ctx, txn.AccountID, txn.IdempotencyKey); err == nil {
			return fmt.Errorf("%w: idempotency key %s", apperrors.ErrDuplicate, txn.IdempotencyKey)
		}
	}
	t.entries = append(t.entries, txn)
	return nil
}

func (t *ledgerTx) FindTransactionByIdempotencyKey(ctx context.Context, accountID string, key string) (*domain.Transaction, error) {
	for _, txn := range t.entries {
		if txn.AccountID == accountID && txn.IdempotencyKey == key {
			found := txn
			return &found, nil
		}
	}
	if !t.ledgerDeleted[accountID] {
		t.store.mu.RLock()
		defer t.store.mu.RUnlock()
		for _, txn := range t.store.ledger[accountID] {
			if txn.IdempotencyKey == key {
				found := txn
				return &found, nil
			}
		}
	}
	return nil, fmt.Errorf("idempotency key %s: %w", key, apperrors.ErrNotFound)
}

func (t *ledgerTx) DeleteTransactionsByAccount(ctx context.Context, accountID string) (int64, error) {
	if err := t.store.fault(OpDeleteLedger); err != nil {
		return 0, err
	}
	var removed int64
	kept := t.entries[:0]
	for _, txn := range t.entries {
		if txn.AccountID == accountID {
			removed++
			continue
		}
		kept = append(kept, txn)
	}
	t.entries = kept

	if !t.ledgerDeleted[accountID] {
		t.store.mu.RLock()
		removed += int64(len(t.store.ledger[accountID]))
		t.store.mu.RUnlock()
		t.ledgerDeleted[accountID] = true
	}
	return removed, nil
}

func (t *ledgerTx) AttachAccountToCustomer(ctx context.Context, customerID string, accountID string) error {
	if err := t.store.fault(OpAttachAccount); err != nil {
		return err
	}
	if _, err := t.store.FindCustomerByID(ctx, customerID); err != nil {
		return err
	}
	t.customerOps = append(t.customerOps, customerOp{customerID: customerID, accountID: accountID, attach: true})
	return nil
}

func (t *ledgerTx) DetachAccountFromCustomer(ctx context.Context, customerID string, accountID string) error {
	if err := t.store.fault(OpDetachAccount); err != nil {
		return err
	}
	if _, err := t.store.FindCustomerByID(ctx, customerID); err != nil {
		return err
	}
	t.customerOps = append(t.customerOps, customerOp{customerID: customerID, accountID: accountID})
	return nil
}
