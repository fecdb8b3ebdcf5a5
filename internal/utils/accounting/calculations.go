package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
)

// CheckRunningBalances verifies that each entry's BalanceAfter equals opening plus
// the signed amounts of every entry up to and including it. Entries must be in posting order.
func CheckRunningBalances(opening decimal.Decimal, entries []domain.Transaction) error {
	running := opening
	for _, txn := range entries {
		running = running.Add(txn.SignedAmount())
		if !txn.BalanceAfter.Equal(running) {
			return fmt.Errorf("transaction %s records balance %s but ledger sums to %s",
				txn.TransactionID, txn.BalanceAfter.String(), running.String())
		}
	}
	return nil
}

// Reconcile compares a stored balance against the balance derived from the ledger.
func Reconcile(stored, derived decimal.Decimal) error {
	if !stored.Equal(derived) {
		return fmt.Errorf("stored balance %s differs from ledger balance %s by %s",
			stored.String(), derived.String(), stored.Sub(derived).String())
	}
	return nil
}
