package utils

import (
	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
)

// FormatMoney formats an amount with the ledger's fixed precision.
// Example: 12.3 returns "12.30", 1e6 returns "1000000.00"
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(domain.AmountScale)
}
