package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
)

// ReportingRepository defines operations for retrieving aggregate report data
type ReportingRepository interface {
	// DepositTotalsByCustomer sums each customer's deposits in [from, to), largest first.
	DepositTotalsByCustomer(ctx context.Context, from, to time.Time) ([]domain.ClientDepositTotal, error)

	// LargeWithdrawalClients finds customers with an account whose withdrawals in [from, to)
	// exceed threshold and include one made outside the account's origin city.
	LargeWithdrawalClients(ctx context.Context, from, to time.Time, threshold decimal.Decimal) ([]domain.LargeWithdrawalClient, error)
}
