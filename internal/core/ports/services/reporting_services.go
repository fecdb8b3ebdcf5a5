package services

import (
	"context"

	"github.com/softblue/bank_backend/internal/core/domain"
)

// ReportingService defines operations for generating aggregate reports
type ReportingService interface {
	// ClientsByDeposits ranks customers by the deposits they made in the month.
	ClientsByDeposits(ctx context.Context, month, year int) ([]domain.ClientDepositTotal, error)

	// ClientsWithLargeWithdrawals lists customers with large withdrawals made outside their account's origin city.
	ClientsWithLargeWithdrawals(ctx context.Context, month, year int) ([]domain.LargeWithdrawalClient, error)
}
