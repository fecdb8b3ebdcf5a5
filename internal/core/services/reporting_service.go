package services

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
	portsrepo "github.com/softblue/bank_backend/internal/core/ports/repositories"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
)

// ReportingService produces monthly customer reports.
type ReportingService struct {
	BaseService
	reportingRepo       portsrepo.ReportingRepository
	withdrawalThreshold decimal.Decimal
}

// NewReportingService creates a new reporting service. Withdrawals above threshold are reported as large.
func NewReportingService(repo portsrepo.ReportingRepository, threshold decimal.Decimal, opts ...ServiceOption) *ReportingService {
	svc := &ReportingService{
		reportingRepo:       repo,
		withdrawalThreshold: threshold,
	}
	svc.apply(opts)
	return svc
}

// Ensure ReportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*ReportingService)(nil)

func (s *ReportingService) ClientsByDeposits(ctx context.Context, month, year int) ([]domain.ClientDepositTotal, error) {
	period, err := domain.NewStatementPeriod(month, year)
	if err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.DepositTotalsByCustomer(ctx, period.Start, period.End)
	if err != nil {
		s.LogError(ctx, err, "Failed to get deposit totals", slog.Int("month", month), slog.Int("year", year))
		return nil, err
	}
	s.LogDebug(ctx, "Deposit report generated", slog.Int("rows", len(rows)))
	return rows, nil
}

func (s *ReportingService) ClientsWithLargeWithdrawals(ctx context.Context, month, year int) ([]domain.LargeWithdrawalClient, error) {
	period, err := domain.NewStatementPeriod(month, year)
	if err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.LargeWithdrawalClients(ctx, period.Start, period.End, s.withdrawalThreshold)
	if err != nil {
		s.LogError(ctx, err, "Failed to get large withdrawal clients", slog.Int("month", month), slog.Int("year", year))
		return nil, err
	}
	s.LogDebug(ctx, "Large withdrawal report generated", slog.Int("rows", len(rows)))
	return rows, nil
}
