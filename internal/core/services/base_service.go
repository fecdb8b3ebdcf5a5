package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/middleware"
	"github.com/softblue/bank_backend/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock func() time.Time
}

// ServiceOption is a functional option shared by every service
type ServiceOption func(*BaseService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

func (s *BaseService) apply(opts []ServiceOption) {
	for _, opt := range opts {
		opt(s)
	}
}

// Now returns the current time in UTC at the microsecond precision Postgres stores.
func (s *BaseService) Now() time.Time {
	now := time.Now()
	if s.clock != nil {
		now = s.clock()
	}
	return now.UTC().Truncate(time.Microsecond)
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// refreshBalance writes a committed balance through to the cache. Failures only cost a cache miss.
func (s *BaseService) refreshBalance(ctx context.Context, cache portssvc.BalanceCache, accountID string, balance decimal.Decimal) {
	if cache == nil {
		return
	}
	if err := cache.SetBalance(ctx, accountID, balance); err != nil {
		s.LogError(ctx, err, "Failed to refresh cached balance", slog.String("account_id", accountID))
		// A stale entry is worse than none.
		if delErr := cache.DeleteBalance(ctx, accountID); delErr != nil {
			s.LogError(ctx, delErr, "Failed to evict cached balance", slog.String("account_id", accountID))
		}
	}
}

// publish hands committed events to the notifier, detached from request cancellation.
func (s *BaseService) publish(ctx context.Context, notifier portssvc.Notifier, events ...domain.Event) {
	if notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, event := range events {
		notifier.Publish(ctx, event)
		s.LogDebug(ctx, "Event handed to notifier", slog.String("topic", event.Topic), slog.String("key", event.Key))
	}
}

// accountLockKey is the keyed-lock name serializing all balance changes of an account.
func accountLockKey(accountID string) string {
	return "account:" + accountID
}

// outcome is the metrics label for a finished operation.
func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	return apperrors.Kind(err)
}
