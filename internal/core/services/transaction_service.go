package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/core/domain"
	portsrepo "github.com/softblue/bank_backend/internal/core/ports/repositories"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/dto"
	"github.com/softblue/bank_backend/internal/platform/metrics"
	"github.com/softblue/bank_backend/internal/utils/pagination"
)

const (
	defaultTransactionPageSize = 10
	maxTransactionPageSize     = 100
)

// TransactionService is the only writer of account balances.
type TransactionService struct {
	BaseService
	uow         portsrepo.UnitOfWork
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionReader
	locker      portssvc.KeyedLocker
	cache       portssvc.BalanceCache
	notifier    portssvc.Notifier
}

// NewTransactionService creates a new transaction engine.
func NewTransactionService(
	repos portsrepo.RepositoryProvider,
	locker portssvc.KeyedLocker,
	cache portssvc.BalanceCache,
	notifier portssvc.Notifier,
	opts ...ServiceOption,
) *TransactionService {
	svc := &TransactionService{
		uow:         repos.UnitOfWork,
		accountRepo: repos.AccountRepo,
		txnRepo:     repos.TransactionRepo,
		locker:      locker,
		cache:       cache,
		notifier:    notifier,
	}
	svc.apply(opts)
	return svc
}

var _ portssvc.TransactionSvcFacade = (*TransactionService)(nil)

// entryRequest is a validated request to post one ledger entry.
type entryRequest struct {
	txnType        domain.TransactionType
	amount         decimal.Decimal
	city           string
	idempotencyKey string
}

func (s *TransactionService) ApplyTransaction(ctx context.Context, req dto.ApplyTransactionRequest) (*domain.Transaction, error) {
	start := time.Now()
	txnType := domain.TransactionType(strings.ToLower(strings.TrimSpace(req.Type)))
	if !txnType.IsValid() {
		err := fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
		metrics.TransactionsTotal.WithLabelValues("unknown", outcome(err)).Inc()
		return nil, err
	}
	defer func() {
		metrics.TransactionDuration.WithLabelValues(string(txnType)).Observe(time.Since(start).Seconds())
	}()

	entry := entryRequest{
		txnType:        txnType,
		amount:         req.Amount,
		city:           strings.TrimSpace(req.TransactionCity),
		idempotencyKey: strings.TrimSpace(req.IdempotencyKey),
	}
	if entry.city == "" {
		err := fmt.Errorf("%w: transaction city is required", apperrors.ErrValidation)
		metrics.TransactionsTotal.WithLabelValues(string(txnType), outcome(err)).Inc()
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, accountLockKey(req.AccountID))
	if err != nil {
		s.LogError(ctx, err, "Failed to acquire account lock", slog.String("account_id", req.AccountID))
		metrics.TransactionsTotal.WithLabelValues(string(txnType), outcome(err)).Inc()
		return nil, err
	}
	defer unlock()

	var (
		posted     domain.Transaction
		replayed   bool
		customerID string
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		account, err := tx.LockAccount(ctx, req.AccountID)
		if err != nil {
			return err
		}
		customerID = account.CustomerID
		posted, replayed, err = s.post(ctx, tx, account, entry)
		return err
	})
	if err != nil {
		s.logRejection(ctx, err, req.AccountID, txnType)
		metrics.TransactionsTotal.WithLabelValues(string(txnType), outcome(err)).Inc()
		return nil, err
	}

	if replayed {
		unlock()
		s.LogInfo(ctx, "Idempotent transaction replayed",
			slog.String("account_id", req.AccountID),
			slog.String("transaction_id", posted.TransactionID))
		metrics.TransactionsTotal.WithLabelValues(string(txnType), metrics.OutcomeReplay).Inc()
		return &posted, nil
	}

	s.refreshBalance(ctx, s.cache, posted.AccountID, posted.BalanceAfter)
	unlock()

	s.publish(ctx, s.notifier, domain.NewTransactionCreatedEvent(posted, customerID))
	s.LogInfo(ctx, "Transaction applied",
		slog.String("account_id", posted.AccountID),
		slog.String("transaction_id", posted.TransactionID),
		slog.String("type", string(posted.TransactionType)),
		slog.String("amount", posted.Amount.String()))
	metrics.TransactionsTotal.WithLabelValues(string(txnType), metrics.OutcomeOK).Inc()
	return &posted, nil
}

// post applies one entry to a locked account inside tx and updates account in place.
// It reports replayed when an entry with the same idempotency key already exists.
func (s *TransactionService) post(ctx context.Context, tx portsrepo.LedgerTx, account *domain.Account, req entryRequest) (domain.Transaction, bool, error) {
	if err := domain.ValidateAmount(req.amount); err != nil {
		return domain.Transaction{}, false, err
	}

	candidate := domain.Transaction{
		AccountID:       account.AccountID,
		Amount:          req.amount,
		TransactionType: req.txnType,
		TransactionCity: req.city,
		IdempotencyKey:  req.idempotencyKey,
	}

	if req.idempotencyKey != "" {
		existing, err := tx.FindTransactionByIdempotencyKey(ctx, account.AccountID, req.idempotencyKey)
		switch {
		case err == nil:
			if !existing.SamePayload(candidate) {
				return domain.Transaction{}, false, fmt.Errorf("%w: idempotency key %q was used for a different request",
					apperrors.ErrConflict, req.idempotencyKey)
			}
			return *existing, true, nil
		case !errors.Is(err, apperrors.ErrNotFound):
			return domain.Transaction{}, false, err
		}
	}

	newBalance, err := account.BalanceAfter(req.txnType, req.amount)
	if err != nil {
		return domain.Transaction{}, false, err
	}

	now := s.Now()
	candidate.TransactionID = uuid.NewString()
	candidate.BalanceAfter = newBalance
	candidate.CreatedAt = now

	if err := tx.InsertTransaction(ctx, candidate); err != nil {
		return domain.Transaction{}, false, err
	}
	if err := tx.UpdateAccountBalance(ctx, account.AccountID, newBalance, now); err != nil {
		return domain.Transaction{}, false, err
	}

	account.Balance = newBalance
	account.LastUpdatedAt = now
	return candidate, false, nil
}

func (s *TransactionService) logRejection(ctx context.Context, err error, accountID string, txnType domain.TransactionType) {
	attrs := []any{slog.String("account_id", accountID), slog.String("type", string(txnType)), slog.String("kind", apperrors.Kind(err))}
	switch {
	case errors.Is(err, apperrors.ErrStorage):
		s.LogError(ctx, err, "Transaction failed", attrs...)
	default:
		s.GetLogger(ctx).Warn("Transaction rejected", append(attrs, slog.String("reason", err.Error()))...)
	}
}

func (s *TransactionService) ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}
	if limit > maxTransactionPageSize {
		limit = maxTransactionPageSize
	}

	var cursor *portsrepo.TransactionCursor
	if params.NextToken != nil && *params.NextToken != "" {
		createdAt, id, err := pagination.DecodeCursorToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &portsrepo.TransactionCursor{CreatedAt: createdAt, TransactionID: id}
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID, limit+1, cursor)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		return nil, err
	}

	resp := &dto.ListTransactionsResponse{}
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeCursorToken(last.CreatedAt, last.TransactionID)
		resp.NextToken = &token
	}
	resp.Transactions = dto.ToTransactionResponses(txns)
	return resp, nil
}
