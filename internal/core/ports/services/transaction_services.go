package services

import (
	"context"

	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/dto"
)

// TransactionWriterSvc posts ledger entries.
type TransactionWriterSvc interface {
	// ApplyTransaction records a deposit or withdrawal and updates the balance atomically.
	ApplyTransaction(ctx context.Context, req dto.ApplyTransactionRequest) (*domain.Transaction, error)
}

// TransactionReaderSvc reads ledger entries.
type TransactionReaderSvc interface {
	// ListTransactions returns a page of an account's entries, newest first.
	ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionWriterSvc
	TransactionReaderSvc
}

// StatementSvc builds monthly statements.
type StatementSvc interface {
	// BuildStatement summarises an account's ledger for one calendar month.
	BuildStatement(ctx context.Context, accountID string, month, year int) (*domain.Statement, error)
}
