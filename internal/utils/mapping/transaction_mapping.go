package mapping

import (
	"github.com/softblue/bank_backend/internal/core/domain"
	"github.com/softblue/bank_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:   d.TransactionID,
		AccountID:       d.AccountID,
		Amount:          d.Amount,
		TransactionType: models.TransactionType(d.TransactionType),
		TransactionCity: d.TransactionCity,
		BalanceAfter:    d.BalanceAfter,
		CreatedAt:       d.CreatedAt,
	}
	if d.IdempotencyKey != "" {
		key := d.IdempotencyKey
		m.IdempotencyKey = &key
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:   m.TransactionID,
		AccountID:       m.AccountID,
		Amount:          m.Amount,
		TransactionType: domain.TransactionType(m.TransactionType),
		TransactionCity: m.TransactionCity,
		BalanceAfter:    m.BalanceAfter,
		CreatedAt:       m.CreatedAt,
	}
	if m.IdempotencyKey != nil {
		d.IdempotencyKey = *m.IdempotencyKey
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
