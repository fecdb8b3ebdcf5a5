package domain

import "time"

// Notification topics.
const (
	TopicAccountCreated     = "account.created"
	TopicAccountDeleted     = "account.deleted"
	TopicTransactionCreated = "transaction.created"
)

// Event is a fact published to downstream consumers after it has been committed.
type Event struct {
	Topic      string    `json:"topic"`
	Key        string    `json:"key"`
	CustomerID string    `json:"customerID,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// NewAccountCreatedEvent describes a freshly opened account.
func NewAccountCreatedEvent(account Account) Event {
	return Event{
		Topic:      TopicAccountCreated,
		Key:        account.AccountID,
		CustomerID: account.CustomerID,
		OccurredAt: account.CreatedAt,
		Payload:    account,
	}
}

// NewAccountDeletedEvent describes an account removed together with its ledger.
func NewAccountDeletedEvent(account Account, at time.Time) Event {
	return Event{
		Topic:      TopicAccountDeleted,
		Key:        account.AccountID,
		CustomerID: account.CustomerID,
		OccurredAt: at,
		Payload:    account,
	}
}

// NewTransactionCreatedEvent describes a committed ledger entry.
func NewTransactionCreatedEvent(txn Transaction, customerID string) Event {
	return Event{
		Topic:      TopicTransactionCreated,
		Key:        txn.AccountID,
		CustomerID: customerID,
		OccurredAt: txn.CreatedAt,
		Payload:    txn,
	}
}
