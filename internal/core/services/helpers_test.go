package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
)

// testClock is a settable clock safe for concurrent use.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeBalanceCache is an in-memory BalanceCache.
type fakeBalanceCache struct {
	mu          sync.Mutex
	balances    map[string]decimal.Decimal
	getErr      error
	beforePrime func(accountID string)
}

func newFakeBalanceCache() *fakeBalanceCache {
	return &fakeBalanceCache{balances: make(map[string]decimal.Decimal)}
}

func (c *fakeBalanceCache) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return decimal.Zero, false, c.getErr
	}
	b, ok := c.balances[accountID]
	return b, ok, nil
}

func (c *fakeBalanceCache) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[accountID] = balance
	return nil
}

func (c *fakeBalanceCache) PrimeBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	if c.beforePrime != nil {
		c.beforePrime(accountID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.balances[accountID]; !ok {
		c.balances[accountID] = balance
	}
	return nil
}

func (c *fakeBalanceCache) DeleteBalance(ctx context.Context, accountID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.balances, accountID)
	return nil
}

func (c *fakeBalanceCache) get(accountID string) (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.balances[accountID]
	return b, ok
}

// recordingNotifier keeps every published event.
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func (n *recordingNotifier) Publish(ctx context.Context, event domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) topics() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	topics := make([]string, len(n.events))
	for i, e := range n.events {
		topics[i] = e.Topic
	}
	return topics
}

func (n *recordingNotifier) count(topic string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, e := range n.events {
		if e.Topic == topic {
			count++
		}
	}
	return count
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
