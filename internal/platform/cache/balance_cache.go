package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const balanceNamespace = "balance:account"

// BalanceCache keeps committed account balances in Redis.
type BalanceCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewBalanceCache creates a balance cache whose entries expire after ttl.
func NewBalanceCache(client redis.UniversalClient, ttl time.Duration) *BalanceCache {
	return &BalanceCache{client: client, ttl: ttl}
}

// NewRedisClient connects to a single Redis node, or a cluster when more than one address is given.
func NewRedisClient(addrs []string, password string) redis.UniversalClient {
	if len(addrs) > 1 {
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    addrs,
			Password: password,
		})
	}
	return redis.NewClient(&redis.Options{
		Addr:     addrs[0],
		Password: password,
		DB:       0,
	})
}

func balanceKey(accountID string) string {
	return balanceNamespace + ":" + accountID
}

// GetBalance returns the cached balance and whether it was present.
func (c *BalanceCache) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, bool, error) {
	raw, err := c.client.Get(ctx, balanceKey(accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("get cached balance for %s: %w", accountID, err)
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt cached balance for %s: %w", accountID, err)
	}
	return balance, true, nil
}

// SetBalance overwrites the entry with a freshly committed balance.
func (c *BalanceCache) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	return c.client.Set(ctx, balanceKey(accountID), balance.String(), c.ttl).Err()
}

// PrimeBalance fills a missing entry. An entry written by a concurrent SetBalance is left alone.
func (c *BalanceCache) PrimeBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	return c.client.SetNX(ctx, balanceKey(accountID), balance.String(), c.ttl).Err()
}

// DeleteBalance evicts the account's entry.
func (c *BalanceCache) DeleteBalance(ctx context.Context, accountID string) error {
	return c.client.Del(ctx, balanceKey(accountID)).Err()
}
