package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MemoryDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.StorageDriver)
	assert.Equal(t, config.LockLocal, cfg.LockDriver)
	assert.Equal(t, 8*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.CheckingOverdraftLimit.Equal(decimal.NewFromInt(100)))
	assert.True(t, cfg.SavingsInterestRate.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, cfg.LargeWithdrawalThreshold.Equal(decimal.NewFromInt(1000000)))
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("PGSQL_URL", "")

	_, err := config.LoadConfig()
	assert.ErrorContains(t, err, "PGSQL_URL")
}

func TestLoadConfig_RedisLockRequiresAddr(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOCK_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "")

	_, err := config.LoadConfig()
	assert.ErrorContains(t, err, "REDIS_ADDR")
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CHECKING_OVERDRAFT_LIMIT", "lots")

	_, err := config.LoadConfig()
	assert.ErrorContains(t, err, "CHECKING_OVERDRAFT_LIMIT")
}
