package config

import (
	"github.com/jwalitptl/intake-api/pkg/messaging/redis"
	"github.com/jwalitptl/intake-api/pkg/worker"
)

func (c *OutboxConfig) ToWorkerConfig() worker.OutboxProcessorConfig {
	return worker.OutboxProcessorConfig{
		BatchSize:     c.BatchSize,
		PollInterval:  c.PollInterval,
		RetryAttempts: c.RetryAttempts,
		RetryDelay:    c.RetryDelay,
	}
}

func (c *RedisConfig) ToBrokerConfig() redis.Config {
	return redis.Config{
		URL:              c.URL,
		MaxRetries:       c.MaxRetries,
		RetryBackoff:     c.RetryBackoff,
		PoolSize:         c.PoolSize,
		MinIdleConns:     c.MinIdleConns,
		FailureThreshold: c.BreakerThreshold,
		OpenTimeout:      c.BreakerTimeout,
	}
}
