package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hackcall-backend/pkg/logger"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

// RedisClient wraps Redis client with degraded mode support
type RedisClient struct {
	Client         *redis.Client
	degradedMode   bool
	degradedModeMu sync.RWMutex
	healthCheckMu  sync.Mutex
	metrics        *redisMetrics
}

// redisMetrics tracks Redis-related metrics
type redisMetrics struct {
	degradedMode prometheus.Gauge
	healthCheck  prometheus.Counter
}

func newRedisMetrics(reg prometheus.Registerer) *redisMetrics {
	m := &redisMetrics{
		degradedMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "redis_degraded_mode",
			Help: "Indicates if Redis is in degraded mode (1 = degraded, 0 = healthy)",
		}),
		healthCheck: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redis_health_check_total",
			Help: "Total number of Redis health checks",
		}),
	}
	reg.MustRegister(m.degradedMode, m.healthCheck)
	return m
}

// NewRedisDB creates a new Redis client from config with degraded mode support.
// Metrics are registered with reg when it is non-nil.
func NewRedisDB(cfg *RedisConfig, reg prometheus.Registerer) (*RedisClient, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return NewRedisDBFromOptions(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		DialTimeout:  cfg.Timeout,
	}, reg), nil
}

// NewRedisDBFromOptions wraps a client built from raw go-redis options
func NewRedisDBFromOptions(opts *redis.Options, reg prometheus.Registerer) *RedisClient {
	rc := &RedisClient{Client: redis.NewClient(opts)}
	if reg != nil {
		rc.metrics = newRedisMetrics(reg)
	}
	return rc
}

// Close closes the Redis client connection
func (r *RedisClient) Close() {
	if err := r.Client.Close(); err != nil {
		logger.Warn("Failed to close Redis client", zap.Error(err))
	}
}

// StartHealthCheck starts a background goroutine that periodically checks Redis health
func (r *RedisClient) StartHealthCheck(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.HealthCheck(ctx); err != nil {
					logger.Warn("Redis health check failed", zap.Error(err))
				}
			}
		}
	}()
}

// IsDegraded returns true if Redis is in degraded mode
func (r *RedisClient) IsDegraded() bool {
	r.degradedModeMu.RLock()
	defer r.degradedModeMu.RUnlock()
	return r.degradedMode
}

// setDegradedState sets the degraded mode state and updates metrics
func (r *RedisClient) setDegradedState(degraded bool) {
	r.degradedModeMu.Lock()
	defer r.degradedModeMu.Unlock()

	if r.degradedMode == degraded {
		return
	}
	r.degradedMode = degraded
	if degraded {
		logger.Warn("Redis entered degraded mode")
	} else {
		logger.Info("Redis left degraded mode")
	}
	if r.metrics != nil {
		if degraded {
			r.metrics.degradedMode.Set(1)
		} else {
			r.metrics.degradedMode.Set(0)
		}
	}
}

// HealthCheck performs a health check on Redis and updates degraded mode
// It uses a mutex to prevent concurrent health checks from overwhelming Redis
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	r.healthCheckMu.Lock()
	defer r.healthCheckMu.Unlock()

	healthCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if r.metrics != nil {
		r.metrics.healthCheck.Inc()
	}

	if err := r.Client.Ping(healthCtx).Err(); err != nil {
		r.setDegradedState(true)
		return fmt.Errorf("redis health check failed: %w", err)
	}

	r.setDegradedState(false)
	return nil
}

// SafePing performs a ping with degraded mode handling
func (r *RedisClient) SafePing(ctx context.Context) error {
	if r.IsDegraded() {
		return fmt.Errorf("redis is in degraded mode, ping skipped")
	}
	return r.Client.Ping(ctx).Err()
}

// SafeGet performs a GET operation with degraded mode handling
func (r *RedisClient) SafeGet(ctx context.Context, key string) *redis.StringCmd {
	if r.IsDegraded() {
		return redis.NewStringResult("", fmt.Errorf("redis is in degraded mode, get skipped"))
	}
	return r.Client.Get(ctx, key)
}

// SafeSet performs a SET operation with degraded mode handling
func (r *RedisClient) SafeSet(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if r.IsDegraded() {
		return redis.NewStatusResult("", fmt.Errorf("redis is in degraded mode, set skipped"))
	}
	return r.Client.Set(ctx, key, value, expiration)
}

// SafeDel performs a DEL operation with degraded mode handling
func (r *RedisClient) SafeDel(ctx context.Context, keys ...string) *redis.IntCmd {
	if r.IsDegraded() {
		return redis.NewIntResult(0, fmt.Errorf("redis is in degraded mode, del skipped"))
	}
	return r.Client.Del(ctx, keys...)
}
