package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrLimitReached is returned by Acquire when a configured limit is exhausted.
var ErrLimitReached = errors.New("rate limit reached")

// RateLimiterRegistry tracks active rate limiters for health check
type RateLimiterRegistry struct {
	limiters map[string]*RateLimiter
	mu       sync.RWMutex
}

// Global rate limiter registry
var rateLimiterRegistry = &RateLimiterRegistry{
	limiters: make(map[string]*RateLimiter),
}

// RegisterRateLimiter registers a rate limiter with the registry
func (rlr *RateLimiterRegistry) RegisterRateLimiter(limiter *RateLimiter) {
	rlr.mu.Lock()
	defer rlr.mu.Unlock()

	if limiter.opts.CacheName != "" {
		rlr.limiters[limiter.opts.CacheName] = limiter
	}
}

// GetRateLimiterMetrics returns the metrics of all registered rate limiters
func (rlr *RateLimiterRegistry) GetRateLimiterMetrics(ctx context.Context) map[string]map[string]string {
	rlr.mu.RLock()
	defer rlr.mu.RUnlock()

	metrics := make(map[string]map[string]string)
	for cacheName, limiter := range rlr.limiters {
		m, err := limiter.GetMetrics(ctx)
		if err == nil {
			metrics[cacheName] = m
		}
	}
	return metrics
}

// GetRateLimiterMetrics returns the metrics of all registered rate limiters for health check
func GetRateLimiterMetrics(ctx context.Context) map[string]map[string]string {
	return rateLimiterRegistry.GetRateLimiterMetrics(ctx)
}

// RateLimiterOptions represents options for rate limiting
type RateLimiterOptions struct {
	// MaxActiveTransactions is the maximum number of concurrent active transactions (optional)
	MaxActiveTransactions int
	// MaxTransactionsPerSecond is the maximum number of transactions per second (optional)
	MaxTransactionsPerSecond int
	// Namespace is the namespace for organizing rate limiters
	Namespace string
	// CacheName is used for health check identification
	CacheName string
	// TransactionTTL is the maximum time a transaction can be active before auto-release
	TransactionTTL time.Duration
}

// NewRateLimiterOptions creates a new rate limiter options with default values
func NewRateLimiterOptions() *RateLimiterOptions {
	return &RateLimiterOptions{
		TransactionTTL: 5 * time.Minute,
	}
}

// WithMaxActiveTransactions sets the maximum number of concurrent transactions
func (rlo *RateLimiterOptions) WithMaxActiveTransactions(max int) *RateLimiterOptions {
	rlo.MaxActiveTransactions = max
	return rlo
}

// WithMaxTransactionsPerSecond sets the maximum number of transactions per second
func (rlo *RateLimiterOptions) WithMaxTransactionsPerSecond(max int) *RateLimiterOptions {
	rlo.MaxTransactionsPerSecond = max
	return rlo
}

// WithNamespace sets the namespace for organizing rate limiters
func (rlo *RateLimiterOptions) WithNamespace(namespace string) *RateLimiterOptions {
	rlo.Namespace = namespace
	return rlo
}

// WithCacheName sets the cache name for health check identification
func (rlo *RateLimiterOptions) WithCacheName(cacheName string) *RateLimiterOptions {
	rlo.CacheName = cacheName
	return rlo
}

// Validate validates the rate limiter options
func (rlo *RateLimiterOptions) Validate() error {
	if rlo.MaxActiveTransactions < 0 || rlo.MaxTransactionsPerSecond < 0 {
		return fmt.Errorf("rate limits must be non-negative")
	}
	if rlo.MaxActiveTransactions == 0 && rlo.MaxTransactionsPerSecond == 0 {
		return fmt.Errorf("at least one limit must be configured (MaxActiveTransactions or MaxTransactionsPerSecond)")
	}
	if rlo.TransactionTTL <= 0 {
		return fmt.Errorf("invalid transaction TTL: %v, must be positive", rlo.TransactionTTL)
	}
	return nil
}

// RateLimiter represents a distributed rate limiter
type RateLimiter struct {
	client        *Client
	key           string
	opts          *RateLimiterOptions
	activeKeyName string
	tpsKeyName    string
}

// NewRateLimiter creates a new distributed rate limiter
func NewRateLimiter(client *Client, key string, opts *RateLimiterOptions) (*RateLimiter, error) {
	if opts == nil {
		opts = NewRateLimiterOptions()
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	limiter := &RateLimiter{
		client: client,
		key:    key,
		opts:   opts,
	}
	limiter.activeKeyName = limiter.buildKey("active")
	limiter.tpsKeyName = limiter.buildKey("tps")

	if opts.CacheName != "" {
		rateLimiterRegistry.RegisterRateLimiter(limiter)
	}

	return limiter, nil
}

// buildKey constructs the full key using Namespace::key::suffix format
func (rl *RateLimiter) buildKey(suffix string) string {
	if rl.opts.Namespace != "" {
		return rl.opts.Namespace + "::" + rl.key + "::" + suffix
	}
	return rl.key + "::" + suffix
}

// acquireScript checks every limit and takes a slot atomically.
// Result: 1 = success, 0 = active limit, -1 = TPS limit.
const acquireScript = `
	local active_key = KEYS[1]
	local tps_key = KEYS[2]

	local max_active = tonumber(ARGV[1])
	local max_tps = tonumber(ARGV[2])
	local transaction_id = ARGV[3]
	local now_millis = tonumber(ARGV[4])
	local transaction_ttl = tonumber(ARGV[5])

	if max_active > 0 then
		local active_count = tonumber(redis.call("GET", active_key)) or 0
		if active_count >= max_active then
			return 0
		end
	end

	if max_tps > 0 then
		local tps_cutoff_time = now_millis - 1000
		redis.call("ZREMRANGEBYSCORE", tps_key, "-inf", tps_cutoff_time)
		local tps_count = redis.call("ZCOUNT", tps_key, tps_cutoff_time, "+inf")
		if tps_count >= max_tps then
			return -1
		end
	end

	if max_active > 0 then
		redis.call("INCR", active_key)
		redis.call("EXPIRE", active_key, transaction_ttl * 2)
	end

	if max_tps > 0 then
		redis.call("ZADD", tps_key, now_millis, transaction_id)
		redis.call("EXPIRE", tps_key, 2)
	end

	return 1
`

// Acquire takes a transaction slot or fails with ErrLimitReached. The returned id is passed to Release.
func (rl *RateLimiter) Acquire(ctx context.Context) (string, error) {
	transactionID := uuid.NewString()

	result, err := rl.client.GetClient().Eval(ctx, acquireScript, []string{
		rl.activeKeyName,
		rl.tpsKeyName,
	},
		rl.opts.MaxActiveTransactions,
		rl.opts.MaxTransactionsPerSecond,
		transactionID,
		time.Now().UnixMilli(),
		int(rl.opts.TransactionTTL.Seconds()),
	).Int64()
	if err != nil {
		return "", fmt.Errorf("failed to acquire rate limiter: %w", err)
	}

	switch result {
	case 1:
		return transactionID, nil
	case 0:
		return "", fmt.Errorf("%w: active transactions limit (%d)", ErrLimitReached, rl.opts.MaxActiveTransactions)
	case -1:
		return "", fmt.Errorf("%w: transactions per second limit (%d TPS)", ErrLimitReached, rl.opts.MaxTransactionsPerSecond)
	default:
		return "", fmt.Errorf("unknown rate limiter result: %d", result)
	}
}

// Release releases a transaction slot
func (rl *RateLimiter) Release(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return fmt.Errorf("transaction ID is required")
	}

	if rl.opts.MaxActiveTransactions > 0 {
		count, err := rl.client.Decr(ctx, rl.activeKeyName)
		if err != nil {
			return fmt.Errorf("failed to release transaction: %w", err)
		}

		// Ensure count doesn't go below zero
		if count < 0 {
			_ = rl.client.Set(ctx, rl.activeKeyName, 0, rl.opts.TransactionTTL*2)
		}
	}

	return nil
}

// RateLimiterMetrics represents the current metrics of the rate limiter as key-value pairs
type RateLimiterMetrics map[string]string

// GetMetrics returns the current metrics of the rate limiter
func (rl *RateLimiter) GetMetrics(ctx context.Context) (RateLimiterMetrics, error) {
	metrics := make(RateLimiterMetrics)

	if rl.opts.MaxActiveTransactions > 0 {
		activeCount, err := rl.client.GetInt(ctx, rl.activeKeyName)
		if err != nil {
			return nil, err
		}
		metrics["active_transactions"] = strconv.FormatInt(activeCount, 10)
		metrics["max_active_transactions"] = strconv.Itoa(rl.opts.MaxActiveTransactions)
	}

	if rl.opts.MaxTransactionsPerSecond > 0 {
		cutoff := time.Now().Add(-time.Second).UnixMilli()
		tpsCount, err := rl.client.GetClient().ZCount(ctx, rl.tpsKeyName, strconv.FormatInt(cutoff, 10), "+inf").Result()
		if err != nil {
			return nil, err
		}
		metrics["transactions_per_second"] = strconv.FormatInt(tpsCount, 10)
		metrics["max_transactions_per_second"] = strconv.Itoa(rl.opts.MaxTransactionsPerSecond)
	}

	return metrics, nil
}
