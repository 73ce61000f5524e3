package limiter

import (
	"context"
	"fmt"
	"time"
)

type ActionConfig struct {
	Limit  int64
	Window time.Duration
}

// Actions limited by the service.
const (
	ActionSubmit = "submit"
	ActionUpdate = "update"
)

var DefaultLimits = map[string]ActionConfig{
	ActionSubmit: {Limit: 30, Window: time.Minute},
	ActionUpdate: {Limit: 60, Window: time.Minute},
}

// Counter is the storage a Limiter counts in. cache.RedisCache satisfies it.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type Limiter struct {
	counter Counter
	limits  map[string]ActionConfig
}

type CheckResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
	Limit     int64 `json:"limit"`
}

// NewLimiter counts in counter using DefaultLimits, with overrides applied on top.
func NewLimiter(counter Counter, overrides map[string]ActionConfig) *Limiter {
	limits := make(map[string]ActionConfig, len(DefaultLimits)+len(overrides))
	for action, cfg := range DefaultLimits {
		limits[action] = cfg
	}
	for action, cfg := range overrides {
		limits[action] = cfg
	}
	return &Limiter{counter: counter, limits: limits}
}

func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	config, ok := l.limits[action]
	if !ok {
		// Default limit for unknown actions
		config = ActionConfig{Limit: 100, Window: time.Minute}
	}

	key := fmt.Sprintf("rate:%s:%s", clientID, action)

	count, err := l.counter.Incr(ctx, key, config.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl, err := l.counter.TTL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get TTL: %w", err)
	}

	resetAt := time.Now().Add(ttl).Unix()
	remaining := config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   count <= config.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
		Limit:     config.Limit,
	}, nil
}

// Limits returns the effective per-action configuration.
func (l *Limiter) Limits() map[string]ActionConfig {
	out := make(map[string]ActionConfig, len(l.limits))
	for action, cfg := range l.limits {
		out[action] = cfg
	}
	return out
}
