package security

import (
	"context"
	"fmt"
	"time"

	"ocs-recruitment-backend/pkg/logger"
	"ocs-recruitment-backend/pkg/redis"
)

// LoginTrackerConfig holds configuration for failed-login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before block
	AttemptWindow time.Duration // window for counting attempts
	BlockDuration time.Duration // block length once MaxAttempts is reached
	UseIPTracking bool          // also track by client IP
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker throttles brute-force credential guessing. It counts failed
// logins per identity and per IP in Redis and blocks once the threshold is
// crossed. Without Redis it fails open: credential checks still run, only
// the throttling is lost.
type LoginTracker struct {
	config LoginTrackerConfig
}

func NewLoginTracker(config LoginTrackerConfig) *LoginTracker {
	return &LoginTracker{config: config}
}

// Redis key patterns
const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: current count after increment
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// IsBlocked checks if the given identity or IP is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, identityID, ip string) (bool, error) {
	client := redis.Client()
	if client == nil {
		return false, nil
	}

	exists, err := client.Exists(ctx, blockedLoginUserPrefix+identityID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check identity block: %w", err)
	}
	if exists > 0 {
		return true, nil
	}

	if lt.config.UseIPTracking && ip != "" {
		exists, err := client.Exists(ctx, blockedLoginIPPrefix+ip).Result()
		if err != nil {
			return false, fmt.Errorf("failed to check IP block: %w", err)
		}
		if exists > 0 {
			return true, nil
		}
	}

	return false, nil
}

// RecordFailedAttempt counts a failed login and installs a block once the
// threshold is crossed. Returns whether the caller is now blocked.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, identityID, ip string) (bool, error) {
	client := redis.Client()
	if client == nil {
		return false, nil
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())

	userCount, err := lt.atomicIncrement(ctx, failLoginUserPrefix+identityID, ttlSeconds)
	if err != nil {
		return false, fmt.Errorf("failed to increment identity counter: %w", err)
	}

	var ipCount int64
	if lt.config.UseIPTracking && ip != "" {
		ipCount, err = lt.atomicIncrement(ctx, failLoginIPPrefix+ip, ttlSeconds)
		if err != nil {
			return false, fmt.Errorf("failed to increment IP counter: %w", err)
		}
	}

	if int(userCount) < lt.config.MaxAttempts && int(ipCount) < lt.config.MaxAttempts {
		return false, nil
	}

	// Threshold reached: install the blocks.
	if int(userCount) >= lt.config.MaxAttempts {
		if err := client.Set(ctx, blockedLoginUserPrefix+identityID, 1, lt.config.BlockDuration).Err(); err != nil {
			return false, fmt.Errorf("failed to set identity block: %w", err)
		}
	}
	if lt.config.UseIPTracking && ip != "" && int(ipCount) >= lt.config.MaxAttempts {
		if err := client.Set(ctx, blockedLoginIPPrefix+ip, 1, lt.config.BlockDuration).Err(); err != nil {
			return false, fmt.Errorf("failed to set IP block: %w", err)
		}
	}

	if logger.Log != nil {
		logger.Log.Warn("login attempts exhausted, block installed",
			"attempts", userCount,
			"block_minutes", int(lt.config.BlockDuration.Minutes()),
		)
	}
	return true, nil
}

// ClearAttempts resets the failure counters after a successful login.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, identityID, ip string) {
	client := redis.Client()
	if client == nil {
		return
	}
	client.Del(ctx, failLoginUserPrefix+identityID)
	if lt.config.UseIPTracking && ip != "" {
		client.Del(ctx, failLoginIPPrefix+ip)
	}
}

func (lt *LoginTracker) atomicIncrement(ctx context.Context, key string, ttlSeconds int) (int64, error) {
	result, err := redis.Client().Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected redis result type %T", result)
	}
	return count, nil
}
