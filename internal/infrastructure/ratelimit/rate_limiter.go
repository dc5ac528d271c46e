package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	ActionSendMessage = "send_message"
	ActionCreateSwap  = "create_swap"
	ActionLogin       = "login"
	ActionBroadcast   = "broadcast"
)

// Rule is a bucket shape: Burst tokens, one token back every Every.
type Rule struct {
	Burst int
	Every time.Duration
}

var defaultRules = map[string]Rule{
	ActionSendMessage: {Burst: 10, Every: 6 * time.Second},
	ActionCreateSwap:  {Burst: 5, Every: 12 * time.Minute},
	ActionLogin:       {Burst: 10, Every: 30 * time.Second},
	ActionBroadcast:   {Burst: 5, Every: time.Minute},
}

var fallbackRule = Rule{Burst: 20, Every: 3 * time.Second}

// TokenBucket is a refilling counter. Not safe for use without the owning limiter's lock.
type TokenBucket struct {
	tokens     int
	rule       Rule
	lastRefill time.Time
	lastUsed   time.Time
}

func newTokenBucket(rule Rule, now time.Time) *TokenBucket {
	return &TokenBucket{
		tokens:     rule.Burst,
		rule:       rule,
		lastRefill: now,
		lastUsed:   now,
	}
}

func (tb *TokenBucket) take(now time.Time) (bool, time.Duration) {
	tb.lastUsed = now

	if refills := int(now.Sub(tb.lastRefill) / tb.rule.Every); refills > 0 {
		tb.tokens += refills
		if tb.tokens > tb.rule.Burst {
			tb.tokens = tb.rule.Burst
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(refills) * tb.rule.Every)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}
	return false, tb.lastRefill.Add(tb.rule.Every).Sub(now)
}

// RateLimiter keeps one bucket per (key, action).
type RateLimiter struct {
	buckets map[string]*TokenBucket
	rules   map[string]Rule
	now     func() time.Time
	mutex   sync.Mutex
}

func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithClock(time.Now)
}

func NewRateLimiterWithClock(now func() time.Time) *RateLimiter {
	rules := make(map[string]Rule, len(defaultRules))
	for action, rule := range defaultRules {
		rules[action] = rule
	}
	return &RateLimiter{
		buckets: make(map[string]*TokenBucket),
		rules:   rules,
		now:     now,
	}
}

// SetRule overrides the bucket shape for action. Existing buckets keep their old shape.
func (rl *RateLimiter) SetRule(action string, rule Rule) {
	rl.mutex.Lock()
	rl.rules[action] = rule
	rl.mutex.Unlock()
}

// Allow consumes a token for key and action. When denied it reports how long until the next token.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	bucketKey := key + ":" + action
	bucket, ok := rl.buckets[bucketKey]
	if !ok {
		rule, known := rl.rules[action]
		if !known {
			rule = fallbackRule
		}
		bucket = newTokenBucket(rule, now)
		rl.buckets[bucketKey] = bucket
	}
	return bucket.take(now)
}

// Cleanup drops buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, bucket := range rl.buckets {
		if now.Sub(bucket.lastUsed) > maxIdle {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine prunes idle buckets every interval until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (rl *RateLimiter) size() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.buckets)
}
