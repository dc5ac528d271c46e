package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRateLimiter_SendMessageAllowsTenPerMinute(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiterWithClock(clock.now)

	for i := 0; i < 10; i++ {
		ok, _ := rl.Allow("2", ActionSendMessage)
		assert.True(t, ok, "message %d", i)
	}

	ok, wait := rl.Allow("2", ActionSendMessage)
	assert.False(t, ok)
	assert.Equal(t, 6*time.Second, wait)

	// other users have their own bucket
	ok, _ = rl.Allow("3", ActionSendMessage)
	assert.True(t, ok)

	clock.advance(6 * time.Second)
	ok, _ = rl.Allow("2", ActionSendMessage)
	assert.True(t, ok)
	ok, _ = rl.Allow("2", ActionSendMessage)
	assert.False(t, ok)
}

func TestRateLimiter_CustomRuleAndCleanup(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiterWithClock(clock.now)
	rl.SetRule("custom", Rule{Burst: 1, Every: time.Minute})

	ok, _ := rl.Allow("k", "custom")
	assert.True(t, ok)
	ok, _ = rl.Allow("k", "custom")
	assert.False(t, ok)
	assert.Equal(t, 1, rl.size())

	clock.advance(2 * time.Hour)
	rl.Cleanup(time.Hour)
	assert.Equal(t, 0, rl.size())
}
