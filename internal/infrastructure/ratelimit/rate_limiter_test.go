package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket_ExhaustsAndReportsWait(t *testing.T) {
	bucket := NewTokenBucket(3, 1, time.Hour)

	for i := 0; i < 3; i++ {
		allowed, _ := bucket.Allow()
		assert.True(t, allowed, "request %d", i)
	}

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestTokenBucket_Refills(t *testing.T) {
	bucket := NewTokenBucket(1, 1, 10*time.Millisecond)

	allowed, _ := bucket.Allow()
	assert.True(t, allowed)

	allowed, _ = bucket.Allow()
	assert.False(t, allowed)

	time.Sleep(15 * time.Millisecond)

	allowed, _ = bucket.Allow()
	assert.True(t, allowed)
}

func TestRateLimiter_UnknownActionIsUnlimited(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 100; i++ {
		allowed, _ := rl.Allow("user-1", "browse")
		assert.True(t, allowed)
	}
}

func TestRateLimiter_BucketsAreIndependent(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 20; i++ {
		allowed, _ := rl.Allow("user-1", "send_message")
		assert.True(t, allowed, "request %d", i)
	}

	allowed, _ := rl.Allow("user-1", "send_message")
	assert.False(t, allowed)

	// Another user still has a full bucket.
	allowed, _ = rl.Allow("user-2", "send_message")
	assert.True(t, allowed)
}
