// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

// Package ratelimit implements the token-bucket policy that paces the
// connection's write path. Two independently configured buckets exist per
// connection: one for low-frequency membership commands (JOIN/PART), one
// for the default command stream.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// BucketConfig configures one token bucket: Capacity tokens refill evenly
// over Window. Both values are configuration inputs, never hardcoded.
type BucketConfig struct {
	Capacity uint          `yaml:"capacity"`
	Window   time.Duration `yaml:"window"`
}

func (config BucketConfig) refillRate() float64 {
	return float64(config.Capacity) / config.Window.Seconds()
}

// Bucket is a token bucket: tokens refill continuously at the configured
// rate, accumulation is capped at capacity, and each permitted operation
// spends one token. All acquisitions against one bucket are serialized;
// no two concurrent acquisitions can double-spend a token.
type Bucket struct {
	config BucketConfig

	// nowFunc is time.Now outside of tests
	nowFunc func() time.Time

	sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewBucket returns a full bucket with the given configuration.
func NewBucket(config BucketConfig) *Bucket {
	bucket := &Bucket{
		config:  config,
		nowFunc: time.Now,
		tokens:  float64(config.Capacity),
	}
	bucket.lastRefill = bucket.nowFunc()
	return bucket
}

// TryAcquire attempts to spend one token. If the bucket is empty it
// returns granted == false and the wait until one token will be available.
// It never blocks.
func (bucket *Bucket) TryAcquire() (granted bool, retryAfter time.Duration) {
	bucket.Lock()
	defer bucket.Unlock()

	now := bucket.nowFunc()
	bucket.refill(now)

	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		return true, 0
	}
	return false, bucket.retryAfterLocked()
}

// RetryAfter reports the wait until one token would be available, without
// spending anything. Zero means a token is available right now.
func (bucket *Bucket) RetryAfter() time.Duration {
	bucket.Lock()
	defer bucket.Unlock()

	bucket.refill(bucket.nowFunc())
	if bucket.tokens >= 1 {
		return 0
	}
	return bucket.retryAfterLocked()
}

// retryAfterLocked computes the wait until the next token on a bucket with
// less than one token. The caller must hold the bucket lock.
func (bucket *Bucket) retryAfterLocked() (retryAfter time.Duration) {
	deficit := 1 - bucket.tokens
	retryAfter = time.Duration(deficit / bucket.config.refillRate() * float64(time.Second))
	if retryAfter <= 0 {
		// floating point can round the wait down to nothing; report the
		// smallest meaningful wait instead of a spin
		retryAfter = time.Millisecond
	}
	return
}

// refill credits the tokens accrued since the last refill. The caller must
// hold the bucket lock.
func (bucket *Bucket) refill(now time.Time) {
	elapsed := now.Sub(bucket.lastRefill)
	bucket.lastRefill = now
	if elapsed <= 0 {
		return
	}
	bucket.tokens += elapsed.Seconds() * bucket.config.refillRate()
	if max := float64(bucket.config.Capacity); bucket.tokens > max {
		bucket.tokens = max
	}
}

// Tier selects which bucket an outbound command spends from.
type Tier uint

const (
	// TierDefault covers the ordinary command stream (PRIVMSG and friends).
	TierDefault Tier = iota
	// TierJoin covers membership changes (JOIN and PART), which Twitch
	// limits separately and more tightly.
	TierJoin
)

// Limiter owns the two per-connection buckets. The tiers are independent:
// an empty join bucket never delays a default-tier command, and vice versa.
type Limiter struct {
	buckets [2]*Bucket
}

// NewLimiter returns a Limiter with both buckets full.
func NewLimiter(defaultConfig, joinConfig BucketConfig) *Limiter {
	return &Limiter{
		buckets: [2]*Bucket{
			TierDefault: NewBucket(defaultConfig),
			TierJoin:    NewBucket(joinConfig),
		},
	}
}

// TryAcquire attempts to spend one token from the given tier without blocking.
func (limiter *Limiter) TryAcquire(tier Tier) (granted bool, retryAfter time.Duration) {
	return limiter.buckets[tier].TryAcquire()
}

// RetryAfter reports the wait until the given tier would grant a token,
// without spending anything.
func (limiter *Limiter) RetryAfter(tier Tier) time.Duration {
	return limiter.buckets[tier].RetryAfter()
}

// Acquire spends one token from the given tier, sleeping as necessary until
// one is available or the context is done. The wait responds to
// cancellation within one timer tick.
func (limiter *Limiter) Acquire(ctx context.Context, tier Tier) error {
	bucket := limiter.buckets[tier]
	for {
		granted, retryAfter := bucket.TryAcquire()
		if granted {
			return nil
		}
		timer := time.NewTimer(retryAfter)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
