// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package tmi

import (
	"errors"
	"fmt"
	"time"

	"github.com/ergochat/tmi-go/tmi/ratelimit"
)

var (
	// errReadQ means the peer sent a line that overflowed the read buffer;
	// framing is lost and the connection cannot continue.
	errReadQ = errors.New("readQ exceeded (oversized line from server)")

	// ErrClosed is returned from commands once the connection has shut down.
	ErrClosed = errors.New("connection is closed")

	// ErrNotReady is returned from commands issued before login completes.
	ErrNotReady = errors.New("connection is not ready")
)

// RateLimitError reports a send denied by the outbound rate limiter.
// RetryAfter is the earliest delay after which the same send could succeed,
// assuming no competing traffic in the meantime.
type RateLimitError struct {
	Tier       ratelimit.Tier
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited on tier %d, retry after %v", e.Tier, e.RetryAfter)
}
