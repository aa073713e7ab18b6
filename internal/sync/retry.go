package sync

import (
	"context"
	"math/rand"
	"time"
)

// RetryPolicy bounds the retry loop around a single write call. The policy
// is an explicit, visible parameter rather than an implicit framework
// behavior so tests can exercise it directly.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first. Values
	// below 1 behave as 1.
	Attempts int

	// BaseDelay is the delay before the second attempt; it doubles for each
	// further attempt.
	BaseDelay time.Duration

	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration
}

// DefaultRetryPolicy retries a failing write up to three times with
// jittered exponential backoff.
var DefaultRetryPolicy = RetryPolicy{
	Attempts:  3,
	BaseDelay: 500 * time.Millisecond,
	MaxDelay:  5 * time.Second,
}

// Do runs fn until it succeeds, the attempts are exhausted, or the context
// is canceled. It returns the number of attempts made and the last error.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) (int, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return attempt, nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-time.After(p.delay(attempt)):
		}
	}
	return attempts, err
}

// delay computes the jittered backoff before the given attempt's successor.
// Half the exponential value is kept fixed, the other half is randomized, so
// concurrent callers hitting the same quota spread out.
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay << (attempt - 1)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}
