package wizflow

import "time"

// RetryBuilder assembles how often and how patiently a session asks the
// backend for delivery options before it gives up and reports a connection
// error. Sign-in and checkout are never retried.
//
//	policy := Retry(3).WithExponentialBackoff(100*time.Millisecond, 2, 2*time.Second).Policy()
type RetryBuilder struct {
	policy RetryPolicy
}

// Retry starts a builder allowing attempts fetches in total. Values below one
// mean a single fetch.
func Retry(attempts int) RetryBuilder {
	return RetryBuilder{policy: RetryPolicy{MaxAttempts: max(attempts, 1)}}
}

// WithExponentialBackoff waits initial after the first failed fetch and
// multiplies the wait by multiplier after each further failure, never waiting
// longer than limit. A non-positive multiplier doubles; a non-positive limit
// leaves the wait unbounded.
func (r RetryBuilder) WithExponentialBackoff(initial time.Duration, multiplier float64, limit time.Duration) RetryBuilder {
	if multiplier <= 0 {
		multiplier = 2
	}
	return r.with(initial, multiplier, limit)
}

// WithConstantBackoff waits delay between every pair of fetches.
func (r RetryBuilder) WithConstantBackoff(delay time.Duration) RetryBuilder {
	return r.with(delay, 1, 0)
}

// Immediate refetches without waiting.
func (r RetryBuilder) Immediate() RetryBuilder {
	return r.with(0, 0, 0)
}

// Policy is the value for SessionBuilder.WithRetry.
func (r RetryBuilder) Policy() RetryPolicy {
	return r.policy
}

func (r RetryBuilder) with(initial time.Duration, multiplier float64, limit time.Duration) RetryBuilder {
	p := r.policy
	p.InitialBackoff = initial
	p.BackoffMultiplier = multiplier
	p.MaxBackoff = limit
	return RetryBuilder{policy: p}
}
