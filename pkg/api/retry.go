package api

import "time"

// RetryPolicy controls how the delivery options fetch is retried when the
// backend fails. MaxAttempts includes the first attempt:
//
//	MaxAttempts = 1 => no retries (just the initial call)
//	MaxAttempts = 3 => initial call + up to 2 retries
//
// InitialBackoff is the delay before the first retry. It is multiplied by
// BackoffMultiplier after every failed attempt (2.0 when <= 0) and capped by
// MaxBackoff when MaxBackoff > 0.
//
// Sign-in is never retried: a rejected credential is an answer, not a fault.
type RetryPolicy struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// Delay returns the wait before retry number n (1-based).
func (p RetryPolicy) Delay(n int) time.Duration {
	if p.InitialBackoff <= 0 || n <= 0 {
		return 0
	}
	multiplier := p.BackoffMultiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}
	delay := p.InitialBackoff
	for i := 1; i < n; i++ {
		delay = time.Duration(float64(delay) * multiplier)
		if p.MaxBackoff > 0 && delay > p.MaxBackoff {
			break
		}
	}
	if p.MaxBackoff > 0 && delay > p.MaxBackoff {
		delay = p.MaxBackoff
	}
	return delay
}

// Attempts returns MaxAttempts, treating values <= 0 as 1.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}
