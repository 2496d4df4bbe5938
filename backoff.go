package keepalive

import (
	"math"
	rand "math/rand/v2"
	"time"
)

// durationRange returns a random duration in [low, high).
func durationRange(low, high time.Duration) time.Duration {
	delta := int64(high - low)
	if delta <= 0 {
		return low
	}
	return low + time.Duration(rand.Int64N(delta))
}

// durationRatio returns value jittered by +/- the given ratio (e.g. 0.05 for +/-5%).
func durationRatio(value time.Duration, by float64) time.Duration {
	i := time.Duration(float64(value) * by)
	return durationRange(value-i, value+i)
}

// FixedDelay builds an OnExit policy that always retries after d, jittered
// by +/- jitterRatio (0 disables jitter). It never aborts, and the
// supervisor only stops when OnExit returns Abort, so a worker whose whole
// OnExit is this policy is never stopped by its supervisor.
func FixedDelay[R any](d time.Duration, jitterRatio float64) func(ExitOutcome[R]) RetryMethod {
	return func(ExitOutcome[R]) RetryMethod {
		if jitterRatio <= 0 {
			return RetryAfter(d)
		}
		return RetryAfter(durationRatio(d, jitterRatio))
	}
}

// ExponentialBackoff builds an OnExit policy that retries with delay
// base*factor^(attempt-1), capped at max and jittered by +/- jitterRatio,
// resetting the attempt counter whenever more than stable has passed since
// the previous call (that interval includes the previous retry delay).
// It never returns Abort; the caller's own OnExit should wrap it and decide
// when to stop.
func ExponentialBackoff[R any](base time.Duration, factor float64, max time.Duration, jitterRatio float64, stable time.Duration) func(ExitOutcome[R]) RetryMethod {
	var attempt int
	var lastStart time.Time

	return func(ExitOutcome[R]) RetryMethod {
		now := time.Now()
		if !lastStart.IsZero() && now.Sub(lastStart) > stable {
			attempt = 0
		}
		lastStart = now
		attempt++

		delay := time.Duration(float64(base) * math.Pow(factor, float64(attempt-1)))
		if delay > max {
			delay = max
		}
		if jitterRatio > 0 {
			delay = durationRatio(delay, jitterRatio)
		}
		return RetryAfter(delay)
	}
}
