package controlplane

import "golang.org/x/time/rate"

// LimitConfig describes a token-bucket rate limit.
type LimitConfig struct {
	Burst int
	Rate  rate.Limit
}

func buildLimiter(lc *LimitConfig) *rate.Limiter {
	if lc == nil {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(lc.Rate, lc.Burst)
}
