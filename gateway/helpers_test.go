package gateway

import "github.com/kbukum/sessionkit/resilience"

func rateLimit(rate float64, burst int) resilience.RateLimiterConfig {
	return resilience.RateLimiterConfig{Rate: rate, Burst: burst}
}
