// Package resilience provides the token-bucket rate limiter that guards the
// gateway against a single channel flooding its session.
package resilience
