package config

import "time"

// Key strategies for the submission rate limiter.
const (
	RateKeyIP      = "ip"       // one bucket per client address
	RateKeyRoute   = "route"    // one bucket per form, shared by everyone
	RateKeyIPRoute = "ip_route" // one bucket per client per form
)

// RateLimitConfig drives the token bucket applied to form submissions
// (create, edit and delete).  Listing pages are never limited.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // bucket size, i.e. the burst allowed
	RefillTokens   int           // tokens added every RefillInterval
	RefillInterval time.Duration //
	TTL            time.Duration // idle buckets expire after this
	KeyStrategy    string        // one of the RateKey constants
	Prefix         string        // Redis key prefix
	Debug          bool          // expose the bucket key in a response header
}

// LoadRateLimitConfig reads the RATE_LIMIT_* variables.  RATE_LIMIT_BURST and
// RATE_LIMIT_REFILL_EVERY are shorthands for capacity and a one-token refill.
func LoadRateLimitConfig() RateLimitConfig {
	rl := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 30),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 2*time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", RateKeyIPRoute),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if b := envInt("RATE_LIMIT_BURST", -1); b > 0 {
		rl.Capacity = b
	}
	if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
		rl.RefillTokens = 1
		rl.RefillInterval = every
	}
	return rl.normalized()
}

func (rl RateLimitConfig) normalized() RateLimitConfig {
	if rl.Capacity < 1 {
		rl.Capacity = 1
	}
	if rl.RefillTokens < 1 {
		rl.RefillTokens = 1
	}
	if rl.RefillInterval <= 0 {
		rl.RefillInterval = time.Second
	}
	// A bucket must outlive the time it takes to refill a single token.
	if floor := 5 * rl.RefillInterval; rl.TTL < floor {
		rl.TTL = floor
	}
	switch rl.KeyStrategy {
	case RateKeyIP, RateKeyRoute, RateKeyIPRoute:
	default:
		rl.KeyStrategy = RateKeyIPRoute
	}
	return rl
}
