package config

// RateLimitConfig contains rate limiting settings for the verification
// endpoints.
type RateLimitConfig struct {
	// Per-subject verification email limits
	VerifyEnabled    bool
	VerifyCapacity   int
	VerifyRefillRate float64 // tokens per second

	// Signup endpoint specific limits
	SignupEnabled    bool
	SignupCapacity   int
	SignupRefillRate float64 // tokens per second
}

// DefaultRateLimitConfig returns a RateLimitConfig with sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		// Verification emails: 3 immediately, then ~3 per hour
		VerifyEnabled:    true,
		VerifyCapacity:   3,
		VerifyRefillRate: 0.00083,

		// Signup: 5 per 5 minutes
		SignupEnabled:    true,
		SignupCapacity:   5,
		SignupRefillRate: 0.017,
	}
}

// NewRateLimitConfigFromEnv loads RateLimitConfig from standard environment
// variables. Optional convenience, the struct can also be populated directly.
//
// Environment variables:
//   - RATELIMIT_VERIFY_ENABLED: Enable per-subject verification email limits (default: true)
//   - RATELIMIT_VERIFY_CAPACITY: Verification bucket capacity (default: 3)
//   - RATELIMIT_VERIFY_REFILL_RATE: Verification refill rate in tokens/sec (default: 0.00083)
//   - RATELIMIT_SIGNUP_ENABLED: Enable signup endpoint rate limiting (default: true)
//   - RATELIMIT_SIGNUP_CAPACITY: Signup bucket capacity (default: 5)
//   - RATELIMIT_SIGNUP_REFILL_RATE: Signup refill rate in tokens/sec (default: 0.017)
func NewRateLimitConfigFromEnv() RateLimitConfig {
	return RateLimitConfig{
		VerifyEnabled:    GetEnvBool("RATELIMIT_VERIFY_ENABLED", true),
		VerifyCapacity:   GetEnvInt("RATELIMIT_VERIFY_CAPACITY", 3),
		VerifyRefillRate: GetEnvFloat64("RATELIMIT_VERIFY_REFILL_RATE", 0.00083),
		SignupEnabled:    GetEnvBool("RATELIMIT_SIGNUP_ENABLED", true),
		SignupCapacity:   GetEnvInt("RATELIMIT_SIGNUP_CAPACITY", 5),
		SignupRefillRate: GetEnvFloat64("RATELIMIT_SIGNUP_REFILL_RATE", 0.017),
	}
}
