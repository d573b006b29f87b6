package constants

import "time"

const (
	UsernameMinLength = 3
	UsernameMaxLength = 32
	PasswordMinLength = 4
	PasswordMaxLength = 72

	SessionTokenSize = 32

	DefaultMaxRequestSize = 64 * 1024

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "3000"
	DefaultRequestTimeout = 5 * time.Second
	DefaultSessionTTL     = 24 * time.Hour
	DefaultBcryptCost     = 12
	DefaultAdminUsername  = "admin"
	DefaultAdminPassword  = "pass"
	SessionCookieName     = "wl_session"
	SessionKeyPrefix      = "session:"

	DefaultCircuitBreakerThreshold = 500
	DefaultCircuitBreakerTimeout   = 15 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond   = 1
	RateLimitLoginBurst               = 5
	RateLimitGeneralRequestsPerSecond = 20
	RateLimitGeneralBurst             = 40

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

// TraceIDKey is shared by the trace middleware and the logger so both sides
// agree on the context key type.
const TraceIDKey TraceIDKeyType = "trace_id"
