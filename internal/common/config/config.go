package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/weblogin/weblogin/internal/common/constants"
	commonerrors "github.com/weblogin/weblogin/internal/common/errors"
)

type Config struct {
	HTTPPort    string
	DatabaseURL string
	RedisURL    string

	SessionTTL     time.Duration
	BcryptCost     int
	RequestTimeout time.Duration

	AdminUsername string
	AdminPassword string

	CircuitBreakerThreshold int
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
}

// Load reads configuration from the environment, honoring a .env file when
// one is present in the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	redisURL, err := mustEnv("REDIS_URL")
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:       getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		RedisURL:       redisURL,
		SessionTTL:     getDurationEnv("SESSION_TTL", constants.DefaultSessionTTL),
		BcryptCost:     getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		AdminUsername:  getEnv("ADMIN_USERNAME", constants.DefaultAdminUsername),
		AdminPassword:  getEnv("ADMIN_PASSWORD", constants.DefaultAdminPassword),

		CircuitBreakerThreshold: getIntEnv("CB_THRESHOLD", constants.DefaultCircuitBreakerThreshold),
		CircuitBreakerTimeout:   getDurationEnv("CB_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("CB_RESET", constants.DefaultCircuitBreakerReset),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
