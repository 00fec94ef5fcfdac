// Package config builds runtime configuration from the environment so main
// stays lean. Every knob has a dev-friendly default; unset storage backends
// fall back to in-memory implementations.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures the full runtime configuration.
type Server struct {
	Addr string

	// PolicyPath points at the JSON policy overlay. Empty means built-in
	// defaults only; reloads become no-ops.
	PolicyPath string

	// PostgresDSN selects the postgres-backed stores when set. Empty keeps
	// the in-memory stores with seeded demo profiles.
	PostgresDSN string

	Redis RedisConfig

	// KafkaBrokers enables the decision audit sink when non-empty.
	KafkaBrokers []string

	// ClassifierBaseURL selects the HTTP classifier adapter. Empty runs the
	// deterministic keyword predictor instead.
	ClassifierBaseURL string
	ClassifierTimeout time.Duration

	JWTSigningKey string

	// FallbackConfidenceFirst restores the legacy rule order for requests
	// without a business profile: confidence gating before domain matching.
	FallbackConfidenceFirst bool

	FusionTextWeight  float64
	FusionImageWeight float64
}

// RedisConfig holds connection tuning for the profile cache.
type RedisConfig struct {
	URL          string
	CacheTTL     time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from GUARD_* environment variables.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("GUARD_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:              envOr("GUARD_ADDR", ":8080"),
		PolicyPath:        os.Getenv("GUARD_POLICY_PATH"),
		PostgresDSN:       os.Getenv("GUARD_POSTGRES_DSN"),
		KafkaBrokers:      splitList(os.Getenv("GUARD_KAFKA_BROKERS")),
		ClassifierBaseURL: os.Getenv("GUARD_CLASSIFIER_URL"),
		ClassifierTimeout: envDuration("GUARD_CLASSIFIER_TIMEOUT", 5*time.Second),
		JWTSigningKey:     jwtSigningKey,

		FallbackConfidenceFirst: os.Getenv("GUARD_FALLBACK_CONFIDENCE_FIRST") == "true",
		FusionTextWeight:        envFloat("GUARD_FUSION_TEXT_WEIGHT", 0.6),
		FusionImageWeight:       envFloat("GUARD_FUSION_IMAGE_WEIGHT", 0.4),

		Redis: RedisConfig{
			URL:          os.Getenv("GUARD_REDIS_URL"),
			CacheTTL:     envDuration("GUARD_REDIS_CACHE_TTL", 5*time.Minute),
			PoolSize:     envInt("GUARD_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("GUARD_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("GUARD_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("GUARD_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("GUARD_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
