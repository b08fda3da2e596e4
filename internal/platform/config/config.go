package config

import (
	"os"
	"strings"
	"time"
)

// Server captures the process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration

	// DatabaseURL selects the Postgres-backed stores when set; empty means
	// in-memory stores.
	DatabaseURL string

	// RedisURL selects the Redis-backed inventory list cache when set; empty
	// means the in-process cache.
	RedisURL string

	// InventoryCacheTTL is the absolute expiry applied to the cached
	// inventory listing.
	InventoryCacheTTL time.Duration

	// KafkaBrokers enables the Kafka audit publisher when non-empty.
	KafkaBrokers []string
	AuditTopic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:              envOr("LOGITRACK_ADDR", ":8080"),
		JWTSigningKey:     envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:         envOr("JWT_ISSUER", "logitrack"),
		JWTAudience:       envOr("JWT_AUDIENCE", "logitrack-api"),
		TokenTTL:          durationOr("TOKEN_TTL", 2*time.Hour),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		InventoryCacheTTL: durationOr("INVENTORY_CACHE_TTL", 30*time.Second),
		AuditTopic:        envOr("AUDIT_TOPIC", "logitrack.audit"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
