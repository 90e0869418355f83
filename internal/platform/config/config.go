package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// AdminToken guards the /admin archive routes. Empty disables them.
	AdminToken string

	Redis   RedisConfig
	Archive ArchiveConfig
}

// RedisConfig configures the rate-limit backend. An empty URL disables Redis
// and rate limiting falls back to the in-process limiter.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ArchiveConfig configures audit archival. With an empty DSN the archive
// keeps events in memory; with empty brokers no Kafka mirroring happens.
type ArchiveConfig struct {
	PostgresDSN  string
	KafkaBrokers []string
	KafkaTopic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CASELINE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("CASELINE_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("CASELINE_AUDIT_KAFKA_TOPIC")
	if topic == "" {
		topic = "caseline.audit.v1"
	}

	var brokers []string
	if raw := os.Getenv("CASELINE_AUDIT_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		AdminToken:    os.Getenv("CASELINE_ADMIN_TOKEN"),
		Redis: RedisConfig{
			URL:          os.Getenv("CASELINE_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		},
		Archive: ArchiveConfig{
			PostgresDSN:  os.Getenv("CASELINE_AUDIT_POSTGRES_DSN"),
			KafkaBrokers: brokers,
			KafkaTopic:   topic,
		},
	}
}
