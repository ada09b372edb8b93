package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr           string
	JWTSigningKey  string
	JWTIssuer      string
	JWTAudience    string
	AccessTokenTTL time.Duration

	// PostgresDSN selects the persistent store; empty means in-memory.
	PostgresDSN string

	// RedisURL selects the revocation store; empty means in-memory.
	RedisURL string

	// KafkaBrokers selects the audit publisher; empty means the in-process
	// sink.
	KafkaBrokers []string
	AuditTopic   string
}

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	addr := os.Getenv("KYCKARO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	auditTopic := os.Getenv("AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "kyckaro.audit"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:           addr,
		JWTSigningKey:  jwtSigningKey,
		JWTIssuer:      "kyckaro",
		JWTAudience:    "kyckaro-api",
		AccessTokenTTL: time.Hour,
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		RedisURL:       os.Getenv("REDIS_URL"),
		KafkaBrokers:   brokers,
		AuditTopic:     auditTopic,
	}
}
