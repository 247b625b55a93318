package config

import (
	"os"
	"time"
)

type Config struct {
	Port string

	LogLevel string
	Env      string

	// DatabaseURL empty means "run on the in-memory store" — development
	// and tests only; state is lost on restart.
	DatabaseURL string
	// RedisURL empty means the gate snapshot is cached in-process only.
	RedisURL string

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	// BaseURL is the public origin collaborator hubs live under.
	BaseURL string
	// CookieDomain scopes the auth cookie to the parent domain so
	// subdomain-addressed hubs share the session.
	CookieDomain string

	ResendAPIKey string
	EmailFrom    string

	GateSnapshotTTL time.Duration
}

func LoadConfig() (*Config, error) {
	ttl, err := time.ParseDuration(GetEnv("GATE_SNAPSHOT_TTL", "30s"))
	if err != nil {
		ttl = 30 * time.Second
	}

	return &Config{
		Port:              GetEnv("PORT", "8081"),
		Env:               GetEnv("ENV", "development"),
		LogLevel:          GetEnv("LOG_LEVEL", "info"),
		DatabaseURL:       GetEnv("DATABASE_URL", ""),
		RedisURL:          GetEnv("REDIS_URL", ""),
		JWTSecret:         GetEnv("JWT_SECRET", "dev-secret-change-me"),
		AdminEmail:        GetEnv("ADMIN_EMAIL", "hello@elijahbrown.info"),
		AdminPasswordHash: GetEnv("ADMIN_PASSWORD_HASH", ""),
		BaseURL:           GetEnv("BASE_URL", "https://elijahbrown.info"),
		CookieDomain:      GetEnv("COOKIE_DOMAIN", ".elijahbrown.info"),
		ResendAPIKey:      GetEnv("RESEND_API_KEY", ""),
		EmailFrom:         GetEnv("EMAIL_FROM", "Elijah Brown <hello@elijahbrown.info>"),
		GateSnapshotTTL:   ttl,
	}, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
