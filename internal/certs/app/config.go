package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/usapupgrade/certs/internal/certs/archive"
	"github.com/usapupgrade/certs/internal/certs/render"
	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/pkg/cryptox"
	"github.com/usapupgrade/certs/pkg/httpx"
	"github.com/usapupgrade/certs/pkg/jwtx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite file (default: ./certs.db)
	DatabaseURL    string // Postgres DSN, required for the postgres driver

	JWTSecret   string   // Required: Supabase project JWT secret
	JWTIssuer   string   // Optional: expected iss claim
	JWTAudience []string // Expected aud claim (default: authenticated)

	HashKey     string // Optional: certificate digest key
	HashKeyFile string // Optional: file holding the digest key, created on first use

	Render         render.Config
	Archive        archive.Config // archive disabled when Bucket is empty
	ArchiveTimeout time.Duration  // Upload bound after issuance (default: 5s)

	AuditInterval time.Duration // Integrity audit period, 0 disables (default: 6h)
	RateLimits    httpx.RateLimits

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the process environment, after loading .env when present.
func LoadConfig() Config {
	_ = godotenv.Load()
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) Config {
	env := envReader(getenv)

	return Config{
		DatabaseDriver: strings.ToLower(env.stringOr("DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:   env.stringOr("DATABASE_FILE", "certs.db"),
		DatabaseURL:    getenv("DATABASE_URL"),

		JWTSecret:   getenv("SUPABASE_JWT_SECRET"),
		JWTIssuer:   getenv("JWT_ISSUER"),
		JWTAudience: env.listOr("JWT_AUDIENCE", []string{jwtx.DefaultAudience}),

		HashKey:     getenv("CERT_HASH_KEY"),
		HashKeyFile: getenv("CERT_HASH_KEY_FILE"),

		Render: render.Config{
			CourseName:      env.stringOr("COURSE_NAME", render.DefaultCourseName),
			InstitutionName: env.stringOr("INSTITUTION_NAME", render.DefaultInstitutionName),
			VerifyBaseURL:   env.stringOr("VERIFY_BASE_URL", render.DefaultVerifyBaseURL),
		},
		Archive: archive.Config{
			Bucket:          getenv("ARCHIVE_BUCKET"),
			Endpoint:        getenv("ARCHIVE_ENDPOINT"),
			Region:          env.stringOr("ARCHIVE_REGION", archive.DefaultRegion),
			AccessKeyID:     getenv("ARCHIVE_ACCESS_KEY_ID"),
			SecretAccessKey: getenv("ARCHIVE_SECRET_ACCESS_KEY"),
		},

		ArchiveTimeout: env.durationOr("ARCHIVE_TIMEOUT", service.DefaultArchiveTimeout),

		AuditInterval: env.durationOr("AUDIT_INTERVAL", service.DefaultAuditInterval),
		RateLimits:    httpx.RateLimitsFromEnv(getenv),

		Env:                 env.stringOr("ENV", "dev"),
		LogLevel:            env.stringOr("LOG_LEVEL", "info"),
		LogFormat:           env.stringOr("LOG_FORMAT", "json"),
		Port:                env.intOr("PORT", 8080),
		ShutdownGracePeriod: env.durationOr("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports settings the service cannot start without.
func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, errors.New("DATABASE_DRIVER must be sqlite or postgres"))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("SUPABASE_JWT_SECRET is required"))
	}
	if err := cryptox.CheckKey([]byte(c.HashKey)); err != nil {
		errs = append(errs, fmt.Errorf("CERT_HASH_KEY: %w", err))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, errors.New("PORT must be between 1 and 65535"))
	}

	return errors.Join(errs...)
}

type envReader func(string) string

func (e envReader) stringOr(key, defaultValue string) string {
	if value := strings.TrimSpace(e(key)); value != "" {
		return value
	}
	return defaultValue
}

func (e envReader) intOr(key string, defaultValue int) int {
	value := e(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func (e envReader) durationOr(key string, defaultValue time.Duration) time.Duration {
	value := e(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// listOr splits a comma separated value, dropping empty entries.
func (e envReader) listOr(key string, defaultValue []string) []string {
	var out []string
	for _, part := range strings.Split(e(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
