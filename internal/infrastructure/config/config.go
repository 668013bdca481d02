package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8081"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session  SessionConfig
	Upstream UpstreamConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Audit    AuditConfig
	Contact  ContactConfig

	// FallbackCatalog lets list views answer with sample data when the clinic
	// API fails. Responses are flagged as degraded.
	FallbackCatalog bool `env:"FALLBACK_CATALOG, default=false"`

	SignInRate  float64 `env:"SIGNIN_RATE,  default=0.2"`
	SignInBurst int     `env:"SIGNIN_BURST, default=5"`
}

type SessionConfig struct {
	Secret          string        `env:"SESSION_SECRET"`
	TTL             time.Duration `env:"SESSION_TTL,              default=24h"`
	RevalidateAfter time.Duration `env:"SESSION_REVALIDATE_AFTER, default=4m"`
	CookieSecure    bool          `env:"COOKIE_SECURE,            default=false"`
}

type UpstreamConfig struct {
	APIBaseURL  string `env:"API_BASE_URL,    default=http://localhost:8080/api"`
	AuthBaseURL string `env:"AUTH_BASE_URL,   default=http://localhost:8080/auth"`
	TimeZone    string `env:"CLINIC_TIMEZONE, default=America/Vancouver"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=clinic_portal"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=20"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=20"`
}

type AuditConfig struct {
	Workers int    `env:"AUDIT_WORKERS,  default=4"`
	HashKey string `env:"AUDIT_HASH_KEY"`
}

// ContactConfig is the public contact block of the clinic.
type ContactConfig struct {
	Phone   string `env:"CLINIC_PHONE,   default=+1 604 555 0100"`
	Email   string `env:"CLINIC_EMAIL,   default=frontdesk@dbmshealthcare.ca"`
	Address string `env:"CLINIC_ADDRESS, default=1200 West Broadway Vancouver BC"`
	Hours   string `env:"CLINIC_HOURS,   default=Mon-Fri 08:00-18:00"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves the clinic time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Upstream.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("config: CLINIC_TIMEZONE %q: %w", c.Upstream.TimeZone, err)
	}
	return loc, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Session.Secret) < 32 {
		return errors.New("config: SESSION_SECRET must be at least 32 bytes")
	}
	if c.Audit.HashKey != "" && len(c.Audit.HashKey) > 64 {
		return errors.New("config: AUDIT_HASH_KEY must be at most 64 bytes")
	}
	if c.IsProduction() && !c.Session.CookieSecure {
		return errors.New("config: COOKIE_SECURE must be enabled in production")
	}
	return nil
}
