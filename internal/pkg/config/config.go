package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Authentication modes.
const (
	// AuthModeDemo accepts any non-empty credentials and resolves roles from
	// the reserved demo addresses.
	AuthModeDemo = "demo"
	// AuthModeCredentials verifies passwords against MongoDB accounts and
	// issues signed JWTs.
	AuthModeCredentials = "credentials"
)

// Session storage backends.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`

	Auth    AuthConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type AuthConfig struct {
	Mode         string        `env:"AUTH_MODE,        default=demo"`
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,        default=24h"`
	LoginLatency time.Duration `env:"LOGIN_LATENCY,    default=1s"`
	// LoginRateLimit is the number of login/register attempts per second
	// allowed per client IP.
	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT, default=5"`
}

type SessionConfig struct {
	Storage   string        `env:"SESSION_STORAGE,    default=memory"`
	KeyPrefix string        `env:"SESSION_KEY_PREFIX, default=spabook"`
	TTL       time.Duration `env:"SESSION_TTL,        default=720h"`
	// IdleTimeout releases in-memory sessions not used for this long.
	IdleTimeout    time.Duration `env:"SESSION_IDLE_TIMEOUT, default=30m"`
	SubmitGuardTTL time.Duration `env:"SUBMIT_GUARD_TTL,   default=10s"`
	AuditWorkers   int           `env:"AUDIT_WORKERS,      default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=spabook"`
	// Enabled turns on the audit trail in Mongo even in demo mode.
	Enabled bool `env:"MONGO_ENABLED, default=false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// NeedsMongo reports whether the configuration requires a Mongo connection.
func (c *Config) NeedsMongo() bool {
	return c.Auth.Mode == AuthModeCredentials || c.Mongo.Enabled
}

// NeedsRedis reports whether the configuration requires a Redis connection.
func (c *Config) NeedsRedis() bool {
	return c.Session.Storage == StorageRedis
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Auth.Mode {
	case AuthModeDemo:
	case AuthModeCredentials:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when AUTH_MODE=credentials"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode))
	}

	switch c.Session.Storage {
	case StorageMemory, StorageRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORAGE %q", c.Session.Storage))
	}

	if c.Session.IdleTimeout < 0 {
		errs = append(errs, errors.New("SESSION_IDLE_TIMEOUT must not be negative"))
	}

	if c.Auth.LoginLatency < 0 {
		errs = append(errs, errors.New("LOGIN_LATENCY must not be negative"))
	}

	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(context.Background(), envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
