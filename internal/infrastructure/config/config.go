package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/surgassist/records-api/internal/core/domain"
)

// Config is the process-wide configuration, constructed once at startup and
// passed by injection into each component. Nothing reads environment state
// after Load returns.
type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	BaseURL  string `env:"BASE_URL,  default=http://localhost:8080"`

	Auth  AuthConfig
	SMTP  SMTPConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// AuthConfig carries every security knob. JWTSecret has no default on
// purpose: the service refuses to start without one.
type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL,           default=24h"`
	MaxLoginAttempts   int           `env:"MAX_LOGIN_ATTEMPTS,  default=5"`
	LockoutDuration    time.Duration `env:"LOCKOUT_DURATION,    default=15m"`
	ResetTokenTTL      time.Duration `env:"RESET_TOKEN_TTL,     default=1h"`
	ResetEligibleRoles string        `env:"RESET_ELIGIBLE_ROLES"`
	MinPasswordLength  int           `env:"MIN_PASSWORD_LENGTH, default=8"`
	BcryptCost         int           `env:"BCRYPT_COST,         default=10"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=no-reply@surgassist.example"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=surgassist_records"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// EligibleRoles parses RESET_ELIGIBLE_ROLES as a comma-separated role list.
// An empty value means every role may self-service reset; unknown role names
// are a configuration error.
func (c AuthConfig) EligibleRoles() ([]domain.Role, error) {
	if strings.TrimSpace(c.ResetEligibleRoles) == "" {
		return domain.AllRoles, nil
	}
	var roles []domain.Role
	for _, raw := range strings.Split(c.ResetEligibleRoles, ",") {
		role, err := domain.ParseRole(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("config: unknown role %q in RESET_ELIGIBLE_ROLES", raw)
		}
		roles = append(roles, role)
	}
	return roles, nil
}
