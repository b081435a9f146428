package infra

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"winpay"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"winpay"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"winpay"`

	// JWT
	JWTSecret       string `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTPlayerExpiry string `env:"JWT_PLAYER_EXPIRY" envDefault:"24h"`
	JWTAdminExpiry  string `env:"JWT_ADMIN_EXPIRY" envDefault:"8h"`

	// Server
	APIPort int `env:"API_PORT" envDefault:"3200"`

	// Round engine
	ServerSeed    string        `env:"SERVER_SEED" envDefault:"change-me-in-production"`
	BetLockMargin time.Duration `env:"BET_LOCK_MARGIN" envDefault:"5s"`
	MinBetAmount  int64         `env:"MIN_BET_AMOUNT" envDefault:"1000"`

	// Grid game
	GridHouseEdge float64 `env:"GRID_HOUSE_EDGE" envDefault:"0.01"`

	// Payments
	WagerMultiple int64  `env:"WAGER_MULTIPLE" envDefault:"2"`
	DepositUPI    string `env:"DEPOSIT_UPI" envDefault:"winpay@upi"`
	MinWithdrawal int64  `env:"MIN_WITHDRAWAL" envDefault:"10000"`

	// Kafka
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`

	// External services
	RandomOrgAPIKey string `env:"RANDOM_ORG_API_KEY"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks for insecure configuration that must not run in production.
// Set ALLOW_INSECURE_DEFAULTS=true to bypass (local dev only).
func (c *Config) Validate() error {
	if c.GridHouseEdge < 0 || c.GridHouseEdge >= 1 {
		return fmt.Errorf("GRID_HOUSE_EDGE must be in [0, 1), got %v", c.GridHouseEdge)
	}
	if c.AllowInsecureDefaults {
		return nil
	}
	if c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("JWT_SECRET is set to the insecure default; set a strong secret or set ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short (%d chars); minimum 32 characters required", len(c.JWTSecret))
	}
	if c.ServerSeed == "change-me-in-production" {
		return fmt.Errorf("SERVER_SEED is set to the insecure default; round outcomes derive from it")
	}
	if len(c.ServerSeed) < 32 {
		return fmt.Errorf("SERVER_SEED is too short (%d chars); minimum 32 characters required", len(c.ServerSeed))
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
