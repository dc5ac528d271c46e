package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	ServerPort  string `env:"SERVER_PORT,default=8080"`
	MetricsPort string `env:"METRICS_PORT,default=9090"`
	Environment string `env:"ENVIRONMENT,default=development"`

	JWTSecret string        `env:"JWT_SECRET,default=your-secret-key"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY,default=24h"`

	// memory, redis, sqlite, postgres or firestore
	StoreDriver   string `env:"STORE_DRIVER,default=memory"`
	RedisAddr     string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`
	DatabaseURL   string `env:"DATABASE_URL,default=file:skillswap.db"`

	FirebaseProject    string `env:"FIREBASE_PROJECT_ID"`
	ServiceAccountPath string `env:"FIREBASE_SERVICE_ACCOUNT_PATH"`
	StorageBucket      string `env:"STORAGE_BUCKET"`

	NotificationPollInterval time.Duration `env:"NOTIFICATION_POLL_INTERVAL,default=2s"`
	AcceptanceDelay          time.Duration `env:"ACCEPTANCE_DELAY,default=1s"`

	SeedFile string `env:"SEED_FILE"`
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	return LoadWith(context.Background(), envconfig.OsLookuper())
}

// LoadWith processes the config against an arbitrary lookuper, which keeps tests off the process env.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.ProcessWith(ctx, cfg, lookuper); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}

	if cfg.IsProduction() && cfg.JWTSecret == "your-secret-key" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
