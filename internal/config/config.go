package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName         = "KristPay2"
	defaultAppEnv          = "development"
	defaultPort            = "8080"
	defaultLogLevel        = "info"
	defaultNodeURL         = "https://krist.dev"
	defaultStartingBalance = 0
	defaultWelfareAmount   = 25
	defaultWelfareInterval = 24 * time.Hour
	defaultReserveCacheTTL = 30 * time.Second
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
)

// Config captures application runtime configuration loaded from environment
// variables (optionally seeded from a .env file).
type Config struct {
	AppName  string
	Env      string
	Port     string
	LogLevel string

	DatabaseURL string
	RedisURL    string

	NodeURL       string
	MasterAddress string

	StartingBalance int64
	WelfareAmount   int64
	WelfareInterval time.Duration
	ReserveCacheTTL time.Duration

	APIKeyHash string

	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
}

// Load reads configuration values from the environment. A missing .env file
// is fine; production supplies real environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		Env:             getEnv("APP_ENV", defaultAppEnv),
		Port:            getEnv("PORT", defaultPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		NodeURL:         getEnv("KRIST_NODE_URL", defaultNodeURL),
		MasterAddress:   os.Getenv("MASTER_ADDRESS"),
		APIKeyHash:      os.Getenv("API_KEY_HASH"),
		StartingBalance: defaultStartingBalance,
		WelfareAmount:   defaultWelfareAmount,
		WelfareInterval: defaultWelfareInterval,
		ReserveCacheTTL: defaultReserveCacheTTL,
		ShutdownPeriod:  defaultShutdownDelay,
		IdempotencyTTL:  defaultIdempotencyTTL,
	}

	var err error
	if cfg.StartingBalance, err = getInt("STARTING_BALANCE", cfg.StartingBalance); err != nil {
		return Config{}, err
	}
	if cfg.WelfareAmount, err = getInt("WELFARE_AMOUNT", cfg.WelfareAmount); err != nil {
		return Config{}, err
	}
	if cfg.WelfareInterval, err = getDuration("WELFARE_INTERVAL", cfg.WelfareInterval); err != nil {
		return Config{}, err
	}
	if cfg.ReserveCacheTTL, err = getDuration("RESERVE_CACHE_TTL", cfg.ReserveCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = getDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}

	if cfg.StartingBalance < 0 {
		return Config{}, fmt.Errorf("STARTING_BALANCE must not be negative")
	}

	if !cfg.Dev() {
		if cfg.MasterAddress == "" {
			return Config{}, fmt.Errorf("MASTER_ADDRESS must be set outside development")
		}
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set outside development")
		}
	}

	return cfg, nil
}

// Dev reports whether the app runs in a development-like environment.
func (c Config) Dev() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// getDuration accepts either a plain number of seconds or a Go duration
// string.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
