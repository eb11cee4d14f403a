package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port           string
	StoreDriver    string
	MongoURI       string
	Database       string
	ListCollection string
	DatabaseURL    string
	JWTSecret      string
	LogLevel       string
	RateLimitMax   int
}

// LoadENV will load the .env file if the GO_ENV environment variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// GetEnv func to get env values, falling back when the variable is unset or empty
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the Config from the process environment. Call LoadENV first to pick up .env.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           ":" + GetEnv("PORT", "8080"),
		StoreDriver:    GetEnv("STORE_DRIVER", DriverMemory),
		MongoURI:       os.Getenv("MONGODB_URI"),
		Database:       os.Getenv("DATABASE"),
		ListCollection: GetEnv("LIST_COLLECTION", "todo_lists"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
	}

	rateLimit, err := strconv.Atoi(GetEnv("RATE_LIMIT_MAX", "100"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_MAX must be a number: %w", err)
	}
	cfg.RateLimitMax = rateLimit

	if cfg.JWTSecret == "" {
		return nil, errors.New("you must set your 'JWT_SECRET' environmental variable")
	}
	switch cfg.StoreDriver {
	case DriverMemory:
	case DriverMongo:
		if cfg.MongoURI == "" {
			return nil, errors.New("you must set your 'MONGODB_URI' environmental variable")
		}
		if cfg.Database == "" {
			return nil, errors.New("you must set your 'DATABASE' environmental variable")
		}
	case DriverPostgres, DriverSQLite:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("you must set your 'DATABASE_URL' environmental variable")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}
