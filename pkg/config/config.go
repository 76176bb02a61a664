package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the process settings read from the environment
type Config struct {
	Port            string
	DatabaseURL     string
	DataPath        string
	JWTSecret       string
	APIMasterSecret string
	AdminUsername   string
	AdminPassword   string
	GinMode         string
	LogLevel        logrus.Level
	DefaultMaxLoad  int
}

// envPaths are tried in order; the first .env found wins
var envPaths = []string{".env", "../.env", "../../.env"}

// LoadDotEnv loads the first .env file found, if any
func LoadDotEnv() {
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads .env and the environment
func Load() (*Config, error) {
	LoadDotEnv()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:            getenv("PORT"),
		DatabaseURL:     getenv("DATABASE_URL"),
		DataPath:        getenv("DATA_PATH"),
		JWTSecret:       getenv("JWT_SECRET"),
		APIMasterSecret: getenv("API_MASTER_SECRET"),
		AdminUsername:   getenv("ADMIN_USERNAME"),
		AdminPassword:   getenv("ADMIN_PASSWORD"),
		GinMode:         getenv("GIN_MODE"),
		LogLevel:        logrus.InfoLevel,
		DefaultMaxLoad:  10,
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.DataPath == "" {
		cfg.DataPath = "shift_schedule.db"
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
	}

	if raw := getenv("LOG_LEVEL"); raw != "" {
		level, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}
	if raw := getenv("DEFAULT_MAX_LOAD"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("DEFAULT_MAX_LOAD: expected a non-negative integer, got %q", raw)
		}
		cfg.DefaultMaxLoad = n
	}
	return cfg, nil
}
