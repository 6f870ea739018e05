package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration, loaded once in main
type Config struct {
	Env          string
	ListenAddr   string
	DatabaseURL  string
	LogLevel     string
	LogFormat    string
	CheckTimeout time.Duration

	ReputationEndpoint string
	ReputationAPIKey   string
	ForensicsEndpoint  string

	DefaultPhoneRegion string
}

// Load reads configuration from the environment, with .env support for
// local development. A missing DATABASE_URL disables the audit store
// rather than failing startup.
func Load() (Config, error) {
	_ = godotenv.Load() // silently ignore a missing .env

	cfg := Config{
		Env:          getenv("APP_ENV", "development"),
		ListenAddr:   getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "json"),
		CheckTimeout: getenvDuration("CHECK_TIMEOUT", 8*time.Second),

		ReputationEndpoint: os.Getenv("REPUTATION_ENDPOINT"),
		ReputationAPIKey:   os.Getenv("REPUTATION_API_KEY"),
		ForensicsEndpoint:  os.Getenv("FORENSICS_ENDPOINT"),

		DefaultPhoneRegion: getenv("DEFAULT_PHONE_REGION", "IN"),
	}

	if cfg.CheckTimeout <= 0 {
		return cfg, fmt.Errorf("CHECK_TIMEOUT must be positive")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
