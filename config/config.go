package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	MapsURL      string
	PlanPath     string
	TempDir      string
	RawCSVPath   string
	CleanCSVPath string

	Headless         bool
	WaitTimeoutSec   int
	SettleSec        int
	MaxScrollWaitSec int
	DelayMinMs       int
	DelayMaxMs       int

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		MapsURL:      getEnv("MAPS_URL", "https://www.google.com/maps/"),
		PlanPath:     getEnv("PLAN_PATH", "./plan.yaml"),
		TempDir:      getEnv("TEMP_DIR", "./temp"),
		RawCSVPath:   getEnv("RAW_CSV_PATH", "./output/places_raw.csv"),
		CleanCSVPath: getEnv("CLEAN_CSV_PATH", "./output/places_clean.csv"),

		Headless:         getEnvBool("HEADLESS", true),
		WaitTimeoutSec:   getEnvInt("WAIT_TIMEOUT_SECONDS", 15),
		SettleSec:        getEnvInt("SCROLL_SETTLE_SECONDS", 3),
		MaxScrollWaitSec: getEnvInt("MAX_SCROLL_WAIT_SECONDS", 300),
		DelayMinMs:       getEnvInt("DETAIL_DELAY_MIN_MS", 3000),
		DelayMaxMs:       getEnvInt("DETAIL_DELAY_MAX_MS", 5000),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "poi_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// WaitTimeout is the per-selector wait budget.
func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutSec) * time.Second
}

// Settle is the fixed pause after each scroll of the result panel.
func (c *Config) Settle() time.Duration {
	return time.Duration(c.SettleSec) * time.Second
}

// MaxScrollWait is the hard wall-clock budget for the reveal loop.
func (c *Config) MaxScrollWait() time.Duration {
	return time.Duration(c.MaxScrollWaitSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
