package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Trades    TradeSourceConfig
	Prices    PriceSourceConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// TradeSourceConfig selects the trade-history adapter. Backend is either
// "sqlite" (the trade table) or "csv" (an export file at CSVPath).
type TradeSourceConfig struct {
	Backend string
	CSVPath string
}

// PriceSourceConfig selects the price adapter. Backend is either "chart"
// (the finance chart HTTP API) or "sqlite" (locally imported prices).
type PriceSourceConfig struct {
	Backend string
}

// SchedulerConfig controls the periodic rebuild of all funds.
type SchedulerConfig struct {
	Enabled      bool
	Spec         string // cron expression
	LookbackDays int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_rebuild.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Trades: TradeSourceConfig{
			Backend: getEnv("TRADE_SOURCE", "sqlite"),
			CSVPath: getEnv("TRADE_CSV_PATH", "./data/trades.csv"),
		},
		Prices: PriceSourceConfig{
			Backend: getEnv("PRICE_SOURCE", "chart"),
		},
		Scheduler: SchedulerConfig{
			Enabled:      getEnvBool("SCHEDULE_ENABLED", false),
			Spec:         getEnv("SCHEDULE_CRON", "30 22 * * 1-5"),
			LookbackDays: getEnvInt("SCHEDULE_LOOKBACK_DAYS", 7),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
