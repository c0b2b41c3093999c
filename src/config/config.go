package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// Outbound HTTP settings
	HTTPClientTimeout time.Duration
	UserAgent         string

	// Market data ingestion settings
	GeneralRefreshInterval time.Duration
	FundRefreshInterval    time.Duration
	FundHistoryURL         string
	CurrencyPageURL        string
	CommodityPageURL       string
	EquityPageURL          string
	CryptoPageURL          string

	// USD rates above this limit are treated as a parse artifact and
	// replaced with 1.0 when normalizing totals.
	USDRateSanityLimit float64
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
// It centralizes all configuration logic for the application.
func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./portfoy.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		HTTPClientTimeout: getEnvAsDuration("HTTP_CLIENT_TIMEOUT", 20*time.Second),
		UserAgent:         getEnv("HTTP_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),

		GeneralRefreshInterval: getEnvAsDuration("GENERAL_REFRESH_INTERVAL", 15*time.Minute),
		FundRefreshInterval:    getEnvAsDuration("FUND_REFRESH_INTERVAL", 4*time.Hour),
		FundHistoryURL:         getEnv("FUND_HISTORY_URL", "https://www.tefas.gov.tr/api/DB/BindHistoryInfo"),
		CurrencyPageURL:        getEnv("CURRENCY_PAGE_URL", "https://canlidoviz.com/doviz-kurlari"),
		CommodityPageURL:       getEnv("COMMODITY_PAGE_URL", "https://canlidoviz.com/altin-fiyatlari"),
		EquityPageURL:          getEnv("EQUITY_PAGE_URL", "https://canlidoviz.com/borsa"),
		CryptoPageURL:          getEnv("CRYPTO_PAGE_URL", "https://canlidoviz.com/kripto-paralar"),

		USDRateSanityLimit: getEnvAsFloat("USD_RATE_SANITY_LIMIT", 500),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath)
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsFloat retrieves an environment variable as a float64 or returns a fallback.
func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}
