package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPAddr string `validate:"required"`
	LogLevel string `validate:"omitempty,oneof=debug info warn error"`

	OrderSymbol    string `validate:"required,uppercase"`
	OrderThreshold decimal.Decimal
	OrderQuantity  int64 `validate:"gt=0"`

	BinanceAPIKey    string
	BinanceSecretKey string
	BinanceBaseURL   string `validate:"omitempty,url"`
	BinanceTestnet   bool
	BinanceTimeout   time.Duration `validate:"gt=0"`
}

var validate = validator.New()

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		OrderSymbol:      os.Getenv("ORDER_SYMBOL"),
		BinanceAPIKey:    os.Getenv("BINANCE_API_KEY"),
		BinanceSecretKey: os.Getenv("BINANCE_SECRET_KEY"),
		BinanceBaseURL:   os.Getenv("BINANCE_BASE_URL"),
		BinanceTimeout:   5 * time.Second,
	}

	threshold, err := decimal.NewFromString(os.Getenv("ORDER_THRESHOLD"))
	if err != nil {
		return nil, fmt.Errorf("ORDER_THRESHOLD: %w", err)
	}
	if !threshold.IsPositive() {
		return nil, fmt.Errorf("ORDER_THRESHOLD must be positive, got %s", threshold)
	}
	cfg.OrderThreshold = threshold

	if cfg.OrderQuantity, err = strconv.ParseInt(os.Getenv("ORDER_QUANTITY"), 10, 64); err != nil {
		return nil, fmt.Errorf("ORDER_QUANTITY: %w", err)
	}
	if v := os.Getenv("BINANCE_TESTNET"); v != "" {
		if cfg.BinanceTestnet, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("BINANCE_TESTNET: %w", err)
		}
	}
	if v := os.Getenv("BINANCE_TIMEOUT"); v != "" {
		if cfg.BinanceTimeout, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("BINANCE_TIMEOUT: %w", err)
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
