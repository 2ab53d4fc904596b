package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/wfclan/generals-lfg-bot/internal/retention"
)

type Config struct {
	Token     string
	ChannelID string

	GatewayURL string
	APIBaseURL string
	HTTPAddr   string

	DeleteAfter       time.Duration
	PanelHistoryLimit int
}

// Load reads .env (when present) and the environment. BOT_TOKEN and
// CHANNEL_ID have no sensible defaults and are required.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Token:             os.Getenv("BOT_TOKEN"),
		ChannelID:         os.Getenv("CHANNEL_ID"),
		GatewayURL:        getEnvOrDefault("GATEWAY_URL", "wss://gateway.example.chat/v1"),
		APIBaseURL:        getEnvOrDefault("API_BASE_URL", "https://api.example.chat/v1"),
		HTTPAddr:          getEnvOrDefault("HTTP_ADDR", ":8080"),
		PanelHistoryLimit: 50,
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("CHANNEL_ID is required")
	}

	var err error
	if cfg.DeleteAfter, err = getDurationOrDefault("DELETE_AFTER", retention.DefaultDelay); err != nil {
		return nil, err
	}
	if cfg.PanelHistoryLimit, err = getIntOrDefault("PANEL_HISTORY_LIMIT", 50); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return n, nil
}
