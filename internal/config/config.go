package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort       int
	StorePort     int
	LogLevel      string
	MediaDir      string
	DataFile      string
	StoreURL      string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	MaxImageWidth int
}

func Load() Config {
	return Config{
		APIPort:       envInt("WOZ_API_PORT", 5005),
		StorePort:     envInt("WOZ_STORE_PORT", 5006),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		MediaDir:      envStr("WOZ_MEDIA_DIR", "media"),
		DataFile:      envStr("WOZ_DB_FILE", "db.json"),
		StoreURL:      envStr("WOZ_STORE_URL", "http://localhost:5006"),
		OpenAIAPIKey:  envStr("OPENAI_API_KEY", ""),
		OpenAIBaseURL: envStr("OPENAI_BASE_URL", ""),
		OpenAIModel:   envStr("WOZ_MODEL", "gpt-4o"),
		MaxImageWidth: envInt("WOZ_MAX_IMAGE_WIDTH", 1200),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
