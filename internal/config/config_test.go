package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"WOZ_API_PORT", "WOZ_STORE_PORT", "LOG_LEVEL", "WOZ_MEDIA_DIR",
		"WOZ_DB_FILE", "WOZ_STORE_URL", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"WOZ_MODEL", "WOZ_MAX_IMAGE_WIDTH",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.APIPort != 5005 {
		t.Errorf("expected default api port 5005, got %d", cfg.APIPort)
	}
	if cfg.StorePort != 5006 {
		t.Errorf("expected default store port 5006, got %d", cfg.StorePort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.MediaDir != "media" {
		t.Errorf("expected default media dir, got %s", cfg.MediaDir)
	}
	if cfg.DataFile != "db.json" {
		t.Errorf("expected default data file, got %s", cfg.DataFile)
	}
	if cfg.StoreURL != "http://localhost:5006" {
		t.Errorf("expected default store url, got %s", cfg.StoreURL)
	}
	if cfg.OpenAIModel != "gpt-4o" {
		t.Errorf("expected default model gpt-4o, got %s", cfg.OpenAIModel)
	}
	if cfg.MaxImageWidth != 1200 {
		t.Errorf("expected default max image width 1200, got %d", cfg.MaxImageWidth)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("WOZ_API_PORT", "9005")
	t.Setenv("WOZ_STORE_PORT", "9006")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WOZ_MEDIA_DIR", "/srv/sessions")
	t.Setenv("WOZ_DB_FILE", "/srv/db.json")
	t.Setenv("WOZ_STORE_URL", "http://store:9006")
	t.Setenv("OPENAI_API_KEY", "sk-test-key")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("WOZ_MODEL", "gpt-4o-mini")
	t.Setenv("WOZ_MAX_IMAGE_WIDTH", "800")

	cfg := Load()

	if cfg.APIPort != 9005 {
		t.Errorf("expected api port 9005, got %d", cfg.APIPort)
	}
	if cfg.StorePort != 9006 {
		t.Errorf("expected store port 9006, got %d", cfg.StorePort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %s", cfg.LogLevel)
	}
	if cfg.MediaDir != "/srv/sessions" {
		t.Errorf("expected custom media dir, got %s", cfg.MediaDir)
	}
	if cfg.DataFile != "/srv/db.json" {
		t.Errorf("expected custom data file, got %s", cfg.DataFile)
	}
	if cfg.StoreURL != "http://store:9006" {
		t.Errorf("expected custom store url, got %s", cfg.StoreURL)
	}
	if cfg.OpenAIAPIKey != "sk-test-key" {
		t.Errorf("expected custom api key, got %s", cfg.OpenAIAPIKey)
	}
	if cfg.OpenAIBaseURL != "http://localhost:8080/v1" {
		t.Errorf("expected custom base url, got %s", cfg.OpenAIBaseURL)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("expected custom model, got %s", cfg.OpenAIModel)
	}
	if cfg.MaxImageWidth != 800 {
		t.Errorf("expected max image width 800, got %d", cfg.MaxImageWidth)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("WOZ_API_PORT", "notanumber")

	cfg := Load()

	if cfg.APIPort != 5005 {
		t.Errorf("expected default port on invalid value, got %d", cfg.APIPort)
	}
}
