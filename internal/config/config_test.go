package config

import (
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable NewFromEnv reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "GEMINI_MODEL", "GROQ_API_KEY", "GROQ_MODEL", "GENERATION_PROVIDER",
		"STATE_BACKEND", "DATA_DIR", "DATABASE_PATH", "REDIS_URL", "RECIPES_PER_BATCH",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL", "TELEGRAM_ALLOWED_USER_IDS",
		"ADMIN_TELEGRAM_ID", "GHOST_API_URL", "GHOST_ADMIN_API_KEY", "FAMILY_INVITE_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GenerationProvider != ProviderGemini {
			t.Errorf("Expected provider %q, got %q", ProviderGemini, cfg.GenerationProvider)
		}
		if cfg.GeminiModel != DefaultGeminiModel {
			t.Errorf("Expected model %q, got %q", DefaultGeminiModel, cfg.GeminiModel)
		}
		if cfg.StateBackend != BackendFile {
			t.Errorf("Expected backend %q, got %q", BackendFile, cfg.StateBackend)
		}
		if cfg.RecipesPerBatch != DefaultRecipesPerBatch {
			t.Errorf("Expected %d recipes per batch, got %d", DefaultRecipesPerBatch, cfg.RecipesPerBatch)
		}
		if cfg.DatabasePath != filepath.Join("data", "cookbook.db") {
			t.Errorf("Unexpected database path %q", cfg.DatabasePath)
		}
		if cfg.GeminiAPIKey != "" {
			t.Errorf("Expected empty Gemini key, got %q", cfg.GeminiAPIKey)
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("GENERATION_PROVIDER", "GROQ")
		t.Setenv("STATE_BACKEND", "sqlite")
		t.Setenv("DATA_DIR", "/var/cookbook")
		t.Setenv("RECIPES_PER_BATCH", "5")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12, 34")
		t.Setenv("ADMIN_TELEGRAM_ID", "12")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GenerationProvider != ProviderGroq {
			t.Errorf("Expected provider %q, got %q", ProviderGroq, cfg.GenerationProvider)
		}
		if cfg.DatabasePath != filepath.Join("/var/cookbook", "cookbook.db") {
			t.Errorf("Unexpected database path %q", cfg.DatabasePath)
		}
		if cfg.RecipesPerBatch != 5 {
			t.Errorf("Expected 5 recipes per batch, got %d", cfg.RecipesPerBatch)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 34 {
			t.Errorf("Unexpected allow list %v", cfg.TelegramAllowedUserIDs)
		}
		if !cfg.IsAllowed(34) || cfg.IsAllowed(99) {
			t.Error("Allow list not applied")
		}
		if cfg.AdminTelegramID != 12 {
			t.Errorf("Expected admin 12, got %d", cfg.AdminTelegramID)
		}
	})

	errorCases := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{"RedisWithoutURL", map[string]string{"STATE_BACKEND": "redis"}, "REDIS_URL environment variable not set"},
		{"UnknownBackend", map[string]string{"STATE_BACKEND": "tape"}, `STATE_BACKEND must be one of file, sqlite, redis, got "tape"`},
		{"UnknownProvider", map[string]string{"GENERATION_PROVIDER": "openai"}, `GENERATION_PROVIDER must be "gemini" or "groq", got "openai"`},
		{"BadBatchSize", map[string]string{"RECIPES_PER_BATCH": "0"}, `RECIPES_PER_BATCH must be a positive integer, got "0"`},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := NewFromEnv()
			if err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if err.Error() != tc.expected {
				t.Errorf("Expected error '%s', got '%s'", tc.expected, err.Error())
			}
		})
	}

	t.Run("BadAllowList", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12,abc")
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for a non-numeric user id")
		}
	})
}

func TestRequire(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireTelegram(); err == nil || err.Error() != "TELEGRAM_BOT_TOKEN environment variable not set" {
		t.Errorf("Unexpected error %v", err)
	}
	cfg.TelegramBotToken = "token"
	if err := cfg.RequireTelegram(); err == nil || err.Error() != "TELEGRAM_WEBHOOK_URL environment variable not set" {
		t.Errorf("Unexpected error %v", err)
	}
	cfg.TelegramWebhookURL = "https://bot.test"
	if err := cfg.RequireTelegram(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	if err := cfg.RequireGhost(); err == nil {
		t.Error("Expected Ghost error")
	}
	cfg.GhostURL, cfg.GhostAdminKey = "http://ghost.test", "id:secret"
	if err := cfg.RequireGhost(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}
