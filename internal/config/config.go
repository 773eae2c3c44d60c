package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"

	ProviderGemini = "gemini"
	ProviderGroq   = "groq"

	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultGroqModel       = "llama-3.3-70b-versatile"
	DefaultRecipesPerBatch = 7
)

// Config holds the configuration for the application.
type Config struct {
	GeminiAPIKey       string
	GeminiModel        string
	GroqAPIKey         string
	GroqModel          string
	GenerationProvider string
	RecipesPerBatch    int

	// State
	StateBackend string
	DataDir      string
	DatabasePath string
	RedisURL     string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64

	// Publishing
	GhostURL      string
	GhostAdminKey string

	FamilyInviteSecret string
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present.
// Generation credentials are optional here: a missing key only fails the
// generation request that needs it.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        envOr("GEMINI_MODEL", DefaultGeminiModel),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		GroqModel:          envOr("GROQ_MODEL", DefaultGroqModel),
		GenerationProvider: strings.ToLower(envOr("GENERATION_PROVIDER", ProviderGemini)),
		StateBackend:       strings.ToLower(envOr("STATE_BACKEND", BackendFile)),
		DataDir:            envOr("DATA_DIR", "data"),
		RedisURL:           os.Getenv("REDIS_URL"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
		GhostURL:           os.Getenv("GHOST_API_URL"),
		GhostAdminKey:      os.Getenv("GHOST_ADMIN_API_KEY"),
		FamilyInviteSecret: os.Getenv("FAMILY_INVITE_SECRET"),
	}
	cfg.DatabasePath = envOr("DATABASE_PATH", filepath.Join(cfg.DataDir, "cookbook.db"))

	switch cfg.GenerationProvider {
	case ProviderGemini, ProviderGroq:
	default:
		return nil, fmt.Errorf("GENERATION_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderGroq, cfg.GenerationProvider)
	}

	switch cfg.StateBackend {
	case BackendFile, BackendSQLite:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL environment variable not set")
		}
	default:
		return nil, fmt.Errorf("STATE_BACKEND must be one of file, sqlite, redis, got %q", cfg.StateBackend)
	}

	cfg.RecipesPerBatch = DefaultRecipesPerBatch
	if v := os.Getenv("RECIPES_PER_BATCH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("RECIPES_PER_BATCH must be a positive integer, got %q", v)
		}
		cfg.RecipesPerBatch = n
	}

	ids, err := parseIDList(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}
	cfg.TelegramAllowedUserIDs = ids

	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
		cfg.AdminTelegramID = id
	}

	return cfg, nil
}

// RequireTelegram checks the variables only the bot needs.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

// RequireGhost checks the variables needed to publish posts.
func (c *Config) RequireGhost() error {
	if c.GhostURL == "" {
		return fmt.Errorf("GHOST_API_URL environment variable not set")
	}
	if c.GhostAdminKey == "" {
		return fmt.Errorf("GHOST_ADMIN_API_KEY environment variable not set")
	}
	return nil
}

// IsAllowed reports whether a Telegram user may use the bot. An empty
// allow list admits everyone.
func (c *Config) IsAllowed(userID int64) bool {
	if len(c.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range c.TelegramAllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
