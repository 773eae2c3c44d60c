package llm

import (
	"context"
	"fmt"

	"ai-cookbook/internal/config"
	"ai-cookbook/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// NewTextGenerator builds the client for cfg.GenerationProvider. It returns
// nil, nil when the provider's API key is not configured, so callers can
// report the missing credential when a generation is actually requested.
func NewTextGenerator(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	switch cfg.GenerationProvider {
	case config.ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, nil
		}
		return NewGroqClient(cfg, cfg.GroqModel, 0.8), nil
	case "", config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.GenerationProvider)
	}
}

// Close releases gen if it holds resources.
func Close(gen TextGenerator) error {
	if c, ok := gen.(Closer); ok {
		return c.Close()
	}
	return nil
}
