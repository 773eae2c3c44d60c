package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"ai-cookbook/internal/config"
	"ai-cookbook/internal/database"
	"ai-cookbook/internal/ghost"
	"ai-cookbook/internal/llm"
	"ai-cookbook/internal/metrics"
	"ai-cookbook/internal/storage"
)

// Bootstrap wires an App from cfg: the SQLite database used for metrics
// (and state, with the sqlite backend), the state store, the text
// generator and the optional Ghost client. The returned func releases
// everything that was opened.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Printf("Warning: cleanup failed: %v", err)
			}
		}
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	closers = append(closers, db.Close)

	store, err := storage.Open(ctx, cfg, db.SQL)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		closers = append(closers, c.Close)
	}

	textGen, err := llm.NewTextGenerator(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to initialize text generator: %w", err)
	}
	if textGen == nil {
		log.Printf("Warning: no API key for provider %q, generation is disabled", cfg.GenerationProvider)
	} else {
		closers = append(closers, func() error { return llm.Close(textGen) })
	}

	var ghostClient ghost.Client
	if cfg.RequireGhost() == nil {
		ghostClient = ghost.NewClient(cfg)
	}

	log.Printf("State backend: %s, provider: %s", cfg.StateBackend, cfg.GenerationProvider)
	return NewApp(cfg, store, textGen, ghostClient, metrics.NewStore(db.SQL)), cleanup, nil
}
