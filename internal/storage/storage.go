package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"ai-cookbook/internal/config"
)

// Durable keys written by a session. Each holds a whole-value JSON snapshot.
const (
	KeyProfile      = "userProfile"
	KeyRecipes      = "recipes"
	KeyLists        = "shoppingLists"
	KeyActiveListID = "activeShoppingListId"
	KeyStage        = "appStage"
	KeyTab          = "activeTab"
)

// Keys lists every durable key.
var Keys = []string{KeyProfile, KeyRecipes, KeyLists, KeyActiveListID, KeyStage, KeyTab}

// Store persists session snapshots, partitioned by namespace (one per user).
// Writes replace the whole value; concurrent writers to the same key are
// last-write-wins.
type Store interface {
	// Load decodes the stored value into v. It reports false when the key
	// has never been written.
	Load(ctx context.Context, namespace, key string, v any) (bool, error)
	Save(ctx context.Context, namespace, key string, v any) error
	// Clear removes every key of the namespace.
	Clear(ctx context.Context, namespace string) error
}

// Open builds the backend selected by cfg.StateBackend. db is only used by
// the sqlite backend and may be nil otherwise.
func Open(ctx context.Context, cfg *config.Config, db *sql.DB) (Store, error) {
	switch cfg.StateBackend {
	case "", config.BackendFile:
		fs, err := NewFileStore(filepath.Join(cfg.DataDir, "state"))
		if err != nil {
			return nil, err
		}
		return fs, nil
	case config.BackendSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite state backend requires a database")
		}
		return NewSQLStore(db), nil
	case config.BackendRedis:
		rs, err := NewRedisStoreFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}
