package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/kalyanig/paisa-trail/internal/config"
	"github.com/kalyanig/paisa-trail/internal/service"
	"github.com/kalyanig/paisa-trail/internal/storage"
)

// initStorage opens the configured database and brings its schema up to
// date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/paisatrail/paisatrail.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
