// Package storage holds the backends that keep the persisted records between
// runs. Backends move opaque record bytes; encoding lives in package codec.
package storage

import (
	"context"
	"fmt"

	"jackut/backend/internal/codec"
	"jackut/backend/pkg/config"
)

// RecordStore loads and saves the full set of records in one step
type RecordStore interface {
	// Load returns every stored record. Absent records are simply missing
	// from the map; an empty store returns an empty map.
	Load(ctx context.Context) (codec.Records, error)
	// Save replaces the stored records with recs
	Save(ctx context.Context, recs codec.Records) error
	// Clear empties every record
	Clear(ctx context.Context) error
	Close() error
}

// Open builds the backend selected by cfg.StorageDriver
func Open(cfg *config.Config) (RecordStore, error) {
	switch cfg.StorageDriver {
	case config.StorageFile:
		return NewFileStore(cfg.DataDir), nil
	case config.StorageSQLite:
		store, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
