package social

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"jackut/backend/internal/codec"
	"jackut/backend/internal/storage"
	apperrors "jackut/backend/pkg/errors"
)

// Open creates a System backed by store and loads whatever the store holds.
// Unreadable or corrupt storage is logged and the System starts empty; only
// a canceled context is returned as an error.
func Open(ctx context.Context, store storage.RecordStore, log *zap.Logger) (*System, error) {
	s := New(log)
	s.store = store

	if err := s.loadFromStore(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.logger.Error("Failed to load persisted state, starting empty", zap.Error(err))
	}
	return s, nil
}

func (s *System) loadFromStore(ctx context.Context) error {
	recs, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}
	snap, err := codec.Decode(recs)
	if err != nil {
		return err
	}
	if snap.Empty() {
		s.logger.Info("No persisted state found")
		return nil
	}
	return s.Load(snap)
}

// Save encodes the current state and writes it to the backing store. A
// failure leaves the in-memory state untouched.
func (s *System) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, codec.Encode(s.Export())); err != nil {
		s.logger.Error("Failed to persist state", zap.Error(err))
		return apperrors.NewStorageWrite("persist", err)
	}
	s.logger.Info("State persisted", zap.Int("accounts", len(s.accounts)))
	return nil
}

// Reset drops every account, session and community without touching storage
func (s *System) Reset() {
	s.clear()
}

// ResetAll drops all state and sessions and clears the backing store
func (s *System) ResetAll(ctx context.Context) error {
	s.clear()
	if s.store == nil {
		return nil
	}
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear storage", zap.Error(err))
		return apperrors.NewStorageWrite("clear", err)
	}
	return nil
}

// Shutdown persists the state. The System stays usable afterwards.
func (s *System) Shutdown(ctx context.Context) error {
	return s.Save(ctx)
}
