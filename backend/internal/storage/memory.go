package storage

import (
	"context"

	"jackut/backend/internal/codec"
)

// MemoryStore keeps records in process memory. Nothing survives a restart.
type MemoryStore struct {
	records codec.Records
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: codec.Records{}}
}

func (m *MemoryStore) Load(ctx context.Context) (codec.Records, error) {
	return copyRecords(m.records), nil
}

func (m *MemoryStore) Save(ctx context.Context, recs codec.Records) error {
	m.records = copyRecords(recs)
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.records = codec.Records{}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func copyRecords(recs codec.Records) codec.Records {
	out := make(codec.Records, len(recs))
	for name, data := range recs {
		out[name] = append([]byte(nil), data...)
	}
	return out
}
