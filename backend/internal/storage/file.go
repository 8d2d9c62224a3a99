package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"jackut/backend/internal/codec"
	"jackut/backend/internal/constants"
	"jackut/backend/pkg/logger"
)

// FileStore keeps one text file per record inside a directory
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates a store rooted at dir. The directory is created on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, logger: logger.Named("storage.file")}
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name+".txt")
}

func (f *FileStore) Load(ctx context.Context) (codec.Records, error) {
	recs := codec.Records{}
	for _, name := range constants.RecordNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(f.path(name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		recs[name] = data
	}
	return recs, nil
}

// Save stages every record next to its target before replacing any of them,
// so a failed write leaves the previous records intact. Once staging
// succeeds the records are renamed into place one by one; only a failure
// between two renames can leave old and new records side by side.
func (f *FileStore) Save(ctx context.Context, recs codec.Records) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	staged := make([]string, 0, len(constants.RecordNames))
	discard := func() {
		for _, name := range staged {
			os.Remove(f.stagingPath(name))
		}
	}
	for _, name := range constants.RecordNames {
		if err := ctx.Err(); err != nil {
			discard()
			return err
		}
		if err := writeSynced(f.stagingPath(name), recs[name]); err != nil {
			discard()
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		staged = append(staged, name)
	}

	for i, name := range staged {
		if err := os.Rename(f.stagingPath(name), f.path(name)); err != nil {
			for _, rest := range staged[i:] {
				os.Remove(f.stagingPath(rest))
			}
			return fmt.Errorf("failed to replace %s: %w", name, err)
		}
	}
	f.logger.Debug("Records written", zap.String("dir", f.dir))
	return nil
}

func (f *FileStore) Clear(ctx context.Context) error {
	return f.Save(ctx, codec.Records{})
}

func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) stagingPath(name string) string {
	return f.path(name) + ".new"
}

// writeSynced writes data to path and flushes it to disk
func writeSynced(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	_, err = file.Write(data)
	if err == nil {
		err = file.Sync()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}
