// Package jsonfile stores the snapshot as a single JSON document on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simaogato/pricelist-backend/internal/domain"
)

// snapshotFile is the on-disk layout
type snapshotFile struct {
	Ledger  []domain.Bucket       `json:"ledger"`
	History []domain.HistoryEntry `json:"history"`
}

// SnapshotRepository implements domain.SnapshotRepository on a JSON file
type SnapshotRepository struct {
	path string
}

// NewSnapshotRepository creates a repository backed by the file at path.
// The file is created on the first Save.
func NewSnapshotRepository(path string) *SnapshotRepository {
	return &SnapshotRepository{path: path}
}

// Path returns the backing file path
func (r *SnapshotRepository) Path() string { return r.path }

// Load reads the snapshot. A missing file yields an empty Store.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return &domain.Store{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", r.path, err)
	}

	return &domain.Store{
		Ledger:  domain.NewDailyLedger(file.Ledger...),
		History: domain.NewHistoryIndex(file.History...),
	}, nil
}

// Save writes the snapshot atomically: a temp file in the same directory is
// written, synced and renamed over the target
func (r *SnapshotRepository) Save(ctx context.Context, store *domain.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file := snapshotFile{
		Ledger:  store.Ledger.Buckets,
		History: store.History.Entries(),
	}
	if file.Ledger == nil {
		file.Ledger = []domain.Bucket{}
	}
	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
