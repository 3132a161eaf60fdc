// Package storage persists evaluation snapshots.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ahrav/go-mimic/internal/domain"
	"github.com/ahrav/go-mimic/internal/ports"
)

// JSONStore writes one snapshot to a JSON file. The snapshot is written
// whole, once per run; there is no partial or incremental mode.
type JSONStore struct {
	path string
}

var _ ports.SnapshotStore = (*JSONStore)(nil)

// NewJSONStore builds a store targeting the given file path. Parent
// directories are created on save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Save marshals the snapshot with indentation and writes it atomically via
// a temp file rename, so a crash mid-write never leaves a torn snapshot.
func (s *JSONStore) Save(ctx context.Context, snapshot *domain.EvaluationSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("finalize snapshot: %w", err)
	}
	return nil
}
