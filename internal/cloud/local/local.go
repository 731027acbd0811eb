// Package local stores sync bundles as JSON files on disk. It stands in
// for a real remote backend while keeping the same Syncer contract.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finas/internal/cloud"
)

type Syncer struct {
	dir string
}

func New(dir string) (*Syncer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create sync directory: %w", err)
	}
	return &Syncer{dir: dir}, nil
}

func (s *Syncer) path(syncID string) string {
	return filepath.Join(s.dir, "finas_sync_"+syncID+".json")
}

func (s *Syncer) Push(ctx context.Context, syncID string, b cloud.Bundle) error {
	if syncID == "" {
		return fmt.Errorf("push bundle: empty sync id")
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	// Write to a temp file first so a crash never leaves a torn bundle.
	tmp, err := os.CreateTemp(s.dir, "finas_sync_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp bundle: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp bundle: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(syncID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace bundle: %w", err)
	}

	slog.InfoContext(ctx, "Pushed sync bundle",
		"sync_id", syncID,
		"transactions", len(b.Transactions),
		"path", s.path(syncID))

	return nil
}

func (s *Syncer) Fetch(ctx context.Context, syncID string) (cloud.Bundle, bool, error) {
	if syncID == "" {
		return cloud.Bundle{}, false, fmt.Errorf("fetch bundle: empty sync id")
	}

	data, err := os.ReadFile(s.path(syncID))
	if os.IsNotExist(err) {
		return cloud.Bundle{}, false, nil
	}
	if err != nil {
		return cloud.Bundle{}, false, fmt.Errorf("read bundle: %w", err)
	}

	var b cloud.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return cloud.Bundle{}, false, fmt.Errorf("unmarshal bundle: %w", err)
	}

	slog.InfoContext(ctx, "Fetched sync bundle",
		"sync_id", syncID,
		"transactions", len(b.Transactions))

	return b, true, nil
}
