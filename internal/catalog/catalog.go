package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docketops/packetsplit/models"
)

// Store records completed split runs so earlier packets can be
// reviewed without digging through output directories. It is an
// append-only history, not a resume mechanism: a rerun of the same
// packet records a fresh run.
type Store interface {
	// RecordRun stores a finished run together with its documents and
	// returns the run ID.
	RecordRun(ctx context.Context, run *models.RunRecord, docs []models.RunDocument) (int64, error)

	// ListRuns returns recorded runs, newest first. A limit of zero
	// or less means all runs.
	ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error)

	// RunDocuments returns the documents of one run in extraction
	// order.
	RunDocuments(ctx context.Context, runID int64) ([]models.RunDocument, error)

	// Close releases the underlying resources.
	Close() error
}

// DefaultPath returns the per-user catalog location,
// ~/.packetsplit/catalog.db, creating the directory if needed.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".packetsplit")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create catalog directory: %w", err)
	}
	return filepath.Join(dir, "catalog.db"), nil
}
