package sidecar

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/docketops/packetsplit/models"
)

// DefaultPath is where the extraction command writes the sidecar and
// where the splitting commands look for it.
const DefaultPath = "bookmarks.json"

// Save writes the sidecar as pretty-printed UTF-8 JSON. The file is
// the sole hand-off between extraction and splitting, so it stays
// readable for a human double-checking the bookmark pages.
func Save(path string, sc *models.Sidecar) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sidecar: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sidecar: %w", err)
	}
	return nil
}

// Load reads a sidecar written by Save or edited by hand. Entries with
// a null page are kept; span planning decides whether they matter.
func Load(path string) (*models.Sidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sidecar: %w", err)
	}

	var sc models.Sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse sidecar %s: %w", path, err)
	}
	if sc.TotalPages <= 0 {
		return nil, fmt.Errorf("sidecar %s has invalid total_pages %d", path, sc.TotalPages)
	}
	return &sc, nil
}
