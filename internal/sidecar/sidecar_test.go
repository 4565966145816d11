package sidecar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/docketops/packetsplit/models"
)

func page(n int) *int { return &n }

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")

	want := &models.Sidecar{
		TotalPages: 618,
		TopLevel: []models.Bookmark{
			{Name: "Memo", Page: page(1), Level: models.LevelTop},
			{Name: "Record", Page: page(40), Level: models.LevelTop},
		},
		RecordItems: []models.Bookmark{
			{Name: "R01 Complaint", Page: page(40), Level: models.LevelRecordItem},
			{Name: "R02 Broken", Page: nil, Level: models.LevelRecordItem},
		},
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_NullPageSerialized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")

	sc := &models.Sidecar{
		TotalPages: 10,
		TopLevel: []models.Bookmark{
			{Name: "Broken", Page: nil, Level: models.LevelTop},
		},
		RecordItems: []models.Bookmark{},
	}

	if err := Save(path, sc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read sidecar back: %v", err)
	}

	// The page field must be present and null, not omitted.
	if !strings.Contains(string(data), `"page": null`) {
		t.Errorf("sidecar JSON missing explicit null page:\n%s", data)
	}
}

func TestSave_EmptyPartitionsSerializeAsArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")

	sc := &models.Sidecar{
		TotalPages:  3,
		TopLevel:    []models.Bookmark{},
		RecordItems: []models.Bookmark{},
	}

	if err := Save(path, sc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read sidecar back: %v", err)
	}

	text := string(data)
	if strings.Contains(text, `"top_level": null`) || strings.Contains(text, `"record_items": null`) {
		t.Errorf("empty partitions serialized as null:\n%s", text)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("Expected error for missing sidecar, got nil")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestLoad_InvalidTotalPages(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"zero pages", `{"total_pages": 0, "top_level": [], "record_items": []}`},
		{"negative pages", `{"total_pages": -3, "top_level": [], "record_items": []}`},
		{"missing field", `{"top_level": [], "record_items": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bookmarks.json")
			if err := os.WriteFile(path, []byte(tt.json), 0644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			_, err := Load(path)
			if err == nil {
				t.Error("Expected error for invalid total_pages, got nil")
			}
			if err != nil && !strings.Contains(err.Error(), "total_pages") {
				t.Errorf("Load() error = %v, want mention of total_pages", err)
			}
		})
	}
}

func TestLoad_HandEditedSidecar(t *testing.T) {
	// A minimal hand-written file, without indentation, loads the same
	// as a generated one.
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	raw := `{"total_pages":5,"top_level":[{"name":"Memo","page":1,"level":"top"}],"record_items":[]}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.TotalPages != 5 {
		t.Errorf("Load() TotalPages = %d, want 5", got.TotalPages)
	}
	if len(got.TopLevel) != 1 || got.TopLevel[0].Name != "Memo" {
		t.Errorf("Load() TopLevel = %+v, want the Memo entry", got.TopLevel)
	}
	if got.TopLevel[0].Page == nil || *got.TopLevel[0].Page != 1 {
		t.Errorf("Load() Memo page = %v, want 1", got.TopLevel[0].Page)
	}
}
