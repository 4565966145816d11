package outline

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/docketops/packetsplit/models"
)

func page(n int) *int { return &n }

func TestForBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    Extractor
		wantErr bool
	}{
		{"pdfcpu", BackendPdfcpu, PdfcpuExtractor{}, false},
		{"native", BackendNative, NativeExtractor{}, false},
		{"empty defaults to pdfcpu", "", PdfcpuExtractor{}, false},
		{"unknown backend", "mupdf", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForBackend(tt.backend)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ForBackend(%q) = %T, want error", tt.backend, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForBackend(%q) error = %v", tt.backend, err)
			}
			if got != tt.want {
				t.Errorf("ForBackend(%q) = %T, want %T", tt.backend, got, tt.want)
			}
		})
	}
}

func TestCollector_Partitioning(t *testing.T) {
	c := newCollector("Record")

	c.add("", "Memo", page(1))
	c.add("", "Record", page(40))
	c.add("Record", "R01 Complaint", page(40))
	c.add("Record", "R02 Answer", page(55))
	c.add("R01 Complaint", "Exhibit 1", page(42)) // Too deep, dropped
	c.add("Memo", "Footnotes", page(3))           // Child of a non-record section, dropped

	sc := c.sidecar(618)

	wantTop := []models.Bookmark{
		{Name: "Memo", Page: page(1), Level: models.LevelTop},
		{Name: "Record", Page: page(40), Level: models.LevelTop},
	}
	if diff := cmp.Diff(wantTop, sc.TopLevel); diff != "" {
		t.Errorf("TopLevel mismatch (-want +got):\n%s", diff)
	}

	wantRecords := []models.Bookmark{
		{Name: "R01 Complaint", Page: page(40), Level: models.LevelRecordItem},
		{Name: "R02 Answer", Page: page(55), Level: models.LevelRecordItem},
	}
	if diff := cmp.Diff(wantRecords, sc.RecordItems); diff != "" {
		t.Errorf("RecordItems mismatch (-want +got):\n%s", diff)
	}

	if sc.TotalPages != 618 {
		t.Errorf("TotalPages = %d, want 618", sc.TotalPages)
	}
}

func TestCollector_CustomLabel(t *testing.T) {
	c := newCollector("Appendix")

	c.add("", "Appendix", page(10))
	c.add("Appendix", "A-1", page(10))
	c.add("Record", "R01", page(12)) // Not the container label here, dropped

	sc := c.sidecar(20)
	if len(sc.RecordItems) != 1 || sc.RecordItems[0].Name != "A-1" {
		t.Errorf("RecordItems = %+v, want only A-1", sc.RecordItems)
	}
}

func TestCollector_UnresolvedPageKept(t *testing.T) {
	c := newCollector("Record")

	c.add("", "Broken", nil)

	sc := c.sidecar(10)
	if len(sc.TopLevel) != 1 {
		t.Fatalf("TopLevel = %+v, want one entry", sc.TopLevel)
	}
	if sc.TopLevel[0].Page != nil {
		t.Errorf("Page = %v, want nil", sc.TopLevel[0].Page)
	}
}

func TestCollector_EmptyPartitionsAreNonNil(t *testing.T) {
	// JSON must serialize empty partitions as [] rather than null.
	c := newCollector("Record")
	sc := c.sidecar(3)

	if sc.TopLevel == nil {
		t.Error("TopLevel is nil, want empty slice")
	}
	if sc.RecordItems == nil {
		t.Error("RecordItems is nil, want empty slice")
	}
}

func TestOptions_Defaults(t *testing.T) {
	var opts Options

	if got := opts.recordLabel(); got != models.DefaultRecordLabel {
		t.Errorf("recordLabel() = %q, want %q", got, models.DefaultRecordLabel)
	}
	if opts.logger() == nil {
		t.Error("logger() = nil, want no-op logger")
	}
}

// TestExtract_BackendsAgree runs every sample PDF through both
// backends and requires identical sidecars. Samples are optional; the
// test skips when none are present.
func TestExtract_BackendsAgree(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.pdf"))
	if err != nil {
		t.Fatalf("Failed to list sample PDFs: %v", err)
	}
	if len(files) == 0 {
		t.Skip("No sample PDFs found in testdata directory")
	}

	for _, filePath := range files {
		t.Run(filepath.Base(filePath), func(t *testing.T) {
			fromPdfcpu, err := PdfcpuExtractor{}.Extract(filePath, Options{})
			if err != nil {
				t.Fatalf("pdfcpu Extract() error = %v", err)
			}

			fromNative, err := NativeExtractor{}.Extract(filePath, Options{})
			if err != nil {
				t.Fatalf("native Extract() error = %v", err)
			}

			if fromPdfcpu.TotalPages <= 0 {
				t.Errorf("TotalPages = %d, want positive", fromPdfcpu.TotalPages)
			}
			if diff := cmp.Diff(fromPdfcpu, fromNative); diff != "" {
				t.Errorf("backends disagree (-pdfcpu +native):\n%s", diff)
			}
		})
	}
}

func TestExtract_MissingFile(t *testing.T) {
	backends := []struct {
		name string
		ext  Extractor
	}{
		{BackendPdfcpu, PdfcpuExtractor{}},
		{BackendNative, NativeExtractor{}},
	}

	for _, tt := range backends {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.ext.Extract(filepath.Join(t.TempDir(), "missing.pdf"), Options{})
			if err == nil {
				t.Error("Expected error for missing file, got nil")
			}
		})
	}
}
