package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/docketops/packetsplit/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func testRun(source string) *models.RunRecord {
	started := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)
	return &models.RunRecord{
		Source:      source,
		Sidecar:     "bookmarks.json",
		OutputDir:   "split_output",
		TotalPages:  618,
		Documents:   57,
		PagesCopied: 618,
		Skipped:     0,
		StartedAt:   started,
		FinishedAt:  started.Add(42 * time.Second),
	}
}

func TestSQLiteStore_RecordAndListRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.RecordRun(ctx, testRun("packet-a.pdf"), nil)
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	second, err := store.RecordRun(ctx, testRun("packet-b.pdf"), nil)
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if second <= first {
		t.Errorf("run IDs not increasing: first = %d, second = %d", first, second)
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns() = %d runs, want 2", len(runs))
	}

	// Newest first.
	if runs[0].Source != "packet-b.pdf" || runs[1].Source != "packet-a.pdf" {
		t.Errorf("ListRuns() order = %s, %s; want packet-b.pdf, packet-a.pdf",
			runs[0].Source, runs[1].Source)
	}

	got := runs[1]
	want := testRun("packet-a.pdf")
	if got.TotalPages != want.TotalPages || got.Documents != want.Documents ||
		got.PagesCopied != want.PagesCopied || got.Skipped != want.Skipped {
		t.Errorf("ListRuns() counters = %+v, want %+v", got, want)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
	}
	if !got.FinishedAt.Equal(want.FinishedAt) {
		t.Errorf("FinishedAt = %v, want %v", got.FinishedAt, want.FinishedAt)
	}
}

func TestSQLiteStore_ListRunsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, source := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		if _, err := store.RecordRun(ctx, testRun(source), nil); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns(2) = %d runs, want 2", len(runs))
	}
	if runs[0].Source != "c.pdf" {
		t.Errorf("ListRuns(2) first = %s, want c.pdf", runs[0].Source)
	}
}

func TestSQLiteStore_EmptyList(t *testing.T) {
	store := newTestStore(t)

	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("ListRuns() = %d runs, want 0", len(runs))
	}
}

func TestSQLiteStore_RunDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []models.RunDocument{
		{Position: 1, Name: "Memo", Filename: "Memo.pdf", StartPage: 1, EndPage: 12, Pages: 12},
		{Position: 2, Name: "R01 Complaint", Filename: "R01 Complaint.pdf", StartPage: 40, EndPage: 54, Pages: 15},
	}

	runID, err := store.RecordRun(ctx, testRun("packet.pdf"), docs)
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	got, err := store.RunDocuments(ctx, runID)
	if err != nil {
		t.Fatalf("RunDocuments() error = %v", err)
	}

	want := make([]models.RunDocument, len(docs))
	copy(want, docs)
	for i := range want {
		want[i].RunID = runID
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RunDocuments() mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_RunDocumentsUnknownRun(t *testing.T) {
	store := newTestStore(t)

	docs, err := store.RunDocuments(context.Background(), 999)
	if err != nil {
		t.Fatalf("RunDocuments() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("RunDocuments(999) = %d documents, want 0", len(docs))
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if _, err := store.RecordRun(ctx, testRun("packet.pdf"), nil); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening runs schema creation again and keeps existing rows.
	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() reopen error = %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("ListRuns() after reopen = %d runs, want 1", len(runs))
	}
}
