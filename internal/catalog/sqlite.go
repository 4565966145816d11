package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/docketops/packetsplit/models"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables if they don't exist
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		sidecar TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		total_pages INTEGER NOT NULL,
		documents INTEGER NOT NULL,
		pages_copied INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_documents (
		run_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		filename TEXT NOT NULL,
		start_page INTEGER NOT NULL,
		end_page INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		PRIMARY KEY (run_id, position),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores a run and its documents in one transaction
func (s *SQLiteStore) RecordRun(ctx context.Context, run *models.RunRecord, docs []models.RunDocument) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (source, sidecar, output_dir, total_pages, documents, pages_copied, skipped, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Source, run.Sidecar, run.OutputDir, run.TotalPages, run.Documents,
		run.PagesCopied, run.Skipped, run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, doc := range docs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_documents (run_id, position, name, filename, start_page, end_page, pages)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, runID, doc.Position, doc.Name, doc.Filename, doc.StartPage, doc.EndPage, doc.Pages)
		if err != nil {
			return 0, fmt.Errorf("failed to insert document %d: %w", doc.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return runID, nil
}

// ListRuns returns recorded runs, newest first
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	query := `
		SELECT id, source, sidecar, output_dir, total_pages, documents, pages_copied, skipped, started_at, finished_at
		FROM runs
		ORDER BY id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunRecord
	for rows.Next() {
		var run models.RunRecord
		if err := rows.Scan(&run.ID, &run.Source, &run.Sidecar, &run.OutputDir,
			&run.TotalPages, &run.Documents, &run.PagesCopied, &run.Skipped,
			&run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// RunDocuments returns the documents of one run in extraction order
func (s *SQLiteStore) RunDocuments(ctx context.Context, runID int64) ([]models.RunDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, position, name, filename, start_page, end_page, pages
		FROM run_documents
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run documents: %w", err)
	}
	defer rows.Close()

	var docs []models.RunDocument
	for rows.Next() {
		var doc models.RunDocument
		if err := rows.Scan(&doc.RunID, &doc.Position, &doc.Name, &doc.Filename,
			&doc.StartPage, &doc.EndPage, &doc.Pages); err != nil {
			return nil, fmt.Errorf("failed to scan run document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run documents: %w", err)
	}

	return docs, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
