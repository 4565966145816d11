package models

import "time"

// Level classifies a bookmark within the two-level outline subset the
// tool extracts: flat top-level sections, plus the children of the
// record container section.
type Level string

const (
	LevelTop        Level = "top"
	LevelRecordItem Level = "record_item"
)

// DefaultRecordLabel is the conventional title of the record container
// section. Its children are extracted individually; the container
// itself never becomes an output document.
const DefaultRecordLabel = "Record"

// Bookmark is one outline entry together with its resolved destination
// page. Page is 1-indexed and nil when the destination could not be
// resolved (missing, malformed, or pointing outside the page tree).
type Bookmark struct {
	Name  string `json:"name" yaml:"name"`
	Page  *int   `json:"page" yaml:"page"`
	Level Level  `json:"level" yaml:"level"`
}

// Sidecar is the hand-off artifact between bookmark extraction and
// splitting. Both bookmark slices preserve outline-traversal order;
// span inference depends on that ordering.
type Sidecar struct {
	TotalPages  int        `json:"total_pages" yaml:"total_pages"`
	TopLevel    []Bookmark `json:"top_level" yaml:"top_level"`
	RecordItems []Bookmark `json:"record_items" yaml:"record_items"`
}

// DocumentSpan is a derived page range for one output document.
// Start and End are inclusive and 1-indexed. End may be less than
// Start when the source bookmarks were not strictly increasing; such
// spans yield zero pages.
type DocumentSpan struct {
	Name     string `json:"name" yaml:"name"`
	Filename string `json:"filename" yaml:"filename"`
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
}

// Pages returns the number of pages the span covers, zero for empty
// or inverted spans.
func (s DocumentSpan) Pages() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start + 1
}

// RunRecord is one completed split run as stored in the catalog.
type RunRecord struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source"`
	Sidecar     string    `json:"sidecar"`
	OutputDir   string    `json:"output_dir"`
	TotalPages  int       `json:"total_pages"`
	Documents   int       `json:"documents"`
	PagesCopied int       `json:"pages_copied"`
	Skipped     int       `json:"skipped"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// RunDocument is one output document within a recorded run.
type RunDocument struct {
	RunID     int64  `json:"run_id"`
	Position  int    `json:"position"`
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
	Pages     int    `json:"pages"`
}
