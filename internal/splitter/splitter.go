package splitter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docketops/packetsplit/internal/logger"
	"github.com/docketops/packetsplit/models"
)

// DefaultOutputDir receives the split documents unless the caller
// chooses another directory.
const DefaultOutputDir = "split_output"

// Options controls a split run.
type Options struct {
	// OutputDir receives one PDF per span. Empty means
	// DefaultOutputDir. The directory is created if needed.
	OutputDir string

	// Progress receives one line per document as it is extracted.
	// Nil discards progress.
	Progress io.Writer

	// Logger receives diagnostics. Nil means no logging.
	Logger logger.Logger
}

func (o Options) outputDir() string {
	if o.OutputDir == "" {
		return DefaultOutputDir
	}
	return o.OutputDir
}

func (o Options) progress() io.Writer {
	if o.Progress == nil {
		return io.Discard
	}
	return o.Progress
}

func (o Options) logger() logger.Logger {
	if o.Logger == nil {
		return logger.NewNoOpLogger()
	}
	return o.Logger
}

// Result tallies a finished split run. Documents lists every planned
// span in order, including skipped ones.
type Result struct {
	OutputDir   string
	Written     int
	Skipped     int
	PagesCopied int
	Documents   []models.RunDocument
}

// Tally groups a run's documents into the categories a memo packet
// conventionally contains. A document can land in more than one
// bucket; Total counts each document once.
type Tally struct {
	Memo        int
	Briefs      int
	ROA         int
	RecordItems int
	Total       int
}

// Tally classifies the run's documents by name: "Memo", "Brief" and
// "ROA" substrings mark the top-level documents, and an R-number
// prefix (R1, R42, ...) marks record items.
func (r *Result) Tally() Tally {
	t := Tally{Total: len(r.Documents)}
	for _, d := range r.Documents {
		if strings.Contains(d.Name, "Memo") {
			t.Memo++
		}
		if strings.Contains(d.Name, "Brief") {
			t.Briefs++
		}
		if strings.Contains(d.Name, "ROA") {
			t.ROA++
		}
		if len(d.Name) >= 2 && d.Name[0] == 'R' && d.Name[1] >= '0' && d.Name[1] <= '9' {
			t.RecordItems++
		}
	}
	return t
}

// Split copies one page range per span out of the source PDF. Spans
// are processed in order. An empty span (End before Start) writes no
// file and is counted as skipped; a failed write aborts the run and
// leaves the files written so far in place.
func Split(source string, spans []models.DocumentSpan, opts Options) (*Result, error) {
	log := opts.logger()
	progress := opts.progress()
	outDir := opts.outputDir()

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source PDF: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read and validate PDF: %w", err)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	seen := make(map[string]bool, len(spans))
	result := &Result{OutputDir: outDir}

	for i, sp := range spans {
		fmt.Fprintf(progress, "[%d/%d] Extracting: %s (pages %d-%d)\n", i+1, len(spans), sp.Name, sp.Start, sp.End)

		result.Documents = append(result.Documents, models.RunDocument{
			Position:  i + 1,
			Name:      sp.Name,
			Filename:  sp.Filename,
			StartPage: sp.Start,
			EndPage:   sp.End,
			Pages:     sp.Pages(),
		})

		if sp.End < sp.Start {
			log.Warn("skipping %q: empty page range %d-%d", sp.Name, sp.Start, sp.End)
			result.Skipped++
			continue
		}

		if seen[sp.Filename] {
			log.Warn("duplicate filename %s overwrites an earlier document", sp.Filename)
		}
		seen[sp.Filename] = true

		if err := writeRange(ctx, sp, filepath.Join(outDir, sp.Filename)); err != nil {
			return result, fmt.Errorf("failed to extract %q: %w", sp.Name, err)
		}
		result.Written++
		result.PagesCopied += sp.Pages()
	}

	return result, nil
}

// writeRange extracts the span's pages into a fresh context and writes
// it out as a standalone PDF.
func writeRange(ctx *model.Context, sp models.DocumentSpan, path string) error {
	pages := make([]int, 0, sp.End-sp.Start+1)
	for p := sp.Start; p <= sp.End; p++ {
		pages = append(pages, p)
	}

	extracted, err := pdfcpu.ExtractPages(ctx, pages, false)
	if err != nil {
		return fmt.Errorf("failed to extract pages %d-%d: %w", sp.Start, sp.End, err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := api.WriteContext(extracted, out); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
