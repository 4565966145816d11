package outline

import (
	"fmt"

	"github.com/docketops/packetsplit/internal/logger"
	"github.com/docketops/packetsplit/models"
)

// Backend names accepted by ForBackend.
const (
	BackendPdfcpu = "pdfcpu"
	BackendNative = "native"
)

// Options controls how the outline is read and partitioned.
type Options struct {
	// RecordLabel is the title of the record container bookmark.
	// Children of a bookmark with this exact title become record
	// items. Empty means models.DefaultRecordLabel.
	RecordLabel string

	// Logger receives diagnostics. Nil means no logging.
	Logger logger.Logger
}

func (o Options) recordLabel() string {
	if o.RecordLabel == "" {
		return models.DefaultRecordLabel
	}
	return o.RecordLabel
}

func (o Options) logger() logger.Logger {
	if o.Logger == nil {
		return logger.NewNoOpLogger()
	}
	return o.Logger
}

// Extractor reads a PDF's outline and flattens the two-level subset
// the splitter understands: flat top-level sections plus the children
// of the record container. Deeper nesting is ignored.
type Extractor interface {
	Extract(path string, opts Options) (*models.Sidecar, error)
}

// ForBackend returns the extractor registered under name. An empty
// name selects the pdfcpu backend.
func ForBackend(name string) (Extractor, error) {
	switch name {
	case "", BackendPdfcpu:
		return PdfcpuExtractor{}, nil
	case BackendNative:
		return NativeExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown outline backend %q (expected %q or %q)", name, BackendPdfcpu, BackendNative)
	}
}

// collector accumulates partitioned bookmarks in traversal order.
// Items whose parent is the outline root are top-level; direct
// children of the record container are record items; everything else
// is dropped.
type collector struct {
	recordLabel string
	topLevel    []models.Bookmark
	recordItems []models.Bookmark
}

func newCollector(recordLabel string) collector {
	return collector{
		recordLabel: recordLabel,
		topLevel:    []models.Bookmark{},
		recordItems: []models.Bookmark{},
	}
}

func (c *collector) add(parent, name string, page *int) {
	switch parent {
	case "":
		c.topLevel = append(c.topLevel, models.Bookmark{Name: name, Page: page, Level: models.LevelTop})
	case c.recordLabel:
		c.recordItems = append(c.recordItems, models.Bookmark{Name: name, Page: page, Level: models.LevelRecordItem})
	}
}

func (c *collector) sidecar(totalPages int) *models.Sidecar {
	return &models.Sidecar{
		TotalPages:  totalPages,
		TopLevel:    c.topLevel,
		RecordItems: c.recordItems,
	}
}
