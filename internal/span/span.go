package span

import (
	"errors"
	"fmt"

	"github.com/docketops/packetsplit/models"
)

// ErrUnresolvedPage marks a bookmark whose destination page is null in
// the sidecar. Span arithmetic needs every page in a partition, so a
// single unresolved bookmark fails the whole plan.
var ErrUnresolvedPage = errors.New("bookmark page is unresolved")

// Plan derives one document span per bookmark from the sidecar's two
// partitions.
// Rules:
// - a span starts at its bookmark's page
// - it ends one page before the next bookmark of the same partition
// - the last top-level span ends one page before the first record
//   item, or at the last page of the document when no record items
//   exist
// - the last record span ends at the last page of the document
// The record container entry in the top-level partition is skipped;
// its children carry its content. Bookmarks that are not strictly
// increasing produce empty spans (End before Start); the splitter
// skips those rather than treating them as errors.
func Plan(sc *models.Sidecar, recordLabel string) ([]models.DocumentSpan, error) {
	if recordLabel == "" {
		recordLabel = models.DefaultRecordLabel
	}

	// The record container is a grouping node, not a document.
	tops := make([]models.Bookmark, 0, len(sc.TopLevel))
	for _, b := range sc.TopLevel {
		if b.Name == recordLabel {
			continue
		}
		tops = append(tops, b)
	}

	spans := make([]models.DocumentSpan, 0, len(tops)+len(sc.RecordItems))

	for i, b := range tops {
		start, err := resolvedPage(b)
		if err != nil {
			return nil, err
		}

		var end int
		switch {
		case i+1 < len(tops):
			next, err := resolvedPage(tops[i+1])
			if err != nil {
				return nil, err
			}
			end = next - 1
		case len(sc.RecordItems) > 0:
			first, err := resolvedPage(sc.RecordItems[0])
			if err != nil {
				return nil, err
			}
			end = first - 1
		default:
			end = sc.TotalPages
		}

		spans = append(spans, models.DocumentSpan{
			Name:     b.Name,
			Filename: Filename(b.Name),
			Start:    start,
			End:      end,
		})
	}

	for i, b := range sc.RecordItems {
		start, err := resolvedPage(b)
		if err != nil {
			return nil, err
		}

		end := sc.TotalPages
		if i+1 < len(sc.RecordItems) {
			next, err := resolvedPage(sc.RecordItems[i+1])
			if err != nil {
				return nil, err
			}
			end = next - 1
		}

		spans = append(spans, models.DocumentSpan{
			Name:     b.Name,
			Filename: Filename(b.Name),
			Start:    start,
			End:      end,
		})
	}

	return spans, nil
}

func resolvedPage(b models.Bookmark) (int, error) {
	if b.Page == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnresolvedPage, b.Name)
	}
	return *b.Page, nil
}
