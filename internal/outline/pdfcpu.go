package outline

import (
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/docketops/packetsplit/internal/logger"
	"github.com/docketops/packetsplit/models"
)

// PdfcpuExtractor reads the outline through pdfcpu's object model.
// This is the default backend: the document is validated up front and
// destinations are resolved against an index of the page tree, so a
// bookmark's page survives object renumbering and name indirection.
type PdfcpuExtractor struct{}

func (PdfcpuExtractor) Extract(path string, opts Options) (*models.Sidecar, error) {
	log := opts.logger()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read and validate PDF: %w", err)
	}

	root, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve document catalog: %w", err)
	}

	pages, err := pageNumbers(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to index page tree: %w", err)
	}
	log.Debug("page lookup built with %d pages", len(pages))

	w := &pdfcpuWalk{
		ctx:       ctx,
		root:      root,
		pages:     pages,
		seen:      map[int]bool{},
		log:       log,
		collector: newCollector(opts.recordLabel()),
	}
	if obj, ok := root.Find("Outlines"); ok {
		outlines, err := ctx.DereferenceDict(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve outline root: %w", err)
		}
		if outlines != nil {
			if first, ok := outlines.Find("First"); ok {
				w.items(first, "")
			}
		}
	}

	return w.sidecar(ctx.PageCount), nil
}

// pageNumbers maps page object numbers to 1-based page numbers in
// document order, the same association a viewer uses when it jumps to
// a destination.
func pageNumbers(ctx *model.Context, root types.Dict) (map[int]int, error) {
	obj, ok := root.Find("Pages")
	if !ok {
		return nil, errors.New("document catalog has no page tree")
	}
	pages := map[int]int{}
	if err := walkPageTree(ctx, obj, map[int]bool{}, pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func walkPageTree(ctx *model.Context, obj types.Object, seen map[int]bool, pages map[int]int) error {
	ref, isRef := obj.(types.IndirectRef)
	if isRef {
		objNr := ref.ObjectNumber.Value()
		if seen[objNr] {
			return nil
		}
		seen[objNr] = true
	}

	d, err := ctx.DereferenceDict(obj)
	if err != nil {
		return err
	}
	if d == nil {
		return nil
	}

	if kidsObj, ok := d.Find("Kids"); ok {
		kids, err := ctx.DereferenceArray(kidsObj)
		if err != nil {
			return err
		}
		for _, kid := range kids {
			if err := walkPageTree(ctx, kid, seen, pages); err != nil {
				return err
			}
		}
		return nil
	}

	// Leaf page node. Destinations reference pages indirectly, so a
	// page reached through a direct dict can never be a target and is
	// left out of the lookup.
	if isRef {
		pages[ref.ObjectNumber.Value()] = len(pages) + 1
	}
	return nil
}

type pdfcpuWalk struct {
	ctx   *model.Context
	root  types.Dict
	pages map[int]int
	seen  map[int]bool
	log   logger.Logger

	collector
}

// items walks a First/Next sibling chain, recursing into children with
// the current title as their parent. The seen set is shared across the
// whole walk so a malformed outline cannot loop it.
func (w *pdfcpuWalk) items(obj types.Object, parent string) {
	for obj != nil {
		if ref, ok := obj.(types.IndirectRef); ok {
			objNr := ref.ObjectNumber.Value()
			if w.seen[objNr] {
				return
			}
			w.seen[objNr] = true
		}

		d, err := w.ctx.DereferenceDict(obj)
		if err != nil || d == nil {
			return
		}

		title := ""
		if t, ok := d.Find("Title"); ok {
			if s, err := w.ctx.DereferenceText(t); err == nil {
				title = s
			}
		}

		page := w.resolvePage(d)
		if page == nil {
			w.log.Debug("unresolved destination for outline item %q", title)
		}
		w.add(parent, title, page)

		if first, ok := d.Find("First"); ok {
			w.items(first, title)
		}

		next, ok := d.Find("Next")
		if !ok {
			return
		}
		obj = next
	}
}

// resolvePage resolves an outline item's target page from its /Dest
// entry or from a GoTo action's /D. Nil means the destination is
// absent, malformed, or points outside the page tree; the entry is
// still recorded and the page ends up as null in the sidecar.
func (w *pdfcpuWalk) resolvePage(item types.Dict) *int {
	if dest, ok := item.Find("Dest"); ok {
		return w.destPage(dest)
	}

	a, ok := item.Find("A")
	if !ok {
		return nil
	}
	action, err := w.ctx.DereferenceDict(a)
	if err != nil || action == nil {
		return nil
	}
	if s, ok := action.Find("S"); ok {
		o, err := w.ctx.Dereference(s)
		if err != nil {
			return nil
		}
		if name, ok := o.(types.Name); !ok || name.Value() != "GoTo" {
			return nil
		}
	}
	if dest, ok := action.Find("D"); ok {
		return w.destPage(dest)
	}
	return nil
}

// destPage handles the three destination forms PDF allows: an explicit
// array, a name object, or a byte string naming an entry in the
// catalog's destination collections.
func (w *pdfcpuWalk) destPage(obj types.Object) *int {
	o, err := w.ctx.Dereference(obj)
	if err != nil || o == nil {
		return nil
	}
	switch dest := o.(type) {
	case types.Array:
		return w.arrayDestPage(dest)
	case types.Name:
		return w.namedDestPage(dest.Value())
	case types.StringLiteral, types.HexLiteral:
		s, err := w.ctx.DereferenceText(o)
		if err != nil {
			return nil
		}
		return w.namedDestPage(s)
	}
	return nil
}

func (w *pdfcpuWalk) arrayDestPage(arr types.Array) *int {
	if len(arr) == 0 {
		return nil
	}
	ref, ok := arr[0].(types.IndirectRef)
	if !ok {
		return nil
	}
	if n, ok := w.pages[ref.ObjectNumber.Value()]; ok {
		return &n
	}
	return nil
}

// namedDestPage looks a destination name up in the catalog's /Dests
// dictionary first, then in the /Names name tree.
func (w *pdfcpuWalk) namedDestPage(name string) *int {
	if destsObj, ok := w.root.Find("Dests"); ok {
		if dests, err := w.ctx.DereferenceDict(destsObj); err == nil && dests != nil {
			if target, ok := dests.Find(name); ok {
				return w.destValuePage(target)
			}
		}
	}

	namesObj, ok := w.root.Find("Names")
	if !ok {
		return nil
	}
	names, err := w.ctx.DereferenceDict(namesObj)
	if err != nil || names == nil {
		return nil
	}
	tree, ok := names.Find("Dests")
	if !ok {
		return nil
	}
	return w.nameTreePage(tree, name, map[int]bool{})
}

// destValuePage unwraps a named destination's value, either the
// destination array itself or a dictionary carrying it under /D.
func (w *pdfcpuWalk) destValuePage(obj types.Object) *int {
	o, err := w.ctx.Dereference(obj)
	if err != nil || o == nil {
		return nil
	}
	switch v := o.(type) {
	case types.Array:
		return w.arrayDestPage(v)
	case types.Dict:
		if d, ok := v.Find("D"); ok {
			if arr, err := w.ctx.DereferenceArray(d); err == nil {
				return w.arrayDestPage(arr)
			}
		}
	}
	return nil
}

// nameTreePage searches a name tree node for name. Keys inside a
// /Names array are sorted, but trees at outline scale do not justify
// more than a linear scan.
func (w *pdfcpuWalk) nameTreePage(obj types.Object, name string, seen map[int]bool) *int {
	if ref, ok := obj.(types.IndirectRef); ok {
		objNr := ref.ObjectNumber.Value()
		if seen[objNr] {
			return nil
		}
		seen[objNr] = true
	}

	node, err := w.ctx.DereferenceDict(obj)
	if err != nil || node == nil {
		return nil
	}

	if namesObj, ok := node.Find("Names"); ok {
		pairs, err := w.ctx.DereferenceArray(namesObj)
		if err != nil {
			return nil
		}
		for i := 0; i+1 < len(pairs); i += 2 {
			key, err := w.ctx.DereferenceText(pairs[i])
			if err != nil {
				continue
			}
			if key == name {
				return w.destValuePage(pairs[i+1])
			}
		}
	}

	if kidsObj, ok := node.Find("Kids"); ok {
		kids, err := w.ctx.DereferenceArray(kidsObj)
		if err != nil {
			return nil
		}
		for _, kid := range kids {
			if p := w.nameTreePage(kid, name, seen); p != nil {
				return p
			}
		}
	}
	return nil
}
