package outline

import (
	"fmt"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"github.com/docketops/packetsplit/internal/logger"
	"github.com/docketops/packetsplit/models"
)

// maxOutlineItems caps the outline walk so a malformed file cannot
// drag it into an endless chain of fresh objects.
const maxOutlineItems = 65536

// NativeExtractor reads the outline with the pure-Go seehuhn reader.
// It trades pdfcpu's up-front validation for a lighter pass and serves
// as a second opinion when the default backend rejects a file.
type NativeExtractor struct{}

func (NativeExtractor) Extract(path string, opts Options) (*models.Sidecar, error) {
	log := opts.logger()

	r, err := pdf.Open(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer r.Close()

	catalog := r.GetMeta().Catalog
	if catalog == nil {
		return nil, fmt.Errorf("document has no catalog")
	}

	pageRefs, err := pagetree.FindPages(r)
	if err != nil {
		return nil, fmt.Errorf("failed to walk page tree: %w", err)
	}
	pages := make(map[pdf.Reference]int, len(pageRefs))
	for i, ref := range pageRefs {
		pages[ref] = i + 1
	}
	log.Debug("page lookup built with %d pages", len(pages))

	w := &nativeWalk{
		r:         r,
		catalog:   catalog,
		pages:     pages,
		seen:      map[pdf.Reference]bool{},
		log:       log,
		collector: newCollector(opts.recordLabel()),
	}
	if catalog.Outlines != 0 {
		w.seen[catalog.Outlines] = true
		root, err := pdf.GetDictTyped(r, catalog.Outlines, "Outlines")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve outline root: %w", err)
		}
		if root != nil {
			w.items(root["First"], "")
		}
	}

	return w.sidecar(len(pageRefs)), nil
}

type nativeWalk struct {
	r       *pdf.Reader
	catalog *pdf.Catalog
	pages   map[pdf.Reference]int
	seen    map[pdf.Reference]bool
	log     logger.Logger

	collector
}

// items walks a First/Next sibling chain, recursing into children with
// the current title as their parent.
func (w *nativeWalk) items(obj pdf.Object, parent string) {
	for obj != nil {
		if ref, ok := obj.(pdf.Reference); ok {
			if w.seen[ref] {
				return
			}
			w.seen[ref] = true
		}
		if len(w.seen) > maxOutlineItems {
			return
		}

		d, err := pdf.GetDict(w.r, obj)
		if err != nil || d == nil {
			return
		}

		title := ""
		if t, err := pdf.GetTextString(w.r, d["Title"]); err == nil {
			title = string(t)
		}

		page := w.resolvePage(d)
		if page == nil {
			w.log.Debug("unresolved destination for outline item %q", title)
		}
		w.add(parent, title, page)

		if d["First"] != nil {
			w.items(d["First"], title)
		}

		if d["Next"] == nil {
			return
		}
		obj = d["Next"]
	}
}

// resolvePage resolves an outline item's target page from /Dest or
// from a GoTo action's /D, returning nil on any failure.
func (w *nativeWalk) resolvePage(item pdf.Dict) *int {
	if item["Dest"] != nil {
		return w.destPage(item["Dest"])
	}

	if item["A"] == nil {
		return nil
	}
	action, err := pdf.GetDict(w.r, item["A"])
	if err != nil || action == nil {
		return nil
	}
	if s, err := pdf.GetName(w.r, action["S"]); err != nil || (s != "" && s != "GoTo") {
		return nil
	}
	if action["D"] != nil {
		return w.destPage(action["D"])
	}
	return nil
}

// destPage handles the three destination forms: an explicit array, a
// name object, or a byte string naming a stored destination.
func (w *nativeWalk) destPage(obj pdf.Object) *int {
	o, err := pdf.Resolve(w.r, obj)
	if err != nil || o == nil {
		return nil
	}
	switch dest := o.(type) {
	case pdf.Array:
		return w.arrayDestPage(dest)
	case pdf.Name:
		return w.namedDestPage(string(dest))
	case pdf.String:
		s, err := pdf.GetTextString(w.r, dest)
		if err != nil {
			return nil
		}
		return w.namedDestPage(string(s))
	}
	return nil
}

func (w *nativeWalk) arrayDestPage(arr pdf.Array) *int {
	if len(arr) == 0 {
		return nil
	}
	ref, ok := arr[0].(pdf.Reference)
	if !ok {
		return nil
	}
	if n, ok := w.pages[ref]; ok {
		return &n
	}
	return nil
}

// namedDestPage looks a destination name up in the catalog's /Dests
// dictionary first, then in the /Names name tree.
func (w *nativeWalk) namedDestPage(name string) *int {
	if w.catalog.Dests != nil {
		if dests, err := pdf.GetDict(w.r, w.catalog.Dests); err == nil && dests != nil {
			if target, ok := dests[pdf.Name(name)]; ok {
				return w.destValuePage(target)
			}
		}
	}

	if w.catalog.Names == nil {
		return nil
	}
	names, err := pdf.GetDict(w.r, w.catalog.Names)
	if err != nil || names == nil {
		return nil
	}
	if names["Dests"] == nil {
		return nil
	}
	return w.nameTreePage(names["Dests"], name, map[pdf.Reference]bool{})
}

// destValuePage unwraps a named destination's value, either the
// destination array itself or a dictionary carrying it under /D.
func (w *nativeWalk) destValuePage(obj pdf.Object) *int {
	o, err := pdf.Resolve(w.r, obj)
	if err != nil || o == nil {
		return nil
	}
	switch v := o.(type) {
	case pdf.Array:
		return w.arrayDestPage(v)
	case pdf.Dict:
		if v["D"] != nil {
			if arr, err := pdf.GetArray(w.r, v["D"]); err == nil {
				return w.arrayDestPage(arr)
			}
		}
	}
	return nil
}

// nameTreePage searches a name tree node for name.
func (w *nativeWalk) nameTreePage(obj pdf.Object, name string, seen map[pdf.Reference]bool) *int {
	if ref, ok := obj.(pdf.Reference); ok {
		if seen[ref] {
			return nil
		}
		seen[ref] = true
	}

	node, err := pdf.GetDict(w.r, obj)
	if err != nil || node == nil {
		return nil
	}

	if node["Names"] != nil {
		pairs, err := pdf.GetArray(w.r, node["Names"])
		if err != nil {
			return nil
		}
		for i := 0; i+1 < len(pairs); i += 2 {
			key, err := pdf.GetTextString(w.r, pairs[i])
			if err != nil {
				continue
			}
			if string(key) == name {
				return w.destValuePage(pairs[i+1])
			}
		}
	}

	if node["Kids"] != nil {
		kids, err := pdf.GetArray(w.r, node["Kids"])
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
