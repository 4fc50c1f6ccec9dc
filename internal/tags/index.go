package tags

import "github.com/dshills/scriptmarks/internal/palette"

// Index maps tag names to their occurrences in scan order.
type Index struct {
	byTag map[string][]*Occurrence
	order []string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byTag: make(map[string][]*Occurrence)}
}

func (ix *Index) add(o *Occurrence) {
	if _, ok := ix.byTag[o.Tag]; !ok {
		ix.order = append(ix.order, o.Tag)
	}
	ix.byTag[o.Tag] = append(ix.byTag[o.Tag], o)
}

// Tags returns tag names in first-seen order.
func (ix *Index) Tags() []string {
	out := make([]string, len(ix.order))
	copy(out, ix.order)
	return out
}

// Len returns the number of distinct tags.
func (ix *Index) Len() int {
	return len(ix.order)
}

// Has reports whether tag has at least one occurrence.
func (ix *Index) Has(tag string) bool {
	_, ok := ix.byTag[tag]
	return ok
}

// Occurrences returns the occurrences of tag in scan order. The slice is
// shared with the index and must not be modified.
func (ix *Index) Occurrences(tag string) []*Occurrence {
	return ix.byTag[tag]
}

// Count returns the number of occurrences of tag, notepad ones included.
func (ix *Index) Count(tag string) int {
	return len(ix.byTag[tag])
}

// InDocument returns the occurrences of tag that have a document position.
func (ix *Index) InDocument(tag string) []*Occurrence {
	var out []*Occurrence
	for _, o := range ix.byTag[tag] {
		if o.InDocument() {
			out = append(out, o)
		}
	}
	return out
}

// IsSpecial reports whether tag was declared through a beat or storyline
// label anywhere in the document.
func (ix *Index) IsSpecial(tag string) bool {
	for _, o := range ix.byTag[tag] {
		if o.Special {
			return true
		}
	}
	return false
}

// Result is the output of a scan.
type Result struct {
	Index *Index
	// All holds every occurrence in scan order, notepad ones last.
	All []*Occurrence
}

// Targets returns All as palette targets for recolouring.
func (r *Result) Targets() []palette.Target {
	out := make([]palette.Target, len(r.All))
	for i, o := range r.All {
		out[i] = o
	}
	return out
}

// Empty returns a result with no occurrences.
func Empty() *Result {
	return &Result{Index: NewIndex()}
}
