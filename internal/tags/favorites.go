package tags

// Favorites is the ordered set of tags the user pinned.
type Favorites struct {
	tags []string
}

// NewFavorites builds a set from tags, dropping duplicates and empty names.
func NewFavorites(tags []string) *Favorites {
	f := &Favorites{}
	for _, t := range tags {
		f.Add(t)
	}
	return f
}

// Add appends tag if absent. It reports whether the set changed.
func (f *Favorites) Add(tag string) bool {
	if tag == "" || f.Contains(tag) {
		return false
	}
	f.tags = append(f.tags, tag)
	return true
}

// Remove deletes tag. It reports whether the set changed.
func (f *Favorites) Remove(tag string) bool {
	for i, t := range f.tags {
		if t == tag {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether tag is pinned.
func (f *Favorites) Contains(tag string) bool {
	for _, t := range f.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// List returns the pinned tags in pin order.
func (f *Favorites) List() []string {
	out := make([]string, len(f.tags))
	copy(out, f.tags)
	return out
}

// Len returns the number of pinned tags.
func (f *Favorites) Len() int {
	return len(f.tags)
}

// Prune removes tags missing from ix and returns them.
func (f *Favorites) Prune(ix *Index) []string {
	var removed []string
	kept := f.tags[:0]
	for _, t := range f.tags {
		if ix.Has(t) {
			kept = append(kept, t)
		} else {
			removed = append(removed, t)
		}
	}
	f.tags = kept
	return removed
}
