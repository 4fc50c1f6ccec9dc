package notes

// Dismissed is the set of entry keys the user ticked off. Keys are kept
// even when their entry disappears, so an entry that comes back keeps its
// state.
type Dismissed struct {
	keys  map[string]struct{}
	order []string
}

// NewDismissed builds the set from persisted keys.
func NewDismissed(keys []string) *Dismissed {
	d := &Dismissed{keys: make(map[string]struct{})}
	for _, k := range keys {
		if _, ok := d.keys[k]; !ok && k != "" {
			d.keys[k] = struct{}{}
			d.order = append(d.order, k)
		}
	}
	return d
}

// Has reports whether key is dismissed.
func (d *Dismissed) Has(key string) bool {
	_, ok := d.keys[key]
	return ok
}

// Toggle flips key and returns its new state.
func (d *Dismissed) Toggle(key string) bool {
	if d.Has(key) {
		delete(d.keys, key)
		for i, k := range d.order {
			if k == key {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
		return false
	}
	d.keys[key] = struct{}{}
	d.order = append(d.order, key)
	return true
}

// Keys returns the dismissed keys in the order they were added.
func (d *Dismissed) Keys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Visible filters entries, dropping dismissed ones when hide is set.
func (d *Dismissed) Visible(entries []Entry, hide bool) []Entry {
	if !hide {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !d.Has(e.Key()) {
			out = append(out, e)
		}
	}
	return out
}
