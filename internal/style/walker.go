package style

// Walker steps through findings for review.
type Walker struct {
	findings []Finding
	index    int
}

// NewWalker positions a walker before the first finding.
func NewWalker(findings []Finding) *Walker {
	return &Walker{findings: findings, index: -1}
}

// Next advances and returns the next finding. It stops at the last one.
func (w *Walker) Next() (Finding, bool) {
	if w.index+1 >= len(w.findings) {
		return Finding{}, false
	}
	w.index++
	return w.findings[w.index], true
}

// Prev steps back and returns the previous finding. It stops at the first.
func (w *Walker) Prev() (Finding, bool) {
	if w.index <= 0 {
		return Finding{}, false
	}
	w.index--
	return w.findings[w.index], true
}

// Position returns the 1-based index of the current finding and the total.
func (w *Walker) Position() (int, int) {
	return w.index + 1, len(w.findings)
}
