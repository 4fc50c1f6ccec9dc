package palette

import "github.com/dshills/scriptmarks/internal/host"

// Target is something on screen whose colour follows a tag preference.
type Target interface {
	// TagName returns the tag whose preference applies.
	TagName() string
	// Span returns the document range; a negative start means the target
	// has no document position and gets no highlight.
	Span() (start, length int)
	// SetColor caches the colour currently displayed.
	SetColor(hex string)
}

// Reconciler keeps displayed highlight colours in line with the preferences
// and the active theme's text colour.
type Reconciler struct {
	prefs      *Preferences
	hl         host.Highlighter
	foreground Color
	opts       ContrastOptions
}

// NewReconciler creates a reconciler drawing on prefs and painting through hl.
func NewReconciler(prefs *Preferences, hl host.Highlighter, foreground Color, opts ContrastOptions) *Reconciler {
	return &Reconciler{
		prefs:      prefs,
		hl:         hl,
		foreground: foreground,
		opts:       opts,
	}
}

// SetForeground changes the text colour contrast is measured against.
func (r *Reconciler) SetForeground(fg Color) {
	r.foreground = fg
}

// Foreground returns the current text colour.
func (r *Reconciler) Foreground() Color {
	return r.foreground
}

// Display returns the colour to paint for tag: the resolved preference,
// adjusted for contrast. The stored preference is never modified.
func (r *Reconciler) Display(tag string) Color {
	return EnsureContrast(r.prefs.Resolve(tag), r.foreground, r.opts)
}

// DisplayHex is Display formatted as "#rrggbb".
func (r *Reconciler) DisplayHex(tag string) string {
	return r.Display(tag).Hex()
}

// ReapplyAll recomputes, clears and re-paints every target.
func (r *Reconciler) ReapplyAll(targets []Target) {
	for _, t := range targets {
		hex := r.DisplayHex(t.TagName())
		if start, length := t.Span(); start >= 0 {
			r.hl.ClearHighlight(start, length)
			r.hl.SetHighlight(hex, start, length)
		}
		t.SetColor(hex)
	}
}

// ClearAll removes the highlight of every target.
func (r *Reconciler) ClearAll(targets []Target) {
	for _, t := range targets {
		if start, length := t.Span(); start >= 0 {
			r.hl.ClearHighlight(start, length)
		}
	}
}
