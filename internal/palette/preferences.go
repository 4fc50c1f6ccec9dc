package palette

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

// DefaultFallback is the highlight colour for tags without a preference.
var DefaultFallback = Color{R: 0xfe, G: 0xfb, B: 0xc0}

// ErrMalformedPreferences is returned by DecodePreferences when persisted data
// does not have the expected shape.
var ErrMalformedPreferences = errors.New("malformed color preferences")

// Preferences maps tag names to user-chosen colours.
type Preferences struct {
	colors   map[string]Color
	fallback Color
}

// NewPreferences returns an empty preference set with the given fallback.
func NewPreferences(fallback Color) *Preferences {
	return &Preferences{
		colors:   make(map[string]Color),
		fallback: fallback,
	}
}

// Resolve returns the preferred colour of tag, or the fallback.
func (p *Preferences) Resolve(tag string) Color {
	if c, ok := p.colors[tag]; ok {
		return c
	}
	return p.fallback
}

// Get returns the explicit preference for tag.
func (p *Preferences) Get(tag string) (Color, bool) {
	c, ok := p.colors[tag]
	return c, ok
}

// Set records a preference.
func (p *Preferences) Set(tag string, c Color) {
	p.colors[tag] = c
}

// Replace swaps every preference for m.
func (p *Preferences) Replace(m map[string]Color) {
	p.colors = make(map[string]Color, len(m))
	for k, v := range m {
		p.colors[k] = v
	}
}

// Fallback returns the colour used for tags without a preference.
func (p *Preferences) Fallback() Color {
	return p.fallback
}

// Tags returns the tags with explicit preferences, sorted.
func (p *Preferences) Tags() []string {
	tags := make([]string, 0, len(p.colors))
	for t := range p.colors {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Encode returns the preferences as a tag -> "#rrggbb" map for persistence.
func (p *Preferences) Encode() map[string]string {
	out := make(map[string]string, len(p.colors))
	for k, v := range p.colors {
		out[k] = v.Hex()
	}
	return out
}

// DecodePreferences validates persisted preferences. The value must be a JSON
// object whose members are all hex colour strings; anything else is rejected
// as a whole so that a half-valid map never leaks into the UI.
func DecodePreferences(raw gjson.Result) (map[string]Color, error) {
	if !raw.Exists() {
		return map[string]Color{}, nil
	}
	if !raw.IsObject() {
		return nil, fmt.Errorf("%w: want object, got %s", ErrMalformedPreferences, raw.Type)
	}

	out := make(map[string]Color)
	var bad error
	raw.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			bad = fmt.Errorf("%w: %q is %s", ErrMalformedPreferences, key.String(), value.Type)
			return false
		}
		c, err := ParseHex(value.String())
		if err != nil {
			bad = fmt.Errorf("%w: %q: %v", ErrMalformedPreferences, key.String(), err)
			return false
		}
		out[key.String()] = c
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return out, nil
}
