package cues

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

// ErrInvalidPreferences is returned when persisted cue preferences do not
// have the expected shape.
var ErrInvalidPreferences = errors.New("invalid cue preferences")

// Themes accepted in preferences.
const (
	ThemeDark   = "dark"
	ThemeLight  = "light"
	ThemeSystem = "system"
)

// Colors of the built-in cue types.
var builtin = map[string]string{
	"SOUND":      "#3498db",
	"LIGHT":      "#f39c12",
	"MUSIC":      "#e74c3c",
	"VIDEO":      "#9b59b6",
	"PROJECTION": "#1abc9c",
}

// palette is indexed by a hash of the type name for types without a
// built-in colour.
var palette = []string{
	"#3498db", "#e74c3c", "#f39c12", "#9b59b6", "#1abc9c",
	"#e67e22", "#16a085", "#27ae60", "#2980b9", "#8e44ad",
	"#c0392b", "#d35400", "#f39c12", "#2ecc71", "#3498db",
}

// TypePrefs are the display settings of one cue type.
type TypePrefs struct {
	Color     string `json:"color"`
	Enabled   bool   `json:"enabled"`
	Highlight bool   `json:"highlight"`
	Hide      bool   `json:"hide"`
}

// Preferences are the user's cue settings.
type Preferences struct {
	Theme            string
	ShowSceneContext bool
	GlobalHighlight  bool
	GlobalHide       bool
	Types            map[string]TypePrefs
}

// DefaultPreferences returns the settings used before anything is saved.
func DefaultPreferences() *Preferences {
	p := &Preferences{Theme: ThemeSystem, Types: make(map[string]TypePrefs)}
	for t, c := range builtin {
		p.Types[t] = TypePrefs{Color: c, Enabled: true}
	}
	return p
}

// DefaultColor returns the colour given to a newly seen cue type.
func DefaultColor(typ string) string {
	if c, ok := builtin[typ]; ok {
		return c
	}
	h := stringHash(typ)
	if h < 0 {
		h = -h
	}
	return palette[h%int64(len(palette))]
}

// stringHash reproduces the classic "hash * 31 + c" string hash as it
// behaves in JavaScript: the shift truncates to 32 bits, the subtraction
// and addition do not.
func stringHash(s string) int64 {
	var h int64
	for _, c := range utf16Units(s) {
		h = int64(c) + (int64(int32(uint32(h)<<5)) - h)
	}
	return h
}

func utf16Units(s string) []uint16 {
	var out []uint16
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		out = append(out, uint16(r))
	}
	return out
}

// Type returns the settings of typ, or defaults if it has none.
func (p *Preferences) Type(typ string) TypePrefs {
	if tp, ok := p.Types[typ]; ok {
		return tp
	}
	return TypePrefs{Color: DefaultColor(typ), Enabled: true, Highlight: p.GlobalHighlight, Hide: p.GlobalHide}
}

// Register adds default settings for types not seen before and reports
// whether anything was added.
func (p *Preferences) Register(types []string) bool {
	changed := false
	for _, t := range types {
		if _, ok := p.Types[t]; ok {
			continue
		}
		p.Types[t] = p.Type(t)
		changed = true
	}
	return changed
}

// SetGlobalHighlight sets the highlight flag of every type.
func (p *Preferences) SetGlobalHighlight(on bool) {
	p.GlobalHighlight = on
	for t, tp := range p.Types {
		tp.Highlight = on
		p.Types[t] = tp
	}
}

// SetGlobalHide sets the hide flag of every type.
func (p *Preferences) SetGlobalHide(on bool) {
	p.GlobalHide = on
	for t, tp := range p.Types {
		tp.Hide = on
		p.Types[t] = tp
	}
}

// HideChanged lists the types whose hide flag differs from old, sorted.
func (p *Preferences) HideChanged(old *Preferences) []string {
	seen := make(map[string]bool)
	var out []string
	check := func(t string) {
		if seen[t] {
			return
		}
		seen[t] = true
		if old.Type(t).Hide != p.Type(t).Hide {
			out = append(out, t)
		}
	}
	for t := range p.Types {
		check(t)
	}
	for t := range old.Types {
		check(t)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy.
func (p *Preferences) Clone() *Preferences {
	c := *p
	c.Types = make(map[string]TypePrefs, len(p.Types))
	for t, tp := range p.Types {
		c.Types[t] = tp
	}
	return &c
}

// Encode returns the flat object persisted in user defaults: the four
// global settings alongside one member per cue type.
func (p *Preferences) Encode() map[string]any {
	out := map[string]any{
		"theme":            p.Theme,
		"showSceneContext": p.ShowSceneContext,
		"globalHighlight":  p.GlobalHighlight,
		"globalHide":       p.GlobalHide,
	}
	for t, tp := range p.Types {
		out[t] = tp
	}
	return out
}

// MarshalJSON encodes p in its persisted form.
func (p *Preferences) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Encode())
}

func isGlobalKey(k string) bool {
	switch k {
	case "theme", "showSceneContext", "globalHighlight", "globalHide":
		return true
	}
	return false
}

// DecodePreferences validates persisted preferences and merges them over
// the defaults. Members that are not objects are ignored; an object member
// with a wrongly typed field rejects the whole value.
func DecodePreferences(raw gjson.Result) (*Preferences, error) {
	p := DefaultPreferences()
	if !raw.Exists() {
		return p, nil
	}
	if !raw.IsObject() {
		return nil, fmt.Errorf("%w: want object, got %s", ErrInvalidPreferences, raw.Type)
	}

	if th := raw.Get("theme"); th.Exists() {
		switch th.String() {
		case ThemeDark, ThemeLight, ThemeSystem:
			p.Theme = th.String()
		default:
			return nil, fmt.Errorf("%w: theme %q", ErrInvalidPreferences, th.String())
		}
	}
	p.ShowSceneContext = raw.Get("showSceneContext").Bool()
	p.GlobalHighlight = raw.Get("globalHighlight").Bool()
	p.GlobalHide = raw.Get("globalHide").Bool()

	var bad error
	raw.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if isGlobalKey(k) || !value.IsObject() {
			return true
		}
		tp := p.Type(k)
		if c := value.Get("color"); c.Exists() {
			if c.Type != gjson.String {
				bad = fmt.Errorf("%w: %s.color is %s", ErrInvalidPreferences, k, c.Type)
				return false
			}
			tp.Color = c.String()
		}
		for _, f := range []struct {
			name string
			dst  *bool
		}{{"enabled", &tp.Enabled}, {"highlight", &tp.Highlight}, {"hide", &tp.Hide}} {
			v := value.Get(f.name)
			if !v.Exists() {
				continue
			}
			if !v.IsBool() {
				bad = fmt.Errorf("%w: %s.%s is %s", ErrInvalidPreferences, k, f.name, v.Type)
				return false
			}
			*f.dst = v.Bool()
		}
		p.Types[k] = tp
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return p, nil
}
