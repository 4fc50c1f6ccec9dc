package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/scriptmarks/internal/host"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#fefbc0", Color{0xfe, 0xfb, 0xc0}, false},
		{"FEFBC0", Color{0xfe, 0xfb, 0xc0}, false},
		{"#abc", Color{0xaa, 0xbb, 0xcc}, false},
		{"#abcd", Color{}, true},
		{"#gggggg", Color{}, true},
		{"", Color{}, true},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestColor_Hex(t *testing.T) {
	assert.Equal(t, "#0a0b0c", Color{10, 11, 12}.Hex())
	assert.Equal(t, "#fefbc0", DefaultFallback.String())
}

func TestColor_DarkenLighten(t *testing.T) {
	c := Color{200, 100, 50}
	assert.Equal(t, Color{160, 80, 40}, c.Darken(0.2))
	assert.Equal(t, White, c.Lighten(1))
	assert.Equal(t, c, c.Lighten(0))
}

func TestTextOn(t *testing.T) {
	assert.Equal(t, Black, TextOn(DefaultFallback))
	assert.Equal(t, White, TextOn(MustParseHex("#222222")))
}

func TestContrastRatio(t *testing.T) {
	assert.InDelta(t, 21.0, ContrastRatio(Black, White), 0.001)
	assert.InDelta(t, 1.0, ContrastRatio(White, White), 0.001)
	assert.InDelta(t, ContrastRatio(Black, DefaultFallback), ContrastRatio(DefaultFallback, Black), 1e-9)
}

func TestEnsureContrast_KeepsLegibleColor(t *testing.T) {
	opts := DefaultContrastOptions()
	got := EnsureContrast(DefaultFallback, Black, opts)
	assert.Equal(t, DefaultFallback, got)
}

func TestEnsureContrast_AdjustsForDarkTheme(t *testing.T) {
	opts := DefaultContrastOptions()
	fg := MustParseHex("#eeeeee")

	got := EnsureContrast(DefaultFallback, fg, opts)

	assert.NotEqual(t, DefaultFallback, got)
	assert.GreaterOrEqual(t, ContrastRatio(got, fg), opts.MinRatio)
	assert.Less(t, got.Brightness(), DefaultFallback.Brightness(), "light text needs a darker background")
}

func TestEnsureContrast_Properties(t *testing.T) {
	opts := DefaultContrastOptions()
	foregrounds := []Color{Black, White, MustParseHex("#e6e6e6"), MustParseHex("#1e1e1e"), MustParseHex("#808080")}

	for _, fg := range foregrounds {
		for r := 0; r <= 255; r += 51 {
			for g := 0; g <= 255; g += 51 {
				for b := 0; b <= 255; b += 51 {
					bg := Color{uint8(r), uint8(g), uint8(b)}
					out := EnsureContrast(bg, fg, opts)

					assert.GreaterOrEqual(t, ContrastRatio(out, fg), ContrastRatio(bg, fg)-1e-9,
						"contrast dropped for bg=%s fg=%s out=%s", bg, fg, out)
					assert.Equal(t, out, EnsureContrast(out, fg, opts),
						"not a fixed point for bg=%s fg=%s", bg, fg)
				}
			}
		}
	}
}

func TestEnsureContrast_ImpossibleFallsBack(t *testing.T) {
	opts := ContrastOptions{MinRatio: 30, MinBrightnessGap: 0, Step: 0.05}
	bg := MustParseHex("#336699")
	assert.Equal(t, bg, EnsureContrast(bg, White, opts))
}

func TestPreferences_Resolve(t *testing.T) {
	p := NewPreferences(DefaultFallback)
	assert.Equal(t, DefaultFallback, p.Resolve("plot"))

	p.Set("plot", MustParseHex("#ff0000"))
	assert.Equal(t, MustParseHex("#ff0000"), p.Resolve("plot"))
	assert.Equal(t, map[string]string{"plot": "#ff0000"}, p.Encode())
	assert.Equal(t, []string{"plot"}, p.Tags())
}

func TestDecodePreferences(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]Color
		wantErr bool
	}{
		{"missing", ``, map[string]Color{}, false},
		{"valid", `{"plot":"#ff0000","theme":"#00f"}`, map[string]Color{"plot": {255, 0, 0}, "theme": {0, 0, 255}}, false},
		{"array", `["#ff0000"]`, nil, true},
		{"number value", `{"plot":7}`, nil, true},
		{"bad hex", `{"plot":"red"}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw gjson.Result
			if tt.raw != "" {
				raw = gjson.Parse(tt.raw)
			}
			got, err := DecodePreferences(raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedPreferences)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type target struct {
	tag   string
	start int
	len   int
	color string
}

func (t *target) TagName() string     { return t.tag }
func (t *target) Span() (int, int)    { return t.start, t.len }
func (t *target) SetColor(hex string) { t.color = hex }

func TestReconciler_ReapplyAll(t *testing.T) {
	buf := host.NewBuffer("[[#plot]] and [[#theme]]", "")
	prefs := NewPreferences(DefaultFallback)
	prefs.Set("theme", MustParseHex("#336699"))

	r := NewReconciler(prefs, buf, Black, DefaultContrastOptions())

	plot := &target{tag: "plot", start: 2, len: 5}
	theme := &target{tag: "theme", start: 16, len: 6}
	notepad := &target{tag: "plot", start: -1, len: 5}

	r.ReapplyAll([]Target{plot, theme, notepad})

	assert.Equal(t, "#fefbc0", plot.color)
	assert.Equal(t, notepad.color, plot.color)

	got, ok := buf.Highlight(16, 6)
	require.True(t, ok)
	assert.Equal(t, theme.color, got)
	assert.NotEqual(t, "#336699", theme.color, "dark blue behind black text is adjusted")
	_, stored := prefs.Get("theme")
	assert.True(t, stored)
	assert.Equal(t, MustParseHex("#336699"), prefs.Resolve("theme"), "preference is untouched")

	assert.Len(t, buf.Highlights(), 2)
	r.ClearAll([]Target{plot, theme, notepad})
	assert.Empty(t, buf.Highlights())
}
