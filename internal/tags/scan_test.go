package tags

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptmarks/internal/fountain"
	"github.com/dshills/scriptmarks/internal/host"
)

func fixedColor(hex string) ColorFunc {
	return func(string) string { return hex }
}

func TestScan_Positions(t *testing.T) {
	text := "ACTION: [[#plot]]\nHe walks to the window slowly.[[#plot]]"
	lines := fountain.Parse(text)

	res := Scan(lines, "", fixedColor("#fefbc0"), nil)

	occs := res.Index.Occurrences("plot")
	require.Len(t, occs, 2)
	assert.Equal(t, 10, occs[0].Pos)
	assert.Equal(t, 0, occs[0].Line)
	assert.Equal(t, 50, occs[1].Pos)
	assert.Equal(t, 1, occs[1].Line)
	assert.Equal(t, "#plot", text[occs[1].Pos:occs[1].Pos+occs[1].Len])
	assert.Equal(t, "#fefbc0", occs[0].Color)
}

func TestScan_HighlightsDocumentOccurrences(t *testing.T) {
	text := "[[#plot and @anna]]\n[[beat: reveal]]"
	buf := host.NewBuffer(text, "#plot in the notepad")

	res := Scan(buf.Lines(), buf.Notepad(), fixedColor("#ff0000"), buf)

	assert.Equal(t, []string{"plot", "anna", "reveal"}, res.Index.Tags())
	assert.Len(t, res.All, 4)

	spans := buf.Highlights()
	assert.Len(t, spans, 3)
	for _, o := range res.All {
		if !o.InDocument() {
			continue
		}
		c, ok := buf.Highlight(o.Pos, o.Len)
		assert.True(t, ok)
		assert.Equal(t, "#ff0000", c)
	}
}

func TestScan_Notepad(t *testing.T) {
	res := Scan(nil, "ideas: #plot\nmore #Plot", fixedColor("#000000"), nil)

	occs := res.Index.Occurrences("plot")
	require.Len(t, occs, 2)
	for _, o := range occs {
		assert.Equal(t, External, o.Line)
		assert.Equal(t, External, o.Pos)
		assert.False(t, o.InDocument())
		start, _ := o.Span()
		assert.Negative(t, start)
	}
	assert.Empty(t, res.Index.InDocument("plot"))
}

func TestScan_NotepadAppendedAfterDocument(t *testing.T) {
	res := Scan(fountain.Parse("[[#plot]]"), "#plot", nil, nil)

	occs := res.Index.Occurrences("plot")
	require.Len(t, occs, 2)
	assert.True(t, occs[0].InDocument())
	assert.False(t, occs[1].InDocument())
}

func TestScan_HexOnlyNote(t *testing.T) {
	res := Scan(fountain.Parse("A red wall. [[#1a2b3c]]"), "", nil, nil)
	assert.Equal(t, 0, res.Index.Len())
	assert.Empty(t, res.All)
}

func TestScan_Dedup(t *testing.T) {
	res := Scan(fountain.Parse("[[Storyline: #tag]]"), "", nil, nil)

	require.Len(t, res.All, 1)
	assert.Equal(t, "tag", res.All[0].Tag)
	assert.False(t, res.All[0].Special)
}

func TestScan_Special(t *testing.T) {
	res := Scan(fountain.Parse("[[Beat: The Reveal]]"), "", nil, nil)

	require.True(t, res.Index.Has("the reveal"))
	assert.True(t, res.Index.IsSpecial("the reveal"))
}

func TestScan_Empty(t *testing.T) {
	res := Scan(nil, "", nil, nil)
	assert.Equal(t, 0, res.Index.Len())

	res = Scan(fountain.Parse("INT. HOUSE - DAY\n\nNothing here."), "", nil, nil)
	assert.Equal(t, 0, res.Index.Len())
}

func TestScan_Unterminated(t *testing.T) {
	res := Scan(fountain.Parse("He runs [[#chase"), "", nil, nil)
	assert.Equal(t, 0, res.Index.Len())
}

func TestScan_Deterministic(t *testing.T) {
	text := strings.Join([]string{
		"INT. HOUSE - DAY",
		"",
		"Anna enters. [[#plot @anna]] [[beat: entrance]]",
		"",
		"ANNA",
		"Hello? [[#plot]]",
	}, "\n")
	lines := fountain.Parse(text)

	a := Scan(lines, "#todo", fixedColor("#abcdef"), nil)
	b := Scan(lines, "#todo", fixedColor("#abcdef"), nil)

	assert.Equal(t, a.Index.Tags(), b.Index.Tags())
	assert.Equal(t, a.All, b.All)
	for _, tag := range a.Index.Tags() {
		for _, o := range a.Index.Occurrences(tag) {
			assert.Equal(t, tag, o.Tag)
		}
	}
}
