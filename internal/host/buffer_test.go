package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scriptmarks/internal/fountain"
)

func TestBuffer_LinesFollowEdits(t *testing.T) {
	b := NewBuffer("INT. HOUSE\n\nAction.", "")

	lines := b.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, fountain.Heading, lines[0].Type)

	require.NoError(t, b.InsertString(0, "# Act\n"))
	lines = b.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, fountain.Section, lines[0].Type)
	assert.Equal(t, 6, lines[1].Start)
}

func TestBuffer_ReplaceRangeBounds(t *testing.T) {
	b := NewBuffer("abc", "")

	err := b.ReplaceRange(2, 5, "x")
	assert.ErrorIs(t, err, ErrOutOfRange)

	require.NoError(t, b.ReplaceRange(1, 1, "XYZ"))
	assert.Equal(t, "aXYZc", b.Text())
}

func TestBuffer_Highlights(t *testing.T) {
	b := NewBuffer("some text here", "")

	b.SetHighlight("#ff0000", 5, 4)
	b.SetHighlight("#00ff00", 0, 4)
	b.SetHighlight("#0000ff", 0, 0)

	assert.Equal(t, []Span{{0, 4}, {5, 4}}, b.Highlights())
	c, ok := b.Highlight(5, 4)
	require.True(t, ok)
	assert.Equal(t, "#ff0000", c)

	b.ClearHighlight(5, 4)
	_, ok = b.Highlight(5, 4)
	assert.False(t, ok)

	require.NoError(t, b.InsertString(0, "x"))
	assert.Empty(t, b.Highlights())
}

func TestBuffer_ChangeListeners(t *testing.T) {
	b := NewBuffer("a", "n")

	var got []Change
	b.OnChange(func(c Change) { got = append(got, c) })

	b.SetText("a")
	b.SetText("b")
	b.SetNotepad("n")
	b.SetNotepad("m")
	require.NoError(t, b.ReplaceRange(0, 1, "c"))

	assert.Equal(t, []Change{TextChanged, NotepadChanged, TextChanged}, got)
}

func TestBuffer_ScrollAndNotify(t *testing.T) {
	b := NewBuffer("", "")
	assert.Equal(t, -1, b.ScrollPosition())

	b.ScrollTo(42)
	b.Notify("Title", "Body")

	assert.Equal(t, 42, b.ScrollPosition())
	assert.Equal(t, []Notice{{Title: "Title", Message: "Body"}}, b.Notices())
}

func TestLoadBufferAndSave(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "script.fountain")
	require.NoError(t, os.WriteFile(doc, []byte("FADE IN:"), 0o644))

	b, err := LoadBuffer(doc, filepath.Join(dir, "missing.txt"))
	require.NoError(t, err)
	assert.Equal(t, "FADE IN:", b.Text())
	assert.Equal(t, "", b.Notepad())

	require.NoError(t, b.InsertString(len("FADE IN:"), "\n\nINT. HOUSE"))
	require.NoError(t, b.Save(doc))

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, "FADE IN:\n\nINT. HOUSE", string(data))
}

func TestApplyEdits(t *testing.T) {
	b := NewBuffer("AB CD", "")
	edits := []Edit{
		{Start: 5, Length: 0, Text: "!"},
		{Start: 0, Length: 2, Text: "xy"},
	}
	require.NoError(t, ApplyEdits(b, edits))
	assert.Equal(t, "xy CD!", b.Text())
}
