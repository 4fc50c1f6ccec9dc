package fountain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Offsets(t *testing.T) {
	lines := Split("one\r\ntwo\n\nfour")
	require.Len(t, lines, 4)

	assert.Equal(t, Line{Text: "one", Start: 0}, lines[0])
	assert.Equal(t, Line{Text: "two", Start: 5}, lines[1])
	assert.Equal(t, Line{Text: "", Start: 9}, lines[2])
	assert.Equal(t, Line{Text: "four", Start: 10}, lines[3])
	assert.Equal(t, 14, lines[3].End())
}

func TestSplit_Empty(t *testing.T) {
	lines := Split("")
	require.Len(t, lines, 1)
	assert.Equal(t, "", lines[0].Text)
}

func TestParse_Types(t *testing.T) {
	text := "INT. KITCHEN - DAY\n" +
		"\n" +
		"Marla stirs the pot.\n" +
		"\n" +
		"MARLA\n" +
		"(quietly)\n" +
		"It's ready.\n" +
		"\n" +
		"BOB ^\n" +
		"Finally.\n" +
		"\n" +
		"# Act Two\n" +
		"= The turn.\n" +
		"CUT TO:\n" +
		".flashback\n" +
		"> THE END <\n" +
		"===\n" +
		"!LOUD NOISES\n"

	want := []Type{
		Heading, Empty, Action, Empty, Character, Parenthetical, Dialogue, Empty,
		DualCharacter, Dialogue, Empty, Section, Synopsis, Transition, Heading,
		Centered, PageBreak, Action, Empty,
	}

	lines := Parse(text)
	require.Len(t, lines, len(want))
	for i, w := range want {
		assert.Equal(t, w, lines[i].Type, "line %d %q", i, lines[i].Text)
	}
}

func TestParse_CharacterNeedsFollowingLine(t *testing.T) {
	lines := Parse("\nSHOUTING ACTION\n\nMore.")
	assert.Equal(t, Action, lines[1].Type)
}

func TestIsSceneHeading(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"INT. HOUSE", true},
		{"ext. road - night", true},
		{"INT/EXT CAR", true},
		{"I/E TRAIN", true},
		{".MONTAGE", true},
		{"...and then", false},
		{"INTERIOR", false},
		{"Into the woods", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSceneHeading(tt.in), tt.in)
	}
}

func TestCharacterName(t *testing.T) {
	assert.Equal(t, "MARLA", CharacterName("MARLA (V.O.)"))
	assert.Equal(t, "BOB", CharacterName("BOB (CONT'D) ^"))
	assert.Equal(t, "McCLANE", CharacterName("@McCLANE"))
}

func TestSectionDepth(t *testing.T) {
	assert.Equal(t, 0, SectionDepth("Act"))
	assert.Equal(t, 1, SectionDepth("# Act"))
	assert.Equal(t, 3, SectionDepth("### Beat"))
}

func TestIsBoneyardHeading(t *testing.T) {
	tests := map[string]bool{
		"# BONEYARD":   true,
		"## Boneyard ": true,
		"#boneyard":    true,
		"BONEYARD":     false,
		"# Boneyards":  false,
		"# Act One":    false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsBoneyardHeading(in), in)
	}
}

func TestBoneyardIndex(t *testing.T) {
	lines := Split("INT. HOUSE - DAY\n\nAction.\n\n# BONEYARD\nold scene")
	assert.Equal(t, 4, BoneyardIndex(lines))
	assert.Equal(t, -1, BoneyardIndex(Split("no archive")))
}
