// Package wordcount counts the words of the screenplay proper and tracks
// daily and project writing goals.
package wordcount

import (
	"regexp"
	"unicode"

	"github.com/rivo/uniseg"
)

var (
	boneyardRe = regexp.MustCompile(`(?im)^\s*#\s*BONEYARD\b`)
	strippers  = []*regexp.Regexp{
		regexp.MustCompile(`(?s)\{\{\{.*?\}\}\}`),
		regexp.MustCompile(`\[\[.*?\]\]`),
		regexp.MustCompile(`(?m)^=+.*$`),
		regexp.MustCompile(`(?m)^#+.*$`),
		regexp.MustCompile(`(?s)\[omit\].*?\[/omit\]`),
		regexp.MustCompile(`(?s)/\*.*?\*/`),
	}
)

// ScreenplayText returns text without the parts that are not read aloud:
// everything from the BONEYARD heading on, {{{ }}} blocks, inline notes,
// synopses, section headings and omitted blocks.
func ScreenplayText(text string) string {
	if loc := boneyardRe.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	for _, re := range strippers {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// Count returns the number of words in text. Word boundaries follow
// Unicode text segmentation, so "don't" is one word and punctuation is not
// counted.
func Count(text string) int {
	n := 0
	state := -1
	var word string
	for len(text) > 0 {
		word, text, state = uniseg.FirstWordInString(text, state)
		if isWord(word) {
			n++
		}
	}
	return n
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// CountScreenplay counts the words of ScreenplayText(text).
func CountScreenplay(text string) int {
	return Count(ScreenplayText(text))
}
