// Package tags finds tag mentions in inline notes and keeps the index the
// rest of scriptmarks navigates and colours.
//
// A tag is written inside a bracketed note, either as a marker token
// ("[[#plot]]", "[[@anna]]") or as a special label ("[[beat: the reveal]]",
// "[[storyline: B plot]]"). The notepad is scanned with the marker grammar
// alone; its occurrences have no document position.
//
// Scan rebuilds the whole Index every time. Navigation state lives in a
// Cursor that outlives the index, so repeated jumps keep cycling through a
// tag's occurrences across rescans.
package tags
