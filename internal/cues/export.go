package cues

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoCues is returned by the exports when the filter selects nothing.
var ErrNoCues = errors.New("no cues to export")

// Format is an export format.
type Format string

// Export formats.
const (
	CSV  Format = "csv"
	HTML Format = "html"
	QLab Format = "qlab"
)

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == QLab {
		return "scpt"
	}
	return string(f)
}

// ParseFormat accepts "csv", "html" and "qlab" (or "scpt").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "html", "htm":
		return HTML, nil
	case "qlab", "scpt", "applescript":
		return QLab, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write exports cues in format f.
func Write(w io.Writer, f Format, cues []Cue, filter string, now time.Time) (int, error) {
	switch f {
	case CSV:
		return WriteCSV(w, cues, filter)
	case HTML:
		return WriteHTML(w, cues, filter)
	case QLab:
		return WriteQLab(w, cues, filter, now)
	}
	return 0, fmt.Errorf("unknown export format %q", f)
}

func selectForExport(cues []Cue, filter string) ([]Cue, error) {
	sel := Filter(cues, filter)
	if len(sel) == 0 {
		return nil, ErrNoCues
	}
	return sel, nil
}

// WriteCSV writes a "Number,Type,Note" table and returns the number of
// cues written.
func WriteCSV(w io.Writer, cues []Cue, filter string) (int, error) {
	sel, err := selectForExport(cues, filter)
	if err != nil {
		return 0, err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Number", "Type", "Note"}); err != nil {
		return 0, fmt.Errorf("writing csv: %w", err)
	}
	for _, c := range sel {
		if err := cw.Write([]string{c.Number, c.Type, c.Name}); err != nil {
			return 0, fmt.Errorf("writing csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("writing csv: %w", err)
	}
	return len(sel), nil
}

const htmlTitle = "Cue List"

const htmlStyle = "body{font-family:Arial,sans-serif;margin:20px;background:#f5f5f5;}" +
	"h1{color:#333;}table{width:100%;border-collapse:collapse;background:white;box-shadow:0 2px 4px rgba(0,0,0,0.1);}" +
	"th,td{padding:12px;text-align:left;border-bottom:1px solid #ddd;}" +
	"th{background:#007acc;color:white;font-weight:600;}" +
	"tr:hover{background:#f9f9f9;}" +
	".cue-type{display:inline-block;padding:4px 8px;border-radius:4px;font-size:11px;font-weight:600;}"

func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// WriteHTML writes a standalone HTML page holding a table of the cues.
func WriteHTML(w io.Writer, cues []Cue, filter string) (int, error) {
	sel, err := selectForExport(cues, filter)
	if err != nil {
		return 0, err
	}

	tbody := element(atom.Tbody, nil)
	for _, c := range sel {
		tbody.AppendChild(element(atom.Tr, nil,
			element(atom.Td, nil, text(c.Number)),
			element(atom.Td, nil,
				element(atom.Span, []html.Attribute{{Key: "class", Val: "cue-type"}}, text(c.Type))),
			element(atom.Td, nil, text(c.Name)),
		))
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(element(atom.Html, nil,
		element(atom.Head, nil,
			element(atom.Meta, []html.Attribute{{Key: "charset", Val: "UTF-8"}}),
			element(atom.Title, nil, text(htmlTitle)),
			element(atom.Style, nil, text(htmlStyle)),
		),
		element(atom.Body, nil,
			element(atom.H1, nil, text(htmlTitle)),
			element(atom.Table, nil,
				element(atom.Thead, nil,
					element(atom.Tr, nil,
						element(atom.Th, nil, text("Number")),
						element(atom.Th, nil, text("Type")),
						element(atom.Th, nil, text("Note")),
					)),
				tbody,
			),
		),
	))

	if err := html.Render(w, doc); err != nil {
		return 0, fmt.Errorf("writing html: %w", err)
	}
	return len(sel), nil
}

var fadeRe = regexp.MustCompile(`\b(?:stop|fade(?:-?in|-?out)?|fadein|fadeout|fade\s+in|fade\s+out|crossfade)\b`)

// QLabType maps a cue to the QLab cue type it is imported as.
func QLabType(c Cue) string {
	if fadeRe.MatchString(strings.ToLower(c.Name)) {
		return "Fade"
	}
	switch c.Type {
	case "SOUND", "MUSIC":
		return "Audio"
	case "VIDEO", "PROJECTION":
		return "Video"
	case "LIGHT":
		return "Light"
	}
	return "Memo"
}

var scriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// WriteQLab writes an AppleScript that creates the cues in the front QLab
// workspace.
func WriteQLab(w io.Writer, cues []Cue, filter string, now time.Time) (int, error) {
	sel, err := selectForExport(cues, filter)
	if err != nil {
		return 0, err
	}
	if filter == "" {
		filter = All
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "-- scriptmarks to QLab Import Script\n")
	fmt.Fprintf(bw, "-- Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(bw, "-- Cue Type Filter: %s\n\n", filter)
	fmt.Fprintf(bw, "tell application \"QLab\"\n\tactivate\n\ttell front workspace\n\t\t-- Create cues\n")
	for _, c := range sel {
		notes := "Type: " + c.Type
		if c.Scene != "" {
			notes += " | Scene: " + scriptEscaper.Replace(c.Scene)
		}
		fmt.Fprintf(bw, "\t\tmake type \"%s\"\n", QLabType(c))
		fmt.Fprintf(bw, "\t\tset q number of last item of (selected as list) to \"%s\"\n", scriptEscaper.Replace(c.Number))
		fmt.Fprintf(bw, "\t\tset q name of last item of (selected as list) to \"%s\"\n", scriptEscaper.Replace(c.Name))
		fmt.Fprintf(bw, "\t\tset notes of last item of (selected as list) to \"%s\"\n", notes)
	}
	fmt.Fprintf(bw, "\tend tell\nend tell\n\n")
	fmt.Fprintf(bw, "-- Import complete: %d cues created\n", len(sel))
	fmt.Fprintf(bw, "display notification \"%d cues imported to QLab\" with title \"scriptmarks\"\n", len(sel))

	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("writing qlab script: %w", err)
	}
	return len(sel), nil
}
