package tags

// External marks occurrences that were found in the notepad rather than in
// the document. It is used for both Line and Pos.
const External = -1

// Occurrence is one located tag mention.
type Occurrence struct {
	// Tag is the lowercased, NFC-normalised tag name.
	Tag string
	// Line is the index of the source line, or External.
	Line int
	// Pos is the absolute byte offset in the document, or External.
	Pos int
	// Len is the byte length of the match.
	Len int
	// Color is the displayed highlight colour as "#rrggbb".
	Color string
	// Special is set for beat and storyline labels.
	Special bool
}

// InDocument reports whether the occurrence has a document position.
func (o *Occurrence) InDocument() bool {
	return o.Line != External
}

// TagName implements palette.Target.
func (o *Occurrence) TagName() string {
	return o.Tag
}

// Span implements palette.Target.
func (o *Occurrence) Span() (start, length int) {
	if !o.InDocument() {
		return External, o.Len
	}
	return o.Pos, o.Len
}

// SetColor implements palette.Target.
func (o *Occurrence) SetColor(hex string) {
	o.Color = hex
}
