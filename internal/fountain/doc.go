// Package fountain splits Fountain screenplay text into lines with stable
// byte offsets and classifies each line by element type.
//
// The classifier covers the elements the rest of scriptmarks needs: scene
// headings, sections, synopses, characters (including dual dialogue),
// dialogue, parentheticals, transitions and action. It is not a full
// Fountain renderer; title pages, emphasis and page layout are left to the
// host.
package fountain
