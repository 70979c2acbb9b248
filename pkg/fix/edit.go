// Package fix provides text edits over LaTeX sources, their validation and
// application, and unified diffs of the result.
package fix

import (
	"strings"

	"github.com/yaklabco/texhelper/pkg/texast"
)

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

// Len returns the number of bytes the edit removes.
func (e TextEdit) Len() int {
	return e.EndOffset - e.StartOffset
}

// IsDeletion reports whether the edit only removes text.
func (e TextEdit) IsDeletion() bool {
	return e.NewText == ""
}

// EditBuilder accumulates edits for one file.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates an empty EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{Edits: make([]TextEdit, 0)}
}

// ReplaceRange replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{StartOffset: start, EndOffset: end, NewText: newText})
}

// Insert inserts text at offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Delete removes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}

// ReplaceToken replaces the full source spelling of tok, including a
// stripped backslash or percent sign.
func (b *EditBuilder) ReplaceToken(tok texast.Token, text string) {
	b.ReplaceRange(tok.Offset, tok.End, text)
}

// InsertAfter inserts text right after tok.
func (b *EditBuilder) InsertAfter(tok texast.Token, text string) {
	b.Insert(tok.End, text)
}

// InsertBefore inserts text right before tok.
func (b *EditBuilder) InsertBefore(tok texast.Token, text string) {
	b.Insert(tok.Offset, text)
}

// Len returns the number of accumulated edits.
func (b *EditBuilder) Len() int {
	return len(b.Edits)
}

// String renders the edits for debugging, one per line.
func (b *EditBuilder) String() string {
	var sb strings.Builder
	for _, e := range b.Edits {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
