package texast

// SourcePosition is a 1-based, inclusive source span. The zero value means
// "unknown".
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// IsValid reports whether the position points into a file.
func (p SourcePosition) IsValid() bool {
	return p.StartLine > 0 && p.StartColumn > 0
}

// IsSingleLine reports whether the span starts and ends on the same line.
func (p SourcePosition) IsSingleLine() bool {
	return p.StartLine == p.EndLine
}

// TokenPosition converts a token's 0-based row/col into a 1-based position.
// The end column is measured in runes like the start column.
func TokenPosition(tok Token) SourcePosition {
	width := tok.Width()
	if width == 0 {
		width = 1
	}
	return SourcePosition{
		StartLine:   tok.Row + 1,
		StartColumn: tok.Col + 1,
		EndLine:     tok.Row + 1,
		EndColumn:   tok.Col + width,
	}
}
