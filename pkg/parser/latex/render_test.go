package latex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texhelper/pkg/parser/latex"
	"github.com/yaklabco/texhelper/pkg/texast"
)

func TestRenderDiagnostic(t *testing.T) {
	t.Parallel()

	source := "line one\n  \\begin{a}x\\end{b}\n"
	_, errs := latex.ParseString(source)
	require.Len(t, errs, 1)

	got := latex.RenderDiagnostic(errs[0].Token, errs[0].Message, latex.Source{Path: "doc.tex", Text: source})

	want := "doc.tex:2:13 ERROR: environment mismatch: \\begin{a} ended by \\end{b}\n" +
		"   \\begin{a}x\\end{b}\n" +
		"             ^^^\n"
	assert.Equal(t, want, got)
}

func TestRenderDiagnostic_FirstColumn(t *testing.T) {
	t.Parallel()

	tok := texast.Token{Kind: texast.TokRightBrace, Lexeme: "}", Row: 0, Col: 0}
	got := latex.RenderDiagnostic(tok, "unexpected '}'", latex.Source{Path: "a.tex", Text: "}"})

	assert.Equal(t, "a.tex:1:1 ERROR: unexpected '}'\n }\n ^\n", got)
}

func TestRenderDiagnostic_TabsKeepAlignment(t *testing.T) {
	t.Parallel()

	tok := texast.Token{Kind: texast.TokRightBrace, Lexeme: "}", Row: 0, Col: 2}
	got := latex.RenderDiagnostic(tok, "m", latex.Source{Path: "t.tex", Text: "\tx}\r\n"})

	assert.Equal(t, "t.tex:1:3 ERROR: m\n \tx}\n \t ^\n", got)
}

func TestRenderDiagnostic_CaretWidthCountsRunes(t *testing.T) {
	t.Parallel()

	tok := texast.Token{Kind: texast.TokWord, Lexeme: "héé", Row: 0, Col: 0}
	got := latex.RenderDiagnostic(tok, "m", latex.Source{Path: "u.tex", Text: "héé"})

	assert.Equal(t, "u.tex:1:1 ERROR: m\n héé\n ^^^\n", got)
}

func TestRenderDiagnostics_ConcatenatesInOrder(t *testing.T) {
	t.Parallel()

	source := "}\n$a"
	_, errs := latex.ParseString(source)
	require.Len(t, errs, 2)

	got := latex.RenderDiagnostics(errs, latex.Source{Path: "m.tex", Text: source})

	want := "m.tex:1:1 ERROR: unexpected '}' without matching '{'\n }\n ^\n" +
		"m.tex:2:1 ERROR: unmatched '$'\n $a\n ^\n"
	assert.Equal(t, want, got)
}

func TestSource_Line(t *testing.T) {
	t.Parallel()

	src := latex.Source{Text: "a\r\nb\n\nc"}

	tests := []struct {
		row  int
		want string
	}{
		{0, "a"},
		{1, "b"},
		{2, ""},
		{3, "c"},
		{4, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, src.Line(tt.row), "row %d", tt.row)
	}
}
