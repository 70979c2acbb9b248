package texast_test

import (
	"testing"

	"github.com/yaklabco/texhelper/pkg/texast"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []texast.LineInfo
	}{
		{
			name:    "empty",
			content: "",
			want:    []texast.LineInfo{},
		},
		{
			name:    "no terminator",
			content: "abc",
			want:    []texast.LineInfo{{StartOffset: 0, NewlineStart: 3, EndOffset: 3}},
		},
		{
			name:    "lf",
			content: "a\nbc\n",
			want: []texast.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 2},
				{StartOffset: 2, NewlineStart: 4, EndOffset: 5},
				{StartOffset: 5, NewlineStart: 5, EndOffset: 5},
			},
		},
		{
			name:    "crlf",
			content: "a\r\nb",
			want: []texast.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 3},
				{StartOffset: 3, NewlineStart: 4, EndOffset: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := texast.BuildLines([]byte(tt.content))
			if len(got) != len(tt.want) {
				t.Fatalf("BuildLines() returned %d lines, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFileSnapshot_LineAtAndOffset(t *testing.T) {
	t.Parallel()

	snap := texast.NewFileSnapshot("doc.tex", []byte("ab\ncd\n"))

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{4, 2, 2},
		{-1, 0, 0},
	}
	for _, tt := range tests {
		line, col := snap.LineAt(tt.offset)
		if line != tt.wantLine || col != tt.wantCol {
			t.Errorf("LineAt(%d) = (%d, %d), want (%d, %d)", tt.offset, line, col, tt.wantLine, tt.wantCol)
		}
	}

	if off, ok := snap.Offset(2, 2); !ok || off != 4 {
		t.Errorf("Offset(2, 2) = (%d, %v), want (4, true)", off, ok)
	}
	if _, ok := snap.Offset(9, 1); ok {
		t.Error("Offset(9, 1) should fail")
	}
	if got := string(snap.LineContent(2)); got != "cd" {
		t.Errorf("LineContent(2) = %q, want %q", got, "cd")
	}
	if snap.LineContent(0) != nil {
		t.Error("LineContent(0) should be nil")
	}
}

func TestTokenPredicates(t *testing.T) {
	t.Parallel()

	begin := texast.Token{Kind: texast.TokCommand, Lexeme: "begin"}
	end := texast.Token{Kind: texast.TokCommand, Lexeme: "end"}
	word := texast.Token{Kind: texast.TokWord, Lexeme: "begin"}

	if !begin.IsBeginEnvr() || begin.IsEndEnvr() {
		t.Error("\\begin predicates wrong")
	}
	if !end.IsEndEnvr() || end.IsBeginEnvr() {
		t.Error("\\end predicates wrong")
	}
	if word.IsBeginEnvr() {
		t.Error("a Word spelled begin is not an environment opener")
	}
	if !(texast.Token{Kind: texast.TokCaret}).IsOperator() || !(texast.Token{Kind: texast.TokUnderscore}).IsOperator() {
		t.Error("^ and _ are operators")
	}
	if (texast.Token{Kind: texast.TokTilde}).IsOperator() {
		t.Error("~ is not a binding operator")
	}
}

func TestToken_Literal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tok  texast.Token
		want string
	}{
		{texast.Token{Kind: texast.TokCommand, Lexeme: "section"}, `\section`},
		{texast.Token{Kind: texast.TokEscapedChar, Lexeme: "%"}, `\%`},
		{texast.Token{Kind: texast.TokComment, Lexeme: " note"}, "% note"},
		{texast.Token{Kind: texast.TokDoubleDollar, Lexeme: "$$"}, "$$"},
		{texast.Token{Kind: texast.TokNewline, Lexeme: "\n"}, "\n"},
	}
	for _, tt := range tests {
		if got := tt.tok.Literal(); got != tt.want {
			t.Errorf("%v.Literal() = %q, want %q", tt.tok, got, tt.want)
		}
	}
}
