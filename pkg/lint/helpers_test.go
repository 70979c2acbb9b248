package lint_test

import (
	"testing"

	"github.com/yaklabco/texhelper/pkg/lint"
	"github.com/yaklabco/texhelper/pkg/texast"
)

func TestLineHelpers(t *testing.T) {
	t.Parallel()

	snap := parseSnapshot(t, "text  \t\n\n  % note\ncafé\r\n")

	tests := []struct {
		line       int
		trailing   bool
		blank      bool
		comment    bool
		lineLength int
	}{
		{line: 1, trailing: true, lineLength: 7},
		{line: 2, blank: true},
		{line: 3, comment: true, lineLength: 8},
		{line: 4, lineLength: 4},
	}
	for _, tt := range tests {
		if got := lint.HasTrailingWhitespace(snap, tt.line); got != tt.trailing {
			t.Errorf("line %d: HasTrailingWhitespace = %v", tt.line, got)
		}
		if got := lint.IsBlankLine(snap, tt.line); got != tt.blank {
			t.Errorf("line %d: IsBlankLine = %v", tt.line, got)
		}
		if got := lint.IsCommentLine(snap, tt.line); got != tt.comment {
			t.Errorf("line %d: IsCommentLine = %v", tt.line, got)
		}
		if got := lint.LineLength(snap, tt.line); got != tt.lineLength {
			t.Errorf("line %d: LineLength = %d, want %d", tt.line, got, tt.lineLength)
		}
	}

	start, end := lint.TrailingWhitespaceRange(snap, 1)
	if start != 4 || end != 7 {
		t.Errorf("TrailingWhitespaceRange = [%d, %d), want [4, 7)", start, end)
	}
	if start, end := lint.TrailingWhitespaceRange(snap, 99); start != end {
		t.Errorf("out of range line gave [%d, %d)", start, end)
	}
}

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	snap := parseSnapshot(t, `\section[short]{Long title}{x}`)
	cmds := texast.FindByKind(snap.Tree, texast.NodeCommand)
	if len(cmds) != 1 {
		t.Fatalf("got %d commands", len(cmds))
	}

	square, curly := lint.CommandArgs(snap.Tree, cmds[0])
	if len(square) != 1 || snap.Tree.Text(square[0]) != "short" {
		t.Errorf("square = %v", square)
	}
	if len(curly) != 2 || snap.Tree.Text(curly[0]) != "Longtitle" {
		t.Errorf("curly = %v", curly)
	}
}

func TestEnvironmentOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source  string
		want    string
		wantHas bool
	}{
		{"\\begin{lstlisting}[language=Go]\nx\n\\end{lstlisting}", "language=Go", true},
		{"\\begin{lstlisting}\nx\n\\end{lstlisting}", "", false},
		{"\\begin{lstlisting}\\end{lstlisting}", "", false},
	}
	for _, tt := range tests {
		snap := parseSnapshot(t, tt.source)
		envs := texast.FindEnvironments(snap.Tree, "lstlisting")
		if len(envs) != 1 {
			t.Fatalf("%q: got %d environments", tt.source, len(envs))
		}
		_, got, ok := lint.EnvironmentOptions(snap.Tree, envs[0])
		if got != tt.want || ok != tt.wantHas {
			t.Errorf("%q: EnvironmentOptions = %q, %v", tt.source, got, ok)
		}
	}
}

func TestEnvironmentLines(t *testing.T) {
	t.Parallel()

	source := "a\n\\begin{verbatim}\nb   \n\\end{verbatim}\nc\n"
	snap := parseSnapshot(t, source)

	lines := lint.EnvironmentLines(snap, []string{"verbatim"})
	for line, want := range map[int]bool{1: false, 2: true, 3: true, 4: true, 5: false} {
		if lines[line] != want {
			t.Errorf("line %d covered = %v, want %v", line, lines[line], want)
		}
	}
	if len(lint.EnvironmentLines(snap, nil)) != 0 {
		t.Error("no names should cover nothing")
	}
}
