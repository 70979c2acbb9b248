package latex_test

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/texhelper/pkg/parser/latex"
	"github.com/yaklabco/texhelper/pkg/texast"
)

func fuzzSeeds() []string {
	return []string{
		"",
		"a\nb",
		"a\n\nb",
		"a %c\nb",
		"a^bb",
		"a^{bb}",
		"$E=mc^2$",
		`\begin{eq}x\end{eq}`,
		`\begin{a}x\end{b}`,
		`\section[s]{T} \\ a & b ~ c`,
		`\[x\] $$y$$ \% \ \1 \`,
		"{[}]",
		"a\r\nb\rc",
		"\xff\xfe$",
	}
}

// stripSpace drops whitespace runes and keeps every other byte as is.
func stripSpace(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !(r != utf8.RuneError && unicode.IsSpace(r)) {
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	return sb.String()
}

// FuzzScan checks the scanner never fails and its tokens spell the input
// back, up to whitespace.
func FuzzScan(f *testing.F) {
	for _, seed := range fuzzSeeds() {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, source string) {
		tokens := latex.Scan(source)

		var sb strings.Builder
		prevEnd := 0
		for _, tok := range tokens {
			sb.WriteString(tok.Literal())
			if tok.Offset < prevEnd || tok.End < tok.Offset || tok.End > len(source) {
				t.Fatalf("token %v has bad span [%d, %d) after %d", tok, tok.Offset, tok.End, prevEnd)
			}
			prevEnd = tok.End
		}

		if got, want := stripSpace(sb.String()), stripSpace(source); got != want {
			t.Errorf("reconstruction mismatch:\n got %q\nwant %q", got, want)
		}
	})
}

// FuzzParse checks the parser never fails on any token stream and that every
// node keeps a consistent span.
func FuzzParse(f *testing.F) {
	for _, seed := range fuzzSeeds() {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, source string) {
		tokens := latex.Scan(source)
		tree, errs := latex.ParseTokens(tokens, latex.Options{MaxDepth: 32})

		if tree.Kind(tree.Root()) != texast.NodePassage {
			t.Fatalf("root is %v", tree.Kind(tree.Root()))
		}

		for id := texast.NodeID(0); int(id) < tree.Len(); id++ {
			n := tree.Node(id)
			if n.IsContainer() && n.Lexeme != "" {
				t.Errorf("container %v has lexeme %q", n.Kind, n.Lexeme)
			}
			if n.HasSpan() && n.LastToken >= len(tokens) {
				t.Errorf("%v span [%d, %d] outside %d tokens", n.Kind, n.FirstToken, n.LastToken, len(tokens))
			}
		}

		_ = latex.RenderDiagnostics(errs, latex.Source{Path: "fuzz.tex", Text: source})
	})
}
