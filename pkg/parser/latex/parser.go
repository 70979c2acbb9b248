// Package latex provides the LaTeX scanner, the recursive-descent parser that
// builds a texast.Tree, and the diagnostic renderer for syntax errors.
package latex

import (
	"context"
	"fmt"

	"github.com/yaklabco/texhelper/pkg/texast"
)

// DefaultMaxDepth bounds the nesting of braces, brackets, math and
// environments.
const DefaultMaxDepth = 256

// Options configures the parser.
type Options struct {
	// MaxDepth is the deepest nesting accepted before the parse is cut short
	// with a single "nesting too deep" error. Values below 1 use
	// DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns the options used by New when none are given.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

func (o Options) maxDepth() int {
	if o.MaxDepth < 1 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Parser implements lint.Parser for LaTeX sources.
// It holds no mutable state and is safe for concurrent use.
type Parser struct {
	opts Options
}

// New creates a parser with the given options.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Options returns the parser configuration.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse scans and parses content into a FileSnapshot.
//
// Syntax errors do not fail the call: they are recorded on the snapshot's
// Errors field next to a best-effort tree. The only error returned is
// context cancellation.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*texast.FileSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	snapshot := texast.NewFileSnapshot(path, copyContent(content))
	snapshot.Tokens = Scan(string(snapshot.Content))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	snapshot.Tree, snapshot.Errors = ParseTokens(snapshot.Tokens, p.opts)
	return snapshot, nil
}

// ParseTokens builds a tree from a token stream. It never fails outright:
// the returned tree is always usable and every grammar violation found is
// listed in the returned errors, in the order discovered.
func ParseTokens(tokens []texast.Token, opts Options) (*texast.Tree, texast.SyntaxErrors) {
	g := newGrammar(tokens, opts.maxDepth())
	g.passage(g.tree.Root())
	return g.tree, g.errs
}

// ParseString is a convenience wrapper that scans and parses source with
// default options.
func ParseString(source string) (*texast.Tree, texast.SyntaxErrors) {
	return ParseTokens(Scan(source), DefaultOptions())
}

// copyContent creates a copy of the content slice so the snapshot owns it.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
