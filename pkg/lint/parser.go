package lint

import (
	"context"

	"github.com/yaklabco/texhelper/pkg/texast"
)

// Parser turns LaTeX source into a FileSnapshot.
//
// The interface lives here, next to its consumer; pkg/parser/latex provides
// the implementation.
//
// Implementations must be deterministic for a given (path, content) pair,
// safe for concurrent use and free of I/O. Syntax problems are not errors:
// they are recorded in the snapshot's Errors and the best-effort tree is
// still returned. An error means the parse could not run at all, for
// example because ctx was cancelled.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*texast.FileSnapshot, error)
}
