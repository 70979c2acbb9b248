package reporter

import (
	"context"

	"github.com/yaklabco/texhelper/pkg/analysis"
)

// Renderer formats an analysis.Report. Renderers only handle presentation;
// all counting happens in analysis.Analyze.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}
