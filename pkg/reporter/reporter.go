// Package reporter writes lint results in the text, json, diff and summary
// formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/texhelper/pkg/analysis"
	"github.com/yaklabco/texhelper/pkg/runner"
)

// Reporter formats and writes lint results.
type Reporter interface {
	// Report writes result and returns how many issues it reported.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

var _ Reporter = analyzed{}

// analyzed runs the analysis pass and hands the aggregated report to a
// Renderer. The text and diff reporters stream per-file output instead.
type analyzed struct {
	renderer Renderer
	opts     analysis.Options
}

func (a analyzed) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, a.opts)
	if err := a.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

func analyzedWith(renderer Renderer, opts Options) analyzed {
	analysisOpts := analysis.DefaultOptions()
	analysisOpts.RuleFormat = opts.RuleFormat
	analysisOpts.WorkingDir = opts.WorkingDir
	return analyzed{renderer: renderer, opts: analysisOpts}
}

// New creates the Reporter for opts.Format; an empty format means text.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return analyzedWith(NewJSONRenderer(opts), opts), nil
	case FormatSummary:
		return analyzedWith(NewSummaryRenderer(opts), opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return NewTextReporter(opts), nil
	}
}
