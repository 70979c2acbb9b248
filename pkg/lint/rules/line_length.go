package rules

import (
	"fmt"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/lint"
	"github.com/yaklabco/texhelper/pkg/texast"
)

// defaultMaxLineLength is the default maximum line length.
const defaultMaxLineLength = 100

// LineLengthRule checks that lines do not exceed a maximum length.
type LineLengthRule struct {
	lint.BaseRule
}

// NewLineLengthRule creates a new line length rule.
func NewLineLengthRule() *LineLengthRule {
	return &LineLengthRule{
		BaseRule: lint.NewBaseRule(
			"TEX008",
			"line-length",
			"Line length should not exceed the configured maximum",
			[]string{"line_length"},
			false,
		),
	}
}

// DefaultSeverity reports long lines as info.
func (r *LineLengthRule) DefaultSeverity() config.Severity {
	return config.SeverityInfo
}

// Apply checks that no line exceeds the maximum length. Length counts runes.
func (r *LineLengthRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || len(ctx.File.Lines) == 0 {
		return nil, nil
	}

	maxLength := ctx.OptionInt("max", defaultMaxLineLength)
	ignoreComments := ctx.OptionBool("ignore_comments", false)
	ignoreVerbatim := ctx.OptionBool("ignore_verbatim", true)

	var verbatim map[int]bool
	if ignoreVerbatim {
		verbatim = verbatimLines(ctx)
	}

	var diags []lint.Diagnostic
	for lineNum := 1; lineNum <= len(ctx.File.Lines); lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if verbatim[lineNum] {
			continue
		}
		if ignoreComments && lint.IsCommentLine(ctx.File, lineNum) {
			continue
		}

		length := lint.LineLength(ctx.File, lineNum)
		if length <= maxLength {
			continue
		}

		line := ctx.File.Lines[lineNum-1]
		pos := texast.SourcePosition{
			StartLine:   lineNum,
			StartColumn: 1,
			EndLine:     lineNum,
			EndColumn:   line.NewlineStart - line.StartOffset,
		}
		diag := lint.NewDiagnosticAt(r.ID(), ctx.File.Path, pos,
			fmt.Sprintf("Line length %d exceeds maximum %d", length, maxLength)).
			WithSeverity(config.SeverityInfo).
			WithSuggestion("Break the line at a word boundary").
			Build()
		diags = append(diags, diag)
	}
	return diags, nil
}
