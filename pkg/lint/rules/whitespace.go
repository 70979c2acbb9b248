package rules

import (
	"fmt"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fix"
	"github.com/yaklabco/texhelper/pkg/lint"
	"github.com/yaklabco/texhelper/pkg/texast"
)

// TrailingWhitespaceRule checks for trailing whitespace on lines.
type TrailingWhitespaceRule struct {
	lint.BaseRule
}

// NewTrailingWhitespaceRule creates a new trailing whitespace rule.
func NewTrailingWhitespaceRule() *TrailingWhitespaceRule {
	return &TrailingWhitespaceRule{
		BaseRule: lint.NewBaseRule(
			"TEX006",
			"no-trailing-whitespace",
			"Lines should not end in spaces or tabs",
			[]string{"whitespace"},
			true,
		),
	}
}

// Apply checks for trailing whitespace on each line.
func (r *TrailingWhitespaceRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	verbatim := verbatimLines(ctx)

	var diags []lint.Diagnostic
	for lineNum := 1; lineNum <= len(ctx.File.Lines); lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if verbatim[lineNum] {
			continue
		}

		start, end := lint.TrailingWhitespaceRange(ctx.File, lineNum)
		if end <= start {
			continue
		}

		builder := fix.NewEditBuilder()
		builder.Delete(start, end)

		diag := lint.NewDiagnosticAtRange(r.ID(), ctx.File, start, end, "Trailing whitespace").
			WithSeverity(config.SeverityWarning).
			WithSuggestion("Remove trailing whitespace").
			WithFix(builder).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// MultipleBlankLinesRule checks for consecutive blank lines.
type MultipleBlankLinesRule struct {
	lint.BaseRule
}

// NewMultipleBlankLinesRule creates a new multiple blank lines rule.
func NewMultipleBlankLinesRule() *MultipleBlankLinesRule {
	return &MultipleBlankLinesRule{
		BaseRule: lint.NewBaseRule(
			"TEX007",
			"no-multiple-blank-lines",
			"Multiple consecutive blank lines should be collapsed",
			[]string{"whitespace", "layout"},
			true,
		),
	}
}

// Apply checks for sequences of blank lines exceeding the maximum.
func (r *MultipleBlankLinesRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || len(ctx.File.Lines) == 0 {
		return nil, nil
	}

	maximum := ctx.OptionInt("maximum", config.DefaultMaxBlankLines)
	if maximum < 0 {
		maximum = config.DefaultMaxBlankLines
	}
	verbatim := verbatimLines(ctx)

	// The empty segment after a final newline is not a blank line.
	lineCount := len(ctx.File.Lines)
	if ctx.File.Lines[lineCount-1].StartOffset == len(ctx.File.Content) {
		lineCount--
	}

	var diags []lint.Diagnostic
	streakStart := 0
	streakCount := 0

	flush := func() {
		if streakCount > maximum {
			diags = append(diags, r.createDiagnostic(ctx, streakStart, streakCount, maximum))
		}
		streakCount = 0
	}

	for lineNum := 1; lineNum <= lineCount; lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		if !verbatim[lineNum] && lint.IsBlankLine(ctx.File, lineNum) {
			if streakCount == 0 {
				streakStart = lineNum
			}
			streakCount++
			continue
		}
		flush()
	}
	flush()

	return diags, nil
}

func (r *MultipleBlankLinesRule) createDiagnostic(
	ctx *lint.RuleContext,
	streakStart, streakCount, maximum int,
) lint.Diagnostic {
	excessCount := streakCount - maximum
	firstExcessLine := streakStart + maximum
	lastExcessLine := streakStart + streakCount - 1

	startOffset := ctx.File.Lines[firstExcessLine-1].StartOffset
	endOffset := ctx.File.Lines[lastExcessLine-1].EndOffset

	builder := fix.NewEditBuilder()
	builder.Delete(startOffset, endOffset)

	pos := texast.SourcePosition{
		StartLine:   firstExcessLine,
		StartColumn: 1,
		EndLine:     lastExcessLine,
		EndColumn:   1,
	}

	return lint.NewDiagnosticAt(r.ID(), ctx.File.Path, pos,
		fmt.Sprintf("Multiple consecutive blank lines (found %d, max %d)", streakCount, maximum)).
		WithSeverity(config.SeverityWarning).
		WithSuggestion(fmt.Sprintf("Remove %d blank line(s)", excessCount)).
		WithFix(builder).
		Build()
}

// verbatimLines returns the lines covered by verbatim environments.
func verbatimLines(ctx *lint.RuleContext) map[int]bool {
	names := config.DefaultVerbatimEnvironments()
	if ctx.Config != nil && len(ctx.Config.Format.Verbatim) > 0 {
		names = ctx.Config.Format.Verbatim
	}
	return lint.EnvironmentLines(ctx.File, names)
}
