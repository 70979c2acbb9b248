package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/texhelper/internal/ui/pretty"
	"github.com/yaklabco/texhelper/pkg/analysis"
)

// Column widths for the summary tables. Both tables share tableWidth.
const (
	tableWidth      = 80
	ruleColWidth    = 30
	fileColWidth    = 50
	numColWidth     = 7
	warnColWidth    = 9
	fixableColWidth = 8
)

// padRight pads s with spaces to width. Pad before styling so ANSI codes
// don't count towards the width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// truncate shortens s to width, keeping the tail when keepTail is set
// (paths) and the head otherwise (rule names).
func truncate(s string, width int, keepTail bool) string {
	if len(s) <= width {
		return s
	}
	if keepTail {
		return "..." + s[len(s)-(width-3):]
	}
	return s[:width-3] + "..."
}

// SummaryRenderer prints per-rule and per-file tables instead of individual
// diagnostics.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if report.Totals.Issues == 0 && report.Totals.SyntaxErrors == 0 {
		fmt.Fprintln(bw, r.styles.Success.Render("No issues found"))
		return nil
	}

	if r.opts.SummaryOrder == SummaryOrderFiles {
		r.renderFileTable(bw, report.ByFile)
		r.renderRuleTable(bw, report.ByRule)
	} else {
		r.renderRuleTable(bw, report.ByRule)
		r.renderFileTable(bw, report.ByFile)
	}

	r.renderTotals(bw, report.Totals)
	return nil
}

func (r *SummaryRenderer) separator(bw *bufio.Writer) {
	fmt.Fprintln(bw, r.styles.TableBorder.Render(strings.Repeat("-", tableWidth)))
}

func (r *SummaryRenderer) renderRuleTable(bw *bufio.Writer, rules []analysis.RuleAnalysis) {
	if len(rules) == 0 {
		return
	}

	fmt.Fprintln(bw, r.styles.Bold.Render("Rules"))
	r.separator(bw)
	fmt.Fprintf(bw, "%s %s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("Rule", ruleColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
		r.styles.TableHeader.Render(padLeft("Fixable", fixableColWidth)),
	)
	r.separator(bw)

	for _, rule := range rules {
		name := rule.RuleID
		if rule.RuleName != "" {
			name = rule.RuleID + " " + rule.RuleName
		}

		fixable := padLeft("", fixableColWidth)
		if rule.Fixable {
			fixable = r.styles.TableFixable.Render(padLeft("+", fixableColWidth))
		}

		fmt.Fprintf(bw, "%s %s %s %s %s\n",
			r.rowStyle(rule.Errors, rule.Warnings, padRight(truncate(name, ruleColWidth, false), ruleColWidth)),
			padLeft(strconv.Itoa(rule.Issues), numColWidth),
			padLeft(strconv.Itoa(rule.Errors), numColWidth),
			padLeft(strconv.Itoa(rule.Warnings), warnColWidth),
			fixable,
		)
	}
	fmt.Fprintln(bw)
}

func (r *SummaryRenderer) renderFileTable(bw *bufio.Writer, files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(bw, r.styles.Bold.Render("Files"))
	r.separator(bw)
	fmt.Fprintf(bw, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", warnColWidth)),
	)
	r.separator(bw)

	for _, file := range files {
		path := truncate(file.Path, fileColWidth, true)
		if file.SyntaxErrors > 0 {
			path = truncate(file.Path, fileColWidth-2, true) + " !"
		}

		fmt.Fprintf(bw, "%s %s %s %s\n",
			r.rowStyle(file.Errors+file.SyntaxErrors, file.Warnings, padRight(path, fileColWidth)),
			padLeft(strconv.Itoa(file.Issues), numColWidth),
			padLeft(strconv.Itoa(file.Errors), numColWidth),
			padLeft(strconv.Itoa(file.Warnings), warnColWidth),
		)
	}
	fmt.Fprintln(bw)
}

func (r *SummaryRenderer) rowStyle(errors, warnings int, cell string) string {
	switch {
	case errors > 0:
		return r.styles.Error.Render(cell)
	case warnings > 0:
		return r.styles.Warning.Render(cell)
	default:
		return cell
	}
}

func (r *SummaryRenderer) renderTotals(bw *bufio.Writer, totals analysis.Totals) {
	line := fmt.Sprintf("%d %s", totals.Issues, pluralWord(totals.Issues, "issue", "issues"))

	var severities []string
	if totals.Errors > 0 {
		severities = append(severities, r.styles.Error.Render(
			fmt.Sprintf("%d %s", totals.Errors, pluralWord(totals.Errors, "error", "errors"))))
	}
	if totals.Warnings > 0 {
		severities = append(severities, r.styles.Warning.Render(
			fmt.Sprintf("%d %s", totals.Warnings, pluralWord(totals.Warnings, "warning", "warnings"))))
	}
	if totals.Infos > 0 {
		severities = append(severities, r.styles.Info.Render(fmt.Sprintf("%d info", totals.Infos)))
	}
	if len(severities) > 0 {
		line += " (" + strings.Join(severities, ", ") + ")"
	}

	line += fmt.Sprintf(" in %d %s", totals.FilesWithIssues, pluralWord(totals.FilesWithIssues, "file", "files"))
	fmt.Fprintln(bw, r.styles.Bold.Render("Total: ")+line)

	if totals.FilesUnparsable > 0 {
		fmt.Fprintln(bw, r.styles.Failure.Render(fmt.Sprintf("%d %s could not be parsed cleanly",
			totals.FilesUnparsable, pluralWord(totals.FilesUnparsable, "file", "files"))))
	}
}
