package lint

import (
	"context"
	"fmt"

	"github.com/yaklabco/texhelper/internal/logging"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fix"
	"github.com/yaklabco/texhelper/pkg/texast"
)

// FileResult holds the outcome of linting one file.
type FileResult struct {
	Snapshot    *texast.FileSnapshot
	Diagnostics []Diagnostic

	// Edits are the validated, sorted fix edits. Empty unless fixing was
	// requested and some rule proposed edits.
	Edits []fix.TextEdit

	// SkippedEdits lost a conflict against an earlier edit.
	SkippedEdits []fix.TextEdit

	// EditConflicts is true when edits were skipped or invalid.
	EditConflicts bool

	// RuleErrors maps rule IDs to internal rule failures.
	RuleErrors map[string]error
}

// HasIssues reports whether any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// HasFixes reports whether fix edits are available.
func (fr *FileResult) HasFixes() bool {
	return len(fr.Edits) > 0
}

// IssueCount returns the number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of diagnostics that carry a fix.
func (fr *FileResult) FixableCount() int {
	count := 0
	for i := range fr.Diagnostics {
		if fr.Diagnostics[i].HasFix() {
			count++
		}
	}
	return count
}

// Engine parses files and runs rules over them.
type Engine struct {
	Parser   Parser
	Registry *Registry
}

// NewEngine creates an Engine.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{
		Parser:   parser,
		Registry: registry,
	}
}

// LintFile parses content and applies every enabled rule to it.
func (e *Engine) LintFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	snapshot, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	result := &FileResult{
		Snapshot:   snapshot,
		RuleErrors: make(map[string]error),
	}

	var allEdits []fix.TextEdit
	var nodes *NodeCache

	for _, rr := range ResolveRules(e.Registry, cfg) {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("linting cancelled: %w", ctx.Err())
		default:
		}

		ruleCtx := NewRuleContext(ctx, snapshot, cfg, rr.Config)
		ruleCtx.Registry = e.Registry
		ruleCtx.nodes = nodes

		diags, err := rr.Rule.Apply(ruleCtx)
		nodes = ruleCtx.nodes
		if err != nil {
			result.RuleErrors[rr.Rule.ID()] = err
			logging.FromContext(ctx).Debug("rule failed",
				logging.FieldRule, rr.Rule.ID(),
				logging.FieldPath, path,
				logging.FieldError, err,
			)
			continue
		}

		for i := range diags {
			diags[i].Severity = rr.Severity
			if diags[i].FilePath == "" {
				diags[i].FilePath = path
			}
			if diags[i].RuleName == "" {
				diags[i].RuleName = rr.Rule.Name()
			}
			if rr.AutoFix {
				allEdits = append(allEdits, diags[i].FixEdits...)
			}
		}
		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	if len(allEdits) > 0 {
		accepted, skipped, _, err := fix.PrepareEditsFiltered(allEdits, len(content))
		if err != nil {
			// An out-of-range edit is a rule bug; keep the diagnostics and
			// drop every edit.
			result.EditConflicts = true
		} else {
			result.Edits = accepted
			result.SkippedEdits = skipped
			result.EditConflicts = len(skipped) > 0
		}
	}

	return result, nil
}
