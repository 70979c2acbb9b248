package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fix"
	"github.com/yaklabco/texhelper/pkg/langdetect"
	"github.com/yaklabco/texhelper/pkg/lint"
	"github.com/yaklabco/texhelper/pkg/texast"
)

// ListingLanguageRule checks that lstlisting environments declare a
// language, and proposes one detected from the listing body.
type ListingLanguageRule struct {
	lint.BaseRule
}

// NewListingLanguageRule creates a new listing language rule.
func NewListingLanguageRule() *ListingLanguageRule {
	return &ListingLanguageRule{
		BaseRule: lint.NewBaseRule(
			"TEX005",
			"listing-language",
			"lstlisting environments should declare the language of their code",
			[]string{"listings", "code"},
			true,
		),
	}
}

// DefaultSeverity reports missing listing languages as info.
func (r *ListingLanguageRule) DefaultSeverity() config.Severity {
	return config.SeverityInfo
}

// Apply checks every lstlisting environment for a language= option.
func (r *ListingLanguageRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || ctx.Tree == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic
	for _, id := range ctx.Environments() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if ctx.Tree.Lexeme(id) != "lstlisting" {
			continue
		}

		diag, ok := r.check(ctx, id)
		if ok {
			diags = append(diags, diag)
		}
	}
	return diags, nil
}

func (r *ListingLanguageRule) check(ctx *lint.RuleContext, envr texast.NodeID) (lint.Diagnostic, bool) {
	file := ctx.File
	nameIdx := nameClose(file, envr)
	endIdx := endToken(file, envr)
	if nameIdx < 0 || endIdx < 0 {
		return lint.Diagnostic{}, false
	}

	bodyStart := file.Tokens[nameIdx].End
	opts, optText, hasOpts := lint.EnvironmentOptions(ctx.Tree, envr)
	var optsClose texast.Token
	if hasOpts {
		if hasLanguageOption(optText) {
			return lint.Diagnostic{}, false
		}
		node := ctx.Tree.Node(opts)
		optsClose = file.Tokens[node.LastToken]
		if optsClose.Kind != texast.TokRightBracket {
			return lint.Diagnostic{}, false
		}
		bodyStart = optsClose.End
	}

	start, end, _ := beginRange(file, envr)
	builder := lint.NewDiagnosticAtRange(r.ID(), file, start, end, "Listing has no language option").
		WithSeverity(config.SeverityInfo)

	body := file.Content[bodyStart:file.Tokens[endIdx].Offset]
	lang, detected := langdetect.Detect(body)
	if !detected {
		return builder.WithSuggestion("Add [language=...] after \\begin{lstlisting}").Build(), true
	}

	edits := fix.NewEditBuilder()
	switch {
	case !hasOpts:
		edits.InsertAfter(file.Tokens[nameIdx], "[language="+lang+"]")
	case strings.TrimSpace(optText) == "":
		edits.InsertBefore(optsClose, "language="+lang)
	default:
		edits.InsertBefore(optsClose, ",language="+lang)
	}

	return builder.
		WithSuggestion(fmt.Sprintf("Add language=%s", lang)).
		WithFix(edits).
		Build(), true
}

// hasLanguageOption reports whether a flattened key=value list sets the
// listing language.
func hasLanguageOption(options string) bool {
	for _, part := range strings.Split(options, ",") {
		key, _, _ := strings.Cut(part, "=")
		if strings.EqualFold(strings.TrimSpace(key), "language") {
			return true
		}
	}
	return false
}
