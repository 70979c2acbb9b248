package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes all rules with their documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string

	// IncludeRules is a list of rule IDs to include.
	// If empty, all rules are included.
	IncludeRules []string
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string
	CanFix      bool
}

// RuleInfoProvider is a function that returns rule information.
// This allows decoupling from the lint package to avoid circular imports.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the rules package during init.
//
//nolint:gochecknoglobals // Intentional extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(selectRules(opts.IncludeRules))
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")
	buf.WriteString(baseTemplate)

	if !opts.Full {
		buf.WriteString(minimalRulesTemplate)
		return buf.Bytes(), nil
	}

	buf.WriteString("\n# Rule-specific configuration\nrules:\n")
	for _, rule := range selectRules(opts.IncludeRules) {
		fmt.Fprintf(&buf, "\n  # %s: %s\n", rule.ID, rule.Name)
		fmt.Fprintf(&buf, "  # %s\n", wrapComment(rule.Description, commentWrapWidth))
		if len(rule.Tags) > 0 {
			fmt.Fprintf(&buf, "  # Tags: %s\n", strings.Join(rule.Tags, ", "))
		}
		if rule.CanFix {
			buf.WriteString("  # Auto-fix: yes\n")
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n", rule.Severity)
	}

	return buf.Bytes(), nil
}

const baseTemplate = `# Default severity for rules that don't set one: error, warning, or info
severity_default: warning

# File patterns to ignore (glob patterns)
ignore:
  - ".build/**"

# Backups written before files are rewritten in place
backups:
  enabled: true
  mode: sidecar

project:
  main_file: main.tex
  build_dir: .build
  # article, report, book or letter
  doc_mode: article
  # latex_binary: latexmk
  # template_dir: ~/.config/texhelper/templates

format:
  indent_width: 2
  use_tabs: false
  max_blank_lines: 1
  indent_document: false
  verbatim: [verbatim, Verbatim, lstlisting, minted, comment]

parser:
  max_depth: 256
`

const minimalRulesTemplate = `
# Rule-specific configuration
# rules:
#   TEX003:
#     severity: error
#   TEX008:
#     options:
#       max: 120
`

// selectRules returns the known rules sorted by ID, restricted to include
// when it is not empty.
func selectRules(include []string) []RuleInfo {
	rules := getRuleInfos()
	if len(include) > 0 {
		rules = slices.DeleteFunc(rules, func(r RuleInfo) bool {
			return !slices.Contains(include, r.ID)
		})
	}
	slices.SortFunc(rules, func(a, b RuleInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return rules
}

// getRuleInfos returns information about all registered rules.
func getRuleInfos() []RuleInfo {
	if DefaultRuleInfoProvider != nil {
		return DefaultRuleInfoProvider()
	}
	return nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// templateToJSON renders the default configuration with the given rules as
// JSON.
func templateToJSON(rules []RuleInfo) ([]byte, error) {
	cfg := NewConfig()
	rulesMap := make(map[string]any, len(rules))
	for _, r := range rules {
		rulesMap[r.ID] = map[string]any{
			"enabled":  r.Enabled,
			"severity": string(r.Severity),
		}
	}

	doc := map[string]any{
		"severity_default": cfg.SeverityDefault,
		"ignore":           []string{".build/**"},
		"backups":          map[string]any{"enabled": cfg.Backups.Enabled, "mode": cfg.Backups.Mode},
		"project": map[string]any{
			"main_file": cfg.Project.MainFile,
			"build_dir": cfg.Project.BuildDir,
			"doc_mode":  cfg.Project.DocMode,
		},
		"format": map[string]any{
			"indent_width":    cfg.Format.IndentWidth,
			"use_tabs":        cfg.Format.UseTabs,
			"max_blank_lines": cfg.Format.MaxBlankLines,
			"indent_document": cfg.Format.IndentDocument,
			"verbatim":        cfg.Format.Verbatim,
		},
		"parser": map[string]any{"max_depth": cfg.Parser.MaxDepth},
		"rules":  rulesMap,
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# texhelper configuration
# See: https://github.com/yaklabco/texhelper`
}
