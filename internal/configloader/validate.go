package configloader

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fsutil"
	"github.com/yaklabco/texhelper/pkg/lint"
	"github.com/yaklabco/texhelper/pkg/project"
)

// ValidationError is one problem found in a configuration.
type ValidationError struct {
	// Field is the dotted key, such as "rules.TEX008.severity".
	Field string

	Value any

	Message string

	// FilePath is set when the problem is tied to a file, such as a YAML
	// syntax error.
	FilePath string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.FilePath != "" {
		sb.WriteString(e.FilePath)
		sb.WriteString(": ")
	}
	if e.Field != "" {
		sb.WriteString(e.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// ValidationResult separates problems that stop loading from those that
// are only reported.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether no errors were found.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

const severityChoices = "error, warning, info"

// Validate checks cfg after merging. Rule keys are looked up in the
// default registry.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	checkSeverity(result, "severity_default", cfg.SeverityDefault)
	if cfg.Output != "" && !cfg.Output.IsValid() {
		result.fail("output", cfg.Output, "invalid output format %q; must be one of: text, json, diff, summary", cfg.Output)
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	switch fsutil.BackupMode(cfg.Backups.Mode) {
	case "", fsutil.BackupModeSidecar, fsutil.BackupModeNone:
	default:
		result.fail("backups.mode", cfg.Backups.Mode, "invalid backup mode %q; must be sidecar or none", cfg.Backups.Mode)
	}

	checkProject(result, cfg)
	checkLimits(result, cfg)
	checkRules(result, cfg.Rules, lint.DefaultRegistry)

	for i, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	return result
}

func checkSeverity(result *ValidationResult, field, value string) {
	if value != "" && !config.Severity(value).IsValid() {
		result.fail(field, value, "invalid severity %q; must be one of: %s", value, severityChoices)
	}
}

func checkProject(result *ValidationResult, cfg *config.Config) {
	// A custom template directory may provide any mode, so this only warns.
	if mode := cfg.Project.DocMode; mode != "" && !slices.Contains(project.DocModes(), mode) {
		result.warn("project.doc_mode", mode,
			"unknown doc mode %q; init needs a custom template of that name or falls back to article", mode)
	}
	if mainFile := cfg.Project.MainFile; mainFile != "" && filepath.Ext(mainFile) != ".tex" {
		result.warn("project.main_file", mainFile, "main file does not end in .tex")
	}
}

func checkLimits(result *ValidationResult, cfg *config.Config) {
	limits := []struct {
		field string
		value int
		rule  string
	}{
		{"parser.max_depth", cfg.Parser.MaxDepth, "max_depth must be > 0 (0 means default)"},
		{"format.indent_width", cfg.Format.IndentWidth, "indent_width must be >= 0"},
		{"format.max_blank_lines", cfg.Format.MaxBlankLines, "max_blank_lines must be >= 0"},
	}
	for _, limit := range limits {
		if limit.value < 0 {
			result.fail(limit.field, limit.value, "%s", limit.rule)
		}
	}
}

func checkRules(result *ValidationResult, rules map[string]config.RuleConfig, registry *lint.Registry) {
	keys := make([]string, 0, len(rules))
	for key := range rules {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if _, ok := registry.Get(key); !ok {
			result.warn("rules."+key, key, "unknown rule %q; it will be ignored", key)
		}
		if sev := rules[key].Severity; sev != nil {
			checkSeverity(result, "rules."+key+".severity", *sev)
		}
	}
}
