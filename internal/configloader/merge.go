package configloader

import (
	"maps"
	"slices"

	"github.com/yaklabco/texhelper/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans only ever switch on; false is indistinguishable from unset
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.SeverityDefault != "" {
		result.SeverityDefault = override.SeverityDefault
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.RuleFormat != "" {
		result.RuleFormat = override.RuleFormat
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.Debug {
		result.Debug = true
	}
	if override.Fix {
		result.Fix = true
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	result.Project = mergeProject(base.Project, override.Project)
	result.Format = mergeFormat(base.Format, override.Format)
	if override.Parser.MaxDepth != 0 {
		result.Parser.MaxDepth = override.Parser.MaxDepth
	}

	result.Rules = mergeRules(base.Rules, override.Rules)

	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}
	if override.EnableRules != nil {
		result.EnableRules = override.EnableRules
	}
	if override.DisableRules != nil {
		result.DisableRules = override.DisableRules
	}
	if override.FixRules != nil {
		result.FixRules = override.FixRules
	}

	return &result
}

func mergeProject(base, override config.ProjectConfig) config.ProjectConfig {
	result := base
	if override.MainFile != "" {
		result.MainFile = override.MainFile
	}
	if override.LatexBinary != "" {
		result.LatexBinary = override.LatexBinary
	}
	if override.BuildDir != "" {
		result.BuildDir = override.BuildDir
	}
	if override.DocMode != "" {
		result.DocMode = override.DocMode
	}
	if override.TemplateDir != "" {
		result.TemplateDir = override.TemplateDir
	}
	return result
}

func mergeFormat(base, override config.FormatConfig) config.FormatConfig {
	result := base
	if override.IndentWidth != 0 {
		result.IndentWidth = override.IndentWidth
	}
	if override.MaxBlankLines != 0 {
		result.MaxBlankLines = override.MaxBlankLines
	}
	if override.UseTabs {
		result.UseTabs = true
	}
	if override.IndentDocument {
		result.IndentDocument = true
	}
	if override.Verbatim != nil {
		result.Verbatim = slices.Clone(override.Verbatim)
	}
	return result
}

// mergeRules performs deep merge of rule configurations.
func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.RuleConfig, len(base)+len(override))
	maps.Copy(result, base)

	for key, val := range override {
		if existing, ok := result[key]; ok {
			result[key] = mergeRuleConfig(existing, val)
		} else {
			result[key] = val
		}
	}
	return result
}

// mergeRuleConfig merges individual rule configurations.
func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	result := base

	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	if override.Severity != nil {
		result.Severity = override.Severity
	}
	if override.AutoFix != nil {
		result.AutoFix = override.AutoFix
	}

	if override.Options != nil {
		options := make(map[string]any, len(base.Options)+len(override.Options))
		maps.Copy(options, base.Options)
		maps.Copy(options, override.Options)
		result.Options = options
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
