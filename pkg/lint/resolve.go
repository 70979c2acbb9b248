package lint

import (
	"slices"

	"github.com/yaklabco/texhelper/pkg/config"
)

// ResolvedRule pairs a Rule with its effective settings.
type ResolvedRule struct {
	Rule     Rule
	Enabled  bool
	Severity config.Severity
	AutoFix  bool

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveRules returns the enabled rules of registry with their settings.
//
// Precedence, lowest first: rule defaults, the rules section of cfg (keyed
// by ID or name), then the --enable/--disable lists. Auto-fix additionally
// requires cfg.Fix or cfg.DryRun and, when set, membership in cfg.FixRules.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var resolved []ResolvedRule
	for _, rule := range registry.Rules() {
		rr := resolveRule(registry, rule, cfg)
		if rr.Enabled {
			resolved = append(resolved, rr)
		}
	}
	return resolved
}

func resolveRule(registry *Registry, rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
		AutoFix:  rule.CanFix(),
	}
	if cfg == nil {
		return rr
	}

	if cfg.SeverityDefault != "" && config.Severity(cfg.SeverityDefault).IsValid() &&
		rule.DefaultSeverity() == config.SeverityWarning {
		rr.Severity = config.Severity(cfg.SeverityDefault)
	}

	for key, ruleCfg := range cfg.Rules {
		if id, ok := registry.Resolve(key); !ok || id != rule.ID() {
			continue
		}
		rr.Config = &ruleCfg
		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			rr.Severity = config.Severity(*ruleCfg.Severity)
		}
		if ruleCfg.AutoFix != nil {
			rr.AutoFix = *ruleCfg.AutoFix && rule.CanFix()
		}
		break
	}

	matches := func(keys []string) bool {
		return slices.ContainsFunc(keys, func(key string) bool {
			id, ok := registry.Resolve(key)
			return ok && id == rule.ID()
		})
	}
	if matches(cfg.EnableRules) {
		rr.Enabled = true
	}
	if matches(cfg.DisableRules) {
		rr.Enabled = false
	}
	if len(cfg.FixRules) > 0 && !matches(cfg.FixRules) {
		rr.AutoFix = false
	}
	if !cfg.Fix && !cfg.DryRun {
		rr.AutoFix = false
	}

	return rr
}
