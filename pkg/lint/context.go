package lint

import (
	"context"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fix"
	"github.com/yaklabco/texhelper/pkg/texast"
)

// RuleContext carries everything a rule needs to check one file.
//
// It is a short-lived parameter object created per rule invocation, so it
// holds the context.Context as a field instead of threading it through Apply.
type RuleContext struct {
	Ctx context.Context

	// File is the parsed snapshot; Tree is File.Tree.
	File *texast.FileSnapshot
	Tree *texast.Tree

	// Config is the resolved configuration.
	Config *config.Config

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	// Builder accumulates text edits for auto-fix.
	Builder *fix.EditBuilder

	// Registry allows rules to look up other rules by ID.
	Registry *Registry

	nodes *NodeCache
}

// NewRuleContext creates a RuleContext for the given file and configuration.
func NewRuleContext(
	ctx context.Context,
	file *texast.FileSnapshot,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *RuleContext {
	var tree *texast.Tree
	if file != nil {
		tree = file.Tree
	}

	return &RuleContext{
		Ctx:        ctx,
		File:       file,
		Tree:       tree,
		Config:     cfg,
		RuleConfig: ruleCfg,
		Builder:    fix.NewEditBuilder(),
	}
}

// Cancelled reports whether the context has been cancelled.
func (rc *RuleContext) Cancelled() bool {
	select {
	case <-rc.Ctx.Done():
		return true
	default:
		return false
	}
}

// Nodes returns the node index of the file, building it on first use. The
// engine shares one index across all rules of a file.
func (rc *RuleContext) Nodes() *NodeCache {
	if rc.nodes == nil {
		rc.nodes = newNodeCache()
		rc.nodes.build(rc.Tree)
	}
	return rc.nodes
}

// Commands returns every Command node in document order.
func (rc *RuleContext) Commands() []texast.NodeID {
	return rc.Nodes().ByKind(texast.NodeCommand)
}

// Environments returns every Envr node in document order.
func (rc *RuleContext) Environments() []texast.NodeID {
	return rc.Nodes().ByKind(texast.NodeEnvr)
}

// DisplayMath returns every DisplayMath node in document order.
func (rc *RuleContext) DisplayMath() []texast.NodeID {
	return rc.Nodes().ByKind(texast.NodeDisplayMath)
}

// Option returns a rule option, or defaultValue when unset.
func (rc *RuleContext) Option(key string, defaultValue any) any {
	if rc.RuleConfig == nil || rc.RuleConfig.Options == nil {
		return defaultValue
	}
	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionInt returns an integer option. YAML ints and JSON floats are both
// accepted.
func (rc *RuleContext) OptionInt(key string, defaultValue int) int {
	switch val := rc.Option(key, defaultValue).(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	default:
		return defaultValue
	}
}

// OptionString returns a string option.
func (rc *RuleContext) OptionString(key string, defaultValue string) string {
	if s, ok := rc.Option(key, defaultValue).(string); ok {
		return s
	}
	return defaultValue
}

// OptionBool returns a boolean option.
func (rc *RuleContext) OptionBool(key string, defaultValue bool) bool {
	if b, ok := rc.Option(key, defaultValue).(bool); ok {
		return b
	}
	return defaultValue
}

// OptionStringSlice returns a string list option. Lists decoded from YAML
// arrive as []any and are converted.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	v := rc.Option(key, defaultValue)
	if slice, ok := v.([]string); ok {
		return slice
	}
	if items, ok := v.([]any); ok {
		result := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
