package rules

import (
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/lint"
)

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	// Syntax
	registry.Register(NewSyntaxErrorRule()) // TEX001

	// Math
	registry.Register(NewDollarDisplayMathRule()) // TEX002
	registry.Register(NewEqnarrayRule())          // TEX004

	// Commands
	registry.Register(NewDeprecatedFontRule()) // TEX003

	// Listings
	registry.Register(NewListingLanguageRule()) // TEX005

	// Whitespace and layout
	registry.Register(NewTrailingWhitespaceRule()) // TEX006
	registry.Register(NewMultipleBlankLinesRule()) // TEX007
	registry.Register(NewLineLengthRule())         // TEX008
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	config.DefaultRuleInfoProvider = lint.DefaultRegistry.RuleInfos
}
