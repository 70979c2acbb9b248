package analysis

import "github.com/yaklabco/texhelper/pkg/config"

// SortField orders the ByFile and ByRule views.
type SortField string

const (
	SortByCount SortField = "count"

	// SortByAlpha orders by path or rule and ignores SortDesc.
	SortByAlpha SortField = "alpha"

	// SortBySeverity puts the entries with the most errors first, then
	// the most warnings.
	SortBySeverity SortField = "severity"
)

// Options selects which views Analyze builds and how they are ordered.
type Options struct {
	IncludeDiagnostics bool
	IncludeByFile      bool
	IncludeByRule      bool

	SortBy   SortField
	SortDesc bool

	RuleFormat config.RuleFormat

	// WorkingDir, when set, makes file paths relative to it.
	WorkingDir string
}

// DefaultOptions builds every view, busiest first.
func DefaultOptions() Options {
	return Options{
		IncludeDiagnostics: true,
		IncludeByFile:      true,
		IncludeByRule:      true,
		SortBy:             SortByCount,
		SortDesc:           true,
		RuleFormat:         config.RuleFormatName,
	}
}
