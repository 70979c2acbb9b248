package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/texhelper/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// SummaryOrder controls which table the summary format prints first.
type SummaryOrder string

const (
	SummaryOrderRules SummaryOrder = "rules"
	SummaryOrderFiles SummaryOrder = "files"
)

// IsValid reports whether o is a known order.
func (o SummaryOrder) IsValid() bool {
	return o == SummaryOrderRules || o == SummaryOrderFiles
}

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	Format Format

	// Color controls colorized output: "auto" (default), "always" or "never".
	Color string

	// ShowContext includes the offending source line under each diagnostic.
	ShowContext bool

	// ShowSummary appends aggregate statistics after the results.
	ShowSummary bool

	// GroupByFile prints a header per file in text output.
	GroupByFile bool

	// Compact disables JSON indentation.
	Compact bool

	RuleFormat   config.RuleFormat
	SummaryOrder SummaryOrder

	// WorkingDir is the directory paths are shown relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:       os.Stdout,
		Format:       FormatText,
		Color:        "auto",
		ShowContext:  true,
		ShowSummary:  true,
		GroupByFile:  true,
		RuleFormat:   config.RuleFormatName,
		SummaryOrder: SummaryOrderRules,
	}
}
