package reporter

import (
	"fmt"

	"github.com/yaklabco/texhelper/pkg/config"
)

// Format names an output format. It is the same type as the output
// configuration key so the two never drift apart.
type Format = config.OutputFormat

const (
	FormatText    = config.FormatText
	FormatJSON    = config.FormatJSON
	FormatDiff    = config.FormatDiff
	FormatSummary = config.FormatSummary
)

// ParseFormat validates a --format value; "" means text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	if format := Format(name); format.IsValid() {
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: text, json, diff, summary", name)
}
