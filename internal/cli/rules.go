package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texhelper/internal/ui/pretty"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/lint"
)

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Enabled     bool   `json:"enabled"`
	Fixable     bool   `json:"fixable"`
}

func newRulesCommand(globals *globalFlags) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all lint rules with their IDs, names, default severity, whether
they can fix what they find (+) and a description. Rules disabled by default
are dimmed.

Rules can be referred to by ID (TEX006) or name (no-trailing-whitespace) in
the configuration and in --enable/--disable.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := lint.DefaultRegistry.RuleInfos()
			out := cmd.OutOrStdout()

			switch outputFormat {
			case formatJSON:
				return outputRulesJSON(out, infos)
			case "text":
			default:
				return usageError(fmt.Errorf("invalid format %q: must be text or json", outputFormat))
			}

			styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, out))
			table := pretty.NewRuleTable(styles, pretty.TerminalWidth(out, 0))
			fmt.Fprint(out, table.Format(infos))
			return nil
		},
	}

	cmd.Flags().StringVar(&outputFormat, "format", "text", "output format: text, json")

	return cmd
}

// outputRulesJSON writes rules as a JSON array.
func outputRulesJSON(w io.Writer, infos []config.RuleInfo) error {
	rules := make([]ruleInfo, 0, len(infos))
	for _, info := range infos {
		rules = append(rules, ruleInfo{
			ID:          info.ID,
			Name:        info.Name,
			Description: info.Description,
			Severity:    string(info.Severity),
			Enabled:     info.Enabled,
			Fixable:     info.CanFix,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rules); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
