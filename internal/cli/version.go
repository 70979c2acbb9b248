package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texhelper/internal/logging"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date and Go version of texhelper.`,
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			// Version output goes to stdout, unlike every other log line.
			logging.NewWithWriter(cmd.OutOrStdout(), "info").Info("texhelper",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				"go", runtime.Version(),
			)
		},
	}
}
