package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texhelper/internal/cli"
)

func TestLintCommand_FlagDefaults(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo)
	lintCmd, _, err := cmd.Find([]string{"lint"})
	require.NoError(t, err)

	tests := []struct {
		flag   string
		defVal string
	}{
		{flag: "fix", defVal: "false"},
		{flag: "dry-run", defVal: "false"},
		{flag: "format", defVal: "text"},
		{flag: "jobs", defVal: "0"},
		{flag: "ignore", defVal: "[]"},
		{flag: "enable", defVal: "[]"},
		{flag: "disable", defVal: "[]"},
		{flag: "fix-rules", defVal: "[]"},
		{flag: "no-backups", defVal: "false"},
		{flag: "strict", defVal: "false"},
		{flag: "no-context", defVal: "false"},
		{flag: "compact", defVal: "false"},
		{flag: "rule-format", defVal: "name"},
		{flag: "summary-order", defVal: "rules"},
	}

	for _, tt := range tests {
		flag := lintCmd.Flags().Lookup(tt.flag)
		if !assert.NotNil(t, flag, "--%s should exist", tt.flag) {
			continue
		}
		assert.Equal(t, tt.defVal, flag.DefValue, "--%s default", tt.flag)
	}
}

func TestLintCommand_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "format", args: []string{"--format", "sarif"}},
		{name: "summary order", args: []string{"--summary-order", "random"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeTeX(t, "clean.tex", "Hello.\n")
			args := append([]string{"lint", "--config", writeConfig(t, ""), "--color", "never"}, tt.args...)
			_, _, err := execute(t, append(args, path)...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
		})
	}
}
