package cli_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texhelper/internal/cli"
)

var testBuildInfo = cli.BuildInfo{
	Version: "test-version",
	Commit:  "test-commit",
	Date:    "test-date",
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo)

	require.NotNil(t, cmd)
	assert.Equal(t, "texhelper", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo)

	for _, name := range []string{"init", "compile", "format", "lint", "parse", "convert", "rules", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if !assert.NoError(t, err, "subcommand %q", name) {
			continue
		}
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestRootCommandGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testBuildInfo)

	tests := []struct {
		name    string
		defVal  string
		flagTyp string
	}{
		{name: "debug", defVal: "false", flagTyp: "bool"},
		{name: "config", defVal: "", flagTyp: "string"},
		{name: "color", defVal: "auto", flagTyp: "string"},
	}

	for _, tt := range tests {
		flag := cmd.PersistentFlags().Lookup(tt.name)
		require.NotNil(t, flag, "global flag --%s", tt.name)
		assert.Equal(t, tt.defVal, flag.DefValue, "--%s default", tt.name)
		assert.Equal(t, tt.flagTyp, flag.Value.Type(), "--%s type", tt.name)
	}
}

func TestSubcommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		flags   []string
	}{
		{command: "init", flags: []string{"doc-mode", "template-dir", "with-config", "full", "migrate-config", "yes"}},
		{command: "compile", flags: []string{"watch", "binary", "build-dir", "show-output"}},
		{command: "format", flags: []string{"in-place", "outfile", "check", "diff", "no-backups", "indent", "tabs"}},
		{command: "parse", flags: []string{"tokens", "quiet", "max-depth"}},
		{command: "convert", flags: []string{"output", "standalone", "doc-class", "raw"}},
		{command: "rules", flags: []string{"format"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testBuildInfo)
			subCmd, _, err := cmd.Find([]string{tt.command})
			require.NoError(t, err)

			for _, name := range tt.flags {
				assert.NotNil(t, subCmd.Flags().Lookup(name), "%s --%s", tt.command, name)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "texhelper")
	assert.Contains(t, stdout, "test-version")
	assert.Contains(t, stdout, "test-commit")
	assert.Contains(t, stdout, "test-date")
}

func TestVersionCommand_RejectsArgs(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "version", "extra")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "lint", "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "texhelper lint")
	assert.Contains(t, stdout, "Flags:")
	assert.Contains(t, stdout, "--rule-format")
	assert.Contains(t, stdout, "Global Flags:")
	assert.Contains(t, stdout, "--config")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "parse", "--no-such-flag", "x.tex")
	require.Error(t, err)

	var usageErr *cli.UsageError
	assert.True(t, errors.As(err, &usageErr))
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "frobnicate")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

// execute runs the root command with args and captures both streams.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testBuildInfo)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
