package configloader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/term"

	"github.com/yaklabco/texhelper/pkg/config"
)

// ErrConfigExists is returned when a migration would overwrite a config file.
var ErrConfigExists = errors.New("config file already exists")

// LegacyConfig is the TOML configuration of the earlier tex-helper tool.
type LegacyConfig struct {
	MainFileName string `toml:"main_file_name"`
	LatexBinary  string `toml:"latex_binary"`
	Debug        bool   `toml:"debug"`
}

// LoadLegacyConfig decodes a legacy TOML file. Keys the legacy tool did not
// know are returned as warnings.
func LoadLegacyConfig(path string) (*LegacyConfig, []string, error) {
	var legacy LegacyConfig
	meta, err := toml.DecodeFile(path, &legacy)
	if err != nil {
		return nil, nil, fmt.Errorf("parse TOML: %w", err)
	}

	var warnings []string
	for _, key := range meta.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("%s: unknown key %q ignored", path, key.String()))
	}
	return &legacy, warnings, nil
}

// Overlay returns a sparse config holding only the legacy settings, ready to
// be merged over lower layers.
func (l *LegacyConfig) Overlay() *config.Config {
	return &config.Config{
		Rules: make(map[string]config.RuleConfig),
		Project: config.ProjectConfig{
			MainFile:    l.MainFileName,
			LatexBinary: l.LatexBinary,
		},
		Debug: l.Debug,
	}
}

// MigrationResult contains the result of converting a legacy config.
type MigrationResult struct {
	// Config is the converted configuration that was written.
	Config *config.Config

	// Warnings contains non-fatal issues encountered during conversion.
	Warnings []string

	// SourcePath is the legacy TOML file.
	SourcePath string

	// OutputPath is the YAML file that was written.
	OutputPath string
}

// MigrateLegacyConfig converts the legacy TOML file at legacyPath into a
// YAML config at outputPath. An existing outputPath is never overwritten.
func MigrateLegacyConfig(legacyPath, outputPath string) (*MigrationResult, error) {
	if fileExists(outputPath) {
		return nil, fmt.Errorf("%w: %s", ErrConfigExists, outputPath)
	}

	legacy, warnings, err := LoadLegacyConfig(legacyPath)
	if err != nil {
		return nil, fmt.Errorf("load legacy config: %w", err)
	}

	cfg := merge(config.NewConfig(), legacy.Overlay())
	if legacy.Debug {
		warnings = append(warnings,
			"debug has no config file equivalent; use --debug or "+envVarPrefix+"DEBUG=true")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), configDirPermissions); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	if err := writeConfig(cfg, outputPath); err != nil {
		return nil, fmt.Errorf("write migrated config: %w", err)
	}

	return &MigrationResult{
		Config:     cfg,
		Warnings:   warnings,
		SourcePath: legacyPath,
		OutputPath: outputPath,
	}, nil
}

// Confirm asks a yes/no question. An empty line means yes; closed input
// means no.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [Y/n] ", question); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && response == "":
		return false, nil
	case err != nil && !errors.Is(err, io.EOF):
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "" || response == "y" || response == "yes", nil
}

// IsInteractive returns true if stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
