// Package config defines core configuration types for texhelper.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

// Severity represents the severity level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled,omitempty"`
	Severity *string        `yaml:"severity,omitempty"`
	AutoFix  *bool          `yaml:"auto_fix,omitempty"`
	Options  map[string]any `yaml:"options,omitempty"`
}

// BackupsConfig controls backup behavior when files are rewritten.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// ProjectConfig holds the settings of the init and compile commands.
type ProjectConfig struct {
	// MainFile is the name of the document compiled by default.
	MainFile string `yaml:"main_file"`

	// LatexBinary forces a LaTeX binary. Empty means discover latexmk, then
	// pdflatex, on PATH.
	LatexBinary string `yaml:"latex_binary,omitempty"`

	// BuildDir is where compilation happens, relative to the main file.
	BuildDir string `yaml:"build_dir"`

	// DocMode is the default document class used by init.
	DocMode string `yaml:"doc_mode"`

	// TemplateDir holds custom init templates. Empty disables lookup.
	TemplateDir string `yaml:"template_dir,omitempty"`
}

// FormatConfig holds formatter settings.
type FormatConfig struct {
	IndentWidth    int      `yaml:"indent_width"`
	UseTabs        bool     `yaml:"use_tabs"`
	MaxBlankLines  int      `yaml:"max_blank_lines"`
	IndentDocument bool     `yaml:"indent_document"`
	Verbatim       []string `yaml:"verbatim,omitempty"`
}

// ParserConfig holds parser limits.
type ParserConfig struct {
	// MaxDepth bounds group, math and environment nesting.
	MaxDepth int `yaml:"max_depth"`
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "no-trailing-whitespace"
	RuleFormatID       RuleFormat = "id"       // "TEX006"
	RuleFormatCombined RuleFormat = "combined" // "TEX006/no-trailing-whitespace"
)

// Default values shared by NewConfig and the loaders.
const (
	DefaultMainFile      = "main.tex"
	DefaultBuildDir      = ".build"
	DefaultDocMode       = "article"
	DefaultIndentWidth   = 2
	DefaultMaxBlankLines = 1
	DefaultMaxDepth      = 256
)

// DefaultVerbatimEnvironments lists environments whose bodies the formatter
// never touches.
func DefaultVerbatimEnvironments() []string {
	return []string{"verbatim", "Verbatim", "lstlisting", "minted", "comment"}
}

// Config is the root configuration structure for texhelper.
type Config struct {
	// SeverityDefault is the default severity for rules that don't specify one.
	SeverityDefault string `yaml:"severity_default"`

	// Rules contains per-rule configuration keyed by rule ID or name.
	Rules map[string]RuleConfig `yaml:"rules"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore"`

	// Backups configures backup behavior when fixing or formatting in place.
	Backups BackupsConfig `yaml:"backups"`

	Project ProjectConfig `yaml:"project"`
	Format  FormatConfig  `yaml:"format"`
	Parser  ParserConfig  `yaml:"parser"`

	// CLI-level options (not persisted to config files).

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Fix enables auto-fixing of issues.
	Fix bool `yaml:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `yaml:"-"`

	// Output specifies the output format.
	Output OutputFormat `yaml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `yaml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `yaml:"-"`

	// FixRules limits auto-fixing to specific rule IDs.
	FixRules []string `yaml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		SeverityDefault: string(SeverityWarning),
		Rules:           make(map[string]RuleConfig),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Project: ProjectConfig{
			MainFile: DefaultMainFile,
			BuildDir: DefaultBuildDir,
			DocMode:  DefaultDocMode,
		},
		Format: FormatConfig{
			IndentWidth:   DefaultIndentWidth,
			MaxBlankLines: DefaultMaxBlankLines,
			Verbatim:      DefaultVerbatimEnvironments(),
		},
		Parser: ParserConfig{
			MaxDepth: DefaultMaxDepth,
		},
		Output:     FormatText,
		RuleFormat: RuleFormatName,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}
