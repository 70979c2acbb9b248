package configloader

import (
	"testing"

	"github.com/yaklabco/texhelper/pkg/config"
)

func TestValidate_Nil(t *testing.T) {
	t.Parallel()

	if result := Validate(nil); !result.Valid() || len(result.Warnings) != 0 {
		t.Errorf("expected empty result for nil config, got %+v", result)
	}
}

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	result := Validate(config.NewConfig())
	if !result.Valid() {
		t.Fatalf("default config should be valid: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("default config should not warn: %v", result.Warnings)
	}
}

func TestValidate_Fields(t *testing.T) {
	t.Parallel()

	warning := "warning"
	loud := "loud"

	tests := []struct {
		name      string
		mutate    func(cfg *config.Config)
		wantError string
		wantWarn  string
	}{
		{
			name:      "output format",
			mutate:    func(cfg *config.Config) { cfg.Output = "sarif" },
			wantError: "output",
		},
		{
			name:      "negative jobs",
			mutate:    func(cfg *config.Config) { cfg.Jobs = -1 },
			wantError: "jobs",
		},
		{
			name:      "max blank lines",
			mutate:    func(cfg *config.Config) { cfg.Format.MaxBlankLines = -2 },
			wantError: "format.max_blank_lines",
		},
		{
			name:      "rule severity",
			mutate:    func(cfg *config.Config) { cfg.Rules["TEX006"] = config.RuleConfig{Severity: &loud} },
			wantError: "rules.TEX006.severity",
		},
		{
			name:     "unknown rule",
			mutate:   func(cfg *config.Config) { cfg.Rules["TEX999"] = config.RuleConfig{Severity: &warning} },
			wantWarn: "rules.TEX999",
		},
		{
			name:     "main file extension",
			mutate:   func(cfg *config.Config) { cfg.Project.MainFile = "main.ltx" },
			wantWarn: "project.main_file",
		},
		{
			name:     "doc mode",
			mutate:   func(cfg *config.Config) { cfg.Project.DocMode = "memoir" },
			wantWarn: "project.doc_mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)
			result := Validate(cfg)

			if tt.wantError != "" {
				if result.Valid() {
					t.Fatalf("expected error on %s", tt.wantError)
				}
				if got := result.Errors[0].Field; got != tt.wantError {
					t.Errorf("expected error field %q, got %q", tt.wantError, got)
				}
			}
			if tt.wantWarn != "" {
				if !result.Valid() {
					t.Fatalf("expected only warnings, got errors: %v", result.Errors)
				}
				if len(result.Warnings) != 1 || result.Warnings[0].Field != tt.wantWarn {
					t.Errorf("expected one warning on %s, got %v", tt.wantWarn, result.Warnings)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  ValidationError
		want string
	}{
		{ValidationError{Message: "bad"}, "bad"},
		{ValidationError{Field: "jobs", Message: "bad"}, "jobs: bad"},
		{ValidationError{FilePath: ".texhelper.yml", Message: "parse YAML: x"}, ".texhelper.yml: parse YAML: x"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
