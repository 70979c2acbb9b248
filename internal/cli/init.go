package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yaklabco/texhelper/internal/configloader"
	"github.com/yaklabco/texhelper/internal/logging"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fsutil"
	"github.com/yaklabco/texhelper/pkg/project"
)

// projectConfigFile is the config written by init --with-config.
const projectConfigFile = ".texhelper.yml"

// initFlags holds the flags for the init command.
type initFlags struct {
	docMode       string
	templateDir   string
	withConfig    bool
	fullConfig    bool
	migrateConfig bool
	yes           bool
}

func newInitCommand(globals *globalFlags) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init NAME",
		Short: "Create a new LaTeX project",
		Long: `Create a new LaTeX project in the directory NAME.

The project contains a main file for the chosen document class, a sample
references.bib and a .gitignore for LaTeX build artefacts. The base name of
NAME becomes the document title.

If the template directory (--template-dir, or project.template_dir in the
configuration) contains "<doc-mode>.tex" or "<doc-mode>", it is used instead
of the built-in template: a file becomes the main file, a directory is copied
into the project as a whole.

--migrate-config converts the TOML configuration of the earlier tex-helper
tool (~/.config/tex-helper/config.toml) to ~/.config/texhelper/config.yaml.
NAME may be omitted when only migrating.

Examples:
  texhelper init thesis                    Article in ./thesis
  texhelper init notes --doc-mode report   Report class
  texhelper init paper --with-config       Also write .texhelper.yml
  texhelper init --migrate-config          Only migrate the legacy config`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, globals, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.docMode, "doc-mode", "",
		"document class: "+strings.Join(project.DocModes(), ", ")+" (default from config, else article)")
	cmd.Flags().StringVar(&flags.templateDir, "template-dir", "", "directory holding custom templates")
	cmd.Flags().BoolVar(&flags.withConfig, "with-config", false, "write a "+projectConfigFile+" into the project")
	cmd.Flags().BoolVar(&flags.fullConfig, "full", false, "document every rule in the written config")
	cmd.Flags().BoolVar(&flags.migrateConfig, "migrate-config", false, "migrate the legacy tex-helper TOML config")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func runInit(cmd *cobra.Command, globals *globalFlags, flags *initFlags, args []string) error {
	if len(args) == 0 && !flags.migrateConfig {
		return usageError(errors.New("requires a project NAME"))
	}

	if flags.migrateConfig {
		if err := migrateLegacyConfig(cmd, flags.yes); err != nil {
			return err
		}
		if len(args) == 0 {
			return nil
		}
	}

	workDir, err := workingDir()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, globals, workDir, &config.Config{
		Project: config.ProjectConfig{
			DocMode:     flags.docMode,
			TemplateDir: flags.templateDir,
		},
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	fsys := afero.NewOsFs()
	dir := absFrom(workDir, args[0])

	result, err := project.Scaffold(ctx, fsys, project.ScaffoldOptions{
		Dir:         dir,
		DocMode:     cfg.Project.DocMode,
		MainFile:    cfg.Project.MainFile,
		TemplateDir: absFrom(workDir, expandHome(cfg.Project.TemplateDir)),
	})
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	if flags.withConfig {
		if err := writeProjectConfig(fsys, dir, cfg, flags.fullConfig); err != nil {
			return err
		}
		result.Files = append(result.Files, projectConfigFile)
	}

	logger.Info("created project",
		logging.FieldProject, args[0],
		logging.FieldDocMode, result.DocMode,
		logging.FieldFiles, len(result.Files),
	)
	if result.Template != "" {
		logger.Info("used custom template", logging.FieldTemplate, result.Template)
	}

	out := cmd.OutOrStdout()
	for _, file := range result.Files {
		fmt.Fprintln(out, filepath.Join(args[0], file))
	}
	return nil
}

// writeProjectConfig writes the config template, with the project settings
// that differ from the defaults, next to the main file.
func writeProjectConfig(fsys afero.Fs, dir string, cfg *config.Config, full bool) error {
	content, err := config.GenerateTemplate(config.TemplateOptions{Full: full, Format: "yaml"})
	if err != nil {
		return fmt.Errorf("generate config: %w", err)
	}

	text := string(content)
	if cfg.Project.DocMode != config.DefaultDocMode {
		text = strings.Replace(text, "doc_mode: "+config.DefaultDocMode, "doc_mode: "+cfg.Project.DocMode, 1)
	}
	if cfg.Project.MainFile != config.DefaultMainFile {
		text = strings.Replace(text, "main_file: "+config.DefaultMainFile, "main_file: "+cfg.Project.MainFile, 1)
	}

	path := filepath.Join(dir, projectConfigFile)
	if err := afero.WriteFile(fsys, path, []byte(text), fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// migrateLegacyConfig converts the legacy TOML config to the YAML user
// config. Interactive sessions are asked first unless assumeYes is set.
func migrateLegacyConfig(cmd *cobra.Command, assumeYes bool) error {
	logger := logging.FromContext(cmd.Context())

	legacyPath := configloader.LegacyConfigPath()
	if legacyPath == "" || !fsutil.OS().Exists(legacyPath) {
		logger.Info("no legacy configuration found", logging.FieldPath, legacyPath)
		return nil
	}
	outputPath := configloader.UserConfigPath()

	if !assumeYes && configloader.IsInteractive() {
		ok, err := confirmMigration(cmd.InOrStdin(), cmd.ErrOrStderr(), legacyPath, outputPath)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("migration skipped")
			return nil
		}
	}

	result, err := configloader.MigrateLegacyConfig(legacyPath, outputPath)
	if err != nil {
		return fmt.Errorf("migrate configuration: %w", err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	logger.Info("migrated configuration",
		logging.FieldInput, result.SourcePath,
		logging.FieldOutput, result.OutputPath,
	)
	logger.Info("you can now delete the legacy configuration file")
	return nil
}

func confirmMigration(in io.Reader, out io.Writer, legacyPath, outputPath string) (bool, error) {
	question := fmt.Sprintf("Migrate %s to %s?", legacyPath, outputPath)
	ok, err := configloader.Confirm(in, out, question)
	if err != nil {
		return false, fmt.Errorf("confirm migration: %w", err)
	}
	return ok, nil
}
