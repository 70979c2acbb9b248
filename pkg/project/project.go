// Package project scaffolds new LaTeX projects: a directory with a main
// file, a bibliography and a .gitignore for build artefacts.
package project

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"github.com/yaklabco/texhelper/internal/logging"
	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fsutil"
)

//go:embed templates/main.tex.tmpl
var mainTemplateContent string

//go:embed templates/references.bib
var referencesContent []byte

//go:embed templates/gitignore
var gitignoreContent []byte

// Sentinel errors for errors.Is.
var (
	// ErrProjectExists is returned when the project directory already exists.
	ErrProjectExists = errors.New("project directory already exists")

	// ErrInvalidName is returned for project names that cannot be used as a
	// directory name or document title.
	ErrInvalidName = errors.New("invalid project name")
)

// File names written next to the main file.
const (
	GitignoreFile  = ".gitignore"
	ReferencesFile = "references.bib"
)

// invalidNameChars cannot appear in a project name: they are either special
// to LaTeX or not portable in file names.
const invalidNameChars = `\{}$&#^~%:*?"<>|`

// DocModes lists the built-in document classes.
func DocModes() []string {
	return []string{"article", "report", "book", "letter"}
}

// ScaffoldOptions configures Scaffold.
type ScaffoldOptions struct {
	// Dir is the project directory to create. Its base name is the title.
	Dir string

	// DocMode selects the document class. Unknown modes fall back to
	// article.
	DocMode string

	// MainFile is the name of the main document (default main.tex).
	MainFile string

	// TemplateDir is searched for a custom template named after DocMode.
	TemplateDir string
}

// Result describes a scaffolded project.
type Result struct {
	Dir      string
	MainFile string
	DocMode  string

	// Template is the custom template that was used, empty for built-ins.
	Template string

	// Files lists every file written, relative to Dir, sorted.
	Files []string
}

// Scaffold creates a new project in fsys. The directory must not exist.
//
// A custom template is looked up in TemplateDir as "<mode>.tex" and then
// "<mode>". A template file becomes the main file; a template directory is
// copied recursively into the project.
func Scaffold(ctx context.Context, fsys afero.Fs, opts ScaffoldOptions) (*Result, error) {
	logger := logging.FromContext(ctx)

	name := filepath.Base(filepath.Clean(opts.Dir))
	if err := validateName(name); err != nil {
		return nil, err
	}

	if exists, err := afero.Exists(fsys, opts.Dir); err != nil {
		return nil, fmt.Errorf("stat %s: %w", opts.Dir, err)
	} else if exists {
		return nil, fmt.Errorf("%w: %s", ErrProjectExists, opts.Dir)
	}

	result := &Result{
		Dir:      opts.Dir,
		MainFile: opts.MainFile,
		DocMode:  opts.DocMode,
	}
	if result.MainFile == "" {
		result.MainFile = config.DefaultMainFile
	}
	if result.DocMode == "" {
		result.DocMode = config.DefaultDocMode
	}

	if err := fsys.MkdirAll(opts.Dir, fsutil.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("create %s: %w", opts.Dir, err)
	}

	write := func(rel string, content []byte) error {
		path := filepath.Join(opts.Dir, rel)
		if err := afero.WriteFile(fsys, path, content, fsutil.DefaultFileMode); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debug("created file", logging.FieldPath, path)
		result.Files = append(result.Files, rel)
		return nil
	}

	if err := write(GitignoreFile, gitignoreContent); err != nil {
		return nil, err
	}
	if err := write(ReferencesFile, referencesContent); err != nil {
		return nil, err
	}

	custom, err := findTemplate(fsys, opts.TemplateDir, result.DocMode)
	if err != nil {
		return nil, err
	}

	switch {
	case custom != "":
		result.Template = custom
		logger.Info("using custom template", logging.FieldTemplate, custom)
		if err := applyTemplate(fsys, custom, result, write); err != nil {
			return nil, err
		}
	default:
		if !slices.Contains(DocModes(), result.DocMode) {
			logger.Info("unknown document mode, using article", logging.FieldDocMode, result.DocMode)
			result.DocMode = config.DefaultDocMode
		}
		content, err := RenderMain(result.DocMode, name)
		if err != nil {
			return nil, err
		}
		if err := write(result.MainFile, content); err != nil {
			return nil, err
		}
	}

	slices.Sort(result.Files)
	result.Files = slices.Compact(result.Files)
	return result, nil
}

// RenderMain renders the built-in main file for a document class.
func RenderMain(docClass, title string) ([]byte, error) {
	tmpl, err := template.New("main").Delims("<<", ">>").Parse(mainTemplateContent)
	if err != nil {
		return nil, fmt.Errorf("parse main template: %w", err)
	}

	var buf bytes.Buffer
	data := struct{ DocClass, Title string }{docClass, escapeTitle(title)}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render main template: %w", err)
	}
	return buf.Bytes(), nil
}

// findTemplate returns the custom template for mode, or "" if there is none.
func findTemplate(fsys afero.Fs, dir, mode string) (string, error) {
	if dir == "" {
		return "", nil
	}
	for _, candidate := range []string{mode + ".tex", mode} {
		path := filepath.Join(dir, candidate)
		exists, err := afero.Exists(fsys, path)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		if exists {
			return path, nil
		}
	}
	return "", nil
}

func applyTemplate(fsys afero.Fs, path string, result *Result, write func(string, []byte) error) error {
	info, err := fsys.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		content, err := afero.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		return write(result.MainFile, content)
	}

	if err := fsutil.New(fsys).CopyDir(path, result.Dir, nil); err != nil {
		return fmt.Errorf("copy template %s: %w", path, err)
	}
	return afero.Walk(fsys, path, func(p string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}
		result.Files = append(result.Files, rel)
		return nil
	})
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if idx := strings.IndexAny(name, invalidNameChars); idx >= 0 {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, name[idx])
	}
	return nil
}

// escapeTitle makes a project name safe inside \title{}.
func escapeTitle(name string) string {
	return strings.ReplaceAll(name, "_", `\_`)
}
