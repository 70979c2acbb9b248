// Package runner lints many files at once: it discovers sources, fans
// them out to a worker pool and aggregates the outcomes.
package runner

import (
	"github.com/spf13/afero"

	"github.com/yaklabco/texhelper/pkg/config"
)

// Options selects the files of a run and how they are processed.
type Options struct {
	// Paths are files or directories, relative to WorkingDir unless
	// absolute. Empty means ".".
	Paths []string

	// WorkingDir defaults to the process working directory.
	WorkingDir string

	// Extensions are lowercase with a leading dot. Empty means
	// DefaultExtensions.
	Extensions []string

	// IncludeGlobs, when set, keep only files matching one of them.
	// ExcludeGlobs drop files and prune directories. Both are matched
	// against slash-separated paths relative to WorkingDir.
	IncludeGlobs []string
	ExcludeGlobs []string

	FollowSymlinks bool

	// Jobs bounds the worker pool; zero or less means one per CPU.
	Jobs int

	Config *config.Config

	// FS defaults to the real disk.
	FS afero.Fs
}

// DefaultExtensions are the file types a directory walk picks up.
func DefaultExtensions() []string {
	return []string{".tex", ".ltx", ".sty", ".cls"}
}

// withDefaults fills in every empty field that has a default.
func (o Options) withDefaults() Options {
	if len(o.Paths) == 0 {
		o.Paths = []string{"."}
	}
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions()
	}
	if o.FS == nil {
		o.FS = afero.NewOsFs()
	}
	return o
}
