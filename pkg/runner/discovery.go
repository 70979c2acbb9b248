package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// errNoLinkReader is returned when the filesystem cannot read symlinks.
var errNoLinkReader = errors.New("filesystem cannot read symlinks")

// Discover finds LaTeX sources matching opts under the given working
// directory. It returns a deterministically sorted list of absolute paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	opts = opts.withDefaults()
	walker := &walker{
		ctx:        ctx,
		fs:         opts.FS,
		workDir:    workDir,
		extensions: opts.Extensions,
		opts:       opts,
		seen:       make(map[string]struct{}),
		visiting:   make(map[string]bool),
	}

	for _, inputPath := range opts.Paths {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := walker.fs.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			if err := walker.walk(absPath); err != nil {
				return nil, err
			}
			continue
		}

		// Explicitly named files only need the right extension; exclusion
		// globs are meant for directory walks.
		if hasMatchingExtension(absPath, walker.extensions) {
			walker.add(absPath)
		}
	}

	slices.Sort(walker.files)
	return walker.files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

type walker struct {
	ctx        context.Context //nolint:containedctx // scoped to one Discover call
	fs         afero.Fs
	workDir    string
	extensions []string
	opts       Options

	files    []string
	seen     map[string]struct{}
	visiting map[string]bool
}

func (w *walker) add(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

// walk collects matching files below root. Hidden entries and excluded
// directories are pruned; build directories are hidden (".build") so they
// fall out naturally.
func (w *walker) walk(root string) error {
	if w.visiting[root] {
		return nil
	}
	w.visiting[root] = true
	defer delete(w.visiting, root)

	err := afero.Walk(w.fs, root, func(path string, info os.FileInfo, walkErr error) error {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath := w.rel(path)

		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			if matchesAny(relPath, w.opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(info.Name(), ".") {
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			return w.followLink(path)
		}

		if w.matches(path, relPath) {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// followLink handles a symlink met during a walk. Links to files are
// treated like the file; links to directories are walked only when
// FollowSymlinks is set. Broken links are skipped.
func (w *walker) followLink(path string) error {
	target, err := w.fs.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // broken symlinks are skipped
	}

	if !target.IsDir() {
		if w.matches(path, w.rel(path)) {
			w.add(path)
		}
		return nil
	}

	if !w.opts.FollowSymlinks {
		return nil
	}

	resolved, err := w.resolveLink(path)
	if err != nil {
		return nil //nolint:nilerr // unreadable links are skipped
	}
	return w.walk(resolved)
}

// resolveLink returns the directory a symlink points to. afero.Walk lstats
// its root, so the target is walked instead of the link itself.
func (w *walker) resolveLink(path string) (string, error) {
	reader, ok := w.fs.(afero.LinkReader)
	if !ok {
		return "", errNoLinkReader
	}
	target, err := reader.ReadlinkIfPossible(path)
	if err != nil {
		return "", fmt.Errorf("read link %s: %w", path, err)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

func (w *walker) rel(path string) string {
	relPath, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return path
	}
	return relPath
}

// matches checks a file against the extension, exclude and include filters.
func (w *walker) matches(path, relPath string) bool {
	if !hasMatchingExtension(path, w.extensions) {
		return false
	}
	if matchesAny(relPath, w.opts.ExcludeGlobs) {
		return false
	}
	if len(w.opts.IncludeGlobs) > 0 && !matchesAny(relPath, w.opts.IncludeGlobs) {
		return false
	}
	return true
}

// hasMatchingExtension checks if the file has a matching extension.
func hasMatchingExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(relPath, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated path against a glob pattern. Besides
// filepath.Match syntax it understands "**" as any number of directories,
// and a pattern without a slash also matches the base name ("*.aux").
func matchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if strings.Contains(pattern, "**") {
		return matchSegments(strings.Split(path, "/"), strings.Split(pattern, "/"))
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}
	if strings.Contains(pattern, "/") {
		return false
	}
	matched, err := filepath.Match(pattern, filepath.Base(path))
	return err == nil && matched
}

// matchSegments matches path segments against pattern segments, where a
// "**" segment consumes zero or more path segments. A trailing "**" also
// matches the directory itself ("build/**" matches "build").
func matchSegments(path, pattern []string) bool {
	for len(pattern) > 0 {
		head := pattern[0]
		if head == "**" {
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(path); i++ {
				if matchSegments(path[i:], rest) {
					return true
				}
			}
			return false
		}

		if len(path) == 0 {
			return false
		}
		if matched, err := filepath.Match(head, path[0]); err != nil || !matched {
			return false
		}
		path = path[1:]
		pattern = pattern[1:]
	}
	return len(path) == 0
}
