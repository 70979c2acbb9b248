package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/yaklabco/texhelper/internal/logging"
)

// ReportFunc receives the outcome of every compilation Watch starts.
type ReportFunc func(*Result, error)

// Watch compiles mainFile, then recompiles whenever a .tex or .bib file
// below its directory changes, until ctx is cancelled. Bursts of events
// within the debounce window trigger a single build.
func (c *Compiler) Watch(ctx context.Context, mainFile string, report ReportFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	root := filepath.Dir(mainFile)
	if err := c.addWatchDirs(watcher, root, c.BuildDir(mainFile)); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("watching for changes", logging.FieldPath, root)
	return c.watchLoop(ctx, mainFile, watcher.Events, watcher.Errors, report)
}

// addWatchDirs registers root and every non-hidden directory below it
// except the build directory. fsnotify does not watch recursively.
func (c *Compiler) addWatchDirs(watcher *fsnotify.Watcher, root, buildDir string) error {
	err := afero.Walk(c.fs.Afero(), root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(info.Name(), ".") || path == buildDir) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	return nil
}

// watchLoop drives rebuilds from a stream of filesystem events.
func (c *Compiler) watchLoop(
	ctx context.Context,
	mainFile string,
	events <-chan fsnotify.Event,
	errs <-chan error,
	report ReportFunc,
) error {
	logger := logging.FromContext(ctx)

	build := func() {
		result, err := c.Compile(ctx, mainFile)
		if ctx.Err() != nil {
			return
		}
		report(result, err)
	}

	build()

	timer := time.NewTimer(c.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !isWatchedSource(event) {
				continue
			}
			logger.Debug("source changed", logging.FieldPath, event.Name, logging.FieldEvent, event.Op.String())
			timer.Reset(c.debounce)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("watcher dropped events, rebuilding")
				timer.Reset(c.debounce)
				continue
			}
			logger.Error("watcher error", logging.FieldError, err)

		case <-timer.C:
			build()
		}
	}
}

// isWatchedSource reports whether event touches a .tex or .bib file in a
// way that can change the build.
func isWatchedSource(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".tex", ".bib":
		return true
	default:
		return false
	}
}
