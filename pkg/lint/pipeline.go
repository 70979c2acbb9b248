package lint

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/texhelper/pkg/config"
	"github.com/yaklabco/texhelper/pkg/fix"
	"github.com/yaklabco/texhelper/pkg/fsutil"
)

// DefaultMaxFixPasses bounds the fix loop. Rules that keep producing edits
// for each other's output stop here.
const DefaultMaxFixPasses = 10

// Pipeline error categories.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrParseFailure     = errors.New("parse failure")
	ErrWriteFailure     = errors.New("write failure")
)

// PipelineResult is the outcome of processing one file.
type PipelineResult struct {
	// FileResult is the lint result of the last pass.
	*FileResult

	Path string

	// OriginalInfo is the file state before processing (nil for in-memory
	// content).
	OriginalInfo *fsutil.FileInfo

	// Modified is true when fixes changed the content.
	Modified bool

	// ModifiedContent is the fixed content, nil when unmodified.
	ModifiedContent []byte

	// Diff is set in dry-run mode.
	Diff *fix.Diff

	Skipped    bool
	SkipReason string

	BackupCreated bool
	Written       bool

	FixPasses         int
	TotalEditsApplied int
}

// Summary returns a short human-readable status.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "fixed (backup created)"
	case pr.Written:
		return "fixed"
	case pr.Modified:
		return "changes pending"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	default:
		return "ok"
	}
}

// PipelineOptions controls the pipeline.
type PipelineOptions struct {
	Fix    bool
	DryRun bool
	Backup fsutil.BackupConfig

	// StrictRaceDetection re-hashes the file before writing. Otherwise only
	// size and modification time are compared.
	StrictRaceDetection bool

	// ReParseAfterFix re-parses the fixed content and drops the fixes when
	// they introduced syntax errors.
	ReParseAfterFix bool

	// MaxFixPasses bounds the fix loop; 0 means DefaultMaxFixPasses.
	MaxFixPasses int
}

// DefaultPipelineOptions returns the defaults: no fixing, strict race
// detection and re-parse validation.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
		ReParseAfterFix:     true,
	}
}

// Pipeline lints a file and, when asked, fixes it safely.
type Pipeline struct {
	Engine *Engine
	FS     *fsutil.FS
}

// NewPipeline creates a Pipeline. A nil fsys uses the real disk.
func NewPipeline(engine *Engine, fsys *fsutil.FS) *Pipeline {
	if fsys == nil {
		fsys = fsutil.OS()
	}
	return &Pipeline{Engine: engine, FS: fsys}
}

// ProcessFile runs the pipeline for one file on disk:
//
//  1. read and fingerprint the file
//  2. lint, apply edits in memory and repeat until stable
//  3. optionally re-parse to validate the fixes
//  4. in dry-run mode, return a diff and stop
//  5. skip the file if it changed on disk meanwhile
//  6. back it up when enabled
//  7. write the new content atomically
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	original, info, err := p.FS.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.run(ctx, path, original, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info
	if !result.Modified || opts.DryRun {
		return result, nil
	}

	changed, err := p.checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, err
	}
	if changed {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if opts.Backup.Enabled {
		created, err := p.FS.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := p.FS.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent runs the lint and fix steps over in-memory content. Nothing
// is written.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	return p.run(ctx, path, content, cfg, opts)
}

func (p *Pipeline) run(
	ctx context.Context,
	path string,
	original []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	maxPasses := opts.MaxFixPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	content := original
	var fileResult *FileResult
	for range maxPasses {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
		default:
		}

		var err error
		fileResult, err = p.Engine.LintFile(ctx, path, content, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
		}
		if !opts.Fix || len(fileResult.Edits) == 0 {
			break
		}

		content = fix.ApplyEdits(content, fileResult.Edits)
		result.FixPasses++
		result.TotalEditsApplied += len(fileResult.Edits)
		result.Modified = true
	}
	result.FileResult = fileResult

	if !result.Modified {
		return result, nil
	}
	result.ModifiedContent = content

	if opts.ReParseAfterFix {
		if reason := p.validateFix(ctx, path, original, content); reason != "" {
			result.Skipped = true
			result.SkipReason = reason
			result.Modified = false
			result.ModifiedContent = nil
			return result, nil
		}
	}

	if opts.DryRun {
		result.Diff = fix.GenerateDiff(path, original, content)
	}
	return result, nil
}

// validateFix returns a reason to reject fixed content that parses with more
// syntax errors than the original.
func (p *Pipeline) validateFix(ctx context.Context, path string, original, fixed []byte) string {
	before, err := p.Engine.Parser.Parse(ctx, path, original)
	if err != nil {
		return fmt.Sprintf("re-parse failed: %v", err)
	}
	after, err := p.Engine.Parser.Parse(ctx, path, fixed)
	if err != nil {
		return fmt.Sprintf("re-parse failed: %v", err)
	}
	if len(after.Errors) > len(before.Errors) {
		return fmt.Sprintf("fixes introduced %d syntax error(s)", len(after.Errors)-len(before.Errors))
	}
	return ""
}

func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	var changed bool
	var err error
	if strict {
		changed, err = p.FS.CheckModified(ctx, info)
	} else {
		changed, err = p.FS.CheckModifiedQuick(ctx, info)
	}
	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return changed, nil
}

// categorizeError wraps err with the matching pipeline category.
func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsPipelineError reports whether err belongs to a pipeline category.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure)
}

// BackupConfigFromConfig derives the backup settings from cfg.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig derives pipeline options from cfg.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	opts := DefaultPipelineOptions()
	if cfg == nil {
		return opts
	}
	opts.Fix = cfg.Fix || cfg.DryRun
	opts.DryRun = cfg.DryRun
	opts.Backup = BackupConfigFromConfig(cfg)
	return opts
}
