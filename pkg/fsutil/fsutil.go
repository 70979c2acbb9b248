// Package fsutil provides file system utilities and safety primitives for
// texhelper: fingerprinted reads, modification detection, atomic writes,
// backups and tree copies. Every operation goes through an afero.Fs so
// callers and tests can swap the real disk for memory.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/afero"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNilFileInfo is returned when a nil FileInfo is passed.
	ErrNilFileInfo = errors.New("nil FileInfo")

	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// FS wraps an afero filesystem with the safety helpers below.
type FS struct {
	fs afero.Fs
}

// New wraps fsys. A nil fsys uses the operating system.
func New(fsys afero.Fs) *FS {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FS{fs: fsys}
}

// OS returns an FS backed by the real disk.
func OS() *FS {
	return New(afero.NewOsFs())
}

// Afero exposes the underlying filesystem.
//
//nolint:ireturn // afero.Fs is the abstraction being wrapped
func (f *FS) Afero() afero.Fs {
	return f.fs
}

// FileInfo captures the state of a file at a point in time.
// It is used for modification detection during the fix pipeline.
type FileInfo struct {
	// Path is the absolute or relative path to the file.
	Path string

	// Mode is the file's permission and mode bits.
	Mode os.FileMode

	// ModTime is the file's modification time.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64

	// Hash is the SHA-256 hash of the file content.
	Hash [32]byte
}

// ReadFile reads a file and returns its content along with metadata.
func (f *FS) ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := f.fs.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	info := &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}
	return content, info, nil
}

// classify maps filesystem errors onto the package sentinels.
func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("access %s: %w", path, err)
	}
}

// Exists reports whether path exists.
func (f *FS) Exists(path string) bool {
	_, err := f.fs.Stat(path)
	return err == nil
}

// CheckModified reports whether the file changed since info was taken.
// Size and modification time are compared first; when they match the content
// is re-hashed. A deleted file counts as modified.
func (f *FS) CheckModified(ctx context.Context, info *FileInfo) (bool, error) {
	modified, stat, err := f.quickCheck(ctx, info)
	if err != nil || modified || stat == nil {
		return modified, err
	}

	content, err := afero.ReadFile(f.fs, info.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}
	return sha256.Sum256(content) != info.Hash, nil
}

// CheckModifiedQuick compares only size and modification time.
func (f *FS) CheckModifiedQuick(ctx context.Context, info *FileInfo) (bool, error) {
	modified, _, err := f.quickCheck(ctx, info)
	return modified, err
}

func (f *FS) quickCheck(ctx context.Context, info *FileInfo) (bool, os.FileInfo, error) {
	if info == nil {
		return false, nil, ErrNilFileInfo
	}

	select {
	case <-ctx.Done():
		return false, nil, fmt.Errorf("check modified: %w", ctx.Err())
	default:
	}

	stat, err := f.fs.Stat(info.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil, nil
		}
		return false, nil, fmt.Errorf("stat %s: %w", info.Path, err)
	}

	if !stat.ModTime().Equal(info.ModTime) || stat.Size() != info.Size {
		return true, stat, nil
	}
	return false, stat, nil
}
