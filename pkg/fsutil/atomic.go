package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultFileMode is the default permission mode for newly created files.
const DefaultFileMode os.FileMode = 0o644

// DefaultDirMode is the permission mode for created directories.
const DefaultDirMode os.FileMode = 0o755

// WriteAtomic writes content through a temp file in the target directory and
// renames it over path. On error the temp file is removed and path is left
// untouched. A zero mode uses DefaultFileMode.
func (f *FS) WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("write atomic: %w", ctx.Err())
	default:
	}

	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := afero.TempFile(f.fs, filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = f.fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := f.fs.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := f.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

// WriteAtomicIfChanged writes only when content differs from what is on
// disk. It reports whether a write happened.
func (f *FS) WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("write atomic: %w", ctx.Err())
	default:
	}

	existing, err := afero.ReadFile(f.fs, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return false, fmt.Errorf("read existing: %w", err)
	case bytes.Equal(existing, content):
		return false, nil
	}

	if err := f.WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}

// CopyFile copies src to dst, creating dst's parent directories.
func (f *FS) CopyFile(src, dst string) error {
	content, err := afero.ReadFile(f.fs, src)
	if err != nil {
		return classify(src, err)
	}
	mode := DefaultFileMode
	if stat, err := f.fs.Stat(src); err == nil {
		mode = stat.Mode().Perm()
	}
	if err := f.fs.MkdirAll(filepath.Dir(dst), DefaultDirMode); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}
	if err := afero.WriteFile(f.fs, dst, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// CopyDir copies the tree under src into dst. skip, when not nil, is called
// with each path relative to src; returning true leaves it (and, for a
// directory, its contents) out.
func (f *FS) CopyDir(src, dst string, skip func(rel string, isDir bool) bool) error {
	return afero.Walk(f.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}
		if rel != "." && skip != nil && skip(rel, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)
		if info.IsDir() {
			if err := f.fs.MkdirAll(target, DefaultDirMode); err != nil {
				return fmt.Errorf("create %s: %w", target, err)
			}
			return nil
		}
		return f.CopyFile(path, target)
	})
}
