package fsutil_test

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texhelper/pkg/fsutil"
)

func newFS(t *testing.T, files map[string]string) *fsutil.FS {
	t.Helper()
	mem := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(mem, path, []byte(content), 0o644))
	}
	return fsutil.New(mem)
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fsys := newFS(t, map[string]string{"/doc/main.tex": "hello"})

	content, info, err := fsys.ReadFile(ctx, "/doc/main.tex")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
	assert.Equal(t, "/doc/main.tex", info.Path)
	assert.Equal(t, int64(5), info.Size)
	assert.NotEqual(t, [32]byte{}, info.Hash)

	_, _, err = fsys.ReadFile(ctx, "/doc/missing.tex")
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsys.ReadFile(ctx, "/doc")
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = fsys.ReadFile(cancelled, "/doc/main.tex")
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()
		fsys := newFS(t, map[string]string{"/a.tex": "abc"})
		_, info, err := fsys.ReadFile(ctx, "/a.tex")
		require.NoError(t, err)

		modified, err := fsys.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("size changed", func(t *testing.T) {
		t.Parallel()
		fsys := newFS(t, map[string]string{"/a.tex": "abc"})
		_, info, err := fsys.ReadFile(ctx, "/a.tex")
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(fsys.Afero(), "/a.tex", []byte("abcd"), 0o644))

		modified, err := fsys.CheckModifiedQuick(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("same size and time but new content", func(t *testing.T) {
		t.Parallel()
		fsys := newFS(t, map[string]string{"/a.tex": "abc"})
		_, info, err := fsys.ReadFile(ctx, "/a.tex")
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(fsys.Afero(), "/a.tex", []byte("xyz"), 0o644))
		require.NoError(t, fsys.Afero().Chtimes("/a.tex", time.Now(), info.ModTime))

		quick, err := fsys.CheckModifiedQuick(ctx, info)
		require.NoError(t, err)
		assert.False(t, quick, "quick check only sees size and time")

		modified, err := fsys.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		fsys := newFS(t, map[string]string{"/a.tex": "abc"})
		_, info, err := fsys.ReadFile(ctx, "/a.tex")
		require.NoError(t, err)
		require.NoError(t, fsys.Afero().Remove("/a.tex"))

		modified, err := fsys.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()
		_, err := newFS(t, nil).CheckModified(ctx, nil)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}
