package compile

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and simulates a LaTeX run on fsys.
type fakeRunner struct {
	fsys   afero.Fs
	output string
	err    error
	noPDF  bool

	mu    sync.Mutex
	calls []fakeCall
}

type fakeCall struct {
	dir  string
	name string
	args []string
}

func (r *fakeRunner) Run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, fakeCall{dir: dir, name: name, args: args})
	r.mu.Unlock()

	if r.err != nil {
		return []byte(r.output), r.err
	}
	if !r.noPDF {
		main := args[len(args)-1]
		pdf := main[:len(main)-len(filepath.Ext(main))] + ".pdf"
		if err := afero.WriteFile(r.fsys, filepath.Join(dir, pdf), []byte("%PDF-1.5"), 0o644); err != nil {
			return nil, err
		}
	}
	return []byte(r.output), nil
}

func (r *fakeRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func lookPathFor(available ...string) LookPathFunc {
	return func(file string) (string, error) {
		for _, name := range available {
			if name == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestFindBinary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configured string
		available  []string
		want       string
		wantErr    bool
	}{
		{name: "prefers latexmk", available: []string{"pdflatex", "latexmk"}, want: "/usr/bin/latexmk"},
		{name: "falls back to pdflatex", available: []string{"pdflatex"}, want: "/usr/bin/pdflatex"},
		{name: "none available", wantErr: true},
		{name: "configured", configured: "xelatex", available: []string{"xelatex", "latexmk"}, want: "/usr/bin/xelatex"},
		{name: "configured missing", configured: "lualatex", available: []string{"latexmk"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FindBinary(tt.configured, lookPathFor(tt.available...))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoLatexBinary)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBinaryArgs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"-pdf", "-interaction=nonstopmode", "main.tex"},
		binaryArgs("/usr/bin/latexmk", "main.tex"))
	assert.Equal(t, []string{"-interaction=nonstopmode", "main.tex"},
		binaryArgs("/usr/bin/pdflatex", "main.tex"))
	assert.Equal(t, []string{"-pdf", "-interaction=nonstopmode", "thesis.tex"},
		binaryArgs(`C:\texlive\bin\latexmk.exe`, "thesis.tex"))
}

func newTestCompiler(t *testing.T, runner *fakeRunner) *Compiler {
	t.Helper()

	c, err := New(Options{
		FS:       runner.fsys,
		Runner:   runner,
		LookPath: lookPathFor("latexmk"),
		Debounce: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func writeProject(t *testing.T, fsys afero.Fs) {
	t.Helper()

	files := map[string]string{
		"/proj/main.tex":          "\\documentclass{article}\n",
		"/proj/references.bib":    "@misc{Ovid,}\n",
		"/proj/figures/plot.pdf":  "%PDF figure",
		"/proj/chapters/one.tex":  "\\section{One}\n",
		"/proj/.git/HEAD":         "ref: main\n",
		"/proj/main.pdf":          "%PDF stale",
		"/proj/.build/stale.aux":  "old",
		"/proj/.gitignore":        ".build/\n",
		"/proj/chapters/notes.md": "# notes\n",
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
}

func TestNew_NoBinary(t *testing.T) {
	t.Parallel()

	_, err := New(Options{LookPath: lookPathFor()})
	require.ErrorIs(t, err, ErrNoLatexBinary)
}

func TestCompile_Success(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeProject(t, fsys)
	runner := &fakeRunner{fsys: fsys, output: "Output written on main.pdf"}
	c := newTestCompiler(t, runner)

	result, err := c.Compile(context.Background(), "/proj/main.tex")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "/proj/main.pdf", result.PDFPath)
	assert.Equal(t, "Output written on main.pdf", result.Output)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, fakeCall{
		dir:  "/proj/.build",
		name: "/usr/bin/latexmk",
		args: []string{"-pdf", "-interaction=nonstopmode", "main.tex"},
	}, runner.calls[0])

	pdf, err := afero.ReadFile(fsys, "/proj/main.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.5", string(pdf))

	for _, path := range []string{
		"/proj/.build/main.tex",
		"/proj/.build/references.bib",
		"/proj/.build/chapters/one.tex",
		"/proj/.build/figures/plot.pdf",
	} {
		exists, err := afero.Exists(fsys, path)
		require.NoError(t, err)
		assert.True(t, exists, "%s should be copied", path)
	}
	for _, path := range []string{"/proj/.build/.git", "/proj/.build/.gitignore", "/proj/.build/.build"} {
		exists, err := afero.Exists(fsys, path)
		require.NoError(t, err)
		assert.False(t, exists, "%s should not be copied", path)
	}
}

func TestCompile_LatexFailure(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeProject(t, fsys)
	runner := &fakeRunner{
		fsys:   fsys,
		output: "! Undefined control sequence.",
		err:    fmt.Errorf("%w: latexmk: exit status 12", ErrExitStatus),
	}
	c := newTestCompiler(t, runner)

	result, err := c.Compile(context.Background(), "/proj/main.tex")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.PDFPath)
	assert.Contains(t, result.Output, "Undefined control sequence")
}

func TestCompile_NoPDFProduced(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/proj/main.tex", []byte("x"), 0o644))
	c := newTestCompiler(t, &fakeRunner{fsys: fsys, noPDF: true})

	result, err := c.Compile(context.Background(), "/proj/main.tex")
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestCompile_RunError(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/proj/main.tex", []byte("x"), 0o644))
	c := newTestCompiler(t, &fakeRunner{fsys: fsys, err: errors.New("permission denied")})

	_, err := c.Compile(context.Background(), "/proj/main.tex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestCompile_MissingMainFile(t *testing.T) {
	t.Parallel()

	c := newTestCompiler(t, &fakeRunner{fsys: afero.NewMemMapFs()})

	_, err := c.Compile(context.Background(), "/proj/main.tex")
	require.Error(t, err)
}

func TestCompiler_BuildDir(t *testing.T) {
	t.Parallel()

	c, err := New(Options{BuildDir: "out", LookPath: lookPathFor("pdflatex")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/proj", "out"), c.BuildDir("/proj/main.tex"))
	assert.Equal(t, "/usr/bin/pdflatex", c.Binary())

	c, err = New(Options{BuildDir: "/tmp/build", LookPath: lookPathFor("pdflatex")})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/build", c.BuildDir("/proj/main.tex"))
}

func TestIsWatchedSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/p/main.tex", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/p/refs.bib", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/p/Chapter.TEX", Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: "/p/main.tex", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/p/main.tex", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "/p/main.pdf", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/p/.main.tex.swp", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isWatchedSource(tt.event))
		})
	}
}

func TestWatchLoop_Debounces(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeProject(t, fsys)
	runner := &fakeRunner{fsys: fsys}
	c := newTestCompiler(t, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan fsnotify.Event)
	errs := make(chan error)

	var (
		mu      sync.Mutex
		results []*Result
	)
	report := func(result *Result, err error) {
		assert.NoError(t, err)
		mu.Lock()
		results = append(results, result)
		mu.Unlock()
	}

	done := make(chan error, 1)
	go func() { done <- c.watchLoop(ctx, "/proj/main.tex", events, errs, report) }()

	require.Eventually(t, func() bool { return runner.callCount() == 1 }, time.Second, 5*time.Millisecond)

	for range 5 {
		events <- fsnotify.Event{Name: "/proj/chapters/one.tex", Op: fsnotify.Write}
	}
	events <- fsnotify.Event{Name: "/proj/main.pdf", Op: fsnotify.Write}

	require.Eventually(t, func() bool { return runner.callCount() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 2, runner.callCount())

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 2)
	assert.True(t, results[1].Success)
}

func TestWatchLoop_ClosedEvents(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeProject(t, fsys)
	c := newTestCompiler(t, &fakeRunner{fsys: fsys})

	events := make(chan fsnotify.Event)
	close(events)

	err := c.watchLoop(context.Background(), "/proj/main.tex", events, make(chan error), func(*Result, error) {})
	require.NoError(t, err)
}
