package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrExitStatus marks a command that ran but exited non-zero.
var ErrExitStatus = errors.New("command exited with non-zero status")

// CommandRunner runs an external command in dir and returns its combined
// output. A command that runs but fails wraps ErrExitStatus.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return out.Bytes(), fmt.Errorf("%w: %s: %w", ErrExitStatus, name, err)
		}
		return out.Bytes(), fmt.Errorf("run %s: %w", name, err)
	}
	return out.Bytes(), nil
}
