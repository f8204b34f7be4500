package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
)

// ToolRunner abstracts execution of external command-line tools.
type ToolRunner interface {
	// LookPath resolves tool to an absolute path using the environment.
	LookPath(tool string) (string, error)

	// Run executes tool with args, streaming its output to stdout/stderr.
	// A non-zero exit from the tool is not an error; it is reported
	// through code. err covers failures to start or be waited on.
	Run(ctx context.Context, tool string, args []string, stdout, stderr io.Writer) (code int, err error)
}

// ExecToolRunner provides a concrete implementation using os/exec.
type ExecToolRunner struct{}

// NewExecToolRunner constructs an ExecToolRunner.
func NewExecToolRunner() *ExecToolRunner {
	return &ExecToolRunner{}
}

// LookPath implements ToolRunner.
func (a *ExecToolRunner) LookPath(tool string) (string, error) {
	return exec.LookPath(tool)
}

// Run implements ToolRunner.
func (a *ExecToolRunner) Run(ctx context.Context, tool string, args []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	slog.Debug("running tool", "tool", tool, "args", args)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			slog.Debug("tool exited non-zero", "tool", tool, "code", exitErr.ExitCode())
			return exitErr.ExitCode(), nil
		}

		slog.Error("failed to run tool", "tool", tool, "error", err)

		return 0, fmt.Errorf("failed to run %s: %w", tool, err)
	}

	return 0, nil
}
