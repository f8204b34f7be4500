package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"lstt/internal/adapter"
	m "lstt/internal/model"
)

// The legacy import script is kept formatted and type-checked by two fixed
// external tools. The formatter options are not overridable: the script
// predates the Go port and its style is frozen at these settings.
const (
	FormatterTool   = "black"
	TypeCheckerTool = "mypy"

	formatLineLength    = "79"
	formatTargetVersion = "py38"
)

// Failure kinds for the check tasks. They classify what went wrong; the
// tool's own diagnostics pass through on the original streams untouched.
var (
	// ErrPathNotFound marks a target script that does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrToolNotFound marks a tool missing from PATH.
	ErrToolNotFound = errors.New("tool not found")

	// ErrFormatting marks a formatter run that exited non-zero, typically
	// because the script does not parse.
	ErrFormatting = errors.New("formatting failed")

	// ErrTypeInconsistency marks a type checker run that found errors.
	ErrTypeInconsistency = errors.New("type inconsistencies found")
)

// CheckError is a classified failure of one check task.
type CheckError struct {
	Task     string
	Tool     string
	Target   m.Path
	Kind     error
	ExitCode int
	Err      error
}

// Error implements error.
func (e *CheckError) Error() string {
	switch e.Kind {
	case ErrPathNotFound:
		return fmt.Sprintf("%s: %s: %v", e.Task, e.Target, e.Kind)
	case ErrToolNotFound:
		return fmt.Sprintf("%s: %s: %v", e.Task, e.Tool, e.Kind)
	default:
		return fmt.Sprintf("%s: %s exited with code %d: %v", e.Task, e.Tool, e.ExitCode, e.Kind)
	}
}

// Unwrap exposes the kind sentinel and the underlying cause, if any, so
// callers can branch with errors.Is.
func (e *CheckError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}

	return []error{e.Kind}
}

// Checker runs the maintenance tasks for the legacy script.
type Checker interface {
	// Format rewrites the target in place with the fixed formatter settings.
	Format(ctx context.Context, target m.Path) error

	// TypeCheck reports type inconsistencies in the target on stdout.
	TypeCheck(ctx context.Context, target m.Path) error

	// All runs Format then TypeCheck, stopping at the first failure. The
	// order is fixed: the formatter mutates the file the checker reads.
	All(ctx context.Context, target m.Path) error
}

type checker struct {
	runner adapter.ToolRunner
	stdout io.Writer
	stderr io.Writer
}

// NewChecker constructs a Checker that executes tools through runner and
// passes their output through to stdout and stderr.
func NewChecker(runner adapter.ToolRunner, stdout, stderr io.Writer) Checker {
	return &checker{runner: runner, stdout: stdout, stderr: stderr}
}

// Format implements Checker.
func (c *checker) Format(ctx context.Context, target m.Path) error {
	args := []string{
		"--line-length", formatLineLength,
		"--target-version", formatTargetVersion,
		string(target),
	}

	return c.runTask(ctx, "format", FormatterTool, args, target, ErrFormatting)
}

// TypeCheck implements Checker.
func (c *checker) TypeCheck(ctx context.Context, target m.Path) error {
	return c.runTask(ctx, "typecheck", TypeCheckerTool, []string{string(target)}, target, ErrTypeInconsistency)
}

// All implements Checker.
func (c *checker) All(ctx context.Context, target m.Path) error {
	if err := c.Format(ctx, target); err != nil {
		return err
	}

	return c.TypeCheck(ctx, target)
}

// runTask verifies the target and the tool before anything executes, then
// runs the tool to completion. A non-zero exit becomes failKind.
func (c *checker) runTask(ctx context.Context, task, tool string, args []string, target m.Path, failKind error) error {
	if _, err := os.Stat(string(target)); err != nil {
		slog.Error("check target missing", "task", task, "target", target, "error", err)
		return &CheckError{Task: task, Tool: tool, Target: target, Kind: ErrPathNotFound, Err: err}
	}

	if _, err := c.runner.LookPath(tool); err != nil {
		slog.Error("check tool missing", "task", task, "tool", tool, "error", err)
		return &CheckError{Task: task, Tool: tool, Target: target, Kind: ErrToolNotFound, Err: err}
	}

	code, err := c.runner.Run(ctx, tool, args, c.stdout, c.stderr)
	if err != nil {
		return err
	}

	if code != 0 {
		slog.Warn("check task failed", "task", task, "tool", tool, "target", target, "code", code)
		return &CheckError{Task: task, Tool: tool, Target: target, Kind: failKind, ExitCode: code}
	}

	slog.Info("check task passed", "task", task, "tool", tool, "target", target)

	return nil
}
