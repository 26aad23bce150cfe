package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// CommandRunner executes one external command to completion. The command's
// own output streams through; the runner only interprets the termination
// status.
type CommandRunner interface {
	Run(ctx context.Context, argv []string) error
}

// ExecRunner runs commands via os/exec in a fixed working directory,
// streaming output to the configured writers.
type ExecRunner struct {
	Dir    string
	Env    []string // appended to the parent environment
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes argv synchronously. An empty argv is a programming error
// in the pipeline definition and reported as such.
func (e *ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = e.Dir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}
