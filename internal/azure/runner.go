// Package azure drives the Azure CLI.
package azure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

//go:generate go tool mockgen -destination mock_runner_test.go -package azure . Runner

type RunArgs struct {
	Cmd  string
	Args []string
	// Env is appended to the current process environment.
	Env []string
	Dir string
}

func NewRunArgs(cmd string, args ...string) RunArgs {
	return RunArgs{Cmd: cmd, Args: args}
}

type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExitError is returned when a command exits with a non zero status.
type ExitError struct {
	Cmd      string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with code %d", e.Cmd, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Cmd, e.ExitCode, msg)
}

type Runner interface {
	Run(ctx context.Context, args RunArgs) (RunResult, error)
}

type execRunner struct {
	logger *slog.Logger
}

func NewRunner(logger *slog.Logger) Runner {
	return &execRunner{logger: logger}
}

func (r *execRunner) Run(ctx context.Context, args RunArgs) (RunResult, error) {
	cmd := exec.CommandContext(ctx, args.Cmd, args.Args...)
	cmd.Dir = args.Dir
	cmd.Env = append(os.Environ(), args.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.DebugContext(ctx, "running command",
		slog.String("cmd", args.Cmd),
		slog.String("args", strings.Join(args.Args, " ")))

	err := cmd.Run()
	result := RunResult{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	r.logger.DebugContext(ctx, "command finished",
		slog.String("cmd", args.Cmd),
		slog.Int("exit_code", result.ExitCode))

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return result, &ExitError{Cmd: args.Cmd, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return result, err
}
