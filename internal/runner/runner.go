package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external invocation.
type Command struct {
	// Dir is the working directory. It is required.
	Dir  string
	Name string
	Args []string
	// Env holds KEY=VALUE overrides applied on top of the inherited environment.
	Env []string
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Env)+len(c.Args)+1)
	parts = append(parts, c.Env...)
	parts = append(parts, c.Name)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}

// Result captures the outcome of a finished command.
type Result struct {
	ExitCode int
	Output   []byte
}

// Runner runs a command to completion.
type Runner interface {
	// Run blocks until the command exits. A non-zero exit status returns the
	// result together with an *ExitError.
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExitError reports a command that exited with a non-zero status.
type ExitError struct {
	Command  Command
	ExitCode int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%q exited with status %d", e.Command.String(), e.ExitCode)
}

// ExecRunner runs commands with os/exec, streaming output to the configured
// writers while keeping a copy in the Result.
type ExecRunner struct {
	// Stdout and Stderr default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	// Stdin defaults to os.Stdin so bootstrap tools can still reach a terminal.
	Stdin io.Reader
}

// NewExecRunner returns an ExecRunner bound to the process's standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes cmd in cmd.Dir.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Dir == "" {
		return nil, fmt.Errorf("running %s: working directory is required", cmd.Name)
	}

	bin, err := exec.LookPath(cmd.Name)
	if err != nil {
		return nil, fmt.Errorf("%s is required but not found in PATH: %w", cmd.Name, err)
	}

	c := exec.CommandContext(ctx, bin, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = mergeEnv(os.Environ(), cmd.Env)

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	stdin := r.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	var buf bytes.Buffer
	c.Stdin = stdin
	c.Stdout = io.MultiWriter(stdout, &buf)
	c.Stderr = io.MultiWriter(stderr, &buf)

	err = c.Run()
	res := &Result{Output: buf.Bytes()}
	if err != nil {
		// A killed child after cancellation is reported as the context error.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("running %q: %w", cmd.String(), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, &ExitError{Command: cmd, ExitCode: res.ExitCode}
		}
		return res, fmt.Errorf("executing %s: %w", cmd.Name, err)
	}
	return res, nil
}

// mergeEnv applies KEY=VALUE overrides to base, replacing existing keys.
func mergeEnv(base, overrides []string) []string {
	env := make([]string, len(base))
	copy(env, base)
	for _, kv := range overrides {
		key, value, _ := strings.Cut(kv, "=")
		env = setEnv(env, key, value)
	}
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
