package runner

import (
	"context"
	"sync"
)

// Recorder is a Runner test double. It records every command and answers with
// Handler, or with a successful empty result when Handler is nil.
type Recorder struct {
	Handler func(cmd Command) (*Result, error)

	mu       sync.Mutex
	commands []Command
}

// Run records cmd and delegates to Handler.
func (r *Recorder) Run(_ context.Context, cmd Command) (*Result, error) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	h := r.Handler
	r.mu.Unlock()

	if h == nil {
		return &Result{}, nil
	}
	return h(cmd)
}

// Commands returns a copy of the recorded commands in call order.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Lines returns the recorded commands rendered with Command.String.
func (r *Recorder) Lines() []string {
	cmds := r.Commands()
	lines := make([]string, len(cmds))
	for i, c := range cmds {
		lines[i] = c.String()
	}
	return lines
}

// Fail returns a Handler that exits with code for every command whose
// rendered line equals line, and succeeds otherwise.
func Fail(line string, code int) func(Command) (*Result, error) {
	return func(cmd Command) (*Result, error) {
		if cmd.String() == line {
			return &Result{ExitCode: code}, &ExitError{Command: cmd, ExitCode: code}
		}
		return &Result{}, nil
	}
}
