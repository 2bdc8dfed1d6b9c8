package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/dvoss/devrig/internal/ctxlog"
)

// Command is a single external invocation: an executable name plus its
// argument vector.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

// CommandRunner abstracts external command execution so that task handlers
// can be exercised without spawning processes.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (int, error)
}

// ExecRunner executes commands on the local host, streaming their output to
// the configured writers.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// NewExecRunner returns a runner wired to the process's standard streams.
// Interactive recipes (a container shell, a follow-mode log tail) need the
// real stdin attached.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, Stdin: os.Stdin}
}

// Run executes the command and returns its exit code. A missing executable
// reports 127, matching shell convention.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (int, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Executing external command.", "name", cmd.Name, "args", cmd.Args)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	c.Stdin = r.Stdin
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	err := c.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), err
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return 127, err
	}
	return 1, err
}

// DryRunner records commands instead of executing them. It backs the
// -dry-run flag and the test harness.
type DryRunner struct {
	mu       sync.Mutex
	Out      io.Writer
	recorded []Command
}

// Run records the command and reports success without executing anything.
func (r *DryRunner) Run(ctx context.Context, cmd Command) (int, error) {
	r.mu.Lock()
	r.recorded = append(r.recorded, cmd)
	r.mu.Unlock()

	if r.Out != nil {
		line := cmd.Name
		for _, a := range cmd.Args {
			line += " " + a
		}
		io.WriteString(r.Out, line+"\n")
	}
	return 0, nil
}

// Recorded returns a copy of every command seen so far.
func (r *DryRunner) Recorded() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.recorded))
	copy(out, r.recorded)
	return out
}
