// Package script implements the escape hatch runner: a plain command on
// the host, outside any container.
package script

import (
	"context"
	"fmt"
	"sort"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/dvoss/devrig/internal/ctxlog"
	"github.com/dvoss/devrig/internal/registry"
	"github.com/dvoss/devrig/internal/shell"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the script runner.
type Input struct {
	Command string `hcl:"command"`
	// Dir is the working directory for the command.
	Dir string `hcl:"dir,optional"`
	// Env adds environment variables on top of the inherited environment.
	Env map[string]string `hcl:"env,optional"`
}

// OnRunScript executes a local command.
func OnRunScript(ctx context.Context, deps *registry.Deps, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	argv, err := shellquote.Split(in.Command)
	if err != nil {
		return fmt.Errorf("script: bad command %q: %w", in.Command, err)
	}
	if len(argv) == 0 {
		return fmt.Errorf("script: empty command")
	}

	// Sorted so repeated runs build the identical environment slice.
	keys := make([]string, 0, len(in.Env))
	for k := range in.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+in.Env[k])
	}

	cmd := shell.Command{Name: argv[0], Args: argv[1:], Dir: in.Dir, Env: env}
	logger.Debug("Running host command.", "command", in.Command, "dir", in.Dir)

	if code, err := deps.Runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("script: %s exited with code %d: %w", argv[0], code, err)
	}
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("script", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunScript,
	})
}
