// Package compose_run implements the workhorse runner of most recipes: a
// one-off command inside a service container, the equivalent of
// `docker compose run --rm SERVICE ...`. The test, lint, migrate, shell,
// and management-command recipes all reduce to this runner.
package compose_run

import (
	"context"
	"fmt"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/dvoss/devrig/internal/ctxlog"
	"github.com/dvoss/devrig/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the compose_run runner.
type Input struct {
	// Service is the compose service to run the command in. Empty falls
	// back to the project's default service.
	Service string `hcl:"service,optional"`
	// Command is the command line to run inside the container. Empty runs
	// the service's default command.
	Command string `hcl:"command,optional"`
	// NoDeps skips starting linked services.
	NoDeps bool `hcl:"no_deps,optional"`
}

// OnRunComposeRun executes a one-off container command.
func OnRunComposeRun(ctx context.Context, deps *registry.Deps, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	service := in.Service
	if service == "" && deps.Project != nil {
		service = deps.Project.DefaultService
	}
	if service == "" {
		return fmt.Errorf("compose_run: no service given and the project declares no default_service")
	}
	if err := deps.ComposeFile.ValidateService(service); err != nil {
		return fmt.Errorf("compose_run: %w", err)
	}

	args := []string{"run", "--rm"}
	if in.NoDeps {
		args = append(args, "--no-deps")
	}
	args = append(args, service)

	if in.Command != "" {
		argv, err := shellquote.Split(in.Command)
		if err != nil {
			return fmt.Errorf("compose_run: bad command %q: %w", in.Command, err)
		}
		args = append(args, argv...)
	}

	cmd := deps.Compose.Command(args...)
	logger.Debug("Running one-off container command.", "service", service, "command", in.Command)

	code, err := deps.Runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("compose_run: %s exited with code %d: %w", service, code, err)
	}
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("compose_run", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunComposeRun,
	})
}
