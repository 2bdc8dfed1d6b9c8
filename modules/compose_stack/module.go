// Package compose_stack implements the stack lifecycle runners: bringing
// the compose stack up, tearing it down, and tailing service logs.
package compose_stack

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dvoss/devrig/internal/ctxlog"
	"github.com/dvoss/devrig/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// UpInput defines the arguments for the compose_up runner.
type UpInput struct {
	// Detach runs the stack in the background.
	Detach bool `hcl:"detach,optional"`
	// Build rebuilds images before starting.
	Build bool `hcl:"build,optional"`
	// Services restricts the start to specific services.
	Services []string `hcl:"services,optional"`
}

// DownInput defines the arguments for the compose_down runner.
type DownInput struct {
	// Volumes also removes named volumes, losing database state.
	Volumes bool `hcl:"volumes,optional"`
}

// LogsInput defines the arguments for the compose_logs runner.
type LogsInput struct {
	Service string `hcl:"service,optional"`
	Follow  bool   `hcl:"follow,optional"`
	// Tail limits output to the last N lines. Zero means everything.
	Tail int `hcl:"tail,optional"`
}

// OnRunComposeUp starts the stack.
func OnRunComposeUp(ctx context.Context, deps *registry.Deps, input any) error {
	in := input.(*UpInput)
	logger := ctxlog.FromContext(ctx)

	args := []string{"up"}
	if in.Detach {
		args = append(args, "-d")
	}
	if in.Build {
		args = append(args, "--build")
	}
	for _, svc := range in.Services {
		if err := deps.ComposeFile.ValidateService(svc); err != nil {
			return fmt.Errorf("compose_up: %w", err)
		}
		args = append(args, svc)
	}

	logger.Debug("Starting compose stack.", "detach", in.Detach, "build", in.Build)
	if code, err := deps.Runner.Run(ctx, deps.Compose.Command(args...)); err != nil {
		return fmt.Errorf("compose_up: exited with code %d: %w", code, err)
	}
	return nil
}

// OnRunComposeDown stops the stack.
func OnRunComposeDown(ctx context.Context, deps *registry.Deps, input any) error {
	in := input.(*DownInput)
	logger := ctxlog.FromContext(ctx)

	args := []string{"down"}
	if in.Volumes {
		args = append(args, "--volumes")
	}

	logger.Debug("Stopping compose stack.", "volumes", in.Volumes)
	if code, err := deps.Runner.Run(ctx, deps.Compose.Command(args...)); err != nil {
		return fmt.Errorf("compose_down: exited with code %d: %w", code, err)
	}
	return nil
}

// OnRunComposeLogs tails service logs.
func OnRunComposeLogs(ctx context.Context, deps *registry.Deps, input any) error {
	in := input.(*LogsInput)
	logger := ctxlog.FromContext(ctx)

	args := []string{"logs"}
	if in.Follow {
		args = append(args, "-f")
	}
	if in.Tail > 0 {
		args = append(args, "--tail", strconv.Itoa(in.Tail))
	}
	if in.Service != "" {
		if err := deps.ComposeFile.ValidateService(in.Service); err != nil {
			return fmt.Errorf("compose_logs: %w", err)
		}
		args = append(args, in.Service)
	}

	logger.Debug("Tailing compose logs.", "service", in.Service, "follow", in.Follow)
	if code, err := deps.Runner.Run(ctx, deps.Compose.Command(args...)); err != nil {
		return fmt.Errorf("compose_logs: exited with code %d: %w", code, err)
	}
	return nil
}

// Register registers the stack lifecycle handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("compose_up", &registry.RegisteredRunner{
		NewInput: func() any { return new(UpInput) },
		Fn:       OnRunComposeUp,
	})
	r.RegisterRunner("compose_down", &registry.RegisteredRunner{
		NewInput: func() any { return new(DownInput) },
		Fn:       OnRunComposeDown,
	})
	r.RegisterRunner("compose_logs", &registry.RegisteredRunner{
		NewInput: func() any { return new(LogsInput) },
		Fn:       OnRunComposeLogs,
	})
}
