package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/dvoss/devrig/internal/compose"
	"github.com/dvoss/devrig/internal/config"
	"github.com/dvoss/devrig/internal/shell"
)

// Module is the interface every runner module implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Deps is handed to every runner handler. It carries the execution
// boundary and the project context a handler may need.
type Deps struct {
	Runner      shell.CommandRunner
	Stdout      io.Writer
	Project     *config.Project
	Compose     *compose.Client
	ComposeFile *compose.File
	Images      map[string]*config.Image
}

// RegisteredRunner binds a runner type to its Go implementation. NewInput
// returns a fresh input struct for argument decoding; Fn executes one step.
type RegisteredRunner struct {
	NewInput func() any
	Fn       func(ctx context.Context, deps *Deps, input any) error
}

// Registry holds the runner handlers for a single application instance.
type Registry struct {
	runners map[string]*RegisteredRunner
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{runners: make(map[string]*RegisteredRunner)}
}

// RegisterRunner registers a handler under a runner type name. Double
// registration is a programmer error.
func (r *Registry) RegisterRunner(runnerType string, handler *RegisteredRunner) {
	if _, exists := r.runners[runnerType]; exists {
		panic(fmt.Sprintf("runner type %q already registered", runnerType))
	}
	slog.Debug("Registering runner type.", "type", runnerType)
	r.runners[runnerType] = handler
}

// Runner looks up a handler by runner type.
func (r *Registry) Runner(runnerType string) (*RegisteredRunner, bool) {
	h, ok := r.runners[runnerType]
	return h, ok
}

// RunnerTypes returns the registered type names in lexical order.
func (r *Registry) RunnerTypes() []string {
	types := make([]string, 0, len(r.runners))
	for t := range r.runners {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ValidateModel checks that every step in the model references a registered
// runner type. This runs at startup so a typo fails before any command does.
func (r *Registry) ValidateModel(model *config.Model) error {
	for _, task := range model.Tasks {
		for _, step := range task.Steps {
			if _, ok := r.runners[step.RunnerType]; !ok {
				return fmt.Errorf("task %q step %q uses unknown runner type %q (registered: %v)",
					task.Name, step.Name, step.RunnerType, r.RunnerTypes())
			}
		}
	}
	return nil
}
