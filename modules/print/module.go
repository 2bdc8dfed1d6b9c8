package print

import (
	"context"
	"fmt"
	"sort"

	"github.com/dvoss/devrig/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the print runner.
type Input struct {
	Message string            `hcl:"message,optional"`
	Values  map[string]string `hcl:"values,optional"`
}

// OnRunPrint writes a status message and any key/value pairs to the
// application output.
func OnRunPrint(ctx context.Context, deps *registry.Deps, input any) error {
	in := input.(*Input)

	if in.Message != "" {
		fmt.Fprintln(deps.Stdout, in.Message)
	}

	// Sort keys for consistent output.
	keys := make([]string, 0, len(in.Values))
	for k := range in.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(deps.Stdout, "  %s = %q\n", k, in.Values[k])
	}
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("print", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunPrint,
	})
}
