package config

import "context"

// Loader is the interface for a format-specific rigfile loader. The HCL
// implementation lives in internal/recipe; tests may substitute their own.
type Loader interface {
	// Load reads recipe configuration from path (a file or a directory of
	// recipe files), validates it, and translates it into the
	// format-agnostic model.
	Load(ctx context.Context, path string) (*Model, error)
}
