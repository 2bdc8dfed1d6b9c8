// Package config defines the format-agnostic model that the rest of the
// application consumes. Only the loader in internal/recipe knows that the
// model came from HCL; everything downstream (listing, graph building,
// execution) works against these types.
package config
