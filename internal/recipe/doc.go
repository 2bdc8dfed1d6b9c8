// Package recipe loads rigfiles. It resolves a path into a set of .hcl
// files, parses and merges them, translates the result into the config
// model, and owns the evaluation context that step arguments are decoded
// against at execution time.
package recipe
