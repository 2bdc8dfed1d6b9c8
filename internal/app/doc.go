// Package app wires the application together: it owns the logger, loads
// the rigfile through a config.Loader, registers the runner modules, and
// drives the DAG executor for the requested task. cmd/devrig and the test
// harness are both thin shells around this package.
package app
