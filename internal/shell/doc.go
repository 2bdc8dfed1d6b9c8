// Package shell provides the command execution boundary for devrig. Runner
// modules build argument vectors; this package owns how (and whether) those
// vectors reach os/exec.
package shell
