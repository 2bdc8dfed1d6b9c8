// Package dag builds and executes the task dependency graph. Build selects
// the requested task's transitive closure out of the loaded model; the
// executor drains it with a worker pool, gating each task on its
// dependencies and skipping everything downstream of a failure.
package dag
