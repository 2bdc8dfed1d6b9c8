package dag

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dvoss/devrig/internal/config"
)

// State is the execution state of a node in the graph.
type State int32

const (
	// Pending indicates the node is waiting for its dependencies.
	Pending State = iota
	// Running indicates a worker is currently executing the node.
	Running
	// Done indicates the node completed successfully.
	Done
	// Failed indicates the node failed or was skipped.
	Failed
)

// Node is a single task in the execution graph.
type Node struct {
	// Name is the task name, unique within the graph.
	Name string
	// Task is the task configuration this node executes.
	Task *config.Task
	// Err stores the error that failed or skipped this node.
	Err error

	// Deps are the nodes this node waits for.
	Deps map[string]*Node
	// Dependents are the nodes waiting for this node.
	Dependents map[string]*Node

	// depCount counts unmet dependencies; the executor decrements it as
	// dependencies finish and enqueues the node when it reaches zero.
	depCount atomic.Int32
	state    atomic.Int32
	skipOnce sync.Once
}

// SetInitialCounters primes the dependency counter from the linked graph.
func (n *Node) SetInitialCounters() {
	n.depCount.Store(int32(len(n.Deps)))
}

// DecrementDepCount atomically decrements the dependency counter and
// returns the new value.
func (n *Node) DecrementDepCount() int32 {
	return n.depCount.Add(-1)
}

// DepCount returns the current number of unmet dependencies.
func (n *Node) DepCount() int32 {
	return n.depCount.Load()
}

// SetState atomically sets the node's execution state.
func (n *Node) SetState(s State) {
	n.state.Store(int32(s))
}

// GetState atomically reads the node's execution state.
func (n *Node) GetState() State {
	return State(n.state.Load())
}

// Skip marks the node failed with the given error and releases its
// WaitGroup slot, exactly once. It reports whether this call did the skip.
func (n *Node) Skip(err error, wg *sync.WaitGroup) bool {
	var skipped bool
	n.skipOnce.Do(func() {
		n.SetState(Failed)
		n.Err = err
		wg.Done()
		skipped = true
	})
	return skipped
}

// Graph is the dependency graph for one invocation: the requested task and
// its transitive dependency closure.
type Graph struct {
	Nodes map[string]*Node
}

// detectCycles runs a three-color depth-first search over the graph and
// returns an error naming a node on the first cycle found.
func (g *Graph) detectCycles() error {
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if permanent[n.Name] {
			return nil
		}
		if temporary[n.Name] {
			return fmt.Errorf("dependency cycle involving task %q", n.Name)
		}
		temporary[n.Name] = true
		for _, dep := range n.Deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		delete(temporary, n.Name)
		permanent[n.Name] = true
		return nil
	}

	for _, n := range g.Nodes {
		if !permanent[n.Name] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}
