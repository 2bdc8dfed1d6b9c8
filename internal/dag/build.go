package dag

import (
	"context"
	"fmt"

	"github.com/dvoss/devrig/internal/config"
	"github.com/dvoss/devrig/internal/ctxlog"
)

// Build constructs the validated execution graph for a requested task: the
// task itself plus its transitive dependency closure, linked and primed for
// the executor.
func Build(ctx context.Context, model *config.Model, target string) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)

	root, ok := model.Tasks[target]
	if !ok {
		return nil, fmt.Errorf("unknown task %q (available: %v)", target, model.TaskNames())
	}

	graph := &Graph{Nodes: make(map[string]*Node)}

	// First pass: walk the closure and create a node per task.
	queue := []*config.Task{root}
	for len(queue) > 0 {
		task := queue[0]
		queue = queue[1:]
		if _, exists := graph.Nodes[task.Name]; exists {
			continue
		}
		graph.Nodes[task.Name] = &Node{
			Name:       task.Name,
			Task:       task,
			Deps:       make(map[string]*Node),
			Dependents: make(map[string]*Node),
		}
		for _, dep := range task.DependsOn {
			depTask, ok := model.Tasks[dep]
			if !ok {
				// The loader validates references, so this is an internal
				// inconsistency rather than a user error.
				return nil, fmt.Errorf("task %q depends on unknown task %q", task.Name, dep)
			}
			queue = append(queue, depTask)
		}
	}
	logger.Debug("Graph nodes created.", "count", len(graph.Nodes))

	// Second pass: link dependency edges.
	for _, node := range graph.Nodes {
		for _, dep := range node.Task.DependsOn {
			depNode := graph.Nodes[dep]
			node.Deps[dep] = depNode
			depNode.Dependents[node.Name] = node
		}
	}

	// Third pass: prime the counters the executor drives.
	for _, node := range graph.Nodes {
		node.SetInitialCounters()
	}

	if err := graph.detectCycles(); err != nil {
		return nil, err
	}
	logger.Debug("Graph construction successful.", "target", target)
	return graph, nil
}
