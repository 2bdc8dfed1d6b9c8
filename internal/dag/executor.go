package dag

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dvoss/devrig/internal/config"
	"github.com/dvoss/devrig/internal/ctxlog"
)

// TaskFunc executes a single task. The executor stays ignorant of runner
// modules; the application injects the actual step execution here.
type TaskFunc func(ctx context.Context, task *config.Task) error

// Executor drains a graph with a pool of workers, running independent
// tasks concurrently while dependencies gate everything else.
type Executor struct {
	graph   *Graph
	workers int
	runTask TaskFunc
	wg      sync.WaitGroup
}

// New creates an executor for the graph. An invalid worker count falls back
// to a small default.
func New(graph *Graph, workers int, runTask TaskFunc) *Executor {
	if workers <= 0 {
		workers = 4
	}
	return &Executor{graph: graph, workers: workers, runTask: runTask}
}

// Run executes the whole graph and returns the root-cause error if any task
// failed. A failed task skips its dependents; independent branches keep
// running.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	readyChan := make(chan *Node, len(e.graph.Nodes))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rootCount := 0
	for _, node := range e.graph.Nodes {
		if node.DepCount() == 0 {
			readyChan <- node
			rootCount++
		}
	}
	logger.Debug("Executor primed.", "roots", rootCount, "nodes", len(e.graph.Nodes), "workers", e.workers)

	e.wg.Add(len(e.graph.Nodes))
	for i := 0; i < e.workers; i++ {
		go e.worker(runCtx, readyChan)
	}

	e.wg.Wait()
	close(readyChan)

	return e.collectErrors(ctx)
}

// worker consumes ready nodes until the channel closes.
func (e *Executor) worker(ctx context.Context, readyChan chan *Node) {
	for node := range readyChan {
		e.executeNode(ctx, node, readyChan)
	}
}

// executeNode runs one node and propagates its outcome through the graph.
func (e *Executor) executeNode(ctx context.Context, node *Node, readyChan chan *Node) {
	logger := ctxlog.FromContext(ctx).With("task", node.Name)

	if err := ctx.Err(); err != nil {
		if node.Skip(err, &e.wg) {
			e.skipDependents(ctx, node)
		}
		return
	}

	node.SetState(Running)
	logger.Info("▶️ Task starting")

	if err := e.runTask(ctx, node.Task); err != nil {
		node.SetState(Failed)
		node.Err = err
		logger.Error("Task failed.", "error", err)
		e.wg.Done()
		e.skipDependents(ctx, node)
		return
	}

	node.SetState(Done)
	logger.Info("✅ Task finished")
	e.wg.Done()

	for _, dependent := range node.Dependents {
		if dependent.DecrementDepCount() == 0 {
			readyChan <- dependent
		}
	}
}

// skipDependents recursively marks every downstream node as failed so the
// WaitGroup drains and the failure is attributed to its upstream cause.
func (e *Executor) skipDependents(ctx context.Context, node *Node) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range node.Dependents {
		err := fmt.Errorf("skipped: upstream task %q failed", node.Name)
		if dependent.Skip(err, &e.wg) {
			logger.Warn("Skipping dependent task.", "task", dependent.Name, "upstream", node.Name)
			e.skipDependents(ctx, dependent)
		}
	}
}

// collectErrors walks the finished graph and reports the first real
// failure, with every failed task named. Skip and cancellation errors are
// symptoms, not causes.
func (e *Executor) collectErrors(ctx context.Context) error {
	var failed []string
	var rootCause error

	names := make([]string, 0, len(e.graph.Nodes))
	for name := range e.graph.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		node := e.graph.Nodes[name]
		if node.GetState() != Failed {
			continue
		}
		if node.Err != nil && !strings.HasPrefix(node.Err.Error(), "skipped:") && !errors.Is(node.Err, context.Canceled) {
			failed = append(failed, node.Name)
			if rootCause == nil {
				rootCause = node.Err
			}
		}
	}

	if rootCause != nil {
		return fmt.Errorf("execution failed for %s: %w", strings.Join(failed, ", "), rootCause)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}
