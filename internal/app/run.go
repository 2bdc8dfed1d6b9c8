package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dvoss/devrig/internal/config"
	"github.com/dvoss/devrig/internal/ctxlog"
	"github.com/dvoss/devrig/internal/dag"
	"github.com/dvoss/devrig/internal/watch"
)

// Run executes the main application logic for the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run started.")

	if appConfig.List {
		return a.listTasks()
	}

	taskName := appConfig.Task
	if taskName == "" && appConfig.Pick {
		picked, err := a.pickTask()
		if err != nil {
			return err
		}
		taskName = picked
	}

	// Build once up front so an unknown task or a cycle fails before any
	// command runs, and so parameter overrides can be checked against the
	// whole closure.
	graph, err := dag.Build(ctx, a.model, taskName)
	if err != nil {
		return err
	}
	if err := validateOverrides(graph, appConfig.Params); err != nil {
		return err
	}

	runOnce := func(ctx context.Context) error {
		// Graph nodes carry per-run state, so every pass gets a fresh one.
		graph, err := dag.Build(ctx, a.model, taskName)
		if err != nil {
			return err
		}
		logger.Info("🚀 Starting execution.", "task", taskName, "nodes", len(graph.Nodes))
		exec := dag.New(graph, appConfig.WorkerCount, func(ctx context.Context, task *config.Task) error {
			return a.runTask(ctx, task, appConfig.Params, appConfig.ExtraArgs)
		})
		if err := exec.Run(ctx); err != nil {
			return err
		}
		logger.Info("🏁 Execution finished.", "task", taskName)
		return nil
	}

	if appConfig.WatchPath != "" {
		if err := runOnce(ctx); err != nil {
			// Watch mode keeps going after a failed first pass, the same
			// way it keeps going after a failed rerun.
			logger.Error("Initial run failed.", "error", err)
		}
		return watch.New(appConfig.WatchPath).Run(ctx, runOnce)
	}

	return runOnce(ctx)
}

// validateOverrides rejects name=value arguments no task in the closure
// declares, so typos surface instead of silently doing nothing.
func validateOverrides(graph *dag.Graph, overrides map[string]string) error {
	for name := range overrides {
		declared := false
		for _, node := range graph.Nodes {
			if node.Task.Param(name) != nil {
				declared = true
				break
			}
		}
		if !declared {
			return fmt.Errorf("parameter %q is not declared by the requested task or its dependencies", name)
		}
	}
	return nil
}
