package app

import (
	"context"
	"fmt"

	"github.com/dvoss/devrig/internal/config"
	"github.com/dvoss/devrig/internal/ctxlog"
	"github.com/dvoss/devrig/internal/recipe"
	"github.com/dvoss/devrig/internal/registry"
)

// runTask executes a task's steps in declaration order. It is the TaskFunc
// the DAG executor drives; concurrency happens between tasks, never inside
// one.
func (a *App) runTask(ctx context.Context, task *config.Task, overrides map[string]string, extraArgs []string) error {
	logger := ctxlog.FromContext(ctx).With("task", task.Name)

	params, err := recipe.ResolveParams(task, overrides)
	if err != nil {
		return err
	}
	evalCtx := recipe.BuildEvalContext(a.model.Project, params, extraArgs)

	deps := &registry.Deps{
		Runner:      a.runner,
		Stdout:      a.outW,
		Project:     a.model.Project,
		Compose:     a.composeClient,
		ComposeFile: a.composeFile,
		Images:      a.model.Images,
	}

	for _, step := range task.Steps {
		stepID := fmt.Sprintf("%s.%s.%s", task.Name, step.RunnerType, step.Name)
		stepLogger := logger.With("step", stepID)
		stepLogger.Info("▶️ Step starting")

		handler, ok := a.registry.Runner(step.RunnerType)
		if !ok {
			// Startup validation makes this unreachable for loaded models.
			return fmt.Errorf("unknown runner type %q", step.RunnerType)
		}

		input := handler.NewInput()
		if err := recipe.DecodeArguments(ctx, step.Arguments, evalCtx, input); err != nil {
			return fmt.Errorf("step %s: %w", stepID, err)
		}

		if err := handler.Fn(ctxlog.WithLogger(ctx, stepLogger), deps, input); err != nil {
			return fmt.Errorf("step %s: %w", stepID, err)
		}
		stepLogger.Info("✅ Step finished")
	}

	return nil
}
