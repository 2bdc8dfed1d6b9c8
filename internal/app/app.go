package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dvoss/devrig/internal/compose"
	"github.com/dvoss/devrig/internal/config"
	"github.com/dvoss/devrig/internal/ctxlog"
	"github.com/dvoss/devrig/internal/registry"
	"github.com/dvoss/devrig/internal/shell"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle for a single invocation.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	model    *config.Model
	runner   shell.CommandRunner

	composeClient *compose.Client
	composeFile   *compose.File
}

// NewApp is the constructor for the main application. It loads and validates
// the rigfile, registers the runner modules, and prepares the execution
// boundary. Failures here are fatal startup errors and panic; the caller
// recovers and reports them.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured.")

	model, err := loader.Load(ctx, appConfig.RigfilePath)
	if err != nil {
		panic(fmt.Errorf("failed to load rigfile: %w", err))
	}

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Runner modules registered.", "count", len(modules), "types", reg.RunnerTypes())

	if err := reg.ValidateModel(model); err != nil {
		panic(err)
	}
	logger.Debug("Model validated against registry.")

	composeClient := &compose.Client{Binary: appConfig.ComposeBinary}
	var composeFile *compose.File
	if model.Project != nil {
		composeClient.File = model.Project.ComposeFile
		composeClient.ProjectName = model.Project.Name
		if model.Project.ComposeFile != "" {
			composeFile, err = compose.LoadFile(model.Project.ComposeFile)
			if err != nil {
				panic(fmt.Errorf("failed to read compose file: %w", err))
			}
		}
	}

	var runner shell.CommandRunner
	if appConfig.DryRun {
		runner = &shell.DryRunner{Out: outW}
	} else {
		runner = shell.NewExecRunner()
	}

	return &App{
		outW:          outW,
		logger:        logger,
		registry:      reg,
		model:         model,
		runner:        runner,
		composeClient: composeClient,
		composeFile:   composeFile,
	}
}

// Model returns the loaded config model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
