package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dvoss/devrig/internal/app"
	"github.com/dvoss/devrig/internal/settings"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageText = `
devrig - a declarative task runner for containerized dev environments.

Usage:
  devrig [options] TASK [name=value ...] [-- args...]

Arguments:
  TASK
    Name of a task from the rigfile.
  name=value
    Override a parameter the task declares.
  -- args...
    Everything after -- is exposed to the task as the 'args' value
    (used by passthrough recipes like an arbitrary management command).

Options:
`

// Parse processes command-line arguments, merges in the project settings
// file, and returns a validated app configuration. The boolean result
// signals a clean early exit (help or missing task with usage printed).
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("devrig", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, usageText)
		flagSet.PrintDefaults()
	}

	rigfileFlag := flagSet.String("rigfile", "", "Path to the rigfile or a directory of .hcl files.")
	fFlag := flagSet.String("f", "", "Path to the rigfile (shorthand).")
	settingsFlag := flagSet.String("settings", "", "Path to the devrig.toml settings file.")
	listFlag := flagSet.Bool("list", false, "List the available tasks and exit.")
	pickFlag := flagSet.Bool("pick", false, "Pick a task interactively.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print the commands that would run without executing them.")
	watchFlag := flagSet.String("watch", "", "Watch a directory and rerun the task on changes.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Logging level: 'debug', 'info', 'warn', or 'error'.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent workers for the executor.")
	composeBinaryFlag := flagSet.String("compose-binary", "", "Compose entrypoint override (e.g. 'docker-compose').")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	task, params, extraArgs, err := splitPositionals(flagSet.Args())
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if task == "" && !*listFlag && !*pickFlag {
		flagSet.Usage()
		return nil, true, nil
	}

	settingsPath := *settingsFlag
	explicit := settingsPath != ""
	if !explicit {
		settingsPath = settings.DefaultFileName
	}
	projectSettings, err := settings.Load(settingsPath, explicit)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg := app.Config{
		RigfilePath:   mergeString(firstNonEmpty(*rigfileFlag, *fFlag), projectSettings.Rigfile, "devrig.hcl"),
		Task:          task,
		Params:        params,
		ExtraArgs:     extraArgs,
		List:          *listFlag,
		Pick:          *pickFlag,
		DryRun:        *dryRunFlag,
		WatchPath:     *watchFlag,
		LogFormat:     mergeString(*logFormatFlag, projectSettings.LogFormat, "text"),
		LogLevel:      mergeString(*logLevelFlag, projectSettings.LogLevel, "info"),
		WorkerCount:   mergeInt(*workersFlag, projectSettings.Workers, 4),
		ComposeBinary: *composeBinaryFlag,
	}
	if cfg.ComposeBinary == "" {
		cfg.ComposeBinary = projectSettings.ComposeBinary
	}

	logFormat := strings.ToLower(cfg.LogFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	cfg.LogFormat = logFormat

	logLevel := strings.ToLower(cfg.LogLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	cfg.LogLevel = logLevel

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return validated, false, nil
}

// splitPositionals separates the task name, name=value parameter
// overrides, and the passthrough arguments after "--".
func splitPositionals(rest []string) (string, map[string]string, []string, error) {
	task := ""
	params := make(map[string]string)
	var extraArgs []string

	for i, arg := range rest {
		if arg == "--" {
			extraArgs = rest[i+1:]
			break
		}
		if task == "" {
			task = arg
			continue
		}
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return "", nil, nil, fmt.Errorf("expected name=value parameter, got %q", arg)
		}
		params[name] = value
	}
	return task, params, extraArgs, nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// mergeString applies flag > settings > default precedence.
func mergeString(flagValue, settingsValue, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if settingsValue != "" {
		return settingsValue
	}
	return defaultValue
}

// mergeInt applies flag > settings > default precedence.
func mergeInt(flagValue, settingsValue, defaultValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if settingsValue > 0 {
		return settingsValue
	}
	return defaultValue
}
