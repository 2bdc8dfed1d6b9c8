package app

import "errors"

// Config holds everything an App instance needs to run: the resolved CLI
// flags after project settings have been merged in.
type Config struct {
	RigfilePath string

	// Task is the task to execute, with its name=value parameter overrides
	// and any passthrough arguments given after "--".
	Task      string
	Params    map[string]string
	ExtraArgs []string

	// Modes.
	List      bool
	Pick      bool
	DryRun    bool
	WatchPath string

	LogFormat     string
	LogLevel      string
	WorkerCount   int
	ComposeBinary string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RigfilePath == "" {
		return nil, errors.New("rigfile path is required and cannot be empty")
	}
	if cfg.Task == "" && !cfg.List && !cfg.Pick {
		return nil, errors.New("a task name is required (or use -list / -pick)")
	}
	return &cfg, nil
}
