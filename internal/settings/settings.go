// Package settings loads the optional per-project devrig.toml file. It only
// supplies defaults; anything given on the command line wins.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is the settings file devrig looks for in the working
// directory when no -settings flag is given.
const DefaultFileName = "devrig.toml"

// Settings holds project-level defaults for flags that rarely change
// between invocations.
type Settings struct {
	Rigfile       string `toml:"rigfile"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	Workers       int    `toml:"workers"`
	ComposeBinary string `toml:"compose_binary"`
}

// Load reads and parses a settings file. A missing file at the default
// location is not an error; an explicitly requested file must exist.
func Load(path string, explicit bool) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("settings load failed (%s): %w", path, err)
	}

	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("settings parse failed (%s): %w", path, err)
	}

	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("settings invalid (%s): %w", path, err)
	}
	return &s, nil
}

func validate(s *Settings) error {
	switch s.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", s.LogLevel)
	}
	switch s.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be 'text' or 'json'; got %q", s.LogFormat)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers cannot be negative; got %d", s.Workers)
	}
	return nil
}
