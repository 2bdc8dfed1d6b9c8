package testutil

import (
	"testing"

	"github.com/dvoss/devrig/internal/app"
	"github.com/dvoss/devrig/internal/config"
)

// ParseRig provides a simplified harness for testing the parsing of a single
// rigfile string. It runs the app in list mode, so decoding and validation
// errors surface without needing a runnable task.
func ParseRig(t *testing.T, rigHCL string) (*HarnessResult, *config.Model) {
	t.Helper()

	files := map[string]string{
		"main.hcl": rigHCL,
	}
	appConfig := &app.Config{
		List:        true,
		DryRun:      true,
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	}

	result := RunWithConfig(t, files, appConfig)
	if result.App != nil {
		return result, result.App.Model()
	}
	return result, nil
}
