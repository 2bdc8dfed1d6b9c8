package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dvoss/devrig/internal/app"
	"github.com/dvoss/devrig/internal/recipe"
	"github.com/dvoss/devrig/internal/registry"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of a system test run.
type HarnessResult struct {
	// LogOutput contains both the structured log lines and, in dry-run
	// mode, the recorded commands, since the app shares one writer.
	LogOutput string
	Err       error
	App       *app.App
}

// RunTask provides a standardized harness for running a task from a set of
// rigfile fixtures, in dry-run mode, using a background context.
func RunTask(t *testing.T, files map[string]string, task string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunTaskWithContext(context.Background(), t, files, task, modules...)
}

// RunTaskWithContext is like RunTask but uses the caller's context, for
// cancellation tests.
func RunTaskWithContext(ctx context.Context, t *testing.T, files map[string]string, task string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	appConfig := &app.Config{
		Task:        task,
		DryRun:      true,
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	}
	return runWithConfig(ctx, t, files, appConfig, modules...)
}

// RunWithConfig runs the harness with a caller-built configuration. The
// RigfilePath is always overwritten to point at the fixture directory.
func RunWithConfig(t *testing.T, files map[string]string, appConfig *app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return runWithConfig(context.Background(), t, files, appConfig, modules...)
}

func runWithConfig(ctx context.Context, t *testing.T, files map[string]string, appConfig *app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()

	// Fixtures are written under a temp root; the loader walks the whole
	// directory, so relative paths in the map create the layout.
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}
	appConfig.RigfilePath = tmpDir

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, recipe.NewLoader(), modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx, appConfig)

	if os.Getenv("DEVRIG_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
