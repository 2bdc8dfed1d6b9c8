package system

import (
	"strings"
	"testing"

	"github.com/dvoss/devrig/internal/testutil"
)

// Test for: rigfile merging across a directory
func TestCLI_MergesHCL_FromDirectoryPath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Two files in the same directory; the task in one depends on the task
	// in the other, so a successful run proves both were loaded.
	files := map[string]string{
		"a.hcl": `
			task "alpha" {
				step "print" "hello" {
					arguments {
						message = "alpha ran"
					}
				}
			}
		`,
		"b.hcl": `
			task "beta" {
				depends_on = ["alpha"]
				step "print" "hello" {
					arguments {
						message = "beta ran"
					}
				}
			}
		`,
	}

	// --- Act ---
	result := testutil.RunTask(t, files, "beta")

	// --- Assert ---
	if result.Err != nil {
		t.Fatalf("run returned an unexpected error: %v", result.Err)
	}
	if !strings.Contains(result.LogOutput, "step=alpha.print.hello") {
		t.Errorf("expected a log line for the alpha step, got none")
	}
	if !strings.Contains(result.LogOutput, "step=beta.print.hello") {
		t.Errorf("expected a log line for the beta step, got none")
	}
}

// Test for: list mode output
func TestCLI_ListMode_PrintsTasks(t *testing.T) {
	t.Parallel()

	result, model := testutil.ParseRig(t, `
		task "test" {
			description = "Run the test suite."
			step "print" "x" {
				arguments {}
			}
		}

		task "lint" {
			description = "Run the linter."
			step "print" "x" {
				arguments {}
			}
		}
	`)

	if result.Err != nil {
		t.Fatalf("list mode returned an unexpected error: %v", result.Err)
	}
	if model == nil {
		t.Fatal("expected a loaded model")
	}

	for _, want := range []string{"test", "lint", "Run the test suite.", "Run the linter."} {
		if !strings.Contains(result.LogOutput, want) {
			t.Errorf("expected listing to contain %q", want)
		}
	}
}

// Test for: unknown runner type fails at startup
func TestCLI_UnknownRunnerType_FailsStartup(t *testing.T) {
	t.Parallel()

	result, _ := testutil.ParseRig(t, `
		task "broken" {
			step "no_such_runner" "x" {
				arguments {}
			}
		}
	`)

	if result.Err == nil {
		t.Fatal("expected a startup error for an unknown runner type")
	}
	if !strings.Contains(result.Err.Error(), "unknown runner type") {
		t.Errorf("error should name the unknown runner type, got: %v", result.Err)
	}
}
