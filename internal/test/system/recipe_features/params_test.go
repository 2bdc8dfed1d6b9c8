package system

import (
	"strings"
	"testing"

	"github.com/dvoss/devrig/internal/app"
	"github.com/dvoss/devrig/internal/testutil"
)

// Test for: parameter default is used when no override is given
func TestRecipe_ParamDefault_IsApplied(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			task "greet" {
				param "name" {
					default = "world"
				}
				step "print" "msg" {
					arguments {
						message = "hello ${param.name}"
					}
				}
			}
		`,
	}

	result := testutil.RunTask(t, files, "greet")

	if result.Err != nil {
		t.Fatalf("run returned an unexpected error: %v", result.Err)
	}
	if !strings.Contains(result.LogOutput, "hello world") {
		t.Errorf("expected the default value in the output, got:\n%s", result.LogOutput)
	}
}

// Test for: name=value on the command line overrides the default
func TestRecipe_ParamOverride_Wins(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			task "greet" {
				param "name" {
					default = "world"
				}
				step "print" "msg" {
					arguments {
						message = "hello ${param.name}"
					}
				}
			}
		`,
	}

	appConfig := &app.Config{
		Task:        "greet",
		Params:      map[string]string{"name": "core"},
		DryRun:      true,
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	}
	result := testutil.RunWithConfig(t, files, appConfig)

	if result.Err != nil {
		t.Fatalf("run returned an unexpected error: %v", result.Err)
	}
	if !strings.Contains(result.LogOutput, "hello core") {
		t.Errorf("expected the override value in the output, got:\n%s", result.LogOutput)
	}
}

// Test for: required parameter without an override fails the run
func TestRecipe_RequiredParam_MissingFails(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			task "greet" {
				param "name" {}
				step "print" "msg" {
					arguments {
						message = "hello ${param.name}"
					}
				}
			}
		`,
	}

	result := testutil.RunTask(t, files, "greet")

	if result.Err == nil {
		t.Fatal("expected the run to fail for the missing required parameter")
	}
	if !strings.Contains(result.Err.Error(), `requires parameter "name"`) {
		t.Errorf("error should name the missing parameter, got: %v", result.Err)
	}
}

// Test for: an override no task declares is rejected up front
func TestRecipe_UndeclaredOverride_IsRejected(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			task "greet" {
				step "print" "msg" {
					arguments {
						message = "hello"
					}
				}
			}
		`,
	}

	appConfig := &app.Config{
		Task:        "greet",
		Params:      map[string]string{"nmae": "typo"},
		DryRun:      true,
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	}
	result := testutil.RunWithConfig(t, files, appConfig)

	if result.Err == nil {
		t.Fatal("expected the run to reject the undeclared parameter")
	}
	if !strings.Contains(result.Err.Error(), "not declared") {
		t.Errorf("error should report the undeclared parameter, got: %v", result.Err)
	}
}

// Test for: extra arguments after -- reach the step through args
func TestRecipe_ExtraArgs_AreInterpolated(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
			task "manage" {
				step "print" "msg" {
					arguments {
						message = "manage.py ${args}"
					}
				}
			}
		`,
	}

	appConfig := &app.Config{
		Task:        "manage",
		ExtraArgs:   []string{"createsuperuser", "--noinput"},
		DryRun:      true,
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	}
	result := testutil.RunWithConfig(t, files, appConfig)

	if result.Err != nil {
		t.Fatalf("run returned an unexpected error: %v", result.Err)
	}
	if !strings.Contains(result.LogOutput, "manage.py createsuperuser --noinput") {
		t.Errorf("expected the extra arguments in the output, got:\n%s", result.LogOutput)
	}
}
