package compose_stack

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvoss/devrig/internal/compose"
	"github.com/dvoss/devrig/internal/registry"
	"github.com/dvoss/devrig/internal/shell"
)

func testDeps(runner *shell.DryRunner) *registry.Deps {
	return &registry.Deps{
		Runner:  runner,
		Stdout:  &bytes.Buffer{},
		Compose: &compose.Client{},
		ComposeFile: &compose.File{Services: map[string]compose.Service{
			"app": {},
			"db":  {},
		}},
	}
}

func lastCommand(t *testing.T, runner *shell.DryRunner) shell.Command {
	t.Helper()
	recorded := runner.Recorded()
	require.NotEmpty(t, recorded)
	return recorded[len(recorded)-1]
}

func TestComposeUp_Plain(t *testing.T) {
	runner := &shell.DryRunner{}

	require.NoError(t, OnRunComposeUp(context.Background(), testDeps(runner), &UpInput{}))
	assert.Equal(t, []string{"compose", "up"}, lastCommand(t, runner).Args)
}

func TestComposeUp_DetachBuildAndServices(t *testing.T) {
	runner := &shell.DryRunner{}

	err := OnRunComposeUp(context.Background(), testDeps(runner), &UpInput{
		Detach:   true,
		Build:    true,
		Services: []string{"app"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"compose", "up", "-d", "--build", "app"}, lastCommand(t, runner).Args)
}

func TestComposeUp_UnknownService(t *testing.T) {
	runner := &shell.DryRunner{}

	err := OnRunComposeUp(context.Background(), testDeps(runner), &UpInput{Services: []string{"worker"}})
	require.Error(t, err)
	assert.Empty(t, runner.Recorded())
}

func TestComposeDown_Volumes(t *testing.T) {
	runner := &shell.DryRunner{}

	require.NoError(t, OnRunComposeDown(context.Background(), testDeps(runner), &DownInput{Volumes: true}))
	assert.Equal(t, []string{"compose", "down", "--volumes"}, lastCommand(t, runner).Args)
}

func TestComposeLogs_FollowTailService(t *testing.T) {
	runner := &shell.DryRunner{}

	err := OnRunComposeLogs(context.Background(), testDeps(runner), &LogsInput{
		Service: "db",
		Follow:  true,
		Tail:    100,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"compose", "logs", "-f", "--tail", "100", "db"}, lastCommand(t, runner).Args)
}

func TestRegister_AllRunnerTypes(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	assert.Equal(t, []string{"compose_down", "compose_logs", "compose_up"}, r.RunnerTypes())
}
