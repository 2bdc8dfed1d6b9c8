package image_build

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvoss/devrig/internal/config"
	"github.com/dvoss/devrig/internal/registry"
	"github.com/dvoss/devrig/internal/shell"
)

func testDeps(runner *shell.DryRunner) *registry.Deps {
	return &registry.Deps{
		Runner: runner,
		Stdout: &bytes.Buffer{},
		Images: map[string]*config.Image{
			"app": {
				Name:       "app",
				Tag:        "recipe-app:latest",
				Context:    ".",
				Dockerfile: "Dockerfile",
				Dev:        true,
				BuildArgs:  map[string]string{"PYTHON_VERSION": "3.12"},
			},
		},
	}
}

func TestBuildArgs_Deterministic(t *testing.T) {
	img := &config.Image{
		Tag:        "recipe-app:latest",
		Context:    ".",
		Dockerfile: "Dockerfile",
		Target:     "runtime",
		Dev:        true,
		BuildArgs: map[string]string{
			"B_ARG": "2",
			"A_ARG": "1",
		},
	}

	want := []string{
		"build", "-t", "recipe-app:latest",
		"-f", "Dockerfile",
		"--target", "runtime",
		"--build-arg", "A_ARG=1",
		"--build-arg", "B_ARG=2",
		"--build-arg", "DEV=true",
		".",
	}
	if diff := cmp.Diff(want, BuildArgs(img, &Input{})); diff != "" {
		t.Fatalf("build args mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildArgs_CustomDevArgAndEmptyContext(t *testing.T) {
	img := &config.Image{Tag: "t:1", Dev: true, DevArg: "INSTALL_DEV"}

	args := BuildArgs(img, &Input{})
	assert.Contains(t, args, "INSTALL_DEV=true")
	assert.Equal(t, ".", args[len(args)-1])
}

func TestBuildArgs_PullAndNoCache(t *testing.T) {
	img := &config.Image{Tag: "t:1"}

	args := BuildArgs(img, &Input{Pull: true, NoCache: true})
	assert.Contains(t, args, "--pull")
	assert.Contains(t, args, "--no-cache")
}

func TestImageBuild_RunsDocker(t *testing.T) {
	runner := &shell.DryRunner{}

	err := OnRunImageBuild(context.Background(), testDeps(runner), &Input{Image: "app"})
	require.NoError(t, err)

	recorded := runner.Recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, "docker", recorded[0].Name)
	assert.Contains(t, recorded[0].Args, "recipe-app:latest")
	assert.Contains(t, recorded[0].Args, "DEV=true")
}

func TestImageBuild_UnknownImage(t *testing.T) {
	runner := &shell.DryRunner{}

	err := OnRunImageBuild(context.Background(), testDeps(runner), &Input{Image: "worker"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown image "worker"`)
	assert.Contains(t, err.Error(), "app")
}

func TestImageBuild_MissingTag(t *testing.T) {
	runner := &shell.DryRunner{}
	deps := testDeps(runner)
	deps.Images["untagged"] = &config.Image{Name: "untagged"}

	err := OnRunImageBuild(context.Background(), deps, &Input{Image: "untagged"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tag")
}
