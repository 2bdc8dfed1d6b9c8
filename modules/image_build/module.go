// Package image_build implements the image_build runner. It drives
// `docker build` from an `image` block of the rigfile, including the
// development-dependency toggle the original build script exposed as a
// build argument.
package image_build

import (
	"context"
	"fmt"
	"sort"

	"github.com/dvoss/devrig/internal/config"
	"github.com/dvoss/devrig/internal/ctxlog"
	"github.com/dvoss/devrig/internal/registry"
	"github.com/dvoss/devrig/internal/shell"
)

// defaultDevArg is the build argument toggled by an image block's `dev`
// attribute when no dev_arg is set.
const defaultDevArg = "DEV"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the image_build runner.
type Input struct {
	// Image names the `image` block to build.
	Image string `hcl:"image"`
	// Pull always attempts to pull newer base images.
	Pull bool `hcl:"pull,optional"`
	// NoCache disables the build cache.
	NoCache bool `hcl:"no_cache,optional"`
}

// BuildArgs assembles the docker build argument vector for an image
// definition. Exported for tests; the ordering of --build-arg flags is
// deterministic.
func BuildArgs(img *config.Image, in *Input) []string {
	args := []string{"build", "-t", img.Tag}

	if img.Dockerfile != "" {
		args = append(args, "-f", img.Dockerfile)
	}
	if img.Target != "" {
		args = append(args, "--target", img.Target)
	}
	if in.Pull {
		args = append(args, "--pull")
	}
	if in.NoCache {
		args = append(args, "--no-cache")
	}

	keys := make([]string, 0, len(img.BuildArgs))
	for k := range img.BuildArgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--build-arg", k+"="+img.BuildArgs[k])
	}

	if img.Dev {
		devArg := img.DevArg
		if devArg == "" {
			devArg = defaultDevArg
		}
		args = append(args, "--build-arg", devArg+"=true")
	}

	buildContext := img.Context
	if buildContext == "" {
		buildContext = "."
	}
	return append(args, buildContext)
}

// OnRunImageBuild builds a container image.
func OnRunImageBuild(ctx context.Context, deps *registry.Deps, input any) error {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)

	img, ok := deps.Images[in.Image]
	if !ok {
		known := make([]string, 0, len(deps.Images))
		for name := range deps.Images {
			known = append(known, name)
		}
		sort.Strings(known)
		return fmt.Errorf("image_build: unknown image %q (declared images: %v)", in.Image, known)
	}
	if img.Tag == "" {
		return fmt.Errorf("image_build: image %q has no tag", in.Image)
	}

	cmd := shell.Command{Name: "docker", Args: BuildArgs(img, in)}
	logger.Info("🔨 Building image.", "image", in.Image, "tag", img.Tag, "dev", img.Dev)

	if code, err := deps.Runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("image_build: docker build exited with code %d: %w", code, err)
	}
	return nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("image_build", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunImageBuild,
	})
}
