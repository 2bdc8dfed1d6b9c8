package recipe

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/dvoss/devrig/internal/config"
	"github.com/dvoss/devrig/internal/ctxlog"
	"github.com/dvoss/devrig/internal/schema"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader returns a rigfile loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load resolves, parses, and merges one or more rigfiles from path into a
// single validated config model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading rigfile.", "path", path)

	files, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl rigfiles found at %s", path)
	}
	logger.Debug("Resolved rigfiles.", "count", len(files))

	merged := &schema.Rigfile{}
	var projectFile string
	for _, file := range files {
		rf, err := decodeFile(ctx, file)
		if err != nil {
			return nil, err
		}
		if rf.Project != nil {
			if merged.Project != nil {
				return nil, fmt.Errorf("duplicate project block: declared in both %s and %s", projectFile, file)
			}
			merged.Project = rf.Project
			projectFile = file
		}
		merged.Tasks = append(merged.Tasks, rf.Tasks...)
		merged.Images = append(merged.Images, rf.Images...)
	}

	model, err := translate(merged)
	if err != nil {
		return nil, err
	}

	// A relative compose path means "next to the rigfile", not "relative to
	// wherever devrig was invoked".
	if model.Project != nil && model.Project.ComposeFile != "" && !filepath.IsAbs(model.Project.ComposeFile) {
		model.Project.ComposeFile = filepath.Join(filepath.Dir(projectFile), model.Project.ComposeFile)
	}

	if err := validate(model); err != nil {
		return nil, err
	}

	logger.Info("Rigfile loaded.", "tasks", len(model.Tasks), "images", len(model.Images))
	return model, nil
}

// decodeFile parses and decodes a single rigfile.
func decodeFile(ctx context.Context, path string) (*schema.Rigfile, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding rigfile.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse rigfile %s: %s", path, diags.Error())
	}

	var rf schema.Rigfile
	diags = gohcl.DecodeBody(file.Body, nil, &rf)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode rigfile %s: %s", path, diags.Error())
	}
	return &rf, nil
}

// translate converts the decoded HCL schema into the format-agnostic model.
func translate(rf *schema.Rigfile) (*config.Model, error) {
	model := &config.Model{
		Tasks:  make(map[string]*config.Task),
		Images: make(map[string]*config.Image),
	}

	if rf.Project != nil {
		model.Project = &config.Project{
			Name:           rf.Project.Name,
			ComposeFile:    rf.Project.ComposeFile,
			DefaultService: rf.Project.DefaultService,
		}
	}

	for _, t := range rf.Tasks {
		if _, exists := model.Tasks[t.Name]; exists {
			return nil, fmt.Errorf("duplicate task %q", t.Name)
		}
		task := &config.Task{
			Name:        t.Name,
			Description: t.Description,
			DependsOn:   t.DependsOn,
		}
		for _, p := range t.Params {
			param := &config.Param{Name: p.Name, Required: p.Default == nil}
			if p.Default != nil {
				param.Default = *p.Default
			}
			task.Params = append(task.Params, param)
		}
		for _, s := range t.Steps {
			step := &config.Step{RunnerType: s.RunnerType, Name: s.Name}
			if s.Arguments != nil {
				step.Arguments = s.Arguments.Body
			}
			task.Steps = append(task.Steps, step)
		}
		model.Tasks[t.Name] = task
	}

	for _, img := range rf.Images {
		if _, exists := model.Images[img.Name]; exists {
			return nil, fmt.Errorf("duplicate image %q", img.Name)
		}
		model.Images[img.Name] = &config.Image{
			Name:       img.Name,
			Tag:        img.Tag,
			Context:    img.Context,
			Dockerfile: img.Dockerfile,
			Target:     img.Target,
			BuildArgs:  img.BuildArgs,
			Dev:        img.Dev,
			DevArg:     img.DevArg,
		}
	}

	return model, nil
}

// validate checks the structural integrity of the model: task references
// must resolve, tasks must do something, parameter names must be unique.
func validate(model *config.Model) error {
	for name, task := range model.Tasks {
		if len(task.Steps) == 0 && len(task.DependsOn) == 0 {
			return fmt.Errorf("task %q has no steps and no dependencies", name)
		}
		for _, dep := range task.DependsOn {
			if dep == name {
				return fmt.Errorf("task %q depends on itself", name)
			}
			if _, ok := model.Tasks[dep]; !ok {
				return fmt.Errorf("task %q depends on unknown task %q", name, dep)
			}
		}
		seen := make(map[string]bool)
		for _, p := range task.Params {
			if seen[p.Name] {
				return fmt.Errorf("task %q declares parameter %q twice", name, p.Name)
			}
			seen[p.Name] = true
		}
	}
	return nil
}
