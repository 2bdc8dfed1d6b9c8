// Package schema declares the HCL shapes of a rigfile. These structs are
// decode targets for gohcl; internal/recipe translates them into the
// format-agnostic config model.
package schema

import "github.com/hashicorp/hcl/v2"

// StepArgs holds the raw body of a step's 'arguments' block. It is kept
// undecoded so expressions can be evaluated against the run's context.
type StepArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// Step is a single invocation of a registered runner type inside a task.
type Step struct {
	RunnerType string    `hcl:"runner_type,label"`
	Name       string    `hcl:"instance_name,label"`
	Arguments  *StepArgs `hcl:"arguments,block"`
}

// Param declares a task parameter. A nil Default marks the parameter as
// required.
type Param struct {
	Name    string  `hcl:"name,label"`
	Default *string `hcl:"default,optional"`
}

// Task represents a `task` block: a named recipe of ordered steps.
type Task struct {
	Name        string   `hcl:"name,label"`
	Description string   `hcl:"description,optional"`
	DependsOn   []string `hcl:"depends_on,optional"`
	Params      []*Param `hcl:"param,block"`
	Steps       []*Step  `hcl:"step,block"`
}

// Project represents the `project` block describing the wrapped
// containerized application.
type Project struct {
	Name           string `hcl:"name"`
	ComposeFile    string `hcl:"compose,optional"`
	DefaultService string `hcl:"default_service,optional"`
}

// Image represents an `image` block: a container image build definition
// with the development-dependency toggle.
type Image struct {
	Name       string            `hcl:"name,label"`
	Tag        string            `hcl:"tag"`
	Context    string            `hcl:"context,optional"`
	Dockerfile string            `hcl:"dockerfile,optional"`
	Target     string            `hcl:"target,optional"`
	BuildArgs  map[string]string `hcl:"build_args,optional"`
	Dev        bool              `hcl:"dev,optional"`
	DevArg     string            `hcl:"dev_arg,optional"`
}

// Rigfile is the top-level structure of a single recipe file.
type Rigfile struct {
	Project *Project `hcl:"project,block"`
	Tasks   []*Task  `hcl:"task,block"`
	Images  []*Image `hcl:"image,block"`
	Body    hcl.Body `hcl:",remain"`
}
