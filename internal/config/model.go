package config

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
)

// Model is the unified, format-agnostic representation of a loaded rigfile:
// the project description, every task, and every image definition.
type Model struct {
	Project *Project
	Tasks   map[string]*Task
	Images  map[string]*Image
}

// Project describes the containerized project the recipes operate on.
type Project struct {
	Name           string
	ComposeFile    string
	DefaultService string
}

// Task is a named recipe: an ordered list of steps plus the tasks it
// depends on.
type Task struct {
	Name        string
	Description string
	DependsOn   []string
	Params      []*Param
	Steps       []*Step
}

// Param declares a substitutable task parameter. A parameter without a
// default must be supplied on the command line.
type Param struct {
	Name     string
	Default  string
	Required bool
}

// Step is a single invocation of a registered runner type. Arguments stay
// as an undecoded HCL body until execution so parameter and environment
// references resolve against the run's eval context.
type Step struct {
	RunnerType string
	Name       string
	Arguments  hcl.Body
}

// Image describes a container image build, including the development
// dependency toggle carried as a build argument.
type Image struct {
	Name       string
	Tag        string
	Context    string
	Dockerfile string
	Target     string
	BuildArgs  map[string]string
	Dev        bool
	DevArg     string
}

// TaskNames returns every task name in lexical order, for stable listings.
func (m *Model) TaskNames() []string {
	names := make([]string, 0, len(m.Tasks))
	for name := range m.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Param returns the task's parameter declaration by name, or nil.
func (t *Task) Param(name string) *Param {
	for _, p := range t.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}
