package recipe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"

	"github.com/dvoss/devrig/internal/config"
)

// ResolveParams merges command-line overrides over a task's declared
// parameter defaults. Overrides for parameters the task does not declare are
// ignored here; the application validates them against the whole task
// closure. A required parameter with no override is an error.
func ResolveParams(task *config.Task, overrides map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(task.Params))
	for _, p := range task.Params {
		if v, ok := overrides[p.Name]; ok {
			resolved[p.Name] = v
			continue
		}
		if p.Required {
			return nil, fmt.Errorf("task %q requires parameter %q (pass %s=VALUE)", task.Name, p.Name, p.Name)
		}
		resolved[p.Name] = p.Default
	}
	return resolved, nil
}

// BuildEvalContext assembles the HCL evaluation context a task's step
// arguments are decoded against: resolved parameters, the process
// environment, the project block, and any passthrough arguments.
func BuildEvalContext(project *config.Project, params map[string]string, extraArgs []string) *hcl.EvalContext {
	vars := map[string]cty.Value{
		"param": stringMapVal(params),
		"env":   envVal(),
		"args":  cty.StringVal(strings.Join(extraArgs, " ")),
	}

	projectVals := map[string]cty.Value{
		"name":            cty.StringVal(""),
		"compose":         cty.StringVal(""),
		"default_service": cty.StringVal(""),
	}
	if project != nil {
		projectVals["name"] = cty.StringVal(project.Name)
		projectVals["compose"] = cty.StringVal(project.ComposeFile)
		projectVals["default_service"] = cty.StringVal(project.DefaultService)
	}
	vars["project"] = cty.ObjectVal(projectVals)

	return &hcl.EvalContext{Variables: vars}
}

// DecodeArguments decodes a step's raw arguments body into the runner's
// typed input struct. A step with no arguments block decodes against an
// empty body so optional inputs fall back to their zero values.
func DecodeArguments(ctx context.Context, body hcl.Body, evalCtx *hcl.EvalContext, target any) error {
	if body == nil {
		body = hcl.EmptyBody()
	}
	if diags := gohcl.DecodeBody(body, evalCtx, target); diags.HasErrors() {
		return fmt.Errorf("failed to decode step arguments: %s", diags.Error())
	}
	return nil
}

func stringMapVal(m map[string]string) cty.Value {
	if len(m) == 0 {
		return cty.EmptyObjectVal
	}
	vals := make(map[string]cty.Value, len(m))
	for k, v := range m {
		vals[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vals)
}

func envVal() cty.Value {
	env := os.Environ()
	vals := make(map[string]cty.Value, len(env))
	for _, e := range env {
		if k, v, ok := strings.Cut(e, "="); ok {
			vals[k] = cty.StringVal(v)
		}
	}
	if len(vals) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vals)
}
