package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvoss/devrig/internal/config"
)

func noopRunner() *RegisteredRunner {
	return &RegisteredRunner{
		NewInput: func() any { return new(struct{}) },
		Fn:       func(context.Context, *Deps, any) error { return nil },
	}
}

func TestRegisterRunner_PanicsOnDuplicate(t *testing.T) {
	r := New()
	r.RegisterRunner("compose_run", noopRunner())

	assert.Panics(t, func() {
		r.RegisterRunner("compose_run", noopRunner())
	})
}

func TestRunnerTypes_Sorted(t *testing.T) {
	r := New()
	r.RegisterRunner("script", noopRunner())
	r.RegisterRunner("compose_up", noopRunner())
	r.RegisterRunner("print", noopRunner())

	assert.Equal(t, []string{"compose_up", "print", "script"}, r.RunnerTypes())
}

func TestValidateModel_UnknownRunnerType(t *testing.T) {
	r := New()
	r.RegisterRunner("compose_run", noopRunner())

	model := &config.Model{
		Tasks: map[string]*config.Task{
			"test": {
				Name:  "test",
				Steps: []*config.Step{{RunnerType: "compose_rnu", Name: "tests"}},
			},
		},
	}

	err := r.ValidateModel(model)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown runner type "compose_rnu"`)
}

func TestValidateModel_AllKnown(t *testing.T) {
	r := New()
	r.RegisterRunner("compose_run", noopRunner())

	model := &config.Model{
		Tasks: map[string]*config.Task{
			"test": {
				Name:  "test",
				Steps: []*config.Step{{RunnerType: "compose_run", Name: "tests"}},
			},
		},
	}

	require.NoError(t, r.ValidateModel(model))
}
