package dag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvoss/devrig/internal/config"
)

func modelWithTasks(tasks ...*config.Task) *config.Model {
	m := &config.Model{Tasks: make(map[string]*config.Task)}
	for _, t := range tasks {
		m.Tasks[t.Name] = t
	}
	return m
}

func step(name string) *config.Step {
	return &config.Step{RunnerType: "print", Name: name}
}

func TestBuild_SelectsOnlyTheClosure(t *testing.T) {
	model := modelWithTasks(
		&config.Task{Name: "build", Steps: []*config.Step{step("s")}},
		&config.Task{Name: "test", DependsOn: []string{"build"}, Steps: []*config.Step{step("s")}},
		&config.Task{Name: "unrelated", Steps: []*config.Step{step("s")}},
	)

	graph, err := Build(context.Background(), model, "test")
	require.NoError(t, err)

	assert.Len(t, graph.Nodes, 2)
	assert.Contains(t, graph.Nodes, "build")
	assert.Contains(t, graph.Nodes, "test")
	assert.NotContains(t, graph.Nodes, "unrelated")
}

func TestBuild_LinksEdgesAndCounters(t *testing.T) {
	model := modelWithTasks(
		&config.Task{Name: "a", Steps: []*config.Step{step("s")}},
		&config.Task{Name: "b", Steps: []*config.Step{step("s")}},
		&config.Task{Name: "c", DependsOn: []string{"a", "b"}, Steps: []*config.Step{step("s")}},
	)

	graph, err := Build(context.Background(), model, "c")
	require.NoError(t, err)

	c := graph.Nodes["c"]
	assert.Equal(t, int32(2), c.DepCount())
	assert.Contains(t, c.Deps, "a")
	assert.Contains(t, c.Deps, "b")
	assert.Contains(t, graph.Nodes["a"].Dependents, "c")
}

func TestBuild_UnknownTarget(t *testing.T) {
	model := modelWithTasks(&config.Task{Name: "test", Steps: []*config.Step{step("s")}})

	_, err := Build(context.Background(), model, "tset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown task "tset"`)
	assert.Contains(t, err.Error(), "test")
}

func TestBuild_DetectsCycle(t *testing.T) {
	model := modelWithTasks(
		&config.Task{Name: "a", DependsOn: []string{"b"}, Steps: []*config.Step{step("s")}},
		&config.Task{Name: "b", DependsOn: []string{"a"}, Steps: []*config.Step{step("s")}},
	)

	_, err := Build(context.Background(), model, "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuild_DiamondIsNotACycle(t *testing.T) {
	model := modelWithTasks(
		&config.Task{Name: "base", Steps: []*config.Step{step("s")}},
		&config.Task{Name: "left", DependsOn: []string{"base"}, Steps: []*config.Step{step("s")}},
		&config.Task{Name: "right", DependsOn: []string{"base"}, Steps: []*config.Step{step("s")}},
		&config.Task{Name: "top", DependsOn: []string{"left", "right"}, Steps: []*config.Step{step("s")}},
	)

	graph, err := Build(context.Background(), model, "top")
	require.NoError(t, err)
	assert.Len(t, graph.Nodes, 4)
}
