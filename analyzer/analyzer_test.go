package analyzer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nexus-Digital-Automations/taskgraph-core/analyzer"
	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

func TestAnalyze_ExplicitPass_LinearChain(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{ID: "A", EstimatedEffort: 1},
		{ID: "B", EstimatedEffort: 1, Dependencies: []string{"A"}},
		{ID: "C", EstimatedEffort: 1, Dependencies: []string{"B"}},
	}

	a := analyzer.New()
	result, err := a.Analyze(context.Background(), tasks)
	require.NoError(t, err)

	var found []string
	for _, e := range result.Edges {
		if e.Type == task.EdgeExplicit {
			found = append(found, e.From+"->"+e.To)
		}
	}
	assert.Contains(t, found, "A->B")
	assert.Contains(t, found, "B->C")
	assert.Contains(t, result.IndependentTasks, "A")
}

func TestAnalyze_ExplicitPass_DropsUnresolvableReferences(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{ID: "A", Dependencies: []string{"ghost"}},
	}

	a := analyzer.New()
	result, err := a.Analyze(context.Background(), tasks)
	require.NoError(t, err)
	assert.Empty(t, result.Edges)
}

func TestAnalyze_ResourcePass_OrdersByPriority(t *testing.T) {
	// Scenario S4: resource contention emits edges ordered critical->high->normal.
	t.Parallel()

	tasks := []task.Task{
		{ID: "A", Priority: task.PriorityCritical, RequiredCapabilities: []string{"database"}},
		{ID: "B", Priority: task.PriorityHigh, RequiredCapabilities: []string{"database"}},
		{ID: "C", Priority: task.PriorityNormal, RequiredCapabilities: []string{"database"}},
	}

	a := analyzer.New(analyzer.WithImplicitDetection(false))
	result, err := a.Analyze(context.Background(), tasks)
	require.NoError(t, err)

	var resourceEdges []task.CandidateEdge
	for _, e := range result.Edges {
		if e.Type == task.EdgeResource {
			resourceEdges = append(resourceEdges, e)
		}
	}
	require.Len(t, resourceEdges, 2)
	assert.Equal(t, "A", resourceEdges[0].From)
	assert.Equal(t, "B", resourceEdges[0].To)
	assert.Equal(t, "B", resourceEdges[1].From)
	assert.Equal(t, "C", resourceEdges[1].To)
}

func TestAnalyze_PriorityPass_EmitsNonBlockingInversionEdge(t *testing.T) {
	// Scenario S3 setup: A low priority, B critical priority depending on A.
	t.Parallel()

	tasks := []task.Task{
		{ID: "A", Priority: task.PriorityLow},
		{ID: "B", Priority: task.PriorityCritical, Dependencies: []string{"A"}},
	}

	a := analyzer.New(analyzer.WithImplicitDetection(false))
	result, err := a.Analyze(context.Background(), tasks)
	require.NoError(t, err)

	var priorityEdges []task.CandidateEdge
	for _, e := range result.Edges {
		if e.Type == task.EdgePriority {
			priorityEdges = append(priorityEdges, e)
		}
	}
	require.Len(t, priorityEdges, 1)
	assert.Equal(t, "B", priorityEdges[0].From)
	assert.Equal(t, "A", priorityEdges[0].To)
	assert.False(t, priorityEdges[0].Blocking)
}

func TestAnalyze_TemporalPass_LinksDeadlinesWithinWindow(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{ID: "A", Deadline: &task.Time{Unix: 0}},
		{ID: "B", Deadline: &task.Time{Unix: 3600 * 10}}, // 10h later, within window
		{ID: "C", Deadline: &task.Time{Unix: 3600 * 100}}, // far later
	}

	a := analyzer.New(analyzer.WithImplicitDetection(false))
	result, err := a.Analyze(context.Background(), tasks)
	require.NoError(t, err)

	var temporalEdges []task.CandidateEdge
	for _, e := range result.Edges {
		if e.Type == task.EdgeTemporal {
			temporalEdges = append(temporalEdges, e)
		}
	}
	require.Len(t, temporalEdges, 1)
	assert.Equal(t, "A", temporalEdges[0].From)
	assert.Equal(t, "B", temporalEdges[0].To)
}

func TestAnalyze_ImplicitPass_FeatureRelationship(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{ID: "main", Title: "Build checkout flow"},
		{ID: "support", Title: "Add payment webhook", MainTaskID: "main"},
	}

	a := analyzer.New()
	result, err := a.Analyze(context.Background(), tasks)
	require.NoError(t, err)

	var implicitEdges []task.CandidateEdge
	for _, e := range result.Edges {
		if e.Type == task.EdgeImplicit {
			implicitEdges = append(implicitEdges, e)
		}
	}
	assert.NotEmpty(t, implicitEdges)
}

func TestAnalyze_IsDeterministic(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{
		{ID: "A", Priority: task.PriorityHigh, RequiredCapabilities: []string{"api"}},
		{ID: "B", Priority: task.PriorityLow, Dependencies: []string{"A"}, RequiredCapabilities: []string{"api"}},
		{ID: "C", Priority: task.PriorityCritical, FeatureID: "f1"},
		{ID: "D", FeatureID: "f1"},
	}

	a := analyzer.New()
	r1, err := a.Analyze(context.Background(), tasks)
	require.NoError(t, err)
	r2, err := a.Analyze(context.Background(), tasks)
	require.NoError(t, err)

	assert.Equal(t, r1.Edges, r2.Edges)
	assert.Equal(t, r1.IndependentTasks, r2.IndependentTasks)
	assert.Equal(t, r1.CriticalTasks, r2.CriticalTasks)
}

func TestAnalyze_DetectsPotentialCircular(t *testing.T) {
	// Scenario S2 setup.
	t.Parallel()

	tasks := []task.Task{
		{ID: "A", Dependencies: []string{"B"}},
		{ID: "B", Dependencies: []string{"A"}},
	}

	a := analyzer.New(analyzer.WithImplicitDetection(false))
	result, err := a.Analyze(context.Background(), tasks)
	require.NoError(t, err)
	require.Len(t, result.PotentialCircular, 1)
	assert.ElementsMatch(t, []string{"A", "B"}, result.PotentialCircular[0])
}

func TestAnalyze_RespectsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := analyzer.New()
	_, err := a.Analyze(ctx, []task.Task{{ID: "A"}})
	require.Error(t, err)
}
