package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nexus-Digital-Automations/taskgraph-core/graph"
	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

func linearChainTasks() []task.Task {
	return []task.Task{
		{ID: "A", EstimatedEffort: 2},
		{ID: "B", EstimatedEffort: 3},
		{ID: "C", EstimatedEffort: 1},
	}
}

func linearChainEdges() []task.CandidateEdge {
	return []task.CandidateEdge{
		{From: "A", To: "B", Type: task.EdgeExplicit, Confidence: 1.0, Blocking: true},
		{From: "B", To: "C", Type: task.EdgeExplicit, Confidence: 1.0, Blocking: true},
	}
}

func TestBuild_LinearChain_LevelsAndCriticalPath(t *testing.T) {
	// Scenario S1.
	t.Parallel()

	g, err := graph.Build(linearChainTasks(), linearChainEdges())
	require.NoError(t, err)
	require.False(t, g.HasCycles())

	a, _ := g.Node("A")
	b, _ := g.Node("B")
	c, _ := g.Node("C")
	assert.Equal(t, 0, a.Level)
	assert.Equal(t, 1, b.Level)
	assert.Equal(t, 2, c.Level)

	assert.Equal(t, 0.0, a.EarliestStart)
	assert.Equal(t, 2.0, b.EarliestStart)
	assert.Equal(t, 5.0, c.EarliestStart)

	assert.True(t, a.OnCriticalPath)
	assert.True(t, b.OnCriticalPath)
	assert.True(t, c.OnCriticalPath)
	assert.Equal(t, []string{"A", "B", "C"}, g.CriticalPath())
}

func TestBuild_RejectsEmptyOrDuplicateIDs(t *testing.T) {
	t.Parallel()

	_, err := graph.Build([]task.Task{{ID: ""}}, nil)
	require.Error(t, err)

	_, err = graph.Build([]task.Task{{ID: "A"}, {ID: "A"}}, nil)
	require.Error(t, err)
}

func TestBuild_SimpleCycle_DetectedWithBreakOptions(t *testing.T) {
	// Scenario S2.
	t.Parallel()

	tasks := []task.Task{{ID: "A"}, {ID: "B"}}
	edges := []task.CandidateEdge{
		{From: "A", To: "B", Type: task.EdgeExplicit, Confidence: 0.9, Blocking: true},
		{From: "B", To: "A", Type: task.EdgeExplicit, Confidence: 0.5, Blocking: false},
	}

	g, err := graph.Build(tasks, edges)
	require.NoError(t, err)
	require.True(t, g.HasCycles())

	cycles := g.DetectCycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"A", "B"}, cycles[0].Members)
	require.Len(t, cycles[0].BreakOptions, 2)
	// Lower-impact (lower confidence, non-blocking) edge should sort first.
	assert.Equal(t, task.EdgeKey{From: "B", To: "A"}, cycles[0].BreakOptions[0].Edge)
	assert.Less(t, cycles[0].BreakOptions[0].Impact, cycles[0].BreakOptions[1].Impact)
}

func TestGraph_RemoveEdge_ThenRebuildBreaksCycle(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{{ID: "A"}, {ID: "B"}}
	edges := []task.CandidateEdge{
		{From: "A", To: "B", Type: task.EdgeExplicit, Confidence: 0.9, Blocking: true},
		{From: "B", To: "A", Type: task.EdgeExplicit, Confidence: 0.5, Blocking: false},
	}

	g, err := graph.Build(tasks, edges)
	require.NoError(t, err)

	best := g.DetectCycles()[0].BreakOptions[0]
	reduced := g.EdgesWithout(best.Edge)

	g2, err := graph.Build(g.Tasks(), reduced)
	require.NoError(t, err)
	assert.False(t, g2.HasCycles())
}

func TestGraph_RemoveEdge_ReportsAbsence(t *testing.T) {
	t.Parallel()

	g, err := graph.Build(linearChainTasks(), linearChainEdges())
	require.NoError(t, err)

	assert.False(t, g.RemoveEdge("C", "A"))
	assert.True(t, g.RemoveEdge("A", "B"))
}

func TestGraph_Validate_FlagsOrphanAndFanOut(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{{ID: "hub"}, {ID: "lonely"}}
	for i := 0; i < 6; i++ {
		tasks = append(tasks, task.Task{ID: "leaf" + string(rune('A'+i))})
	}

	var edges []task.CandidateEdge
	for i := 0; i < 6; i++ {
		edges = append(edges, task.CandidateEdge{
			From: "hub", To: "leaf" + string(rune('A'+i)),
			Type: task.EdgeExplicit, Confidence: 0.5, Blocking: false,
		})
	}

	g, err := graph.Build(tasks, edges)
	require.NoError(t, err)

	report := g.Validate()
	var kinds []graph.IssueKind
	for _, iss := range report.Issues {
		kinds = append(kinds, iss.Kind)
	}
	assert.Contains(t, kinds, graph.IssueOrphanedNode)
	assert.Contains(t, kinds, graph.IssueExcessiveFanOut)
	assert.True(t, report.Valid())
}

func TestGraph_Validate_CircularMakesReportInvalid(t *testing.T) {
	t.Parallel()

	tasks := []task.Task{{ID: "A"}, {ID: "B"}}
	edges := []task.CandidateEdge{
		{From: "A", To: "B", Type: task.EdgeExplicit, Confidence: 0.9, Blocking: true},
		{From: "B", To: "A", Type: task.EdgeExplicit, Confidence: 0.5, Blocking: false},
	}

	g, err := graph.Build(tasks, edges)
	require.NoError(t, err)

	report := g.Validate()
	assert.False(t, report.Valid())
}

func TestGraph_Validate_IsIdempotent(t *testing.T) {
	// Testable Property 6.
	t.Parallel()

	g, err := graph.Build(linearChainTasks(), linearChainEdges())
	require.NoError(t, err)

	r1 := g.Validate()
	r2 := g.Validate()
	assert.Equal(t, r1, r2)
}

func TestGraph_Stats_MatchesValidateMetrics(t *testing.T) {
	t.Parallel()

	g, err := graph.Build(linearChainTasks(), linearChainEdges())
	require.NoError(t, err)

	assert.Equal(t, g.Validate().Metrics, g.Stats())
}

func TestFindCycles_NoCycleInLinearChain(t *testing.T) {
	t.Parallel()

	cycles := graph.FindCycles([]string{"A", "B", "C"}, linearChainEdges())
	assert.Empty(t, cycles)
}

func TestFindCycles_SelfLoopCountsAsCycle(t *testing.T) {
	t.Parallel()

	edges := []task.CandidateEdge{{From: "A", To: "A", Type: task.EdgeExplicit}}
	cycles := graph.FindCycles([]string{"A"}, edges)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"A"}, cycles[0])
}

func TestArcWeight_BlockingBoostIsCapped(t *testing.T) {
	t.Parallel()

	w := graph.ArcWeight(task.CandidateEdge{Confidence: 1.0, Type: task.EdgeExplicit, Blocking: true})
	assert.Equal(t, 1.0, w)
}
