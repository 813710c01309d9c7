package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

func TestTask_EffortHours_DefaultsWhenUnset(t *testing.T) {
	t.Parallel()

	unset := task.Task{ID: "a"}
	assert.Equal(t, 1.0, unset.EffortHours())
	assert.True(t, unset.UsedDefaultEffort())

	declared := task.Task{ID: "b", EstimatedEffort: 4.5}
	assert.Equal(t, 4.5, declared.EffortHours())
	assert.False(t, declared.UsedDefaultEffort())
}

func TestPriority_RankAndNumericRank(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, task.PriorityLow.Rank())
	require.Equal(t, 2, task.PriorityNormal.Rank())
	require.Equal(t, 3, task.PriorityHigh.Rank())
	require.Equal(t, 4, task.PriorityCritical.Rank())
	require.Equal(t, 1, task.PriorityBackground.Rank())

	// NumericRank inverts Rank so the most urgent priority sorts first
	// (lower numeric value) when used as a Sequencer group priority.
	assert.Less(t, task.PriorityCritical.NumericRank(), task.PriorityLow.NumericRank())
}

func TestType_OrderRank_StructuralChain(t *testing.T) {
	t.Parallel()

	assert.Less(t, task.TypeAnalysis.OrderRank(), task.TypeImplementation.OrderRank())
	assert.Less(t, task.TypeImplementation.OrderRank(), task.TypeTesting.OrderRank())
	assert.Less(t, task.TypeTesting.OrderRank(), task.TypeDocumentation.OrderRank())
	assert.Less(t, task.TypeDocumentation.OrderRank(), task.TypeDeployment.OrderRank())
}

func TestSet_IDsAreSortedAndDeterministic(t *testing.T) {
	t.Parallel()

	s := task.NewSet([]task.Task{{ID: "c"}, {ID: "a"}, {ID: "b"}})
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
	assert.Equal(t, 3, s.Len())

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)

	_, ok = s.Get("z")
	assert.False(t, ok)
}

func TestDuplicateIDs(t *testing.T) {
	t.Parallel()

	dupes := task.DuplicateIDs([]task.Task{{ID: "a"}, {ID: "b"}, {ID: "a"}, {ID: "a"}})
	assert.Equal(t, []string{"a"}, dupes)

	assert.Empty(t, task.DuplicateIDs([]task.Task{{ID: "a"}, {ID: "b"}}))
}

func TestDeduplicateEdges_KeepsHighestConfidenceAndDropsSelfEdges(t *testing.T) {
	t.Parallel()

	edges := []task.CandidateEdge{
		{From: "a", To: "b", Confidence: 0.3},
		{From: "a", To: "b", Confidence: 0.9},
		{From: "a", To: "a", Confidence: 1.0},
		{From: "c", To: "d", Confidence: 0.5},
	}

	out := task.DeduplicateEdges(edges)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].From)
	assert.Equal(t, "b", out[0].To)
	assert.Equal(t, 0.9, out[0].Confidence)
}

func TestFilterToKnownTasks(t *testing.T) {
	t.Parallel()

	known := task.NewSet([]task.Task{{ID: "a"}, {ID: "b"}})
	edges := []task.CandidateEdge{
		{From: "a", To: "b"},
		{From: "a", To: "missing"},
		{From: "missing", To: "b"},
	}

	out := task.FilterToKnownTasks(edges, known)
	require.Len(t, out, 1)
	assert.Equal(t, task.EdgeKey{From: "a", To: "b"}, out[0].Key())
}
