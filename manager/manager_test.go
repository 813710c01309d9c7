package manager_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nexus-Digital-Automations/taskgraph-core/manager"
	"github.com/Nexus-Digital-Automations/taskgraph-core/sequencer"
	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
	"github.com/Nexus-Digital-Automations/taskgraph-core/taskerr"
)

func linearChainTasks() []task.Task {
	return []task.Task{
		{ID: "A", EstimatedEffort: 1},
		{ID: "B", EstimatedEffort: 1, Dependencies: []string{"A"}},
		{ID: "C", EstimatedEffort: 1, Dependencies: []string{"B"}},
	}
}

func TestManager_ResolveExecutionOrder_LinearChain(t *testing.T) {
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	order, err := m.ResolveExecutionOrder(context.Background(), linearChainTasks())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, order)
}

func TestManager_ResolveExecutionOrder_CacheHitOnSecondCall(t *testing.T) {
	// Scenario S6.
	t.Parallel()

	var hits, misses int
	m, err := manager.New(manager.DefaultConfig(), manager.Listener{
		OnCacheHit:  func(cache string, fp manager.Fingerprint) { hits++ },
		OnCacheMiss: func(cache string, fp manager.Fingerprint) { misses++ },
	})
	require.NoError(t, err)

	tasks := linearChainTasks()
	first, err := m.ResolveExecutionOrder(context.Background(), tasks)
	require.NoError(t, err)

	second, err := m.ResolveExecutionOrder(context.Background(), tasks)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Greater(t, hits, 0)
	assert.Greater(t, misses, 0)
}

func TestManager_Analyze_RejectsEmptyID(t *testing.T) {
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	_, err = m.Analyze(context.Background(), []task.Task{{ID: ""}})
	require.Error(t, err)
	assert.True(t, taskerr.Is(err, taskerr.KindInvalidInput))
}

func TestManager_Analyze_RejectsDuplicateID(t *testing.T) {
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	_, err = m.Analyze(context.Background(), []task.Task{{ID: "A"}, {ID: "A"}})
	require.Error(t, err)
	assert.True(t, taskerr.Is(err, taskerr.KindInvalidInput))
}

func TestManager_Analyze_RejectsUnresolvableDependency(t *testing.T) {
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	_, err = m.Analyze(context.Background(), []task.Task{{ID: "A", Dependencies: []string{"ghost"}}})
	require.Error(t, err)
	assert.True(t, taskerr.Is(err, taskerr.KindInvalidInput))
}

func TestManager_Analyze_RejectsExcessiveCircularChain(t *testing.T) {
	t.Parallel()

	cfg := manager.DefaultConfig()
	cfg.Analyzer.MaxChainLength = 2

	m, err := manager.New(cfg, manager.Listener{})
	require.NoError(t, err)

	tasks := []task.Task{
		{ID: "A", Dependencies: []string{"D"}},
		{ID: "B", Dependencies: []string{"A"}},
		{ID: "C", Dependencies: []string{"B"}},
		{ID: "D", Dependencies: []string{"C"}},
	}

	_, err = m.Analyze(context.Background(), tasks)
	require.Error(t, err)
	assert.True(t, taskerr.Is(err, taskerr.KindInvalidInput))
}

func TestManager_DetectCircular_SimpleCycle(t *testing.T) {
	// Scenario S2.
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	tasks := []task.Task{
		{ID: "A", Dependencies: []string{"B"}},
		{ID: "B", Dependencies: []string{"A"}},
	}

	cycles, err := m.DetectCircular(context.Background(), tasks)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []string{"A", "B"}, cycles[0])
}

func TestManager_ValidateDependencies_ReportsCritical(t *testing.T) {
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	tasks := []task.Task{
		{ID: "A", Dependencies: []string{"B"}},
		{ID: "B", Dependencies: []string{"A"}},
	}

	report, err := m.ValidateDependencies(context.Background(), tasks)
	require.NoError(t, err)
	assert.False(t, report.Valid())
}

// DetectCircular and ValidateDependencies are declared with no errors in
// spec's External Interfaces table, unlike analyze/resolveExecutionOrder/
// getParallelGroups: a dangling dependency reference or an excessively
// long circular chain must not be rejected, only reported as a finding.
func TestManager_DetectCircular_TreatsDanglingReferenceAsLegalFault(t *testing.T) {
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	tasks := []task.Task{
		{ID: "A", Dependencies: []string{"ghost"}},
	}

	cycles, err := m.DetectCircular(context.Background(), tasks)
	require.NoError(t, err)
	assert.Empty(t, cycles)
}

func TestManager_ValidateDependencies_TreatsDanglingReferenceAsLegalFault(t *testing.T) {
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	tasks := []task.Task{
		{ID: "A", Dependencies: []string{"ghost"}},
	}

	_, err = m.ValidateDependencies(context.Background(), tasks)
	require.NoError(t, err)
}

func TestManager_DetectCircular_TreatsExcessiveChainAsAFinding(t *testing.T) {
	t.Parallel()

	cfg := manager.DefaultConfig()
	cfg.Analyzer.MaxChainLength = 2

	m, err := manager.New(cfg, manager.Listener{})
	require.NoError(t, err)

	tasks := []task.Task{
		{ID: "A", Dependencies: []string{"D"}},
		{ID: "B", Dependencies: []string{"A"}},
		{ID: "C", Dependencies: []string{"B"}},
		{ID: "D", Dependencies: []string{"C"}},
	}

	cycles, err := m.DetectCircular(context.Background(), tasks)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, cycles[0])
}

func TestManager_DiagnosticEntryPoints_RejectEmptyAndDuplicateIDs(t *testing.T) {
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	_, err = m.ValidateDependencies(context.Background(), []task.Task{{ID: "A"}, {ID: "A"}})
	require.Error(t, err)
	assert.True(t, taskerr.Is(err, taskerr.KindInvalidInput))

	_, err = m.DetectCircular(context.Background(), []task.Task{{ID: ""}})
	require.Error(t, err)
	assert.True(t, taskerr.Is(err, taskerr.KindInvalidInput))
}

func TestManager_GetParallelGroups_FanOut(t *testing.T) {
	// Scenario S5.
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	tasks := []task.Task{
		{ID: "R", EstimatedEffort: 1},
		{ID: "X", EstimatedEffort: 1, Dependencies: []string{"R"}},
		{ID: "Y", EstimatedEffort: 1, Dependencies: []string{"R"}},
		{ID: "Z", EstimatedEffort: 1, Dependencies: []string{"R"}},
	}

	groups, err := m.GetParallelGroups(context.Background(), tasks)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"R"}, groups[0])
	assert.ElementsMatch(t, []string{"X", "Y", "Z"}, groups[1])
}

func TestManager_UpdateTaskDependencies_UnknownTask(t *testing.T) {
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	ok, err := m.UpdateTaskDependencies(context.Background(), "ghost", nil, linearChainTasks())
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, taskerr.Is(err, taskerr.KindUnknownTask))
}

func TestManager_UpdateTaskDependencies_KnownTaskAcknowledged(t *testing.T) {
	t.Parallel()

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{})
	require.NoError(t, err)

	ok, err := m.UpdateTaskDependencies(context.Background(), "A", []string{"B"}, linearChainTasks())
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestManager_UpdateTaskDependencies_InvalidatesOnlyAffectedFingerprint
// pins the spec §4.4 behavior "invalidates every fingerprint that
// contains the affected task id": invalidating a task from one task set
// must not evict an unrelated task set's cache entry.
func TestManager_UpdateTaskDependencies_InvalidatesOnlyAffectedFingerprint(t *testing.T) {
	t.Parallel()

	type event struct {
		cache string
		fp    manager.Fingerprint
		hit   bool
	}
	var events []event

	m, err := manager.New(manager.DefaultConfig(), manager.Listener{
		OnCacheHit:  func(cache string, fp manager.Fingerprint) { events = append(events, event{cache, fp, true}) },
		OnCacheMiss: func(cache string, fp manager.Fingerprint) { events = append(events, event{cache, fp, false}) },
	})
	require.NoError(t, err)

	affected := linearChainTasks()
	unrelated := []task.Task{
		{ID: "P", EstimatedEffort: 1},
		{ID: "Q", EstimatedEffort: 1, Dependencies: []string{"P"}},
	}

	_, err = m.ResolveExecutionOrder(context.Background(), affected)
	require.NoError(t, err)
	_, err = m.ResolveExecutionOrder(context.Background(), unrelated)
	require.NoError(t, err)

	fpOf := func(tasks []task.Task) manager.Fingerprint {
		before := len(events)
		_, genErr := m.ResolveExecutionOrder(context.Background(), tasks)
		require.NoError(t, genErr)
		require.Greater(t, len(events), before)

		return events[before].fp
	}
	affectedFP := fpOf(affected)
	unrelatedFP := fpOf(unrelated)
	require.NotEqual(t, affectedFP, unrelatedFP)

	ok, err := m.UpdateTaskDependencies(context.Background(), "A", nil, affected)
	require.NoError(t, err)
	require.True(t, ok)

	events = nil
	_, err = m.ResolveExecutionOrder(context.Background(), unrelated)
	require.NoError(t, err)
	for _, e := range events {
		assert.Truef(t, e.hit, "unrelated fingerprint %v must stay cached, got %s event for %s", e.fp, map[bool]string{true: "hit", false: "miss"}[e.hit], e.cache)
	}

	events = nil
	_, err = m.ResolveExecutionOrder(context.Background(), affected)
	require.NoError(t, err)
	sawMiss := false
	for _, e := range events {
		if !e.hit {
			sawMiss = true
		}
	}
	assert.True(t, sawMiss, "invalidated fingerprint must be recomputed, not served from cache")
}

func TestManager_Presets_HaveDistinctStrategies(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sequencer.StrategyPriorityFirst, manager.HighPerformancePreset().Sequencer.Strategy)
	assert.Equal(t, sequencer.StrategyCriticalPath, manager.ComprehensivePreset().Sequencer.Strategy)
	assert.Equal(t, sequencer.StrategyResourceOptimized, manager.ResourceOptimizedPreset().Sequencer.Strategy)
	assert.Equal(t, sequencer.StrategyCriticalPath, manager.QualityFocusedPreset().Sequencer.Strategy)
	assert.False(t, manager.HighPerformancePreset().EnableRealtimeMonitoring)
}

func TestManager_BackgroundOptimization_EmitsConflicts(t *testing.T) {
	t.Parallel()

	detected := make(chan sequencer.Conflict, 4)
	m, err := manager.New(manager.DefaultConfig(), manager.Listener{
		OnConflictDetected: func(c sequencer.Conflict) { detected <- c },
	})
	require.NoError(t, err)

	tasks := []task.Task{
		{ID: "A", Dependencies: []string{"B"}},
		{ID: "B", Dependencies: []string{"A"}},
	}

	stop, err := m.StartBackgroundOptimization(context.Background(), func() []task.Task { return tasks }, 10*time.Millisecond)
	require.NoError(t, err)
	defer stop()

	select {
	case c := <-detected:
		assert.Equal(t, sequencer.ConflictCircular, c.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for background optimization to detect the known cycle")
	}
}
