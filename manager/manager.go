package manager

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/Nexus-Digital-Automations/taskgraph-core/analyzer"
	"github.com/Nexus-Digital-Automations/taskgraph-core/graph"
	"github.com/Nexus-Digital-Automations/taskgraph-core/sequencer"
	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
	"github.com/Nexus-Digital-Automations/taskgraph-core/taskerr"
)

// Manager orchestrates the Analyzer, Graph and Sequencer components: it
// validates input once at its own boundary, caches built graphs and
// generated sequences by Fingerprint, and emits the events spec §6 names.
// Manager exclusively owns its Analyzer and Sequencer (spec §9: no
// back-references).
type Manager struct {
	cfg Config

	analyzer  *analyzer.Analyzer
	sequencer *sequencer.Sequencer

	graphCache *lru.Cache[Fingerprint, *graph.Graph]
	seqCache   *lru.Cache[Fingerprint, *sequencer.Sequence]

	// graphGroup/seqGroup collapse concurrent cache-population races onto
	// one computation per fingerprint (spec §4.4, Testable Property 7).
	graphGroup singleflight.Group
	seqGroup   singleflight.Group

	// idxMu guards fpIndex, the reverse task-id -> fingerprint index that
	// lets UpdateTaskDependencies invalidate only the fingerprints that
	// contain the affected task id (spec §4.4), instead of purging both
	// caches in full. A fingerprint lingers in fpIndex after its cache
	// entry is evicted by ordinary LRU capacity pressure (the index is
	// only ever pruned by an explicit invalidate, never by an LRU
	// eviction callback); that costs a harmless no-op Remove on an
	// already-absent key, never an under-invalidation.
	idxMu   sync.Mutex
	fpIndex *fingerprintIndex

	listener Listener
	logger   *slog.Logger
}

// New constructs a Manager from cfg and listener. A nil Logger in cfg
// installs a discard handler so the Manager remains usable with zero
// ambient configuration.
func New(cfg Config, listener Listener) (*Manager, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	graphCacheSize := cfg.GraphCacheSize
	if graphCacheSize <= 0 {
		graphCacheSize = 1
	}
	seqCacheSize := cfg.SequenceCacheSize
	if seqCacheSize <= 0 {
		seqCacheSize = 1
	}

	graphCache, err := lru.New[Fingerprint, *graph.Graph](graphCacheSize)
	if err != nil {
		return nil, taskerr.New(taskerr.KindInvalidInput, "manager.New", err.Error())
	}
	seqCache, err := lru.New[Fingerprint, *sequencer.Sequence](seqCacheSize)
	if err != nil {
		return nil, taskerr.New(taskerr.KindInvalidInput, "manager.New", err.Error())
	}

	return &Manager{
		cfg:        cfg,
		analyzer:   analyzer.NewWithConfig(cfg.Analyzer),
		sequencer:  sequencer.NewWithConfig(cfg.Sequencer),
		graphCache: graphCache,
		seqCache:   seqCache,
		fpIndex:    newFingerprintIndex(),
		listener:   listener,
		logger:     logger,
	}, nil
}

// Analyze implements the `analyze` entry point (spec §6): runs the Analyzer
// over tasks and emits analysis_completed.
func (m *Manager) Analyze(ctx context.Context, tasks []task.Task) (analyzer.Result, error) {
	if err := validateInput("manager.Analyze", tasks, m.cfg.Analyzer.MaxChainLength); err != nil {
		return analyzer.Result{}, err
	}

	result, err := m.analyzer.Analyze(ctx, tasks)
	if err != nil {
		return analyzer.Result{}, err
	}

	m.listener.emitAnalysisCompleted(result)

	return result, nil
}

// buildGraph analyzes tasks and builds a Graph, reusing the graph cache and
// collapsing concurrent populates for the same fingerprint via singleflight.
// Caches are never populated with a partial result: on cancellation or
// analyzer/build failure, nothing is stored (spec §5).
func (m *Manager) buildGraph(ctx context.Context, tasks []task.Task) (*graph.Graph, Fingerprint, error) {
	fp := computeFingerprint(tasks, m.cfg.Sequencer.Strategy.String())

	if g, ok := m.graphCache.Get(fp); ok {
		m.listener.emitCacheHit("graph", fp)

		return g, fp, nil
	}
	m.listener.emitCacheMiss("graph", fp)

	v, err, _ := m.graphGroup.Do(strconv.FormatUint(uint64(fp), 16), func() (any, error) {
		result, analyzeErr := m.analyzer.Analyze(ctx, tasks)
		if analyzeErr != nil {
			return nil, analyzeErr
		}
		g, buildErr := graph.Build(tasks, result.Edges)
		if buildErr != nil {
			return nil, buildErr
		}
		m.graphCache.Add(fp, g)

		m.idxMu.Lock()
		m.fpIndex.record(tasks, fp)
		m.idxMu.Unlock()

		m.listener.emitAnalysisCompleted(result)

		return g, nil
	})
	if err != nil {
		return nil, fp, err
	}

	return v.(*graph.Graph), fp, nil
}

// generateSequence builds (or reuses) a Graph for tasks, then generates (or
// reuses) its Sequence, under the same cache/singleflight discipline as
// buildGraph.
func (m *Manager) generateSequence(ctx context.Context, tasks []task.Task) (*sequencer.Sequence, error) {
	g, fp, err := m.buildGraph(ctx, tasks)
	if err != nil {
		return nil, err
	}

	if seq, ok := m.seqCache.Get(fp); ok {
		m.listener.emitCacheHit("sequence", fp)

		return seq, nil
	}
	m.listener.emitCacheMiss("sequence", fp)

	v, err, _ := m.seqGroup.Do(strconv.FormatUint(uint64(fp), 16), func() (any, error) {
		seq, genErr := m.sequencer.Generate(ctx, g, tasks, m.cfg.Sequencer)
		if genErr != nil {
			return nil, genErr
		}
		m.seqCache.Add(fp, &seq)
		m.listener.emitSequenceGenerated(seq)
		for _, c := range seq.Conflicts {
			m.listener.emitConflictDetected(c)
		}
		for _, r := range seq.Resolutions {
			m.listener.emitConflictResolved(r)
		}
		if !seq.Degraded {
			m.listener.emitOptimizationApplied(seq)
		}

		return &seq, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*sequencer.Sequence), nil
}

// ResolveExecutionOrder implements the `resolveExecutionOrder` entry point
// (spec §6): flattens the generated Sequence's groups in order into one
// ordered task id list.
func (m *Manager) ResolveExecutionOrder(ctx context.Context, tasks []task.Task) ([]string, error) {
	if err := validateInput("manager.ResolveExecutionOrder", tasks, m.cfg.Analyzer.MaxChainLength); err != nil {
		return nil, err
	}

	seq, err := m.generateSequence(ctx, tasks)
	if err != nil {
		return nil, err
	}

	var order []string
	for _, grp := range seq.Groups {
		order = append(order, grp.TaskIDs...)
	}

	return order, nil
}

// DetectCircular implements the `detectCircular` entry point (spec §6).
func (m *Manager) DetectCircular(ctx context.Context, tasks []task.Task) ([][]string, error) {
	if err := validateIdentities("manager.DetectCircular", tasks); err != nil {
		return nil, err
	}

	g, _, err := m.buildGraph(ctx, tasks)
	if err != nil {
		return nil, err
	}

	var cycles [][]string
	for _, c := range g.DetectCycles() {
		cycles = append(cycles, c.Members)
	}

	return cycles, nil
}

// ValidateDependencies implements the `validateDependencies` entry point
// (spec §6).
func (m *Manager) ValidateDependencies(ctx context.Context, tasks []task.Task) (graph.Report, error) {
	if err := validateIdentities("manager.ValidateDependencies", tasks); err != nil {
		return graph.Report{}, err
	}

	g, _, err := m.buildGraph(ctx, tasks)
	if err != nil {
		return graph.Report{}, err
	}

	return g.Validate(), nil
}

// GetParallelGroups implements the `getParallelGroups` entry point
// (spec §6).
func (m *Manager) GetParallelGroups(ctx context.Context, tasks []task.Task) ([][]string, error) {
	if err := validateInput("manager.GetParallelGroups", tasks, m.cfg.Analyzer.MaxChainLength); err != nil {
		return nil, err
	}

	seq, err := m.generateSequence(ctx, tasks)
	if err != nil {
		return nil, err
	}

	groups := make([][]string, 0, len(seq.Groups))
	for _, grp := range seq.Groups {
		groups = append(groups, grp.TaskIDs)
	}

	return groups, nil
}

// UpdateTaskDependencies implements the `updateTaskDependencies` entry
// point (spec §6). The core persists nothing across calls (spec §3
// Lifecycles), so there is no stored task to mutate in place; the method's
// role is to acknowledge a known id and invalidate every cached graph/
// sequence fingerprint that was computed over a task set containing
// taskID (spec §4.4: "invalidates every fingerprint that contains the
// affected task id"), via the reverse index built in buildGraph. Unlike
// the other five entry points, newDependencyIDs is not itself validated
// against tasks: the caller is expected to re-submit the corrected task
// set on its next call, and that call's own validateInput will catch
// anything unresolvable.
func (m *Manager) UpdateTaskDependencies(ctx context.Context, taskID string, newDependencyIDs []string, tasks []task.Task) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, taskerr.New(taskerr.KindCancelled, "manager.UpdateTaskDependencies", err.Error())
	}

	if !task.NewSet(tasks).Has(taskID) {
		return false, taskerr.New(taskerr.KindUnknownTask, "manager.UpdateTaskDependencies", "unknown task id: "+taskID)
	}

	m.idxMu.Lock()
	affected := m.fpIndex.invalidate(taskID)
	m.idxMu.Unlock()

	for _, fp := range affected {
		m.graphCache.Remove(fp)
		m.seqCache.Remove(fp)
	}

	return true, nil
}
