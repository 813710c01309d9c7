// Package manager implements the core's orchestration layer: it owns an
// Analyzer and a Sequencer, caches built graphs and generated sequences by
// task-set fingerprint, and exposes the six public entry points
// collaborators use instead of reaching into the lower packages directly
// (spec §4.4, §6).
package manager

import (
	"log/slog"

	"github.com/Nexus-Digital-Automations/taskgraph-core/analyzer"
	"github.com/Nexus-Digital-Automations/taskgraph-core/sequencer"
)

// Config holds everything needed to construct a Manager: the nested
// Analyzer/Sequencer configurations, the two LRU cache sizes, and the
// realtime-monitoring flag the configuration presets name. Logger is
// optional; a nil Logger installs a discard handler (see New).
type Config struct {
	Analyzer  analyzer.Config
	Sequencer sequencer.Config

	GraphCacheSize    int
	SequenceCacheSize int

	// EnableRealtimeMonitoring is accepted for preset compatibility
	// (spec §6's "high-performance" preset sets it off) but is always a
	// no-op: live monitoring dashboards are explicitly out of scope
	// (spec.md §1 Non-goals: "UI/dashboard").
	EnableRealtimeMonitoring bool

	Logger *slog.Logger
}

// DefaultConfig returns a Config equivalent to pairing
// analyzer.DefaultConfig and sequencer.DefaultConfig with modest cache
// sizes and realtime monitoring left on (the harmless default, since the
// flag is a no-op).
func DefaultConfig() Config {
	return Config{
		Analyzer:                 analyzer.DefaultConfig(),
		Sequencer:                sequencer.DefaultConfig(),
		GraphCacheSize:           100,
		SequenceCacheSize:        100,
		EnableRealtimeMonitoring: true,
	}
}

// HighPerformancePreset implements spec §6's "high-performance" preset:
// implicit detection off, a short chain limit, priorityFirst strategy, a
// generous parallel-group cap, realtime monitoring off, and a small cache.
func HighPerformancePreset() Config {
	cfg := DefaultConfig()
	cfg.Analyzer.EnableImplicit = false
	cfg.Analyzer.MaxChainLength = 8
	cfg.Sequencer.Strategy = sequencer.StrategyPriorityFirst
	cfg.Sequencer.MaxParallelGroups = 12
	cfg.EnableRealtimeMonitoring = false
	cfg.GraphCacheSize = 50
	cfg.SequenceCacheSize = 50

	return cfg
}

// ComprehensivePreset implements spec §6's "comprehensive" preset: implicit
// detection on, a generous chain limit, criticalPath strategy, a moderate
// parallel-group cap, a high confidence floor, and a large cache.
func ComprehensivePreset() Config {
	cfg := DefaultConfig()
	cfg.Analyzer.EnableImplicit = true
	cfg.Analyzer.MaxChainLength = 20
	cfg.Sequencer.Strategy = sequencer.StrategyCriticalPath
	cfg.Sequencer.MaxParallelGroups = 8
	cfg.Sequencer.MinimumConfidenceThreshold = 0.8
	cfg.GraphCacheSize = 200
	cfg.SequenceCacheSize = 200

	return cfg
}

// ResourceOptimizedPreset implements spec §6's "resource-optimized" preset.
func ResourceOptimizedPreset() Config {
	cfg := DefaultConfig()
	cfg.Analyzer.EnableImplicit = true
	cfg.Analyzer.MaxChainLength = 12
	cfg.Sequencer.Strategy = sequencer.StrategyResourceOptimized
	cfg.Sequencer.MaxParallelGroups = 6
	cfg.GraphCacheSize = 100
	cfg.SequenceCacheSize = 100

	return cfg
}

// QualityFocusedPreset implements spec §6's "quality-focused" preset: the
// widest chain limit, criticalPath strategy, the tightest parallel-group
// cap, and the highest confidence floor.
func QualityFocusedPreset() Config {
	cfg := DefaultConfig()
	cfg.Analyzer.EnableImplicit = true
	cfg.Analyzer.MaxChainLength = 25
	cfg.Sequencer.Strategy = sequencer.StrategyCriticalPath
	cfg.Sequencer.MaxParallelGroups = 5
	cfg.Sequencer.MinimumConfidenceThreshold = 0.9
	cfg.GraphCacheSize = 150
	cfg.SequenceCacheSize = 150

	return cfg
}

// Listener is the callback set collaborators supply at New to observe the
// events spec §6 names. Any field left nil is simply never invoked;
// OnLearningInsight is reserved and never called internally since learning
// models are an explicit Non-goal (spec.md §1).
type Listener struct {
	OnAnalysisCompleted   func(analyzer.Result)
	OnSequenceGenerated   func(sequencer.Sequence)
	OnConflictDetected    func(sequencer.Conflict)
	OnConflictResolved    func(sequencer.Resolution)
	OnOptimizationApplied func(sequencer.Sequence)
	OnCacheHit            func(cache string, fp Fingerprint)
	OnCacheMiss           func(cache string, fp Fingerprint)
	OnLearningInsight     func(insight any)
}

func (l Listener) emitAnalysisCompleted(r analyzer.Result) {
	if l.OnAnalysisCompleted != nil {
		l.OnAnalysisCompleted(r)
	}
}

func (l Listener) emitSequenceGenerated(s sequencer.Sequence) {
	if l.OnSequenceGenerated != nil {
		l.OnSequenceGenerated(s)
	}
}

func (l Listener) emitConflictDetected(c sequencer.Conflict) {
	if l.OnConflictDetected != nil {
		l.OnConflictDetected(c)
	}
}

func (l Listener) emitConflictResolved(r sequencer.Resolution) {
	if l.OnConflictResolved != nil {
		l.OnConflictResolved(r)
	}
}

func (l Listener) emitOptimizationApplied(s sequencer.Sequence) {
	if l.OnOptimizationApplied != nil {
		l.OnOptimizationApplied(s)
	}
}

func (l Listener) emitCacheHit(cache string, fp Fingerprint) {
	if l.OnCacheHit != nil {
		l.OnCacheHit(cache, fp)
	}
}

func (l Listener) emitCacheMiss(cache string, fp Fingerprint) {
	if l.OnCacheMiss != nil {
		l.OnCacheMiss(cache, fp)
	}
}
