// Package sequencer implements the core's Execution Sequence builder: it
// consumes a built graph.Graph plus the originating task.Task list and
// produces an ordered list of parallel groups, running conflict detection,
// optional conflict resolution, strategy-driven group construction, and a
// final optimization merge pass, in that fixed order (spec §4.3).
package sequencer

import (
	"time"

	"github.com/Nexus-Digital-Automations/taskgraph-core/graph"
)

// Strategy selects how Generate partitions a Graph's levels into parallel
// groups. Closed tagged enum, per the module's design notes.
type Strategy int

const (
	StrategyPriorityFirst Strategy = iota
	StrategyCriticalPath
	StrategyResourceOptimized
	StrategyLoadBalanced
)

var strategyNames = [...]string{"priorityFirst", "criticalPath", "resourceOptimized", "loadBalanced"}

// String renders the Strategy using its canonical camelCase name.
func (s Strategy) String() string {
	if int(s) < 0 || int(s) >= len(strategyNames) {
		return "unknown"
	}

	return strategyNames[s]
}

// Config holds the Sequencer's tunable behavior. Every field has a
// documented default (see DefaultConfig); Option values produced by With*
// constructors mutate a Config before it is frozen, mirroring the
// analyzer package's functional-options pattern.
type Config struct {
	Strategy         Strategy
	MaxParallelGroups int

	// Optimization weights in [0,1]. Only WeightTime currently drives
	// behavior (the merge pass); WeightResource and WeightQuality are
	// accepted and validated but are no-ops, reserved for later
	// specialization per spec §4.3 step 4.
	WeightTime     float64
	WeightResource float64
	WeightQuality  float64

	EnableAutoConflictResolution bool
	ConflictResolutionTimeout    time.Duration
	MinimumConfidenceThreshold   float64
}

// DefaultConfig returns the Sequencer's documented defaults: criticalPath
// strategy, a generous group cap, time-weighted optimization, automatic
// conflict resolution enabled, and a two-second resolution budget.
func DefaultConfig() Config {
	return Config{
		Strategy:                     StrategyCriticalPath,
		MaxParallelGroups:            10,
		WeightTime:                   0.5,
		WeightResource:               0.3,
		WeightQuality:                0.2,
		EnableAutoConflictResolution: true,
		ConflictResolutionTimeout:    2 * time.Second,
		MinimumConfidenceThreshold:   0.5,
	}
}

// Option mutates a Config before it is frozen into a Sequencer.
type Option func(*Config)

// WithStrategy overrides the Strategy.
func WithStrategy(s Strategy) Option {
	return func(c *Config) { c.Strategy = s }
}

// WithMaxParallelGroups overrides MaxParallelGroups. Values <= 0 are ignored.
func WithMaxParallelGroups(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxParallelGroups = n
		}
	}
}

// WithOptimizationWeights overrides the three optimization weights in one
// call. Any value outside [0,1] is clamped.
func WithOptimizationWeights(timeW, resourceW, qualityW float64) Option {
	return func(c *Config) {
		c.WeightTime = clamp01(timeW)
		c.WeightResource = clamp01(resourceW)
		c.WeightQuality = clamp01(qualityW)
	}
}

// WithAutoConflictResolution toggles automatic conflict resolution.
func WithAutoConflictResolution(enabled bool) Option {
	return func(c *Config) { c.EnableAutoConflictResolution = enabled }
}

// WithConflictResolutionTimeout overrides the wall-clock budget for the
// conflict-resolution stage. Values <= 0 are ignored.
func WithConflictResolutionTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.ConflictResolutionTimeout = d
		}
	}
}

// WithMinimumConfidenceThreshold overrides MinimumConfidenceThreshold,
// clamped to [0,1].
func WithMinimumConfidenceThreshold(v float64) Option {
	return func(c *Config) { c.MinimumConfidenceThreshold = clamp01(v) }
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}

	return v
}

// ConflictKind enumerates the five conflict categories Generate's detection
// stage can emit (spec §4.3 step 1).
type ConflictKind int

const (
	ConflictCircular ConflictKind = iota
	ConflictResourceContention
	ConflictPriorityInversion
	ConflictTemporal
	ConflictCustom
)

var conflictKindNames = [...]string{"circular", "resource-contention", "priority-inversion", "temporal", "custom"}

// String renders the ConflictKind using its canonical hyphenated name.
func (k ConflictKind) String() string {
	if int(k) < 0 || int(k) >= len(conflictKindNames) {
		return "unknown"
	}

	return conflictKindNames[k]
}

// Impact estimates the harm a Conflict causes if left unresolved (spec
// §4.3 step 1).
type Impact struct {
	TimeIncreasePercent               float64
	ResourceUtilizationDecreasePercent float64
	FailureRisk                       float64 // in [0,1]
	QualityRisk                       float64 // in [0,1]
}

// Conflict is one detected scheduling hazard. Severity reuses graph.Severity
// so both components report findings on the same scale.
type Conflict struct {
	Kind                 ConflictKind
	Severity             graph.Severity
	AffectedTaskIDs      []string
	Description          string
	SuggestedResolutions []string
	Impact               Impact
}

// ResolutionType enumerates the action a Resolution proposes (spec §4.3
// step 2).
type ResolutionType int

const (
	ResolutionReschedule ResolutionType = iota
	ResolutionPriorityAdjustment
	ResolutionDeferToBreakOptions
)

var resolutionTypeNames = [...]string{"reschedule", "priority_adjustment", "defer_to_break_options"}

// String renders the ResolutionType using its canonical snake_case name.
func (r ResolutionType) String() string {
	if int(r) < 0 || int(r) >= len(resolutionTypeNames) {
		return "unknown"
	}

	return resolutionTypeNames[r]
}

// Resolution is one proposed or applied fix for a Conflict. ExpectedImprovement
// is in hours, negative when the resolution is expected to reduce total
// estimated time (mirroring the specification's "negative ms" convention,
// scaled to this module's hour-denominated effort values).
type Resolution struct {
	Type                 ResolutionType
	Description          string
	AffectedTaskIDs      []string
	Confidence           float64
	ExpectedImprovement  float64
}

// ParallelGroup is one set of tasks safe to run concurrently (spec §3
// Execution Sequence).
type ParallelGroup struct {
	ID             string
	TaskIDs        []string
	Duration       float64            // max effort over members
	Resources      map[string]float64 // sum over members, per capability name
	Priority       int                // min numeric priority over members (lower = more urgent)
	DependsOn      []string           // group ids this group depends on
	ParallelSafety float64            // in [0,1]
}

// Sequence is the Sequencer's full output (spec §3 Execution Sequence).
type Sequence struct {
	Groups             []ParallelGroup
	TotalEstimatedTime float64
	MaxConcurrency     int
	ResourceEfficiency float64
	CriticalPathTasks  []string
	Strategy           string
	Confidence         float64

	// Degraded marks a sequence returned after the conflict-resolution
	// stage exceeded its ConflictResolutionTimeout: the pre-optimization
	// groups are returned as-is rather than failing the call (spec §7
	// Timeout recovery).
	Degraded bool

	Conflicts   []Conflict
	Resolutions []Resolution
}

// Sequencer runs the four-stage generation pipeline under a frozen Config.
// Sequencer owns no process-wide state: every Generate call is independent.
type Sequencer struct {
	cfg Config
}

// New constructs a Sequencer, applying opts over DefaultConfig in order.
func New(opts ...Option) *Sequencer {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Sequencer{cfg: cfg}
}

// NewWithConfig constructs a Sequencer from an explicit Config, still
// applying any additional opts over it afterward.
func NewWithConfig(cfg Config, opts ...Option) *Sequencer {
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Sequencer{cfg: cfg}
}

// Config returns a copy of the Sequencer's frozen configuration.
func (s *Sequencer) Config() Config { return s.cfg }
