// Package analyzer implements the core's dependency inference component: it
// inspects a task.Set and emits candidate dependency edges annotated with
// type, confidence, blocking flag, and estimated delay (spec §4.1).
//
// The five inference passes (explicit, implicit, resource, temporal,
// priority) run in the fixed order the specification mandates, so that
// Analyze is a pure, deterministic function of (tasks, Config) — Testable
// Property 1.
package analyzer

import (
	"time"

	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

// Config holds the Analyzer's tunable weights and thresholds. Every field
// has a documented default (see DefaultConfig); Option values produced by
// With* constructors mutate a Config before it is frozen into an Analyzer,
// grounded on the teacher's builder.BuilderOption / core.GraphOption
// functional-options pattern.
type Config struct {
	// EnableImplicit toggles the implicit-detection pass (§4.1 step 2).
	EnableImplicit bool

	// MaxChainLength bounds the longest circular declared-dependency chain
	// the Manager will accept before rejecting input as InvalidInput.
	// Acyclic chains are not limited by it.
	MaxChainLength int

	// Per-type weight factors in [0,1], scaling confidence for each edge
	// type the Analyzer can emit.
	WeightExplicit float64
	WeightImplicit float64
	WeightResource float64
	WeightTemporal float64

	// Sensitivity thresholds in [0,1]. SensitivitySemantic is the implicit
	// pass's emission threshold; SensitivityKeyword and
	// SensitivityStructural are stored but not read by any pass.
	SensitivityKeyword    float64
	SensitivitySemantic   float64
	SensitivityStructural float64
}

// DefaultConfig returns the Analyzer's documented defaults: implicit
// detection enabled, a generous chain length, full-weight explicit edges,
// and moderate weights/thresholds elsewhere.
func DefaultConfig() Config {
	return Config{
		EnableImplicit:        true,
		MaxChainLength:        15,
		WeightExplicit:        1.0,
		WeightImplicit:        0.7,
		WeightResource:        0.8,
		WeightTemporal:        0.6,
		SensitivityKeyword:    0.3,
		SensitivitySemantic:   0.5,
		SensitivityStructural: 0.3,
	}
}

// Option mutates a Config before it is frozen into an Analyzer.
type Option func(*Config)

// WithImplicitDetection toggles the implicit-detection pass.
func WithImplicitDetection(enabled bool) Option {
	return func(c *Config) { c.EnableImplicit = enabled }
}

// WithMaxChainLength overrides MaxChainLength. Values <= 0 are ignored.
func WithMaxChainLength(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxChainLength = n
		}
	}
}

// WithWeights overrides the four per-type weight factors in one call.
// Any value outside [0,1] is clamped.
func WithWeights(explicitW, implicitW, resourceW, temporalW float64) Option {
	return func(c *Config) {
		c.WeightExplicit = task.ClampConfidence(explicitW)
		c.WeightImplicit = task.ClampConfidence(implicitW)
		c.WeightResource = task.ClampConfidence(resourceW)
		c.WeightTemporal = task.ClampConfidence(temporalW)
	}
}

// WithSensitivity overrides the three sensitivity thresholds in one call.
// Any value outside [0,1] is clamped.
func WithSensitivity(keyword, semantic, structural float64) Option {
	return func(c *Config) {
		c.SensitivityKeyword = task.ClampConfidence(keyword)
		c.SensitivitySemantic = task.ClampConfidence(semantic)
		c.SensitivityStructural = task.ClampConfidence(structural)
	}
}

// Metadata reports aggregate statistics about one Analyze call.
type Metadata struct {
	AnalysisDuration  time.Duration
	TotalEdges        int
	AverageConfidence float64
}

// Result is the Analyzer's full output for one task.Set: the deduplicated
// candidate edges plus the derived independent/critical task ids, any
// detected potential cycles, and run metadata.
type Result struct {
	Edges             []task.CandidateEdge
	IndependentTasks  []string   // nothing depends on these (no incoming edges)
	CriticalTasks     []string   // source of >= 2 outgoing edges
	PotentialCircular [][]string // cycles found in the deduplicated edge set
	Metadata          Metadata
}

// Analyzer runs the five inference passes over a task.Set under a frozen
// Config. Analyzer owns no process-wide state: every Analyze call is
// independent, matching §5's "all inputs are passed in and outputs are
// returned by value."
type Analyzer struct {
	cfg Config
}

// New constructs an Analyzer, applying opts over DefaultConfig in order.
func New(opts ...Option) *Analyzer {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Analyzer{cfg: cfg}
}

// NewWithConfig constructs an Analyzer from an explicit Config, still
// applying any additional opts over it afterward.
func NewWithConfig(cfg Config, opts ...Option) *Analyzer {
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Analyzer{cfg: cfg}
}

// Config returns a copy of the Analyzer's frozen configuration.
func (a *Analyzer) Config() Config { return a.cfg }
