package sequencer

import (
	"context"

	"github.com/Nexus-Digital-Automations/taskgraph-core/graph"
	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
	"github.com/Nexus-Digital-Automations/taskgraph-core/taskerr"
)

// defaultConfidenceCap is the ceiling a Sequence's confidence is held to
// whenever any input task relied on the placeholder effort default (spec §9).
const defaultConfidenceCap = 0.8

// Generate runs the Sequencer's four-stage pipeline over a built Graph and
// its originating tasks (spec §4.3): conflict detection, optional conflict
// resolution, strategy-driven group construction, and an optimization merge
// pass. An empty task set returns the degenerate empty sequence with
// confidence 1.0, matching §4.3's "empty task set ⇒ empty sequence" failure
// mode.
func (s *Sequencer) Generate(ctx context.Context, g *graph.Graph, tasks []task.Task, cfg Config) (Sequence, error) {
	if err := ctx.Err(); err != nil {
		return Sequence{}, taskerr.New(taskerr.KindCancelled, "sequencer.Generate", err.Error())
	}

	known := task.NewSet(tasks)
	if known.Len() == 0 {
		return Sequence{Strategy: cfg.Strategy.String(), Confidence: 1.0}, nil
	}

	conflicts := detectConflicts(g, known)

	resolutions, degraded := resolveWithTimeout(ctx, conflicts, cfg)
	resolutions = filterByConfidence(resolutions, cfg.MinimumConfidenceThreshold)

	if err := ctx.Err(); err != nil {
		return Sequence{}, taskerr.New(taskerr.KindCancelled, "sequencer.Generate", err.Error())
	}

	groups := applyStrategy(g, cfg.Strategy)
	if !degraded {
		groups = optimize(groups, cfg)
	}

	total, maxConcurrency, resourceEfficiency, confidence := computeMetrics(groups)
	if usedDefaultEffort(tasks) && confidence > defaultConfidenceCap {
		confidence = defaultConfidenceCap
	}

	return Sequence{
		Groups:             groups,
		TotalEstimatedTime: total,
		MaxConcurrency:     maxConcurrency,
		ResourceEfficiency: resourceEfficiency,
		CriticalPathTasks:  g.CriticalPath(),
		Strategy:           cfg.Strategy.String(),
		Confidence:         confidence,
		Degraded:           degraded,
		Conflicts:          conflicts,
		Resolutions:        resolutions,
	}, nil
}

// filterByConfidence drops resolutions below cfg.MinimumConfidenceThreshold:
// a proposed fix the Sequencer itself isn't confident in is surfaced as an
// unresolved conflict rather than acted on.
func filterByConfidence(resolutions []Resolution, threshold float64) []Resolution {
	if threshold <= 0 {
		return resolutions
	}

	var out []Resolution
	for _, r := range resolutions {
		if r.Confidence >= threshold {
			out = append(out, r)
		}
	}

	return out
}

// resolveWithTimeout honors cfg.ConflictResolutionTimeout, wrapping only the
// conflict-resolution stage (spec §4.3 ambient addition). When
// EnableAutoConflictResolution is off it returns immediately with no
// resolutions and no degradation. On timeout it reports degraded=true so
// Generate skips the optimization pass and marks the returned sequence
// accordingly (spec §7 Timeout recovery).
func resolveWithTimeout(ctx context.Context, conflicts []Conflict, cfg Config) ([]Resolution, bool) {
	if !cfg.EnableAutoConflictResolution {
		return nil, false
	}

	rctx, cancel := context.WithTimeout(ctx, cfg.ConflictResolutionTimeout)
	defer cancel()

	done := make(chan []Resolution, 1)
	go func() { done <- resolveConflicts(conflicts) }()

	select {
	case resolutions := <-done:
		return resolutions, false
	case <-rctx.Done():
		return nil, true
	}
}
