package analyzer

import (
	"context"
	"time"

	"github.com/Nexus-Digital-Automations/taskgraph-core/graph"
	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
	"github.com/Nexus-Digital-Automations/taskgraph-core/taskerr"
)

// Analyze runs the five inference passes in the fixed order spec §4.1
// mandates (explicit, implicit, resource, temporal, priority), then
// deduplicates, filters, and scans for cycles (spec §4.2 Tarjan SCC) to
// populate PotentialCircular. It honors ctx between passes, one of the
// core's three documented suspension points (spec §5).
func (a *Analyzer) Analyze(ctx context.Context, tasks []task.Task) (Result, error) {
	start := time.Now()
	known := task.NewSet(tasks)

	var all []task.CandidateEdge
	for _, pass := range []func(task.Set, Config) []task.CandidateEdge{
		explicitPass,
		implicitPass,
		resourcePass,
		temporalPass,
	} {
		if err := ctx.Err(); err != nil {
			return Result{}, taskerr.New(taskerr.KindCancelled, "analyzer.Analyze", err.Error())
		}
		all = append(all, pass(known, a.cfg)...)
	}
	all = append(all, priorityPass(known)...)

	if err := ctx.Err(); err != nil {
		return Result{}, taskerr.New(taskerr.KindCancelled, "analyzer.Analyze", err.Error())
	}

	edges := task.FilterToKnownTasks(task.DeduplicateEdges(all), known)
	cycles := graph.FindCycles(known.IDs(), edges)

	result := Result{
		Edges:             edges,
		IndependentTasks:  independentTasks(known, edges),
		CriticalTasks:     criticalTasks(known, edges),
		PotentialCircular: cycles,
		Metadata:          metadataFor(edges, start),
	}

	return result, nil
}

// independentTasks returns ids with no incoming edge (spec §4.1: "nothing
// depends on them incoming").
func independentTasks(known task.Set, edges []task.CandidateEdge) []string {
	hasIncoming := make(map[string]bool, known.Len())
	for _, e := range edges {
		hasIncoming[e.To] = true
	}

	var out []string
	for _, id := range known.IDs() {
		if !hasIncoming[id] {
			out = append(out, id)
		}
	}

	return out
}

// criticalTasks returns ids that are the source of two or more outgoing
// edges (spec §4.1).
func criticalTasks(known task.Set, edges []task.CandidateEdge) []string {
	outgoing := make(map[string]int, known.Len())
	for _, e := range edges {
		outgoing[e.From]++
	}

	var out []string
	for _, id := range known.IDs() {
		if outgoing[id] >= 2 {
			out = append(out, id)
		}
	}

	return out
}

func metadataFor(edges []task.CandidateEdge, start time.Time) Metadata {
	sum := 0.0
	for _, e := range edges {
		sum += e.Confidence
	}
	avg := 0.0
	if len(edges) > 0 {
		avg = sum / float64(len(edges))
	}

	return Metadata{
		AnalysisDuration:  time.Since(start),
		TotalEdges:        len(edges),
		AverageConfidence: avg,
	}
}
