// Package graph implements the core's dependency graph: an
// immutable-after-build structure mapping tasks to nodes and candidate
// edges to weighted arcs, enriched with level numbers, earliest/latest
// start times, slack, and critical-path markers (spec §4.2).
//
// A Graph is built once by Build and is logically immutable thereafter
// (spec §3 "Lifecycles"): there is no exported mutator besides RemoveEdge,
// which deletes an arc in place without recomputing levels, timing or
// critical-path state. Cycle-breaking instead produces a *new* Graph by
// calling Build on EdgesWithout's reduced edge list.
package graph

import (
	"sort"

	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

// epsilon is the slack tolerance below which a node is considered to lie on
// the critical path (spec §4.2, §8 Testable Property 5).
const epsilon = 0.01

// typeFactor is the total function from task.EdgeType to the multiplier
// used when computing an Arc's weight (spec §4.2 Build). Declared as a
// plain array indexed by EdgeType so every EdgeType value maps to exactly
// one factor, with no possibility of a silent zero-value default for a
// type nobody remembered to register.
var typeFactor = [...]float64{
	task.EdgeExplicit: 1.0,
	task.EdgeImplicit: 0.7,
	task.EdgeResource: 0.8,
	task.EdgeTemporal: 0.6,
	task.EdgePriority: 0.4,
}

// TypeFactor returns the weight multiplier for the given edge type.
func TypeFactor(t task.EdgeType) float64 {
	if int(t) < 0 || int(t) >= len(typeFactor) {
		return 0
	}

	return typeFactor[t]
}

// ArcWeight computes an Arc's weight from its source CandidateEdge, per
// spec §4.2 Build: confidence * typeFactor * (blocking ? 1.2 : 1), capped
// at 1.0.
func ArcWeight(e task.CandidateEdge) float64 {
	w := e.Confidence * TypeFactor(e.Type)
	if e.Blocking {
		w *= 1.2
	}

	return task.ClampConfidence(w)
}

// Arc is a graph edge: a CandidateEdge enriched with its computed weight
// and critical-path membership.
type Arc struct {
	task.CandidateEdge
	Weight         float64
	OnCriticalPath bool
}

// Node wraps a task with graph-computed fields. All computed fields are
// zero until Build's passes populate them (spec §3 Node).
type Node struct {
	Task task.Task

	Level          int
	EarliestStart  float64
	LatestStart    float64
	Slack          float64
	OnCriticalPath bool

	// Out/In hold outgoing/incoming arc keys, sorted for deterministic
	// iteration (Testable Property 1).
	Out []task.EdgeKey
	In  []task.EdgeKey
}

// Graph owns the node set (keyed by task id) and the edge set (keyed by
// the ordered pair), plus the derived cycle/critical-path state computed
// at Build time.
type Graph struct {
	nodes map[string]*Node
	arcs  map[task.EdgeKey]*Arc

	order          []string // task ids in deterministic (sorted) order
	hasCycles      bool
	cycles         [][]string // from FindCycles, cached at Build time
	criticalPath   []string   // task ids on the critical path, in topological order
	completionTime float64    // project completion time from the forward timing pass
}

// HasCycles reports whether the most recent Build found any cycle.
func (g *Graph) HasCycles() bool { return g.hasCycles }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of arcs in the graph.
func (g *Graph) EdgeCount() int { return len(g.arcs) }

// Node returns the node for id, if present.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]

	return n, ok
}

// Nodes returns all nodes in deterministic (sorted task id) order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}

	return out
}

// Arc returns the arc for the given ordered pair, if present.
func (g *Graph) Arc(from, to string) (*Arc, bool) {
	a, ok := g.arcs[task.EdgeKey{From: from, To: to}]

	return a, ok
}

// Arcs returns all arcs, sorted by (From, To) for deterministic iteration.
func (g *Graph) Arcs() []*Arc {
	keys := make([]task.EdgeKey, 0, len(g.arcs))
	for k := range g.arcs {
		keys = append(keys, k)
	}
	sortEdgeKeys(keys)

	out := make([]*Arc, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.arcs[k])
	}

	return out
}

// CriticalPath returns the task ids on the critical path, in topological
// order.
func (g *Graph) CriticalPath() []string {
	return append([]string(nil), g.criticalPath...)
}

func sortEdgeKeys(keys []task.EdgeKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}

		return keys[i].To < keys[j].To
	})
}
