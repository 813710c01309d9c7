package graph

import (
	"sort"

	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

// Cycle describes one strongly-connected cycle found in a Graph, along with
// the candidate edges whose removal would break it, ranked by estimated
// harm (spec §4.2 "Cycle detection").
type Cycle struct {
	Members      []string // task ids in the cycle, sorted
	Edges        []task.EdgeKey
	BreakOptions []BreakOption
}

// BreakOption is one candidate edge removal that would eliminate a cycle,
// scored by the estimated harm of removing it (lower impact = preferred
// removal). See GLOSSARY "Break option".
type BreakOption struct {
	Edge   task.EdgeKey
	Impact float64
}

// DetectCycles runs Tarjan's SCC decomposition over g and, for every
// component that constitutes a cycle, computes its internal edges and a
// sorted list of break options (spec §4.2).
func (g *Graph) DetectCycles() []Cycle {
	comps := componentsOf(g)

	cycles := make([]Cycle, 0, len(comps))
	for _, members := range comps {
		memberSet := make(map[string]bool, len(members))
		for _, m := range members {
			memberSet[m] = true
		}

		var edges []task.EdgeKey
		for _, arc := range g.Arcs() {
			if memberSet[arc.From] && memberSet[arc.To] {
				edges = append(edges, arc.Key())
			}
		}

		opts := make([]BreakOption, 0, len(edges))
		for _, ek := range edges {
			arc := g.arcs[ek]
			opts = append(opts, BreakOption{Edge: ek, Impact: breakImpact(arc)})
		}
		sort.Slice(opts, func(i, j int) bool {
			if opts[i].Impact != opts[j].Impact {
				return opts[i].Impact < opts[j].Impact
			}
			if opts[i].Edge.From != opts[j].Edge.From {
				return opts[i].Edge.From < opts[j].Edge.From
			}

			return opts[i].Edge.To < opts[j].Edge.To
		})

		cycles = append(cycles, Cycle{Members: members, Edges: edges, BreakOptions: opts})
	}

	return cycles
}

// breakImpact scores the harm of removing arc, per spec §4.2:
// 10*confidence + (blocking?5:0) + (onCriticalPath?3:0).
func breakImpact(arc *Arc) float64 {
	score := 10 * arc.Confidence
	if arc.Blocking {
		score += 5
	}
	if arc.OnCriticalPath {
		score += 3
	}

	return score
}

// componentsOf re-derives the SCC decomposition's cyclic components from
// g's current node/arc set, using the same FindCycles primitive the
// analyzer relies on so the two never disagree about what counts as a
// cycle.
func componentsOf(g *Graph) [][]string {
	edges := make([]task.CandidateEdge, 0, len(g.arcs))
	for _, arc := range g.arcs {
		edges = append(edges, arc.CandidateEdge)
	}

	return FindCycles(g.order, edges)
}

// RemoveEdge deletes the arc (from,to) if present, returning false if it
// was absent (spec §4.2 Failure modes). RemoveEdge does not recompute
// levels, timing, or critical-path state in place: callers that need an
// updated Graph must call Build again on the reduced edge list, per §3
// "Lifecycles" (a Graph is immutable after Build; cycle-breaking produces
// a new Graph).
func (g *Graph) RemoveEdge(from, to string) bool {
	key := task.EdgeKey{From: from, To: to}
	if _, ok := g.arcs[key]; !ok {
		return false
	}
	delete(g.arcs, key)

	if n, ok := g.nodes[from]; ok {
		n.Out = removeKey(n.Out, key)
	}
	if n, ok := g.nodes[to]; ok {
		n.In = removeKey(n.In, key)
	}

	return true
}

func removeKey(keys []task.EdgeKey, target task.EdgeKey) []task.EdgeKey {
	out := keys[:0]
	for _, k := range keys {
		if k != target {
			out = append(out, k)
		}
	}

	return out
}

// EdgesWithout returns g's current CandidateEdges, excluding any matching a
// key in removed. It is the building block for cycle-breaking: compute
// break options, choose one, then Build a fresh Graph from
// EdgesWithout(brokenKey).
func (g *Graph) EdgesWithout(removed ...task.EdgeKey) []task.CandidateEdge {
	skip := make(map[task.EdgeKey]bool, len(removed))
	for _, k := range removed {
		skip[k] = true
	}

	out := make([]task.CandidateEdge, 0, len(g.arcs))
	for k, arc := range g.arcs {
		if !skip[k] {
			out = append(out, arc.CandidateEdge)
		}
	}

	return out
}

// Tasks returns the task.Task values backing g's nodes, in deterministic
// order.
func (g *Graph) Tasks() []task.Task {
	out := make([]task.Task, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].Task)
	}

	return out
}
