package graph

import "sort"

// computeTiming implements spec §4.2's earliest/latest-start pass under a
// DAG assumption: a forward longest-path pass computes earliest start
// times and overall completion, then a backward pass computes latest start
// times using the off-by-one-corrected definition the specification
// prescribes: "latestStart(v) is the latest time v may start without
// delaying any successor."
//
// Nodes are processed in (level, id) order so the pass stays deterministic
// even across the partial levels a cyclic graph produces (Testable
// Property 1); cyclic portions of the graph get a best-effort, still fully
// deterministic, approximation rather than a correctness guarantee, matching
// §4.2's framing of levels-under-cycles as "accepted ... not an error."
func computeTiming(g *Graph) {
	forward := nodesByLevel(g, true)
	for _, n := range forward {
		for _, key := range n.In {
			pred := g.nodes[key.From]
			candidate := pred.EarliestStart + pred.Task.EffortHours()
			if candidate > n.EarliestStart {
				n.EarliestStart = candidate
			}
		}
	}

	completion := 0.0
	for _, n := range forward {
		if fin := n.EarliestStart + n.Task.EffortHours(); fin > completion {
			completion = fin
		}
	}
	g.completionTime = completion

	backward := nodesByLevel(g, false)
	for _, n := range backward {
		n.LatestStart = completion - n.Task.EffortHours() // default: sink formula
	}
	for _, n := range backward {
		if len(n.Out) == 0 {
			continue
		}
		min := -1.0
		for _, key := range n.Out {
			succ := g.nodes[key.To]
			candidate := succ.LatestStart - n.Task.EffortHours()
			if min < 0 || candidate < min {
				min = candidate
			}
		}
		n.LatestStart = min
	}

	for _, n := range g.nodes {
		n.Slack = n.LatestStart - n.EarliestStart
	}
}

// nodesByLevel returns g's nodes ordered by level, ascending when asc is
// true and descending otherwise; nodes on the same level are always in
// ascending id order.
func nodesByLevel(g *Graph, asc bool) []*Node {
	nodes := g.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Level != nodes[j].Level {
			if asc {
				return nodes[i].Level < nodes[j].Level
			}

			return nodes[i].Level > nodes[j].Level
		}

		return nodes[i].Task.ID < nodes[j].Task.ID
	})

	return nodes
}
