package graph

import "math"

// markCriticalPath implements spec §4.2's slack & critical-path pass: a
// node is on the critical path iff |slack| < epsilon; an arc is on the
// critical path iff both endpoints are and the predecessor's finish time
// matches the successor's earliest start within epsilon.
func markCriticalPath(g *Graph) {
	for _, n := range g.Nodes() {
		n.OnCriticalPath = math.Abs(n.Slack) < epsilon
	}

	for _, arc := range g.arcs {
		from, to := g.nodes[arc.From], g.nodes[arc.To]
		finish := from.EarliestStart + from.Task.EffortHours()
		arc.OnCriticalPath = from.OnCriticalPath && to.OnCriticalPath && math.Abs(finish-to.EarliestStart) < epsilon
	}

	var path []string
	for _, n := range nodesByLevel(g, true) {
		if n.OnCriticalPath {
			path = append(path, n.Task.ID)
		}
	}
	g.criticalPath = path
}
