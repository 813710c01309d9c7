package graph

import (
	"sort"

	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
	"github.com/Nexus-Digital-Automations/taskgraph-core/taskerr"
)

// Build constructs a fresh Graph from tasks and candidateEdges (spec §4.2
// Build). It creates one node per task, inserts every edge whose endpoints
// exist, computes arc weights, then runs the three computed passes: level
// assignment (Kahn), earliest/latest start (longest path), and
// slack/critical-path marking.
//
// Build fails with taskerr.KindInvalidInput if any task id is empty or
// duplicated (spec §4.2 Failure modes); malformed edges (dangling
// endpoints, self-edges) are dropped rather than rejected, matching the
// Analyzer's own silent-filtering discipline.
func Build(tasks []task.Task, candidateEdges []task.CandidateEdge) (*Graph, error) {
	if err := validateTaskIDs(tasks); err != nil {
		return nil, err
	}

	known := task.NewSet(tasks)
	g := &Graph{
		nodes: make(map[string]*Node, known.Len()),
		arcs:  make(map[task.EdgeKey]*Arc),
		order: known.IDs(),
	}
	for _, id := range g.order {
		t, _ := known.Get(id)
		g.nodes[id] = &Node{Task: t}
	}

	edges := task.FilterToKnownTasks(task.DeduplicateEdges(candidateEdges), known)
	for _, e := range edges {
		arc := &Arc{CandidateEdge: e, Weight: ArcWeight(e)}
		key := e.Key()
		g.arcs[key] = arc
		g.nodes[e.From].Out = append(g.nodes[e.From].Out, key)
		g.nodes[e.To].In = append(g.nodes[e.To].In, key)
	}
	for _, n := range g.nodes {
		sortKeys(n.Out)
		sortKeys(n.In)
	}

	g.cycles = FindCycles(g.order, edges)
	g.hasCycles = len(g.cycles) > 0

	assignLevels(g)
	computeTiming(g)
	markCriticalPath(g)

	return g, nil
}

func sortKeys(keys []task.EdgeKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}

		return keys[i].To < keys[j].To
	})
}

func validateTaskIDs(tasks []task.Task) error {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			return taskerr.New(taskerr.KindInvalidInput, "graph.Build", "task has empty id")
		}
		if seen[t.ID] {
			return taskerr.New(taskerr.KindInvalidInput, "graph.Build", "duplicate task id: "+t.ID)
		}
		seen[t.ID] = true
	}

	return nil
}
