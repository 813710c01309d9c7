package graph

import (
	"sort"

	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

// tarjanState threads the bookkeeping Tarjan's algorithm needs through a
// recursive visit closure, in the same spirit as the teacher dfs package's
// dfsVisit: an explicit state struct rather than package-level globals, so
// FindCycles stays reentrant and side-effect free.
type tarjanState struct {
	adj     map[string][]string
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	counter int
	sccs    [][]string
}

// FindCycles runs Tarjan's strongly-connected-components algorithm over the
// directed graph implied by ids and edges, and returns every component that
// constitutes a cycle: components of size >= 2, plus singletons with a
// self-loop (spec §4.2 "Cycle detection"). It is a pure function over its
// inputs, reused both by Graph.Build (to populate hasCycles/cycles) and by
// the analyzer package's post-processing cycle scan, so the two components
// never disagree about what counts as a cycle.
//
// The returned cycles are sorted for deterministic output (Testable
// Property 1): each cycle's member ids are sorted, and cycles are then
// sorted by their first member id.
func FindCycles(ids []string, edges []task.CandidateEdge) [][]string {
	adj := make(map[string][]string, len(ids))
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	for _, e := range edges {
		if known[e.From] && known[e.To] {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}

	st := &tarjanState{
		adj:     adj,
		index:   make(map[string]int, len(ids)),
		lowlink: make(map[string]int, len(ids)),
		onStack: make(map[string]bool, len(ids)),
	}

	sortedIDs := append([]string(nil), ids...)
	sort.Strings(sortedIDs)

	for _, id := range sortedIDs {
		if _, visited := st.index[id]; !visited {
			st.strongConnect(id)
		}
	}

	selfLoops := make(map[string]bool)
	for _, e := range edges {
		if e.From == e.To {
			selfLoops[e.From] = true
		}
	}

	var cycles [][]string
	for _, comp := range st.sccs {
		if len(comp) >= 2 || (len(comp) == 1 && selfLoops[comp[0]]) {
			sort.Strings(comp)
			cycles = append(cycles, comp)
		}
	}
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})

	return cycles
}

// strongConnect is Tarjan's classic recursive visit, specialized to build
// up st.sccs rather than return a value: every connected component
// discovered is appended in discovery order, deepest-first.
func (st *tarjanState) strongConnect(v string) {
	st.index[v] = st.counter
	st.lowlink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	neighbors := append([]string(nil), st.adj[v]...)
	sort.Strings(neighbors)
	for _, w := range neighbors {
		if _, visited := st.index[w]; !visited {
			st.strongConnect(w)
			st.lowlink[v] = minInt(st.lowlink[v], st.lowlink[w])
		} else if st.onStack[w] {
			st.lowlink[v] = minInt(st.lowlink[v], st.index[w])
		}
	}

	if st.lowlink[v] != st.index[v] {
		return
	}

	var comp []string
	for {
		n := len(st.stack) - 1
		w := st.stack[n]
		st.stack = st.stack[:n]
		st.onStack[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}
	st.sccs = append(st.sccs, comp)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
