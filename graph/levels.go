package graph

import "sort"

// assignLevels implements spec §4.2's level pass via Kahn's algorithm:
// nodes with in-degree 0 start at level 0; each edge relaxes its
// successor's level to max(successor.level, predecessor.level + 1). If a
// cycle leaves nodes permanently blocked (in-degree never reaches 0), those
// nodes keep the maximum level assigned to any processed node so far — a
// partial ordering, not an error, so the rest of the pipeline stays
// operable during repair.
func assignLevels(g *Graph) {
	inDegree := make(map[string]int, len(g.order))
	for _, id := range g.order {
		inDegree[id] = len(g.nodes[id].In)
	}

	var ready []string
	for _, id := range g.order {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	processed := make(map[string]bool, len(g.order))
	maxLevelSeen := 0

	for len(ready) > 0 {
		sort.Strings(ready)
		id := ready[0]
		ready = ready[1:]
		if processed[id] {
			continue
		}
		processed[id] = true
		n := g.nodes[id]
		if n.Level > maxLevelSeen {
			maxLevelSeen = n.Level
		}

		for _, key := range n.Out {
			succID := key.To
			succ := g.nodes[succID]
			if n.Level+1 > succ.Level {
				succ.Level = n.Level + 1
			}
			inDegree[succID]--
			if inDegree[succID] == 0 {
				ready = append(ready, succID)
			}
		}
	}

	// Any node never reached by the Kahn frontier sits inside a cycle (or
	// downstream of one); per spec it is accepted at the highest level
	// assigned so far rather than left at a misleadingly low default.
	for _, id := range g.order {
		if !processed[id] {
			g.nodes[id].Level = maxLevelSeen
		}
	}
}
