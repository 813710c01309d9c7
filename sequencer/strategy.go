package sequencer

import (
	"fmt"
	"sort"

	"github.com/Nexus-Digital-Automations/taskgraph-core/graph"
)

// applyStrategy runs stage 3 of Generate (spec §4.3 step 3): it partitions
// g's nodes, level by level, into parallel groups under the configured
// Strategy. resourceOptimized and loadBalanced fall through to criticalPath;
// a first-class specialization for either is future work (spec §9 Open
// Question 3), not tracked by a TODO since there is no concrete follow-up.
func applyStrategy(g *graph.Graph, strategy Strategy) []ParallelGroup {
	switch strategy {
	case StrategyPriorityFirst:
		return priorityFirstGroups(g)
	case StrategyCriticalPath, StrategyResourceOptimized, StrategyLoadBalanced:
		return criticalPathGroups(g)
	default:
		return criticalPathGroups(g)
	}
}

func nodesByLevelGrouped(g *graph.Graph) (map[int][]*graph.Node, int) {
	byLevel := make(map[int][]*graph.Node)
	maxLevel := 0
	for _, n := range g.Nodes() {
		byLevel[n.Level] = append(byLevel[n.Level], n)
		if n.Level > maxLevel {
			maxLevel = n.Level
		}
	}
	for lvl := range byLevel {
		sort.Slice(byLevel[lvl], func(i, j int) bool {
			return byLevel[lvl][i].Task.ID < byLevel[lvl][j].Task.ID
		})
	}

	return byLevel, maxLevel
}

// priorityFirstGroups implements spec §4.3 step 3's priorityFirst strategy:
// one group per level, members sorted by priority within the level
// (critical first), each level depending on the previous one.
func priorityFirstGroups(g *graph.Graph) []ParallelGroup {
	byLevel, maxLevel := nodesByLevelGrouped(g)

	var groups []ParallelGroup
	var prevID string
	for lvl := 0; lvl <= maxLevel; lvl++ {
		members := byLevel[lvl]
		if len(members) == 0 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Task.Priority.Rank() != members[j].Task.Priority.Rank() {
				return members[i].Task.Priority.Rank() > members[j].Task.Priority.Rank()
			}

			return members[i].Task.ID < members[j].Task.ID
		})

		id := fmt.Sprintf("L%d", lvl)
		var deps []string
		if prevID != "" {
			deps = []string{prevID}
		}
		groups = append(groups, buildGroup(id, members, deps, 0.8))
		prevID = id
	}

	return groups
}

// criticalPathGroups implements spec §4.3 step 3's criticalPath strategy:
// each level splits into a critical sub-group (parallel-safety 0.95) and a
// normal sub-group (parallel-safety 0.8); normal depends on critical at the
// same level when both exist. The critical sub-group, and a normal sub-group
// with no critical sibling, depend on every group of the previous level.
func criticalPathGroups(g *graph.Graph) []ParallelGroup {
	byLevel, maxLevel := nodesByLevelGrouped(g)

	type levelIDs struct{ critical, normal string }
	idsByLevel := make(map[int]levelIDs)

	var groups []ParallelGroup
	prevDeps := func(lvl int) []string {
		prev, ok := idsByLevel[lvl-1]
		if !ok {
			return nil
		}
		var deps []string
		if prev.critical != "" {
			deps = append(deps, prev.critical)
		}
		if prev.normal != "" {
			deps = append(deps, prev.normal)
		}

		return deps
	}

	for lvl := 0; lvl <= maxLevel; lvl++ {
		members := byLevel[lvl]
		if len(members) == 0 {
			continue
		}

		var critical, normal []*graph.Node
		for _, n := range members {
			if n.OnCriticalPath {
				critical = append(critical, n)
			} else {
				normal = append(normal, n)
			}
		}

		var ids levelIDs
		if len(critical) > 0 {
			id := fmt.Sprintf("L%d-critical", lvl)
			groups = append(groups, buildGroup(id, critical, prevDeps(lvl), 0.95))
			ids.critical = id
		}
		if len(normal) > 0 {
			id := fmt.Sprintf("L%d-normal", lvl)
			var deps []string
			if ids.critical != "" {
				deps = []string{ids.critical}
			} else {
				deps = prevDeps(lvl)
			}
			groups = append(groups, buildGroup(id, normal, deps, 0.8))
			ids.normal = id
		}
		idsByLevel[lvl] = ids
	}

	return groups
}

func buildGroup(id string, members []*graph.Node, deps []string, parallelSafety float64) ParallelGroup {
	ids := make([]string, 0, len(members))
	duration := 0.0
	minNumericRank := 0
	resources := make(map[string]float64)
	for i, n := range members {
		ids = append(ids, n.Task.ID)
		if eff := n.Task.EffortHours(); eff > duration {
			duration = eff
		}
		rank := n.Task.Priority.NumericRank()
		if i == 0 || rank < minNumericRank {
			minNumericRank = rank
		}
		for _, cap := range n.Task.RequiredCapabilities {
			resources[cap]++
		}
	}

	return ParallelGroup{
		ID:             id,
		TaskIDs:        ids,
		Duration:       duration,
		Resources:      resources,
		Priority:       minNumericRank,
		DependsOn:      deps,
		ParallelSafety: parallelSafety,
	}
}
