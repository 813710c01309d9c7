package analyzer

import "github.com/Nexus-Digital-Automations/taskgraph-core/task"

// priorityRankDelta is the minimum gap on the 1..4 priority scale that
// triggers a non-blocking priority edge (spec §4.1 step 5).
const priorityRankDelta = 2

// priorityEdgeConfidence and priorityEdgeDelay are the fixed values the
// specification assigns to every priority edge, independent of Config.
const (
	priorityEdgeConfidence = 0.4
	priorityEdgeDelay      = 0.5
)

// priorityPass emits a non-blocking edge for every ordered pair where A's
// priority rank exceeds B's by at least priorityRankDelta (spec §4.1
// step 5), modeling "urgent work should be scheduled ahead of far less
// urgent work" independent of any declared or inferred dependency.
func priorityPass(known task.Set) []task.CandidateEdge {
	tasks := known.All()

	var edges []task.CandidateEdge
	for _, a := range tasks {
		for _, b := range tasks {
			if a.ID == b.ID {
				continue
			}
			if a.Priority.Rank()-b.Priority.Rank() >= priorityRankDelta {
				edges = append(edges, task.CandidateEdge{
					From:           a.ID,
					To:             b.ID,
					Type:           task.EdgePriority,
					Confidence:     priorityEdgeConfidence,
					Reason:         "priority ordering",
					Blocking:       false,
					EstimatedDelay: priorityEdgeDelay,
				})
			}
		}
	}

	return edges
}
