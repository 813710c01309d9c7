package analyzer

import "github.com/Nexus-Digital-Automations/taskgraph-core/task"

// explicitPass emits one edge per declared dependency that resolves to a
// known task (spec §4.1 step 1). Unresolvable references are silently
// dropped, per §4.1's failure mode and §7's UnknownTask recovery policy.
func explicitPass(known task.Set, cfg Config) []task.CandidateEdge {
	var edges []task.CandidateEdge
	for _, to := range known.All() {
		for _, fromID := range to.Dependencies {
			from, ok := known.Get(fromID)
			if !ok || from.ID == to.ID {
				continue
			}
			edges = append(edges, task.CandidateEdge{
				From:           from.ID,
				To:             to.ID,
				Type:           task.EdgeExplicit,
				Confidence:     task.ClampConfidence(cfg.WeightExplicit),
				Reason:         "declared dependency",
				Blocking:       true,
				EstimatedDelay: explicitDelay(from),
			})
		}
	}

	return edges
}

// explicitDelay computes the estimated delay for an explicit edge: the
// predecessor's effort, halved when the predecessor is critical priority
// (spec §4.1 step 1: "critical halves delay; otherwise no scaling").
func explicitDelay(from task.Task) float64 {
	effort := from.EffortHours()
	if from.Priority == task.PriorityCritical {
		return effort / 2
	}

	return effort
}
