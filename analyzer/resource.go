package analyzer

import (
	"sort"

	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

// resourcePass groups tasks by required capability and, within each group
// of size > 1, emits consecutive edges ordered by priority (critical
// first), modeling exclusive access to a shared capability (spec §4.1
// step 3).
func resourcePass(known task.Set, cfg Config) []task.CandidateEdge {
	groups := make(map[string][]task.Task)
	for _, t := range known.All() {
		for _, cap := range t.RequiredCapabilities {
			groups[cap] = append(groups[cap], t)
		}
	}

	capabilities := make([]string, 0, len(groups))
	for cap := range groups {
		capabilities = append(capabilities, cap)
	}
	sort.Strings(capabilities)

	var edges []task.CandidateEdge
	for _, cap := range capabilities {
		members := groups[cap]
		if len(members) <= 1 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Priority.Rank() != members[j].Priority.Rank() {
				return members[i].Priority.Rank() > members[j].Priority.Rank() // critical first
			}

			return members[i].ID < members[j].ID // deterministic tiebreak
		})
		for i := 0; i+1 < len(members); i++ {
			edges = append(edges, task.CandidateEdge{
				From:           members[i].ID,
				To:             members[i+1].ID,
				Type:           task.EdgeResource,
				Confidence:     task.ClampConfidence(cfg.WeightResource),
				Reason:         "shared capability: " + cap,
				Blocking:       true,
				EstimatedDelay: 0,
			})
		}
	}

	return edges
}
