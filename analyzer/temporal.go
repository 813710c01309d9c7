package analyzer

import (
	"sort"

	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

// temporalWindowHours is the maximum gap between consecutive deadlines for
// the temporal pass to link them (spec §4.1 step 4: "within 24 hours").
const temporalWindowHours = 24.0

// temporalPass sorts tasks with a declared deadline ascending and emits a
// non-blocking edge between consecutive pairs whose deadlines fall within
// temporalWindowHours of each other (spec §4.1 step 4).
func temporalPass(known task.Set, cfg Config) []task.CandidateEdge {
	var withDeadline []task.Task
	for _, t := range known.All() {
		if t.Deadline != nil {
			withDeadline = append(withDeadline, t)
		}
	}

	sort.SliceStable(withDeadline, func(i, j int) bool {
		return withDeadline[i].Deadline.Before(*withDeadline[j].Deadline)
	})

	var edges []task.CandidateEdge
	for i := 0; i+1 < len(withDeadline); i++ {
		a, b := withDeadline[i], withDeadline[i+1]
		gap := a.Deadline.HoursUntil(*b.Deadline)
		if gap < 0 {
			gap = -gap
		}
		if gap > temporalWindowHours {
			continue
		}
		edges = append(edges, task.CandidateEdge{
			From:           a.ID,
			To:             b.ID,
			Type:           task.EdgeTemporal,
			Confidence:     task.ClampConfidence(cfg.WeightTemporal),
			Reason:         "deadlines within 24 hours",
			Blocking:       false,
			EstimatedDelay: gap,
		})
	}

	return edges
}
