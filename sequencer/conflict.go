package sequencer

import (
	"sort"

	"github.com/Nexus-Digital-Automations/taskgraph-core/graph"
	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

// detectConflicts runs stage 1 of Generate (spec §4.3 step 1): it surfaces
// circular conflicts from the Graph's own cycle detection, resource and
// priority-inversion conflicts from the task set and its arcs, and temporal
// conflicts surfaced from any temporal-typed arc the Analyzer contributed.
// Custom conflicts are never emitted internally; the kind exists solely for
// external contributors per spec §4.3 step 1.
func detectConflicts(g *graph.Graph, known task.Set) []Conflict {
	var conflicts []Conflict
	conflicts = append(conflicts, circularConflicts(g)...)
	conflicts = append(conflicts, resourceConflicts(known)...)
	conflicts = append(conflicts, priorityInversionConflicts(g)...)
	conflicts = append(conflicts, temporalConflicts(g)...)

	return conflicts
}

func circularConflicts(g *graph.Graph) []Conflict {
	var out []Conflict
	for _, cyc := range g.DetectCycles() {
		var suggestions []string
		for _, opt := range cyc.BreakOptions {
			suggestions = append(suggestions, "remove "+opt.Edge.From+"->"+opt.Edge.To)
		}
		out = append(out, Conflict{
			Kind:                 ConflictCircular,
			Severity:             graph.SeverityCritical,
			AffectedTaskIDs:      cyc.Members,
			Description:          "circular dependency among affected tasks",
			SuggestedResolutions: suggestions,
			Impact: Impact{
				TimeIncreasePercent:                100,
				ResourceUtilizationDecreasePercent: 0,
				FailureRisk:                        1.0,
				QualityRisk:                        0.5,
			},
		})
	}

	return out
}

func resourceConflicts(known task.Set) []Conflict {
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

	var out []Conflict
	for _, cap := range capabilities {
		members := groups[cap]
		if len(members) <= 1 {
			continue
		}
		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}
		sort.Strings(ids)

		out = append(out, Conflict{
			Kind:                 ConflictResourceContention,
			Severity:             graph.SeverityMedium,
			AffectedTaskIDs:      ids,
			Description:          "tasks contend for shared capability: " + cap,
			SuggestedResolutions: []string{"serialize access to " + cap},
			Impact: Impact{
				TimeIncreasePercent:                float64(len(ids)-1) * 20,
				ResourceUtilizationDecreasePercent: 15,
				FailureRisk:                        0.2,
				QualityRisk:                        0.1,
			},
		})
	}

	return out
}

// priorityInversionConflicts walks explicit arcs and flags every case where
// the dependent task (the arc's To) outranks its dependency (the arc's From)
// by priority, the scheduling hazard spec §4.3 step 1 names
// "priority-inversion".
func priorityInversionConflicts(g *graph.Graph) []Conflict {
	var out []Conflict
	for _, arc := range g.Arcs() {
		if arc.Type != task.EdgeExplicit {
			continue
		}
		from, _ := g.Node(arc.From)
		to, _ := g.Node(arc.To)
		if from == nil || to == nil {
			continue
		}
		if to.Task.Priority.Rank() > from.Task.Priority.Rank() {
			out = append(out, Conflict{
				Kind:                 ConflictPriorityInversion,
				Severity:             graph.SeverityHigh,
				AffectedTaskIDs:      []string{from.Task.ID, to.Task.ID},
				Description:          "higher-priority task depends on a lower-priority task",
				SuggestedResolutions: []string{"boost priority of " + from.Task.ID},
				Impact: Impact{
					TimeIncreasePercent:                10,
					ResourceUtilizationDecreasePercent: 0,
					FailureRisk:                        0.1,
					QualityRisk:                        0.2,
				},
			})
		}
	}

	return out
}

func temporalConflicts(g *graph.Graph) []Conflict {
	var out []Conflict
	for _, arc := range g.Arcs() {
		if arc.Type != task.EdgeTemporal {
			continue
		}
		out = append(out, Conflict{
			Kind:                 ConflictTemporal,
			Severity:             graph.SeverityLow,
			AffectedTaskIDs:      []string{arc.From, arc.To},
			Description:          "deadlines fall within the temporal proximity window",
			SuggestedResolutions: []string{"confirm scheduling order of " + arc.From + " and " + arc.To},
			Impact: Impact{
				TimeIncreasePercent:                0,
				ResourceUtilizationDecreasePercent: 0,
				FailureRisk:                        0.05,
				QualityRisk:                        0.05,
			},
		})
	}

	return out
}
