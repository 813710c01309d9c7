package sequencer

// resolveConflicts runs stage 2 of Generate (spec §4.3 step 2): it dispatches
// each conflict by kind, producing one Resolution for the kinds the
// specification names and skipping the rest ("others unresolved").
func resolveConflicts(conflicts []Conflict) []Resolution {
	var out []Resolution
	for _, c := range conflicts {
		switch c.Kind {
		case ConflictResourceContention:
			out = append(out, Resolution{
				Type:                ResolutionReschedule,
				Description:         "serialize access among contending tasks",
				AffectedTaskIDs:     c.AffectedTaskIDs,
				Confidence:          0.8,
				ExpectedImprovement: -c.Impact.TimeIncreasePercent / 100 * float64(len(c.AffectedTaskIDs)),
			})
		case ConflictPriorityInversion:
			if len(c.AffectedTaskIDs) == 0 {
				continue
			}
			out = append(out, Resolution{
				Type:                ResolutionPriorityAdjustment,
				Description:         "boost priority of blocking task " + c.AffectedTaskIDs[0],
				AffectedTaskIDs:     c.AffectedTaskIDs,
				Confidence:          0.7,
				ExpectedImprovement: -0.5,
			})
		case ConflictCircular:
			if len(c.SuggestedResolutions) == 0 {
				continue
			}
			out = append(out, Resolution{
				Type:                ResolutionDeferToBreakOptions,
				Description:         "defer to graph break-options: " + c.SuggestedResolutions[0],
				AffectedTaskIDs:     c.AffectedTaskIDs,
				Confidence:          0.6,
				ExpectedImprovement: 0,
			})
		default:
			// temporal and custom conflicts are surfaced but not resolved
			// automatically, per spec §4.3 step 2.
		}
	}

	return out
}
