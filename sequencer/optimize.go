package sequencer

const mergeSafetyThreshold = 0.7

// optimize runs stage 4 of Generate (spec §4.3 step 4): when WeightTime > 0
// it merges consecutive groups that can coexist safely. Resource and
// quality optimizers are no-ops, reserved for later specialization — the
// specification leaves them unimplemented in the first release.
func optimize(groups []ParallelGroup, cfg Config) []ParallelGroup {
	if cfg.WeightTime <= 0 {
		return groups
	}

	var merged []ParallelGroup
	remap := make(map[string]string)

	i := 0
	for i < len(groups) {
		if i+1 < len(groups) && mergeable(groups[i], groups[i+1], cfg.MaxParallelGroups) {
			m := mergeGroups(groups[i], groups[i+1])
			remap[groups[i].ID] = m.ID
			remap[groups[i+1].ID] = m.ID
			merged = append(merged, m)
			i += 2

			continue
		}
		merged = append(merged, groups[i])
		i++
	}

	for gi := range merged {
		merged[gi].DependsOn = remapDeps(merged[gi].DependsOn, remap)
	}

	return merged
}

// mergeable implements spec §4.3 step 4's merge predicate: the combined
// size must fit maxParallelGroups, both groups must clear the safety
// threshold, and — to preserve Testable Property 8 (merge safety) — neither
// group may depend directly on the other, since merging chained groups
// would create a same-group self-dependency.
func mergeable(a, b ParallelGroup, maxParallelGroups int) bool {
	if len(a.TaskIDs)+len(b.TaskIDs) > maxParallelGroups {
		return false
	}
	if a.ParallelSafety <= mergeSafetyThreshold || b.ParallelSafety <= mergeSafetyThreshold {
		return false
	}
	if dependsOnID(a, b.ID) || dependsOnID(b, a.ID) {
		return false
	}

	return true
}

func dependsOnID(g ParallelGroup, id string) bool {
	for _, d := range g.DependsOn {
		if d == id {
			return true
		}
	}

	return false
}

func mergeGroups(a, b ParallelGroup) ParallelGroup {
	taskIDs := append(append([]string(nil), a.TaskIDs...), b.TaskIDs...)

	resources := make(map[string]float64, len(a.Resources)+len(b.Resources))
	for k, v := range a.Resources {
		resources[k] += v
	}
	for k, v := range b.Resources {
		resources[k] += v
	}

	priority := a.Priority
	if b.Priority < priority {
		priority = b.Priority
	}

	safety := a.ParallelSafety
	if b.ParallelSafety < safety {
		safety = b.ParallelSafety
	}

	duration := a.Duration
	if b.Duration > duration {
		duration = b.Duration
	}

	deps := dedupeStrings(append(append([]string(nil), a.DependsOn...), b.DependsOn...))

	return ParallelGroup{
		ID:             a.ID + "+" + b.ID,
		TaskIDs:        taskIDs,
		Duration:       duration,
		Resources:      resources,
		Priority:       priority,
		DependsOn:      deps,
		ParallelSafety: safety,
	}
}

func remapDeps(deps []string, remap map[string]string) []string {
	if len(deps) == 0 {
		return deps
	}
	out := make([]string, len(deps))
	for i, d := range deps {
		if newID, ok := remap[d]; ok {
			out[i] = newID
		} else {
			out[i] = d
		}
	}

	return dedupeStrings(out)
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}

	return out
}
