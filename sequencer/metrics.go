package sequencer

import "github.com/Nexus-Digital-Automations/taskgraph-core/task"

// resourceEfficiencyFloor is the value returned when no groups exist to
// divide resource demand across (spec §4.3 "Result metrics").
const resourceEfficiencyFloor = 0.8

// computeMetrics implements spec §4.3's result-metrics formulas:
// totalEstimatedTime = Σ groupDuration, maxConcurrency = max group size,
// resourceEfficiency = min(1, Σresources / (groups·100)) with a floor of
// 0.8 when there are no groups, and confidence =
// min(meanParallelSafety, resourceEfficiency + 0.1).
func computeMetrics(groups []ParallelGroup) (totalTime float64, maxConcurrency int, resourceEfficiency, confidence float64) {
	if len(groups) == 0 {
		return 0, 0, resourceEfficiencyFloor, 1.0
	}

	var sumResources, sumSafety float64
	for _, g := range groups {
		totalTime += g.Duration
		if len(g.TaskIDs) > maxConcurrency {
			maxConcurrency = len(g.TaskIDs)
		}
		for _, v := range g.Resources {
			sumResources += v
		}
		sumSafety += g.ParallelSafety
	}

	resourceEfficiency = sumResources / (float64(len(groups)) * 100)
	if resourceEfficiency > 1 {
		resourceEfficiency = 1
	}

	meanSafety := sumSafety / float64(len(groups))
	confidence = meanSafety
	if resourceEfficiency+0.1 < confidence {
		confidence = resourceEfficiency + 0.1
	}

	return totalTime, maxConcurrency, resourceEfficiency, confidence
}

// usedDefaultEffort reports whether any task in tasks relied on the
// placeholder 1-hour effort default, the signal that caps a Sequence's
// confidence at 0.8 (spec §9 design note on estimated-time defaulting).
func usedDefaultEffort(tasks []task.Task) bool {
	for _, t := range tasks {
		if t.UsedDefaultEffort() {
			return true
		}
	}

	return false
}
