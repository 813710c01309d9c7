package analyzer

import (
	"strings"

	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

// implicitPass evaluates every ordered pair of distinct tasks (A,B) and
// emits an implicit edge A->B when the composite evidence score clears the
// semantic sensitivity threshold (spec §4.1 step 2). Both (A,B) and (B,A)
// are evaluated independently, so a pair may produce edges in both
// directions if the evidence supports it each way.
func implicitPass(known task.Set, cfg Config) []task.CandidateEdge {
	if !cfg.EnableImplicit {
		return nil
	}

	tasks := known.All()
	var edges []task.CandidateEdge
	for _, a := range tasks {
		for _, b := range tasks {
			if a.ID == b.ID {
				continue
			}
			if e, ok := implicitEdge(a, b, cfg); ok {
				edges = append(edges, e)
			}
		}
	}

	return edges
}

// implicitEdge scores the evidence for an A->B implicit dependency and
// returns the resulting CandidateEdge if the score clears
// cfg.SensitivitySemantic.
func implicitEdge(a, b task.Task, cfg Config) (task.CandidateEdge, bool) {
	keyword := task.ClampConfidence(keywordScore(a, b))
	structural := task.ClampConfidence(structuralScore(a, b))
	feature := task.ClampConfidence(featureScore(a, b))

	weighted := cfg.WeightImplicit
	sum := task.ClampConfidence((keyword + structural + feature) * weighted)

	if sum < cfg.SensitivitySemantic {
		return task.CandidateEdge{}, false
	}

	return task.CandidateEdge{
		From:           a.ID,
		To:             b.ID,
		Type:           task.EdgeImplicit,
		Confidence:     sum,
		Reason:         "inferred from keyword/structural/feature evidence",
		Blocking:       sum > 0.8,
		EstimatedDelay: a.EffortHours() * sum,
	}, true
}

// keywordScore implements spec §4.1 step 2's "keyword analysis" sub-score.
func keywordScore(a, b task.Task) float64 {
	aText, bText := a.CombinedText(), b.CombinedText()

	score := 0.0
	if directSubstringMatch(a, bText) {
		score += 0.8
	}
	score += 0.3 * float64(sharedFamilyCount(aText, bText))

	aIdx, bIdx := earliestSequentialIndex(aText), earliestSequentialIndex(bText)
	if aIdx >= 0 && bIdx >= 0 && aIdx < bIdx {
		score += 0.4
	}

	return score
}

// directSubstringMatch reports whether a's title or id appears verbatim
// (case-insensitively, via CombinedText's lowercasing) inside b's combined
// text.
func directSubstringMatch(a task.Task, bText string) bool {
	for _, needle := range []string{a.Title, a.ID} {
		needle = strings.ToLower(needle)
		if needle == "" {
			continue
		}
		if strings.Contains(bText, needle) {
			return true
		}
	}

	return false
}

// structuralScore implements spec §4.1 step 2's "structural analysis"
// sub-score.
func structuralScore(a, b task.Task) float64 {
	score := 0.0
	if a.Type.OrderRank() < b.Type.OrderRank() {
		score += 0.5
	}
	if a.Priority.Rank() > b.Priority.Rank() {
		score += 0.3
	}
	if a.EffortHours() > 2*b.EffortHours() {
		score += 0.2
	}

	return score
}

// featureScore implements spec §4.1 step 2's "feature relationship"
// sub-score.
func featureScore(a, b task.Task) float64 {
	score := 0.0
	if a.FeatureID != "" && a.FeatureID == b.FeatureID {
		score += 0.6
	}
	if (a.ParentFeatureID != "" && a.ParentFeatureID == b.FeatureID) ||
		(b.ParentFeatureID != "" && b.ParentFeatureID == a.FeatureID) {
		score += 0.7
	}
	if a.MainTaskID == b.ID || b.MainTaskID == a.ID {
		score += 0.9
	}

	return score
}
