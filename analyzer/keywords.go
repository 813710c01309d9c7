package analyzer

import "strings"

// keywordFamilies groups related vocabulary for the implicit pass's
// shared-family scoring (spec §4.1 step 2: "shared keyword-family
// membership ... yields +0.3 per family"). Membership is substring-based
// against a task's lowercase combined text.
var keywordFamilies = map[string][]string{
	"setup":      {"setup", "init", "scaffold", "bootstrap", "configure"},
	"development": {"implement", "develop", "build", "code", "feature"},
	"testing":    {"test", "verify", "validate", "qa", "assert"},
	"deployment": {"deploy", "release", "publish", "rollout", "ship"},
	"database":   {"database", "db", "schema", "migration", "sql"},
	"api":        {"api", "endpoint", "rest", "graphql", "rpc"},
	"ui":         {"ui", "ux", "frontend", "component", "view"},
	"security":   {"security", "auth", "encrypt", "permission", "vuln"},
}

// sequentialKeywords defines the canonical lifecycle ordering used by the
// implicit pass's "sequential-keyword ordering" sub-score (spec §4.1 step 2:
// "A's earliest sequential-keyword index < B's yields +0.4"). Earlier
// entries represent work that conventionally precedes later entries.
var sequentialKeywords = []string{
	"design", "setup", "scaffold", "implement", "develop", "build",
	"integrate", "test", "review", "document", "deploy", "release",
}

// familiesOf returns the set of keyword-family names whose vocabulary
// appears as a substring of text.
func familiesOf(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for family, words := range keywordFamilies {
		for _, w := range words {
			if strings.Contains(text, w) {
				out[family] = struct{}{}
				break
			}
		}
	}

	return out
}

// sharedFamilyCount returns how many keyword families both a and b's
// combined text belong to.
func sharedFamilyCount(aText, bText string) int {
	aFam := familiesOf(aText)
	bFam := familiesOf(bText)
	count := 0
	for f := range aFam {
		if _, ok := bFam[f]; ok {
			count++
		}
	}

	return count
}

// earliestSequentialIndex returns the lowest index into sequentialKeywords
// whose keyword appears in text, or -1 if none match.
func earliestSequentialIndex(text string) int {
	best := -1
	for i, kw := range sequentialKeywords {
		if strings.Contains(text, kw) {
			best = i
			break // sequentialKeywords is already ordered ascending
		}
	}

	return best
}
