package manager

import (
	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
	"github.com/Nexus-Digital-Automations/taskgraph-core/taskerr"
)

// validateInput implements spec §4.4's input-validation contract: empty id,
// duplicate id, a circular dependency chain longer than
// cfg.Analyzer.MaxChainLength, or a declared dependency id that resolves to
// no task in the set. It is checked at the top of every public Manager
// method that spec §6's External Interfaces table declares an InvalidInput
// error for (analyze, resolveExecutionOrder, getParallelGroups). Unlike the
// Analyzer (which silently drops unresolvable references, spec §4.1) and
// the Graph (which silently drops dangling edges, spec §4.2), those methods
// reject them outright at the Manager's own boundary — the stricter of the
// two documented policies, since §4.4 explicitly lists "unresolvable
// cross-references" among its own failure modes.
//
// detectCircular and validateDependencies are declared with no errors in
// that same table, so they use the narrower validateIdentities instead —
// see its doc comment.
func validateInput(op string, tasks []task.Task, maxChainLength int) error {
	if err := validateIdentities(op, tasks); err != nil {
		return err
	}

	known := task.NewSet(tasks)
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if !known.Has(dep) {
				return taskerr.New(taskerr.KindInvalidInput, op, "unresolvable dependency reference: "+dep)
			}
		}
	}

	if hasExcessiveChain(tasks, maxChainLength) {
		return taskerr.New(taskerr.KindInvalidInput, op, "circular dependency chain exceeds configured maximum length")
	}

	return nil
}

// validateIdentities checks only empty-id and duplicate-id, the same two
// conditions graph.Build itself enforces (graph/build.go's
// validateTaskIDs). DetectCircular and ValidateDependencies use this
// narrower check instead of validateInput: spec §6's External Interfaces
// table declares no errors for either entry point, and spec §4.1/§4.2
// document a dangling dependency reference as "a legal fault" the
// Analyzer and Graph both tolerate by silently dropping it rather than
// rejecting it. Rejecting it here would defeat the purpose of these two
// diagnostic entry points, whose whole job is to answer "is this
// circular?"/"validate this for me" for exactly that kind of malformed
// input — including one with an excessively long circular chain, which
// DetectCircular's own Tarjan pass and ValidateDependencies' Validate
// report as a finding rather than refuse to look at.
func validateIdentities(op string, tasks []task.Task) error {
	for _, t := range tasks {
		if t.ID == "" {
			return taskerr.New(taskerr.KindInvalidInput, op, "task has empty id")
		}
	}

	if dupes := task.DuplicateIDs(tasks); len(dupes) > 0 {
		return taskerr.New(taskerr.KindInvalidInput, op, "duplicate task id: "+dupes[0])
	}

	return nil
}

// hasExcessiveChain walks each task's declared-dependency chain and reports
// whether any cycle it finds has a length greater than maxChainLength.
// Non-cyclic long chains are left to the Graph's own level/critical-path
// passes to handle; this check exists specifically to reject runaway
// circular chains before they reach the Analyzer (spec §4.4).
func hasExcessiveChain(tasks []task.Task, maxChainLength int) bool {
	if maxChainLength <= 0 {
		return false
	}

	depsByID := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		depsByID[t.ID] = t.Dependencies
	}

	for _, t := range tasks {
		if chainExceedsFrom(t.ID, depsByID, maxChainLength) {
			return true
		}
	}

	return false
}

func chainExceedsFrom(start string, depsByID map[string][]string, maxChainLength int) bool {
	pathIndex := make(map[string]int)
	var path []string

	var walk func(id string) bool
	walk = func(id string) bool {
		if idx, onPath := pathIndex[id]; onPath {
			return len(path)-idx > maxChainLength
		}

		pathIndex[id] = len(path)
		path = append(path, id)
		defer func() {
			delete(pathIndex, id)
			path = path[:len(path)-1]
		}()

		for _, dep := range depsByID[id] {
			if walk(dep) {
				return true
			}
		}

		return false
	}

	return walk(start)
}
