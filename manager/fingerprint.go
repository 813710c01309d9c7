package manager

import (
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

// Fingerprint is a canonical, order-independent digest of a task set plus
// the strategy under which it will be sequenced, used as the key for both
// LRU caches (spec §4.4, GLOSSARY "Fingerprint").
type Fingerprint uint64

// computeFingerprint folds the canonicalized, sorted (id, priorityRank,
// declaredDepCount) tuple for every task, plus the strategy name, into a
// 64-bit FNV-1a digest (spec §4.4 "Fingerprinting"). Sorting by id before
// hashing makes the result independent of input order, so two callers that
// submit the same task set in different orders still hit the same cache
// entry.
func computeFingerprint(tasks []task.Task, strategyName string) Fingerprint {
	sorted := append([]task.Task(nil), tasks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	h := fnv.New64a()
	for _, t := range sorted {
		h.Write([]byte(t.ID))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(t.Priority.Rank())))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(len(t.Dependencies))))
		h.Write([]byte{0})
	}
	h.Write([]byte(strategyName))

	return Fingerprint(h.Sum64())
}

// fingerprintIndex is the reverse index from task id to every Fingerprint
// currently cached under a task set that contains it, grounded on spec
// §4.4's documented updateTaskDependencies behavior: "invalidates every
// fingerprint that contains the affected task id" — rather than the
// coarser whole-cache purge. Not safe for concurrent use; callers
// (manager.go) hold Manager.idxMu around every method here.
type fingerprintIndex struct {
	taskFPs map[string]map[Fingerprint]struct{}
	fpTasks map[Fingerprint][]string
}

func newFingerprintIndex() *fingerprintIndex {
	return &fingerprintIndex{
		taskFPs: make(map[string]map[Fingerprint]struct{}),
		fpTasks: make(map[Fingerprint][]string),
	}
}

// record associates fp with every task id in tasks, so a later
// invalidate(id) for any of them evicts fp.
func (idx *fingerprintIndex) record(tasks []task.Task, fp Fingerprint) {
	if _, known := idx.fpTasks[fp]; known {
		return
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)

		if idx.taskFPs[t.ID] == nil {
			idx.taskFPs[t.ID] = make(map[Fingerprint]struct{})
		}
		idx.taskFPs[t.ID][fp] = struct{}{}
	}
	idx.fpTasks[fp] = ids
}

// invalidate removes every fingerprint recorded against taskID from the
// index and returns them so the caller can evict the matching cache
// entries. Every other task id that shared one of those fingerprints is
// cleaned up too, since the fingerprint no longer corresponds to any
// cached entry.
func (idx *fingerprintIndex) invalidate(taskID string) []Fingerprint {
	fps := idx.taskFPs[taskID]
	if len(fps) == 0 {
		return nil
	}

	affected := make([]Fingerprint, 0, len(fps))
	for fp := range fps {
		affected = append(affected, fp)

		for _, id := range idx.fpTasks[fp] {
			delete(idx.taskFPs[id], fp)
			if len(idx.taskFPs[id]) == 0 {
				delete(idx.taskFPs, id)
			}
		}
		delete(idx.fpTasks, fp)
	}

	return affected
}
