package sequencer

import (
	"github.com/Nexus-Digital-Automations/taskgraph-core/graph"
	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
)

// DetectConflicts runs stage 1 of Generate in isolation, without resolving,
// sequencing, or optimizing. The Manager's background optimization pass
// (spec §4.4 "no state is altered by this pass") uses this to re-scan for
// conflicts on an interval without touching either cache.
func DetectConflicts(g *graph.Graph, tasks []task.Task) []Conflict {
	return detectConflicts(g, task.NewSet(tasks))
}
