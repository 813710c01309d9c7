package manager

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nexus-Digital-Automations/taskgraph-core/graph"
	"github.com/Nexus-Digital-Automations/taskgraph-core/sequencer"
	"github.com/Nexus-Digital-Automations/taskgraph-core/task"
	"github.com/Nexus-Digital-Automations/taskgraph-core/taskerr"
)

// StartBackgroundOptimization implements spec §4.4's "Optional background
// optimization": on a configurable interval it re-runs conflict detection
// over fetchTasks()'s current snapshot and emits conflict_detected events
// carrying the fresh suggested resolutions. No cache is read or written by
// this pass (spec §4.4: "no state is altered by this pass").
//
// The pass runs on a single long-lived goroutine bound to ctx via
// errgroup.Group, grounded on the Sequencer's own context-bounded timeout
// pattern; the returned stop function cancels that goroutine and waits for
// it to exit.
func (m *Manager) StartBackgroundOptimization(ctx context.Context, fetchTasks func() []task.Task, interval time.Duration) (stop func(), err error) {
	if interval <= 0 {
		return nil, taskerr.New(taskerr.KindInvalidInput, "manager.StartBackgroundOptimization", "interval must be positive")
	}

	bgCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(bgCtx)

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				m.runOptimizationPass(gctx, fetchTasks())
			}
		}
	})

	stop = func() {
		cancel()
		_ = g.Wait()
	}

	return stop, nil
}

func (m *Manager) runOptimizationPass(ctx context.Context, tasks []task.Task) {
	if len(tasks) == 0 {
		return
	}
	if err := validateInput("manager.backgroundOptimization", tasks, m.cfg.Analyzer.MaxChainLength); err != nil {
		m.logger.WarnContext(ctx, "background optimization skipped an invalid task snapshot", "error", err)

		return
	}

	result, err := m.analyzer.Analyze(ctx, tasks)
	if err != nil {
		return
	}

	g, err := graph.Build(tasks, result.Edges)
	if err != nil {
		return
	}

	for _, c := range sequencer.DetectConflicts(g, tasks) {
		m.listener.emitConflictDetected(c)
	}
}
