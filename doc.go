// Package taskgraphcore is an autonomous task dependency and scheduling
// engine: it infers dependencies between loosely-specified tasks, builds a
// directed graph with cycle detection and critical-path timing, and
// generates a conflict-free parallel execution sequence.
//
// The four components mirror the package layout:
//
//	task/      — the read-only input data model (Task, CandidateEdge)
//	analyzer/  — infers CandidateEdges from task metadata
//	graph/     — builds, validates and times the dependency graph
//	sequencer/ — detects conflicts and generates a parallel Sequence
//	manager/   — orchestrates the above with caching and events
//
// Collaborators are expected to talk to manager.Manager exclusively.
package taskgraphcore
