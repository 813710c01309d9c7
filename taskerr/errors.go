// Package taskerr defines the error taxonomy shared by the analyzer, graph,
// sequencer and manager packages.
//
// Error policy, grounded on the teacher library's sentinel-error discipline
// (core.ErrVertexNotFound, dfs.ErrCycleDetected, builder.ErrTooFewVertices):
//   - Each Kind has one exported package-level sentinel value.
//   - Callers branch on semantics with errors.Is or Is, never string comparison.
//   - Context is attached by New, which returns an *Error carrying the Kind,
//     the operation name and a message, and wrapping the Kind's sentinel; the
//     sentinel itself is never formatted with caller-supplied data.
//   - None of the five kinds below are ever produced via panic.
package taskerr

import "errors"

// Kind classifies a taskerr.Error into one of the five error kinds the core
// specification distinguishes. Kind is a closed enum; callers that need to
// branch on category rather than on a specific sentinel can switch on it.
type Kind int

const (
	// KindInvalidInput marks a malformed task set: empty id, duplicate id,
	// a self-dependency, or a circular chain exceeding the configured maximum
	// length.
	// Recovered only by the caller supplying a corrected task set.
	KindInvalidInput Kind = iota

	// KindUnknownTask marks a reference to a task id absent from the current
	// set. The Analyzer recovers by silently dropping the reference; the
	// Manager surfaces it from UpdateTaskDependencies.
	KindUnknownTask

	// KindCancelled marks an early termination requested by the caller's
	// context. There is no recovery; caches are left untouched.
	KindCancelled

	// KindTimeout marks a bounded step that exceeded its configured budget.
	// Recovered locally by skipping the offending optimization and returning
	// the pre-optimized result with a Degraded marker.
	KindTimeout

	// KindIllegalStateAfterBuild marks an attempt to mutate a sealed Graph.
	// Fatal to the call, never fatal to the process.
	KindIllegalStateAfterBuild
)

// String renders the Kind using the taxonomy's own vocabulary, so log lines
// and error messages agree with the specification's naming.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindUnknownTask:
		return "UnknownTask"
	case KindCancelled:
		return "Cancelled"
	case KindTimeout:
		return "Timeout"
	case KindIllegalStateAfterBuild:
		return "IllegalStateAfterBuild"
	default:
		return "Unknown"
	}
}

// Sentinel errors, one per Kind. Use errors.Is(err, taskerr.ErrInvalidInput)
// to test membership; use errors.As to recover the wrapping *Error and its
// Kind/Context for logging.
var (
	// ErrInvalidInput is returned for malformed input task sets.
	ErrInvalidInput = errors.New("taskgraph: invalid input")

	// ErrUnknownTask is returned when a caller references an id that does
	// not exist in the current task set.
	ErrUnknownTask = errors.New("taskgraph: unknown task")

	// ErrCancelled is returned when a caller-supplied context is done before
	// a long-running operation completes.
	ErrCancelled = errors.New("taskgraph: operation cancelled")

	// ErrTimeout is the sentinel for KindTimeout. Sequencer.Generate does
	// not return it when conflict resolution overruns
	// ConflictResolutionTimeout: it returns the sequence with Degraded set.
	ErrTimeout = errors.New("taskgraph: operation timed out")

	// ErrIllegalStateAfterBuild is the sentinel for
	// KindIllegalStateAfterBuild. graph.Graph.RemoveEdge does not return it:
	// it deletes the arc from a built Graph in place and reports a missing
	// arc with false.
	ErrIllegalStateAfterBuild = errors.New("taskgraph: graph is sealed")
)

// kindToSentinel keeps Kind and the matching sentinel in one place so New
// cannot drift from the table in Kind.String.
var kindToSentinel = map[Kind]error{
	KindInvalidInput:           ErrInvalidInput,
	KindUnknownTask:            ErrUnknownTask,
	KindCancelled:              ErrCancelled,
	KindTimeout:                ErrTimeout,
	KindIllegalStateAfterBuild: ErrIllegalStateAfterBuild,
}

// Error is the concrete error type returned by this module's public
// entry points. It carries a Kind for programmatic branching, an Op naming
// the failing operation (e.g. "graph.Build"), and a human-readable Msg.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	err  error // wrapped sentinel, for errors.Is/errors.As
}

// Error implements the error interface, formatting as "<Op>: <Msg>".
func (e *Error) Error() string {
	if e.Op == "" {
		return e.Msg
	}

	return e.Op + ": " + e.Msg
}

// Unwrap exposes the underlying sentinel so errors.Is(err, taskerr.ErrX)
// keeps working through Error wrapping.
func (e *Error) Unwrap() error {
	return e.err
}

// New builds an *Error of the given Kind, tagging it with the operation name
// and message. The returned error wraps the Kind's sentinel.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, err: kindToSentinel[kind]}
}

// Is reports whether err (or anything it wraps) carries the given Kind.
// It is a convenience wrapper around errors.As for call sites that only
// care about the category, not the specific *Error value.
func Is(err error, kind Kind) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind == kind
	}

	return errors.Is(err, kindToSentinel[kind])
}
