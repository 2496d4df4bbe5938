package keepalive

import "time"

// Payload is the capability set a caller implements to describe one
// supervised work body. R is the result type thread_func produces, which
// the retry policy may inspect.
type Payload[R any] interface {
	// Name is a stable identifier used for diagnostics and goroutine
	// labelling (see SPEC_FULL.md §4.4).
	Name() string

	// ThreadFunc is the body. It returns when done, or panics on failure;
	// the supervisor isolates either outcome.
	ThreadFunc() R

	// Handle exposes the shared lifecycle/command state.
	Handle() *Handle

	// OnExit is the retry policy, consulted after every ThreadFunc
	// invocation.
	OnExit(outcome ExitOutcome[R]) RetryMethod
}

// ExitOutcome is the result observed by the supervisor after one invocation
// of the work body.
type ExitOutcome[R any] struct {
	// Completed is true when the body returned normally; Result holds its
	// return value. When false, the body panicked and Recovered holds the
	// recovered value (the argument to recover()).
	Completed bool
	Result    R
	Recovered any
}

// RetryMethod is the decision an OnExit policy returns.
type RetryMethod struct {
	// Abort, when true, tells the supervisor to stop looping and publish
	// Down. When false, After is the delay before the next iteration.
	Abort bool
	After time.Duration
}

// RetryAfter builds a RetryMethod requesting another iteration after d.
func RetryAfter(d time.Duration) RetryMethod {
	return RetryMethod{After: d}
}

// AbortRetry builds a RetryMethod that stops the supervisor loop.
func AbortRetry() RetryMethod {
	return RetryMethod{Abort: true}
}

// defaultRetryAfterCompleted and defaultRetryAfterUnwound are the default
// policy's delays, per SPEC_FULL.md §6: Retry{2000ms} after a normal return,
// Retry{0} after a panic.
const (
	defaultRetryAfterCompleted = 2000 * time.Millisecond
	defaultRetryAfterUnwound   = 0 * time.Millisecond
)

// DefaultOnExit is the retry policy used when a Payload does not need a
// custom one: Retry{2000ms} on a normal return, Retry{0} on a panic.
func DefaultOnExit[R any](outcome ExitOutcome[R]) RetryMethod {
	if outcome.Completed {
		return RetryAfter(defaultRetryAfterCompleted)
	}
	return RetryAfter(defaultRetryAfterUnwound)
}
