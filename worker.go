package keepalive

import "fmt"

// Worker is the user-visible façade owning a payload and its cached name.
// It is not itself a reference type shared across goroutines the way Handle
// is; callers hold a single *Worker[R] per logical supervised worker.
type Worker[R any] struct {
	payload Payload[R]
	name    string
	log     Logger
}

// Option configures a Worker at construction time.
type Option[R any] func(*Worker[R])

// WithLogger overrides the logger a Worker and its supervisor use, in place
// of the package-wide default (see SetDefaultLogger).
func WithLogger[R any](l Logger) Option[R] {
	return func(w *Worker[R]) {
		if l != nil {
			w.log = l
		}
	}
}

// New builds a Worker around payload.
func New[R any](payload Payload[R], opts ...Option[R]) *Worker[R] {
	w := &Worker[R]{
		payload: payload,
		name:    payload.Name(),
		log:     defaultLogger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Payload returns the underlying payload.
func (w *Worker[R]) Payload() Payload[R] {
	return w.payload
}

// Handle returns the worker's shared Handle.
func (w *Worker[R]) Handle() *Handle {
	return w.payload.Handle()
}

// SpinUp is the idempotent start entry point described in SPEC_FULL.md §4.5.
// It returns nil once the worker is Up (or Down, if the supervisor aborted
// immediately), or a non-nil error, wrapping ErrSpawnFailed, if the
// supervisor goroutine could not be started.
func (w *Worker[R]) SpinUp() error {
	handle := w.payload.Handle()
	instrumented, isInstrumented := asInstrumented(w.payload)

	var id string
	if isInstrumented {
		id = instrumented.NextTestID()
		instrumented.SendEnter(id)
	}

	claimed := handle.ThreadGuard()
	if !claimed {
		if isInstrumented {
			instrumented.SendExit(id, false)
		}
		return nil
	}

	if isInstrumented {
		instrumented.SendExit(id, true)
	}

	w.log.Debug().Str("worker", w.name).Log("spawning supervisor")

	if err := spawnSupervisor(w.payload, w.log); err != nil {
		handle.revertPending()
		w.log.Err().Str("worker", w.name).Err(err).Log("failed to spawn supervisor")
		return fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	handle.WaitForUp()
	return nil
}

// Restart sets the Restart command if the worker is running, otherwise it
// calls SpinUp. It never spawns a second supervisor.
func (w *Worker[R]) Restart() error {
	handle := w.payload.Handle()
	if handle.IsRunning() {
		handle.SetCmd(Restart)
		return nil
	}
	return w.SpinUp()
}
