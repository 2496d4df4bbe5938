// Package controlplane exposes a set of supervised keepalive workers over a
// websocket: connecting clients receive a snapshot of every worker's
// lifecycle status followed by a live stream of transitions, and may send
// restart commands back, subject to a rate limit.
package controlplane

import "github.com/samthor/keepalive"

// Source adapts a single supervised worker for observation by a Handler. It
// is untyped over the worker's result type, since a Handler serves many
// differently-typed workers from one process.
type Source struct {
	// Name identifies the worker in status events and restart commands.
	Name string

	// Status returns the worker's current lifecycle state.
	Status func() keepalive.ThreadStatus

	// Restart requests the worker restart, or spins it up if it is not
	// already running.
	Restart func() error
}

// Observe builds a Source around w.
func Observe[R any](w *keepalive.Worker[R]) Source {
	return Source{
		Name:    w.Payload().Name(),
		Status:  w.Handle().Status,
		Restart: w.Restart,
	}
}
