// Package chanwork adapts a channel-draining function into a
// keepalive.Payload, for the common case where a supervised work body's job
// is simply "consume a channel of events until told to stop". It notifies
// the worker's Handle as Up as soon as the consumer begins pulling.
package chanwork

import (
	"context"
	"iter"

	"github.com/samthor/keepalive"
)

// Func processes events pulled from the channel passed to New. It is called
// once per ThreadFunc invocation; the iterator it receives can only be
// ranged over once and yields until the channel closes, ctx is done, or the
// range loop's body returns false.
type Func[E any] func(ctx context.Context, events iter.Seq[E]) error

// New builds a keepalive.Payload[error] around fn, in, and ctx. Each
// supervisor iteration calls fn once with a fresh iterator over in; Handle's
// NotifyUp is called the moment fn begins ranging over it. The payload uses
// keepalive.DefaultOnExit as its retry policy; wrap the result (e.g. in a
// small struct embedding it, overriding OnExit) for custom retry behaviour.
func New[E any](name string, handle *keepalive.Handle, ctx context.Context, in <-chan E, fn Func[E]) keepalive.Payload[error] {
	return &payload[E]{name: name, handle: handle, ctx: ctx, in: in, fn: fn}
}

type payload[E any] struct {
	name   string
	handle *keepalive.Handle
	ctx    context.Context
	in     <-chan E
	fn     Func[E]
}

func (p *payload[E]) Name() string            { return p.name }
func (p *payload[E]) Handle() *keepalive.Handle { return p.handle }

func (p *payload[E]) ThreadFunc() error {
	notified := false

	events := func(yield func(E) bool) {
		if !notified {
			notified = true
			p.handle.NotifyUp()
		}

		for {
			select {
			case <-p.ctx.Done():
				return
			case next, ok := <-p.in:
				if !ok {
					return
				}
				if !yield(next) {
					return
				}
			}
		}
	}

	return p.fn(p.ctx, events)
}

func (p *payload[E]) OnExit(outcome keepalive.ExitOutcome[error]) keepalive.RetryMethod {
	return keepalive.DefaultOnExit(outcome)
}
