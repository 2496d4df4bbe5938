// Package registry lazily builds and supervises one keepalive.Worker per
// key, sharing it across concurrent callers that ask for the same key and
// forgetting the key once every such caller's context has ended. Forgetting
// a key does not stop its worker's supervisor.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/samthor/keepalive"
)

// BuildFunc constructs the payload for a fresh worker keyed by key. handle
// is a freshly allocated Handle the payload must embed or otherwise expose
// via Payload.Handle.
type BuildFunc[K comparable, R any] func(key K, handle *keepalive.Handle) keepalive.Payload[R]

// Manager owns the set of live, keyed workers.
type Manager[K comparable, R any] struct {
	build BuildFunc[K, R]
	grace time.Duration

	mu      sync.Mutex
	entries map[K]*entry[R]
}

type entry[R any] struct {
	worker *keepalive.Worker[R]
	active int
	timer  *time.Timer
}

// Option configures a Manager at construction time.
type Option[K comparable, R any] func(*Manager[K, R])

// WithGracePeriod delays removal of a key's worker for d after its last
// caller's context ends, so a caller arriving immediately after another
// reuses the existing worker instead of paying the build cost again.
func WithGracePeriod[K comparable, R any](d time.Duration) Option[K, R] {
	return func(m *Manager[K, R]) { m.grace = d }
}

// New builds a Manager that constructs workers via build.
func New[K comparable, R any](build BuildFunc[K, R], opts ...Option[K, R]) *Manager[K, R] {
	m := &Manager[K, R]{
		build:   build,
		entries: map[K]*entry[R]{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the shared Worker for key, building and spinning it up if
// this is the first live caller for that key. The worker is kept alive, at
// minimum, until ctx is done; Get itself does not block on ctx, only on the
// underlying Worker.SpinUp.
func (m *Manager[K, R]) Get(ctx context.Context, key K) (*keepalive.Worker[R], error) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		handle := keepalive.NewHandle()
		e = &entry[R]{
			worker: keepalive.New(m.build(key, handle)),
		}
		m.entries[key] = e
	}
	e.active++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	m.mu.Unlock()

	var once sync.Once
	release := func() { once.Do(func() { m.release(key, e) }) }

	go func() {
		<-ctx.Done()
		release()
	}()

	if err := e.worker.SpinUp(); err != nil {
		release()
		return nil, err
	}

	return e.worker, nil
}

// release drops one caller's claim on e. Once the claim count reaches zero
// it schedules e's removal from the registry after the grace period, so a
// key with no live callers is eventually forgotten and the next Get builds
// a fresh worker.
func (m *Manager[K, R]) release(key K, e *entry[R]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.active--
	if e.active > 0 {
		return
	}

	if m.grace <= 0 {
		if m.entries[key] == e {
			delete(m.entries, key)
		}
		return
	}

	e.timer = time.AfterFunc(m.grace, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.entries[key] == e && e.active == 0 {
			delete(m.entries, key)
		}
	})
}

// Len reports the number of keys currently tracked, live or in their grace
// period. It exists for tests and diagnostics.
func (m *Manager[K, R]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
