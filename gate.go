package keepalive

import (
	"sync"
	"time"
)

// pollInterval bounds the worst-case latency of a missed broadcast. It is
// defensive only: correctness never depends on it firing.
const pollInterval = 10 * time.Millisecond

// ThreadStatus is one of the four lifecycle states a Handle's gate can be in.
type ThreadStatus int

const (
	// Down means no supervisor goroutine exists for this worker.
	Down ThreadStatus = iota
	// Pending means a caller has claimed the right to spawn the supervisor,
	// which is starting but has not yet signalled readiness.
	Pending
	// Up means the supervisor goroutine exists and the work body has called
	// NotifyUp at least once.
	Up
	// Aborting means the supervisor is winding down after a terminal retry
	// decision; the terminal Down publication has not yet occurred.
	Aborting
)

func (s ThreadStatus) String() string {
	switch s {
	case Down:
		return "Down"
	case Pending:
		return "Pending"
	case Up:
		return "Up"
	case Aborting:
		return "Aborting"
	default:
		return "Unknown"
	}
}

// gate is the lifecycle state machine described in SPEC_FULL.md §4.1. Every
// transition closes the current generation channel and installs a fresh one,
// which stands in for a condition variable's broadcast: anything blocked on
// the old channel wakes, re-locks, and re-checks the predicate.
type gate struct {
	mu     sync.Mutex
	status ThreadStatus
	gen    chan struct{}
}

func newGate() *gate {
	return &gate{
		status: Down,
		gen:    make(chan struct{}),
	}
}

// broadcast must be called under mu. It wakes every waiter blocked on the
// current generation channel and installs a new one for the next wait.
func (g *gate) broadcast() {
	close(g.gen)
	g.gen = make(chan struct{})
}

// Status returns a read view of the current state.
func (g *gate) Status() ThreadStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// IsRunning reports whether the worker is in {Up, Pending}.
func (g *gate) IsRunning() bool {
	switch g.Status() {
	case Up, Pending:
		return true
	default:
		return false
	}
}

// ThreadGuard is the entry point for any caller that wants to become the
// supervisor. It returns true exactly for the one caller responsible for
// spawning the supervisor goroutine. A caller that arrives while another
// supervisor is already Pending never claims, even if that supervisor's
// spawn later fails and reverts the state to Down — only a caller arriving
// after that revert, or one that was itself waiting out an Aborting
// handoff, is eligible to claim the resulting Down state.
func (g *gate) ThreadGuard() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.status {
	case Down:
		g.status = Pending
		g.broadcast()
		return true
	case Up:
		return false
	case Aborting:
		g.await(Aborting)
		if g.status == Down {
			g.status = Pending
			g.broadcast()
			return true
		}
		return false // Up: a racing earlier supervisor won
	default: // Pending
		g.await(Pending)
		return false // Up or Down either way: this caller did not claim
	}
}

// await must be called under mu. It blocks (with a bounded periodic
// wake-up) until the state is no longer current, re-locking before it
// returns.
func (g *gate) await(current ThreadStatus) {
	for g.status == current {
		gen := g.gen
		g.mu.Unlock()
		select {
		case <-gen:
		case <-time.After(pollInterval):
		}
		g.mu.Lock()
	}
}

// NotifyUp publishes Up. Idempotent when already Up.
func (g *gate) NotifyUp() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status == Up {
		return
	}
	g.status = Up
	g.broadcast()
}

// SetAborting publishes Aborting. Only meaningful from Up; otherwise a no-op.
func (g *gate) SetAborting() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != Up {
		return
	}
	g.status = Aborting
	g.broadcast()
}

// SetDown transitions Aborting to Down. Other source states are ignored so
// that a double call cannot violate the single-instance invariant.
func (g *gate) SetDown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != Aborting {
		return
	}
	g.status = Down
	g.broadcast()
}

// revertPending undoes a Down->Pending transition after a spawn failure,
// restoring I1 (see SPEC_FULL.md §7, Start failure).
func (g *gate) revertPending() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status != Pending {
		return
	}
	g.status = Down
	g.broadcast()
}

// WaitForUp blocks until the state is Up or Down, returning unconditionally
// on Down so a caller whose supervisor aborted does not wedge.
func (g *gate) WaitForUp() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		switch g.status {
		case Up, Down:
			return
		default:
			gen := g.gen
			g.mu.Unlock()
			select {
			case <-gen:
			case <-time.After(pollInterval):
			}
			g.mu.Lock()
		}
	}
}
