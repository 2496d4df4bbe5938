package keepalive

import (
	"sync"
	"testing"
)

type instrumentedPayload struct {
	funcPayload[int]

	mu      sync.Mutex
	nextID  int
	entered []string
	exited  []struct {
		id       string
		isSpinUp bool
	}
}

func (p *instrumentedPayload) NextTestID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	return string(rune('a' - 1 + p.nextID))
}

func (p *instrumentedPayload) SendEnter(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entered = append(p.entered, id)
}

func (p *instrumentedPayload) SendExit(id string, isSpinUp bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exited = append(p.exited, struct {
		id       string
		isSpinUp bool
	}{id, isSpinUp})
}

func TestInstrumentedPayloadObservesSpinUpSequence(t *testing.T) {
	handle := NewHandle()
	p := &instrumentedPayload{
		funcPayload: funcPayload[int]{
			name:   "instrumented",
			handle: handle,
			threadFunc: func() int {
				handle.NotifyUp()
				select {}
			},
			onExit: func(ExitOutcome[int]) RetryMethod { return AbortRetry() },
		},
	}
	w := New[int](p)

	if err := w.SpinUp(); err != nil {
		t.Fatalf("SpinUp: %v", err)
	}
	if err := w.SpinUp(); err != nil {
		t.Fatalf("second SpinUp: %v", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.entered) != 2 {
		t.Fatalf("expected two SendEnter calls, got %d", len(p.entered))
	}
	if len(p.exited) != 2 {
		t.Fatalf("expected two SendExit calls, got %d", len(p.exited))
	}
	if !p.exited[0].isSpinUp {
		t.Fatalf("expected the first caller to be the claimant")
	}
	if p.exited[1].isSpinUp {
		t.Fatalf("expected the second caller not to be the claimant")
	}
}
