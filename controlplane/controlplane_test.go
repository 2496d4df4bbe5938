package controlplane

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samthor/keepalive"
)

func TestH2CServesPlainHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(H2C(mux))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

func TestH2CDefaultsToDefaultServeMuxWhenNil(t *testing.T) {
	if H2C(nil) == nil {
		t.Fatalf("expected a non-nil handler")
	}
}

type stubPayload struct {
	handle *keepalive.Handle
	name   string
}

func (p *stubPayload) Name() string             { return p.name }
func (p *stubPayload) Handle() *keepalive.Handle { return p.handle }
func (p *stubPayload) ThreadFunc() error {
	p.handle.NotifyUp()
	select {}
}
func (p *stubPayload) OnExit(outcome keepalive.ExitOutcome[error]) keepalive.RetryMethod {
	return keepalive.AbortRetry()
}

func TestObserveReflectsWorkerState(t *testing.T) {
	handle := keepalive.NewHandle()
	w := keepalive.New[error](&stubPayload{handle: handle, name: "demo"})

	src := Observe(w)
	if src.Name != "demo" {
		t.Fatalf("expected name %q, got %q", "demo", src.Name)
	}
	if src.Status() != keepalive.Down {
		t.Fatalf("expected Down before spin up, got %v", src.Status())
	}

	if err := w.SpinUp(); err != nil {
		t.Fatalf("SpinUp: %v", err)
	}
	if src.Status() != keepalive.Up {
		t.Fatalf("expected Up after spin up, got %v", src.Status())
	}
}

func TestBuildLimiterDefaultsToUnlimited(t *testing.T) {
	limiter := buildLimiter(nil)
	for i := 0; i < 100; i++ {
		if !limiter.Allow() {
			t.Fatalf("expected an unconfigured limiter to never block")
		}
	}
}

func TestBuildLimiterHonoursConfig(t *testing.T) {
	limiter := buildLimiter(&LimitConfig{Burst: 1, Rate: 0})
	if !limiter.Allow() {
		t.Fatalf("expected the initial burst token to be available")
	}
	if limiter.Allow() {
		t.Fatalf("expected the limiter to reject once the burst is exhausted")
	}
}

func TestHandlerPollLoopBroadcastsTransitions(t *testing.T) {
	handle := keepalive.NewHandle()
	w := keepalive.New[error](&stubPayload{handle: handle, name: "demo"})

	h := &Handler{
		Sources:      func() []Source { return []Source{Observe(w)} },
		PollInterval: time.Millisecond,
	}
	h.init()

	if err := w.SpinUp(); err != nil {
		t.Fatalf("SpinUp: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	listener := h.queue.Join(ctx)
	for {
		ev, ok := listener.Next()
		if !ok {
			t.Fatalf("did not observe the Up transition before the timeout")
		}
		if ev.Name == "demo" && ev.Status == keepalive.Up.String() {
			return
		}
	}
}
