package controlplane

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/samthor/keepalive"
	"github.com/samthor/keepalive/internal/queue"
	"golang.org/x/sync/errgroup"
)

const defaultPollInterval = 500 * time.Millisecond

// restartRequest is the only inbound command a client may send.
type restartRequest struct {
	Restart string `json:"restart"`
}

// Handler serves the control-plane websocket protocol described in the
// package doc comment.
type Handler struct {
	// Sources returns the current set of workers to observe and control.
	// It is called on every new connection and on every poll tick, so it
	// should be cheap (e.g. backed by a registry.Manager snapshot or a
	// fixed slice).
	Sources func() []Source

	// PollInterval controls how often Sources is polled for status
	// changes to broadcast. Defaults to 500ms.
	PollInterval time.Duration

	// RestartLimit optionally limits how often a single connection may
	// issue restart commands. A connection that exceeds it has its
	// excess commands silently dropped.
	RestartLimit *LimitConfig

	// SkipOriginVerify allows any origin to open the websocket, not just
	// the serving origin.
	SkipOriginVerify bool

	once  sync.Once
	queue *queue.Queue
}

func (h *Handler) init() {
	h.once.Do(func() {
		if h.PollInterval <= 0 {
			h.PollInterval = defaultPollInterval
		}
		h.queue = queue.New()
		go h.pollLoop()
	})
}

// pollLoop runs for the lifetime of the process, broadcasting a
// queue.StatusEvent each time a Source's status differs from what was last
// observed.
func (h *Handler) pollLoop() {
	last := map[string]keepalive.ThreadStatus{}
	for {
		for _, s := range h.Sources() {
			st := s.Status()
			if prev, ok := last[s.Name]; !ok || prev != st {
				last[s.Name] = st
				h.queue.Push(queue.StatusEvent{Name: s.Name, Status: st.String()})
			}
		}
		time.Sleep(h.PollInterval)
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.init()

	options := &websocket.AcceptOptions{InsecureSkipVerify: h.SkipOriginVerify}
	sock, err := websocket.Accept(w, r, options)
	if err != nil {
		http.Error(w, "could not set up websocket", http.StatusBadRequest)
		return
	}

	t, cancel := SocketJSON(r.Context(), sock)
	cancel(h.runSession(t))
}

func (h *Handler) runSession(t Transport) error {
	ctx := t.Context()
	listener := h.queue.Join(ctx)
	limiter := buildLimiter(h.RestartLimit)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		for _, s := range h.Sources() {
			if err := t.SendStatus(queue.StatusEvent{Name: s.Name, Status: s.Status().String()}); err != nil {
				return err
			}
		}
		for {
			ev, ok := listener.Next()
			if !ok {
				return context.Cause(egCtx)
			}
			if err := t.SendStatus(ev); err != nil {
				return err
			}
		}
	})

	eg.Go(func() error {
		for {
			in, err := t.ReadRestart()
			if err != nil {
				return err
			}
			if in.Restart == "" || !limiter.Allow() {
				continue
			}
			for _, s := range h.Sources() {
				if s.Name == in.Restart {
					s.Restart()
					break
				}
			}
		}
	})

	return eg.Wait()
}
