// Package idleshutdown provides a timer that fires once no controlplane
// request has been in flight for a configured duration, so an
// otherwise-idle control plane process can evict itself rather than run
// forever on nothing.
package idleshutdown

import (
	"net/http"
	"sync"
	"time"
)

// IdleShutdown fires Done once no request wrapped via Wrap has been active
// for the configured duration.
type IdleShutdown struct {
	lock   sync.Mutex
	timer  *time.Timer
	wait   time.Duration
	doneCh chan struct{}
	reason error
	active int64
}

// New builds an IdleShutdown that fires after wait of inactivity.
func New(wait time.Duration) *IdleShutdown {
	is := &IdleShutdown{
		wait:   wait,
		timer:  time.NewTimer(wait),
		doneCh: make(chan struct{}),
	}

	go func() {
		<-is.timer.C
		is.lock.Lock()
		defer is.lock.Unlock()
		close(is.doneCh)
	}()

	return is
}

func (is *IdleShutdown) addActive(delta int64) {
	select {
	case <-is.doneCh:
		return
	default:
	}

	is.lock.Lock()
	defer is.lock.Unlock()
	is.timer.Stop()

	is.active += delta
	if is.active < 0 {
		panic("idleshutdown: active request count went negative")
	}

	select {
	case <-is.timer.C:
	default:
		if is.active == 0 {
			is.timer.Reset(is.wait)
		}
	}
}

// Err immediately fires Done, recording err as the Reason. Useful for
// feeding the error returned by http.Server.ListenAndServe or similar.
func (is *IdleShutdown) Err(err error) {
	if err == nil {
		return
	}
	is.lock.Lock()
	defer is.lock.Unlock()
	select {
	case <-is.doneCh:
	default:
		is.reason = err
		close(is.doneCh)
	}
}

// Reason returns any error previously recorded via Err.
func (is *IdleShutdown) Reason() error {
	is.lock.Lock()
	defer is.lock.Unlock()
	return is.reason
}

// Done returns a channel that closes once this IdleShutdown has fired,
// either from inactivity or from a call to Err.
func (is *IdleShutdown) Done() <-chan struct{} {
	return is.doneCh
}

// Wrap wraps h so that the idle timer cannot fire while a request handled
// by h is in flight.
func (is *IdleShutdown) Wrap(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.addActive(1)
		defer is.addActive(-1)
		h.ServeHTTP(w, r)
	})
}
