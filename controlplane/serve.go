package controlplane

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/samthor/keepalive/internal/idleshutdown"
)

// ServeOptions configures ListenAndServe.
type ServeOptions struct {
	// Addr is the address to listen on. If empty, uses the PORT env var, or
	// 8080 if that is unset or invalid.
	Addr string

	// ServeAll binds all interfaces rather than just localhost, when Addr
	// is unspecified.
	ServeAll bool

	// Handler is served over h2c. Defaults to http.DefaultServeMux.
	Handler http.Handler

	// IdleTimeout, if positive, causes ListenAndServe to return once no
	// request has been in flight for that long.
	IdleTimeout time.Duration
}

// ListenAndServe serves opts.Handler over HTTP with H2C support, optionally
// evicting itself after a period of inactivity.
func ListenAndServe(opts *ServeOptions) error {
	if opts == nil {
		opts = &ServeOptions{}
	}

	addr := opts.Addr
	if addr == "" {
		port, _ := strconv.Atoi(os.Getenv("PORT"))
		if port <= 0 {
			port = 8080
		}
		host := "localhost"
		if opts.ServeAll {
			host = ""
		}
		addr = host + ":" + strconv.Itoa(port)
	}

	handler := opts.Handler
	if handler == nil {
		handler = http.DefaultServeMux
	}

	var idle *idleshutdown.IdleShutdown
	if opts.IdleTimeout > 0 {
		idle = idleshutdown.New(opts.IdleTimeout)
		handler = idle.Wrap(handler)
	}

	handler = H2C(handler)

	server := &http.Server{Addr: addr, Handler: handler}

	if idle != nil {
		go func() {
			<-idle.Done()
			server.Close()
			server.Shutdown(context.Background())
		}()
	}

	err := server.ListenAndServe()
	if idle != nil {
		idle.Err(err)
	}
	return err
}
