package controlplane

import (
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// H2C wraps h so it can also serve unencrypted HTTP/2 traffic, useful behind
// a TLS-terminating proxy or hosting provider that does its own h2
// upgrade. If h is nil, http.DefaultServeMux is used, since h2c requires a
// non-nil handler.
func H2C(h http.Handler) http.Handler {
	if h == nil {
		h = http.DefaultServeMux
	}
	return h2c.NewHandler(h, &http2.Server{})
}
