package keepalive

import "errors"

// ErrSpawnFailed is wrapped into the error SpinUp/Restart return when the
// runtime could not start the supervisor goroutine. Check with errors.Is.
var ErrSpawnFailed = errors.New("keepalive: failed to spawn supervisor")
