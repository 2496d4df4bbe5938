package keepalive

import (
	"context"
	"runtime/pprof"
	"time"
)

// policyFailureDelay is the fixed sleep applied when OnExit itself panics,
// per SPEC_FULL.md §4.4 step 3 and §7.
const policyFailureDelay = 1000 * time.Millisecond

// spawnThread starts fn as the supervisor goroutine. It is a package-level
// variable, overridable in tests, to model the "OS cannot create a thread"
// failure mode SPEC_FULL.md §7 requires (Go itself cannot organically fail
// to start a goroutine) — the same test-seam idiom as the teacher's own
// package-level override variables for otherwise-unreachable behaviour.
var spawnThread = func(fn func()) error {
	go fn()
	return nil
}

// invokeThreadFunc runs payload.ThreadFunc() inside a protected call
// boundary, converting a panic into an Unwound outcome.
func invokeThreadFunc[R any](payload Payload[R]) (outcome ExitOutcome[R]) {
	defer func() {
		if r := recover(); r != nil {
			outcome = ExitOutcome[R]{Recovered: r}
		}
	}()
	outcome = ExitOutcome[R]{Completed: true, Result: payload.ThreadFunc()}
	return
}

// invokeOnExit runs payload.OnExit(outcome) inside a protected call
// boundary. policyPanicked is true if OnExit itself panicked, in which case
// recovered holds the recovered value and retry is meaningless.
func invokeOnExit[R any](payload Payload[R], outcome ExitOutcome[R]) (retry RetryMethod, policyPanicked bool, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			policyPanicked = true
			recovered = r
		}
	}()
	retry = payload.OnExit(outcome)
	return
}

// runSupervisor is the supervisor goroutine body: run ThreadFunc in a loop,
// consult OnExit between iterations, and publish the terminal Down
// transition on exit. See SPEC_FULL.md §4.4.
func runSupervisor[R any](payload Payload[R], log Logger) {
	handle := payload.Handle()
	name := payload.Name()

	log.Debug().Str("worker", name).Log("supervisor starting")

	pprof.Do(context.Background(), pprof.Labels("worker", "t:"+name), func(context.Context) {
		for {
			outcome := invokeThreadFunc(payload)
			if !outcome.Completed {
				log.Warning().Str("worker", name).Any("recovered", outcome.Recovered).Log("thread_func panicked")
			}

			retry, policyPanicked, recovered := invokeOnExit(payload, outcome)
			if policyPanicked {
				log.Err().Str("worker", name).Any("recovered", recovered).Log("on_exit panicked, retrying after fixed delay")
				time.Sleep(policyFailureDelay)
				continue
			}

			if retry.Abort {
				log.Err().Str("worker", name).Log("supervisor aborting")
				handle.SetAborting()
				break
			}

			log.Info().Str("worker", name).Dur("after", retry.After).Log("retrying")
			time.Sleep(retry.After)
		}
	})

	if handle.Status() == Pending {
		// The body never called NotifyUp, so the gate is still Pending;
		// publish Down from there so WaitForUp callers are released.
		handle.revertPending()
	} else {
		handle.SetDown()
	}
	log.Debug().Str("worker", name).Log("supervisor stopped")
}

// spawnSupervisor starts the supervisor goroutine for payload.
func spawnSupervisor[R any](payload Payload[R], log Logger) error {
	return spawnThread(func() { runSupervisor(payload, log) })
}
