package keepalive

// Instrumented is an optional capability a Payload may implement to observe
// SpinUp's internal enter/exit sequencing. It is detected with a type
// assertion rather than a build tag, since Go has no conditional-compilation
// mechanism usable across a public API boundary; production payloads
// normally do not implement it. See SPEC_FULL.md §4.5 and §6.
type Instrumented interface {
	// NextTestID returns a fresh identifier to tag one SpinUp call's
	// enter/exit pair. Generation is the payload's concern, not the
	// core's — see internal/testid for a ready-made generator.
	NextTestID() string

	// SendEnter signals that SpinUp has begun, tagged with id.
	SendEnter(id string)

	// SendExit signals that SpinUp is returning, tagged with id, reporting
	// whether this caller was the claimant (ThreadGuard returned true).
	SendExit(id string, isSpinUp bool)
}

// asInstrumented returns payload's Instrumented capability, if implemented.
func asInstrumented[R any](payload Payload[R]) (Instrumented, bool) {
	i, ok := any(payload).(Instrumented)
	return i, ok
}
