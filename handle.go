package keepalive

// Handle is the shareable façade bundling the lifecycle gate and the command
// channel. It is a reference type: copies of a Handle value (or copies of a
// *Handle) observe the same underlying state. A Handle is typically embedded
// in a user's payload type and also held by the Worker and, if used, by the
// controlplane package.
type Handle struct {
	gate *gate
	cmd  *cmdSlot
}

// NewHandle builds a fresh Handle in the Down state with an idle command slot.
func NewHandle() *Handle {
	return &Handle{
		gate: newGate(),
		cmd:  &cmdSlot{},
	}
}

// Status returns the current lifecycle state.
func (h *Handle) Status() ThreadStatus {
	return h.gate.Status()
}

// IsRunning reports whether the worker is in {Up, Pending}.
func (h *Handle) IsRunning() bool {
	return h.gate.IsRunning()
}

// ThreadGuard is the entry point for any caller that wants to become the
// supervisor; see SPEC_FULL.md §4.1.
func (h *Handle) ThreadGuard() bool {
	return h.gate.ThreadGuard()
}

// NotifyUp publishes Up. Called by the work body once it is ready to serve.
func (h *Handle) NotifyUp() {
	h.gate.NotifyUp()
}

// SetAborting publishes Aborting. Meaningful only from Up.
func (h *Handle) SetAborting() {
	h.gate.SetAborting()
}

// SetDown transitions Aborting to Down. Called by the supervisor exactly
// once, on exit.
func (h *Handle) SetDown() {
	h.gate.SetDown()
}

// WaitForUp blocks until the state is Up or Down.
func (h *Handle) WaitForUp() {
	h.gate.WaitForUp()
}

// revertPending undoes a Down->Pending transition after a spawn failure,
// restoring I1 (see SPEC_FULL.md §7).
func (h *Handle) revertPending() {
	h.gate.revertPending()
}

// SetCmd writes cmd to the shared slot. Writing Restart while not running is
// rejected and returns SetCmdNoop; all other writes return Set.
func (h *Handle) SetCmd(cmd Cmd) SetCmdResult {
	return h.cmd.set(cmd, h.IsRunning())
}

// CheckAndResetCmd reads the current command, resetting Restart back to Noop.
func (h *Handle) CheckAndResetCmd() Cmd {
	return h.cmd.checkAndReset()
}
