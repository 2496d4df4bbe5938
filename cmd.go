package keepalive

import "sync"

// Cmd is a control command written by controllers and read by the work body.
type Cmd int

const (
	// Noop is the default, idle command.
	Noop Cmd = iota
	// Restart is an advisory, coalescing pulse requesting the work body
	// restart at its own next convenient point.
	Restart
)

func (c Cmd) String() string {
	switch c {
	case Noop:
		return "Noop"
	case Restart:
		return "Restart"
	default:
		return "Unknown"
	}
}

// SetCmdResult is returned by SetCmd.
type SetCmdResult int

const (
	// Set means the command was stored.
	Set SetCmdResult = iota
	// SetCmdNoop means the write was rejected (Restart requested while not running).
	SetCmdNoop
)

func (r SetCmdResult) String() string {
	switch r {
	case Set:
		return "Set"
	case SetCmdNoop:
		return "Noop"
	default:
		return "Unknown"
	}
}

// cmdSlot is the at-most-one-pending command channel described in
// SPEC_FULL.md §4.2. It is guarded by its own mutex, never acquired together
// with the gate's.
type cmdSlot struct {
	mu  sync.Mutex
	cmd Cmd
}

// set stores cmd and returns Set. running reports whether the worker is
// currently in {Up, Pending}; writing Restart while not running is rejected.
func (c *cmdSlot) set(cmd Cmd, running bool) SetCmdResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cmd == Restart && !running {
		return SetCmdNoop
	}
	c.cmd = cmd
	return Set
}

// checkAndReset reads the current command, resetting it to Noop if it was
// Restart.
func (c *cmdSlot) checkAndReset() Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := c.cmd
	if cmd == Restart {
		c.cmd = Noop
	}
	return cmd
}
