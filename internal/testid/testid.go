// Package testid generates short unique identifiers for test payloads that
// implement keepalive.Instrumented. It is not imported by the core library
// itself, only by tests and test fixtures, per SPEC_FULL.md's treatment of
// identifier generation as an external collaborator of the core.
package testid

import (
	"math/rand/v2"
	"strconv"

	"github.com/taylorza/go-lfsr"
)

// Generator yields a stream of distinct, non-zero identifiers.
type Generator struct {
	ch <-chan string
}

// New starts a Generator backed by a 32-bit linear feedback shift register,
// adapted from the reference stack's own ID-generator (see DESIGN.md).
func New() *Generator {
	gen := lfsr.NewLfsr32(rand.Uint32())
	out := make(chan string)

	go func() {
		for {
			id, restarted := gen.Next()
			if restarted {
				panic("testid: exhausted ~32 bits of identifiers")
			}
			if id == 0 || id&0x80000000 == 0x80000000 {
				continue // don't allow zero or anything with the top bit set
			}
			out <- strconv.FormatUint(uint64(id), 10)
		}
	}()

	return &Generator{ch: out}
}

// Next returns the next identifier.
func (g *Generator) Next() string {
	return <-g.ch
}
