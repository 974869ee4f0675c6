// Package cpu names the boundary this core shares with the ARM7TDMI
// decoder/executor, which lives outside this module (spec.md §1). It
// does not decode or execute any instruction; it only carries the two
// CPU-visible facts the bus and driver loop depend on: the halted flag
// HALTCNT sets, and the point where a pending IRQ becomes observable.
package cpu

// Core is the narrow contract the bus and driver loop need from a host
// CPU core. A real ARM7TDMI implementation satisfies this from outside
// this module; Stub below is a trivial in-module implementation used by
// the driver loop and tests.
type Core interface {
	// Halted reports whether the CPU is power-down halted (HALTCNT).
	Halted() bool
	// SetHalted sets or clears the halted flag.
	SetHalted(halted bool)
	// SignalIRQ notifies the core that a pending, enabled interrupt is
	// visible; a real core takes the IRQ vector at its next instruction
	// boundary. The stub just clears the halted flag, which is the one
	// externally-observable effect spec.md §5 requires of this step.
	SignalIRQ()
}

// Stub is a minimal Core used where no full CPU core is wired in: the
// driver loop's tests, and cmd/gbacore before a real core is attached.
type Stub struct {
	halted bool
}

func (s *Stub) Halted() bool { return s.halted }

func (s *Stub) SetHalted(halted bool) { s.halted = halted }

func (s *Stub) SignalIRQ() { s.halted = false }
