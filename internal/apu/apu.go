// Package apu names the sound register surface (tone/noise/wave/direct
// sound FIFOs). Audio synthesis is an external collaborator (spec.md
// §1); this package only stores the registers the I/O register file
// dispatches to, per spec.md §3's IoDevices.sound field.
package apu

import (
	"github.com/rhaeven/gbacore/internal/busiface"
	"github.com/rhaeven/gbacore/internal/irq"
)

// Sound is a flat register-surface stub covering the 0x060-0x0A7 block.
type Sound struct {
	regs [0x48]uint16 // offsets 0x060..0x0A7 in 2-byte units
}

// New returns a Sound with all registers zeroed.
func New() *Sound { return &Sound{} }

// Read16 returns the stored value at the given offset from 0x060.
func (s *Sound) Read16(offset uint32) uint16 {
	idx := offset / 2
	if int(idx) >= len(s.regs) {
		return 0
	}
	return s.regs[idx]
}

// Write16 stores value at the given offset from 0x060.
func (s *Sound) Write16(offset uint32, value uint16) {
	idx := offset / 2
	if int(idx) >= len(s.regs) {
		return
	}
	s.regs[idx] = value
}

// Step is a no-op placeholder satisfying the SyncedIoDevice contract;
// sample synthesis is an external collaborator.
func (s *Sound) Step(cycles int, bus busiface.Bus, irqs *irq.Bitmask) {}
