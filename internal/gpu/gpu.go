// Package gpu models the register-visible half of the GBA's PPU: DISPCNT,
// DISPSTAT, VCOUNT, the four BGxCNT registers, BG scroll/affine offsets,
// window/blend/mosaic registers, and the dot-counter timing that raises
// VBLANK/HBLANK/VCOUNT interrupts. Pixel composition is out of scope
// (spec.md §1) and is not implemented here.
//
// Grounded on internal/ppu/ppu.go's dot-counter + InterruptRequester
// callback shape, generalized from the GB's 456-dot/154-line timing to
// the GBA's 1232-cycle (308 dot x 4 cycles)/228-line timing.
package gpu

import (
	"github.com/rhaeven/gbacore/internal/busiface"
	"github.com/rhaeven/gbacore/internal/irq"
)

const (
	cyclesPerLine  = 1232
	hblankAt       = 960 // cycle within a line at which HBlank begins (240 visible dots * 4)
	visibleLines   = 160
	totalLines     = 228
	dispstatVBlank = 1 << 0
	dispstatHBlank = 1 << 1
	dispstatVCount = 1 << 2
	dispstatVBlIRQ = 1 << 3
	dispstatHBlIRQ = 1 << 4
	dispstatVCtIRQ = 1 << 5
)

// Gpu holds every register the I/O register file dispatches GPU-owned
// fields to, plus the scanline/dot timing that drives VBLANK/HBLANK/
// VCOUNT interrupts.
type Gpu struct {
	Dispcnt  uint16
	dispstat uint16 // low 3 bits (flags) are derived from timing; see Dispstat()
	vcount   uint16

	Bgcnt    [4]uint16
	BgHofs   [4]uint16
	BgVofs   [4]uint16
	Bg2p     [4]uint16 // BG2 affine params (PA/PB/PC/PD)
	Bg3p     [4]uint16 // BG3 affine params
	Bg2x     [2]uint16 // reference point X (low/high halves)
	Bg2y     [2]uint16
	Bg3x     [2]uint16
	Bg3y     [2]uint16

	Win0h, Win1h uint16
	Win0v, Win1v uint16
	Winin        uint16
	Winout       uint16
	Mosaic       uint16

	Bldcnt  uint16
	Bldalpha uint16
	Bldy    uint16

	cycleInLine int
}

// New returns a Gpu with all registers zeroed, VCOUNT at line 0.
func New() *Gpu {
	return &Gpu{}
}

// Dispstat returns the live register value: the stored control/enable
// bits (3..15) plus the flag bits (0..2) computed from current timing.
func (g *Gpu) Dispstat() uint16 {
	v := g.dispstat &^ 0x0007
	if g.vcount >= visibleLines {
		v |= dispstatVBlank
	}
	if g.cycleInLine >= hblankAt {
		v |= dispstatHBlank
	}
	vcountSetting := (g.dispstat >> 8) & 0xFF
	if g.vcount == vcountSetting {
		v |= dispstatVCount
	}
	return v
}

// SetDispstat stores the control/enable bits a write provides. The
// caller (ioregs) is responsible for masking this to the write policy;
// Gpu itself only ever stores bits 3..15, since 0..2 are read-only flags
// recomputed by Dispstat().
func (g *Gpu) SetDispstat(value uint16) {
	g.dispstat = (g.dispstat & 0x0007) | (value &^ 0x0007)
}

// Vcount returns the current scanline, 0..227.
func (g *Gpu) Vcount() uint16 { return g.vcount }

// Step advances the scanline/dot timing by the given number of cycles
// and raises VBLANK/HBLANK/VCOUNT bits in irqs when the corresponding
// interrupt-enable bit in DISPSTAT is set and the matching edge occurs.
// bus is unused here (no compositor reads VRAM/OAM through it in this
// stub) but is part of the SyncedIoDevice contract spec.md §4.6 names.
func (g *Gpu) Step(cycles int, bus busiface.Bus, irqs *irq.Bitmask) {
	for i := 0; i < cycles; i++ {
		wasHblank := g.cycleInLine >= hblankAt
		g.cycleInLine++
		if g.cycleInLine >= cyclesPerLine {
			g.cycleInLine = 0
			g.vcount++
			if g.vcount >= totalLines {
				g.vcount = 0
			}
			if g.vcount == visibleLines && g.dispstat&dispstatVBlIRQ != 0 {
				*irqs |= irq.VBlank
			}
			vcountSetting := (g.dispstat >> 8) & 0xFF
			if g.vcount == vcountSetting && g.dispstat&dispstatVCtIRQ != 0 {
				*irqs |= irq.VCount
			}
		}
		nowHblank := g.cycleInLine >= hblankAt
		if !wasHblank && nowHblank && g.dispstat&dispstatHBlIRQ != 0 {
			*irqs |= irq.HBlank
		}
	}
}
