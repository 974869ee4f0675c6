// Package ioregs is the I/O register file: the 1 KiB shadow buffer and
// write-policy dispatch table spec.md §4.3 describes, sitting in front
// of the shared IoDevices aggregate plus the keypad and the handful of
// registers that belong to neither (WAITCNT, POSTFLG, HALTCNT).
//
// Grounded on the teacher's Bus struct, which likewise centralizes every
// memory-mapped register write behind one dispatch point rather than
// scattering policy across callers; generalized here from the GB's
// dozen-odd registers to the GBA's offset table (spec.md §6) and its
// five write policies (spec.md §4.3) instead of the GB's simpler
// "special-case a few, plain-store the rest".
package ioregs

import (
	"github.com/rhaeven/gbacore/internal/devices"
	"github.com/rhaeven/gbacore/internal/irq"
	"github.com/rhaeven/gbacore/internal/keypad"
)

// Register offsets, relative to the I/O base 0x04000000 (spec.md §6).
const (
	offDispcnt  = 0x000
	offDispstat = 0x004
	offVcount   = 0x006
	offBg0Cnt   = 0x008
	offBg1Cnt   = 0x00A
	offBg2Cnt   = 0x00C
	offBg3Cnt   = 0x00E
	offBg0Hofs  = 0x010
	offBg0Vofs  = 0x012
	offBg1Hofs  = 0x014
	offBg1Vofs  = 0x016
	offBg2Hofs  = 0x018
	offBg2Vofs  = 0x01A
	offBg3Hofs  = 0x01C
	offBg3Vofs  = 0x01E
	offBg2PaStart = 0x020 // BG2PA..BG2PD, 4 x uint16
	offBg2XStart  = 0x028 // BG2X_L/H, BG2Y_L/H, 4 x uint16
	offBg3PaStart = 0x030
	offBg3XStart  = 0x038
	offWin0h    = 0x040
	offWin1h    = 0x042
	offWin0v    = 0x044
	offWin1v    = 0x046
	offWinin    = 0x048
	offWinout   = 0x04A
	offMosaic   = 0x04C
	offBldcnt   = 0x050
	offBldalpha = 0x052
	offBldy     = 0x054

	soundBase = 0x060
	soundEnd  = 0x0A8

	dmaBase = 0x0B0
	dmaEnd  = 0x0E0

	timerBase = 0x100
	timerEnd  = 0x110

	offKeyinput = 0x130
	offKeycnt   = 0x132

	offIe      = 0x200
	offIf      = 0x202
	offWaitcnt = 0x204
	offIme     = 0x208

	offPostflg = 0x300
	offHaltcnt = 0x301
)

// ioSize is the size of the canonicalized shadow buffer: offsets wrap
// modulo this per spec.md §9 item 5 (IO_BASE canonicalization), so any
// alias of the 0x04000000 page lands on the same shadow byte.
const ioSize = 0x400

// Registers is the I/O register file.
type Registers struct {
	shadow [ioSize]byte // backing store for registers with no dedicated device field

	Devices *devices.IoDevices
	Keypad  *keypad.Keypad

	waitcnt  uint16
	postflg  bool

	// HaltRequested is set by a HALTCNT write and consumed by the driver
	// loop; spec.md §4.3 lists HALTCNT as "ignored" from the register
	// file's own point of view (it stores nothing), but the CPU's halt
	// state is a real side effect owned by the driver loop, not this
	// package, so the signal is surfaced here rather than swallowed.
	HaltRequested bool
}

// New returns a Registers bound to the given shared devices and keypad.
func New(d *devices.IoDevices, k *keypad.Keypad) *Registers {
	r := &Registers{Devices: d, Keypad: k}
	r.Keypad.SetPressed(0)
	return r
}

func canon(offset uint32) uint32 { return offset % ioSize }

// Read16 returns the current value of the register at offset.
func (r *Registers) Read16(offset uint32) uint16 {
	offset = canon(offset)
	switch {
	case offset == offDispcnt:
		return r.Devices.Gpu.Dispcnt
	case offset == offDispstat:
		return r.Devices.Gpu.Dispstat()
	case offset == offVcount:
		return r.Devices.Gpu.Vcount()
	case offset == offBg0Cnt:
		return r.Devices.Gpu.Bgcnt[0]
	case offset == offBg1Cnt:
		return r.Devices.Gpu.Bgcnt[1]
	case offset == offBg2Cnt:
		return r.Devices.Gpu.Bgcnt[2]
	case offset == offBg3Cnt:
		return r.Devices.Gpu.Bgcnt[3]
	case offset == offWin0h:
		return r.Devices.Gpu.Win0h
	case offset == offWin1h:
		return r.Devices.Gpu.Win1h
	case offset == offWin0v:
		return r.Devices.Gpu.Win0v
	case offset == offWin1v:
		return r.Devices.Gpu.Win1v
	case offset == offWinin:
		return r.Devices.Gpu.Winin
	case offset == offWinout:
		return r.Devices.Gpu.Winout
	case offset == offMosaic:
		return r.Devices.Gpu.Mosaic
	case offset == offBldcnt:
		return r.Devices.Gpu.Bldcnt
	case offset == offBldalpha:
		return r.Devices.Gpu.Bldalpha
	case offset == offBldy:
		return r.Devices.Gpu.Bldy
	case offset >= soundBase && offset < soundEnd:
		return r.Devices.Sound.Read16(offset - soundBase)
	case offset >= dmaBase && offset < dmaEnd:
		return r.Devices.Dma.Read16(offset - dmaBase)
	case offset >= timerBase && offset < timerEnd:
		return r.readTimer(offset - timerBase)
	case offset == offKeyinput:
		return r.Keypad.KeyInput()
	case offset == offKeycnt:
		return r.Keypad.Cnt
	case offset == offIe:
		return uint16(r.Devices.Intc.Enable)
	case offset == offIf:
		return uint16(r.Devices.Intc.Flags)
	case offset == offWaitcnt:
		return r.waitcnt
	case offset == offIme:
		return boolToU16(r.Devices.Intc.MasterEnable)
	case offset == offPostflg:
		return boolToU16(r.postflg)
	default:
		return r.shadowRead16(offset)
	}
}

// Write16 applies offset's write policy to value (spec.md §4.3).
func (r *Registers) Write16(offset uint32, value uint16) {
	offset = canon(offset)
	switch {
	// Corrected per spec.md §9 item 3: DISPCNT/DISPSTAT/BGxCNT are
	// plain-store, not or-into. Or-into here would make a second write
	// unable to ever clear a bit the first write set.
	case offset == offDispcnt:
		r.Devices.Gpu.Dispcnt = value
	case offset == offDispstat:
		r.Devices.Gpu.SetDispstat(value)
	case offset == offVcount:
		// read-only
	case offset == offBg0Cnt:
		r.Devices.Gpu.Bgcnt[0] = value
	case offset == offBg1Cnt:
		r.Devices.Gpu.Bgcnt[1] = value
	case offset == offBg2Cnt:
		r.Devices.Gpu.Bgcnt[2] = value
	case offset == offBg3Cnt:
		r.Devices.Gpu.Bgcnt[3] = value
	case offset == offBg0Hofs:
		r.Devices.Gpu.BgHofs[0] = value
	case offset == offBg0Vofs:
		r.Devices.Gpu.BgVofs[0] = value
	case offset == offBg1Hofs:
		r.Devices.Gpu.BgHofs[1] = value
	case offset == offBg1Vofs:
		r.Devices.Gpu.BgVofs[1] = value
	case offset == offBg2Hofs:
		r.Devices.Gpu.BgHofs[2] = value
	case offset == offBg2Vofs:
		r.Devices.Gpu.BgVofs[2] = value
	case offset == offBg3Hofs:
		r.Devices.Gpu.BgHofs[3] = value
	case offset == offBg3Vofs:
		r.Devices.Gpu.BgVofs[3] = value
	case offset >= offBg2PaStart && offset < offBg2PaStart+8:
		r.Devices.Gpu.Bg2p[(offset-offBg2PaStart)/2] = value
	case offset >= offBg2XStart && offset < offBg2XStart+4:
		r.Devices.Gpu.Bg2x[(offset-offBg2XStart)/2] = value
	case offset >= offBg2XStart+4 && offset < offBg2XStart+8:
		r.Devices.Gpu.Bg2y[(offset-(offBg2XStart+4))/2] = value
	case offset >= offBg3PaStart && offset < offBg3PaStart+8:
		r.Devices.Gpu.Bg3p[(offset-offBg3PaStart)/2] = value
	case offset >= offBg3XStart && offset < offBg3XStart+4:
		r.Devices.Gpu.Bg3x[(offset-offBg3XStart)/2] = value
	case offset >= offBg3XStart+4 && offset < offBg3XStart+8:
		r.Devices.Gpu.Bg3y[(offset-(offBg3XStart+4))/2] = value
	case offset == offWin0h:
		r.Devices.Gpu.Win0h = value
	case offset == offWin1h:
		r.Devices.Gpu.Win1h = value
	case offset == offWin0v:
		r.Devices.Gpu.Win0v = value
	case offset == offWin1v:
		r.Devices.Gpu.Win1v = value
	case offset == offWinin:
		r.Devices.Gpu.Winin = value
	case offset == offWinout:
		r.Devices.Gpu.Winout = value
	case offset == offMosaic:
		r.Devices.Gpu.Mosaic = value
	case offset == offBldcnt:
		r.Devices.Gpu.Bldcnt = value
	case offset == offBldalpha:
		r.Devices.Gpu.Bldalpha = value
	case offset == offBldy:
		r.Devices.Gpu.Bldy = value
	case offset >= soundBase && offset < soundEnd:
		r.Devices.Sound.Write16(offset-soundBase, value)
	case offset >= dmaBase && offset < dmaEnd:
		r.Devices.Dma.Write16(offset-dmaBase, value)
	case offset >= timerBase && offset < timerEnd:
		r.writeTimer(offset-timerBase, value)
	case offset == offKeyinput:
		// read-only from the bus's perspective
	case offset == offKeycnt:
		r.Keypad.Cnt = value
	case offset == offIe:
		r.Devices.Intc.Enable = asBitmask(value)
	case offset == offIf:
		// write-1-to-clear
		r.Devices.Intc.Acknowledge(asBitmask(value))
	case offset == offWaitcnt:
		r.waitcnt = value
	case offset == offIme:
		r.Devices.Intc.MasterEnable = value&1 != 0
	case offset == offPostflg:
		r.postflg = value&1 != 0
	case offset == offHaltcnt:
		// HALTCNT is a byte register; a 16-bit write still triggers halt
		// (spec.md §4.3 lists it "ignored" at the register-store level,
		// but the halt side effect belongs to the driver loop).
		r.HaltRequested = true
	default:
		r.shadowWrite16(offset, value)
	}
}

func (r *Registers) readTimer(rel uint32) uint16 {
	idx := rel / 4
	if int(idx) >= len(r.Devices.Timers.Channels) {
		return 0
	}
	ch := &r.Devices.Timers.Channels[idx]
	if rel%4 == 0 {
		return ch.Data
	}
	return ch.Ctl
}

func (r *Registers) writeTimer(rel uint32, value uint16) {
	idx := rel / 4
	if int(idx) >= len(r.Devices.Timers.Channels) {
		return
	}
	ch := &r.Devices.Timers.Channels[idx]
	if rel%4 == 0 {
		ch.WriteLow(value)
	} else {
		ch.WriteHigh(value)
	}
}

func (r *Registers) shadowRead16(offset uint32) uint16 {
	lo := r.shadow[offset]
	hi := r.shadow[offset+1]
	return uint16(lo) | uint16(hi)<<8
}

func (r *Registers) shadowWrite16(offset uint32, value uint16) {
	r.shadow[offset] = byte(value)
	r.shadow[offset+1] = byte(value >> 8)
}

func boolToU16(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func asBitmask(v uint16) irq.Bitmask { return irq.Bitmask(v) }
