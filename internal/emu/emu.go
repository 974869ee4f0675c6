// Package emu is the driver loop: the one place that owns a Bus, a
// cartridge, the shared IoDevices aggregate, and a CPU core, and steps
// them together per spec.md §5.
//
// Grounded on the teacher's Machine (internal/emu/emu.go), which plays
// the same "own everything, expose Step" role; the GBA's stepping order
// is fixed (GPU, timers, DMA, sound) rather than the GB's PPU-drives-
// everything shape, so Step here fans out explicitly instead of letting
// one device call back into the others.
package emu

import (
	"log"

	"github.com/rhaeven/gbacore/internal/bus"
	"github.com/rhaeven/gbacore/internal/cart"
	"github.com/rhaeven/gbacore/internal/coreerr"
	"github.com/rhaeven/gbacore/internal/cpu"
	"github.com/rhaeven/gbacore/internal/devices"
	"github.com/rhaeven/gbacore/internal/ioregs"
	"github.com/rhaeven/gbacore/internal/irq"
	"github.com/rhaeven/gbacore/internal/keypad"
)

// Machine owns every shared piece of emulator state and drives it
// forward one cycle budget at a time.
type Machine struct {
	cfg Config

	Cpu     cpu.Core
	Devices *devices.IoDevices
	Keypad  *keypad.Keypad
	Io      *ioregs.Registers
	Bus     *bus.Bus
	Cart    *cart.Cartridge
}

// New returns a Machine with devices, keypad, and the I/O register file
// wired together, and a Stub CPU core. No cartridge is loaded yet; call
// LoadCartridge before Step.
func New(cfg Config) *Machine {
	d := devices.New()
	k := keypad.New()
	io := ioregs.New(d, k)
	return &Machine{
		cfg:     cfg,
		Cpu:     &cpu.Stub{},
		Devices: d,
		Keypad:  k,
		Io:      io,
	}
}

// LoadCartridge builds a cartridge from opts and binds a fresh Bus to
// it and to the Machine's existing I/O register file.
func (m *Machine) LoadCartridge(opts ...cart.Option) error {
	if m.cfg.SaveType != 0 {
		opts = append(opts, cart.SaveType(cart.BackupType(m.cfg.SaveType)))
	}
	c, err := cart.New(opts...)
	if err != nil {
		return coreerr.NewCartridgeLoadError("loading cartridge", err)
	}
	m.Cart = c
	m.Bus = bus.New(m.Io, c)
	return nil
}

// SetButtons forwards the current pressed-button bitmask to the keypad.
func (m *Machine) SetButtons(pressed uint16) {
	m.Keypad.SetPressed(pressed)
}

// Step advances every synced device by cycles cycles, in the fixed
// order spec.md §5 mandates (GPU, timers, DMA, sound), merges any IRQ
// bits they raised into the interrupt controller exactly once at the
// end of the budget, and signals the CPU core if an enabled interrupt
// is now pending. It also applies a HALTCNT write observed during the
// budget and wakes a halted core once an enabled interrupt has its flag
// set ((IE&IF)!=0), whether or not IME is set.
func (m *Machine) Step(cycles int) {
	var raised irq.Bitmask
	m.Devices.Enter()
	for _, d := range m.Devices.Synced() {
		d.Step(cycles, m.Bus, &raised)
	}
	m.Devices.Exit()

	m.Devices.Intc.Raise(raised)

	if m.Io.HaltRequested {
		m.Cpu.SetHalted(true)
		m.Io.HaltRequested = false
	}
	if m.Devices.Intc.Pending() {
		m.Cpu.SignalIRQ()
	}
	if m.Cpu.Halted() && m.Devices.Intc.Enable&m.Devices.Intc.Flags != 0 {
		m.Cpu.SetHalted(false)
	}

	if m.cfg.Trace {
		log.Printf("emu: step cycles=%d raised=%#04x if=%#04x halted=%v",
			cycles, uint16(raised), uint16(m.Devices.Intc.Flags), m.Cpu.Halted())
	}
}
