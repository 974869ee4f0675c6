// Package devices owns IoDevices, the shared aggregate spec.md §3
// describes: gpu, intc, 4 timers, 4 dma channels, and sound, handed to
// the I/O register file and to the driver loop by pointer.
//
// Grounded on spec.md §3/§9 directly — no single teacher file owns an
// equivalent aggregate; the teacher's Bus struct plays this role by
// embedding PPU/APU state inline. We follow that single-owner-by-pointer
// shape but factor it into its own package because spec.md names
// IoDevices as a first-class type independently referenced by both the
// register file and the driver loop.
package devices

import (
	"github.com/rhaeven/gbacore/internal/apu"
	"github.com/rhaeven/gbacore/internal/busiface"
	"github.com/rhaeven/gbacore/internal/dma"
	"github.com/rhaeven/gbacore/internal/gpu"
	"github.com/rhaeven/gbacore/internal/irq"
	"github.com/rhaeven/gbacore/internal/timer"
)

// SyncedIoDevice is the contract spec.md §4.6 names: given a cycle
// budget, the bus, and a mutable IRQ bitmask, advance internal state and
// optionally raise interrupts.
type SyncedIoDevice interface {
	Step(cycles int, bus busiface.Bus, irqs *irq.Bitmask)
}

// IoDevices is the shared aggregate. It is handed around by pointer;
// entered guards against the aliasing bug spec.md §9 calls out
// (two live mutable entries into the aggregate at once) by panicking
// rather than silently corrupting state.
type IoDevices struct {
	Gpu    *gpu.Gpu
	Intc   *irq.Controller
	Timers *timer.Timers
	Dma    *dma.Controller
	Sound  *apu.Sound

	entered bool
}

// New constructs a fresh, idle IoDevices aggregate.
func New() *IoDevices {
	return &IoDevices{
		Gpu:    gpu.New(),
		Intc:   &irq.Controller{},
		Timers: timer.New(),
		Dma:    dma.New(),
		Sound:  apu.New(),
	}
}

// Enter marks the aggregate as in-use. It panics if already entered: a
// component re-entering the aggregate while another holds it is a bug,
// per spec.md §9, not something to paper over.
func (d *IoDevices) Enter() {
	if d.entered {
		panic("devices: IoDevices re-entered while already in use")
	}
	d.entered = true
}

// Exit releases the in-use marker set by Enter.
func (d *IoDevices) Exit() {
	d.entered = false
}

// Synced returns the four SyncedIoDevice members in the fixed stepping
// order spec.md §5 mandates: GPU, timers, DMA, sound.
func (d *IoDevices) Synced() [4]SyncedIoDevice {
	return [4]SyncedIoDevice{d.Gpu, d.Timers, d.Dma, d.Sound}
}
