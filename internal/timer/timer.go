// Package timer models the four GBA timer channels: 16-bit counter,
// reload value, and a control register selecting prescaler, cascade
// (count-up) chaining, IRQ-on-overflow, and enable.
//
// Grounded on internal/bus/bus.go's incrementTIMA/timerInput
// falling-edge-on-prescaler-bit idiom, generalized from the GB's single
// timer driven by a shared 16-bit divider to 4 independently prescaled,
// optionally cascaded GBA timers.
package timer

import (
	"github.com/rhaeven/gbacore/internal/busiface"
	"github.com/rhaeven/gbacore/internal/irq"
)

var irqBits = [4]irq.Bitmask{irq.Timer0, irq.Timer1, irq.Timer2, irq.Timer3}

// Timer is a single TMxCNT_L/TMxCNT_H pair plus the running counter.
type Timer struct {
	Data    uint16 // timer_data: current count
	Initial uint16 // initial_data: reload value
	Ctl     uint16 // timer_ctl: bits 0-1 prescaler, 2 cascade, 6 irq enable, 7 start

	sub int // cycle accumulator within the current prescaler period
}

func (t *Timer) enabled() bool    { return t.Ctl&0x80 != 0 }
func (t *Timer) cascade() bool    { return t.Ctl&0x04 != 0 }
func (t *Timer) irqEnabled() bool { return t.Ctl&0x40 != 0 }

func prescalerCycles(ctl uint16) int {
	switch ctl & 0x03 {
	case 0:
		return 1
	case 1:
		return 64
	case 2:
		return 256
	default:
		return 1024
	}
}

// WriteLow implements TMxCNT_L's reload-on-write policy (spec.md §4.3):
// the write sets both the current counter and the reload value.
func (t *Timer) WriteLow(value uint16) {
	t.Data = value
	t.Initial = value
}

// WriteHigh implements TMxCNT_H's plain-store policy: only the control
// bits change; Data and Initial are left alone.
func (t *Timer) WriteHigh(value uint16) {
	t.Ctl = value & 0x00C7
}

// Timers is the 4-channel array the I/O register file and driver loop
// address as a unit.
type Timers struct {
	Channels [4]Timer
}

// New returns four stopped, zeroed timers.
func New() *Timers { return &Timers{} }

// Step advances all four channels by cycles cycles, in channel order so
// that a cascaded channel observes the lower channel's overflow within
// the same call, and raises the matching Timer0-3 bit in irqs on any
// enabled overflow.
func (t *Timers) Step(cycles int, bus busiface.Bus, irqs *irq.Bitmask) {
	for i := 0; i < cycles; i++ {
		overflowedPrev := false
		for idx := range t.Channels {
			ch := &t.Channels[idx]
			if !ch.enabled() {
				overflowedPrev = false
				continue
			}
			tick := false
			if idx > 0 && ch.cascade() {
				tick = overflowedPrev
			} else {
				ch.sub++
				if ch.sub >= prescalerCycles(ch.Ctl) {
					ch.sub = 0
					tick = true
				}
			}
			overflowedPrev = false
			if tick {
				if ch.Data == 0xFFFF {
					ch.Data = ch.Initial
					overflowedPrev = true
					if ch.irqEnabled() {
						*irqs |= irqBits[idx]
					}
				} else {
					ch.Data++
				}
			}
		}
	}
}
