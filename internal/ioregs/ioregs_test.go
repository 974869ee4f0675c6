package ioregs

import (
	"testing"

	"github.com/rhaeven/gbacore/internal/devices"
	"github.com/rhaeven/gbacore/internal/keypad"
)

func newTestRegs() *Registers {
	return New(devices.New(), keypad.New())
}

func TestPlainStoreRoundTrip(t *testing.T) {
	r := newTestRegs()
	vals := []uint16{0x0000, 0x0001, 0x5555, 0xAAAA, 0xFFFF}
	offsets := []uint32{offBg0Cnt, offBg1Cnt, offBg2Cnt, offBg3Cnt, offWin0h, offBldcnt}
	for _, off := range offsets {
		for _, v := range vals {
			r.Write16(off, v)
			if got := r.Read16(off); got != v {
				t.Fatalf("offset %#03x: Write16(%#04x) then Read16 = %#04x", off, v, got)
			}
		}
	}
}

// TestDispcntIsPlainStoreNotOrInto is spec.md §8 scenario 4, with the
// corrected behavior: the second write fully replaces the first, it
// does not OR with it.
func TestDispcntIsPlainStoreNotOrInto(t *testing.T) {
	r := newTestRegs()
	r.Write16(offDispcnt, 0x1234)
	r.Write16(offDispcnt, 0x0F0F)
	if got := r.Read16(offDispcnt); got != 0x0F0F {
		t.Fatalf("DISPCNT = %#04x, want 0x0f0f (plain store, not 0x1f3f or-into)", got)
	}
}

func TestIfWriteOneToClear(t *testing.T) {
	r := newTestRegs()
	r.Devices.Intc.Raise(0x000F)
	r.Write16(offIf, 0x0005) // clear bits 0 and 2
	if got := r.Read16(offIf); got != 0x000A {
		t.Fatalf("IF = %#04x, want 0x000a", got)
	}
}

func TestImeIsBoolean(t *testing.T) {
	r := newTestRegs()
	r.Write16(offIme, 0x0001)
	if r.Read16(offIme) != 1 {
		t.Fatalf("IME should read back 1 after writing 1")
	}
	r.Write16(offIme, 0x0000)
	if r.Read16(offIme) != 0 {
		t.Fatalf("IME should read back 0 after writing 0")
	}
}

func TestTimerLowIsReloadOnWriteHighIsPlainStore(t *testing.T) {
	r := newTestRegs()
	r.Write16(timerBase+0, 0x1000) // TM0CNT_L
	r.Write16(timerBase+2, 0x0080) // TM0CNT_H: enable bit

	ch := &r.Devices.Timers.Channels[0]
	if ch.Data != 0x1000 || ch.Initial != 0x1000 {
		t.Fatalf("TM0CNT_L write should set both Data and Initial, got Data=%#04x Initial=%#04x", ch.Data, ch.Initial)
	}
	if got := r.Read16(timerBase + 2); got != 0x0080 {
		t.Fatalf("TM0CNT_H = %#04x, want 0x0080 (plain store)", got)
	}
	r.Write16(timerBase+0, 0x2000)
	if ch.Data != 0x2000 || ch.Initial != 0x2000 {
		t.Fatalf("second TM0CNT_L write should reload again")
	}
}

func TestKeyinputDefaultsToAllReleased(t *testing.T) {
	r := newTestRegs()
	if got := r.Read16(offKeyinput); got != 0xFFFF {
		t.Fatalf("KEYINPUT default = %#04x, want 0xffff", got)
	}
}

func TestHaltcntSetsHaltRequested(t *testing.T) {
	r := newTestRegs()
	if r.HaltRequested {
		t.Fatalf("HaltRequested should start false")
	}
	r.Write16(offHaltcnt, 0x0000)
	if !r.HaltRequested {
		t.Fatalf("writing HALTCNT should set HaltRequested")
	}
}

func TestCanonicalizationWrapsAtIoSize(t *testing.T) {
	r := newTestRegs()
	r.Write16(offBg0Cnt, 0xABCD)
	if got := r.Read16(offBg0Cnt + ioSize); got != 0xABCD {
		t.Fatalf("aliased offset (mod 0x400) should read the same register, got %#04x", got)
	}
}
