package timer

import (
	"testing"

	"github.com/rhaeven/gbacore/internal/irq"
)

func TestWriteLowSetsDataAndInitial(t *testing.T) {
	var ch Timer
	ch.WriteLow(0x1234)
	if ch.Data != 0x1234 || ch.Initial != 0x1234 {
		t.Fatalf("Data=%#04x Initial=%#04x, want both 0x1234", ch.Data, ch.Initial)
	}
}

func TestWriteHighLeavesDataAndInitialUnchanged(t *testing.T) {
	var ch Timer
	ch.WriteLow(0x5555)
	ch.WriteHigh(0x00C0)
	if ch.Data != 0x5555 || ch.Initial != 0x5555 {
		t.Fatalf("Data/Initial mutated by WriteHigh: Data=%#04x Initial=%#04x", ch.Data, ch.Initial)
	}
	if ch.Ctl != 0x00C0 {
		t.Fatalf("Ctl = %#04x, want 0x00C0", ch.Ctl)
	}
}

func TestOverflowReloadsAndRaisesIRQ(t *testing.T) {
	ts := New()
	ts.Channels[0].WriteLow(0xFFFE)
	ts.Channels[0].WriteHigh(0x00C0) // prescaler/1, irq enable, start
	var bits irq.Bitmask
	ts.Step(3, nil, &bits) // 0xFFFE->0xFFFF->overflow, reload to 0xFFFE->0xFFFF: verify reload path
	if bits&irq.Timer0 == 0 {
		t.Fatalf("Timer0 bit not raised on overflow")
	}
	if ts.Channels[0].Data != ts.Channels[0].Initial+1 {
		t.Fatalf("Data = %#04x, want reload+1 tick = %#04x", ts.Channels[0].Data, ts.Channels[0].Initial+1)
	}
}

func TestCascadeTicksOnlyOnOverflow(t *testing.T) {
	ts := New()
	ts.Channels[0].WriteLow(0xFFFF)
	ts.Channels[0].WriteHigh(0x0080) // no irq, start, prescaler/1
	ts.Channels[1].WriteLow(0x0000)
	ts.Channels[1].WriteHigh(0x0084) // start, cascade
	var bits irq.Bitmask
	ts.Step(1, nil, &bits) // channel 0 overflows this very cycle
	if ts.Channels[1].Data != 1 {
		t.Fatalf("cascaded Channels[1].Data = %d, want 1 after channel 0 overflow", ts.Channels[1].Data)
	}
}

func TestDisabledTimerDoesNotCount(t *testing.T) {
	ts := New()
	ts.Channels[0].WriteHigh(0x0000) // not started
	var bits irq.Bitmask
	ts.Step(10000, nil, &bits)
	if ts.Channels[0].Data != 0 {
		t.Fatalf("Data = %d, want 0 (timer disabled)", ts.Channels[0].Data)
	}
}
