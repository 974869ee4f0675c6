package gpu

import (
	"testing"

	"github.com/rhaeven/gbacore/internal/irq"
)

func TestDispstatFlagsTrackTiming(t *testing.T) {
	g := New()
	if g.Dispstat()&dispstatVBlank != 0 {
		t.Fatalf("VBlank flag set at line 0")
	}
	var bits irq.Bitmask
	g.Step(hblankAt, nil, &bits)
	if g.Dispstat()&dispstatHBlank == 0 {
		t.Fatalf("HBlank flag not set after entering hblank window")
	}
}

func TestVBlankIRQRaisedAtLine160(t *testing.T) {
	g := New()
	g.SetDispstat(dispstatVBlIRQ)
	var bits irq.Bitmask
	g.Step(cyclesPerLine*visibleLines, nil, &bits)
	if bits&irq.VBlank == 0 {
		t.Fatalf("VBlank bit not raised entering line 160")
	}
	if g.Vcount() != visibleLines {
		t.Fatalf("Vcount() = %d, want %d", g.Vcount(), visibleLines)
	}
}

func TestNoIRQWithoutEnable(t *testing.T) {
	g := New()
	var bits irq.Bitmask
	g.Step(cyclesPerLine*totalLines, nil, &bits)
	if bits != 0 {
		t.Fatalf("bits = %#x, want 0 with no DISPSTAT enables set", bits)
	}
}

func TestVcountWrapsAtTotalLines(t *testing.T) {
	g := New()
	var bits irq.Bitmask
	g.Step(cyclesPerLine*totalLines, nil, &bits)
	if g.Vcount() != 0 {
		t.Fatalf("Vcount() = %d after full frame, want 0", g.Vcount())
	}
}

func TestSetDispstatPreservesFlagBits(t *testing.T) {
	g := New()
	g.Step(hblankAt, nil, new(irq.Bitmask))
	before := g.Dispstat() & 0x0007
	g.SetDispstat(0x00FF) // bits 0..2 written as 1; VCOUNT setting (bits 8..15) kept at 0
	after := g.Dispstat() & 0x0007
	if before != after {
		t.Fatalf("flag bits changed across SetDispstat: before=%#x after=%#x", before, after)
	}
}
