package emu

import (
	"testing"

	"github.com/rhaeven/gbacore/internal/cart"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m := New(Config{})
	if err := m.LoadCartridge(cart.Buffer(make([]byte, 0x200)), cart.WithoutBackupToFile()); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	return m
}

func TestStepAdvancesGpuAndRaisesVBlankIRQ(t *testing.T) {
	m := newTestMachine(t)
	m.Devices.Intc.MasterEnable = true
	m.Devices.Intc.Enable = 1 // VBlank bit
	m.Io.Write16(0x004, 1<<3) // DISPSTAT: VBlank IRQ enable

	const cyclesPerFrame = 1232 * 228
	m.Step(cyclesPerFrame) // exactly one full frame: VBlank edge at line 160 fires within it

	if m.Devices.Intc.Flags&1 == 0 {
		t.Fatalf("IF VBlank bit should be set after a full frame with VBlank IRQ enabled")
	}
}

func TestHaltcntWriteHaltsCpuUntilInterruptPending(t *testing.T) {
	m := newTestMachine(t)
	m.Io.Write16(0x301, 0) // HALTCNT
	m.Step(1)
	if !m.Cpu.Halted() {
		t.Fatalf("CPU should be halted after a HALTCNT write")
	}

	m.Devices.Intc.MasterEnable = true
	m.Devices.Intc.Enable = 1
	m.Devices.Intc.Flags = 1
	m.Step(1)
	if m.Cpu.Halted() {
		t.Fatalf("CPU should resume once an enabled interrupt is pending")
	}
}

func TestSetButtonsForwardsToKeypad(t *testing.T) {
	m := newTestMachine(t)
	m.SetButtons(1) // ButtonA
	if got := m.Keypad.KeyInput(); got&1 != 0 {
		t.Fatalf("KEYINPUT bit 0 should be clear (pressed) after SetButtons(ButtonA)")
	}
}
