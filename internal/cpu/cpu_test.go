package cpu

import "testing"

func TestStubStartsNotHalted(t *testing.T) {
	s := &Stub{}
	if s.Halted() {
		t.Fatalf("Stub should start not halted")
	}
}

func TestStubSetHalted(t *testing.T) {
	s := &Stub{}
	s.SetHalted(true)
	if !s.Halted() {
		t.Fatalf("SetHalted(true) should make Halted() true")
	}
}

func TestStubSignalIRQClearsHalted(t *testing.T) {
	s := &Stub{}
	s.SetHalted(true)
	s.SignalIRQ()
	if s.Halted() {
		t.Fatalf("SignalIRQ should clear the halted flag")
	}
}

var _ Core = (*Stub)(nil)
