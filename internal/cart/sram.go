package cart

import (
	"log"
	"os"
)

const sramSize = 0x8000 // 32 KiB

// Sram is a flat 32 KiB battery-backed buffer mapped at 0x0E000000.
//
// Grounded on the teacher's cart.MBC1 external-RAM bank-math idiom
// (buffer indexed by addr-base, masked to the device's size) collapsed
// to SRAM's single always-selected bank.
type Sram struct {
	buffer [sramSize]byte
	path   string // sidecar path; empty means in-memory only
}

// NewSram returns a zeroed SRAM device. If path is non-empty, Flush
// persists to it; an existing sidecar at path is loaded immediately.
func NewSram(path string) *Sram {
	s := &Sram{path: path}
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			copy(s.buffer[:], data)
		}
	}
	return s
}

func (s *Sram) ReadByte(offset uint32) byte {
	return s.buffer[offset&(sramSize-1)]
}

func (s *Sram) WriteByte(offset uint32, value byte) {
	s.buffer[offset&(sramSize-1)] = value
	if s.path != "" {
		// Per-write flush (DESIGN.md Open Question resolution). Per
		// spec.md §7, a flush failure logs at warn and continues with
		// the in-memory state rather than propagating.
		if err := s.Flush(); err != nil {
			log.Printf("cart: sram flush to %s failed: %v", s.path, err)
		}
	}
}

func (s *Sram) Flush() error {
	if s.path == "" {
		return nil
	}
	return os.WriteFile(s.path, s.buffer[:], 0o644)
}
