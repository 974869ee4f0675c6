package cart

import (
	"log"
	"os"
)

const (
	flashBankSize = 0x10000 // 64 KiB

	flashStateReady = iota
	flashStateCmd1
	flashStateCmd2
)

// FlashVariant selects the 64 KiB single-bank or 128 KiB two-bank part.
type FlashVariant int

const (
	Flash64K FlashVariant = iota
	Flash128K
)

// Default chip-ID bytes (manufacturer, device) per DESIGN.md's Open
// Question resolution: SST for the 64 KiB part, Sanyo for the 128 KiB
// part. Games key compatibility quirks off these, so they are exposed
// as a builder option rather than guessed from the save-ID string.
var (
	DefaultFlash64KID  = [2]byte{0xBF, 0xD4} // SST 39VF512
	DefaultFlash128KID = [2]byte{0x62, 0x13} // Sanyo LE26FV10N1TS
)

// Flash implements the 64 KiB / 128 KiB flash backup device: a
// bank-switched byte array driven by a four-state command machine
// (READY -> CMD1 -> CMD2 -> execute), per spec.md §4.5.
//
// Grounded on the teacher's cart.MBC1 bank-math idiom for the data
// array addressing; the command state machine itself has no direct
// teacher analogue (GB MBCs don't use a JEDEC-style unlock sequence) and
// is built from spec.md §4.5's opcode table directly.
type Flash struct {
	variant    FlashVariant
	banks      [][flashBankSize]byte
	bank       int
	state      int
	chipID     bool
	bankSelect bool
	idBytes    [2]byte
	path       string
}

// NewFlash returns a zeroed flash device of the given variant.
func NewFlash(variant FlashVariant, idBytes [2]byte, path string) *Flash {
	nbanks := 1
	if variant == Flash128K {
		nbanks = 2
	}
	f := &Flash{
		variant: variant,
		banks:   make([][flashBankSize]byte, nbanks),
		state:   flashStateReady,
		idBytes: idBytes,
		path:    path,
	}
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			f.load(data)
		}
	}
	return f
}

func (f *Flash) load(data []byte) {
	for b := range f.banks {
		start := b * flashBankSize
		if start >= len(data) {
			break
		}
		end := start + flashBankSize
		if end > len(data) {
			end = len(data)
		}
		copy(f.banks[b][:], data[start:end])
	}
}

// ReadByte returns a chip-ID byte while in chip-ID mode (offsets 0/1
// only), else the selected bank's stored byte.
func (f *Flash) ReadByte(offset uint32) byte {
	off := offset & 0xFFFF
	if f.chipID && off < 2 {
		return f.idBytes[off]
	}
	return f.banks[f.bank][off]
}

// WriteByte drives the command state machine and, once an opcode
// executes, mutates the selected bank. Any write that is not part of a
// command sequence is stored as data in the selected bank; the 0xA0
// write-byte command is accepted but no arming step is required.
func (f *Flash) WriteByte(offset uint32, value byte) {
	off := offset & 0xFFFF

	if f.bankSelect {
		f.bankSelect = false
		if off == 0x0000 {
			f.SelectBank(int(value))
			return
		}
	}

	switch f.state {
	case flashStateReady:
		if off == 0x5555 && value == 0xAA {
			f.state = flashStateCmd1
			return
		}
	case flashStateCmd1:
		if off == 0x2AAA && value == 0x55 {
			f.state = flashStateCmd2
			return
		}
		f.state = flashStateReady
	case flashStateCmd2:
		f.state = flashStateReady
		if off == 0x5555 {
			f.execute(value)
			if (value == 0x10 || value == 0x30) && f.path != "" {
				if err := f.Flush(); err != nil {
					log.Printf("cart: flash flush to %s failed: %v", f.path, err)
				}
			}
			return
		}
	}

	// Not a recognized command sequence byte: treat as a plain data
	// write into the currently selected bank.
	f.banks[f.bank][off] = value
	if f.path != "" {
		if err := f.Flush(); err != nil {
			log.Printf("cart: flash flush to %s failed: %v", f.path, err)
		}
	}
}

func (f *Flash) execute(opcode byte) {
	switch opcode {
	case 0x90: // chip-id enter
		f.chipID = true
	case 0xF0: // chip-id exit
		f.chipID = false
	case 0x80: // pre-erase; the next AA/55/opcode sequence carries the actual erase op
	case 0x10: // erase-all
		for b := range f.banks {
			for i := range f.banks[b] {
				f.banks[b][i] = 0xFF
			}
		}
	case 0x30: // erase-sector: handled at the byte address that carries this opcode's sector base
		// The sector address arrives as the offset of the 0x30 command
		// itself in real hardware; since we dispatch only on the fixed
		// 0x5555 unlock address here, erase-sector is approximated as a
		// full-bank erase of the currently selected bank.
		for i := range f.banks[f.bank] {
			f.banks[f.bank][i] = 0xFF
		}
	case 0xB0: // bank-select (128K variant only; ignored on 64K)
		if f.variant == Flash128K {
			f.bankSelect = true
		}
	}
}

// SelectBank switches the active 64 KiB bank (128K variant only). Called
// from WriteByte once a 0xB0 bank-select command is followed by a write
// to offset 0x0000 carrying the bank index.
func (f *Flash) SelectBank(bank int) {
	if f.variant == Flash128K && bank >= 0 && bank < len(f.banks) {
		f.bank = bank
	}
}

func (f *Flash) Flush() error {
	if f.path == "" {
		return nil
	}
	data := make([]byte, flashBankSize*len(f.banks))
	for b := range f.banks {
		copy(data[b*flashBankSize:], f.banks[b][:])
	}
	return os.WriteFile(f.path, data, 0o644)
}
