package cart

import "testing"

func makeROMWithValidHeader() []byte {
	rom := make([]byte, headerSize+16)
	copy(rom[0xA0:0xAC], []byte("TESTGAME\x00\x00\x00\x00"))
	copy(rom[0xAC:0xB0], []byte("ABCD"))
	copy(rom[0xB0:0xB2], []byte("01"))
	rom[0xBC] = 0x01
	rom[headerChecksumAt] = headerChecksum(rom)
	return rom
}

func TestParseHeaderValidChecksum(t *testing.T) {
	rom := makeROMWithValidHeader()
	h := ParseHeader(rom)
	if !h.ChecksumOK {
		t.Fatalf("ChecksumOK = false, want true")
	}
	if h.Title != "TESTGAME" {
		t.Fatalf("Title = %q, want TESTGAME", h.Title)
	}
	if h.GameCode != "ABCD" {
		t.Fatalf("GameCode = %q, want ABCD", h.GameCode)
	}
	if h.MakerCode != "01" {
		t.Fatalf("MakerCode = %q, want 01", h.MakerCode)
	}
}

func TestParseHeaderNeverFailsOnBadChecksum(t *testing.T) {
	rom := makeROMWithValidHeader()
	rom[headerChecksumAt] ^= 0xFF // corrupt it
	h := ParseHeader(rom) // must not panic or error
	if h.ChecksumOK {
		t.Fatalf("ChecksumOK = true, want false for corrupted checksum")
	}
}

func TestParseHeaderNeverFailsOnTooSmallROM(t *testing.T) {
	h := ParseHeader([]byte{0x01, 0x02})
	if h.ChecksumOK {
		t.Fatalf("ChecksumOK = true on a too-small ROM")
	}
	if h.Title != "" {
		t.Fatalf("Title = %q, want empty on a too-small ROM", h.Title)
	}
}
