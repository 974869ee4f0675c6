// Package busiface defines the uniform 8/16/32-bit read/write contract
// every addressable region and every synced device implements or
// consumes (spec.md §4.1). It is kept separate from the bus/devices
// packages themselves so that device packages can accept a Bus without
// import cycles back to the system bus that owns them.
package busiface

// Bus is the contract spec.md §4.1 names: six width/direction
// operations over a 32-bit address space.
type Bus interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, value uint8)
	Write16(addr uint32, value uint16)
	Write32(addr uint32, value uint32)
}
