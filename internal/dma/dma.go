// Package dma names the four DMA channels' register surface. The
// transfer algorithm (address stepping, timing modes, FIFO-request
// triggers) is an external collaborator (spec.md §1); this package only
// stores SAD/DAD/CNT so the I/O register file has somewhere real to
// dispatch DMA0-3 writes to, per spec.md §3's IoDevices.dma field.
//
// Grounded on the teacher's incremental-build convention of wiring a
// register's address before its algorithm (internal/emu/emu.go's
// Milestone-0 "register exists, behavior doesn't yet" shape).
package dma

import (
	"github.com/rhaeven/gbacore/internal/busiface"
	"github.com/rhaeven/gbacore/internal/irq"
)

// Channel is one DMA0-3 register block.
type Channel struct {
	Sad uint32 // source address
	Dad uint32 // destination address
	Cnt uint32 // word count (low half) / control (high half)
}

// Controller is the 4-channel array addressed as a unit.
type Controller struct {
	Channels [4]Channel
}

// New returns four idle channels.
func New() *Controller { return &Controller{} }

// Step is a no-op placeholder satisfying the SyncedIoDevice contract;
// the actual transfer engine is an external collaborator.
func (c *Controller) Step(cycles int, bus busiface.Bus, irqs *irq.Bitmask) {}

const channelSpan = 12 // SAD(4) + DAD(4) + CNT_L(2) + CNT_H(2)

// Read16 reads a 16-bit register at offset, relative to the DMA0SAD base
// (0x0B0), spanning all four channels.
func (c *Controller) Read16(offset uint32) uint16 {
	ch := &c.Channels[offset/channelSpan]
	switch offset % channelSpan {
	case 0:
		return uint16(ch.Sad)
	case 2:
		return uint16(ch.Sad >> 16)
	case 4:
		return uint16(ch.Dad)
	case 6:
		return uint16(ch.Dad >> 16)
	case 8:
		return uint16(ch.Cnt)
	default: // case 10
		return uint16(ch.Cnt >> 16)
	}
}

// Write16 writes a 16-bit register at offset, relative to the DMA0SAD
// base, preserving the untouched half of the 32-bit SAD/DAD/CNT fields.
func (c *Controller) Write16(offset uint32, value uint16) {
	ch := &c.Channels[offset/channelSpan]
	switch offset % channelSpan {
	case 0:
		ch.Sad = (ch.Sad &^ 0xFFFF) | uint32(value)
	case 2:
		ch.Sad = (ch.Sad & 0xFFFF) | uint32(value)<<16
	case 4:
		ch.Dad = (ch.Dad &^ 0xFFFF) | uint32(value)
	case 6:
		ch.Dad = (ch.Dad & 0xFFFF) | uint32(value)<<16
	case 8:
		ch.Cnt = (ch.Cnt &^ 0xFFFF) | uint32(value)
	default: // case 10
		ch.Cnt = (ch.Cnt & 0xFFFF) | uint32(value)<<16
	}
}
