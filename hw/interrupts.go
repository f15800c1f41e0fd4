package hw

import (
	"math/bits"

	"gbcore/emu/log"
	"gbcore/hw/hwdefs"
	"gbcore/hw/hwio"
)

// Interrupt requests interrupt n. It's serviced at the start of a
// following step, once enabled by IE and IME.
func (c *CPU) Interrupt(n hwdefs.IntSource) {
	if n >= hwdefs.NumIntSources {
		log.ModIRQ.ErrorZ("invalid interrupt source").Uint8("n", uint8(n)).End()
		return
	}
	hwio.SetBit8(&c.IF.Value, uint(n))
	log.ModIRQ.DebugZ("interrupt requested").Stringer("src", n).End()
}

// ReadIF returns IF as seen from the bus: the 3 unused bits read as 1.
func (c *CPU) ReadIF(val uint8) uint8 {
	return 0xE0 | val
}

// pendingInterrupt returns the interrupt to service, if any.
func (c *CPU) pendingInterrupt() (hwdefs.IntSource, bool) {
	pending := c.IF.Value & c.IE.Value & hwdefs.IntMask
	if pending == 0 {
		return 0, false
	}
	if c.Priority == hwdefs.LowestFirst {
		return hwdefs.IntSource(bits.TrailingZeros8(pending)), true
	}
	return hwdefs.IntSource(bits.Len8(pending) - 1), true
}

func (c *CPU) service(n hwdefs.IntSource) {
	log.ModIRQ.DebugZ("servicing interrupt").
		Stringer("src", n).
		Hex16("pc", c.PC).
		Hex16("vector", n.Vector()).
		End()

	// Also cancels a pending EI.
	c.ime = false
	c.imeNext = false
	c.imeNow = true

	c.halted = false
	hwio.ClearBit8(&c.IF.Value, uint(n))
	c.push16(c.PC)
	c.PC = n.Vector()
}
