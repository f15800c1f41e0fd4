package hw

import (
	"gbcore/emu/log"
	"gbcore/hw/hwdefs"
	"gbcore/hw/hwio"
)

func nop(_ []uint8, _ *CPU, _ *hwio.Table) int {
	return 4
}

// halt stops the CPU until an interrupt is pending. With interrupts
// disabled the CPU doesn't halt, but the next opcode byte is read twice.
func halt(_ []uint8, c *CPU, _ *hwio.Table) int {
	if c.ime {
		c.halted = true
		log.ModCPU.DebugZ("HALT").End()
	} else {
		c.haltQuirk = true
		log.ModCPU.DebugZ("HALT with IME=0, halt bug armed").End()
	}
	return 4
}

func stop(_ []uint8, c *CPU, bus *hwio.Table) int {
	c.stopped = true
	c.savedLCDC = bus.Read8(hwdefs.AddrLCDC)
	log.ModCPU.DebugZ("STOP").Hex8("lcdc", c.savedLCDC).End()
	return 4
}

func di(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.imeNext = false
	return 4
}

func ei(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.imeNext = true
	return 4
}

// daa adjusts A to a valid BCD value after an addition or a subtraction.
func daa(_ []uint8, c *CPU, _ *hwio.Table) int {
	a := c.A
	carry := c.flag(FlagC)
	var adj uint8
	if !c.flag(FlagN) {
		if c.flag(FlagH) || a&0x0F > 0x09 {
			adj |= 0x06
		}
		if carry || a > 0x99 {
			adj |= 0x60
			carry = true
		}
		a += adj
	} else {
		if c.flag(FlagH) {
			adj |= 0x06
		}
		if carry {
			adj |= 0x60
		}
		a -= adj
	}
	c.A = a
	c.setFlag(FlagZ, a == 0)
	c.setFlag(FlagH, false)
	c.setFlag(FlagC, carry)
	return 4
}

func cpl(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.A = ^c.A
	c.setFlag(FlagN, true)
	c.setFlag(FlagH, true)
	return 4
}

func scf(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, false)
	c.setFlag(FlagC, true)
	return 4
}

func ccf(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, false)
	c.setFlag(FlagC, !c.flag(FlagC))
	return 4
}
