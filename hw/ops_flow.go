package hw

import "gbcore/hw/hwio"

func jp(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.PC = c.fetch16()
	return 16
}

func jpcc(op []uint8, c *CPU, _ *hwio.Table) int {
	addr := c.fetch16()
	if !c.cond(op[0]) {
		return 12
	}
	c.PC = addr
	return 16
}

func jpHL(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.PC = c.HL()
	return 4
}

func jr(_ []uint8, c *CPU, _ *hwio.Table) int {
	e := int8(c.Fetch8())
	c.PC += uint16(e)
	return 12
}

func jrcc(op []uint8, c *CPU, _ *hwio.Table) int {
	e := int8(c.Fetch8())
	if !c.cond(op[0]) {
		return 8
	}
	c.PC += uint16(e)
	return 12
}

// callAddr pushes the return address then jumps to addr.
func (c *CPU) callAddr(addr uint16) {
	c.push16(c.PC)
	c.PC = addr
}

func call(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.callAddr(c.fetch16())
	return 24
}

func callcc(op []uint8, c *CPU, _ *hwio.Table) int {
	addr := c.fetch16()
	if !c.cond(op[0]) {
		return 12
	}
	c.callAddr(addr)
	return 24
}

func ret(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.PC = c.pop16()
	return 16
}

func retcc(op []uint8, c *CPU, _ *hwio.Table) int {
	if !c.cond(op[0]) {
		return 8
	}
	c.PC = c.pop16()
	return 20
}

// reti returns and enables interrupts, without the EI delay.
func reti(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.PC = c.pop16()
	c.imeNext = true
	c.imeNow = true
	return 16
}

func rst(op []uint8, c *CPU, _ *hwio.Table) int {
	c.callAddr(uint16(op[0] & 0x38))
	return 16
}
