package hw

import "gbcore/hw/hwio"

func ldrr(op []uint8, c *CPU, _ *hwio.Table) int {
	dst, src := (op[0]>>3)&7, op[0]&7
	c.setReg8(dst, c.reg8(src))
	if dst == 6 || src == 6 {
		return 8
	}
	return 4
}

func ldrn(op []uint8, c *CPU, _ *hwio.Table) int {
	dst := (op[0] >> 3) & 7
	c.setReg8(dst, c.Fetch8())
	return cost(dst, 8, 12)
}

// indAddr returns the address for LD (rr),A and LD A,(rr): BC, DE, HL
// then increment HL, HL then decrement HL.
func (c *CPU) indAddr(op uint8) uint16 {
	switch (op >> 4) & 3 {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		hl := c.HL()
		c.SetHL(hl + 1)
		return hl
	}
	hl := c.HL()
	c.SetHL(hl - 1)
	return hl
}

func ldIndA(op []uint8, c *CPU, bus *hwio.Table) int {
	bus.Write8(c.indAddr(op[0]), c.A)
	return 8
}

func ldAInd(op []uint8, c *CPU, bus *hwio.Table) int {
	c.A = bus.Read8(c.indAddr(op[0]))
	return 8
}

func ldhnA(_ []uint8, c *CPU, bus *hwio.Table) int {
	bus.Write8(0xFF00|uint16(c.Fetch8()), c.A)
	return 12
}

func ldhAn(_ []uint8, c *CPU, bus *hwio.Table) int {
	c.A = bus.Read8(0xFF00 | uint16(c.Fetch8()))
	return 12
}

func ldhcA(_ []uint8, c *CPU, bus *hwio.Table) int {
	bus.Write8(0xFF00|uint16(c.C), c.A)
	return 8
}

func ldhAc(_ []uint8, c *CPU, bus *hwio.Table) int {
	c.A = bus.Read8(0xFF00 | uint16(c.C))
	return 8
}

func ldnnA(_ []uint8, c *CPU, bus *hwio.Table) int {
	bus.Write8(c.fetch16(), c.A)
	return 16
}

func ldAnn(_ []uint8, c *CPU, bus *hwio.Table) int {
	c.A = bus.Read8(c.fetch16())
	return 16
}

func ldrrnn(op []uint8, c *CPU, _ *hwio.Table) int {
	c.setReg16(op[0], c.fetch16())
	return 12
}

func ldnnSP(_ []uint8, c *CPU, bus *hwio.Table) int {
	hwio.Write16(bus, c.fetch16(), c.SP)
	return 20
}

func ldSPHL(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.SP = c.HL()
	return 8
}

func ldHLSPe(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.SetHL(c.addSP(c.Fetch8()))
	return 12
}

// addSP returns SP plus the signed offset e. Flags are computed on the low
// byte, as an unsigned addition.
func (c *CPU) addSP(e uint8) uint16 {
	sp := c.SP
	c.setFlags(false, false,
		(sp&0x0F)+uint16(e&0x0F) > 0x0F,
		(sp&0xFF)+uint16(e) > 0xFF)
	return sp + uint16(int8(e))
}

func push(op []uint8, c *CPU, _ *hwio.Table) int {
	var val uint16
	if (op[0]>>4)&3 == 3 {
		val = c.AF()
	} else {
		val = c.reg16(op[0])
	}
	c.push16(val)
	return 16
}

func pop(op []uint8, c *CPU, _ *hwio.Table) int {
	val := c.pop16()
	if (op[0]>>4)&3 == 3 {
		// The low nibble of F doesn't exist.
		c.SetAF(val & 0xFFF0)
	} else {
		c.setReg16(op[0], val)
	}
	return 12
}
