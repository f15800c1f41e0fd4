package hw

import "gbcore/hw/hwio"

// alu applies the 8-bit operation encoded as code (ADD ADC SUB SBC AND XOR
// OR CP) to A and val.
func (c *CPU) alu(code, val uint8) {
	a := c.A
	switch code & 7 {
	case 0: // ADD
		sum := uint16(a) + uint16(val)
		c.A = uint8(sum)
		c.setFlags(c.A == 0, false, (a&0x0F)+(val&0x0F) > 0x0F, sum > 0xFF)
	case 1: // ADC
		cy := c.carry()
		sum := uint16(a) + uint16(val) + uint16(cy)
		c.A = uint8(sum)
		c.setFlags(c.A == 0, false, (a&0x0F)+(val&0x0F)+cy > 0x0F, sum > 0xFF)
	case 2: // SUB
		c.A = a - val
		c.setFlags(c.A == 0, true, a&0x0F < val&0x0F, a < val)
	case 3: // SBC
		cy := c.carry()
		c.A = a - val - cy
		c.setFlags(c.A == 0, true,
			int(a&0x0F) < int(val&0x0F)+int(cy),
			int(a) < int(val)+int(cy))
	case 4: // AND
		c.A = a & val
		c.setFlags(c.A == 0, false, true, false)
	case 5: // XOR
		c.A = a ^ val
		c.setFlags(c.A == 0, false, false, false)
	case 6: // OR
		c.A = a | val
		c.setFlags(c.A == 0, false, false, false)
	case 7: // CP
		c.setFlags(a == val, true, a&0x0F < val&0x0F, a < val)
	}
}

func alur(op []uint8, c *CPU, _ *hwio.Table) int {
	src := op[0] & 7
	c.alu(op[0]>>3, c.reg8(src))
	return cost(src, 4, 8)
}

func alun(op []uint8, c *CPU, _ *hwio.Table) int {
	c.alu(op[0]>>3, c.Fetch8())
	return 8
}

func inc8(op []uint8, c *CPU, _ *hwio.Table) int {
	idx := (op[0] >> 3) & 7
	v := c.reg8(idx) + 1
	c.setReg8(idx, v)
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, v&0x0F == 0)
	return cost(idx, 4, 12)
}

func dec8(op []uint8, c *CPU, _ *hwio.Table) int {
	idx := (op[0] >> 3) & 7
	v := c.reg8(idx) - 1
	c.setReg8(idx, v)
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, true)
	c.setFlag(FlagH, v&0x0F == 0x0F)
	return cost(idx, 4, 12)
}

func inc16(op []uint8, c *CPU, _ *hwio.Table) int {
	c.setReg16(op[0], c.reg16(op[0])+1)
	return 8
}

func dec16(op []uint8, c *CPU, _ *hwio.Table) int {
	c.setReg16(op[0], c.reg16(op[0])-1)
	return 8
}

func addHL(op []uint8, c *CPU, _ *hwio.Table) int {
	hl, val := c.HL(), c.reg16(op[0])
	sum := uint32(hl) + uint32(val)
	c.SetHL(uint16(sum))
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, (hl&0x0FFF)+(val&0x0FFF) > 0x0FFF)
	c.setFlag(FlagC, sum > 0xFFFF)
	return 8
}

func addSPe(_ []uint8, c *CPU, _ *hwio.Table) int {
	c.SP = c.addSP(c.Fetch8())
	return 16
}
