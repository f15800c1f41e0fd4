package hw

import "gbcore/hw/hwio"

// rot applies the rotate/shift encoded as code (RLC RRC RL RR SLA SRA
// SWAP SRL) to val. Z is set from the result.
func (c *CPU) rot(code, val uint8) uint8 {
	var res, cy uint8
	switch code & 7 {
	case 0: // RLC
		res, cy = val<<1|val>>7, val>>7
	case 1: // RRC
		res, cy = val>>1|val<<7, val&1
	case 2: // RL
		res, cy = val<<1|c.carry(), val>>7
	case 3: // RR
		res, cy = val>>1|c.carry()<<7, val&1
	case 4: // SLA
		res, cy = val<<1, val>>7
	case 5: // SRA
		res, cy = val>>1|val&0x80, val&1
	case 6: // SWAP
		res = val<<4 | val>>4
	case 7: // SRL
		res, cy = val>>1, val&1
	}
	c.setFlags(res == 0, false, false, cy != 0)
	return res
}

// rota is RLCA RRCA RLA RRA: like the CB versions on A, but Z is always
// cleared.
func rota(op []uint8, c *CPU, _ *hwio.Table) int {
	c.A = c.rot((op[0]>>3)&3, c.A)
	c.setFlag(FlagZ, false)
	return 4
}

func cbrot(op []uint8, c *CPU, _ *hwio.Table) int {
	idx := op[1] & 7
	c.setReg8(idx, c.rot(op[1]>>3, c.reg8(idx)))
	return cost(idx, 8, 16)
}

func cbbit(op []uint8, c *CPU, _ *hwio.Table) int {
	idx, bit := op[1]&7, uint(op[1]>>3)&7
	c.setFlag(FlagZ, !hwio.GetBit8(c.reg8(idx), bit))
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, true)
	return cost(idx, 8, 12)
}

func cbres(op []uint8, c *CPU, _ *hwio.Table) int {
	idx, bit := op[1]&7, uint(op[1]>>3)&7
	val := c.reg8(idx)
	hwio.ClearBit8(&val, bit)
	c.setReg8(idx, val)
	return cost(idx, 8, 16)
}

func cbset(op []uint8, c *CPU, _ *hwio.Table) int {
	idx, bit := op[1]&7, uint(op[1]>>3)&7
	val := c.reg8(idx)
	hwio.SetBit8(&val, bit)
	c.setReg8(idx, val)
	return cost(idx, 8, 16)
}
