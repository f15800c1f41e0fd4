package mbc

import (
	"fmt"

	"gbcore/emu/log"
)

var MBC1 = Desc{
	Name: "MBC1",
	Load: loadMBC1,
}

type mbc1 struct {
	*Cart

	romBankLow  uint8 // lower 5 bits of the ROM bank
	romBankHigh uint8 // upper 2 bits of the ROM bank
	mode        uint8 // 0: 2MB ROM/8KB RAM, 1: 512KB ROM/32KB RAM
}

func (m *mbc1) romWrite(off uint16, val uint8) {
	switch {
	case off < 0x2000:
		// RAM enable, the RAM is always enabled.
		return
	case off < 0x4000:
		m.romBankLow = val % 32
	case off < 0x6000:
		if m.mode == 1 {
			m.SelectRAMBank(int(val % 4))
			return
		}
		m.romBankHigh = val % 4
	default:
		m.mode = val % 2
		log.ModCart.DebugZ("MBC1 mode").Uint8("mode", m.mode).End()
	}
	m.remap()
}

func (m *mbc1) remap() {
	bank := int(m.romBankLow)
	if m.mode == 0 {
		bank |= int(m.romBankHigh) << 5
	}
	m.SelectROMBank(bank)
}

func (m *mbc1) saveRegs() []byte {
	return []byte{m.romBankLow, m.romBankHigh, m.mode}
}

func (m *mbc1) loadRegs(regs []byte) error {
	if len(regs) != 3 {
		return fmt.Errorf("invalid registers: %x", regs)
	}
	m.romBankLow = regs[0] % 32
	m.romBankHigh = regs[1] % 4
	m.mode = regs[2] % 2
	return nil
}

func loadMBC1(c *Cart) error {
	c.init(&mbc1{Cart: c})
	return nil
}
