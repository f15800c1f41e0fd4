package mbc

import "fmt"

var ROMOnly = Desc{
	Name: "ROM",
	Load: loadROMOnly,
}

// romOnly has no bank switching: writes to ROM are ignored.
type romOnly struct{}

func (romOnly) romWrite(uint16, uint8) {}

func (romOnly) saveRegs() []byte { return nil }

func (romOnly) loadRegs(regs []byte) error {
	if len(regs) != 0 {
		return fmt.Errorf("unexpected registers: %x", regs)
	}
	return nil
}

func loadROMOnly(c *Cart) error {
	c.init(romOnly{})
	return nil
}
