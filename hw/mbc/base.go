package mbc

import (
	"fmt"

	"gbcore/emu/log"
	"gbcore/hw/hwio"
	"gbcore/hw/snapshot"
)

const (
	ROMBankSize = 0x4000
	RAMBankSize = 0x2000

	// NoBank deselects the external RAM window.
	NoBank = -1

	addrCartType = 0x147
	addrRAMSize  = 0x149
)

// ramBanks maps the header RAM size code to a number of 8KB banks.
var ramBanks = map[uint8]int{
	1: 1, // 2KB, rounded up to a full bank
	2: 1,
	3: 4,
	4: 16,
}

// controller is the variant specific part of a cartridge.
type controller interface {
	// romWrite handles a write into ROM space. off is the address the CPU
	// wrote to, in [0, 0x8000).
	romWrite(off uint16, val uint8)

	saveRegs() []byte
	loadRegs(regs []byte) error
}

// Cart owns a ROM image and its external RAM. It exposes three regions to
// the bus: the fixed ROM bank, the switchable ROM bank and the switchable
// RAM bank.
type Cart struct {
	desc Desc
	typ  uint8
	ctrl controller

	rom []byte
	ram []byte

	romBanks []*hwio.Mem
	ramBanks []*hwio.Mem

	rom0 hwio.Device
	romx hwio.Device
	romb hwio.Bank
	ramb hwio.Bank

	romBank int
	ramBank int
}

func newCart(desc Desc, image []byte) *Cart {
	c := &Cart{desc: desc, typ: image[addrCartType], rom: image}

	for i := range len(image) / ROMBankSize {
		c.romBanks = append(c.romBanks, &hwio.Mem{
			Name:  fmt.Sprintf("rom%d", i),
			Data:  image[i*ROMBankSize : (i+1)*ROMBankSize],
			Flags: hwio.MemFlagReadOnly | hwio.MemFlagNoROLog,
		})
	}

	nram := ramBanks[image[addrRAMSize]]
	c.ram = make([]byte, nram*RAMBankSize)
	for i := range nram {
		c.ramBanks = append(c.ramBanks, &hwio.Mem{
			Name: fmt.Sprintf("ram%d", i),
			Data: c.ram[i*RAMBankSize : (i+1)*RAMBankSize],
		})
	}

	c.romb.Name = "romx"
	c.ramb.Name = "extram"

	// Writes into ROM space never reach the image, they're handed to the
	// controller instead.
	c.rom0 = hwio.Device{
		Name:    "rom0",
		ReadCb:  c.romBanks[0].Read8,
		WriteCb: c.romWrite,
	}
	c.romx = hwio.Device{
		Name:   "romx",
		ReadCb: c.romb.Read8,
		WriteCb: func(off uint16, val uint8) {
			c.romWrite(off+ROMBankSize, val)
		},
	}

	c.SelectROMBank(1)
	c.SelectRAMBank(NoBank)
	return c
}

// init installs the variant specific controller.
func (c *Cart) init(ctrl controller) {
	c.ctrl = ctrl
}

func (c *Cart) romWrite(off uint16, val uint8) {
	log.ModCart.DebugZ("ROM write").
		String("mbc", c.desc.Name).
		Hex16("off", off).
		Hex8("val", val).
		End()
	if c.ctrl != nil {
		c.ctrl.romWrite(off, val)
	}
}

// Name returns the controller name.
func (c *Cart) Name() string { return c.desc.Name }

// Type returns the cartridge type code.
func (c *Cart) Type() uint8 { return c.typ }

// ROM0 is the region for [0x0000, 0x4000).
func (c *Cart) ROM0() hwio.BankIO8 { return &c.rom0 }

// ROMX is the region for [0x4000, 0x8000).
func (c *Cart) ROMX() hwio.BankIO8 { return &c.romx }

// RAM is the region for [0xA000, 0xC000).
func (c *Cart) RAM() hwio.BankIO8 { return &c.ramb }

func (c *Cart) ROMBanks() int { return len(c.romBanks) }
func (c *Cart) RAMBanks() int { return len(c.ramBanks) }

// ROMBank returns the bank selected in the switchable ROM window.
func (c *Cart) ROMBank() int { return c.romBank }

// RAMBank returns the selected RAM bank, or NoBank.
func (c *Cart) RAMBank() int { return c.ramBank }

// SelectROMBank selects the bank visible in the switchable ROM window. An
// out of range bank shows a blank region.
func (c *Cart) SelectROMBank(n int) {
	if n == 0 && !c.desc.AllowROMBank0 {
		n = 1
	}
	c.romBank = n
	if n < 0 || n >= len(c.romBanks) {
		log.ModCart.DebugZ("ROM bank out of range").
			Int("bank", n).
			Int("banks", len(c.romBanks)).
			End()
		c.romb.Select(nil)
		return
	}
	c.romb.Select(c.romBanks[n])
	log.ModCart.DebugZ("select ROM bank").Int("bank", n).End()
}

// SelectRAMBank selects the external RAM bank. NoBank, or an out of range
// bank, shows a blank region.
func (c *Cart) SelectRAMBank(n int) {
	if n < 0 {
		n = NoBank
	}
	c.ramBank = n
	if n == NoBank || n >= len(c.ramBanks) {
		c.ramb.Select(nil)
		return
	}
	c.ramb.Select(c.ramBanks[n])
	log.ModCart.DebugZ("select RAM bank").Int("bank", n).End()
}

// LoadRAM overwrites the external RAM with buf.
func (c *Cart) LoadRAM(buf []byte) error {
	if len(buf) != len(c.ram) {
		return fmt.Errorf("external RAM size mismatch: got %d bytes, want %d", len(buf), len(c.ram))
	}
	copy(c.ram, buf)
	return nil
}

// SaveState fills s with the cartridge state.
func (c *Cart) SaveState(s *snapshot.Cart) {
	s.Type = c.typ
	s.ROMBank = c.romBank
	s.RAMBank = c.ramBank
	s.Regs = c.ctrl.saveRegs()
	s.RAM = append([]byte(nil), c.ram...)
}

// LoadState restores a state saved by SaveState on the same image.
func (c *Cart) LoadState(s *snapshot.Cart) error {
	if s.Type != c.typ {
		return fmt.Errorf("cartridge type mismatch: snapshot %#02x, cartridge %#02x", s.Type, c.typ)
	}
	if err := c.LoadRAM(s.RAM); err != nil {
		return err
	}
	if err := c.ctrl.loadRegs(s.Regs); err != nil {
		return fmt.Errorf("%s: %w", c.desc.Name, err)
	}
	c.SelectROMBank(s.ROMBank)
	c.SelectRAMBank(s.RAMBank)
	return nil
}
