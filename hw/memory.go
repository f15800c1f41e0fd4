package hw

import (
	"fmt"

	"gbcore/emu/log"
	"gbcore/hw/hwdefs"
	"gbcore/hw/hwio"
	"gbcore/hw/snapshot"
)

// Memory is the console internal memory: work RAM, high RAM and the I/O
// register page.
type Memory struct {
	WRAM hwio.Mem `hwio:"size=0x2000"`
	HRAM hwio.Mem `hwio:"size=0x7F"`

	IO *hwio.RegMap
}

func NewMemory() *Memory {
	m := &Memory{
		IO: hwio.NewRegMap("io", hwdefs.AddrIOEnd-hwdefs.AddrIO),
	}
	hwio.MustInitRegs(m)
	m.WRAM.WriteCb = logWrite("wram", hwdefs.AddrWRAM)
	m.HRAM.WriteCb = logWrite("hram", hwdefs.AddrHRAM)
	return m
}

// logWrite returns a write callback tracing stores into an area mapped at
// base.
func logWrite(area string, base uint16) func(uint16, uint8) {
	return func(off uint16, val uint8) {
		log.ModMem.DebugZ("write").
			String("area", area).
			Hex16("addr", base+off).
			Hex8("val", val).
			End()
	}
}

// loadMem restores the content of mem from a snapshot buffer.
func loadMem(mem *hwio.Mem, buf []byte) error {
	if len(buf) != len(mem.Data) {
		return fmt.Errorf("%s: size mismatch: got %d bytes, want %d", mem.Name, len(buf), len(mem.Data))
	}
	copy(mem.Data, buf)
	return nil
}

func (m *Memory) SaveState(s *snapshot.GameBoy) {
	s.WRAM = append([]byte(nil), m.WRAM.Data...)
	s.HRAM = append([]byte(nil), m.HRAM.Data...)
}

func (m *Memory) LoadState(s *snapshot.GameBoy) error {
	if err := loadMem(&m.WRAM, s.WRAM); err != nil {
		return err
	}
	return loadMem(&m.HRAM, s.HRAM)
}
