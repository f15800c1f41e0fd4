package hwio

import "gbcore/emu/log"

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = (1 << iota) // writes are dropped and logged
	MemFlagNoROLog                          // with MemFlagReadOnly: drop writes silently
)

// Mem is a linear memory area backed by a byte slice. Accesses past the end
// of Data read as zero and discard writes, so a Mem can be mapped over a
// range larger than its backing store.
//
// Windows into a larger store are made by slicing: a 16 KiB bank of a ROM
// image is a Mem whose Data is rom[n*0x4000 : (n+1)*0x4000].
type Mem struct {
	Name    string              // name of the memory area (for debugging)
	Data    []byte              // actual memory buffer
	Flags   MemFlags            // flags determining how the memory can be accessed
	WriteCb func(uint16, uint8) // optional callback, called after each write
}

func (m *Mem) Read8(off uint16) uint8 {
	if int(off) < len(m.Data) {
		return m.Data[off]
	}
	return 0
}

func (m *Mem) Write8(off uint16, val uint8) {
	if m.Flags&MemFlagReadOnly != 0 {
		if m.Flags&MemFlagNoROLog == 0 {
			log.ModHwIo.ErrorZ("Write8 to readonly memory").
				String("name", m.Name).
				Hex16("off", off).
				Hex8("val", val).
				End()
		}
		return
	}
	if int(off) >= len(m.Data) {
		return
	}
	m.Data[off] = val
	if m.WriteCb != nil {
		m.WriteCb(off, val)
	}
}
