package hwdefs

import "strings"

// IntSource is an interrupt number, which is also its bit index in the
// IF and IE registers.
type IntSource uint8

const (
	VBlank IntSource = iota
	LCDStat
	Timer
	Serial
	Joypad

	NumIntSources = 5
)

// IntMask has a bit set for each valid interrupt source.
const IntMask uint8 = 1<<NumIntSources - 1

var intSrcNames = [NumIntSources]string{
	"vblank",
	"lcdstat",
	"timer",
	"serial",
	"joypad",
}

func (irq IntSource) String() string {
	if irq < NumIntSources {
		return intSrcNames[irq]
	}
	return "invalid"
}

// Vector returns the address jumped to when servicing irq.
func (irq IntSource) Vector() uint16 {
	return 0x40 + 8*uint16(irq)
}

// IntBits is a set of interrupt sources, as stored in IF and IE.
type IntBits uint8

func (bits IntBits) String() string {
	var names []string
	for i := range IntSource(NumIntSources) {
		if bits&(1<<i) != 0 {
			names = append(names, i.String())
		}
	}
	return strings.Join(names, "|")
}

// IntPriority selects which interrupt is serviced when several are pending.
type IntPriority uint8

const (
	// HighestFirst services the pending interrupt with the highest bit index.
	HighestFirst IntPriority = iota
	// LowestFirst services the pending interrupt with the lowest bit index,
	// which is what the hardware does (VBlank first).
	LowestFirst
)

// Fixed addresses.
const (
	AddrROM0   = 0x0000
	AddrROMX   = 0x4000
	AddrTiles  = 0x8000
	AddrMaps   = 0x9800
	AddrExtRAM = 0xA000
	AddrWRAM   = 0xC000
	AddrEcho   = 0xE000
	AddrOAM    = 0xFE00
	AddrUnused = 0xFEA0
	AddrIO     = 0xFF00
	AddrIOEnd  = 0xFF4C
	AddrHRAM   = 0xFF80
	AddrIE     = 0xFFFF

	AddrIF   = 0xFF0F
	AddrLCDC = 0xFF40
	AddrSTAT = 0xFF41
	AddrSCY  = 0xFF42
	AddrSCX  = 0xFF43
)

// CPU clock frequency, in Hz.
const ClockHz = 4194304
