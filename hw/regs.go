package hw

import "fmt"

// Flag bits of the F register.
const (
	FlagZ uint8 = 0x80 // zero
	FlagN uint8 = 0x40 // subtract
	FlagH uint8 = 0x20 // half carry
	FlagC uint8 = 0x10 // carry
)

// Regs holds the CPU registers. 16-bit pairs are views over the 8-bit
// registers.
type Regs struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8

	SP uint16
	PC uint16
}

func pair(hi, lo uint8) uint16 { return uint16(hi)<<8 | uint16(lo) }

func (r *Regs) AF() uint16 { return pair(r.A, r.F) }
func (r *Regs) BC() uint16 { return pair(r.B, r.C) }
func (r *Regs) DE() uint16 { return pair(r.D, r.E) }
func (r *Regs) HL() uint16 { return pair(r.H, r.L) }

func (r *Regs) SetAF(v uint16) { r.A, r.F = uint8(v>>8), uint8(v) }
func (r *Regs) SetBC(v uint16) { r.B, r.C = uint8(v>>8), uint8(v) }
func (r *Regs) SetDE(v uint16) { r.D, r.E = uint8(v>>8), uint8(v) }
func (r *Regs) SetHL(v uint16) { r.H, r.L = uint8(v>>8), uint8(v) }

func (r *Regs) flag(f uint8) bool { return r.F&f != 0 }

func (r *Regs) setFlag(f uint8, v bool) {
	if v {
		r.F |= f
	} else {
		r.F &^= f
	}
}

// setFlags replaces the 4 flags at once.
func (r *Regs) setFlags(z, n, h, c bool) {
	r.F = 0
	r.setFlag(FlagZ, z)
	r.setFlag(FlagN, n)
	r.setFlag(FlagH, h)
	r.setFlag(FlagC, c)
}

func (r *Regs) carry() uint8 {
	if r.F&FlagC != 0 {
		return 1
	}
	return 0
}

func (r Regs) String() string {
	return fmt.Sprintf("AF:%04X BC:%04X DE:%04X HL:%04X SP:%04X PC:%04X",
		r.AF(), r.BC(), r.DE(), r.HL(), r.SP, r.PC)
}
