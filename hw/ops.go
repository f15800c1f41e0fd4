package hw

import (
	"fmt"
	"strings"

	"gbcore/hw/hwio"
	"gbcore/hw/optrie"
)

// handler executes an instruction. op holds the decoded opcode bytes,
// immediate operands are fetched by the handler itself. It returns the
// number of cycles taken.
type handler func(op []uint8, cpu *CPU, bus *hwio.Table) int

type instr struct {
	name string // mnemonic template, see disasm
	exec handler
}

// col returns the 8 opcodes base+8*i, one per operand register.
func col(base uint8) optrie.Pattern {
	p := make(optrie.Pattern, 8)
	for i := range p {
		p[i] = base + 8*uint8(i)
	}
	return p
}

// quad returns the 4 opcodes base+0x10*i, one per register pair.
func quad(base uint8) optrie.Pattern {
	return optrie.Set(base, base+0x10, base+0x20, base+0x30)
}

func buildOpcodes() *optrie.Trie[instr] {
	b := optrie.NewBuilder[instr]()
	op := func(name string, h handler, pattern ...optrie.Pattern) {
		b.MustRegister(instr{name: name, exec: h}, pattern...)
	}
	x := optrie.Byte

	// control
	op("NOP", nop, x(0x00))
	op("HALT", halt, x(0x76))
	op("STOP", stop, x(0x10), x(0x00))
	op("DI", di, x(0xF3))
	op("EI", ei, x(0xFB))
	op("DAA", daa, x(0x27))
	op("CPL", cpl, x(0x2F))
	op("SCF", scf, x(0x37))
	op("CCF", ccf, x(0x3F))

	// 8-bit loads
	op("LD {d},{s}", ldrr, optrie.Range(0x40, 0x80).Except(0x76))
	op("LD {d},{n}", ldrn, col(0x06))
	op("LD {ind},A", ldIndA, quad(0x02))
	op("LD A,{ind}", ldAInd, quad(0x0A))
	op("LDH ({n}),A", ldhnA, x(0xE0))
	op("LDH A,({n})", ldhAn, x(0xF0))
	op("LD (C),A", ldhcA, x(0xE2))
	op("LD A,(C)", ldhAc, x(0xF2))
	op("LD ({nn}),A", ldnnA, x(0xEA))
	op("LD A,({nn})", ldAnn, x(0xFA))

	// 16-bit loads
	op("LD {rr},{nn}", ldrrnn, quad(0x01))
	op("LD ({nn}),SP", ldnnSP, x(0x08))
	op("LD SP,HL", ldSPHL, x(0xF9))
	op("LD HL,SP{e}", ldHLSPe, x(0xF8))
	op("PUSH {qq}", push, quad(0xC5))
	op("POP {qq}", pop, quad(0xC1))

	// arithmetic and logic
	op("{alu}{s}", alur, optrie.Range(0x80, 0xC0))
	op("{alu}{n}", alun, col(0xC6))
	op("INC {d}", inc8, col(0x04))
	op("DEC {d}", dec8, col(0x05))
	op("INC {rr}", inc16, quad(0x03))
	op("DEC {rr}", dec16, quad(0x0B))
	op("ADD HL,{rr}", addHL, quad(0x09))
	op("ADD SP,{e}", addSPe, x(0xE8))
	op("{rota}", rota, optrie.Set(0x07, 0x0F, 0x17, 0x1F))

	// jumps, calls and returns
	op("JP {nn}", jp, x(0xC3))
	op("JP {cc},{nn}", jpcc, optrie.Set(0xC2, 0xCA, 0xD2, 0xDA))
	op("JP HL", jpHL, x(0xE9))
	op("JR {e}", jr, x(0x18))
	op("JR {cc},{e}", jrcc, optrie.Set(0x20, 0x28, 0x30, 0x38))
	op("CALL {nn}", call, x(0xCD))
	op("CALL {cc},{nn}", callcc, optrie.Set(0xC4, 0xCC, 0xD4, 0xDC))
	op("RET", ret, x(0xC9))
	op("RET {cc}", retcc, optrie.Set(0xC0, 0xC8, 0xD0, 0xD8))
	op("RETI", reti, x(0xD9))
	op("RST {t}", rst, col(0xC7))

	// CB prefixed
	op("{rot} {s}", cbrot, x(0xCB), optrie.Range(0x00, 0x40))
	op("BIT {b},{s}", cbbit, x(0xCB), optrie.Range(0x40, 0x80))
	op("RES {b},{s}", cbres, x(0xCB), optrie.Range(0x80, 0xC0))
	op("SET {b},{s}", cbset, x(0xCB), optrie.Range(0xC0, 0x100))

	return b.Build()
}

/* operand encoding */

// reg8 returns the 8-bit operand encoded as idx: B C D E H L (HL) A.
func (c *CPU) reg8(idx uint8) uint8 {
	switch idx & 7 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.Bus.Read8(c.HL())
	}
	return c.A
}

func (c *CPU) setReg8(idx, val uint8) {
	switch idx & 7 {
	case 0:
		c.B = val
	case 1:
		c.C = val
	case 2:
		c.D = val
	case 3:
		c.E = val
	case 4:
		c.H = val
	case 5:
		c.L = val
	case 6:
		c.Bus.Write8(c.HL(), val)
	case 7:
		c.A = val
	}
}

// reg16 returns the pair encoded in bits 4-5 of op: BC DE HL SP.
func (c *CPU) reg16(op uint8) uint16 {
	switch (op >> 4) & 3 {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	}
	return c.SP
}

func (c *CPU) setReg16(op uint8, val uint16) {
	switch (op >> 4) & 3 {
	case 0:
		c.SetBC(val)
	case 1:
		c.SetDE(val)
	case 2:
		c.SetHL(val)
	case 3:
		c.SP = val
	}
}

// cond evaluates the condition encoded in bits 3-4 of op: NZ Z NC C.
func (c *CPU) cond(op uint8) bool {
	switch (op >> 3) & 3 {
	case 0:
		return !c.flag(FlagZ)
	case 1:
		return c.flag(FlagZ)
	case 2:
		return !c.flag(FlagC)
	}
	return c.flag(FlagC)
}

// cost returns hl if the operand encoded as idx is (HL), reg otherwise.
func cost(idx uint8, reg, hl int) int {
	if idx&7 == 6 {
		return hl
	}
	return reg
}

/* disassembly */

var (
	r8Names  = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
	r16Names = [4]string{"BC", "DE", "HL", "SP"}
	qqNames  = [4]string{"BC", "DE", "HL", "AF"}
	indNames = [4]string{"(BC)", "(DE)", "(HL+)", "(HL-)"}
	ccNames  = [4]string{"NZ", "Z", "NC", "C"}
	aluNames = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}
	rotNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}
	rotaName = [4]string{"RLCA", "RRCA", "RLA", "RRA"}
)

// disasm expands the mnemonic template of in. buf holds all the bytes of
// the instruction, the first oplen being the opcode.
func (in instr) disasm(buf []uint8, oplen int) string {
	last := buf[oplen-1]
	imm := buf[oplen:]

	var sb strings.Builder
	name := in.name
	for {
		i := strings.IndexByte(name, '{')
		if i < 0 {
			sb.WriteString(name)
			break
		}
		j := strings.IndexByte(name[i:], '}')
		if j < 0 {
			sb.WriteString(name)
			break
		}
		j += i
		sb.WriteString(name[:i])

		switch name[i+1 : j] {
		case "d":
			sb.WriteString(r8Names[(last>>3)&7])
		case "s":
			sb.WriteString(r8Names[last&7])
		case "rr":
			sb.WriteString(r16Names[(last>>4)&3])
		case "qq":
			sb.WriteString(qqNames[(last>>4)&3])
		case "ind":
			sb.WriteString(indNames[(last>>4)&3])
		case "cc":
			sb.WriteString(ccNames[(last>>3)&3])
		case "alu":
			sb.WriteString(aluNames[(last>>3)&7])
		case "rot":
			sb.WriteString(rotNames[(last>>3)&7])
		case "rota":
			sb.WriteString(rotaName[(last>>3)&3])
		case "b":
			sb.WriteByte('0' + (last>>3)&7)
		case "t":
			fmt.Fprintf(&sb, "$%02X", last&0x38)
		case "n":
			if len(imm) >= 1 {
				fmt.Fprintf(&sb, "$%02X", imm[0])
			}
		case "nn":
			if len(imm) >= 2 {
				fmt.Fprintf(&sb, "$%04X", pair(imm[1], imm[0]))
			}
		case "e":
			if len(imm) >= 1 {
				fmt.Fprintf(&sb, "%+d", int8(imm[0]))
			}
		}
		name = name[j+1:]
	}
	return sb.String()
}
