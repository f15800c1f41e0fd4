package hw

import (
	"fmt"
	"io"
)

type tracer struct {
	w   io.Writer
	buf []byte
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

func appendHex8(buf []byte, v uint8) []byte {
	var tmp [2]byte
	hexEncode(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendReg(buf []byte, name string, v uint8) []byte {
	buf = append(buf, name...)
	buf = append(buf, ':')
	buf = appendHex8(buf, v)
	return append(buf, ' ')
}

func pad(buf []byte, col int) []byte {
	for len(buf) < col {
		buf = append(buf, ' ')
	}
	return buf
}

// write writes the trace line of the instruction at pc. regs and clock
// are the state before its execution; bytes holds the instruction bytes,
// the first oplen being the opcode.
func (t *tracer) write(pc uint16, regs Regs, clock int64, in instr, bytes []uint8, oplen int) {
	buf := t.buf[:0]

	buf = appendHex8(buf, uint8(pc>>8))
	buf = appendHex8(buf, uint8(pc))
	buf = append(buf, "  "...)
	for _, b := range bytes {
		buf = appendHex8(buf, b)
		buf = append(buf, ' ')
	}
	buf = pad(buf, 16)
	buf = append(buf, in.disasm(bytes, oplen)...)
	buf = pad(buf, 36)

	buf = appendReg(buf, "A", regs.A)
	buf = appendReg(buf, "F", regs.F)
	buf = appendReg(buf, "B", regs.B)
	buf = appendReg(buf, "C", regs.C)
	buf = appendReg(buf, "D", regs.D)
	buf = appendReg(buf, "E", regs.E)
	buf = appendReg(buf, "H", regs.H)
	buf = appendReg(buf, "L", regs.L)
	buf = fmt.Appendf(buf, "SP:%04X CYC:%d\n", regs.SP, clock)

	t.buf = buf
	t.w.Write(buf)
}
