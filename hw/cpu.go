package hw

import (
	"io"
	"sync"

	"gbcore/emu/log"
	"gbcore/hw/hwdefs"
	"gbcore/hw/hwio"
	"gbcore/hw/optrie"
	"gbcore/hw/snapshot"
)

//go:generate go tool stringer -type=State

// State is the execution state of the CPU.
type State uint8

const (
	Running State = iota
	Halted
	Stopped
)

const (
	idleCycles      = 4 // cost of a step while halted or stopped
	interruptCycles = 32
	skipCycles      = 4 // cost of an invalid opcode in recovery mode
)

// opcodes is shared by all CPUs, it's read-only once built.
var opcodes = sync.OnceValue(buildOpcodes)

type CPU struct {
	Bus *hwio.Table

	Regs
	Cycles int64 // T-cycles elapsed since power up

	IF hwio.Reg8 `hwio:"offset=0x0F,readonly,rcb"`
	IE hwio.Reg8 `hwio:"reset=0x00"`

	// Priority selects the interrupt serviced when several are pending.
	Priority hwdefs.IntPriority

	// SkipInvalidOpcodes turns decode errors into 4-cycle no-ops.
	SkipInvalidOpcodes bool

	ime     bool // interrupt master enable
	imeNext bool // value of ime for the next step
	imeNow  bool // imeNext must apply at the end of this step

	halted    bool
	stopped   bool
	haltQuirk bool
	savedLCDC uint8 // LCDC value captured by STOP

	ops *optrie.Trie[instr]

	// opcode bytes of the current instruction, immediates included.
	opbuf [4]uint8
	oplen int

	// Non-nil when execution tracing is enabled.
	tracer *tracer
}

// NewCPU creates a CPU, with all registers cleared, reading and writing
// memory through bus.
func NewCPU(bus *hwio.Table) *CPU {
	cpu := &CPU{
		Bus: bus,
		ops: opcodes(),
	}
	hwio.MustInitRegs(cpu)
	return cpu
}

// Reset sets the registers to the state the boot ROM leaves them in.
func (c *CPU) Reset() {
	c.Regs = Regs{
		A: 0x01, F: 0xB0,
		B: 0x00, C: 0x13,
		D: 0x00, E: 0xD8,
		H: 0x01, L: 0x4D,
		SP: 0xFFFE,
		PC: 0x0100,
	}
	c.Cycles = 0
	c.IF.Value = 0
	c.IE.Value = 0
	c.ime, c.imeNext, c.imeNow = false, false, false
	c.halted, c.stopped, c.haltQuirk = false, false, false
	c.savedLCDC = 0
}

func (c *CPU) State() State {
	switch {
	case c.stopped:
		return Stopped
	case c.halted:
		return Halted
	}
	return Running
}

// IME reports whether interrupts are enabled.
func (c *CPU) IME() bool { return c.ime }

// Step runs a single instruction, or services an interrupt, and returns
// the number of cycles it took.
func (c *CPU) Step() (int, error) {
	// EI/DI take effect after the next instruction.
	next := c.imeNext
	c.imeNow = false

	pending := c.IF.Value & hwdefs.IntMask
	if c.halted && pending != 0 {
		c.halted = false
		log.ModCPU.DebugZ("wake up from HALT").Stringer("if", hwdefs.IntBits(pending)).End()
	}
	if c.stopped && hwio.GetBit8(pending, uint(hwdefs.Joypad)) {
		c.stopped = false
		c.Bus.Write8(hwdefs.AddrLCDC, c.savedLCDC)
		log.ModCPU.DebugZ("wake up from STOP").Hex8("lcdc", c.savedLCDC).End()
	}

	cycles, err := c.step()
	c.Cycles += int64(cycles)

	if c.imeNow {
		next = c.imeNext
	}
	c.ime = next
	return cycles, err
}

func (c *CPU) step() (int, error) {
	if c.ime {
		if n, ok := c.pendingInterrupt(); ok {
			c.service(n)
			return interruptCycles, nil
		}
	}
	if c.halted || c.stopped {
		return idleCycles, nil
	}

	var before Regs
	if c.tracer != nil {
		before = c.Regs
	}

	pc := c.PC
	c.oplen = 0
	in, op, err := c.ops.Decode(pc, c)
	if err != nil {
		if !c.SkipInvalidOpcodes {
			return 0, err
		}
		log.ModCPU.WarnZ("skipping invalid opcode").
			Error("err", err).
			String("region", c.Bus.Lookup(pc).Name).
			End()
		return skipCycles, nil
	}
	cycles := in.exec(op, c, c.Bus)

	if c.tracer != nil {
		c.tracer.write(pc, before, c.Cycles, in, c.opbuf[:min(c.oplen, len(c.opbuf))], len(op))
	}
	return cycles, nil
}

// Run steps the CPU until at least ncycles have elapsed.
func (c *CPU) Run(ncycles int64) error {
	until := c.Cycles + ncycles
	for c.Cycles < until {
		if _, err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Fetch8 reads the byte at PC and moves PC forward, unless the halt bug is
// armed: then PC stays in place, once.
func (c *CPU) Fetch8() uint8 {
	val := c.Bus.Read8(c.PC)
	if c.oplen < len(c.opbuf) {
		c.opbuf[c.oplen] = val
	}
	c.oplen++

	if c.haltQuirk {
		c.haltQuirk = false
		return val
	}
	c.PC++
	return val
}

func (c *CPU) fetch16() uint16 {
	lo := c.Fetch8()
	hi := c.Fetch8()
	return pair(hi, lo)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	c.SP--
	c.Bus.Write8(c.SP, val)
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val))
}

func (c *CPU) pop16() uint16 {
	val := hwio.Read16(c.Bus, c.SP)
	c.SP += 2
	return val
}

/* tracing / logging */

// SetTraceOutput enables the execution trace, one line per instruction. A
// nil writer disables it.
func (c *CPU) SetTraceOutput(w io.Writer) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w}
}

// AddLogContext implements log.ContextAdder.
func (c *CPU) AddLogContext(e *log.EntryZ) {
	e.Hex16("pc", c.PC).Int64("cycles", c.Cycles)
}

/* snapshot */

func (c *CPU) SaveState(s *snapshot.CPU) {
	s.A, s.F, s.B, s.C = c.A, c.F, c.B, c.C
	s.D, s.E, s.H, s.L = c.D, c.E, c.H, c.L
	s.SP, s.PC = c.SP, c.PC
	s.Cycles = c.Cycles
	s.IME, s.IMENext = c.ime, c.imeNext
	s.Halted, s.Stopped, s.HaltQuirk = c.halted, c.stopped, c.haltQuirk
	s.SavedLCDC = c.savedLCDC
	s.IF, s.IE = c.IF.Value, c.IE.Value
}

func (c *CPU) LoadState(s *snapshot.CPU) {
	c.A, c.F, c.B, c.C = s.A, s.F, s.B, s.C
	c.D, c.E, c.H, c.L = s.D, s.E, s.H, s.L
	c.SP, c.PC = s.SP, s.PC
	c.Cycles = s.Cycles
	c.ime, c.imeNext, c.imeNow = s.IME, s.IMENext, false
	c.halted, c.stopped, c.haltQuirk = s.Halted, s.Stopped, s.HaltQuirk
	c.savedLCDC = s.SavedLCDC
	c.IF.Value, c.IE.Value = s.IF, s.IE
}
