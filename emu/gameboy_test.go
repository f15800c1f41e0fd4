package emu

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gbcore/hw"
	"gbcore/hw/hwdefs"
	"gbcore/hw/mbc"
)

func TestPowerUpErrors(t *testing.T) {
	tests := []struct {
		name  string
		image []byte
		want  error
	}{
		{"empty", nil, mbc.ErrMalformedImage},
		{"truncated", make([]byte, 0x5000), mbc.ErrMalformedImage},
		{"unsupported", testImage(t, 0x19, 0, 2), mbc.ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PowerUp(tt.image, DefaultConfig())
			if !errors.Is(err, tt.want) {
				t.Errorf("PowerUp() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPowerUpState(t *testing.T) {
	gb := newTestGameBoy(t, DefaultConfig(), testImage(t, 0x00, 0, 2))

	want := hw.Regs{
		A: 0x01, F: 0xB0,
		B: 0x00, C: 0x13,
		D: 0x00, E: 0xD8,
		H: 0x01, L: 0x4D,
		SP: 0xFFFE,
		PC: 0x0100,
	}
	if diff := cmp.Diff(want, gb.CPU.Regs); diff != "" {
		t.Errorf("registers mismatch (-want +got):\n%s", diff)
	}
	if gb.CPU.State() != hw.Running {
		t.Errorf("state = %s, want %s", gb.CPU.State(), hw.Running)
	}
}

func TestStartPC(t *testing.T) {
	for _, pc := range []uint16{0x150, 0x0000} {
		cfg := DefaultConfig()
		cfg.Emulation.StartPC = ptr(pc)
		gb := newTestGameBoy(t, cfg, testImage(t, 0x00, 0, 2))

		if gb.CPU.PC != pc {
			t.Errorf("PC = %04X, want %04X", gb.CPU.PC, pc)
		}
		gb.CPU.PC = 0x1234
		gb.Reset()
		if gb.CPU.PC != pc {
			t.Errorf("after reset PC = %04X, want %04X", gb.CPU.PC, pc)
		}
	}
}

func TestPrintMemoryMap(t *testing.T) {
	gb := newTestGameBoy(t, DefaultConfig(), testImage(t, 0x00, 0, 2))

	var buf bytes.Buffer
	if err := gb.PrintMemoryMap(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"0000-3FFF  rom0",
		"4000-7FFF  romx",
		"8000-97FF  tiles",
		"9800-9FFF  maps",
		"A000-BFFF  extram",
		"C000-DFFF  wram",
		"E000-FDFF  echo",
		"FE00-FE9F  oam",
		"FEA0-FEFF  unused",
		"FF00-FF4B  io",
		"FF4C-FF7F  unused",
		"FF80-FFFE  hram",
		"FFFF-FFFF  ie",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("memory map mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryMap(t *testing.T) {
	gb := newTestGameBoy(t, DefaultConfig(), testImage(t, 0x01, 0, 4))

	tests := []struct {
		addr uint16
		name string
	}{
		{0x0000, "rom0"},
		{0x3FFF, "rom0"},
		{0x4000, "romx"},
		{0x7FFF, "romx"},
		{0x8000, "tiles"},
		{0x97FF, "tiles"},
		{0x9800, "maps"},
		{0x9FFF, "maps"},
		{0xA000, "extram"},
		{0xBFFF, "extram"},
		{0xC000, "wram"},
		{0xDFFF, "wram"},
		{0xE000, "echo"},
		{0xFDFF, "echo"},
		{0xFE00, "oam"},
		{0xFE9F, "oam"},
		{0xFEA0, "unused"},
		{0xFEFF, "unused"},
		{0xFF00, "io"},
		{0xFF4B, "io"},
		{0xFF4C, "unused"},
		{0xFF7F, "unused"},
		{0xFF80, "hram"},
		{0xFFFE, "hram"},
		{0xFFFF, "ie"},
	}
	for _, tt := range tests {
		if got := gb.Bus.Lookup(tt.addr).Name; got != tt.name {
			t.Errorf("Lookup(%04X) = %q, want %q", tt.addr, got, tt.name)
		}
	}
}

func TestEchoRAM(t *testing.T) {
	gb := newTestGameBoy(t, DefaultConfig(), testImage(t, 0x00, 0, 2))

	gb.Bus.Write8(0xC123, 0x42)
	if got := gb.Bus.Read8(0xE123); got != 0x42 {
		t.Errorf("Read8(E123) = %02X, want 42", got)
	}
	gb.Bus.Write8(0xFDFF, 0x17)
	if got := gb.Bus.Read8(0xDDFF); got != 0x17 {
		t.Errorf("Read8(DDFF) = %02X, want 17", got)
	}
}

func TestUnusedAreas(t *testing.T) {
	gb := newTestGameBoy(t, DefaultConfig(), testImage(t, 0x00, 0, 2))

	for _, addr := range []uint16{0xFEA0, 0xFEFF, 0xFF4C, 0xFF7F, 0xFF01} {
		gb.Bus.Write8(addr, 0xAA)
		if got := gb.Bus.Read8(addr); got != 0 {
			t.Errorf("Read8(%04X) = %02X, want 00", addr, got)
		}
	}
}

func TestIORegisters(t *testing.T) {
	gb := newTestGameBoy(t, DefaultConfig(), testImage(t, 0x00, 0, 2))

	if got := gb.Bus.Read8(hwdefs.AddrLCDC); got != 0x91 {
		t.Errorf("LCDC = %02X, want 91", got)
	}

	gb.Bus.Write8(hwdefs.AddrSCY, 5)
	gb.Bus.Write8(hwdefs.AddrSCX, 6)
	if gb.LCD.SCY.Value != 5 || gb.LCD.SCX.Value != 6 {
		t.Errorf("SCY,SCX = %d,%d, want 5,6", gb.LCD.SCY.Value, gb.LCD.SCX.Value)
	}

	gb.Bus.Write8(hwdefs.AddrSTAT, 0xFF)
	if got := gb.Bus.Read8(hwdefs.AddrSTAT); got != 0 {
		t.Errorf("STAT = %02X after write, want 00", got)
	}

	gb.Interrupt(hwdefs.Timer)
	gb.Bus.Write8(hwdefs.AddrIF, 0)
	if got := gb.Bus.Read8(hwdefs.AddrIF); got != 0xE4 {
		t.Errorf("IF = %02X, want E4", got)
	}

	gb.Bus.Write8(hwdefs.AddrIE, 0x1F)
	if gb.CPU.IE.Value != 0x1F {
		t.Errorf("IE = %02X, want 1F", gb.CPU.IE.Value)
	}
}

func TestBankSwitching(t *testing.T) {
	gb := newTestGameBoy(t, DefaultConfig(), testImage(t, 0x03, 2, 8))

	if got := gb.Bus.Read8(0x4000); got != 1 {
		t.Fatalf("Read8(4000) = %d, want bank 1", got)
	}

	gb.Bus.Write8(0x2000, 5)
	if got := gb.Bus.Read8(0x7FFF); got != 5 {
		t.Errorf("Read8(7FFF) = %d, want bank 5", got)
	}
	if got := gb.Bus.Read8(0x2000); got != 0 {
		t.Errorf("ROM modified by write: Read8(2000) = %d", got)
	}

	// No RAM bank until selected.
	gb.Bus.Write8(0xA000, 0x33)
	if got := gb.Bus.Read8(0xA000); got != 0 {
		t.Errorf("Read8(A000) = %02X with no RAM bank, want 00", got)
	}

	gb.Bus.Write8(0x6000, 1)
	gb.Bus.Write8(0x4000, 0)
	gb.Bus.Write8(0xA000, 0x33)
	if got := gb.Bus.Read8(0xA000); got != 0x33 {
		t.Errorf("Read8(A000) = %02X, want 33", got)
	}
	if got := gb.Snapshot().Cart.RAM[0]; got != 0x33 {
		t.Errorf("cartridge RAM[0] = %02X, want 33", got)
	}
}

func TestRunProgram(t *testing.T) {
	// HALT only halts with interrupts enabled.
	prog := []uint8{
		0xFB,             // EI
		0x3E, 0x42,       // LD A,$42
		0xEA, 0x00, 0xC1, // LD ($C100),A
		0xE0, 0x80,       // LDH ($80),A
		0x76,             // HALT
	}
	gb := newTestGameBoy(t, DefaultConfig(), testImage(t, 0x00, 0, 2, prog...))

	for gb.CPU.State() == hw.Running {
		if _, err := gb.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if gb.CPU.State() != hw.Halted {
		t.Fatalf("state = %s, want %s", gb.CPU.State(), hw.Halted)
	}
	if got := gb.Bus.Read8(0xC100); got != 0x42 {
		t.Errorf("Read8(C100) = %02X, want 42", got)
	}
	if got := gb.Bus.Read8(0xFF80); got != 0x42 {
		t.Errorf("Read8(FF80) = %02X, want 42", got)
	}
}

func TestStopRestoresLCDC(t *testing.T) {
	prog := []uint8{
		0x10, 0x00, // STOP
		0x00,       // NOP
	}
	gb := newTestGameBoy(t, DefaultConfig(), testImage(t, 0x00, 0, 2, prog...))

	if _, err := gb.Step(); err != nil {
		t.Fatal(err)
	}
	if gb.CPU.State() != hw.Stopped {
		t.Fatalf("state = %s, want %s", gb.CPU.State(), hw.Stopped)
	}

	gb.LCD.LCDC.Value = 0
	gb.Interrupt(hwdefs.Joypad)
	if _, err := gb.Step(); err != nil {
		t.Fatal(err)
	}
	if gb.CPU.State() != hw.Running {
		t.Errorf("state = %s, want %s", gb.CPU.State(), hw.Running)
	}
	if gb.LCD.LCDC.Value != 0x91 {
		t.Errorf("LCDC = %02X, want 91", gb.LCD.LCDC.Value)
	}
}

func TestInvalidOpcodeConfig(t *testing.T) {
	image := testImage(t, 0x00, 0, 2, 0xD3, 0x00)

	gb := newTestGameBoy(t, DefaultConfig(), image)
	if _, err := gb.Step(); err == nil {
		t.Errorf("Step() succeeded on invalid opcode")
	}

	cfg := DefaultConfig()
	cfg.Emulation.InvalidOpcode = InvalidOpcodeNop
	gb = newTestGameBoy(t, cfg, image)
	if _, err := gb.Step(); err != nil {
		t.Errorf("Step() error = %v, want invalid opcode skipped", err)
	}
}

func TestInterruptPriorityConfig(t *testing.T) {
	tests := []struct {
		priority string
		want     uint16
	}{
		{PriorityHighest, hwdefs.Joypad.Vector()},
		{PriorityLowest, hwdefs.VBlank.Vector()},
	}
	for _, tt := range tests {
		t.Run(tt.priority, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Emulation.InterruptPriority = tt.priority
			gb := newTestGameBoy(t, cfg, testImage(t, 0x00, 0, 2, 0xFB, 0x00, 0x00))

			gb.Bus.Write8(hwdefs.AddrIE, 0x1F)
			gb.Interrupt(hwdefs.VBlank)
			gb.Interrupt(hwdefs.Joypad)
			for range 3 {
				if _, err := gb.Step(); err != nil {
					t.Fatal(err)
				}
			}
			if gb.CPU.PC != tt.want {
				t.Errorf("PC = %04X, want %04X", gb.CPU.PC, tt.want)
			}
		})
	}
}

func TestSnapshotRestore(t *testing.T) {
	image := testImage(t, 0x03, 3, 4, counterProg...)
	gb := newTestGameBoy(t, DefaultConfig(), image)

	if err := gb.Run(10000); err != nil {
		t.Fatal(err)
	}
	gb.Bus.Write8(0x2000, 3)
	gb.Bus.Write8(0x8010, 0x99)
	snap := gb.Snapshot()

	if err := gb.Run(10000); err != nil {
		t.Fatal(err)
	}
	want := gb.Snapshot()

	gb2 := newTestGameBoy(t, DefaultConfig(), image)
	if err := gb2.Restore(snap); err != nil {
		t.Fatal(err)
	}
	if got := gb2.Bus.Read8(0x4000); got != 3 {
		t.Errorf("restored ROM bank: Read8(4000) = %d, want 3", got)
	}
	if err := gb2.Run(10000); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, gb2.Snapshot()); diff != "" {
		t.Errorf("restored run mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreErrors(t *testing.T) {
	gb := newTestGameBoy(t, DefaultConfig(), testImage(t, 0x01, 0, 4))

	snap := gb.Snapshot()
	snap.Version++
	if err := gb.Restore(snap); err == nil {
		t.Errorf("Restore() succeeded with wrong version")
	}

	snap = gb.Snapshot()
	snap.Cart.Type = 0x00
	if err := gb.Restore(snap); err == nil {
		t.Errorf("Restore() succeeded with wrong cartridge type")
	}

	snap = gb.Snapshot()
	snap.WRAM = snap.WRAM[:10]
	if err := gb.Restore(snap); err == nil {
		t.Errorf("Restore() succeeded with truncated WRAM")
	}
}
