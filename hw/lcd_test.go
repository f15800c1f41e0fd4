package hw

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gbcore/emu/log"
	"gbcore/hw/hwdefs"
	"gbcore/hw/snapshot"
)

func TestIORegisters(t *testing.T) {
	cpu, _ := newTestCPU(t)
	lcd := NewLCD()
	mem := NewMemory()
	mem.IO.MapBank(cpu, 0)
	mem.IO.MapBank(lcd, 0)

	io := mem.IO
	if got := io.Read8(hwdefs.AddrLCDC - hwdefs.AddrIO); got != 0x91 {
		t.Errorf("LCDC = %#02x, want 0x91", got)
	}

	io.Write8(hwdefs.AddrSCY-hwdefs.AddrIO, 0x12)
	io.Write8(hwdefs.AddrSCX-hwdefs.AddrIO, 0x34)
	if lcd.SCY.Value != 0x12 || lcd.SCX.Value != 0x34 {
		t.Errorf("SCY = %#02x, SCX = %#02x, want 0x12, 0x34", lcd.SCY.Value, lcd.SCX.Value)
	}

	// STAT and IF are read-only from the bus.
	lcd.STAT.Value = 0x85
	io.Write8(hwdefs.AddrSTAT-hwdefs.AddrIO, 0x00)
	if got := io.Read8(hwdefs.AddrSTAT - hwdefs.AddrIO); got != 0x85 {
		t.Errorf("STAT = %#02x, want 0x85", got)
	}
	cpu.Interrupt(hwdefs.Timer)
	io.Write8(hwdefs.AddrIF-hwdefs.AddrIO, 0x00)
	// The unused IF bits read as 1.
	if got := io.Read8(hwdefs.AddrIF - hwdefs.AddrIO); got != 0xE0|1<<hwdefs.Timer {
		t.Errorf("IF = %#02x, want %#02x", got, 0xE0|1<<hwdefs.Timer)
	}
	if cpu.IF.Value != 1<<hwdefs.Timer {
		t.Errorf("IF value = %#02x, want %#02x", cpu.IF.Value, 1<<hwdefs.Timer)
	}

	// Unmapped registers.
	if got := io.Read8(0x01); got != 0 {
		t.Errorf("unmapped register = %#02x, want 0", got)
	}
}

func TestLCDState(t *testing.T) {
	lcd := NewLCD()
	lcd.SCX.Value = 7
	lcd.TileData.Data[0x10] = 0xAA
	lcd.SpriteData.Data[0x9F] = 0x55

	var want snapshot.LCD
	lcd.SaveState(&want)

	lcd2 := NewLCD()
	if err := lcd2.LoadState(&want); err != nil {
		t.Fatal(err)
	}
	var got snapshot.LCD
	lcd2.SaveState(&got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}

	bad := want
	bad.TileMaps = bad.TileMaps[:10]
	if err := lcd2.LoadState(&bad); err == nil {
		t.Errorf("LoadState() with a truncated tile map succeeded")
	}
}

func TestLCDCDisplayLog(t *testing.T) {
	buf := captureLog(t, modLCD)

	lcd := NewLCD()
	mem := NewMemory()
	mem.IO.MapBank(lcd, 0)
	off := uint16(hwdefs.AddrLCDC - hwdefs.AddrIO)

	// Display stays on: nothing logged.
	mem.IO.Write8(off, 0x93)
	if buf.Len() != 0 {
		t.Fatalf("log output without display toggle: %s", buf)
	}

	mem.IO.Write8(off, 0x13)
	if lcd.LCDC.Value != 0x13 {
		t.Errorf("LCDC = %#02x, want 0x13", lcd.LCDC.Value)
	}
	out := buf.String()
	for _, want := range []string{"display switched", "_mod=lcd", "on=false", "lcdc=13"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output misses %q: %s", want, out)
		}
	}

	buf.Reset()
	mem.IO.Write8(off, 0x91)
	if out := buf.String(); !strings.Contains(out, "on=true") {
		t.Errorf("display on not logged: %s", out)
	}
}

func TestMemoryWriteLog(t *testing.T) {
	buf := captureLog(t, log.ModMem)

	mem := NewMemory()
	mem.WRAM.Write8(0x10, 0x5A)
	mem.HRAM.Write8(0x7E, 0x01)
	if mem.WRAM.Data[0x10] != 0x5A || mem.HRAM.Data[0x7E] != 0x01 {
		t.Fatalf("writes not stored")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2: %q", len(lines), lines)
	}
	for i, want := range [][]string{
		{"_mod=mem", "area=wram", "addr=c010", "val=5a"},
		{"_mod=mem", "area=hram", "addr=fffe", "val=01"},
	} {
		for _, w := range want {
			if !strings.Contains(lines[i], w) {
				t.Errorf("line %d misses %q: %s", i, w, lines[i])
			}
		}
	}
}

func TestLCDLogModule(t *testing.T) {
	if mod, ok := log.ModuleByName("lcd"); !ok || mod != modLCD {
		t.Errorf("ModuleByName(lcd) = %v, %t, want %v", mod, ok, modLCD)
	}
}
