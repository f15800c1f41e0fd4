package emu

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gbcore/emu/log"
	"gbcore/hw"
	"gbcore/hw/hwdefs"
	"gbcore/hw/hwio"
	"gbcore/hw/mbc"
	"gbcore/hw/snapshot"
)

// GameBoy is a powered up console, with a cartridge inserted.
type GameBoy struct {
	Bus    *hwio.Table
	CPU    *hw.CPU
	Memory *hw.Memory
	LCD    *hw.LCD
	Cart   *mbc.Cart

	startPC uint16
}

// PowerUp inserts the cartridge image, builds the memory map and resets
// the CPU to its post-boot state.
func PowerUp(image []byte, cfg Config) (*GameBoy, error) {
	cart, err := mbc.Load(image)
	if err != nil {
		return nil, fmt.Errorf("power up failed: %w", err)
	}

	bus := hwio.NewTable("cpu")
	gb := &GameBoy{
		Bus:     bus,
		CPU:     hw.NewCPU(bus),
		Memory:  hw.NewMemory(),
		LCD:     hw.NewLCD(),
		Cart:    cart,
		startPC: cfg.Emulation.startPC(),
	}
	gb.CPU.Priority = cfg.Emulation.priority()
	gb.CPU.SkipInvalidOpcodes = cfg.Emulation.InvalidOpcode == InvalidOpcodeNop
	if cfg.TraceOut != nil {
		gb.CPU.SetTraceOutput(cfg.TraceOut)
	}

	gb.Memory.IO.MapBank(gb.CPU, 0)
	gb.Memory.IO.MapBank(gb.LCD, 0)
	gb.mapBus()
	gb.Reset()

	log.ModEmu.InfoZ("power up").
		String("cart", cart.Name()).
		Int("rom banks", cart.ROMBanks()).
		Int("ram banks", cart.RAMBanks()).
		End()
	return gb, nil
}

func (gb *GameBoy) mapBus() {
	bus := gb.Bus
	bus.Map(hwdefs.AddrROM0, gb.Cart.ROM0(), "rom0")
	bus.Map(hwdefs.AddrROMX, gb.Cart.ROMX(), "romx")
	bus.Map(hwdefs.AddrTiles, &gb.LCD.TileData, "tiles")
	bus.Map(hwdefs.AddrMaps, &gb.LCD.TileMaps, "maps")
	bus.Map(hwdefs.AddrExtRAM, gb.Cart.RAM(), "extram")
	bus.Map(hwdefs.AddrWRAM, &gb.Memory.WRAM, "wram")
	bus.Map(hwdefs.AddrEcho, &gb.Memory.WRAM, "echo")
	bus.Map(hwdefs.AddrOAM, &gb.LCD.SpriteData, "oam")
	bus.Map(hwdefs.AddrUnused, hwio.Blank("unused"), "unused")
	bus.Map(hwdefs.AddrIO, gb.Memory.IO, "io")
	bus.Map(hwdefs.AddrIOEnd, hwio.Blank("unused"), "unused")
	bus.Map(hwdefs.AddrHRAM, &gb.Memory.HRAM, "hram")
	bus.Map(hwdefs.AddrIE, &gb.CPU.IE, "ie")
}

// PrintMemoryMap writes the bus regions, one per line with their address
// range.
func (gb *GameBoy) PrintMemoryMap(w io.Writer) error {
	regs := gb.Bus.Regions()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, r := range regs {
		end := uint16(0xFFFF)
		if i+1 < len(regs) {
			end = regs[i+1].Base - 1
		}
		fmt.Fprintf(tw, "%04X-%04X\t%s\n", r.Base, end, r.Name)
	}
	return tw.Flush()
}

// Reset puts the CPU back in its post-boot state. Memory and cartridge
// contents are left untouched.
func (gb *GameBoy) Reset() {
	gb.CPU.Reset()
	gb.CPU.PC = gb.startPC
}

// Step runs one CPU step and returns the number of cycles it took.
func (gb *GameBoy) Step() (int, error) {
	return gb.CPU.Step()
}

// Run runs the CPU for at least ncycles.
func (gb *GameBoy) Run(ncycles int64) error {
	return gb.CPU.Run(ncycles)
}

// Interrupt requests interrupt n.
func (gb *GameBoy) Interrupt(n hwdefs.IntSource) {
	gb.CPU.Interrupt(n)
}

// Snapshot captures the whole machine state.
func (gb *GameBoy) Snapshot() *snapshot.GameBoy {
	s := &snapshot.GameBoy{Version: snapshot.Version}
	gb.CPU.SaveState(&s.CPU)
	gb.LCD.SaveState(&s.LCD)
	gb.Memory.SaveState(s)
	gb.Cart.SaveState(&s.Cart)
	return s
}

// Restore loads a state captured by Snapshot, on a console running the
// same cartridge.
func (gb *GameBoy) Restore(s *snapshot.GameBoy) error {
	if s.Version != snapshot.Version {
		return fmt.Errorf("snapshot version %d, want %d", s.Version, snapshot.Version)
	}
	if err := gb.Cart.LoadState(&s.Cart); err != nil {
		return fmt.Errorf("cartridge: %w", err)
	}
	if err := gb.Memory.LoadState(s); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if err := gb.LCD.LoadState(&s.LCD); err != nil {
		return fmt.Errorf("lcd: %w", err)
	}
	gb.CPU.LoadState(&s.CPU)
	return nil
}
