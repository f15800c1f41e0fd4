// Package snapshot defines the serializable state of the machine.
package snapshot

const Version = 1

type GameBoy struct {
	Version int
	CPU     CPU
	LCD     LCD
	WRAM    []byte
	HRAM    []byte
	Cart    Cart
}

type CPU struct {
	A, F, B, C, D, E, H, L uint8

	SP uint16
	PC uint16

	Cycles int64

	IME       bool
	IMENext   bool
	Halted    bool
	Stopped   bool
	HaltQuirk bool
	SavedLCDC uint8

	IF uint8
	IE uint8
}

type LCD struct {
	LCDC uint8
	STAT uint8
	SCY  uint8
	SCX  uint8

	TileData   []byte
	TileMaps   []byte
	SpriteData []byte
}

type Cart struct {
	Type    uint8
	ROMBank int
	RAMBank int
	Regs    []byte // controller specific registers
	RAM     []byte
}
