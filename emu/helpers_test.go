package emu

import (
	"testing"

	"gbcore/emu/log"
)

const bankSize = 0x4000

// testImage returns a cartridge image of nbanks ROM banks, each filled
// with its own bank number, with prog at 0x100.
func testImage(t testing.TB, typ, ramCode uint8, nbanks int, prog ...uint8) []byte {
	t.Helper()

	image := make([]byte, nbanks*bankSize)
	for i := range nbanks {
		for j := range bankSize {
			image[i*bankSize+j] = uint8(i)
		}
	}
	copy(image[0x100:], prog)
	image[0x147] = typ
	image[0x149] = ramCode
	return image
}

func newTestGameBoy(t testing.TB, cfg Config, image []byte) *GameBoy {
	t.Helper()

	log.Disable()
	if err := cfg.Check(); err != nil {
		t.Fatal(err)
	}
	gb, err := PowerUp(image, cfg)
	if err != nil {
		t.Fatalf("PowerUp() error: %v", err)
	}
	return gb
}

// counterProg increments the byte at 0xC000 forever.
var counterProg = []uint8{
	0x21, 0x00, 0xC0, // LD HL,$C000
	0x34,             // INC (HL)
	0x18, 0xFD,       // JR -3
}

func ptr[T any](v T) *T { return &v }
