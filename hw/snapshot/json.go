package snapshot

import (
	"fmt"
	"io"

	"github.com/go-faster/jx"
)

// Marshal encodes s as JSON.
func Marshal(s *GameBoy) []byte {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes()
}

// Write encodes s as indented JSON into w.
func Write(w io.Writer, s *GameBoy) error {
	var e jx.Encoder
	e.SetIdent(2)
	s.Encode(&e)
	_, err := w.Write(e.Bytes())
	return err
}

// base64 never encodes null, so that empty buffers survive a round trip.
func base64(e *jx.Encoder, buf []byte) {
	if buf == nil {
		buf = []byte{}
	}
	e.Base64(buf)
}

func decodeBase64(d *jx.Decoder) ([]byte, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	return d.Base64()
}

// Unmarshal decodes a JSON snapshot.
func Unmarshal(buf []byte) (*GameBoy, error) {
	s := new(GameBoy)
	if err := s.Decode(jx.DecodeBytes(buf)); err != nil {
		return nil, err
	}
	if s.Version != Version {
		return nil, fmt.Errorf("snapshot version %d, want %d", s.Version, Version)
	}
	return s, nil
}

func (s *GameBoy) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(s.Version) })
		e.Field("cpu", s.CPU.Encode)
		e.Field("lcd", s.LCD.Encode)
		e.Field("wram", func(e *jx.Encoder) { base64(e, s.WRAM) })
		e.Field("hram", func(e *jx.Encoder) { base64(e, s.HRAM) })
		e.Field("cart", s.Cart.Encode)
	})
}

func (s *GameBoy) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			s.Version, err = d.Int()
		case "cpu":
			err = s.CPU.Decode(d)
		case "lcd":
			err = s.LCD.Decode(d)
		case "wram":
			s.WRAM, err = decodeBase64(d)
		case "hram":
			s.HRAM, err = decodeBase64(d)
		case "cart":
			err = s.Cart.Decode(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}

func (c *CPU) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		u8 := func(name string, v uint8) {
			e.Field(name, func(e *jx.Encoder) { e.UInt8(v) })
		}
		u8("a", c.A)
		u8("f", c.F)
		u8("b", c.B)
		u8("c", c.C)
		u8("d", c.D)
		u8("e", c.E)
		u8("h", c.H)
		u8("l", c.L)
		e.Field("sp", func(e *jx.Encoder) { e.UInt16(c.SP) })
		e.Field("pc", func(e *jx.Encoder) { e.UInt16(c.PC) })
		e.Field("cycles", func(e *jx.Encoder) { e.Int64(c.Cycles) })
		e.Field("ime", func(e *jx.Encoder) { e.Bool(c.IME) })
		e.Field("ime_next", func(e *jx.Encoder) { e.Bool(c.IMENext) })
		e.Field("halted", func(e *jx.Encoder) { e.Bool(c.Halted) })
		e.Field("stopped", func(e *jx.Encoder) { e.Bool(c.Stopped) })
		e.Field("halt_quirk", func(e *jx.Encoder) { e.Bool(c.HaltQuirk) })
		u8("saved_lcdc", c.SavedLCDC)
		u8("if", c.IF)
		u8("ie", c.IE)
	})
}

func (c *CPU) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "a":
			c.A, err = d.UInt8()
		case "f":
			c.F, err = d.UInt8()
		case "b":
			c.B, err = d.UInt8()
		case "c":
			c.C, err = d.UInt8()
		case "d":
			c.D, err = d.UInt8()
		case "e":
			c.E, err = d.UInt8()
		case "h":
			c.H, err = d.UInt8()
		case "l":
			c.L, err = d.UInt8()
		case "sp":
			c.SP, err = d.UInt16()
		case "pc":
			c.PC, err = d.UInt16()
		case "cycles":
			c.Cycles, err = d.Int64()
		case "ime":
			c.IME, err = d.Bool()
		case "ime_next":
			c.IMENext, err = d.Bool()
		case "halted":
			c.Halted, err = d.Bool()
		case "stopped":
			c.Stopped, err = d.Bool()
		case "halt_quirk":
			c.HaltQuirk, err = d.Bool()
		case "saved_lcdc":
			c.SavedLCDC, err = d.UInt8()
		case "if":
			c.IF, err = d.UInt8()
		case "ie":
			c.IE, err = d.UInt8()
		default:
			err = d.Skip()
		}
		return err
	})
}

func (l *LCD) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("lcdc", func(e *jx.Encoder) { e.UInt8(l.LCDC) })
		e.Field("stat", func(e *jx.Encoder) { e.UInt8(l.STAT) })
		e.Field("scy", func(e *jx.Encoder) { e.UInt8(l.SCY) })
		e.Field("scx", func(e *jx.Encoder) { e.UInt8(l.SCX) })
		e.Field("tile_data", func(e *jx.Encoder) { base64(e, l.TileData) })
		e.Field("tile_maps", func(e *jx.Encoder) { base64(e, l.TileMaps) })
		e.Field("sprite_data", func(e *jx.Encoder) { base64(e, l.SpriteData) })
	})
}

func (l *LCD) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "lcdc":
			l.LCDC, err = d.UInt8()
		case "stat":
			l.STAT, err = d.UInt8()
		case "scy":
			l.SCY, err = d.UInt8()
		case "scx":
			l.SCX, err = d.UInt8()
		case "tile_data":
			l.TileData, err = decodeBase64(d)
		case "tile_maps":
			l.TileMaps, err = decodeBase64(d)
		case "sprite_data":
			l.SpriteData, err = decodeBase64(d)
		default:
			err = d.Skip()
		}
		return err
	})
}

func (c *Cart) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("type", func(e *jx.Encoder) { e.UInt8(c.Type) })
		e.Field("rom_bank", func(e *jx.Encoder) { e.Int(c.ROMBank) })
		e.Field("ram_bank", func(e *jx.Encoder) { e.Int(c.RAMBank) })
		e.Field("regs", func(e *jx.Encoder) { base64(e, c.Regs) })
		e.Field("ram", func(e *jx.Encoder) { base64(e, c.RAM) })
	})
}

func (c *Cart) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "type":
			c.Type, err = d.UInt8()
		case "rom_bank":
			c.ROMBank, err = d.Int()
		case "ram_bank":
			c.RAMBank, err = d.Int()
		case "regs":
			c.Regs, err = decodeBase64(d)
		case "ram":
			c.RAM, err = decodeBase64(d)
		default:
			err = d.Skip()
		}
		return err
	})
}
