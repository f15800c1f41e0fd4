package hw

import (
	"gbcore/emu/log"
	"gbcore/hw/hwio"
	"gbcore/hw/snapshot"
)

var modLCD = log.NewModule("lcd")

// LCDC bit 7 switches the display on.
const lcdcDisplayOn = 0x80

// LCD holds the display memory and registers. There's no rendering: they
// are plain storage from the bus point of view.
type LCD struct {
	TileData   hwio.Mem `hwio:"size=0x1800"`
	TileMaps   hwio.Mem `hwio:"size=0x800"`
	SpriteData hwio.Mem `hwio:"size=0xA0"`

	LCDC hwio.Reg8 `hwio:"offset=0x40,reset=0x91,wcb"`
	STAT hwio.Reg8 `hwio:"offset=0x41,readonly"`
	SCY  hwio.Reg8 `hwio:"offset=0x42"`
	SCX  hwio.Reg8 `hwio:"offset=0x43"`
}

func NewLCD() *LCD {
	lcd := new(LCD)
	hwio.MustInitRegs(lcd)
	return lcd
}

func (l *LCD) WriteLCDC(old, val uint8) {
	if (old^val)&lcdcDisplayOn == 0 {
		return
	}
	modLCD.DebugZ("display switched").
		Bool("on", val&lcdcDisplayOn != 0).
		Hex8("lcdc", val).
		End()
}

func (l *LCD) SaveState(s *snapshot.LCD) {
	s.LCDC, s.STAT, s.SCY, s.SCX = l.LCDC.Value, l.STAT.Value, l.SCY.Value, l.SCX.Value
	s.TileData = append([]byte(nil), l.TileData.Data...)
	s.TileMaps = append([]byte(nil), l.TileMaps.Data...)
	s.SpriteData = append([]byte(nil), l.SpriteData.Data...)
}

func (l *LCD) LoadState(s *snapshot.LCD) error {
	l.LCDC.Value, l.STAT.Value, l.SCY.Value, l.SCX.Value = s.LCDC, s.STAT, s.SCY, s.SCX
	if err := loadMem(&l.TileData, s.TileData); err != nil {
		return err
	}
	if err := loadMem(&l.TileMaps, s.TileMaps); err != nil {
		return err
	}
	return loadMem(&l.SpriteData, s.SpriteData)
}
