// Package mbc implements cartridge memory bank controllers.
package mbc

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedImage  = errors.New("malformed cartridge image")
	ErrUnsupportedType = errors.New("unsupported cartridge type")
)

// Desc describes a cartridge controller variant.
type Desc struct {
	Name string
	Load func(*Cart) error

	// AllowROMBank0 lets the switchable window select bank 0. Otherwise
	// selecting bank 0 yields bank 1.
	AllowROMBank0 bool
}

// All maps cartridge type codes (header byte 0x147) to controllers.
var All = map[uint8]Desc{
	0x00: ROMOnly,
	0x01: MBC1,
	0x02: MBC1,
	0x03: MBC1,
	0x08: ROMOnly,
	0x09: ROMOnly,
}

// Load checks image and instantiates the controller its header declares.
func Load(image []byte) (*Cart, error) {
	if len(image) == 0 || len(image)%ROMBankSize != 0 {
		return nil, fmt.Errorf("%w: size %d is not a multiple of %#x", ErrMalformedImage, len(image), ROMBankSize)
	}
	typ := image[addrCartType]
	desc, ok := All[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %#02x", ErrUnsupportedType, typ)
	}

	cart := newCart(desc, image)
	if err := desc.Load(cart); err != nil {
		return nil, fmt.Errorf("failed to load controller %s: %w", desc.Name, err)
	}
	return cart, nil
}
