package hwio

// Device is a region whose accesses are handled by callbacks. A nil ReadCb
// reads as zero and a nil WriteCb discards writes: the zero Device is a
// blank region.
//
// Devices are also used to intercept writes to an otherwise plain area, for
// example to turn writes into ROM into bank-switching commands:
//
//	&Device{Name: "rom0", ReadCb: rom.Read8, WriteCb: mbc.romWrite}
type Device struct {
	Name string // name of the memory area (for debugging)

	ReadCb  func(off uint16) uint8
	WriteCb func(off uint16, val uint8)
}

// unmapped is the region covering addresses no one has claimed.
var unmapped = &Device{Name: "unmapped"}

// Blank returns a region reading zero and discarding writes.
func Blank(name string) *Device {
	return &Device{Name: name}
}

func (d *Device) Read8(off uint16) uint8 {
	if d.ReadCb == nil {
		return 0
	}
	return d.ReadCb(off)
}

func (d *Device) Write8(off uint16, val uint8) {
	if d.WriteCb != nil {
		d.WriteCb(off, val)
	}
}
