// Package rom reads Game Boy cartridge images and decodes their header.
package rom

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Header field offsets.
const (
	offTitle          = 0x134
	offCGB            = 0x143
	offNewLicensee    = 0x144
	offSGB            = 0x146
	offCartType       = 0x147
	offROMSize        = 0x148
	offRAMSize        = 0x149
	offDestination    = 0x14A
	offOldLicensee    = 0x14B
	offVersion        = 0x14C
	offHeaderChecksum = 0x14D
	offGlobalChecksum = 0x14E

	headerEnd = 0x150
)

type Rom struct {
	header
	Data []byte // the full cartridge image
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if err := rom.decode(buf); err != nil {
		return 0, fmt.Errorf("failed to decode header: %w", err)
	}
	rom.Data = buf
	return int64(len(buf)), nil
}

type header struct {
	raw [headerEnd]byte
}

func (hdr *header) decode(p []byte) error {
	if len(p) < headerEnd {
		return fmt.Errorf("too small, needs %d bytes, got %d", headerEnd, len(p))
	}
	copy(hdr.raw[:], p[:headerEnd])
	return nil
}

// Title returns the game title.
func (hdr *header) Title() string {
	end := offCGB + 1
	if hdr.raw[offCGB]&0x80 != 0 {
		// CGB flag overlaps the last character.
		end = offCGB
	}
	title, _, _ := bytes.Cut(hdr.raw[offTitle:end], []byte{0})
	return strings.TrimSpace(string(title))
}

// CartType returns the cartridge type code, which determines the memory
// bank controller.
func (hdr *header) CartType() uint8 { return hdr.raw[offCartType] }

// ROMSize returns the ROM size declared in the header, in bytes.
func (hdr *header) ROMSize() int {
	code := hdr.raw[offROMSize]
	if code > 8 {
		return 0
	}
	return 0x8000 << code
}

// RAMSizeCode returns the external RAM size code.
func (hdr *header) RAMSizeCode() uint8 { return hdr.raw[offRAMSize] }

// CGB reports whether the game supports Game Boy Color functions.
func (hdr *header) CGB() bool { return hdr.raw[offCGB]&0x80 != 0 }

// SGB reports whether the game supports Super Game Boy functions.
func (hdr *header) SGB() bool { return hdr.raw[offSGB] == 0x03 }

// Japanese reports whether the game is sold in Japan only.
func (hdr *header) Japanese() bool { return hdr.raw[offDestination] == 0 }

// Licensee returns the publisher code.
func (hdr *header) Licensee() string {
	if hdr.raw[offOldLicensee] == 0x33 {
		return string(hdr.raw[offNewLicensee : offNewLicensee+2])
	}
	return fmt.Sprintf("%02X", hdr.raw[offOldLicensee])
}

func (hdr *header) Version() uint8 { return hdr.raw[offVersion] }

// HeaderChecksum returns the checksum stored in the header.
func (hdr *header) HeaderChecksum() uint8 { return hdr.raw[offHeaderChecksum] }

// ComputeHeaderChecksum computes the checksum of the header bytes, as the
// boot ROM does.
func (hdr *header) ComputeHeaderChecksum() uint8 {
	var x uint8
	for _, b := range hdr.raw[offTitle:offHeaderChecksum] {
		x = x - b - 1
	}
	return x
}

// GlobalChecksum returns the checksum of the whole image stored in the
// header. Nothing checks it on hardware.
func (hdr *header) GlobalChecksum() uint16 {
	return uint16(hdr.raw[offGlobalChecksum])<<8 | uint16(hdr.raw[offGlobalChecksum+1])
}

// ComputeGlobalChecksum sums all the bytes of the image, except the global
// checksum itself.
func (rom *Rom) ComputeGlobalChecksum() uint16 {
	var sum uint16
	for i, b := range rom.Data {
		if i == offGlobalChecksum || i == offGlobalChecksum+1 {
			continue
		}
		sum += uint16(b)
	}
	return sum
}

var cartTypes = map[uint8]string{
	0x00: "ROM ONLY",
	0x01: "MBC1",
	0x02: "MBC1+RAM",
	0x03: "MBC1+RAM+BATTERY",
	0x05: "MBC2",
	0x06: "MBC2+BATTERY",
	0x08: "ROM+RAM",
	0x09: "ROM+RAM+BATTERY",
	0x0F: "MBC3+TIMER+BATTERY",
	0x10: "MBC3+TIMER+RAM+BATTERY",
	0x11: "MBC3",
	0x12: "MBC3+RAM",
	0x13: "MBC3+RAM+BATTERY",
	0x19: "MBC5",
	0x1A: "MBC5+RAM",
	0x1B: "MBC5+RAM+BATTERY",
	0x1C: "MBC5+RUMBLE",
	0x1D: "MBC5+RUMBLE+RAM",
	0x1E: "MBC5+RUMBLE+RAM+BATTERY",
}

// CartTypeName returns a human readable name of a cartridge type code.
func CartTypeName(code uint8) string {
	if name, ok := cartTypes[code]; ok {
		return name
	}
	return fmt.Sprintf("unknown (%02Xh)", code)
}

var ramSizes = map[uint8]string{
	0: "none",
	1: "2KB",
	2: "8KB",
	3: "32KB",
	4: "128KB",
	5: "64KB",
}

// PrintInfos writes a description of the rom header to w.
func (rom *Rom) PrintInfos(w io.Writer) error {
	ram, ok := ramSizes[rom.RAMSizeCode()]
	if !ok {
		ram = fmt.Sprintf("unknown (%02Xh)", rom.RAMSizeCode())
	}
	hcheck := "ok"
	if rom.HeaderChecksum() != rom.ComputeHeaderChecksum() {
		hcheck = fmt.Sprintf("mismatch, computed %02Xh", rom.ComputeHeaderChecksum())
	}
	gcheck := "ok"
	if rom.GlobalChecksum() != rom.ComputeGlobalChecksum() {
		gcheck = fmt.Sprintf("mismatch, computed %04Xh", rom.ComputeGlobalChecksum())
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Title:\t%s\n", rom.Title())
	fmt.Fprintf(tw, "Cartridge type:\t%s\n", CartTypeName(rom.CartType()))
	fmt.Fprintf(tw, "ROM size:\t%dKB (image: %dKB)\n", rom.ROMSize()/1024, len(rom.Data)/1024)
	fmt.Fprintf(tw, "RAM size:\t%s\n", ram)
	fmt.Fprintf(tw, "CGB:\t%t\n", rom.CGB())
	fmt.Fprintf(tw, "SGB:\t%t\n", rom.SGB())
	fmt.Fprintf(tw, "Japanese:\t%t\n", rom.Japanese())
	fmt.Fprintf(tw, "Licensee:\t%s\n", rom.Licensee())
	fmt.Fprintf(tw, "Version:\t%d\n", rom.Version())
	fmt.Fprintf(tw, "Header checksum:\t%02Xh (%s)\n", rom.HeaderChecksum(), hcheck)
	fmt.Fprintf(tw, "Global checksum:\t%04Xh (%s)\n", rom.GlobalChecksum(), gcheck)
	return tw.Flush()
}
