package hwio

import (
	"sort"

	"gbcore/emu/log"
)

// BankIO8 is a byte-addressable region. Addresses passed to a region are
// offsets relative to the base at which it's mapped.
type BankIO8 interface {
	Read8(off uint16) uint8
	Write8(off uint16, val uint8)
}

func Write16(b BankIO8, addr uint16, val uint16) {
	b.Write8(addr, uint8(val))
	b.Write8(addr+1, uint8(val>>8))
}

func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

type entry struct {
	base uint16
	io   BankIO8
	name string
}

// Region describes a table entry.
type Region struct {
	Base uint16
	Name string
}

// Table is an address bus. It maps base addresses to regions; an address
// belongs to the region with the greatest base lower or equal to it. A new
// table has an unmapped region at base 0, so every address always resolves.
type Table struct {
	Name string

	entries []entry // sorted by base
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

// Reset unmaps all regions.
func (t *Table) Reset() {
	t.entries = []entry{{base: 0, io: unmapped, name: "unmapped"}}
}

// Map binds io at base, replacing any region previously mapped at the same
// base. The region extends up to the next mapped base.
func (t *Table) Map(base uint16, io BankIO8, name string) {
	log.ModHwIo.DebugZ("map region").
		Hex16("base", base).
		String("area", name).
		String("bus", t.Name).
		End()

	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].base >= base })
	if i < len(t.entries) && t.entries[i].base == base {
		t.entries[i] = entry{base: base, io: io, name: name}
		return
	}
	t.entries = append(t.entries, entry{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = entry{base: base, io: io, name: name}
}

func (t *Table) search(addr uint16) int {
	return sort.Search(len(t.entries), func(i int) bool { return t.entries[i].base > addr }) - 1
}

// Resolve returns the region owning addr and the offset of addr within it.
func (t *Table) Resolve(addr uint16) (BankIO8, uint16) {
	e := &t.entries[t.search(addr)]
	return e.io, addr - e.base
}

// Lookup returns the description of the region owning addr.
func (t *Table) Lookup(addr uint16) Region {
	e := &t.entries[t.search(addr)]
	return Region{Base: e.base, Name: e.name}
}

// Regions lists the mapped regions in address order.
func (t *Table) Regions() []Region {
	regs := make([]Region, len(t.entries))
	for i, e := range t.entries {
		regs[i] = Region{Base: e.base, Name: e.name}
	}
	return regs
}

func (t *Table) Read8(addr uint16) uint8 {
	e := &t.entries[t.search(addr)]
	return e.io.Read8(addr - e.base)
}

func (t *Table) Write8(addr uint16, val uint8) {
	e := &t.entries[t.search(addr)]
	e.io.Write8(addr-e.base, val)
}
