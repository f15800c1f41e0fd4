package hwio

import "fmt"

// RegMap is a page of sparse registers, such as the I/O page. Offsets with
// no register read as zero and discard writes.
type RegMap struct {
	Name string
	regs []*Reg8
}

func NewRegMap(name string, size int) *RegMap {
	return &RegMap{Name: name, regs: make([]*Reg8, size)}
}

// Size returns the number of offsets covered by the page.
func (rm *RegMap) Size() int { return len(rm.regs) }

func (rm *RegMap) MapReg8(off uint16, reg *Reg8) {
	if int(off) >= len(rm.regs) {
		panic(fmt.Sprintf("%s: register %s offset %#x out of range", rm.Name, reg.Name, off))
	}
	rm.regs[off] = reg
}

// MapBank maps all the registers of bank bankNum declared in the struct
// pointed to by bank (see InitRegs for the tag format).
func (rm *RegMap) MapBank(bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}
	for _, reg := range regs {
		r, ok := reg.regPtr.(*Reg8)
		if !ok {
			panic(fmt.Errorf("%s: invalid reg type: %T", rm.Name, reg.regPtr))
		}
		rm.MapReg8(reg.offset, r)
	}
}

func (rm *RegMap) Read8(off uint16) uint8 {
	if int(off) < len(rm.regs) && rm.regs[off] != nil {
		return rm.regs[off].Read8(off)
	}
	return 0
}

func (rm *RegMap) Write8(off uint16, val uint8) {
	if int(off) < len(rm.regs) && rm.regs[off] != nil {
		rm.regs[off].Write8(off, val)
	}
}
