package hwio

// Bank is a region delegating to a swappable target. It's mapped once on the
// bus; switching banks only changes the target, never the bus table.
type Bank struct {
	Name string
	cur  BankIO8
}

// Select makes io the target of the bank. A nil io selects a blank region.
func (b *Bank) Select(io BankIO8) {
	if io == nil {
		io = Blank(b.Name)
	}
	b.cur = io
}

func (b *Bank) Read8(off uint16) uint8 {
	if b.cur == nil {
		return 0
	}
	return b.cur.Read8(off)
}

func (b *Bank) Write8(off uint16, val uint8) {
	if b.cur != nil {
		b.cur.Write8(off, val)
	}
}
