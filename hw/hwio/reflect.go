package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// InitRegs initializes the Reg8 and Mem fields of the struct pointed to by
// data, according to their "hwio" struct tag. The tag is a comma-separated
// list of options:
//
//	offset=0x12   byte offset of the register within its bank. Fields without
//	              an offset are initialized but don't belong to any bank.
//	bank=N        bank number (default 0), used by RegMap.MapBank.
//	size=0x800    (Mem) size of the buffer to allocate.
//	reset=0x99    (Reg8) initial value.
//	readonly      drop writes coming from the bus.
//	rcb[=Name]    (Reg8) read callback, method Name or Read<FIELD>.
//	wcb[=Name]    (Reg8) write callback, method Name or Write<FIELD>.
func InitRegs(data any) error {
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("hwio: InitRegs wants a pointer to struct, got %T", data)
	}
	elem := val.Elem()
	typ := elem.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok || !field.IsExported() {
			continue
		}
		opts, err := parseTag(tag)
		if err != nil {
			return fmt.Errorf("hwio: %s.%s: %w", typ.Name(), field.Name, err)
		}

		switch ptr := elem.Field(i).Addr().Interface().(type) {
		case *Reg8:
			err = initReg8(val, field.Name, ptr, opts)
		case *Mem:
			err = initMem(field.Name, ptr, opts)
		default:
			err = fmt.Errorf("unsupported type %s", field.Type)
		}
		if err != nil {
			return fmt.Errorf("hwio: %s.%s: %w", typ.Name(), field.Name, err)
		}
	}
	return nil
}

// MustInitRegs is like InitRegs but panics on error. Register declarations
// are static, so an error here is a programming error.
func MustInitRegs(data any) {
	if err := InitRegs(data); err != nil {
		panic(err)
	}
}

type tagOpts map[string]string

func parseTag(tag string) (tagOpts, error) {
	opts := make(tagOpts)
	for _, kv := range strings.Split(tag, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		if _, dup := opts[k]; dup {
			return nil, fmt.Errorf("duplicated option %q", k)
		}
		opts[k] = v
	}
	return opts, nil
}

func (o tagOpts) uint(key string, bits int, def uint64) (uint64, error) {
	s, ok := o[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", key, err)
	}
	return v, nil
}

func (o tagOpts) has(key string) bool {
	_, ok := o[key]
	return ok
}

func initReg8(owner reflect.Value, name string, reg *Reg8, opts tagOpts) error {
	reg.Name = name

	reset, err := opts.uint("reset", 8, 0)
	if err != nil {
		return err
	}
	reg.Value = uint8(reset)
	if opts.has("readonly") {
		reg.Flags |= ReadOnlyFlag
	}

	if opts.has("rcb") {
		m, err := method(owner, opts["rcb"], "Read"+strings.ToUpper(name))
		if err != nil {
			return err
		}
		cb, ok := m.(func(uint8) uint8)
		if !ok {
			return fmt.Errorf("read callback has type %T", m)
		}
		reg.ReadCb = cb
	}
	if opts.has("wcb") {
		m, err := method(owner, opts["wcb"], "Write"+strings.ToUpper(name))
		if err != nil {
			return err
		}
		cb, ok := m.(func(uint8, uint8))
		if !ok {
			return fmt.Errorf("write callback has type %T", m)
		}
		reg.WriteCb = cb
	}
	return nil
}

func initMem(name string, mem *Mem, opts tagOpts) error {
	mem.Name = name
	size, err := opts.uint("size", 32, 0)
	if err != nil {
		return err
	}
	if size == 0 {
		return fmt.Errorf("mem without size")
	}
	mem.Data = make([]byte, size)
	if opts.has("readonly") {
		mem.Flags |= MemFlagReadOnly
	}
	return nil
}

func method(owner reflect.Value, name, def string) (any, error) {
	if name == "" {
		name = def
	}
	m := owner.MethodByName(name)
	if !m.IsValid() {
		return nil, fmt.Errorf("missing method %s", name)
	}
	return m.Interface(), nil
}

type bankReg struct {
	offset uint16
	regPtr any
}

// bankGetRegs returns the registers of data belonging to bank bankNum.
func bankGetRegs(data any, bankNum int) ([]bankReg, error) {
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("hwio: bank must be a pointer to struct, got %T", data)
	}
	elem := val.Elem()
	typ := elem.Type()

	var regs []bankReg
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok || !field.IsExported() {
			continue
		}
		opts, err := parseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("hwio: %s.%s: %w", typ.Name(), field.Name, err)
		}
		if !opts.has("offset") {
			continue
		}
		bank, err := opts.uint("bank", 8, 0)
		if err != nil {
			return nil, err
		}
		if int(bank) != bankNum {
			continue
		}
		off, err := opts.uint("offset", 16, 0)
		if err != nil {
			return nil, fmt.Errorf("hwio: %s.%s: %w", typ.Name(), field.Name, err)
		}
		regs = append(regs, bankReg{
			offset: uint16(off),
			regPtr: elem.Field(i).Addr().Interface(),
		})
	}
	return regs, nil
}
