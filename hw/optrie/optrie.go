// Package optrie implements a prefix trie mapping variable-length opcode byte
// sequences to instruction handlers.
//
// A trie is populated once with a Builder, then frozen with Build. Patterns
// are sequences of value sets, so that a family of opcodes differing only by
// an embedded field (a register index, a bit number) is registered at once:
//
//	b.MustRegister(ldrr, optrie.Range(0x40, 0x80).Except(0x76))
//	b.MustRegister(bit, optrie.Byte(0xCB), optrie.Range(0x40, 0x80))
package optrie

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrEmptyPattern    = errors.New("empty opcode pattern")
	ErrDuplicate       = errors.New("opcode registered twice")
	ErrPrefixCollision = errors.New("opcode collides with another opcode prefix")
	ErrBuilt           = errors.New("trie already built")
)

// RegisterError reports a registration failure for a concrete sequence.
type RegisterError struct {
	Seq []uint8
	Err error
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("optrie: register [% 02x]: %s", e.Seq, e.Err)
}

func (e *RegisterError) Unwrap() error { return e.Err }

// InvalidOpcodeError is returned by Decode when a byte sequence matches no
// registered opcode. Bytes holds every byte consumed, starting at Addr.
type InvalidOpcodeError struct {
	Addr  uint16
	Bytes []uint8
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode [% 02x] at $%04X", e.Bytes, e.Addr)
}

// Pattern is the set of values accepted at one position of an opcode.
type Pattern []uint8

func Byte(v uint8) Pattern { return Pattern{v} }

func Set(vals ...uint8) Pattern { return Pattern(vals) }

// Range returns the pattern of all values in [lo, hi).
func Range(lo, hi int) Pattern {
	p := make(Pattern, 0, hi-lo)
	for v := lo; v < hi; v++ {
		p = append(p, uint8(v))
	}
	return p
}

// Except returns a copy of p without the given values.
func (p Pattern) Except(vals ...uint8) Pattern {
	return slices.DeleteFunc(slices.Clone(p), func(v uint8) bool {
		return slices.Contains(vals, v)
	})
}

type node[H any] struct {
	children *[256]*node[H]
	leaf     bool
	h        H
}

func (n *node[H]) child(b uint8) *node[H] {
	if n.children == nil {
		return nil
	}
	return n.children[b]
}

// Builder populates a trie. It's not safe for concurrent use.
type Builder[H any] struct {
	root   *node[H]
	leaves int
}

func NewBuilder[H any]() *Builder[H] {
	return &Builder[H]{root: &node[H]{}}
}

// Register inserts h at every concrete sequence matched by pattern. Nothing
// is inserted if any of these sequences is invalid.
func (b *Builder[H]) Register(h H, pattern ...Pattern) error {
	if b.root == nil {
		return ErrBuilt
	}
	if len(pattern) == 0 {
		return &RegisterError{Err: ErrEmptyPattern}
	}
	parts := make([]Pattern, len(pattern))
	for i, p := range pattern {
		if len(p) == 0 {
			return &RegisterError{Err: fmt.Errorf("position %d: %w", i, ErrEmptyPattern)}
		}
		parts[i] = slices.Compact(slices.Sorted(slices.Values(p)))
	}

	var err error
	expand(parts, func(seq []uint8) bool {
		err = b.check(seq)
		return err == nil
	})
	if err != nil {
		return err
	}
	expand(parts, func(seq []uint8) bool {
		b.insert(seq, h)
		return true
	})
	return nil
}

// MustRegister is like Register but panics on error. Opcode tables are
// static, a collision is a programming error.
func (b *Builder[H]) MustRegister(h H, pattern ...Pattern) {
	if err := b.Register(h, pattern...); err != nil {
		panic(err)
	}
}

func (b *Builder[H]) check(seq []uint8) error {
	n := b.root
	for i, v := range seq {
		c := n.child(v)
		switch {
		case c == nil:
			return nil
		case c.leaf && i == len(seq)-1:
			return &RegisterError{Seq: slices.Clone(seq), Err: ErrDuplicate}
		case c.leaf:
			// a strict prefix of seq is an opcode.
			return &RegisterError{Seq: slices.Clone(seq), Err: ErrPrefixCollision}
		case i == len(seq)-1:
			// seq is a strict prefix of other opcodes.
			return &RegisterError{Seq: slices.Clone(seq), Err: ErrPrefixCollision}
		}
		n = c
	}
	return nil
}

func (b *Builder[H]) insert(seq []uint8, h H) {
	n := b.root
	for _, v := range seq {
		if n.children == nil {
			n.children = new([256]*node[H])
		}
		c := n.children[v]
		if c == nil {
			c = &node[H]{}
			n.children[v] = c
		}
		n = c
	}
	n.leaf = true
	n.h = h
	b.leaves++
}

// expand calls fn with every concrete sequence of parts, until fn returns
// false. seq is reused between calls.
func expand(parts []Pattern, fn func(seq []uint8) bool) {
	seq := make([]uint8, len(parts))
	var rec func(i int) bool
	rec = func(i int) bool {
		if i == len(parts) {
			return fn(seq)
		}
		for _, v := range parts[i] {
			seq[i] = v
			if !rec(i + 1) {
				return false
			}
		}
		return true
	}
	rec(0)
}

// Build freezes the trie. The builder can't be used anymore.
func (b *Builder[H]) Build() *Trie[H] {
	t := &Trie[H]{root: b.root, leaves: b.leaves}
	b.root = nil
	return t
}

// ByteSource provides opcode bytes to Decode.
type ByteSource interface {
	Fetch8() uint8
}

// Trie is a read-only opcode trie, safe for concurrent use.
type Trie[H any] struct {
	root   *node[H]
	leaves int
}

// Decode consumes bytes from src until they designate a registered opcode,
// and returns its handler along with the consumed bytes. addr is the address
// of the first byte, only used for error reporting.
func (t *Trie[H]) Decode(addr uint16, src ByteSource) (H, []uint8, error) {
	var (
		buf [4]uint8
		op  = buf[:0]
	)
	n := t.root
	for {
		v := src.Fetch8()
		op = append(op, v)
		n = n.child(v)
		if n == nil {
			var zero H
			return zero, op, &InvalidOpcodeError{Addr: addr, Bytes: op}
		}
		if n.leaf {
			return n.h, op, nil
		}
	}
}

// Len returns the number of concrete opcodes.
func (t *Trie[H]) Len() int { return t.leaves }
