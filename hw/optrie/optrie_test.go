package optrie

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type bytesrc struct {
	buf []uint8
	pos int
}

// Fetch8 reads zero past the end of buf.
func (s *bytesrc) Fetch8() uint8 {
	var v uint8
	if s.pos < len(s.buf) {
		v = s.buf[s.pos]
	}
	s.pos++
	return v
}

func testTrie(t *testing.T) *Trie[string] {
	t.Helper()

	b := NewBuilder[string]()
	b.MustRegister("nop", Byte(0x00))
	b.MustRegister("ld r,r", Range(0x40, 0x80).Except(0x76))
	b.MustRegister("halt", Byte(0x76))
	b.MustRegister("stop", Byte(0x10), Byte(0x00))
	b.MustRegister("cb", Byte(0xCB), Range(0x00, 0x100))
	return b.Build()
}

func TestDecode(t *testing.T) {
	trie := testTrie(t)

	tests := []struct {
		in      []uint8
		want    string
		wantLen int
	}{
		{in: []uint8{0x00, 0xFF}, want: "nop", wantLen: 1},
		{in: []uint8{0x41}, want: "ld r,r", wantLen: 1},
		{in: []uint8{0x76}, want: "halt", wantLen: 1},
		{in: []uint8{0x10, 0x00}, want: "stop", wantLen: 2},
		{in: []uint8{0xCB, 0xFF}, want: "cb", wantLen: 2},
	}
	for _, tt := range tests {
		src := &bytesrc{buf: tt.in}
		h, op, err := trie.Decode(0x100, src)
		if err != nil {
			t.Fatalf("Decode(% 02x) error: %v", tt.in, err)
		}
		if h != tt.want {
			t.Errorf("Decode(% 02x) = %q, want %q", tt.in, h, tt.want)
		}
		if diff := cmp.Diff(tt.in[:tt.wantLen], op); diff != "" {
			t.Errorf("Decode(% 02x) consumed bytes mismatch (-want +got):\n%s", tt.in, diff)
		}
		if src.pos != tt.wantLen {
			t.Errorf("Decode(% 02x) consumed %d bytes, want %d", tt.in, src.pos, tt.wantLen)
		}
	}

	if got := trie.Len(); got != 1+63+1+1+256 {
		t.Errorf("Len() = %d", got)
	}
}

func TestDecodeInvalid(t *testing.T) {
	trie := testTrie(t)

	tests := []struct {
		in   []uint8
		want []uint8
	}{
		{in: []uint8{0xD3}, want: []uint8{0xD3}},
		{in: []uint8{0x10, 0x01}, want: []uint8{0x10, 0x01}},
	}
	for _, tt := range tests {
		_, op, err := trie.Decode(0x1234, &bytesrc{buf: tt.in})

		var ierr *InvalidOpcodeError
		if !errors.As(err, &ierr) {
			t.Fatalf("Decode(% 02x) error = %v, want InvalidOpcodeError", tt.in, err)
		}
		if ierr.Addr != 0x1234 {
			t.Errorf("error addr = %04X, want 1234", ierr.Addr)
		}
		if diff := cmp.Diff(tt.want, ierr.Bytes); diff != "" {
			t.Errorf("error bytes mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(tt.want, op); diff != "" {
			t.Errorf("consumed bytes mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name  string
		first []Pattern
		then  []Pattern
		want  error
	}{
		{
			name: "empty",
			then: nil,
			want: ErrEmptyPattern,
		},
		{
			name: "empty position",
			then: []Pattern{Byte(0x01), Set()},
			want: ErrEmptyPattern,
		},
		{
			name:  "duplicate",
			first: []Pattern{Byte(0x01)},
			then:  []Pattern{Set(0x00, 0x01)},
			want:  ErrDuplicate,
		},
		{
			name:  "leaf is a prefix",
			first: []Pattern{Byte(0x10)},
			then:  []Pattern{Byte(0x10), Byte(0x00)},
			want:  ErrPrefixCollision,
		},
		{
			name:  "prefix is a leaf",
			first: []Pattern{Byte(0xCB), Byte(0x00)},
			then:  []Pattern{Byte(0xCB)},
			want:  ErrPrefixCollision,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder[int]()
			if tt.first != nil {
				b.MustRegister(1, tt.first...)
			}
			err := b.Register(2, tt.then...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Register() error = %v, want %v", err, tt.want)
			}

			// A failed registration leaves the trie untouched.
			trie := b.Build()
			want := 0
			if tt.first != nil {
				want = 1
			}
			if trie.Len() != want {
				t.Errorf("Len() = %d, want %d", trie.Len(), want)
			}
			expand(tt.then, func(seq []uint8) bool {
				if h, _, err := trie.Decode(0, &bytesrc{buf: seq}); err == nil && h != 1 {
					t.Errorf("found handler %d at [% 02x]", h, seq)
				}
				return true
			})
		})
	}
}

func TestMustRegisterPanics(t *testing.T) {
	b := NewBuilder[int]()
	b.MustRegister(1, Byte(0x00))

	defer func() {
		if recover() == nil {
			t.Error("MustRegister did not panic on duplicate")
		}
	}()
	b.MustRegister(2, Byte(0x00))
}

func TestBuilderUnusableAfterBuild(t *testing.T) {
	b := NewBuilder[int]()
	b.Build()
	if err := b.Register(1, Byte(0)); !errors.Is(err, ErrBuilt) {
		t.Errorf("Register() after Build error = %v", err)
	}
}
