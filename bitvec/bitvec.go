// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bitvec implements fixed width bit vectors used to carry hash blocks
// and digests between the software models, the register map and simulated
// hardware.
//
// Bit 0 is the least significant bit. When converted from or to bytes, the
// first byte is the most significant one, so that a padded SHA block or a
// digest maps to a vector the same way hardware sees it on a wide bus.
package bitvec

import (
	"encoding/hex"

	"github.com/bits-and-blooms/bitset"
)

// A Vector is a fixed width bit vector. Vectors have reference semantics: a
// copy of a Vector shares its storage with the original. Use Clone to get an
// independent copy.
type Vector struct {
	b *bitset.BitSet
	n uint
}

// New returns a new zero Vector of the given width in bits.
func New(width int) Vector {
	if width < 0 {
		panic("negative vector width")
	}
	return Vector{b: bitset.New(uint(width)), n: uint(width)}
}

// FromBytes returns a Vector of width 8*len(p) holding the big endian integer
// in p.
func FromBytes(p []byte) Vector {
	v := New(len(p) * 8)
	for i, x := range p {
		off := (len(p) - 1 - i) * 8
		v.SetField(off, 8, uint64(x))
	}
	return v
}

// FromUint64 returns a Vector of the given width set to the low bits of x.
func FromUint64(x uint64, width int) Vector {
	v := New(width)
	n := width
	if n > 64 {
		n = 64
	}
	v.SetField(0, n, x)
	return v
}

// FromHex parses a big endian hex string.
func FromHex(s string) (Vector, error) {
	p, err := hex.DecodeString(s)
	if err != nil {
		return Vector{}, err
	}
	return FromBytes(p), nil
}

// Width returns the width of v in bits.
func (v Vector) Width() int { return int(v.n) }

// Bit returns the value of bit i. Bits outside the vector read as 0.
func (v Vector) Bit(i int) bool {
	if i < 0 || uint(i) >= v.n {
		return false
	}
	return v.b.Test(uint(i))
}

// SetBit sets bit i to x. Bits outside the vector are ignored.
func (v Vector) SetBit(i int, x bool) {
	if i < 0 || uint(i) >= v.n {
		return
	}
	v.b.SetTo(uint(i), x)
}

// Field returns the n bits starting at bit off as an unsigned integer. n must
// be in the range [0, 64]. Bits past the end of the vector read as 0.
func (v Vector) Field(off, n int) uint64 {
	if n < 0 || n > 64 {
		panic("invalid field width")
	}
	var x uint64
	for i := 0; i < n; i++ {
		if v.Bit(off + i) {
			x |= 1 << uint(i)
		}
	}
	return x
}

// SetField sets the n bits starting at bit off to the low n bits of x. Bits
// past the end of the vector are dropped.
func (v Vector) SetField(off, n int, x uint64) {
	if n < 0 || n > 64 {
		panic("invalid field width")
	}
	for i := 0; i < n; i++ {
		v.SetBit(off+i, x&(1<<uint(i)) != 0)
	}
}

// Chunks splits v into ceil(Width()/bits) chunks of the given width. Chunk i
// holds bits [i*bits, (i+1)*bits).
func (v Vector) Chunks(bits int) []uint64 {
	if bits <= 0 || bits > 64 {
		panic("invalid chunk width")
	}
	n := (v.Width() + bits - 1) / bits
	out := make([]uint64, n)
	for i := range out {
		out[i] = v.Field(i*bits, bits)
	}
	return out
}

// Bytes returns v as a big endian byte slice. If the width is not a multiple
// of 8, the most significant byte is zero extended.
func (v Vector) Bytes() []byte {
	n := (v.Width() + 7) / 8
	out := make([]byte, n)
	for i := range out {
		out[n-1-i] = byte(v.Field(i*8, 8))
	}
	return out
}

// Hex returns v in big endian hex.
func (v Vector) Hex() string {
	return hex.EncodeToString(v.Bytes())
}

func (v Vector) String() string { return v.Hex() }

// Equal returns true if v and w have the same width and value.
func (v Vector) Equal(w Vector) bool {
	if v.n != w.n {
		return false
	}
	if v.n == 0 {
		return true
	}
	return v.b.Equal(w.b)
}

// Clone returns a copy of v that does not share storage with it.
func (v Vector) Clone() Vector {
	if v.b == nil {
		return Vector{}
	}
	return Vector{b: v.b.Clone(), n: v.n}
}

// IsZero returns true if all bits of v are 0.
func (v Vector) IsZero() bool {
	return v.b == nil || v.b.None()
}

// Reset clears all bits of v.
func (v Vector) Reset() {
	if v.b != nil {
		v.b.ClearAll()
	}
}
