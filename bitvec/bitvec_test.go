package bitvec_test

import (
	"bytes"
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/db47h/shatb/bitvec"
)

func TestFromBytes(t *testing.T) {
	v := bitvec.FromBytes([]byte{0x12, 0x34, 0x56, 0x78, 0x9a})
	if v.Width() != 40 {
		t.Fatalf("width = %d, expected 40", v.Width())
	}
	td := []struct {
		off, n int
		exp    uint64
	}{
		{0, 8, 0x9a},
		{8, 8, 0x78},
		{0, 16, 0x789a},
		{4, 8, 0x89},
		{32, 8, 0x12},
		{32, 32, 0x12}, // past the end
		{0, 40, 0x123456789a},
		{36, 4, 0x1},
	}
	for _, d := range td {
		if got := v.Field(d.off, d.n); got != d.exp {
			t.Errorf("Field(%d, %d) = %#x, expected %#x", d.off, d.n, got, d.exp)
		}
	}
	if h := v.Hex(); h != "123456789a" {
		t.Errorf("Hex() = %s", h)
	}
}

func TestVector_roundTrip(t *testing.T) {
	f := func(p []byte) bool {
		return bytes.Equal(bitvec.FromBytes(p).Bytes(), p)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestVector_chunks(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, width := range []int{160, 224, 256, 384, 512, 1024} {
		for _, bits := range []int{8, 16, 32, 64} {
			p := make([]byte, width/8)
			rng.Read(p)
			v := bitvec.FromBytes(p)
			chunks := v.Chunks(bits)
			if len(chunks) != (width+bits-1)/bits {
				t.Fatalf("%d/%d: got %d chunks", width, bits, len(chunks))
			}
			w := bitvec.New(width)
			for i, c := range chunks {
				w.SetField(i*bits, bits, c)
			}
			if !w.Equal(v) {
				t.Fatalf("%d/%d: reassembled %s, expected %s", width, bits, w, v)
			}
			// chunk 0 is the least significant end of the big endian bytes
			if exp := uint64(p[len(p)-1]); chunks[0]&0xff != exp {
				t.Fatalf("%d/%d: chunk 0 = %#x, expected low byte %#x", width, bits, chunks[0], exp)
			}
		}
	}
}

func TestVector_setField(t *testing.T) {
	v := bitvec.New(12)
	v.SetField(8, 8, 0xff) // only 4 bits fit
	if got := v.Field(0, 16); got != 0xf00 {
		t.Fatalf("got %#x, expected 0xf00", got)
	}
	if v.Bit(12) || v.Bit(-1) {
		t.Fatal("out of range bits must read as 0")
	}
	w := v.Clone()
	v.Reset()
	if !v.IsZero() || w.IsZero() {
		t.Fatal("Clone shares storage")
	}
	if v.Equal(bitvec.New(13)) {
		t.Fatal("vectors of different width compare equal")
	}
}

func TestFromUint64(t *testing.T) {
	v := bitvec.FromUint64(0xdeadbeef, 16)
	if v.Width() != 16 || v.Field(0, 64) != 0xbeef {
		t.Fatalf("got %d bits %s", v.Width(), v)
	}
	w, err := bitvec.FromHex("beef")
	if err != nil {
		t.Fatal(err)
	}
	if !w.Equal(v) {
		t.Fatalf("FromHex = %s, expected %s", w, v)
	}
	if _, err = bitvec.FromHex("xyz"); err == nil {
		t.Fatal("FromHex accepted invalid input")
	}
}
