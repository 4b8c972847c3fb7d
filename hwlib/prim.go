// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/shatb"
	"github.com/db47h/shatb/hashmodel"
)

// Pin names of the three operand primitives.
const (
	pX = "x"
	pY = "y"
	pZ = "z"
)

func checkWidth(name string, bits int) {
	if bits <= 0 || bits > 64 {
		panic(name + ": unsupported width " + strconv.Itoa(bits))
	}
}

func xyzN(name string, bits int, f func(x, y, z uint64) uint64) shatb.NewPartFn {
	checkWidth(name, bits)
	return (&shatb.PartSpec{
		Name:    name + strconv.Itoa(bits),
		Inputs:  busPins(bits, pX, pY, pZ),
		Outputs: busPins(bits, pOut),
		Mount: func(s *shatb.Socket) []shatb.Component {
			x, y, z := s.Bus(pX, bits), s.Bus(pY, bits), s.Bus(pZ, bits)
			out := s.Bus(pOut, bits)
			return []shatb.Component{func(c *shatb.Circuit) {
				SetUint64(c, out, f(Uint64(c, x), Uint64(c, y), Uint64(c, z)))
			}}
		}}).NewPart
}

// ChN returns a N-bits choice function, N <= 64.
//
//	Inputs: x[bits], y[bits], z[bits]
//	Outputs: out[bits]
//	Function: out = (x & y) ^ (^x & z)
func ChN(bits int) shatb.NewPartFn {
	return xyzN("CH", bits, hashmodel.Ch[uint64])
}

// MajN returns a N-bits majority function, N <= 64.
//
//	Inputs: x[bits], y[bits], z[bits]
//	Outputs: out[bits]
//	Function: out = (x & y) ^ (x & z) ^ (y & z)
func MajN(bits int) shatb.NewPartFn {
	return xyzN("MAJ", bits, hashmodel.Maj[uint64])
}

// ParityN returns a N-bits parity function, N <= 64.
//
//	Inputs: x[bits], y[bits], z[bits]
//	Outputs: out[bits]
//	Function: out = x ^ y ^ z
func ParityN(bits int) shatb.NewPartFn {
	return xyzN("PARITY", bits, hashmodel.Parity[uint64])
}

// RotLN returns a N-bits rotate left by n positions, N <= 64. n is taken
// modulo N.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out = in <<< n
func RotLN(bits int, n int) shatb.NewPartFn {
	checkWidth("ROTL", bits)
	if n < 0 {
		panic("ROTL: negative rotation")
	}
	return (&shatb.PartSpec{
		Name:    "ROTL" + strconv.Itoa(bits) + "_" + strconv.Itoa(n),
		Inputs:  busPins(bits, pIn),
		Outputs: busPins(bits, pOut),
		Mount: func(s *shatb.Socket) []shatb.Component {
			in, out := s.Bus(pIn, bits), s.Bus(pOut, bits)
			return []shatb.Component{func(c *shatb.Circuit) {
				SetUint64(c, out, hashmodel.RotL(Uint64(c, in), uint(n), uint(bits)))
			}}
		}}).NewPart
}

// 32 bits primitives, built by reflection.

type ch32 struct {
	X   [32]int `hw:"in"`
	Y   [32]int `hw:"in"`
	Z   [32]int `hw:"in"`
	Out [32]int `hw:"out"`
}

func (p *ch32) Update(c *shatb.Circuit) {
	SetUint64(c, p.Out[:], uint64(hashmodel.Ch(word32(c, &p.X), word32(c, &p.Y), word32(c, &p.Z))))
}

type maj32 ch32

func (p *maj32) Update(c *shatb.Circuit) {
	SetUint64(c, p.Out[:], uint64(hashmodel.Maj(word32(c, &p.X), word32(c, &p.Y), word32(c, &p.Z))))
}

type parity32 ch32

func (p *parity32) Update(c *shatb.Circuit) {
	SetUint64(c, p.Out[:], uint64(hashmodel.Parity(word32(c, &p.X), word32(c, &p.Y), word32(c, &p.Z))))
}

type rotL32 struct {
	In  [32]int `hw:"in"`
	Out [32]int `hw:"out"`
	n   int
}

func (p *rotL32) Update(c *shatb.Circuit) {
	SetUint64(c, p.Out[:], uint64(hashmodel.RotL32(word32(c, &p.In), p.n)))
}

func word32(c *shatb.Circuit, pins *[32]int) uint32 {
	return uint32(Uint64(c, pins[:]))
}

var (
	ch32Spec     = named(shatb.MakePart((*ch32)(nil)), "CH32")
	maj32Spec    = named(shatb.MakePart((*maj32)(nil)), "MAJ32")
	parity32Spec = named(shatb.MakePart((*parity32)(nil)), "PARITY32")
)

func named(sp *shatb.PartSpec, name string) *shatb.PartSpec {
	sp.Name = name
	return sp
}

// Ch32 returns a 32 bits choice function.
//
//	Inputs: x[32], y[32], z[32]
//	Outputs: out[32]
//	Function: out = (x & y) ^ (^x & z)
func Ch32(w string) shatb.Part { return ch32Spec.NewPart(w) }

// Maj32 returns a 32 bits majority function.
//
//	Inputs: x[32], y[32], z[32]
//	Outputs: out[32]
//	Function: out = (x & y) ^ (x & z) ^ (y & z)
func Maj32(w string) shatb.Part { return maj32Spec.NewPart(w) }

// Parity32 returns a 32 bits parity function.
//
//	Inputs: x[32], y[32], z[32]
//	Outputs: out[32]
//	Function: out = x ^ y ^ z
func Parity32(w string) shatb.Part { return parity32Spec.NewPart(w) }

// RotL32 returns a 32 bits rotate left by n positions. n is taken modulo 32.
//
//	Inputs: in[32]
//	Outputs: out[32]
//	Function: out = in <<< n
func RotL32(n int) shatb.NewPartFn {
	if n < 0 {
		panic("ROTL32: negative rotation")
	}
	return named(shatb.MakePart(&rotL32{n: n % 32}), "ROTL32_"+strconv.Itoa(n)).NewPart
}
