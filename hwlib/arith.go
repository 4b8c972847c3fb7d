// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"math/bits"
	"strconv"

	"github.com/db47h/shatb"
	"github.com/db47h/shatb/hashmodel"
)

var hAdder = &shatb.PartSpec{
	Name:    "HalfAdder",
	Inputs:  []string{pA, pB},
	Outputs: []string{"s", "c"},
	Mount: func(s *shatb.Socket) []shatb.Component {
		a, b := s.Pin(pA), s.Pin(pB)
		sum, cout := s.Pin("s"), s.Pin("c")
		return []shatb.Component{
			func(c *shatb.Circuit) {
				va, vb := c.Get(a), c.Get(b)
				c.Set(sum, va != vb)
				c.Set(cout, va && vb)
			}}
	}}

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
func HalfAdder(c string) shatb.Part {
	return hAdder.NewPart(c)
}

var adder = &shatb.PartSpec{
	Name:    "FullAdder",
	Inputs:  []string{pA, pB, "cin"},
	Outputs: []string{"s", "cout"},
	Mount: func(s *shatb.Socket) []shatb.Component {
		a, b, cin := s.Pin(pA), s.Pin(pB), s.Pin("cin")
		sum, cout := s.Pin("s"), s.Pin("cout")
		return []shatb.Component{
			func(c *shatb.Circuit) {
				va, vb, cin := c.Get(a), c.Get(b), c.Get(cin)
				s := va != vb
				c.Set(sum, s != cin)
				c.Set(cout, s && cin || va && vb)
			}}
	}}

// FullAdder returns a 3 bit adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
func FullAdder(c string) shatb.Part {
	return adder.NewPart(c)
}

// AdderN returns a N-bits adder, N <= 64. SHA words are added modulo 2^N: out
// wraps around and c reports the carry out.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//	Function: out = (a + b) mod 2^bits
//	          c = (a + b) >= 2^bits
func AdderN(n int) shatb.NewPartFn {
	if n <= 0 || n > 64 {
		panic("AdderN: unsupported width " + strconv.Itoa(n))
	}
	adderN := &shatb.PartSpec{
		Name:    "Adder" + strconv.Itoa(n),
		Inputs:  busPins(n, pA, pB),
		Outputs: append(busPins(n, pOut), "c"),
		Mount: func(s *shatb.Socket) []shatb.Component {
			a, b := s.Bus(pA, n), s.Bus(pB, n)
			out, cout := s.Bus(pOut, n), s.Pin("c")
			m := hashmodel.Mask(uint(n))
			return []shatb.Component{
				func(c *shatb.Circuit) {
					sum, carry := bits.Add64(Uint64(c, a), Uint64(c, b), 0)
					if n < 64 {
						carry = sum >> uint(n)
					}
					SetUint64(c, out, sum&m)
					c.Set(cout, carry != 0)
				}}
		}}
	return adderN.NewPart
}
