// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts: logic gates, the N-bit
// primitives of the SHA datapath and a cycle-level model of a hash
// accelerator with its register interface.
package hwlib

import (
	"strconv"

	"github.com/db47h/shatb"
)

// common pin names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
)

// make a bus name
func busPins(bits int, names ...string) []string {
	b := make([]string, len(names)*bits)
	for i, n := range names {
		for j := 0; j < bits; j++ {
			b[i*bits+j] = n + "[" + strconv.Itoa(j) + "]"
		}
	}
	return b
}

var notGate = shatb.PartSpec{Name: "NOT", Inputs: []string{pIn}, Outputs: []string{pOut},
	Mount: func(s *shatb.Socket) []shatb.Component {
		in, out := s.Pin(pIn), s.Pin(pOut)
		return []shatb.Component{
			func(c *shatb.Circuit) { c.Set(out, !c.Get(in)) },
		}
	},
}

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
func Not(w string) shatb.Part {
	return notGate.NewPart(w)
}

// other gates
type gate func(a, b bool) bool

func (g gate) mount(s *shatb.Socket) []shatb.Component {
	a, b, out := s.Pin(pA), s.Pin(pB), s.Pin(pOut)
	return []shatb.Component{
		func(c *shatb.Circuit) { c.Set(out, g(c.Get(a), c.Get(b))) },
	}
}

func newGate(name string, fn func(a, b bool) bool) *shatb.PartSpec {
	return &shatb.PartSpec{
		Name:    name,
		Inputs:  []string{pA, pB},
		Outputs: []string{pOut},
		Mount:   gate(fn).mount,
	}
}

func fAnd(a, b bool) bool  { return a && b }
func fNand(a, b bool) bool { return !(a && b) }
func fOr(a, b bool) bool   { return a || b }
func fNor(a, b bool) bool  { return !(a || b) }
func fXor(a, b bool) bool  { return a != b }
func fXnor(a, b bool) bool { return a == b }

var (
	and  = newGate("AND", fAnd)
	nand = newGate("NAND", fNand)
	or   = newGate("OR", fOr)
	nor  = newGate("NOR", fNor)
	xor  = newGate("XOR", fXor)
	xnor = newGate("XNOR", fXnor)
)

// And returns a AND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b
func And(w string) shatb.Part { return and.NewPart(w) }

// Nand returns a NAND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a && b)
func Nand(w string) shatb.Part { return nand.NewPart(w) }

// Or returns a OR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a || b
func Or(w string) shatb.Part { return or.NewPart(w) }

// Nor returns a NOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a || b)
func Nor(w string) shatb.Part { return nor.NewPart(w) }

// Xor returns a XOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = (a && !b) || (!a && b)
func Xor(w string) shatb.Part { return xor.NewPart(w) }

// Xnor returns a XNOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b || !a && !b
func Xnor(w string) shatb.Part { return xnor.NewPart(w) }

func notN(bits int) *shatb.PartSpec {
	return &shatb.PartSpec{
		Name:    "NOT" + strconv.Itoa(bits),
		Inputs:  busPins(bits, pIn),
		Outputs: busPins(bits, pOut),
		Mount: func(s *shatb.Socket) []shatb.Component {
			ins := s.Bus(pIn, bits)
			outs := s.Bus(pOut, bits)
			return []shatb.Component{func(c *shatb.Circuit) {
				for i, pin := range ins {
					c.Set(outs[i], !c.Get(pin))
				}
			}}
		}}
}

// NotN returns a N-bits NOT gate.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = !in[i] }
func NotN(bits int) shatb.NewPartFn {
	return notN(bits).NewPart
}

type gateN struct {
	bits int
	fn   func(bool, bool) bool
}

func (g *gateN) mount(s *shatb.Socket) []shatb.Component {
	a, b, out := s.Bus(pA, g.bits), s.Bus(pB, g.bits), s.Bus(pOut, g.bits)
	return []shatb.Component{
		func(c *shatb.Circuit) {
			for i := range a {
				c.Set(out[i], g.fn(c.Get(a[i]), c.Get(b[i])))
			}
		},
	}
}

func newGateN(name string, bits int, f func(bool, bool) bool) *shatb.PartSpec {
	return &shatb.PartSpec{
		Name:    name + strconv.Itoa(bits),
		Inputs:  busPins(bits, pA, pB),
		Outputs: busPins(bits, pOut),
		Mount:   (&gateN{bits, f}).mount,
	}
}

// GateN returns a N-bits logic gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = f(a[i], b[i]) }
func GateN(name string, bits int, f func(bool, bool) bool) shatb.NewPartFn {
	return newGateN(name, bits, f).NewPart
}

// 32 bits gates, the word size of SHA-1 and SHA-256.
var (
	not32 = notN(32)
	and32 = newGateN("AND", 32, fAnd)
	or32  = newGateN("OR", 32, fOr)
	xor32 = newGateN("XOR", 32, fXor)
)

// Not32 returns a 32 bits NOT gate.
//
//	Inputs: in[32]
//	Outputs: out[32]
//	Function: for i := range out { out[i] = !in[i] }
func Not32(w string) shatb.Part { return not32.NewPart(w) }

// And32 returns a 32 bits AND gate.
//
//	Inputs: a[32], b[32]
//	Outputs: out[32]
//	Function: for i := range out { out[i] = a[i] && b[i] }
func And32(w string) shatb.Part { return and32.NewPart(w) }

// Or32 returns a 32 bits OR gate.
//
//	Inputs: a[32], b[32]
//	Outputs: out[32]
//	Function: for i := range out { out[i] = a[i] || b[i] }
func Or32(w string) shatb.Part { return or32.NewPart(w) }

// Xor32 returns a 32 bits XOR gate.
//
//	Inputs: a[32], b[32]
//	Outputs: out[32]
//	Function: for i := range out { out[i] = a[i] != b[i] }
func Xor32(w string) shatb.Part { return xor32.NewPart(w) }

// OrNWay returns a N-Way OR gate.
//
//	Inputs: in[n]
//	Outputs: out
//	Function: out = in[0] || in[1] || in[2] || ... || in[n-1]
func OrNWay(ways int) shatb.NewPartFn {
	return (&shatb.PartSpec{
		Name:    "OR" + strconv.Itoa(ways) + "Way",
		Inputs:  busPins(ways, pIn),
		Outputs: []string{pOut},
		Mount: func(s *shatb.Socket) []shatb.Component {
			in := s.Bus(pIn, ways)
			out := s.Pin(pOut)
			return []shatb.Component{
				func(c *shatb.Circuit) {
					for _, i := range in {
						if c.Get(i) {
							c.Set(out, true)
							return
						}
					}
					c.Set(out, false)
				}}
		}}).NewPart
}

// AndNWay returns a N-Way AND gate.
//
//	Inputs: in[n]
//	Outputs: out
//	Function: out = in[0] && in[1] && in[2] && ... && in[n-1]
func AndNWay(ways int) shatb.NewPartFn {
	return (&shatb.PartSpec{
		Name:    "AND" + strconv.Itoa(ways) + "Way",
		Inputs:  busPins(ways, pIn),
		Outputs: []string{pOut},
		Mount: func(s *shatb.Socket) []shatb.Component {
			in := s.Bus(pIn, ways)
			out := s.Pin(pOut)
			return []shatb.Component{
				func(c *shatb.Circuit) {
					for _, i := range in {
						if !c.Get(i) {
							c.Set(out, false)
							return
						}
					}
					c.Set(out, true)
				}}
		}}).NewPart
}
