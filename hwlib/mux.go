// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/shatb"
)

// Mux returns a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
func Mux(w string) shatb.Part { return mux.NewPart(w) }

var mux = shatb.PartSpec{
	Name:    "MUX",
	Inputs:  []string{pA, pB, pSel},
	Outputs: []string{pOut},
	Mount: func(s *shatb.Socket) []shatb.Component {
		a, b, sel, out := s.Pin(pA), s.Pin(pB), s.Pin(pSel), s.Pin(pOut)
		return []shatb.Component{func(c *shatb.Circuit) {
			if c.Get(sel) {
				c.Set(out, c.Get(b))
			} else {
				c.Set(out, c.Get(a))
			}
		}}
	},
}

// DMux returns a demultiplexer.
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
func DMux(w string) shatb.Part { return dmux.NewPart(w) }

var dmux = shatb.PartSpec{
	Name:    "DMUX",
	Inputs:  []string{pIn, pSel},
	Outputs: []string{pA, pB},
	Mount: func(s *shatb.Socket) []shatb.Component {
		in, sel, a, b := s.Pin(pIn), s.Pin(pSel), s.Pin(pA), s.Pin(pB)
		return []shatb.Component{func(c *shatb.Circuit) {
			if c.Get(sel) {
				c.Set(a, false)
				c.Set(b, c.Get(in))
			} else {
				c.Set(a, c.Get(in))
				c.Set(b, false)
			}
		}}
	},
}

// MuxN returns a N-bits multiplexer.
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//	Function: for i := range out { if sel == 0 { out[i] = a[i] } else { out[i] = b[i] } }
func MuxN(bits int) shatb.NewPartFn {
	return (&shatb.PartSpec{
		Name:    "MUX" + strconv.Itoa(bits),
		Inputs:  append(busPins(bits, pA, pB), pSel),
		Outputs: busPins(bits, pOut),
		Mount: func(s *shatb.Socket) []shatb.Component {
			a, b, sel := s.Bus(pA, bits), s.Bus(pB, bits), s.Pin(pSel)
			o := s.Bus(pOut, bits)
			return []shatb.Component{
				func(c *shatb.Circuit) {
					src := a
					if c.Get(sel) {
						src = b
					}
					for i := range o {
						c.Set(o[i], c.Get(src[i]))
					}
				}}
		}}).NewPart
}

// DMuxN returns a N-bits demultiplexer.
//
//	Inputs: in[bits], sel
//	Outputs: a[bits], b[bits]
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
func DMuxN(bits int) shatb.NewPartFn {
	return (&shatb.PartSpec{
		Name:    "DMUX" + strconv.Itoa(bits),
		Inputs:  append(busPins(bits, pIn), pSel),
		Outputs: busPins(bits, pA, pB),
		Mount: func(s *shatb.Socket) []shatb.Component {
			in, sel := s.Bus(pIn, bits), s.Pin(pSel)
			a, b := s.Bus(pA, bits), s.Bus(pB, bits)
			return []shatb.Component{
				func(c *shatb.Circuit) {
					on, off := a, b
					if c.Get(sel) {
						on, off = b, a
					}
					for i := range in {
						c.Set(on[i], c.Get(in[i]))
						c.Set(off[i], false)
					}
				}}
		}}).NewPart
}
