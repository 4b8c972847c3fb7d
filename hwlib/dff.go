// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/shatb"
)

var dff = shatb.PartSpec{
	Name:    "DFF",
	Inputs:  []string{pIn},
	Outputs: []string{pOut},
	Mount: func(s *shatb.Socket) []shatb.Component {
		in, out := s.Pin(pIn), s.Pin(pOut)
		var curOut bool
		return []shatb.Component{
			func(c *shatb.Circuit) {
				// raising edge?
				if c.AtTick() {
					curOut = c.Get(in)
				}
				c.Set(out, curOut)
			}}
	}}

// DFF returns a clocked data flip flop.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
func DFF(w string) shatb.Part { return dff.NewPart(w) }

// DFFN returns a N-bits register made of data flip flops.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
func DFFN(bits int) shatb.NewPartFn {
	return (&shatb.PartSpec{
		Name:    "DFF" + strconv.Itoa(bits),
		Inputs:  busPins(bits, pIn),
		Outputs: busPins(bits, pOut),
		Mount: func(s *shatb.Socket) []shatb.Component {
			in, out := s.Bus(pIn, bits), s.Bus(pOut, bits)
			cur := make([]bool, bits)
			return []shatb.Component{
				func(c *shatb.Circuit) {
					if c.AtTick() {
						for i, p := range in {
							cur[i] = c.Get(p)
						}
					}
					for i, p := range out {
						c.Set(p, cur[i])
					}
				}}
		}}).NewPart
}
