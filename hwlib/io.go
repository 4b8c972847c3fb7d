// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/shatb"
	"github.com/db47h/shatb/bitvec"
)

// Int64 returns the pins as an int64. Pin 0 is lsb.
func Int64(c *shatb.Circuit, pins []int) int64 {
	return int64(Uint64(c, pins))
}

// SetInt64 sets the pins to the given int64 value.
func SetInt64(c *shatb.Circuit, pins []int, v int64) {
	SetUint64(c, pins, uint64(v))
}

// Uint64 returns the pins as an uint64. Pin 0 is lsb. Pins above 63 are
// ignored.
func Uint64(c *shatb.Circuit, pins []int) uint64 {
	var out uint64
	for bit := range pins {
		if bit < 64 && c.Get(pins[bit]) {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// SetUint64 sets the pins to the given uint64 value. Pins above 63 are set to
// false.
func SetUint64(c *shatb.Circuit, pins []int, v uint64) {
	for bit := range pins {
		c.Set(pins[bit], bit < 64 && v&(1<<uint(bit)) != 0)
	}
}

// Vector reads the pins into v. Pin i goes to bit i of v.
func Vector(c *shatb.Circuit, pins []int, v bitvec.Vector) {
	for i, p := range pins {
		v.SetBit(i, c.Get(p))
	}
}

// SetVector sets the pins from v. Pin i is set to bit i of v.
func SetVector(c *shatb.Circuit, pins []int, v bitvec.Vector) {
	for i, p := range pins {
		c.Set(p, v.Bit(i))
	}
}

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
func Input(f func() bool) shatb.NewPartFn {
	p := &shatb.PartSpec{
		Name:    "Input",
		Inputs:  nil,
		Outputs: []string{pOut},
		Mount: func(s *shatb.Socket) []shatb.Component {
			pin := s.Pin(pOut)
			return []shatb.Component{
				func(c *shatb.Circuit) {
					c.Set(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is
// called with the named pin state on every circuit update.
//
//	Inputs: in
//	Function: f(in)
func Output(f func(bool)) shatb.NewPartFn {
	p := &shatb.PartSpec{
		Name:    "Output",
		Inputs:  []string{pIn},
		Outputs: nil,
		Mount: func(s *shatb.Socket) []shatb.Component {
			in := s.Pin(pIn)
			return []shatb.Component{
				func(c *shatb.Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}

// InputN creates an input bus of the given bits size.
//
//	Outputs: out[bits]
//	Function: out = f()
func InputN(bits int, f func() int64) shatb.NewPartFn {
	return (&shatb.PartSpec{
		Name:    "INPUT" + strconv.Itoa(bits),
		Inputs:  nil,
		Outputs: busPins(bits, pOut),
		Mount: func(s *shatb.Socket) []shatb.Component {
			pins := s.Bus(pOut, bits)
			return []shatb.Component{func(c *shatb.Circuit) {
				SetInt64(c, pins, f())
			}}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size.
//
//	Inputs: in[bits]
//	Function: f(in)
func OutputN(bits int, f func(int64)) shatb.NewPartFn {
	return (&shatb.PartSpec{
		Name:    "OUTPUT" + strconv.Itoa(bits),
		Inputs:  busPins(bits, pIn),
		Outputs: nil,
		Mount: func(s *shatb.Socket) []shatb.Component {
			pins := s.Bus(pIn, bits)
			return []shatb.Component{func(c *shatb.Circuit) {
				f(Int64(c, pins))
			}}
		}}).NewPart
}

// InputVec creates an input bus wider than 64 bits. f must return a vector of
// at least bits width. Its bits above are ignored.
//
//	Outputs: out[bits]
//	Function: out = f()
func InputVec(bits int, f func() bitvec.Vector) shatb.NewPartFn {
	return (&shatb.PartSpec{
		Name:    "INPUTVEC" + strconv.Itoa(bits),
		Outputs: busPins(bits, pOut),
		Mount: func(s *shatb.Socket) []shatb.Component {
			pins := s.Bus(pOut, bits)
			return []shatb.Component{func(c *shatb.Circuit) {
				SetVector(c, pins, f())
			}}
		}}).NewPart
}

// OutputVec creates an output bus wider than 64 bits. The vector passed to f
// is reused across calls: f must Clone it to keep it.
//
//	Inputs: in[bits]
//	Function: f(in)
func OutputVec(bits int, f func(bitvec.Vector)) shatb.NewPartFn {
	return (&shatb.PartSpec{
		Name:   "OUTPUTVEC" + strconv.Itoa(bits),
		Inputs: busPins(bits, pIn),
		Mount: func(s *shatb.Socket) []shatb.Component {
			pins := s.Bus(pIn, bits)
			v := bitvec.New(bits)
			return []shatb.Component{func(c *shatb.Circuit) {
				Vector(c, pins, v)
				f(v)
			}}
		}}).NewPart
}
