// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package shatb

import (
	"strconv"
	"strings"

	"github.com/db47h/shatb/internal/hdl"
	"github.com/pkg/errors"
)

// busPinName returns the name of pin i of bus.
func busPinName(bus string, i int) string {
	return bus + "[" + strconv.Itoa(i) + "]"
}

// ParseIOSpec parses the pin specification string and returns individual pin
// names in a slice, also expanding bus declarations to individual pin names.
// For example:
//
//	ParseIOSpec("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
func ParseIOSpec(names string) ([]string, error) {
	var out []string
	p := hdl.Parser{Input: names}
	for {
		it, err := p.Next(false)
		if err != nil {
			return nil, err
		}
		switch v := it.(type) {
		case nil:
			return out, nil
		case hdl.Pin:
			out = append(out, v.Name)
		case hdl.PinIndex:
			if v.Index <= 0 {
				return nil, errors.Errorf("in %q at pos %d: invalid bus size %d", names, v.Pos+1, v.Index)
			}
			for i := 0; i < v.Index; i++ {
				out = append(out, busPinName(v.Name, i))
			}
		case hdl.PinRange:
			return nil, errors.Errorf("in %q at pos %d: pin range in bus declaration", names, v.Pos+1)
		}
	}
}

// IO is like ParseIOSpec but panics on error. It is meant to be used in
// PartSpec declarations:
//
//	spec := &PartSpec{
//		Name:    "Mux16",
//		Inputs:  IO("a[16], b[16], sel"),
//		Outputs: IO("out[16]"),
//		...
//	}
func IO(spec string) []string {
	pins, err := ParseIOSpec(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// A Connection connects the pin PP of a part to one or more wires CP of its
// host chip.
type Connection struct {
	PP string
	CP []string
}

func expandPin(v interface{}) []string {
	switch p := v.(type) {
	case hdl.Pin:
		return []string{p.Name}
	case hdl.PinIndex:
		return []string{busPinName(p.Name, p.Index)}
	case hdl.PinRange:
		var out []string
		if p.Start <= p.End {
			for i := p.Start; i <= p.End; i++ {
				out = append(out, busPinName(p.Name, i))
			}
		} else {
			for i := p.Start; i >= p.End; i-- {
				out = append(out, busPinName(p.Name, i))
			}
		}
		return out
	}
	panic("unexpected pin type")
}

// ParseConnections parses a connection configuration like
// "partPin1=chipPin1, partPin2=chipPin2" into a []Connection.
//
// Buses can be connected with ranges: "a[0..3]=w[4..7]" connects a[0] to
// w[4], a[1] to w[5] and so on. A single part pin connected to a range fans
// out to every wire in the range. A part range connected to a single wire
// connects every pin in the range to that wire. Connecting a bus name to a
// wire name, like "out=w", connects the whole bus (out[0]=w[0], out[1]=w[1]...)
// if the part has no pin named "out" but a bus of that name.
func ParseConnections(c string) ([]Connection, error) {
	var conns []Connection
	p := hdl.Parser{Input: c}
	for {
		it, err := p.Next(true)
		if err != nil {
			return nil, err
		}
		if it == nil {
			return conns, nil
		}
		a, ok := it.(hdl.PinAssignment)
		if !ok {
			return nil, errors.Errorf("in %q: missing wire name for pin %s", c, strings.Join(expandPin(it), ","))
		}
		lhs, rhs := expandPin(a.LHS), expandPin(a.RHS)
		switch {
		case len(lhs) == len(rhs):
			for i := range lhs {
				conns = append(conns, Connection{lhs[i], []string{rhs[i]}})
			}
		case len(lhs) == 1:
			conns = append(conns, Connection{lhs[0], rhs})
		case len(rhs) == 1:
			for _, l := range lhs {
				conns = append(conns, Connection{l, rhs})
			}
		default:
			return nil, errors.Errorf("in %q: pin count mismatch in %s=%s", c, lhs[0], rhs[0])
		}
	}
}
