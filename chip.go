// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package shatb

import (
	"strings"

	"github.com/pkg/errors"
)

type chip struct {
	PartSpec
	parts []Part
	// wires maps each part's pin names to wire names in the chip namespace.
	// Wire names are chip inputs, chip outputs, constants or internal wires.
	wires []map[string][]string
	ios   map[string]bool
}

// mount allocates one pin per wire. Part outputs are mapped first so that
// every wire driven by a part output gets the part's output pin. A part output
// connected to several wires aliases every internal wire to the same pin; an
// additional chip output wire gets a buffer component (one step of delay).
func (c *chip) mount(s *Socket) []Component {
	var cs []Component
	local := make(map[string]int)
	subs := make([]*Socket, len(c.parts))

	wire := func(name string) int {
		if isConstant(name) || c.ios[name] {
			return s.Pin(name)
		}
		n, ok := local[name]
		if !ok {
			n = s.c.allocPin()
			local[name] = n
		}
		return n
	}

	for i, p := range c.parts {
		sub := newSocket(s.c)
		subs[i] = sub
		ws := c.wires[i]
		for _, o := range p.Outputs {
			vs := ws[o]
			if len(vs) == 0 {
				sub.m[o] = s.c.allocPin()
				continue
			}
			// prefer a chip output as the primary wire
			pi := 0
			for j, v := range vs {
				if c.ios[v] {
					pi = j
					break
				}
			}
			n := wire(vs[pi])
			sub.m[o] = n
			for j, v := range vs {
				if j == pi {
					continue
				}
				if !c.ios[v] {
					local[v] = n
					continue
				}
				src, dst := n, s.Pin(v)
				cs = append(cs, func(c *Circuit) { c.Set(dst, c.Get(src)) })
			}
		}
	}

	for i, p := range c.parts {
		sub := subs[i]
		ws := c.wires[i]
		for _, in := range p.Inputs {
			if vs := ws[in]; len(vs) > 0 {
				sub.m[in] = wire(vs[0])
			} else {
				sub.m[in] = cstFalse
			}
		}
		cs = append(cs, p.Mount(sub)...)
	}
	return cs
}

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip.
//
// An Xor gate could be created like this:
//
//	xor, err := Chip("XOR", "a, b", "out",
//		Nand("a=a, b=b, out=nandAB"),
//		Nand("a=a, b=nandAB, out=w0"),
//		Nand("a=b, b=nandAB, out=w1"),
//		Nand("a=w0, b=w1, out=out"),
//	)
//
// The returned value is a NewPartFn that can be used to compose the new part
// with others into other chips:
//
//	xnor, err := Chip("XNOR", "a, b", "out",
//		xor("a=a, b=b, out=xorAB"),
//		Not("in=xorAB, out=out"),
//	)
//
// Part inputs left unconnected are wired to false. Chip outputs left
// unconnected stay low.
func Chip(name string, inputs string, outputs string, parts ...Part) (NewPartFn, error) {
	ins, err := ParseIOSpec(inputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" inputs")
	}
	outs, err := ParseIOSpec(outputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" outputs")
	}

	isIn := make(map[string]bool, len(ins))
	isOut := make(map[string]bool, len(outs))
	ios := make(map[string]bool, len(ins)+len(outs))
	for _, l := range [][]string{ins, outs} {
		for _, n := range l {
			if isConstant(n) {
				return nil, errors.Errorf("%s: invalid pin name %s for chip i/o", name, n)
			}
			if ios[n] {
				return nil, errors.Errorf("%s: duplicate pin name %s", name, n)
			}
			ios[n] = true
		}
	}
	for _, n := range ins {
		isIn[n] = true
	}
	for _, n := range outs {
		isOut[n] = true
	}

	wires := make([]map[string][]string, len(parts))
	drivers := make(map[string]string)
	readers := make(map[string]bool)

	for i, p := range parts {
		ws, err := partWires(p)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		wires[i] = ws
		for _, o := range p.Outputs {
			var keep []string
			for _, w := range ws[o] {
				pp := p.Name + "." + o
				switch {
				case w == False:
					// discarded output
					continue
				case isConstant(w):
					return nil, errors.Errorf("%s: output pin %s connected to constant %q", name, pp, w)
				case isIn[w]:
					return nil, errors.Errorf("%s: output pin %s connected to chip input %s", name, pp, w)
				}
				if d, ok := drivers[w]; ok {
					return nil, errors.Errorf("%s: wire %s driven by both %s and %s", name, w, d, pp)
				}
				drivers[w] = pp
				keep = append(keep, w)
			}
			if len(keep) > 0 {
				ws[o] = keep
			} else {
				delete(ws, o)
			}
		}
		for _, in := range p.Inputs {
			vs := ws[in]
			if len(vs) > 1 {
				return nil, errors.Errorf("%s: input pin %s.%s connected to more than one wire", name, p.Name, in)
			}
			for _, w := range vs {
				readers[w] = true
			}
		}
	}

	for w := range readers {
		if isConstant(w) || isIn[w] {
			continue
		}
		if _, ok := drivers[w]; !ok {
			return nil, errors.Errorf("%s: pin %s not connected to any output", name, w)
		}
	}
	for w, d := range drivers {
		if !isOut[w] && !readers[w] {
			return nil, errors.Errorf("%s: pin %s (from %s) not connected to any input", name, w, d)
		}
	}

	c := &chip{
		PartSpec: PartSpec{
			Name:    name,
			Inputs:  ins,
			Outputs: outs,
		},
		parts: parts,
		wires: wires,
		ios:   ios,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}

// partWires resolves the connections of p against its pin names. A bus name
// connected to a plain wire name connects the whole bus pin by pin. A bus
// connected to a constant connects every pin to that constant. A pin listed
// more than once collects all its wires.
func partWires(p Part) (map[string][]string, error) {
	pins := make(map[string]bool, len(p.Inputs)+len(p.Outputs))
	for _, n := range p.Inputs {
		pins[n] = true
	}
	for _, n := range p.Outputs {
		pins[n] = true
	}
	ws := make(map[string][]string)
	add := func(pp string, cp []string) {
		ws[pp] = append(ws[pp], cp...)
	}
	for _, c := range p.Conns {
		if pins[c.PP] {
			add(c.PP, c.CP)
			continue
		}
		if !pins[busPinName(c.PP, 0)] || len(c.CP) != 1 || strings.ContainsRune(c.CP[0], '[') {
			return nil, errors.Errorf("invalid pin name %s for part %s", c.PP, p.Name)
		}
		for i := 0; pins[busPinName(c.PP, i)]; i++ {
			w := c.CP[0]
			if !isConstant(w) {
				w = busPinName(w, i)
			}
			add(busPinName(c.PP, i), []string{w})
		}
	}
	return ws, nil
}
