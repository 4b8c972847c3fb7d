package shatb_test

import (
	"testing"

	hw "github.com/db47h/shatb"
	hl "github.com/db47h/shatb/hwlib"
)

func TestChip_errors(t *testing.T) {
	unkChip, err := hw.Chip("TESTCHIP", "a, b", "out",
		// chip input a is unused
		hl.Nand("a=b, b=b, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	data := []struct {
		name  string
		in    string
		out   string
		parts []hw.Part
		err   string
	}{
		{"true_out", "a, b", "out", []hw.Part{
			hl.Nand("a=a, b=b, out=true"),
			hl.Nand("a=a, b=b, out=out"),
		}, `true_out: output pin NAND.out connected to constant "true"`},
		{"false_out", "a, b", "out", []hw.Part{
			// discarded output
			hl.Nand("a=a, b=b, out=false"),
			hl.Nand("a=a, b=b, out=out"),
		}, ""},
		{"input_out", "a, b", "out", []hw.Part{
			hl.Nand("a=a, b=b, out=a"),
			hl.Nand("a=a, b=b, out=out"),
		}, "input_out: output pin NAND.out connected to chip input a"},
		{"multi_out", "a, b", "out", []hw.Part{
			hl.Nand("a=a, b=b, out=x"),
			hl.Nand("a=a, b=b, out=x"),
			hl.Not("in=x, out=out"),
		}, "multi_out: wire x driven by both NAND.out and NAND.out"},
		{"no_output", "a, b", "out", []hw.Part{
			hl.Nand("a=a, b=wx, out=out"),
		}, "no_output: pin wx not connected to any output"},
		{"no_input", "a, b", "out", []hw.Part{
			hl.Nand("a=a, b=b, out=foo"),
			hl.Nand("a=a, b=b, out=out"),
		}, "no_input: pin foo (from NAND.out) not connected to any input"},
		{"multi_in", "a, b", "out", []hw.Part{
			hl.Nand("a=a, a=b, out=out"),
		}, "multi_in: input pin NAND.a connected to more than one wire"},
		{"unconnected_in", "a, b", "out", nil, ""},
		{"unknown_pin", "a, b", "out", []hw.Part{
			hl.Nand("a=a, typo=b, out=out"),
		}, "unknown_pin: invalid pin name typo for part NAND"},
		{"unknown_chip_pin", "a, b", "out", []hw.Part{
			unkChip("a=a, typo=b, out=out"),
		}, "unknown_chip_pin: invalid pin name typo for part TESTCHIP"},
		{"chip", "a, b", "out", []hw.Part{
			unkChip("a=a, b=b, out=out"),
		}, ""},
		{"constant_io", "a, true", "out", nil, "constant_io: invalid pin name true for chip i/o"},
		{"duplicate_io", "a, b", "a", nil, "duplicate_io: duplicate pin name a"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := hw.Chip(d.name, d.in, d.out, d.parts...)
			if err == nil && d.err != "" || err != nil && err.Error() != d.err {
				t.Errorf("Got error %q, expected %q", err, d.err)
			}
		})
	}
}

func TestChip_omitted_pins(t *testing.T) {
	var a, b, c, tr, f, o0, o1 int
	dummy := (&hw.PartSpec{
		Name:    "dummy",
		Inputs:  hw.IO("a, b, c, t, f"),
		Outputs: hw.IO("o0, o1"),
		Mount: func(s *hw.Socket) []hw.Component {
			a, b, c, tr, f, o0, o1 = s.Pin("a"), s.Pin("b"), s.Pin("c"), s.Pin("t"), s.Pin("f"), s.Pin("o0"), s.Pin("o1")
			return nil
		}}).NewPart
	// inspecting o0 and o1 shows that another wire was allocated for dummy.o1
	wrapper, err := hw.Chip("wrapper", "wa, wb", "wo0, wo1",
		dummy("a=wa, c=clk, t=true, f=false, o0=wo0"),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}

	cc, err := hw.NewCircuit(0, 0, wrapper(""))
	if err != nil {
		t.Fatal(err)
	}
	defer cc.Dispose()

	if a != 0 || b != 0 || f != 0 { // 0 = cstFalse
		t.Errorf("a = %v, b = %v, f = %v, all must be 0", a, b, f)
	}
	if tr != 1 { // 1 = cstTrue
		t.Errorf("t = %v, must be 1", tr)
	}
	if c != 2 { // 2 = cstClk
		t.Errorf("c = %v, must be 2", c)
	}
	if o0 < 3 || o1 < 3 || o0 == o1 { // 3 = cstCount
		t.Errorf("o0 = %v, o1 = %v, both must be >= 3 and distinct", o0, o1)
	}
}

func TestChip_fanout_to_outputs(t *testing.T) {
	gate, err := hw.Chip("FANOUT", "in", "a, b, bus[2]",
		hl.Or("a=in, b=in, out=a, out=b, out=bus[0..1]"),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	wrapper1, err := hw.Chip("FANOUT_Wrapper", "in", "o[8]",
		gate("in=in, a=o[0..1], b=o[2..3], bus[0]=o[4..5], bus[1]=o[6..7]"),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	var out int64
	c, err := hw.NewCircuit(0, testTPC,
		wrapper1("in=true, o=wrapOut"),
		hl.OutputN(8, func(v int64) { out = v })("in=wrapOut"),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	defer c.Dispose()
	c.TickTock()
	if out != 255 {
		t.Fatalf("out = %d != 255", out)
	}
}

// internal fanout aliases wires: a chain of buffers through an internal
// wire and a chip output has the same delay on both paths.
func TestChip_fanout_internal(t *testing.T) {
	split, err := hw.Chip("SPLIT", "in", "x, y",
		hl.Not("in=in, out=n1, out=n2"),
		hl.Not("in=n1, out=x"),
		hl.Not("in=n2, out=y"),
	)
	if err != nil {
		t.Fatal(err)
	}
	var in, x, y bool
	c, err := hw.NewCircuit(0, 8,
		hl.Input(func() bool { return in })("out=in"),
		split("in=in, x=x, y=y"),
		hl.Output(func(v bool) { x = v })("in=x"),
		hl.Output(func(v bool) { y = v })("in=y"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	for _, v := range []bool{true, false, true} {
		in = v
		c.TickTock()
		if x != v || y != v {
			t.Fatalf("in = %v: x = %v, y = %v", v, x, y)
		}
	}
}
