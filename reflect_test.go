package shatb_test

import (
	"testing"

	hw "github.com/db47h/shatb"
	hl "github.com/db47h/shatb/hwlib"
	"github.com/db47h/shatb/hwtest"
)

type testPart struct {
	A   [4]int `hw:"in"`
	B   [4]int `hw:"in"`
	Sel int    `hw:"in"`
	Out [4]int `hw:"out"`
}

func (t *testPart) Update(c *hw.Circuit) {
	src := t.A
	if c.Get(t.Sel) {
		src = t.B
	}
	for i, p := range src {
		c.Set(t.Out[i], c.Get(p))
	}
}

func Test_MakePart(t *testing.T) {
	m, err := hw.Chip("myMux4", "a[4], b[4], sel", "out[4]",
		hl.Mux("a=a[0], b=b[0], sel=sel, out=out[0]"),
		hl.Mux("a=a[1], b=b[1], sel=sel, out=out[1]"),
		hl.Mux("a=a[2], b=b[2], sel=sel, out=out[2]"),
		hl.Mux("a=a[3], b=b[3], sel=sel, out=out[3]"),
	)
	if err != nil {
		t.Fatal(err)
	}

	p := hw.MakePart((*testPart)(nil)).NewPart
	hwtest.ComparePart(t, 4, m, p)
}

type shiftPart struct {
	In  [8]int `hw:"in"`
	Out [8]int `hw:"out,shifted"`
	n   uint
}

func (s *shiftPart) Update(c *hw.Circuit) {
	hl.SetUint64(c, s.Out[:], hl.Uint64(c, s.In[:])<<s.n)
}

func Test_MakePart_template(t *testing.T) {
	sp := hw.MakePart(&shiftPart{n: 3})
	if len(sp.Inputs) != 8 || len(sp.Outputs) != 8 || sp.Outputs[7] != "shifted[7]" {
		t.Fatalf("bad pin list %v %v", sp.Inputs, sp.Outputs)
	}
	var in, out int64
	c, err := hw.NewCircuit(0, 4,
		hl.InputN(8, func() int64 { return in })("out=in"),
		sp.NewPart("in=in, shifted=out"),
		hl.OutputN(8, func(v int64) { out = v })("in=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	in = 0x15
	c.TickTock()
	if out != 0xa8 {
		t.Fatalf("expected 0xa8, got %#x", out)
	}
}

type badPart struct {
	In bool `hw:"in"`
}

func (*badPart) Update(*hw.Circuit) {}

func Test_MakePart_panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MakePart accepted a bool pin")
		}
	}()
	hw.MakePart((*badPart)(nil))
}
