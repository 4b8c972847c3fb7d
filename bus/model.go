// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bus

import (
	"github.com/db47h/shatb/bitvec"
	"github.com/db47h/shatb/regmap"
	"github.com/pkg/errors"
)

// Events reports the effects of a control register write on the hash core.
type Events struct {
	Start bool // enable bit written: process the block registers
	Last  bool // the block is the last one of the message
	Reset bool // reset bit written: reload the initial hash value
}

// Any returns true if any event is set.
func (e Events) Any() bool { return e.Start || e.Reset }

// A Backend is the hash core behind a register interface.
//
// Control is called after every control register write that produces a start
// or reset pulse, with the current content of the block registers.
type Backend interface {
	Status() (hold, valid bool)
	Digest() bitvec.Vector
	Control(ev Events, block bitvec.Vector) error
}

// Model is a register interface model. Its zero value is not usable, use
// NewModel.
//
// A Model is not safe for concurrent use.
type Model struct {
	amap    *regmap.Map
	backend Backend
	ctrl    uint64
	block   bitvec.Vector
	ev      Events
}

// NewModel returns a new Model for the given address map. The backend
// provides the status bits and digest. If nil, status bits read as 0 and the
// digest registers read as 0.
func NewModel(amap *regmap.Map, backend Backend) *Model {
	return &Model{
		amap:    amap,
		backend: backend,
		block:   bitvec.New(amap.Config().BlockWidth),
	}
}

// Map returns the address map of m.
func (m *Model) Map() *regmap.Map { return m.amap }

// Step applies req and returns the response of the register interface.
//
// An address that does not decode yields an error response and leaves the
// registers untouched. Writes to the digest registers are ignored. Writes to
// the block registers replace the bytes selected by the strobe. A control
// write with strobe bit 0 cleared has no effect; otherwise writing the reset
// bit clears the register, and any other write is merged with the previous
// value and masked to the writable bits.
//
// A non nil error is returned only for requests that violate the bus
// protocol, like a malformed strobe, or if the backend fails.
func (m *Model) Step(req Request) (Response, error) {
	m.ev = Events{}
	if req.Strobe&^m.amap.StrobeMask() != 0 {
		return Response{}, errors.Wrapf(ErrMalformedStrobe, "strobe %#x for %d byte lanes", req.Strobe, m.amap.Lanes())
	}
	rsp := Response{Addr: req.Addr}
	r, idx, ok := m.amap.Decode(req.Addr)
	if !ok {
		rsp.Error = true
		return rsp, nil
	}
	rsp.Valid = true
	data := req.Data & m.amap.DataMask()
	dw := m.amap.Config().DataWidth
	lanes := m.amap.Lanes()

	switch r {
	case regmap.Control:
		if req.Write {
			if req.Strobe&1 == 0 {
				break
			}
			if data&regmap.CtrlReset != 0 {
				m.ctrl = 0
				m.ev.Reset = true
			} else {
				m.ctrl = Merge(m.ctrl, data, req.Strobe, lanes) & regmap.CtrlWriteMask
				m.ev.Start = m.ctrl&regmap.CtrlEnable != 0
				m.ev.Last = m.ctrl&regmap.CtrlLast != 0
			}
			if m.ev.Any() && m.backend != nil {
				if err := m.backend.Control(m.ev, m.block.Clone()); err != nil {
					return rsp, errors.Wrap(err, "hash core")
				}
			}
		} else {
			rsp.Data = m.readCtrl()
		}
	case regmap.Block:
		off := idx * dw
		if req.Write {
			m.block.SetField(off, dw, Merge(m.block.Field(off, dw), data, req.Strobe, lanes))
		} else {
			rsp.Data = m.block.Field(off, dw)
		}
	case regmap.Digest:
		if !req.Write && m.backend != nil {
			off := int(req.Addr&regmap.OffsetMask) << m.amap.Shift()
			rsp.Data = m.backend.Digest().Field(off, dw)
		}
	}
	return rsp, nil
}

func (m *Model) readCtrl() uint64 {
	v := m.ctrl
	if m.backend != nil {
		hold, valid := m.backend.Status()
		if hold {
			v |= regmap.CtrlHold
		} else if valid {
			v |= regmap.CtrlValid
		}
	}
	return v
}

// Register returns the current value of the register at addr as a read would
// return it. ok is false if addr does not map to a register.
func (m *Model) Register(addr uint32) (v uint64, ok bool) {
	r, idx, ok := m.amap.Decode(addr)
	if !ok {
		return 0, false
	}
	dw := m.amap.Config().DataWidth
	switch r {
	case regmap.Control:
		return m.readCtrl(), true
	case regmap.Block:
		return m.block.Field(idx*dw, dw), true
	case regmap.Digest:
		if m.backend == nil {
			return 0, true
		}
		return m.backend.Digest().Field(int(addr&regmap.OffsetMask)<<m.amap.Shift(), dw), true
	}
	return 0, false
}

// Block returns a copy of the block registers.
func (m *Model) Block() bitvec.Vector { return m.block.Clone() }

// Events returns the control events produced by the last call to Step.
func (m *Model) Events() Events { return m.ev }
