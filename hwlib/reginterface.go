// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/shatb"
	"github.com/db47h/shatb/bitvec"
	"github.com/db47h/shatb/bus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// regIface is the state of a mounted register interface. It is the bus.Backend
// of its register model: status and digest are the values sampled from the
// hash core at the last rising edge, control events become pulses for the
// next clock cycle.
type regIface struct {
	m      *bus.Model
	log    *log.Entry
	hold   bool
	valid  bool
	digest bitvec.Vector
	block  bitvec.Vector
	pulse  bus.Events
	rsp    bus.Response
	busy   bool // a response is waiting for rspready
}

func (r *regIface) Status() (hold, valid bool) { return r.hold, r.valid }
func (r *regIface) Digest() bitvec.Vector       { return r.digest }

func (r *regIface) Control(ev bus.Events, _ bitvec.Vector) error {
	r.pulse = ev
	return nil
}

// RegInterface returns the clocked register interface of the accelerator.
//
// On a rising edge, a pending response is released if rspready is high. Then,
// if no response is pending and reqvalid is high, the request on the bus pins
// is applied to a bus.Model and its response is presented on the rsp pins
// during the next cycle, until acknowledged. A control write that starts or
// resets the core raises start (with last) or rsthash for one cycle. The
// block registers drive the block pins.
//
//	Inputs: reqaddr[addrWidth], reqdata[dataWidth], reqvalid, reqwrite,
//	        reqstrobe[dataWidth/8], rspready, hold, valid, digest[digestWidth]
//	Outputs: reqready, rspvalid, rsperror, rspdata[dataWidth],
//	         block[blockWidth], start, last, rsthash
func RegInterface(cfg AccelConfig) (shatb.NewPartFn, error) {
	m, hc, err := cfg.Map()
	if err != nil {
		return nil, errors.Wrap(err, "register interface")
	}
	mc := m.Config()
	in, out := busIO(m)
	bw, dw := strconv.Itoa(mc.BlockWidth), strconv.Itoa(hc.DigestWidth)
	l := cfg.logger()

	sp := &shatb.PartSpec{
		Name:    "REGIF",
		Inputs:  shatb.IO(in + ", " + pHold + ", " + pValid + ", " + pDigest + "[" + dw + "]"),
		Outputs: shatb.IO(out + ", " + pBlock + "[" + bw + "], " + pStart + ", " + pLast + ", " + pRstHash),
		Mount: func(s *shatb.Socket) []shatb.Component {
			r := &regIface{
				log:    l,
				digest: bitvec.New(hc.DigestWidth),
				block:  bitvec.New(mc.BlockWidth),
			}
			r.m = bus.NewModel(m, r)

			addr, data := s.Bus(PinReqAddr, mc.AddrWidth), s.Bus(PinReqData, mc.DataWidth)
			strobe := s.Bus(PinReqStrobe, m.Lanes())
			valid, write, ready := s.Pin(PinReqValid), s.Pin(PinReqWrite), s.Pin(PinRspReady)
			hold, cvalid, digest := s.Pin(pHold), s.Pin(pValid), s.Bus(pDigest, hc.DigestWidth)

			reqReady, rspValid, rspError := s.Pin(PinReqReady), s.Pin(PinRspValid), s.Pin(PinRspError)
			rspData := s.Bus(PinRspData, mc.DataWidth)
			block := s.Bus(pBlock, mc.BlockWidth)
			start, last, rst := s.Pin(pStart), s.Pin(pLast), s.Pin(pRstHash)

			return []shatb.Component{func(c *shatb.Circuit) {
				if c.AtTick() {
					r.hold, r.valid = c.Get(hold), c.Get(cvalid)
					Vector(c, digest, r.digest)
					r.pulse = bus.Events{}
					if r.busy && c.Get(ready) {
						r.busy = false
						r.rsp = bus.Response{}
					}
					if !r.busy && c.Get(valid) {
						r.accept(c, bus.Request{
							Addr:   uint32(Uint64(c, addr)),
							Write:  c.Get(write),
							Data:   Uint64(c, data),
							Strobe: Uint64(c, strobe),
						})
					}
				}
				c.Set(reqReady, !r.busy)
				c.Set(rspValid, r.rsp.Valid)
				c.Set(rspError, r.rsp.Error)
				SetUint64(c, rspData, r.rsp.Data)
				SetVector(c, block, r.block)
				c.Set(start, r.pulse.Start)
				c.Set(last, r.pulse.Start && r.pulse.Last)
				c.Set(rst, r.pulse.Reset)
			}}
		},
	}
	return sp.NewPart, nil
}

func (r *regIface) accept(c *shatb.Circuit, req bus.Request) {
	rsp, err := r.m.Step(req)
	if err != nil {
		r.log.WithError(err).WithField("req", req.String()).Warn("request rejected")
		rsp = bus.Response{Addr: req.Addr, Error: true}
	}
	if req.Write && rsp.Valid {
		r.block = r.m.Block()
	}
	r.rsp = rsp
	r.busy = true
	r.log.WithFields(log.Fields{
		"cycle": c.Cycles(),
		"req":   req.String(),
		"rsp":   rsp.Data,
		"error": rsp.Error,
	}).Trace("bus")
}
