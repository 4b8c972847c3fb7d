// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"github.com/db47h/shatb"
	"github.com/db47h/shatb/bus"
	"github.com/db47h/shatb/hwlib"
	"github.com/pkg/errors"
)

// ErrNoResponse is returned by a Master when the device does not answer a
// request, or does not accept it, within the cycle limit.
var ErrNoResponse = errors.New("no response from device")

// DefaultCycleLimit is the cycle limit of a Master created with a limit of 0.
const DefaultCycleLimit = 64

// Master is a bus.Master that drives the bus pins of an accelerator in a
// running Circuit. Every call to AssertRequest or AwaitResponse advances the
// circuit clock.
//
// A request is held on the bus for exactly one clock cycle, then the master
// raises rspready and polls rspvalid and rsperror at the end of every
// following cycle.
type Master struct {
	dw, aw, lanes int
	limit         int
	c             *shatb.Circuit

	req      bus.Request
	reqValid bool
	rspReady bool
	pending  bool

	// probes
	reqReady bool
	rspValid bool
	rspError bool
	rspData  int64
}

// NewMaster returns a new Master for an accelerator configured with cfg.
// cycleLimit is the number of clock cycles to wait for the device to accept a
// request or to answer it. If 0, DefaultCycleLimit is used.
func NewMaster(cfg hwlib.AccelConfig, cycleLimit int) (*Master, error) {
	m, _, err := cfg.Map()
	if err != nil {
		return nil, errors.Wrap(err, "bus master")
	}
	if cycleLimit <= 0 {
		cycleLimit = DefaultCycleLimit
	}
	mc := m.Config()
	return &Master{
		dw:    mc.DataWidth,
		aw:    mc.AddrWidth,
		lanes: m.Lanes(),
		limit: cycleLimit,
	}, nil
}

// Parts returns the parts that connect m to the bus wires. They must be
// mounted in the same circuit as the device, with the device bus pins
// connected to wires of the same name (see hwlib.BusConnections).
func (m *Master) Parts() []shatb.Part {
	return []shatb.Part{
		hwlib.InputN(m.aw, func() int64 { return int64(m.req.Addr) })("out=" + hwlib.PinReqAddr),
		hwlib.InputN(m.dw, func() int64 { return int64(m.req.Data) })("out=" + hwlib.PinReqData),
		hwlib.InputN(m.lanes, func() int64 { return int64(m.req.Strobe) })("out=" + hwlib.PinReqStrobe),
		hwlib.Input(func() bool { return m.reqValid })("out=" + hwlib.PinReqValid),
		hwlib.Input(func() bool { return m.req.Write })("out=" + hwlib.PinReqWrite),
		hwlib.Input(func() bool { return m.rspReady })("out=" + hwlib.PinRspReady),
		hwlib.Output(func(b bool) { m.reqReady = b })("in=" + hwlib.PinReqReady),
		hwlib.Output(func(b bool) { m.rspValid = b })("in=" + hwlib.PinRspValid),
		hwlib.Output(func(b bool) { m.rspError = b })("in=" + hwlib.PinRspError),
		hwlib.OutputN(m.dw, func(v int64) { m.rspData = v })("in=" + hwlib.PinRspData),
	}
}

// Bind attaches m to the circuit c. It must be called before any request.
func (m *Master) Bind(c *shatb.Circuit) {
	m.c = c
}

// AssertRequest implements bus.Master. It waits for the device to be ready,
// then holds req on the bus for one clock cycle.
func (m *Master) AssertRequest(req bus.Request) error {
	if m.c == nil {
		return errors.New("bus master not bound to a circuit")
	}
	if m.pending {
		return bus.ErrBusy
	}
	for n := 0; !m.reqReady; n++ {
		if n >= m.limit {
			return errors.Wrapf(ErrNoResponse, "device not ready after %d cycles", n)
		}
		m.c.TickTock()
	}
	m.req = req
	m.reqValid = true
	m.c.TickTock()
	m.reqValid = false
	m.pending = true
	return nil
}

// AwaitResponse implements bus.Master.
func (m *Master) AwaitResponse() (bus.Response, error) {
	if !m.pending {
		return bus.Response{}, bus.ErrNoRequest
	}
	m.pending = false
	m.rspReady = true
	defer func() { m.rspReady = false }()
	for n := 1; n <= m.limit; n++ {
		m.c.TickTock()
		if m.rspValid || m.rspError {
			return bus.Response{
				Addr:  m.req.Addr,
				Data:  uint64(m.rspData),
				Valid: m.rspValid,
				Error: m.rspError,
			}, nil
		}
	}
	return bus.Response{}, errors.Wrapf(ErrNoResponse, "%s: %d cycles", m.req, m.limit)
}

// Cycles returns the number of clock cycles run by the bound circuit.
func (m *Master) Cycles() uint {
	if m.c == nil {
		return 0
	}
	return m.c.Cycles()
}
