// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package driver sequences hash accelerator operations over a bus master.
//
// Every operation issues one bus transaction per register of the field it
// accesses, in increasing address order, and consumes each response before
// issuing the next request. The driver does not know whether the master talks
// to a bus.Model or to simulated hardware.
package driver

import (
	"github.com/db47h/shatb/bitvec"
	"github.com/db47h/shatb/bus"
	"github.com/db47h/shatb/regmap"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrPollLimit is returned by Hash when the accelerator does not report hold
// or valid within the configured number of status polls.
var ErrPollLimit = errors.New("poll limit reached")

// A Driver drives an accelerator through a bus master.
type Driver struct {
	m         bus.Master
	amap      *regmap.Map
	log       *log.Entry
	pollLimit int
	pollHook  func()
}

// An Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used to trace operations at debug level.
func WithLogger(l *log.Entry) Option {
	return func(d *Driver) { d.log = l }
}

// WithPollLimit sets the maximum number of status polls per block in Hash. 0
// means no limit.
func WithPollLimit(n int) Option {
	return func(d *Driver) { d.pollLimit = n }
}

// WithPollHook sets a function called between two status polls, typically to
// let a simulated device run for some time.
func WithPollHook(f func()) Option {
	return func(d *Driver) { d.pollHook = f }
}

// New returns a new Driver issuing requests to m for an accelerator with the
// given address map.
func New(m bus.Master, amap *regmap.Map, opts ...Option) *Driver {
	d := &Driver{
		m:    m,
		amap: amap,
		log:  log.NewEntry(log.StandardLogger()),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Map returns the address map of the driver.
func (d *Driver) Map() *regmap.Map { return d.amap }

func (d *Driver) do(op string, req bus.Request) (uint64, error) {
	if err := d.m.AssertRequest(req); err != nil {
		return 0, errors.Wrap(err, op)
	}
	rsp, err := d.m.AwaitResponse()
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	if err = rsp.Err(); err != nil {
		return 0, errors.Wrap(err, op)
	}
	return rsp.Data, nil
}

func (d *Driver) write(op string, addr uint32, data uint64) error {
	_, err := d.do(op, bus.Write(addr, data, d.amap.Lanes()))
	return err
}

func (d *Driver) read(op string, addr uint32) (uint64, error) {
	return d.do(op, bus.Read(addr, d.amap.Lanes()))
}

func (d *Driver) writeField(op string, r regmap.Region, v bitvec.Vector) error {
	dw := d.amap.Config().DataWidth
	addrs := d.amap.Addresses(r)
	for i, a := range addrs {
		data := v.Field(i*dw, dw)
		if err := d.write(op, a, data); err != nil {
			return err
		}
		d.log.WithFields(log.Fields{"op": op, "addr": a, "data": data}).Trace("write")
	}
	return nil
}

func (d *Driver) readField(op string, r regmap.Region, width int) (bitvec.Vector, error) {
	dw := d.amap.Config().DataWidth
	v := bitvec.New(width)
	for i, a := range d.amap.Addresses(r) {
		data, err := d.read(op, a)
		if err != nil {
			return bitvec.Vector{}, err
		}
		v.SetField(i*dw, dw, data)
		d.log.WithFields(log.Fields{"op": op, "addr": a, "data": data}).Trace("read")
	}
	return v, nil
}

// WriteBlock writes block to the block registers. Register i receives bits
// [i*DataWidth, (i+1)*DataWidth) of block.
func (d *Driver) WriteBlock(block bitvec.Vector) error {
	if bw := d.amap.Config().BlockWidth; block.Width() != bw {
		return errors.Errorf("write_block: block width %d, expected %d", block.Width(), bw)
	}
	d.log.WithField("op", "write_block").Debug(block.Hex())
	return d.writeField("write_block", regmap.Block, block)
}

// ReadBlock reads back the block registers.
func (d *Driver) ReadBlock() (bitvec.Vector, error) {
	v, err := d.readField("read_block", regmap.Block, d.amap.Config().BlockWidth)
	if err == nil {
		d.log.WithField("op", "read_block").Debug(v.Hex())
	}
	return v, err
}

// ReadDigest reads the digest registers.
func (d *Driver) ReadDigest() (bitvec.Vector, error) {
	v, err := d.readField("read_digest", regmap.Digest, d.amap.Config().DigestWidth)
	if err == nil {
		d.log.WithField("op", "read_digest").Debug(v.Hex())
	}
	return v, err
}

func (d *Driver) ctrl(op string, v uint64) error {
	d.log.WithFields(log.Fields{"op": op, "data": v}).Debug("control")
	return d.write(op, regmap.Control.Base(), v)
}

// Enable starts processing of the block registers. last marks the block as
// the last one of the message.
func (d *Driver) Enable(last bool) error {
	v := uint64(regmap.CtrlEnable)
	if last {
		v |= regmap.CtrlLast
	}
	return d.ctrl("enable", v)
}

// Disable clears the control register.
func (d *Driver) Disable() error { return d.ctrl("disable", 0) }

// Reset resets the hash core to its initial hash value.
func (d *Driver) Reset() error { return d.ctrl("reset", regmap.CtrlReset) }

// ReadControl returns the value of the control register.
func (d *Driver) ReadControl() (uint64, error) {
	return d.read("read_ctrl", regmap.Control.Base())
}

// ReadHold returns the hold status bit.
func (d *Driver) ReadHold() (bool, error) {
	v, err := d.read("read_hold", regmap.Control.Base())
	return v&regmap.CtrlHold != 0, err
}

// ReadValid returns the valid status bit.
func (d *Driver) ReadValid() (bool, error) {
	v, err := d.read("read_valid", regmap.Control.Base())
	return v&regmap.CtrlValid != 0, err
}

// Hash runs a whole message through the accelerator: it resets the core, then
// for each padded block writes the block registers, enables the core and polls
// the control register until the core holds or the digest is valid. It
// returns the digest read after the last block.
func (d *Driver) Hash(blocks [][]byte) (bitvec.Vector, error) {
	if len(blocks) == 0 {
		return bitvec.Vector{}, errors.New("hash: empty message")
	}
	if err := d.Reset(); err != nil {
		return bitvec.Vector{}, err
	}
	for i, b := range blocks {
		last := i == len(blocks)-1
		l := d.log.WithFields(log.Fields{"block": i, "last": last})
		if err := d.WriteBlock(bitvec.FromBytes(b)); err != nil {
			return bitvec.Vector{}, errors.Wrapf(err, "block %d", i)
		}
		if err := d.Enable(last); err != nil {
			return bitvec.Vector{}, errors.Wrapf(err, "block %d", i)
		}
		polls, err := d.wait()
		if err != nil {
			return bitvec.Vector{}, errors.Wrapf(err, "block %d", i)
		}
		l.WithField("polls", polls).Debug("block done")
	}
	return d.ReadDigest()
}

func (d *Driver) wait() (int, error) {
	for n := 1; ; n++ {
		v, err := d.ReadControl()
		if err != nil {
			return n, err
		}
		if v&(regmap.CtrlHold|regmap.CtrlValid) != 0 {
			return n, nil
		}
		if d.pollLimit > 0 && n >= d.pollLimit {
			return n, errors.Wrapf(ErrPollLimit, "%d polls", n)
		}
		if d.pollHook != nil {
			d.pollHook()
		}
	}
}
