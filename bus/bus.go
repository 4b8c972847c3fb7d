// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bus models the request/response register bus of a hash
// accelerator.
//
// The bus is strictly half duplex: a master asserts a single request, then
// waits for its response before issuing the next one. A Model computes the
// response of a register interface to a request, as the hardware does, and is
// used either as a software twin of a device or to check the model itself.
package bus

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrMalformedStrobe is returned when the write strobe of a request has bits
// set beyond the byte lanes of a register.
var ErrMalformedStrobe = errors.New("malformed strobe")

// A Request is a single bus transaction request.
type Request struct {
	Addr   uint32
	Write  bool
	Data   uint64
	Strobe uint64 // one bit per byte lane
}

// Read returns a read request for addr with a full strobe for the given number
// of byte lanes.
func Read(addr uint32, lanes int) Request {
	return Request{Addr: addr, Strobe: 1<<uint(lanes) - 1}
}

// Write returns a write request for addr with a full strobe for the given
// number of byte lanes.
func Write(addr uint32, data uint64, lanes int) Request {
	return Request{Addr: addr, Write: true, Data: data, Strobe: 1<<uint(lanes) - 1}
}

func (r Request) String() string {
	if r.Write {
		return "write " + hex(uint64(r.Addr)) + " <- " + hex(r.Data) + " strobe " + strconv.FormatUint(r.Strobe, 2)
	}
	return "read " + hex(uint64(r.Addr))
}

func hex(x uint64) string { return "0x" + strconv.FormatUint(x, 16) }

// A Response is the answer of a register interface to a Request. Valid and
// Error are mutually exclusive.
type Response struct {
	Addr  uint32 // address of the request
	Data  uint64
	Valid bool
	Error bool
}

// Err returns an *AddressDecodeError if r is an error response, nil otherwise.
func (r Response) Err() error {
	if !r.Error {
		return nil
	}
	return &AddressDecodeError{Addr: r.Addr}
}

// AddressDecodeError reports an access to an address that does not map to
// any register.
type AddressDecodeError struct {
	Addr uint32
}

func (e *AddressDecodeError) Error() string {
	return "address decode error at " + hex(uint64(e.Addr))
}

// A Master issues requests on a bus, one at a time.
//
// AssertRequest places a request on the bus. AwaitResponse blocks until the
// response to the outstanding request is available and consumes it. A request
// cannot be cancelled once asserted.
type Master interface {
	AssertRequest(Request) error
	AwaitResponse() (Response, error)
}

// Do asserts req on m and waits for its response.
func Do(m Master, req Request) (Response, error) {
	if err := m.AssertRequest(req); err != nil {
		return Response{}, err
	}
	return m.AwaitResponse()
}

// Merge returns prev with the byte lanes selected by strobe replaced by the
// corresponding bytes of data. Only the low lanes bytes are considered.
func Merge(prev, data, strobe uint64, lanes int) uint64 {
	var out uint64
	for b := 0; b < lanes; b++ {
		m := uint64(0xff) << uint(b*8)
		if strobe&(1<<uint(b)) != 0 {
			out |= data & m
		} else {
			out |= prev & m
		}
	}
	return out
}
