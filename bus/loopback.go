// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bus

import (
	"strconv"

	"github.com/pkg/errors"
)

// Errors returned by Loopback.
var (
	ErrBusy      = errors.New("request already outstanding")
	ErrNoRequest = errors.New("no outstanding request")
)

// Phase is the state of a bus transaction.
type Phase int

// Transaction phases.
const (
	Idle Phase = iota
	RequestAsserted
	ResponseWait
	ResponseConsumed
)

var phaseNames = [...]string{"idle", "request-asserted", "response-wait", "response-consumed"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Phase(" + strconv.Itoa(int(p)) + ")"
	}
	return phaseNames[p]
}

// Loopback is a Master connected directly to a Model. The model samples a
// request on the clock edge following its assertion and the response is
// available one cycle later.
//
// A Loopback is not safe for concurrent use.
type Loopback struct {
	m       *Model
	phase   Phase
	req     Request
	cycles  uint64
	onPhase func(Phase)
}

// NewLoopback returns a new Loopback master for m.
func NewLoopback(m *Model) *Loopback {
	return &Loopback{m: m}
}

// AssertRequest implements Master.
func (l *Loopback) AssertRequest(req Request) error {
	switch l.phase {
	case RequestAsserted, ResponseWait:
		return ErrBusy
	}
	l.req = req
	l.setPhase(RequestAsserted)
	l.cycles++
	return nil
}

// AwaitResponse implements Master.
func (l *Loopback) AwaitResponse() (Response, error) {
	if l.phase != RequestAsserted {
		return Response{}, ErrNoRequest
	}
	l.setPhase(ResponseWait)
	rsp, err := l.m.Step(l.req)
	l.cycles++
	if err != nil {
		l.setPhase(Idle)
		return Response{}, errors.Wrap(err, l.req.String())
	}
	// rsp is consumed by the caller on return.
	l.setPhase(ResponseConsumed)
	l.setPhase(Idle)
	return rsp, nil
}

func (l *Loopback) setPhase(p Phase) {
	l.phase = p
	if l.onPhase != nil {
		l.onPhase(p)
	}
}

// OnPhase sets a function called on every phase change of l.
func (l *Loopback) OnPhase(fn func(Phase)) { l.onPhase = fn }

// Phase returns the phase of the current transaction.
func (l *Loopback) Phase() Phase { return l.phase }

// Cycles returns the number of clock cycles elapsed since the creation of l.
func (l *Loopback) Cycles() uint64 { return l.cycles }

// Model returns the model l is connected to.
func (l *Loopback) Model() *Model { return l.m }
