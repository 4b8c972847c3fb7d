// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package shatb

import (
	"math/bits"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Set states.
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name: "Not",
//		Inputs: IO("in"),
//		Outputs: IO("out"),
//		Mount: func (s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func (c *Circuit) { c.Set(out, !c.Get(in)) }
//			}
//		}}
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
// Custom parts are implemented by creating a PartSpec, then get a NewPartFn
// for that PartSpec:
//
//	var notGate = notSpec.NewPart
//
// or:
//
//	func Not(c string) Part { return notSpec.NewPart(c) }
//
// Which can the be used as a NewPartFn when building other chips:
//
//	c, _ := Chip("dummy", "a, b", "c, d",
//		notGate("in=a, out=c"),
//		Not("in=b, out=d"),
//	)
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use the IO() function to expand an input description like
	// "a, b, bus[2]" to []string{"a", "b", "bus[0]", "bus[1]"}
	Inputs []string
	// Output pin names. Must be distinct pin names.
	Outputs []string

	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string cannot be parsed.
func (p *PartSpec) NewPart(connections string) Part {
	conns, err := ParseConnections(connections)
	if err != nil {
		panic(errors.Wrap(err, p.Name))
	}
	return Part{p, conns}
}

// A NewPartFn is a function that takes a connection configuration and returns
// a new Part. See ParseConnections for the syntax of the connection
// configuration string.
type NewPartFn func(c string) Part

// A Part wraps a part specification together with its connections within a
// host chip.
type Part struct {
	*PartSpec
	Conns []Connection
}

// Circuit is a runnable circuit simulation.
//
// The simulation is clocked by a step counter: each call to Step updates all
// components once, from the pin states of the previous step. A clock cycle
// lasts SPC() steps. The clk constant pin is high during the first half of a
// cycle.
type Circuit struct {
	cur  []bool // pin states read by components
	next []bool // pin states written by components
	cs   []Component
	pins int
	spc  uint
	step uint

	pool *pool
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// stepsPerCycle indicates how many simulation steps to run per clock cycle
// (the Clk signal, not wall clock). It is rounded up to the next power of two,
// with a minimum of 2. The exact value to use depends on the longest chain of
// components between two clocked parts: a component takes one step to update
// its outputs.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
func NewCircuit(workers int, stepsPerCycle uint, parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}
	if stepsPerCycle < 2 {
		stepsPerCycle = 2
	}
	c := &Circuit{
		pins: cstCount,
		spc:  1 << uint(bits.Len(stepsPerCycle-1)),
	}

	wrap, err := Chip("CIRCUIT", "", "", parts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chip wrapper")
	}
	c.cs = append(wrap("").Mount(newSocket(c)), (*Circuit).updateClock)
	c.cur = make([]bool, c.pins)
	c.next = make([]bool, c.pins)
	c.cur[cstClk] = true
	c.cur[cstTrue] = true
	c.next[cstTrue] = true

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	c.pool = newPool(c, workers)
	return c, nil
}

// updateClock drives the clk pin for the next step. It also catches parts that
// write to the true or false constants.
func (c *Circuit) updateClock() {
	if c.cur[cstFalse] || !c.cur[cstTrue] {
		panic("true or false constants have been overwritten")
	}
	c.next[cstClk] = (c.step+1)&(c.spc-1) < c.spc/2
}

// pool runs the components of a circuit in parallel. Each worker owns a
// contiguous slice of components and is released once per step.
type pool struct {
	start []chan struct{}
	wg    sync.WaitGroup
}

func newPool(c *Circuit, workers int) *pool {
	if workers < 1 {
		workers = 1
	}
	p := new(pool)
	size := (len(c.cs) + workers - 1) / workers
	for cs := c.cs; len(cs) > 0; {
		n := size
		if n > len(cs) {
			n = len(cs)
		}
		ch := make(chan struct{}, 1)
		p.start = append(p.start, ch)
		go p.work(c, cs[:n], ch)
		cs = cs[n:]
	}
	return p
}

func (p *pool) work(c *Circuit, cs []Component, start <-chan struct{}) {
	for range start {
		for _, f := range cs {
			f(c)
		}
		p.wg.Done()
	}
	p.wg.Done()
}

// run updates every component once and waits for all workers.
func (p *pool) run() {
	p.wg.Add(len(p.start))
	for _, ch := range p.start {
		ch <- struct{}{}
	}
	p.wg.Wait()
}

func (p *pool) stop() {
	p.wg.Add(len(p.start))
	for _, ch := range p.start {
		close(ch)
	}
	p.wg.Wait()
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
func (c *Circuit) Dispose() {
	c.pool.stop()
}

func (c *Circuit) allocPin() int {
	c.pins++
	return c.pins - 1
}

// Steps returns the value of the step counter.
func (c *Circuit) Steps() uint { return c.step }

// Cycles returns the number of complete clock cycles run so far.
func (c *Circuit) Cycles() uint { return c.step / c.spc }

// SPC returns the number of simulation steps per clock cycle.
func (c *Circuit) SPC() uint { return c.spc }

// AtTick returns true if the current step is at the beginning of a clock cycle
// (rising edge of Clk).
func (c *Circuit) AtTick() bool {
	return c.step&(c.spc-1) == 0
}

// AtTock returns true if the current step is at the beginning of the second
// half of a clock cycle (falling edge of Clk).
func (c *Circuit) AtTock() bool {
	return c.step&(c.spc-1) == c.spc/2
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
func (c *Circuit) Get(n int) bool {
	return c.cur[n]
}

// Set sets the state s of pin n for the next step.
func (c *Circuit) Set(n int, s bool) {
	c.next[n] = s
}

// Toggle inverts the state of pin n for the next step.
func (c *Circuit) Toggle(n int) {
	c.next[n] = !c.cur[n]
}

// Step advances the simulation by one step.
func (c *Circuit) Step() {
	c.pool.run()
	c.step++
	c.cur, c.next = c.next, c.cur
}

// Tick runs the simulation until the falling edge of Clk.
func (c *Circuit) Tick() {
	for c.cur[cstClk] {
		c.Step()
	}
}

// Tock runs the simulation until the next rising edge of Clk.
// Once Tock returns, the output of clocked components should have stabilized.
func (c *Circuit) Tock() {
	for !c.cur[cstClk] {
		c.Step()
	}
}

// TickTock runs the simulation for a whole clock cycle.
func (c *Circuit) TickTock() {
	c.Tick()
	c.Tock()
}

// Size returns the component count in the circuit.
func (c *Circuit) Size() int { return len(c.cs) }
