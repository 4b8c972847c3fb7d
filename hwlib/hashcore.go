// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/shatb"
	"github.com/db47h/shatb/bitvec"
	"github.com/db47h/shatb/hashmodel"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CoreState is the state of a HashCore FSM.
type CoreState int

// HashCore states.
const (
	CoreIdle    CoreState = iota // waiting for a first block
	CoreHashing                  // one round per clock cycle
	CoreHold                     // block done, waiting for the next block
	CoreDone                     // last block done, digest valid
)

var coreStateNames = [...]string{"IDLE", "HASHING", "HOLD", "DONE"}

func (s CoreState) String() string {
	if s < 0 || int(s) >= len(coreStateNames) {
		return "CoreState(" + strconv.Itoa(int(s)) + ")"
	}
	return coreStateNames[s]
}

type hashCore struct {
	core   *hashmodel.Core
	state  CoreState
	last   bool
	blocks int
	digest bitvec.Vector
	buf    bitvec.Vector
	onRnd  func(block, round int, words []uint64)
	log    *log.Entry
}

func (h *hashCore) reset() {
	h.core.Reset()
	h.state = CoreIdle
	h.blocks = 0
	h.digest = bitvec.FromBytes(h.core.Sum())
}

// tick runs one clock cycle of the FSM.
func (h *hashCore) tick(start, last, rst bool) {
	if rst {
		h.reset()
		return
	}
	switch h.state {
	case CoreIdle, CoreHold, CoreDone:
		if !start {
			return
		}
		if err := h.core.Load(h.buf.Bytes()); err != nil {
			h.log.WithError(err).WithField("state", h.state).Error("block load failed")
			return
		}
		h.last = last
		h.state = CoreHashing
		if h.onRnd != nil {
			h.onRnd(h.blocks, -1, h.core.Working())
		}
	case CoreHashing:
		done := h.core.Step()
		if h.onRnd != nil {
			rnd := h.core.Round() - 1
			if done {
				rnd = h.core.Rounds() - 1
			}
			h.onRnd(h.blocks, rnd, h.core.Working())
		}
		if !done {
			return
		}
		h.blocks++
		h.digest = bitvec.FromBytes(h.core.Sum())
		if h.last {
			h.state = CoreDone
		} else {
			h.state = CoreHold
		}
	}
}

// HashCore returns the clocked compression engine of the accelerator.
//
// On a rising edge with rsthash high, the core reloads the initial hash value
// and goes idle. With start high and the core not hashing, it loads the block
// pins and starts hashing, clearing hold and valid. It then runs one round per
// clock cycle. After the last round, hold is raised if the block was not the
// last one (last low when start was sampled), valid otherwise. The digest
// pins always show the current hash value.
//
// Start pulses received while hashing are ignored. The core keeps chaining
// from the current hash value until rsthash is pulsed, even after the last
// block.
//
//	Inputs: block[blockWidth], start, last, rsthash
//	Outputs: hold, valid, digest[digestWidth]
func HashCore(cfg AccelConfig) (shatb.NewPartFn, error) {
	probe, err := hashmodel.NewCore(cfg.Hash)
	if err != nil {
		return nil, errors.Wrap(err, "hash core")
	}
	hc := probe.Config()
	bw, dw := hc.Algorithm.BlockWidth(), hc.DigestWidth
	sp := &shatb.PartSpec{
		Name:    "HASHCORE",
		Inputs:  shatb.IO(pBlock + "[" + strconv.Itoa(bw) + "], " + pStart + ", " + pLast + ", " + pRstHash),
		Outputs: shatb.IO(pHold + ", " + pValid + ", " + pDigest + "[" + strconv.Itoa(dw) + "]"),
		Mount: func(s *shatb.Socket) []shatb.Component {
			core, _ := hashmodel.NewCore(hc)
			h := &hashCore{
				core:  core,
				buf:   bitvec.New(bw),
				onRnd: cfg.OnRound,
				log:   cfg.logger().WithField("part", "HASHCORE"),
			}
			h.reset()

			block := s.Bus(pBlock, bw)
			start, last, rst := s.Pin(pStart), s.Pin(pLast), s.Pin(pRstHash)
			hold, valid, digest := s.Pin(pHold), s.Pin(pValid), s.Bus(pDigest, dw)

			return []shatb.Component{func(c *shatb.Circuit) {
				if c.AtTick() {
					if c.Get(start) {
						Vector(c, block, h.buf)
					}
					h.tick(c.Get(start), c.Get(last), c.Get(rst))
				}
				c.Set(hold, h.state == CoreHold)
				c.Set(valid, h.state == CoreDone)
				SetVector(c, digest, h.digest)
			}}
		},
	}
	return sp.NewPart, nil
}
