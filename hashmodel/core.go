// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hashmodel

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Core is a cycle level model of a compression engine: one call to Step runs
// exactly one round, the way the hardware updates its working registers once
// per clock cycle.
//
// A Core keeps the running hash state across blocks until Reset is called.
type Core struct {
	cfg Config
	c   compressor
	h   []uint64 // hash state
	v   []uint64 // working variables
	w   []uint64 // message schedule
	rnd int      // next round, -1 when no block is loaded
}

// NewCore returns a new Core for the given configuration.
func NewCore(cfg Config) (*Core, error) {
	cfg, c, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	k := &Core{
		cfg: cfg,
		c:   c,
		h:   make([]uint64, c.words()),
		v:   make([]uint64, c.words()),
		w:   make([]uint64, c.rounds()),
	}
	k.Reset()
	return k, nil
}

// Config returns the normalized configuration of the core.
func (k *Core) Config() Config { return k.cfg }

// BlockSize returns the size of a block in bytes.
func (k *Core) BlockSize() int { return k.c.blockSize() }

// Rounds returns the number of rounds per block.
func (k *Core) Rounds() int { return k.c.rounds() }

// WordBits returns the width of the state words in bits.
func (k *Core) WordBits() int { return k.c.wordBits() }

// Reset reloads the initial hash value and drops any loaded block.
func (k *Core) Reset() {
	copy(k.h, k.c.iv(k.cfg.DigestWidth))
	copy(k.v, k.h)
	k.rnd = -1
}

// Load expands block into the message schedule and copies the hash state into
// the working variables. len(block) must be BlockSize().
func (k *Core) Load(block []byte) error {
	if len(block) != k.c.blockSize() {
		return errors.Errorf("%s: bad block size %d, expected %d", k.cfg.Algorithm, len(block), k.c.blockSize())
	}
	k.c.schedule(k.w, block)
	copy(k.v, k.h)
	k.rnd = 0
	return nil
}

// Busy returns true if a block is loaded and not fully processed.
func (k *Core) Busy() bool { return k.rnd >= 0 }

// Round returns the index of the next round to run or -1 if no block is
// loaded.
func (k *Core) Round() int { return k.rnd }

// Step runs one round. After the last round of a block, the working variables
// are added into the hash state and Step returns true. Calling Step with no
// block loaded is a no-op that returns false.
func (k *Core) Step() (done bool) {
	if k.rnd < 0 {
		return false
	}
	k.c.round(k.v, k.rnd, k.w)
	k.rnd++
	if k.rnd < k.c.rounds() {
		return false
	}
	m := Mask(uint(k.c.wordBits()))
	for i := range k.h {
		k.h[i] = (k.h[i] + k.v[i]) & m
	}
	k.rnd = -1
	return true
}

// Working returns a copy of the working variables (a, b, c...).
func (k *Core) Working() []uint64 {
	return append([]uint64(nil), k.v...)
}

// State returns a copy of the hash state words.
func (k *Core) State() []uint64 {
	return append([]uint64(nil), k.h...)
}

// Sum returns the hash state as big endian bytes, truncated to the configured
// digest width.
func (k *Core) Sum() []byte {
	wb := k.c.wordBits() / 8
	out := make([]byte, len(k.h)*wb)
	for i, x := range k.h {
		if wb == 4 {
			binary.BigEndian.PutUint32(out[i*4:], uint32(x))
		} else {
			binary.BigEndian.PutUint64(out[i*8:], x)
		}
	}
	return out[:k.cfg.DigestWidth/8]
}
