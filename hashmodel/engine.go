// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hashmodel

import (
	"encoding/binary"
	"encoding/hex"
	"iter"
	"strconv"
	"strings"
)

// RoundState is a snapshot of the working variables of a compression engine.
// Round is -1 for the state loaded before the first round of a block.
type RoundState struct {
	Block int
	Round int
	Words []uint64
	bits  int
}

// String returns the words in hex, separated by spaces.
func (r RoundState) String() string {
	var b strings.Builder
	digits := r.bits / 4
	for i, w := range r.Words {
		if i > 0 {
			b.WriteByte(' ')
		}
		s := strconv.FormatUint(w, 16)
		for n := len(s); n < digits; n++ {
			b.WriteByte('0')
		}
		b.WriteString(s)
	}
	return b.String()
}

// An Engine computes the digest of a message and records everything a test
// bench needs to check a device against it: the padded blocks, the working
// variables after every round and the hash value after every block.
type Engine struct {
	core   *Core
	blocks [][]byte
	rounds []RoundState
	inter  []string
}

// New returns a new Engine. It fails with an error matching
// ErrUnsupportedDigestWidth if cfg.DigestWidth is not supported by
// cfg.Algorithm.
func New(cfg Config) (*Engine, error) {
	core, err := NewCore(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{core: core}, nil
}

// Config returns the normalized engine configuration.
func (e *Engine) Config() Config { return e.core.Config() }

// Process computes the digest of msg and returns it in hex. Each call starts
// from the initial hash value.
func (e *Engine) Process(msg []byte) string {
	e.core.Reset()
	e.blocks, e.rounds, e.inter = nil, nil, nil

	bs := e.core.BlockSize()
	padded := pad(e.core.c, msg)
	for n := 0; n < len(padded); n += bs {
		blk := padded[n : n+bs : n+bs]
		e.blocks = append(e.blocks, blk)
		if err := e.core.Load(blk); err != nil {
			panic(err) // padding always yields full blocks
		}
		e.snapshot(-1)
		for !e.core.Step() {
			e.snapshot(e.core.Round() - 1)
		}
		// the last round folds the working variables back into the state; we
		// still want to see them.
		e.snapshot(e.core.Rounds() - 1)
		e.inter = append(e.inter, e.Digest())
	}
	return e.Digest()
}

func (e *Engine) snapshot(round int) {
	e.rounds = append(e.rounds, RoundState{
		Block: len(e.blocks) - 1,
		Round: round,
		Words: e.core.Working(),
		bits:  e.core.WordBits(),
	})
}

// Digest returns the current digest in hex.
func (e *Engine) Digest() string {
	return hex.EncodeToString(e.core.Sum())
}

// Sum returns the current digest bytes.
func (e *Engine) Sum() []byte {
	return e.core.Sum()
}

// Blocks returns a copy of the padded blocks of the last processed message.
func (e *Engine) Blocks() [][]byte {
	out := make([][]byte, len(e.blocks))
	for i, b := range e.blocks {
		out[i] = append([]byte(nil), b...)
	}
	return out
}

// IntermediateDigests returns the digest after each block of the last
// processed message. The last entry is the final digest.
func (e *Engine) IntermediateDigests() []string {
	return append([]string(nil), e.inter...)
}

// RoundComputations returns the working variables recorded while processing
// the last message: for each block, the state loaded before round 0 followed
// by the state after every round. The sequence can be iterated any number of
// times.
func (e *Engine) RoundComputations() iter.Seq2[int, RoundState] {
	rounds := e.rounds
	return func(yield func(int, RoundState) bool) {
		for i, r := range rounds {
			r.Words = append([]uint64(nil), r.Words...)
			if !yield(i, r) {
				return
			}
		}
	}
}

// Pad returns msg padded to a whole number of blocks for algorithm a: a single
// 1 bit, zero bits, then the message length in bits as a big endian integer
// filling the length field (64 bits for SHA-1 and SHA-256, 128 bits for
// SHA-512).
func Pad(a Algorithm, msg []byte) []byte {
	c := variant(a)
	if c == nil {
		panic("unknown algorithm " + a.String())
	}
	return pad(c, msg)
}

func pad(c compressor, msg []byte) []byte {
	bs, ls := c.blockSize(), c.lengthSize()
	n := len(msg) + 1
	if r := (n + ls) % bs; r != 0 {
		n += bs - r
	}
	out := make([]byte, n+ls)
	copy(out, msg)
	out[len(msg)] = 0x80
	ml := uint64(len(msg))
	binary.BigEndian.PutUint64(out[len(out)-8:], ml<<3)
	if ls == 16 {
		binary.BigEndian.PutUint64(out[len(out)-16:], ml>>61)
	}
	return out
}
