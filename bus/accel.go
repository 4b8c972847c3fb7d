// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bus

import (
	"github.com/db47h/shatb/bitvec"
	"github.com/db47h/shatb/hashmodel"
	"github.com/pkg/errors"
)

// Accelerator is a behavioral Backend: a start pulse compresses the block
// registers at once. After a block that is not the last one of a message, the
// accelerator holds, waiting for the next block. After the last block, the
// digest is valid.
type Accelerator struct {
	core  *hashmodel.Core
	hold  bool
	valid bool
	rnds  int
}

// NewAccelerator returns a new Accelerator computing the given hash.
func NewAccelerator(cfg hashmodel.Config) (*Accelerator, error) {
	core, err := hashmodel.NewCore(cfg)
	if err != nil {
		return nil, err
	}
	return &Accelerator{core: core}, nil
}

// Status implements Backend.
func (a *Accelerator) Status() (hold, valid bool) { return a.hold, a.valid }

// Digest implements Backend. While a message is in progress, it returns the
// intermediate hash value.
func (a *Accelerator) Digest() bitvec.Vector {
	return bitvec.FromBytes(a.core.Sum())
}

// Control implements Backend.
func (a *Accelerator) Control(ev Events, block bitvec.Vector) error {
	if ev.Reset {
		a.core.Reset()
		a.hold, a.valid = false, false
		return nil
	}
	if !ev.Start {
		return nil
	}
	if err := a.core.Load(block.Bytes()); err != nil {
		return errors.Wrap(err, "load block")
	}
	a.hold, a.valid = false, false
	for !a.core.Step() {
	}
	a.rnds += a.core.Rounds()
	if ev.Last {
		a.valid = true
	} else {
		a.hold = true
	}
	return nil
}

// Rounds returns the total number of rounds computed since the creation of a.
func (a *Accelerator) Rounds() int { return a.rnds }
