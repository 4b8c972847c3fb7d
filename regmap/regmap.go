// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package regmap describes the register address map of a hash accelerator: a
// control register, the block registers the message block is written to and
// the read only digest registers.
//
// Registers are DataWidth bits wide. Addresses are byte addresses when
// ByteAlign is set and 32 bits word addresses otherwise.
package regmap

import (
	"strconv"

	"github.com/pkg/errors"
)

// Region identifies one of the register regions.
type Region int

// Register regions.
const (
	None Region = iota
	Control
	Block
	Digest
)

var regionNames = [...]string{None: "none", Control: "ctrl", Block: "block", Digest: "digest"}

func (r Region) String() string {
	if r < 0 || int(r) >= len(regionNames) {
		return "Region(" + strconv.Itoa(int(r)) + ")"
	}
	return regionNames[r]
}

// Base returns the base address of region r.
func (r Region) Base() uint32 {
	switch r {
	case Control:
		return 0x000
	case Block:
		return 0x100
	case Digest:
		return 0x200
	}
	return 0
}

// OffsetMask is the mask of the offset of an address within its region.
const OffsetMask = 0xFF

// Control register bits.
const (
	CtrlEnable = 1 << 0
	CtrlReset  = 1 << 1
	CtrlHold   = 1 << 3 // read only
	CtrlValid  = 1 << 4 // read only
	CtrlLast   = 1 << 5

	// CtrlWriteMask masks the bits a write can set in the control register.
	CtrlWriteMask = CtrlEnable | CtrlLast
	// CtrlWidth is the width of the control register field in bits.
	CtrlWidth = 8
)

// AddressesFor returns the addresses of the registers holding a field of the
// given width in region r. With dataWidth bits per register, the address of
// the i-th register is
//
//	r.Base() + (i*dataWidth)/step
//
// where step is 8 when byteAlign is true and 32 otherwise.
func AddressesFor(r Region, width, dataWidth int, byteAlign bool) []uint32 {
	if dataWidth <= 0 || width <= 0 {
		return nil
	}
	step := 32
	if byteAlign {
		step = 8
	}
	n := (width + dataWidth - 1) / dataWidth
	out := make([]uint32, n)
	for i := range out {
		out[i] = r.Base() + uint32(i*dataWidth/step)
	}
	return out
}

// Config holds the parameters of an accelerator register interface.
type Config struct {
	DataWidth   int  // register width in bits: 8, 16, 32 or 64
	ByteAlign   bool // byte addresses if true, 32 bits word addresses otherwise
	BlockWidth  int  // 512 or 1024
	DigestWidth int  // 160, 224, 256, 384 or 512
	AddrWidth   int  // address bus width. Defaults to 10.
}

// A Map is a validated register address map.
type Map struct {
	cfg   Config
	addrs [Digest + 1][]uint32
	index map[uint32]loc
}

type loc struct {
	r Region
	i int
}

// DefaultAddrWidth is the address bus width used when Config.AddrWidth is 0.
const DefaultAddrWidth = 10

// New validates cfg and returns the corresponding Map.
func New(cfg Config) (*Map, error) {
	if cfg.AddrWidth == 0 {
		cfg.AddrWidth = DefaultAddrWidth
	}
	switch cfg.DataWidth {
	case 8, 16, 32, 64:
	default:
		return nil, errors.Errorf("unsupported data width %d", cfg.DataWidth)
	}
	if !cfg.ByteAlign && cfg.DataWidth < 32 {
		return nil, errors.Errorf("word aligned addressing needs a data width of at least 32 bits, got %d", cfg.DataWidth)
	}
	switch cfg.BlockWidth {
	case 512, 1024:
	default:
		return nil, errors.Errorf("unsupported block width %d", cfg.BlockWidth)
	}
	switch cfg.DigestWidth {
	case 160, 224, 256, 384, 512:
	default:
		return nil, errors.Errorf("unsupported digest width %d", cfg.DigestWidth)
	}
	if cfg.DigestWidth > cfg.BlockWidth {
		return nil, errors.Errorf("digest width %d larger than block width %d", cfg.DigestWidth, cfg.BlockWidth)
	}
	if cfg.AddrWidth < 10 || cfg.AddrWidth > 32 {
		return nil, errors.Errorf("address width %d out of range [10, 32]", cfg.AddrWidth)
	}

	m := &Map{cfg: cfg, index: make(map[uint32]loc)}
	m.addrs[Control] = AddressesFor(Control, CtrlWidth, cfg.DataWidth, cfg.ByteAlign)
	m.addrs[Block] = AddressesFor(Block, cfg.BlockWidth, cfg.DataWidth, cfg.ByteAlign)
	m.addrs[Digest] = AddressesFor(Digest, cfg.DigestWidth, cfg.DataWidth, cfg.ByteAlign)

	for r := Control; r <= Digest; r++ {
		prev := int64(-1)
		for i, a := range m.addrs[r] {
			if int64(a) <= prev {
				return nil, errors.Errorf("%s: address %#x not increasing", r, a)
			}
			if a-r.Base() > OffsetMask {
				return nil, errors.Errorf("%s: address %#x outside of region", r, a)
			}
			if cfg.AddrWidth < 32 && a>>uint(cfg.AddrWidth) != 0 {
				return nil, errors.Errorf("%s: address %#x does not fit in %d bits", r, a, cfg.AddrWidth)
			}
			if _, ok := m.index[a]; ok {
				return nil, errors.Errorf("%s: address %#x overlaps another register", r, a)
			}
			m.index[a] = loc{r, i}
			prev = int64(a)
		}
	}
	return m, nil
}

// Config returns the configuration of the map with defaults applied.
func (m *Map) Config() Config { return m.cfg }

// Addresses returns the addresses of the registers in region r, in increasing
// order.
func (m *Map) Addresses(r Region) []uint32 {
	if r < Control || r > Digest {
		return nil
	}
	return append([]uint32(nil), m.addrs[r]...)
}

// Decode returns the region of addr and the index of the register within that
// region. ok is false if addr is not the address of a register.
func (m *Map) Decode(addr uint32) (r Region, index int, ok bool) {
	l, ok := m.index[addr]
	return l.r, l.i, ok
}

// Shift returns the shift that converts a region offset to a bit offset: 3 for
// byte addresses, 5 for word addresses.
func (m *Map) Shift() uint {
	if m.cfg.ByteAlign {
		return 3
	}
	return 5
}

// Lanes returns the number of byte lanes of a register, that is the width of
// a write strobe.
func (m *Map) Lanes() int { return m.cfg.DataWidth / 8 }

// DataMask returns the mask of the low DataWidth bits.
func (m *Map) DataMask() uint64 {
	if m.cfg.DataWidth >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(m.cfg.DataWidth) - 1
}

// StrobeMask returns the mask of a full write strobe.
func (m *Map) StrobeMask() uint64 { return 1<<uint(m.Lanes()) - 1 }
