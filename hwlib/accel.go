// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"
	"strings"

	"github.com/db47h/shatb"
	"github.com/db47h/shatb/hashmodel"
	"github.com/db47h/shatb/regmap"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Bus pin names of the accelerator.
const (
	PinReqAddr   = "reqaddr"
	PinReqData   = "reqdata"
	PinReqValid  = "reqvalid"
	PinReqWrite  = "reqwrite"
	PinReqStrobe = "reqstrobe"
	PinRspReady  = "rspready"
	PinReqReady  = "reqready"
	PinRspValid  = "rspvalid"
	PinRspError  = "rsperror"
	PinRspData   = "rspdata"
)

// Pin names between the register interface and the hash core.
const (
	pBlock   = "block"
	pStart   = "start"
	pLast    = "last"
	pRstHash = "rsthash"
	pHold    = "hold"
	pValid   = "valid"
	pDigest  = "digest"
)

// AccelConfig configures the accelerator parts.
type AccelConfig struct {
	Hash      hashmodel.Config
	DataWidth int  // bus data width: 8, 16, 32 or 64
	ByteAlign bool // byte or 32 bits word addresses
	AddrWidth int  // 0 selects regmap.DefaultAddrWidth

	// OnRound, if not nil, is called by the hash core with the working
	// variables after a block is loaded (round -1) and after every round.
	// block counts the blocks processed since the last reset.
	OnRound func(block, round int, words []uint64)

	// Log receives a trace of the bus requests accepted by the register
	// interface. Defaults to the standard logrus logger.
	Log *log.Entry
}

// Map returns the register address map of the accelerator and the
// normalized hash configuration.
func (cfg *AccelConfig) Map() (*regmap.Map, hashmodel.Config, error) {
	core, err := hashmodel.NewCore(cfg.Hash)
	if err != nil {
		return nil, hashmodel.Config{}, err
	}
	hc := core.Config()
	m, err := regmap.New(regmap.Config{
		DataWidth:   cfg.DataWidth,
		ByteAlign:   cfg.ByteAlign,
		BlockWidth:  hc.Algorithm.BlockWidth(),
		DigestWidth: hc.DigestWidth,
		AddrWidth:   cfg.AddrWidth,
	})
	if err != nil {
		return nil, hashmodel.Config{}, err
	}
	return m, hc, nil
}

func (cfg *AccelConfig) logger() *log.Entry {
	if cfg.Log != nil {
		return cfg.Log
	}
	return log.NewEntry(log.StandardLogger())
}

// busIO returns the bus pin specs of the accelerator.
func busIO(m *regmap.Map) (in, out string) {
	mc := m.Config()
	in = PinReqAddr + "[" + strconv.Itoa(mc.AddrWidth) + "], " +
		PinReqData + "[" + strconv.Itoa(mc.DataWidth) + "], " +
		PinReqValid + ", " + PinReqWrite + ", " +
		PinReqStrobe + "[" + strconv.Itoa(m.Lanes()) + "], " +
		PinRspReady
	out = PinReqReady + ", " + PinRspValid + ", " + PinRspError + ", " +
		PinRspData + "[" + strconv.Itoa(mc.DataWidth) + "]"
	return in, out
}

// BusConnections returns a connection string that connects every bus pin of
// the accelerator to a wire of the same name.
func BusConnections() string {
	pins := []string{PinReqAddr, PinReqData, PinReqValid, PinReqWrite, PinReqStrobe,
		PinRspReady, PinReqReady, PinRspValid, PinRspError, PinRspData}
	for i, p := range pins {
		pins[i] = p + "=" + p
	}
	return strings.Join(pins, ", ")
}

// Accelerator returns a cycle-level model of a hash accelerator: a
// RegInterface and a HashCore packaged into a chip. Only the bus pins are
// visible from the outside.
//
//	Inputs: reqaddr[addrWidth], reqdata[dataWidth], reqvalid, reqwrite,
//	        reqstrobe[dataWidth/8], rspready
//	Outputs: reqready, rspvalid, rsperror, rspdata[dataWidth]
func Accelerator(cfg AccelConfig) (shatb.NewPartFn, error) {
	m, _, err := cfg.Map()
	if err != nil {
		return nil, errors.Wrap(err, "accelerator")
	}
	ri, err := RegInterface(cfg)
	if err != nil {
		return nil, err
	}
	core, err := HashCore(cfg)
	if err != nil {
		return nil, err
	}
	in, out := busIO(m)
	return shatb.Chip("SHA_ACCEL", in, out,
		ri(BusConnections()+", block=blk, start=start, last=last, rsthash=rst, hold=hold, valid=valid, digest=dgst"),
		core("block=blk, start=start, last=last, rsthash=rst, hold=hold, valid=valid, digest=dgst"),
	)
}
