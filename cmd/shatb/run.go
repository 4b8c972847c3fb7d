// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/db47h/shatb"
	"github.com/db47h/shatb/bus"
	"github.com/db47h/shatb/driver"
	"github.com/db47h/shatb/hashmodel"
	"github.com/db47h/shatb/hwlib"
	"github.com/db47h/shatb/hwtest"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Message lengths of random test messages.
const (
	minMsgLen = 5
	maxMsgLen = 2000
)

// simTPC is the number of simulation steps per clock cycle of the simulated
// accelerator. Its parts are all clocked, so 4 is plenty.
const simTPC = 4

// a target is an accelerator with the driver that talks to it.
type target struct {
	d       *driver.Driver
	cycles  func() uint64
	dispose func()
}

func newTarget(kind string, cfg hwlib.AccelConfig, workers int) (*target, error) {
	amap, _, err := cfg.Map()
	if err != nil {
		return nil, err
	}
	l := cfg.Log
	if l == nil {
		l = log.NewEntry(log.StandardLogger())
	}
	switch kind {
	case "model":
		acc, err := bus.NewAccelerator(cfg.Hash)
		if err != nil {
			return nil, err
		}
		lb := bus.NewLoopback(bus.NewModel(amap, acc))
		return &target{
			d:       driver.New(lb, amap, driver.WithLogger(l)),
			cycles:  lb.Cycles,
			dispose: func() {},
		}, nil
	case "sim":
		accel, err := hwlib.Accelerator(cfg)
		if err != nil {
			return nil, err
		}
		m, err := hwtest.NewMaster(cfg, 0)
		if err != nil {
			return nil, err
		}
		c, err := shatb.NewCircuit(workers, simTPC, append(m.Parts(), accel(hwlib.BusConnections()))...)
		if err != nil {
			return nil, errors.Wrap(err, "accelerator circuit")
		}
		m.Bind(c)
		return &target{
			// a block takes at most one poll per round plus a few bus
			// transactions.
			d:       driver.New(m, amap, driver.WithLogger(l), driver.WithPollLimit(200)),
			cycles:  func() uint64 { return uint64(m.Cycles()) },
			dispose: c.Dispose,
		}, nil
	}
	return nil, errors.Errorf("unknown target %q", kind)
}

func randMessage(r *rand.Rand) []byte {
	p := make([]byte, minMsgLen+r.Intn(maxMsgLen-minMsgLen+1))
	for i := range p {
		p[i] = byte(' ' + r.Intn(95))
	}
	return p
}

// runMessages hashes n random messages through t and checks them against the
// reference model. It returns the number of mismatches.
func runMessages(t *target, hc hashmodel.Config, n int, r *rand.Rand, l *log.Entry) (int, error) {
	eng, err := hashmodel.New(hc)
	if err != nil {
		return 0, err
	}
	fails := 0
	for i := 0; i < n; i++ {
		msg := randMessage(r)
		exp := eng.Process(msg)
		got, err := t.d.Hash(eng.Blocks())
		if err != nil {
			return fails, errors.Wrapf(err, "message %d (%d bytes)", i, len(msg))
		}
		ml := l.WithFields(log.Fields{"message": i, "len": len(msg), "blocks": len(eng.Blocks())})
		if got.Hex() != exp {
			fails++
			ml.WithFields(log.Fields{"expected": exp, "got": got.Hex()}).Error("digest mismatch")
			continue
		}
		ml.WithField("digest", exp).Info("ok")
	}
	return fails, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Hash random messages through an accelerator and check the digests.",
	Long: `Generate random printable messages, hash them through the register driver
against the selected target and compare the digests with the reference model.

Targets:
  model  behavioral register model (one bus transaction per request)
  sim    clocked simulation of the accelerator`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hc, err := hashConfig(cmd)
		if err != nil {
			return err
		}
		seed := getInt64(cmd, "seed")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		l := log.WithFields(log.Fields{"alg": hc.Algorithm.String(), "target": getString(cmd, "target")})
		cfg := hwlib.AccelConfig{
			Hash:      hc,
			DataWidth: getInt(cmd, "data-width"),
			ByteAlign: getFlag(cmd, "byte-align"),
			Log:       l,
		}
		t, err := newTarget(getString(cmd, "target"), cfg, getInt(cmd, "workers"))
		if err != nil {
			return err
		}
		defer t.dispose()

		n := getInt(cmd, "iterations")
		start := time.Now()
		fails, err := runMessages(t, hc, n, rand.New(rand.NewSource(seed)), l)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d messages, %d mismatches, %d cycles in %v (seed %d)\n",
			n, fails, t.cycles(), time.Since(start), seed)
		if fails > 0 {
			return errors.Errorf("%d of %d digests mismatched (seed %d)", fails, n, seed)
		}
		return nil
	},
}

func init() {
	hashFlags(runCmd)
	runCmd.Flags().Int("data-width", 32, "register width in bits: 8, 16, 32 or 64")
	runCmd.Flags().Bool("byte-align", false, "byte addresses instead of 32 bits word addresses")
	runCmd.Flags().StringP("target", "t", "model", "accelerator target: model or sim")
	runCmd.Flags().IntP("iterations", "n", 10, "number of random messages")
	runCmd.Flags().Int64("seed", 0, "random seed (0 for a time based seed)")
	runCmd.Flags().Int("workers", 1, "simulation worker goroutines (sim target)")
	rootCmd.AddCommand(runCmd)
}
