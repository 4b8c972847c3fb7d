package driver_test

import (
	"math/rand"
	"testing"

	"github.com/db47h/shatb/bitvec"
	"github.com/db47h/shatb/bus"
	"github.com/db47h/shatb/driver"
	"github.com/db47h/shatb/hashmodel"
	"github.com/db47h/shatb/regmap"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// recorder wraps a master and checks that requests are strictly sequential.
type recorder struct {
	t           *testing.T
	m           bus.Master
	reqs        []bus.Request
	outstanding bool
}

func (r *recorder) AssertRequest(req bus.Request) error {
	require.False(r.t, r.outstanding, "request asserted before the previous response was consumed")
	r.outstanding = true
	r.reqs = append(r.reqs, req)
	return r.m.AssertRequest(req)
}

func (r *recorder) AwaitResponse() (bus.Response, error) {
	r.outstanding = false
	return r.m.AwaitResponse()
}

type target struct {
	amap  *regmap.Map
	model *bus.Model
	rec   *recorder
}

func newTarget(t *testing.T, cfg regmap.Config, hc hashmodel.Config) *target {
	t.Helper()
	amap, err := regmap.New(cfg)
	require.NoError(t, err)
	acc, err := bus.NewAccelerator(hc)
	require.NoError(t, err)
	m := bus.NewModel(amap, acc)
	return &target{amap, m, &recorder{t: t, m: bus.NewLoopback(m)}}
}

func TestDriver_block(t *testing.T) {
	for _, dw := range []int{8, 16, 32, 64} {
		for _, ba := range []bool{true, false} {
			if !ba && dw < 32 {
				continue
			}
			tg := newTarget(t, regmap.Config{DataWidth: dw, ByteAlign: ba, BlockWidth: 512, DigestWidth: 256},
				hashmodel.Config{Algorithm: hashmodel.SHA256})
			d := driver.New(tg.rec, tg.amap)
			p := make([]byte, 64)
			rand.Read(p)
			blk := bitvec.FromBytes(p)
			require.NoError(t, d.WriteBlock(blk))

			addrs := tg.amap.Addresses(regmap.Block)
			require.Len(t, tg.rec.reqs, len(addrs))
			for i, r := range tg.rec.reqs {
				require.True(t, r.Write)
				require.Equal(t, addrs[i], r.Addr, "chunks in increasing address order")
				require.Equal(t, blk.Field(i*dw, dw), r.Data)
				require.Equal(t, tg.amap.StrobeMask(), r.Strobe)
			}

			got, err := d.ReadBlock()
			require.NoError(t, err)
			require.Equal(t, blk.Hex(), got.Hex())
			require.Equal(t, blk.Hex(), tg.model.Block().Hex())
		}
	}
}

func TestDriver_control(t *testing.T) {
	tg := newTarget(t, regmap.Config{DataWidth: 32, ByteAlign: true, BlockWidth: 512, DigestWidth: 160},
		hashmodel.Config{Algorithm: hashmodel.SHA1})
	d := driver.New(tg.rec, tg.amap)

	td := []struct {
		name string
		op   func() error
		exp  uint64
	}{
		{"enable", func() error { return d.Enable(false) }, 0x01},
		{"enable_last", func() error { return d.Enable(true) }, 0x21},
		{"disable", d.Disable, 0x00},
		{"reset", d.Reset, 0x02},
	}
	for _, x := range td {
		t.Run(x.name, func(t *testing.T) {
			tg.rec.reqs = nil
			require.NoError(t, x.op())
			require.Len(t, tg.rec.reqs, 1)
			require.Equal(t, uint32(0), tg.rec.reqs[0].Addr)
			require.Equal(t, x.exp, tg.rec.reqs[0].Data)
		})
	}

	// hold after a non last block, valid after the last one.
	e, err := hashmodel.New(hashmodel.Config{Algorithm: hashmodel.SHA1})
	require.NoError(t, err)
	e.Process([]byte("abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq"))
	blocks := e.Blocks()
	require.NoError(t, d.WriteBlock(bitvec.FromBytes(blocks[0])))
	require.NoError(t, d.Enable(false))
	hold, err := d.ReadHold()
	require.NoError(t, err)
	require.True(t, hold)
	valid, err := d.ReadValid()
	require.NoError(t, err)
	require.False(t, valid)
	dg, err := d.ReadDigest()
	require.NoError(t, err)
	require.Equal(t, e.IntermediateDigests()[0], dg.Hex())

	require.NoError(t, d.WriteBlock(bitvec.FromBytes(blocks[1])))
	require.NoError(t, d.Enable(true))
	hold, err = d.ReadHold()
	require.NoError(t, err)
	require.False(t, hold)
	valid, err = d.ReadValid()
	require.NoError(t, err)
	require.True(t, valid)
	dg, err = d.ReadDigest()
	require.NoError(t, err)
	require.Equal(t, e.Digest(), dg.Hex())

	require.NoError(t, d.Reset())
	v, err := d.ReadControl()
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestDriver_hash(t *testing.T) {
	td := []struct {
		alg   hashmodel.Algorithm
		width int
		bw    int
	}{
		{hashmodel.SHA1, 160, 512},
		{hashmodel.SHA256, 224, 512},
		{hashmodel.SHA256, 256, 512},
		{hashmodel.SHA512, 224, 1024},
		{hashmodel.SHA512, 256, 1024},
		{hashmodel.SHA512, 384, 1024},
		{hashmodel.SHA512, 512, 1024},
	}
	rng := rand.New(rand.NewSource(11))
	for _, x := range td {
		for _, l := range []struct {
			dw int
			ba bool
		}{{8, true}, {16, true}, {32, false}, {64, true}, {64, false}} {
			hc := hashmodel.Config{Algorithm: x.alg, DigestWidth: x.width}
			tg := newTarget(t, regmap.Config{DataWidth: l.dw, ByteAlign: l.ba, BlockWidth: x.bw, DigestWidth: x.width}, hc)
			d := driver.New(tg.rec, tg.amap, driver.WithPollLimit(4))
			e, err := hashmodel.New(hc)
			require.NoError(t, err)

			msg := make([]byte, 5+rng.Intn(300))
			for i := range msg {
				msg[i] = byte(' ' + rng.Intn(95))
			}
			exp := e.Process(msg)
			got, err := d.Hash(e.Blocks())
			require.NoError(t, err)
			require.Equal(t, exp, got.Hex(), "%s/%d dw %d byteAlign %v", x.alg, x.width, l.dw, l.ba)
		}
	}
}

type stuck struct{}

func (stuck) Status() (bool, bool)                     { return false, false }
func (stuck) Digest() bitvec.Vector                    { return bitvec.New(256) }
func (stuck) Control(bus.Events, bitvec.Vector) error { return nil }

func TestDriver_pollLimit(t *testing.T) {
	amap, err := regmap.New(regmap.Config{DataWidth: 32, ByteAlign: true, BlockWidth: 512, DigestWidth: 256})
	require.NoError(t, err)
	hooks := 0
	d := driver.New(bus.NewLoopback(bus.NewModel(amap, stuck{})), amap,
		driver.WithPollLimit(10),
		driver.WithPollHook(func() { hooks++ }))
	_, err = d.Hash([][]byte{make([]byte, 64)})
	require.True(t, errors.Is(err, driver.ErrPollLimit))
	require.Equal(t, 9, hooks)

	_, err = d.Hash(nil)
	require.Error(t, err)
	require.Error(t, d.WriteBlock(bitvec.New(1024)))
}

func TestDriver_decodeError(t *testing.T) {
	// the driver believes in a wider digest than the device implements.
	devMap, err := regmap.New(regmap.Config{DataWidth: 32, ByteAlign: true, BlockWidth: 512, DigestWidth: 256})
	require.NoError(t, err)
	drvMap, err := regmap.New(regmap.Config{DataWidth: 32, ByteAlign: true, BlockWidth: 512, DigestWidth: 384})
	require.NoError(t, err)
	d := driver.New(bus.NewLoopback(bus.NewModel(devMap, nil)), drvMap)
	_, err = d.ReadDigest()
	require.Error(t, err)
	var ade *bus.AddressDecodeError
	require.True(t, errors.As(err, &ade))
	require.Equal(t, uint32(0x220), ade.Addr)
	require.Contains(t, err.Error(), "read_digest")
}

func TestDriver_logging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	tg := newTarget(t, regmap.Config{DataWidth: 64, ByteAlign: true, BlockWidth: 512, DigestWidth: 256},
		hashmodel.Config{Algorithm: hashmodel.SHA256})
	d := driver.New(tg.rec, tg.amap, driver.WithLogger(logrus.NewEntry(logger)))
	require.NoError(t, d.Enable(true))
	e := hook.LastEntry()
	require.NotNil(t, e)
	require.Equal(t, logrus.DebugLevel, e.Level)
	require.Equal(t, "enable", e.Data["op"])
	require.Equal(t, uint64(0x21), e.Data["data"])
}
