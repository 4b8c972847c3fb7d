package hashmodel_test

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/db47h/shatb/hashmodel"
	"github.com/pkg/errors"
)

const (
	msgABC  = "abc"
	msg448  = "abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq"
	msg896  = "abcdefghbcdefghicdefghijdefghijkefghijklfghijklmghijklmnhijklmnoijklmnopjklmnopqklmnopqrlmnopqrsmnopqrstnopqrstu"
	msgNone = ""
)

var vectors = []struct {
	alg    hashmodel.Algorithm
	width  int
	msg    string
	digest string
}{
	{hashmodel.SHA1, 160, msgABC, "a9993e364706816aba3e25717850c26c9cd0d89d"},
	{hashmodel.SHA1, 160, msg448, "84983e441c3bd26ebaae4aa1f95129e5e54670f1"},
	{hashmodel.SHA1, 160, msgNone, "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
	{hashmodel.SHA256, 256, msgABC, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	{hashmodel.SHA256, 256, msg448, "248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1"},
	{hashmodel.SHA256, 224, msgABC, "23097d223405d8228642a477bda255b32aadbce4bda0b3f7e36c9da7"},
	{hashmodel.SHA256, 224, msg448, "75388b16512776cc5dba5da1fd890150b0c6455cb4f58b1952522525"},
	{hashmodel.SHA512, 512, msgABC, "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
	{hashmodel.SHA512, 512, msg896, "8e959b75dae313da8cf4f72814fc143f8f7779c6eb9f7fa17299aeadb6889018501d289e4900f7e4331b99dec4b5433ac7d329eeb6dd26545e96e55b874be909"},
	{hashmodel.SHA512, 384, msgABC, "cb00753f45a35e8bb5a03d699ac65007272c32ab0eded1631a8b605a43ff5bed8086072ba1e7cc2358baeca134c825a7"},
	{hashmodel.SHA512, 384, msg896, "09330c33f71147e83d192fc782cd1b4753111b173b3b05d22fa08086e3b0f712fcc7c71a557e2db966c3e9fa91746039"},
	{hashmodel.SHA512, 256, msgABC, "53048e2681941ef99b2e29b76b4c7dabe4c2d0c634fc6d46e0e2f13107e7af23"},
	{hashmodel.SHA512, 256, msg896, "3928e184fb8690f840da3988121d31be65cb9d3ef83ee6146feac861e19b563a"},
	{hashmodel.SHA512, 224, msgABC, "4634270f707b6a54daae7530460842e20e37ed265ceee9a43e8924aa"},
	{hashmodel.SHA512, 224, msg896, "23fec5bb94d60b23308192640b0c453335d664734fe40e7268674af9"},
}

func TestEngine_vectors(t *testing.T) {
	for _, v := range vectors {
		e, err := hashmodel.New(hashmodel.Config{Algorithm: v.alg, DigestWidth: v.width})
		if err != nil {
			t.Fatal(err)
		}
		if got := e.Process([]byte(v.msg)); got != v.digest {
			t.Errorf("%s/%d(%q) = %s, expected %s", v.alg, v.width, v.msg, got, v.digest)
		}
		if got := e.Digest(); got != v.digest {
			t.Errorf("%s/%d(%q): Digest() = %s after Process", v.alg, v.width, v.msg, got)
		}
	}
}

func TestEngine_intermediate(t *testing.T) {
	td := []struct {
		alg   hashmodel.Algorithm
		msg   string
		inter []string
	}{
		{hashmodel.SHA1, msg448, []string{
			"f4286818c37b27ae0408f581846771484a566572",
			"84983e441c3bd26ebaae4aa1f95129e5e54670f1",
		}},
		{hashmodel.SHA256, msg448, []string{
			"85e655d6417a17953363376a624cde5c76e09589cac5f811cc4b32c1f20e533a",
			"248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1",
		}},
		{hashmodel.SHA512, msg896, []string{
			"4319017a2b706e69cd4b05938bae5e890186bf199f30aa956ef8b71d2f810585d787d6764b20bda2a26014470973692000ec057f37d14b8e06add5b50e671c72",
			"8e959b75dae313da8cf4f72814fc143f8f7779c6eb9f7fa17299aeadb6889018501d289e4900f7e4331b99dec4b5433ac7d329eeb6dd26545e96e55b874be909",
		}},
	}
	for _, d := range td {
		t.Run(d.alg.String(), func(t *testing.T) {
			e, err := hashmodel.New(hashmodel.Config{Algorithm: d.alg})
			if err != nil {
				t.Fatal(err)
			}
			e.Process([]byte(d.msg))
			inter := e.IntermediateDigests()
			if len(inter) != len(d.inter) {
				t.Fatalf("got %d intermediate digests, expected %d", len(inter), len(d.inter))
			}
			for i := range inter {
				if inter[i] != d.inter[i] {
					t.Errorf("H(%d) = %s, expected %s", i, inter[i], d.inter[i])
				}
			}
			if n := len(e.Blocks()); n != 2 {
				t.Errorf("got %d blocks, expected 2", n)
			}
		})
	}
}

func TestEngine_stdlib(t *testing.T) {
	sums := []struct {
		cfg hashmodel.Config
		sum func([]byte) []byte
	}{
		{hashmodel.Config{Algorithm: hashmodel.SHA1}, func(b []byte) []byte { s := sha1.Sum(b); return s[:] }},
		{hashmodel.Config{Algorithm: hashmodel.SHA256}, func(b []byte) []byte { s := sha256.Sum256(b); return s[:] }},
		{hashmodel.Config{Algorithm: hashmodel.SHA256, DigestWidth: 224}, func(b []byte) []byte { s := sha256.Sum224(b); return s[:] }},
		{hashmodel.Config{Algorithm: hashmodel.SHA512}, func(b []byte) []byte { s := sha512.Sum512(b); return s[:] }},
		{hashmodel.Config{Algorithm: hashmodel.SHA512, DigestWidth: 384}, func(b []byte) []byte { s := sha512.Sum384(b); return s[:] }},
		{hashmodel.Config{Algorithm: hashmodel.SHA512, DigestWidth: 256}, func(b []byte) []byte { s := sha512.Sum512_256(b); return s[:] }},
		{hashmodel.Config{Algorithm: hashmodel.SHA512, DigestWidth: 224}, func(b []byte) []byte { s := sha512.Sum512_224(b); return s[:] }},
	}
	rng := rand.New(rand.NewSource(1))
	for _, s := range sums {
		e, err := hashmodel.New(s.cfg)
		if err != nil {
			t.Fatal(err)
		}
		// cover every padding boundary around one and two blocks
		for n := 0; n < 300; n++ {
			msg := make([]byte, n)
			rng.Read(msg)
			exp := hex.EncodeToString(s.sum(msg))
			if got := e.Process(msg); got != exp {
				t.Fatalf("%s/%d: len %d: got %s, expected %s", s.cfg.Algorithm, s.cfg.DigestWidth, n, got, exp)
			}
		}
	}
}

func TestEngine_roundComputations(t *testing.T) {
	e, err := hashmodel.New(hashmodel.Config{Algorithm: hashmodel.SHA256})
	if err != nil {
		t.Fatal(err)
	}
	e.Process([]byte(msgABC))

	var states []hashmodel.RoundState
	for _, r := range e.RoundComputations() {
		states = append(states, r)
	}
	if len(states) != 65 {
		t.Fatalf("got %d round states, expected 65", len(states))
	}
	td := []struct {
		idx int
		exp string
	}{
		{0, "6a09e667 bb67ae85 3c6ef372 a54ff53a 510e527f 9b05688c 1f83d9ab 5be0cd19"},
		{1, "5d6aebcd 6a09e667 bb67ae85 3c6ef372 fa2a4622 510e527f 9b05688c 1f83d9ab"},
		{64, "506e3058 d39a2165 04d24d6c b85e2ce9 5ef50f24 fb121210 948d25b6 961f4894"},
	}
	for _, d := range td {
		if got := states[d.idx].String(); got != d.exp {
			t.Errorf("round state %d = %q, expected %q", d.idx, got, d.exp)
		}
	}
	if states[0].Round != -1 || states[1].Round != 0 || states[64].Round != 63 {
		t.Errorf("bad round numbering: %d, %d, %d", states[0].Round, states[1].Round, states[64].Round)
	}

	// restartable
	n := 0
	for i, r := range e.RoundComputations() {
		if r.String() != states[i].String() {
			t.Fatalf("second iteration differs at %d", i)
		}
		n++
	}
	if n != len(states) {
		t.Fatalf("second iteration yielded %d states, expected %d", n, len(states))
	}
	// early break
	n = 0
	for range e.RoundComputations() {
		n++
		if n == 3 {
			break
		}
	}
}

func TestEngine_roundComputationsMultiBlock(t *testing.T) {
	e, err := hashmodel.New(hashmodel.Config{Algorithm: hashmodel.SHA512, DigestWidth: 384})
	if err != nil {
		t.Fatal(err)
	}
	e.Process([]byte(msg896))
	var last hashmodel.RoundState
	n := 0
	for _, r := range e.RoundComputations() {
		if len(r.Words) != 8 {
			t.Fatalf("got %d words, expected 8", len(r.Words))
		}
		if len(r.String()) != 8*16+7 {
			t.Fatalf("bad state string %q", r.String())
		}
		last = r
		n++
	}
	if n != 2*81 {
		t.Fatalf("got %d states, expected %d", n, 2*81)
	}
	if last.Block != 1 || last.Round != 79 {
		t.Fatalf("last state is block %d round %d", last.Block, last.Round)
	}
}

func TestNew_unsupported(t *testing.T) {
	td := []hashmodel.Config{
		{Algorithm: hashmodel.SHA1, DigestWidth: 256},
		{Algorithm: hashmodel.SHA256, DigestWidth: 384},
		{Algorithm: hashmodel.SHA256, DigestWidth: 160},
		{Algorithm: hashmodel.SHA512, DigestWidth: 160},
		{Algorithm: hashmodel.SHA512, DigestWidth: 100},
	}
	for _, cfg := range td {
		_, err := hashmodel.New(cfg)
		if !errors.Is(err, hashmodel.ErrUnsupportedDigestWidth) {
			t.Errorf("%s/%d: got error %v, expected ErrUnsupportedDigestWidth", cfg.Algorithm, cfg.DigestWidth, err)
		}
	}
	if _, err := hashmodel.New(hashmodel.Config{Algorithm: 42}); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestPad(t *testing.T) {
	td := []struct {
		alg  hashmodel.Algorithm
		n    int
		size int
	}{
		{hashmodel.SHA1, 0, 64},
		{hashmodel.SHA1, 55, 64},
		{hashmodel.SHA1, 56, 128},
		{hashmodel.SHA256, 64, 128},
		{hashmodel.SHA512, 111, 128},
		{hashmodel.SHA512, 112, 256},
	}
	for _, d := range td {
		p := hashmodel.Pad(d.alg, make([]byte, d.n))
		if len(p) != d.size {
			t.Errorf("%s: len(Pad(%d bytes)) = %d, expected %d", d.alg, d.n, len(p), d.size)
			continue
		}
		if p[d.n] != 0x80 {
			t.Errorf("%s: missing 0x80 marker after %d bytes", d.alg, d.n)
		}
		bits := uint64(d.n) * 8
		for i := 0; i < 8; i++ {
			if p[len(p)-1-i] != byte(bits>>(8*i)) {
				t.Errorf("%s: bad length field in %x", d.alg, p[len(p)-8:])
				break
			}
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, a := range []hashmodel.Algorithm{hashmodel.SHA1, hashmodel.SHA256, hashmodel.SHA512} {
		got, err := hashmodel.ParseAlgorithm(" " + a.String() + " ")
		if err != nil || got != a {
			t.Errorf("ParseAlgorithm(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := hashmodel.ParseAlgorithm("md5"); err == nil {
		t.Error("ParseAlgorithm(md5) succeeded")
	}
}

func TestCore_step(t *testing.T) {
	k, err := hashmodel.NewCore(hashmodel.Config{Algorithm: hashmodel.SHA1})
	if err != nil {
		t.Fatal(err)
	}
	if k.Step() {
		t.Fatal("Step with no block loaded reported done")
	}
	if err := k.Load(make([]byte, 10)); err == nil {
		t.Fatal("Load accepted a short block")
	}
	blk := hashmodel.Pad(hashmodel.SHA1, []byte(msgABC))
	if err := k.Load(blk); err != nil {
		t.Fatal(err)
	}
	cycles := 0
	for k.Busy() {
		k.Step()
		cycles++
	}
	if cycles != k.Rounds() {
		t.Fatalf("block took %d steps, expected %d", cycles, k.Rounds())
	}
	if got := hex.EncodeToString(k.Sum()); got != vectors[0].digest {
		t.Fatalf("got %s, expected %s", got, vectors[0].digest)
	}
	k.Reset()
	if got := hex.EncodeToString(k.Sum()); got != "67452301efcdab8998badcfe10325476c3d2e1f0" {
		t.Fatalf("Reset did not restore the IV: %s", got)
	}
}
