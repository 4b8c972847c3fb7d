// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hashmodel provides bit exact software models of the SHA-1, SHA-2/256
// and SHA-2/512 compression functions.
//
// The models are used as the reference for accelerators under test: besides the
// final digest, they expose the padded blocks fed to the hardware and the
// working registers after every round so that a device can be checked cycle by
// cycle.
package hashmodel

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnsupportedDigestWidth is returned when a Config asks for a digest width
// the selected algorithm does not define.
var ErrUnsupportedDigestWidth = errors.New("unsupported digest width")

// Algorithm selects one of the compression functions.
type Algorithm int

// Supported algorithms.
const (
	SHA1 Algorithm = iota
	SHA256
	SHA512
)

var algNames = [...]string{SHA1: "sha1", SHA256: "sha256", SHA512: "sha512"}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algNames) {
		return "Algorithm(" + strconv.Itoa(int(a)) + ")"
	}
	return algNames[a]
}

// ParseAlgorithm returns the Algorithm named s ("sha1", "sha256" or "sha512",
// case insensitive).
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range algNames {
		if n == s {
			return Algorithm(i), nil
		}
	}
	return 0, errors.Errorf("unknown algorithm %q", s)
}

// Widths returns the digest widths supported by a. The first entry is the
// full width.
func (a Algorithm) Widths() []int {
	switch a {
	case SHA1:
		return []int{160}
	case SHA256:
		return []int{256, 224}
	case SHA512:
		return []int{512, 384, 256, 224}
	}
	return nil
}

// BlockWidth returns the block size in bits.
func (a Algorithm) BlockWidth() int {
	if a == SHA512 {
		return 1024
	}
	return 512
}

// Config selects an algorithm and the width of the digest it produces.
type Config struct {
	Algorithm Algorithm
	// DigestWidth in bits. 0 selects the full width of the algorithm.
	DigestWidth int
}

func (cfg Config) normalize() (Config, compressor, error) {
	c := variant(cfg.Algorithm)
	if c == nil {
		return cfg, nil, errors.Errorf("unknown algorithm %d", int(cfg.Algorithm))
	}
	if cfg.DigestWidth == 0 {
		cfg.DigestWidth = cfg.Algorithm.Widths()[0]
	}
	if c.iv(cfg.DigestWidth) == nil {
		return cfg, nil, errors.Wrapf(ErrUnsupportedDigestWidth, "%s: %d bits", cfg.Algorithm, cfg.DigestWidth)
	}
	return cfg, c, nil
}
