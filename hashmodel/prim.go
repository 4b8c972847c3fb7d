// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hashmodel

import "math/bits"

// Word is the set of native word types the compression functions operate on.
type Word interface {
	~uint32 | ~uint64
}

// RotL32 rotates x left by n bits.
func RotL32(x uint32, n int) uint32 { return bits.RotateLeft32(x, n) }

// RotR32 rotates x right by n bits.
func RotR32(x uint32, n int) uint32 { return bits.RotateLeft32(x, -n) }

// RotL64 rotates x left by n bits.
func RotL64(x uint64, n int) uint64 { return bits.RotateLeft64(x, n) }

// RotR64 rotates x right by n bits.
func RotR64(x uint64, n int) uint64 { return bits.RotateLeft64(x, -n) }

// RotL rotates the low width bits of x left by n bits. Bits of x above width
// are ignored. This is the generic rotate of the prim_rotl hardware block,
// where width can be anything from 1 to 64.
func RotL(x uint64, n, width uint) uint64 {
	if width == 0 || width > 64 {
		panic("invalid rotation width")
	}
	m := Mask(width)
	x &= m
	n %= width
	if n == 0 {
		return x
	}
	return (x<<n | x>>(width-n)) & m
}

// Mask returns a mask of the low width bits.
func Mask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<width - 1
}

// Ch is the choice function: for each bit, x selects y (1) or z (0).
func Ch[T Word](x, y, z T) T { return x&y ^ ^x&z }

// Maj is the majority function.
func Maj[T Word](x, y, z T) T { return x&y ^ x&z ^ y&z }

// Parity is the SHA-1 parity function.
func Parity[T Word](x, y, z T) T { return x ^ y ^ z }
