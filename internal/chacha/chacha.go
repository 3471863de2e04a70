// Package chacha implements the ChaCha20 block function used as the
// keystream source for the fast-key-erasure generator.
//
// Only the block function is provided: a 256-bit key and a 32-bit block
// counter, with the 96-bit nonce fixed at zero, map to 64 bytes of
// keystream. The layout follows RFC 8439, so the output of Block for a given
// key and counter equals the corresponding 64-byte window of a standard
// ChaCha20 keystream with a zero nonce.
package chacha

import (
	"encoding/binary"
	"math/bits"
)

const (
	// KeySize is the size of a ChaCha20 key in bytes.
	KeySize = 32
	// BlockSize is the size of one block function output in bytes.
	BlockSize = 64

	// rounds is the number of double rounds (20 rounds total).
	rounds = 10
)

// "expand 32-byte k" as little-endian words.
const (
	sigma0 uint32 = 0x61707865
	sigma1 uint32 = 0x3320646e
	sigma2 uint32 = 0x79622d32
	sigma3 uint32 = 0x6b206574
)

// Block writes the ChaCha20 block for key and counter into out.
//
// Block has no data-dependent branches or memory accesses. It does not
// retain references to key or out.
func Block(out *[BlockSize]byte, key *[KeySize]byte, counter uint32) {
	var in [16]uint32
	in[0], in[1], in[2], in[3] = sigma0, sigma1, sigma2, sigma3
	for i := 0; i < 8; i++ {
		in[4+i] = binary.LittleEndian.Uint32(key[i*4:])
	}
	in[12] = counter
	// in[13..15] is the zero nonce.

	x := in
	for i := 0; i < rounds; i++ {
		// Column round.
		x[0], x[4], x[8], x[12] = quarterRound(x[0], x[4], x[8], x[12])
		x[1], x[5], x[9], x[13] = quarterRound(x[1], x[5], x[9], x[13])
		x[2], x[6], x[10], x[14] = quarterRound(x[2], x[6], x[10], x[14])
		x[3], x[7], x[11], x[15] = quarterRound(x[3], x[7], x[11], x[15])

		// Diagonal round.
		x[0], x[5], x[10], x[15] = quarterRound(x[0], x[5], x[10], x[15])
		x[1], x[6], x[11], x[12] = quarterRound(x[1], x[6], x[11], x[12])
		x[2], x[7], x[8], x[13] = quarterRound(x[2], x[7], x[8], x[13])
		x[3], x[4], x[9], x[14] = quarterRound(x[3], x[4], x[9], x[14])
	}

	for i := range x {
		binary.LittleEndian.PutUint32(out[i*4:], x[i]+in[i])
	}

	// Clear the key words from the stack copy.
	clear(in[:])
	clear(x[:])
}

func quarterRound(a, b, c, d uint32) (uint32, uint32, uint32, uint32) {
	a += b
	d = bits.RotateLeft32(d^a, 16)
	c += d
	b = bits.RotateLeft32(b^c, 12)
	a += b
	d = bits.RotateLeft32(d^a, 8)
	c += d
	b = bits.RotateLeft32(b^c, 7)
	return a, b, c, d
}
