package chacha_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20"

	"github.com/eykd/timeid-go/internal/chacha"
)

// keystream returns the reference ChaCha20 keystream block for key and
// counter with a zero nonce.
func keystream(t *testing.T, key [chacha.KeySize]byte, counter uint32) []byte {
	t.Helper()
	c, err := chacha20.NewUnauthenticatedCipher(key[:], make([]byte, chacha20.NonceSize))
	require.NoError(t, err)
	c.SetCounter(counter)
	out := make([]byte, chacha.BlockSize)
	c.XORKeyStream(out, make([]byte, chacha.BlockSize))
	return out
}

func TestBlock_RFC8439Vectors(t *testing.T) {
	tests := []struct {
		name    string
		counter uint32
		want    string
	}{
		{
			name:    "zero key, counter 0",
			counter: 0,
			want: "76b8e0ada0f13d90405d6ae55386bd28bdd219b8a08ded1aa836efcc8b770dc7" +
				"da41597c5157488d7724e03fb8d84a376a43b8f41518a11cc387b669b2ee6586",
		},
		{
			name:    "zero key, counter 1",
			counter: 1,
			want: "9f07e7be5551387a98ba977c732d080dcb0f29a048e3656912c6533e32ee7aed" +
				"29b721769ce64e43d57133b074d839d531ed1f28510afb45ace10a1f4b794d6f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var key [chacha.KeySize]byte
			var out [chacha.BlockSize]byte
			chacha.Block(&out, &key, tt.counter)
			assert.Equal(t, tt.want, hex.EncodeToString(out[:]))
		})
	}
}

func TestBlock_MatchesReferenceKeystream(t *testing.T) {
	keys := map[string][chacha.KeySize]byte{
		"zero":       {},
		"sequential": sequentialKey(),
		"all ones":   onesKey(),
	}
	counters := []uint32{0, 1, 2, 7, 1 << 16, 0xfffffffe}

	for name, key := range keys {
		for _, counter := range counters {
			var out [chacha.BlockSize]byte
			chacha.Block(&out, &key, counter)
			assert.Equal(t, keystream(t, key, counter), out[:], "key %s, counter %d", name, counter)
		}
	}
}

func TestBlock_Avalanche(t *testing.T) {
	key := sequentialKey()
	var base, flippedKey, nextCounter [chacha.BlockSize]byte
	chacha.Block(&base, &key, 0)

	flipped := key
	flipped[31] ^= 0x01
	chacha.Block(&flippedKey, &flipped, 0)
	chacha.Block(&nextCounter, &key, 1)

	assert.Greater(t, hamming(base[:], flippedKey[:]), 192, "one key bit should flip roughly half the output")
	assert.Greater(t, hamming(base[:], nextCounter[:]), 192, "one counter bit should flip roughly half the output")
}

func TestBlock_DoesNotModifyKey(t *testing.T) {
	key := sequentialKey()
	before := key
	var out [chacha.BlockSize]byte
	chacha.Block(&out, &key, 3)
	assert.Equal(t, before, key)
}

func TestBlock_OverwritesOutput(t *testing.T) {
	var key [chacha.KeySize]byte
	var clean, dirty [chacha.BlockSize]byte
	copy(dirty[:], bytes.Repeat([]byte{0xaa}, chacha.BlockSize))

	chacha.Block(&clean, &key, 0)
	chacha.Block(&dirty, &key, 0)
	assert.Equal(t, clean, dirty)
}

func sequentialKey() [chacha.KeySize]byte {
	var k [chacha.KeySize]byte
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

func onesKey() [chacha.KeySize]byte {
	var k [chacha.KeySize]byte
	for i := range k {
		k[i] = 0xff
	}
	return k
}

func hamming(a, b []byte) int {
	n := 0
	for i := range a {
		x := a[i] ^ b[i]
		for x != 0 {
			n += int(x & 1)
			x >>= 1
		}
	}
	return n
}
