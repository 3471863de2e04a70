// Package prng implements a fast-key-erasure random generator over the
// ChaCha20 block function.
//
// A Buffer holds a 256-bit key and a pool of keystream. Each cycle fills the
// pool from counters 0..N-1 under the current key, takes the first 32 bytes
// of the pool as the next key and zeroes them. The rest of the pool is served
// in 16-byte blocks; every served block is zeroed in place before the cursor
// moves past it. Capturing a Buffer's memory therefore reveals neither
// earlier output nor earlier keys.
//
// See https://blog.cr.yp.to/20170723-random.html.
package prng

import (
	"errors"
	"fmt"
	"io"

	"github.com/eykd/timeid-go/internal/chacha"
)

const (
	// BlockSize is the number of random bytes returned by Next.
	BlockSize = 16
	// KeySize is the size of the generator key in bytes.
	KeySize = chacha.KeySize

	// DefaultPoolBlocks is the default number of ChaCha20 blocks per cycle.
	DefaultPoolBlocks = 16
	// MaxPoolBlocks bounds the pool at 64 KiB of unconsumed keystream.
	MaxPoolBlocks = 1024
)

var (
	// ErrSeed is returned when key material cannot be read from the seed source.
	ErrSeed = errors.New("reading seed")
	// ErrPoolSize is returned for a pool size outside [1, MaxPoolBlocks].
	ErrPoolSize = errors.New("invalid pool size")
	// ErrNotSerializable is returned by the marshalling methods of Buffer.
	ErrNotSerializable = errors.New("prng: generator state is not serializable")
)

// Stats counts a Buffer's activity.
type Stats struct {
	Blocks  uint64 // blocks returned by Next
	Cycles  uint64 // pool refills
	Reseeds uint64 // successful reseeds
}

// Buffer is a fast-key-erasure generator. A Buffer is not safe for
// concurrent use and must not be copied.
type Buffer struct {
	_ noCopy

	key   [KeySize]byte
	pool  []byte
	off   int
	wiped bool
	stats Stats
}

// New creates a Buffer keyed with KeySize bytes read from seed. The pool holds
// poolBlocks ChaCha20 blocks.
func New(seed io.Reader, poolBlocks int) (*Buffer, error) {
	if err := checkPoolBlocks(poolBlocks); err != nil {
		return nil, err
	}
	var key [KeySize]byte
	if _, err := io.ReadFull(seed, key[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeed, err)
	}
	b := newBuffer(key, poolBlocks)
	clear(key[:])
	return b, nil
}

// NewWithKey creates a Buffer with a caller-supplied key. It exists for test
// vectors; production code should use New with a secure seed source.
func NewWithKey(key [KeySize]byte, poolBlocks int) (*Buffer, error) {
	if err := checkPoolBlocks(poolBlocks); err != nil {
		return nil, err
	}
	return newBuffer(key, poolBlocks), nil
}

func newBuffer(key [KeySize]byte, poolBlocks int) *Buffer {
	b := &Buffer{
		key:  key,
		pool: make([]byte, poolBlocks*chacha.BlockSize),
	}
	// An exhausted cursor makes the first Next run a cycle.
	b.off = len(b.pool)
	return b
}

func checkPoolBlocks(n int) error {
	if n < 1 || n > MaxPoolBlocks {
		return fmt.Errorf("%w: %d blocks (want 1..%d)", ErrPoolSize, n, MaxPoolBlocks)
	}
	return nil
}

// Next fills dst with the next unused block of keystream.
func (b *Buffer) Next(dst *[BlockSize]byte) {
	b.check()
	if b.off == len(b.pool) {
		b.cycle()
	}
	block := b.pool[b.off : b.off+BlockSize]
	copy(dst[:], block)
	clear(block)
	b.off += BlockSize
	b.stats.Blocks++
}

// cycle refills the pool under the current key and replaces the key with the
// first KeySize bytes of the new pool.
func (b *Buffer) cycle() {
	for i := 0; i < len(b.pool)/chacha.BlockSize; i++ {
		chacha.Block((*[chacha.BlockSize]byte)(b.pool[i*chacha.BlockSize:]), &b.key, uint32(i))
	}
	copy(b.key[:], b.pool[:KeySize])
	clear(b.pool[:KeySize])
	b.off = KeySize
	b.stats.Cycles++
}

// Reseed replaces the key with KeySize bytes read from seed and discards all
// unconsumed keystream. If seed fails, the Buffer is left unchanged.
func (b *Buffer) Reseed(seed io.Reader) error {
	b.check()
	var key [KeySize]byte
	if _, err := io.ReadFull(seed, key[:]); err != nil {
		clear(key[:])
		return fmt.Errorf("%w: %w", ErrSeed, err)
	}
	b.key = key
	clear(key[:])
	clear(b.pool)
	b.off = len(b.pool)
	b.stats.Reseeds++
	return nil
}

// Wipe zeroes the key and the pool. The Buffer cannot be used afterwards.
func (b *Buffer) Wipe() {
	clear(b.key[:])
	clear(b.pool)
	b.off = len(b.pool)
	b.wiped = true
}

// Stats returns the Buffer's counters.
func (b *Buffer) Stats() Stats {
	return b.stats
}

// PoolBlocks returns the number of ChaCha20 blocks per cycle.
func (b *Buffer) PoolBlocks() int {
	return len(b.pool) / chacha.BlockSize
}

// BlocksPerCycle returns how many blocks Next serves between rekeys.
func (b *Buffer) BlocksPerCycle() int {
	return (len(b.pool) - KeySize) / BlockSize
}

// check panics if the cursor is outside the output region or off the block
// grid. Continuing from such a state could replay keystream.
func (b *Buffer) check() {
	if b.wiped {
		panic("prng: use of wiped buffer")
	}
	if b.off < KeySize || b.off > len(b.pool) || (b.off-KeySize)%BlockSize != 0 {
		panic(fmt.Sprintf("prng: cursor %d outside pool of %d bytes", b.off, len(b.pool)))
	}
}

// String redacts the generator state.
func (b *Buffer) String() string {
	return fmt.Sprintf("prng.Buffer{pool: %d blocks, key: [redacted]}", b.PoolBlocks())
}

// GoString redacts the generator state from %#v.
func (b *Buffer) GoString() string {
	return b.String()
}

// MarshalBinary always fails: generator state must never be persisted.
func (b *Buffer) MarshalBinary() ([]byte, error) {
	return nil, ErrNotSerializable
}

// MarshalJSON always fails: generator state must never be persisted.
func (b *Buffer) MarshalJSON() ([]byte, error) {
	return nil, ErrNotSerializable
}

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
