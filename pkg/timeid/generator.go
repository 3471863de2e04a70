package timeid

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/eykd/timeid-go/internal/prng"
)

var (
	// ErrSeed is returned when the seed source cannot supply key material.
	ErrSeed = prng.ErrSeed
	// ErrNotSerializable is returned by the marshalling methods of Generator.
	ErrNotSerializable = errors.New("timeid: generator state is not serializable")
)

// DefaultPoolBlocks is the number of ChaCha20 blocks generated per rekey.
// Each cycle serves (64*n - 32) / 16 IDs.
const DefaultPoolBlocks = prng.DefaultPoolBlocks

// Clock supplies wall-clock time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the system's wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Stats counts a Generator's activity.
type Stats struct {
	Generated uint64 // IDs returned by Generate
	Cycles    uint64 // keystream pool refills (rekeys)
	Reseeds   uint64 // successful calls to Reseed
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source. The default is SystemClock.
func WithClock(c Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// WithSeed sets the source of key material used at construction and by
// Reseed. It must be cryptographically secure. The default is
// crypto/rand.Reader.
func WithSeed(r io.Reader) Option {
	return func(g *Generator) { g.seed = r }
}

// WithPoolBlocks sets the number of ChaCha20 blocks per rekey, trading
// throughput against the amount of unconsumed keystream held in memory.
func WithPoolBlocks(n int) Option {
	return func(g *Generator) { g.poolBlocks = n }
}

// WithLogger sets the logger used for administrative events. Generate never
// logs.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// Generator produces IDs. It is safe for concurrent use; calls are
// serialized by an internal mutex.
type Generator struct {
	mu         sync.Mutex
	clock      Clock
	seed       io.Reader
	poolBlocks int
	logger     *slog.Logger
	prng       *prng.Buffer
}

// New creates a Generator keyed from the seed source. It fails if the seed
// source cannot supply key material; no Generator is returned in that case.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		clock:      SystemClock,
		seed:       rand.Reader,
		poolBlocks: DefaultPoolBlocks,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}

	buf, err := prng.New(g.seed, g.poolBlocks)
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}
	g.prng = buf

	g.logger.Debug("generator ready",
		slog.Int("pool_blocks", buf.PoolBlocks()),
		slog.Int("ids_per_cycle", buf.BlocksPerCycle()))
	return g, nil
}

// Generate returns a new 27-character ID.
func (g *Generator) Generate() string {
	return g.Next().String()
}

// Next returns a new ID in decoded form.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ID{Timestamp: timestamp(g.clock.Now())}
	g.prng.Next(&id.Random)
	return id
}

// Reseed replaces the generator key with fresh material from the seed source
// and discards all unconsumed keystream. If the seed source fails, the
// Generator keeps its current key and stays usable.
func (g *Generator) Reseed() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.prng.Reseed(g.seed); err != nil {
		g.logger.Error("reseed failed", slog.Any("error", err))
		return fmt.Errorf("reseeding generator: %w", err)
	}
	g.logger.Info("generator reseeded", slog.Uint64("reseeds", g.prng.Stats().Reseeds))
	return nil
}

// Stats returns the Generator's counters.
func (g *Generator) Stats() Stats {
	g.mu.Lock()
	s := g.prng.Stats()
	g.mu.Unlock()
	return Stats{Generated: s.Blocks, Cycles: s.Cycles, Reseeds: s.Reseeds}
}

// Close erases the generator key and keystream. Using the Generator after
// Close panics.
func (g *Generator) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prng.Wipe()
	g.logger.Debug("generator closed")
}

// MarshalBinary always fails: generator state must never be persisted.
func (g *Generator) MarshalBinary() ([]byte, error) {
	return nil, ErrNotSerializable
}

// MarshalJSON always fails: generator state must never be persisted.
func (g *Generator) MarshalJSON() ([]byte, error) {
	return nil, ErrNotSerializable
}
