package timeid

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/eykd/timeid-go/internal/radix64"
)

const (
	// EpochOffset is the Unix time, in seconds, of timestamp zero
	// (2014-05-13T16:53:20Z). Timestamps run out in 2150.
	EpochOffset = 1_400_000_000

	// Length is the length of an encoded ID.
	Length = 27

	// RandomSize is the number of random bytes in an ID.
	RandomSize = 16

	recordSize = 4 + RandomSize
)

// Inclusive bounds for range scans over stored IDs.
const (
	MinValue = "$$$$$$$$$$$$$$$$$$$$$$$$$$$"
	MaxValue = "zzzzzzzzzzzzzzzzzzzzzzzzzzz"
)

var (
	// ErrInvalidLength is returned for strings that are not Length bytes long.
	ErrInvalidLength = errors.New("invalid id length")
	// ErrInvalidCharacter is returned for strings containing a byte outside
	// the ID alphabet.
	ErrInvalidCharacter = radix64.ErrInvalidCharacter
	// ErrNonCanonical is returned by Parse when the padding bits of the last
	// symbol are set, which no generated ID does.
	ErrNonCanonical = radix64.ErrNonCanonical
)

// InvalidIDError describes a string that is not a valid ID.
type InvalidIDError struct {
	ID     string
	Offset int // offending byte for ErrInvalidCharacter, otherwise -1
	Err    error
}

// Error returns the formatted error string with context.
func (e *InvalidIDError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid id %q: %v at offset %d", e.ID, e.Err, e.Offset)
	}
	return fmt.Sprintf("invalid id %q: %v", e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *InvalidIDError) Unwrap() error {
	return e.Err
}

// ID is a decoded identifier.
type ID struct {
	// Timestamp counts seconds since EpochOffset.
	Timestamp uint32
	Random    [RandomSize]byte
}

// Time returns the ID's creation time in UTC.
func (id ID) Time() time.Time {
	return timeOf(id.Timestamp)
}

// String returns the 27-character encoding of id.
func (id ID) String() string {
	var rec [recordSize]byte
	binary.BigEndian.PutUint32(rec[:4], id.Timestamp)
	copy(rec[4:], id.Random[:])
	var out [Length]byte
	radix64.Encode(out[:], rec[:])
	return string(out[:])
}

// Compare orders IDs the same way their encodings sort.
func (id ID) Compare(other ID) int {
	switch {
	case id.Timestamp < other.Timestamp:
		return -1
	case id.Timestamp > other.Timestamp:
		return 1
	}
	return bytes.Compare(id.Random[:], other.Random[:])
}

// Parse decodes a generated ID.
func Parse(s string) (ID, error) {
	if err := validate(s); err != nil {
		return ID{}, err
	}
	var rec [recordSize]byte
	if _, err := radix64.Decode(rec[:], []byte(s)); err != nil {
		return ID{}, &InvalidIDError{ID: s, Offset: -1, Err: err}
	}
	var id ID
	id.Timestamp = binary.BigEndian.Uint32(rec[:4])
	copy(id.Random[:], rec[4:])
	return id, nil
}

// CreatedAt returns the time, at one-second resolution, at which id was
// generated. Only the timestamp symbols are decoded, so range bounds such as
// MaxValue are accepted.
func CreatedAt(id string) (time.Time, error) {
	if err := validate(id); err != nil {
		return time.Time{}, err
	}
	// The first 8 symbols hold 6 whole bytes, the first 4 of which are the
	// timestamp.
	var head [6]byte
	if _, err := radix64.Decode(head[:], []byte(id[:8])); err != nil {
		return time.Time{}, &InvalidIDError{ID: id, Offset: -1, Err: err}
	}
	return timeOf(binary.BigEndian.Uint32(head[:4])), nil
}

// LowerBound returns the smallest ID that can be generated during the second
// containing t.
func LowerBound(t time.Time) string {
	return ID{Timestamp: timestamp(t)}.String()
}

// UpperBound returns the largest ID that can be generated during the second
// containing t.
func UpperBound(t time.Time) string {
	id := ID{Timestamp: timestamp(t)}
	for i := range id.Random {
		id.Random[i] = 0xff
	}
	return id.String()
}

func validate(s string) error {
	if len(s) != Length {
		return &InvalidIDError{ID: s, Offset: -1, Err: ErrInvalidLength}
	}
	for i := 0; i < len(s); i++ {
		if radix64.Index(s[i]) < 0 {
			return &InvalidIDError{ID: s, Offset: i, Err: ErrInvalidCharacter}
		}
	}
	return nil
}

// timestamp converts t to seconds since EpochOffset, clamped to the 32-bit
// range so that encoded order never wraps.
func timestamp(t time.Time) uint32 {
	s := t.Unix() - EpochOffset
	switch {
	case s < 0:
		return 0
	case s > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(s)
}

func timeOf(ts uint32) time.Time {
	return time.Unix(int64(ts)+EpochOffset, 0).UTC()
}
