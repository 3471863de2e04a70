// Package radix64 implements an order-preserving, URL-safe Radix-64 encoding.
//
// The alphabet is sorted in ASCII order, so for inputs of equal length the
// lexical order of the encoded strings equals the numeric order of the
// inputs. Input is consumed three bytes at a time and emitted as four
// symbols, most significant bits first. A trailing partial group is padded
// with zero bits and only the symbols that carry input bits are emitted;
// there are no padding characters.
package radix64

import (
	"errors"
	"strconv"
)

// Alphabet is the symbol table. Alphabet[0] sorts lowest.
const Alphabet = "$0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

var (
	// ErrInvalidCharacter is matched by CorruptInputError.
	ErrInvalidCharacter = errors.New("invalid radix-64 character")
	// ErrInvalidLength is returned for encoded lengths no input can produce.
	ErrInvalidLength = errors.New("invalid radix-64 length")
	// ErrNonCanonical is returned when the unused low bits of the final
	// symbol are not zero.
	ErrNonCanonical = errors.New("non-canonical radix-64 padding bits")
)

// CorruptInputError reports the offset of a byte outside the alphabet.
type CorruptInputError int64

func (e CorruptInputError) Error() string {
	return "illegal radix-64 data at input byte " + strconv.FormatInt(int64(e), 10)
}

// Is makes CorruptInputError match ErrInvalidCharacter.
func (e CorruptInputError) Is(target error) bool {
	return target == ErrInvalidCharacter
}

var decodeMap = func() [256]int8 {
	var m [256]int8
	for i := range m {
		m[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		m[Alphabet[i]] = int8(i)
	}
	return m
}()

// Index returns the value of symbol c, or -1 if c is not in the alphabet.
func Index(c byte) int {
	return int(decodeMap[c])
}

// EncodedLen returns the length of the encoding of n bytes.
func EncodedLen(n int) int {
	return (n*8 + 5) / 6
}

// DecodedLen returns the number of bytes encoded by n symbols.
func DecodedLen(n int) int {
	return n * 6 / 8
}

// Encode writes EncodedLen(len(src)) symbols to dst.
func Encode(dst, src []byte) {
	di, si := 0, 0
	n := (len(src) / 3) * 3
	for si < n {
		v := uint(src[si])<<16 | uint(src[si+1])<<8 | uint(src[si+2])
		dst[di+0] = Alphabet[v>>18&0x3f]
		dst[di+1] = Alphabet[v>>12&0x3f]
		dst[di+2] = Alphabet[v>>6&0x3f]
		dst[di+3] = Alphabet[v&0x3f]
		si += 3
		di += 4
	}

	switch len(src) - si {
	case 1:
		v := uint(src[si]) << 16
		dst[di+0] = Alphabet[v>>18&0x3f]
		dst[di+1] = Alphabet[v>>12&0x3f]
	case 2:
		v := uint(src[si])<<16 | uint(src[si+1])<<8
		dst[di+0] = Alphabet[v>>18&0x3f]
		dst[di+1] = Alphabet[v>>12&0x3f]
		dst[di+2] = Alphabet[v>>6&0x3f]
	}
}

// EncodeToString returns the encoding of src.
func EncodeToString(src []byte) string {
	buf := make([]byte, EncodedLen(len(src)))
	Encode(buf, src)
	return string(buf)
}

// Decode writes DecodedLen(len(src)) bytes to dst and returns the number of
// bytes written. Symbols outside the alphabet are rejected before dst is
// modified.
func Decode(dst, src []byte) (int, error) {
	if len(src)%4 == 1 {
		return 0, ErrInvalidLength
	}
	for i, c := range src {
		if decodeMap[c] < 0 {
			return 0, CorruptInputError(i)
		}
	}

	di, si := 0, 0
	n := (len(src) / 4) * 4
	for si < n {
		v := uint(decodeMap[src[si]])<<18 |
			uint(decodeMap[src[si+1]])<<12 |
			uint(decodeMap[src[si+2]])<<6 |
			uint(decodeMap[src[si+3]])
		dst[di+0] = byte(v >> 16)
		dst[di+1] = byte(v >> 8)
		dst[di+2] = byte(v)
		si += 4
		di += 3
	}

	switch len(src) - si {
	case 2:
		v := uint(decodeMap[src[si]])<<18 | uint(decodeMap[src[si+1]])<<12
		if v&0xffff != 0 {
			return di, ErrNonCanonical
		}
		dst[di] = byte(v >> 16)
		di++
	case 3:
		v := uint(decodeMap[src[si]])<<18 | uint(decodeMap[src[si+1]])<<12 | uint(decodeMap[src[si+2]])<<6
		if v&0xff != 0 {
			return di, ErrNonCanonical
		}
		dst[di] = byte(v >> 16)
		dst[di+1] = byte(v >> 8)
		di += 2
	}
	return di, nil
}

// DecodeString returns the bytes encoded by s.
func DecodeString(s string) ([]byte, error) {
	buf := make([]byte, DecodedLen(len(s)))
	n, err := Decode(buf, []byte(s))
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}
