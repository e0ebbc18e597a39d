// keybytes.go -- deterministic byte encoders for the key domains the core
// accepts. This is the KeyBytes adapter from spec.md §4.1/§9: the core never
// sees a caller's key type directly, only the byte sequence an adapter
// deterministically derives from it.
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mph

import "encoding/binary"

// KeyBytes is the capability every key must provide: a deterministic, total
// mapping to a byte sequence. Implementations must be injective with respect
// to equality on the caller's key domain - two unequal keys must never
// encode to the same bytes.
type KeyBytes interface {
	ToBytes() []byte
}

// BytesKey adapts a raw byte string.
type BytesKey []byte

// ToBytes implements KeyBytes.
func (b BytesKey) ToBytes() []byte { return []byte(b) }

// StringKey adapts a Go string.
type StringKey string

// ToBytes implements KeyBytes.
func (s StringKey) ToBytes() []byte { return []byte(s) }

// Integer is the set of fixed-width integer kinds IntKey accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IntKey adapts any fixed-width integer kind using its little-endian byte
// form (spec.md §4.1). Negative signed values round-trip correctly because
// the Go conversion to uint64 preserves the two's-complement bit pattern.
type IntKey[T Integer] struct {
	V T
}

// ToBytes implements KeyBytes.
func (v IntKey[T]) ToBytes() []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v.V))
	return b[:]
}

// Int wraps a fixed-width integer as a KeyBytes.
func Int[T Integer](v T) KeyBytes {
	return IntKey[T]{V: v}
}

// Bytes wraps a raw byte string as a KeyBytes.
func Bytes(b []byte) KeyBytes {
	return BytesKey(b)
}

// Str wraps a Go string as a KeyBytes.
func Str(s string) KeyBytes {
	return StringKey(s)
}

// PairKey composes two KeyBytes into one, length-prefixing each component so
// that distinct (a,b) pairs can never collide with each other's
// concatenation (spec.md §4.1's unambiguity requirement).
type PairKey struct {
	A, B KeyBytes
}

// ToBytes implements KeyBytes.
func (p PairKey) ToBytes() []byte {
	ab := p.A.ToBytes()
	bb := p.B.ToBytes()

	buf := make([]byte, 0, 16+len(ab)+len(bb))
	buf = appendLenPrefixed(buf, ab)
	buf = appendLenPrefixed(buf, bb)
	return buf
}

// Pair builds a KeyBytes out of two component KeyBytes.
func Pair(a, b KeyBytes) KeyBytes {
	return PairKey{A: a, B: b}
}

// SliceKey composes a homogeneous sequence of KeyBytes, recursively
// length-prefixing the element count and each element's bytes.
type SliceKey []KeyBytes

// ToBytes implements KeyBytes.
func (s SliceKey) ToBytes() []byte {
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(len(s)))

	buf := make([]byte, 0, 8+8*len(s))
	buf = append(buf, hdr[:]...)
	for _, e := range s {
		buf = appendLenPrefixed(buf, e.ToBytes())
	}
	return buf
}

// Slice builds a KeyBytes out of an ordered sequence of component KeyBytes.
func Slice(elems ...KeyBytes) KeyBytes {
	return SliceKey(elems)
}

func appendLenPrefixed(buf, b []byte) []byte {
	var l [8]byte
	binary.LittleEndian.PutUint64(l[:], uint64(len(b)))
	buf = append(buf, l[:]...)
	buf = append(buf, b...)
	return buf
}
