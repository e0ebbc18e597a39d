package mph

import (
	"bytes"
	"testing"
)

func TestIntKeyRoundtripsDistinct(t *testing.T) {
	a := Int[int32](1)
	b := Int[int32](2)
	if bytes.Equal(a.ToBytes(), b.ToBytes()) {
		t.Fatalf("distinct ints encoded identically")
	}
}

func TestIntKeyNegativeSharesBitPatternWithUnsigned(t *testing.T) {
	a := Int[int64](-1)
	b := Int[uint64](0xffffffffffffffff)
	if !bytes.Equal(a.ToBytes(), b.ToBytes()) {
		t.Fatalf("expected -1 (int64) and maxuint64 to share a bit pattern")
	}
}

func TestStrAndBytesAgree(t *testing.T) {
	s := Str("hello")
	b := Bytes([]byte("hello"))
	if !bytes.Equal(s.ToBytes(), b.ToBytes()) {
		t.Fatalf("Str and Bytes of the same content should encode identically")
	}
}

func TestPairKeyUnambiguous(t *testing.T) {
	// ("ab", "c") must not collide with ("a", "bc") even though the raw
	// concatenation is identical.
	p1 := Pair(Str("ab"), Str("c"))
	p2 := Pair(Str("a"), Str("bc"))
	if bytes.Equal(p1.ToBytes(), p2.ToBytes()) {
		t.Fatalf("PairKey must be unambiguous across split points")
	}
}

func TestSliceKeyLengthPrefixed(t *testing.T) {
	s1 := Slice(Str("a"), Str("bc"))
	s2 := Slice(Str("ab"), Str("c"))
	if bytes.Equal(s1.ToBytes(), s2.ToBytes()) {
		t.Fatalf("SliceKey must be unambiguous across split points")
	}

	empty := Slice()
	if len(empty.ToBytes()) != 8 {
		t.Fatalf("empty SliceKey should encode as just the 8-byte length prefix")
	}
}
