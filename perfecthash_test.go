package mph

import "testing"

func intKeys(n int) []KeyBytes {
	keys := make([]KeyBytes, n)
	for i := 0; i < n; i++ {
		keys[i] = Int[int](i)
	}
	return keys
}

func stringKeys(ss []string) []KeyBytes {
	keys := make([]KeyBytes, len(ss))
	for i, s := range ss {
		keys[i] = Str(s)
	}
	return keys
}

func TestPerfectHashEmpty(t *testing.T) {
	p := NewPerfectHash()
	if err := p.Build(nil, 0); err != nil {
		t.Fatalf("Build(nil): %v", err)
	}
	if p.Len() != 0 || p.GetRange() != 0 {
		t.Fatalf("empty build: Len()=%d GetRange()=%d, want 0, 0", p.Len(), p.GetRange())
	}
}

func TestPerfectHashSingleKey(t *testing.T) {
	p := NewPerfectHash()
	keys := intKeys(1)
	if err := p.Build(keys, 7); err != nil {
		t.Fatalf("Build: %v", err)
	}
	h := p.GetHash(keys[0])
	if h >= p.GetRange() {
		t.Fatalf("GetHash = %d, out of range [0, %d)", h, p.GetRange())
	}
}

func TestPerfectHashIsInjective(t *testing.T) {
	assert := newAsserter(t)

	sizes := []int{1, 2, 3, 5, 7, 16, 31, 63, 100, 997}
	for _, n := range sizes {
		keys := intKeys(n)
		p := NewPerfectHash()
		err := p.Build(keys, uint64(n)*0x9E3779B9)
		assert(err == nil, "n=%d: Build failed: %v", n, err)

		seen := make(map[uint32]bool, n)
		for _, k := range keys {
			h := p.GetHash(k)
			assert(h < p.GetRange(), "n=%d: GetHash out of range: %d >= %d", n, h, p.GetRange())
			assert(!seen[h], "n=%d: collision at hash %d", n, h)
			seen[h] = true
		}
	}
}

func TestPerfectHashStringKeysInjective(t *testing.T) {
	assert := newAsserter(t)

	words := []string{
		"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
		"hotel", "india", "juliet", "kilo", "lima", "mike", "november",
		"oscar", "papa", "quebec", "romeo", "sierra", "tango", "uniform",
		"victor", "whiskey", "xray", "yankee", "zulu",
	}
	keys := stringKeys(words)

	p := NewPerfectHash()
	err := p.Build(keys, 42)
	assert(err == nil, "Build: %v", err)

	seen := make(map[uint32]bool, len(keys))
	for _, k := range keys {
		h := p.GetHash(k)
		assert(!seen[h], "collision at hash %d", h)
		seen[h] = true
	}
}

func TestPerfectHashDuplicateKeyRejected(t *testing.T) {
	keys := []KeyBytes{Str("dup"), Str("dup")}
	p := NewPerfectHash()
	err := p.Build(keys, 1)
	if err != ErrDuplicateKey {
		t.Fatalf("Build with duplicate keys: got %v, want ErrDuplicateKey", err)
	}
}

func TestPerfectHashDeterministicForSameSeed(t *testing.T) {
	keys := intKeys(200)

	p1 := NewPerfectHash()
	if err := p1.Build(keys, 555); err != nil {
		t.Fatalf("Build p1: %v", err)
	}
	p2 := NewPerfectHash()
	if err := p2.Build(keys, 555); err != nil {
		t.Fatalf("Build p2: %v", err)
	}

	if p1.GetRange() != p2.GetRange() {
		t.Fatalf("same seed produced different M: %d vs %d", p1.GetRange(), p2.GetRange())
	}
	for _, k := range keys {
		if p1.GetHash(k) != p2.GetHash(k) {
			t.Fatalf("same seed produced different hash for key %v", k)
		}
	}
}

// TestPerfectHashPairKeys builds over the 500 integer pairs (a, 500-a) for
// a in [0, 500), each composed with Pair.
func TestPerfectHashPairKeys(t *testing.T) {
	assert := newAsserter(t)

	var keys []KeyBytes
	for a := 0; a < 500; a++ {
		b := 500 - a
		keys = append(keys, Pair(Int[int](a), Int[int](b)))
	}

	p := NewPerfectHash()
	err := p.Build(keys, 3)
	assert(err == nil, "Build: %v", err)

	seen := make(map[uint32]bool, len(keys))
	for _, k := range keys {
		h := p.GetHash(k)
		assert(h < p.GetRange(), "out of range: %d >= %d", h, p.GetRange())
		assert(!seen[h], "collision at hash %d", h)
		seen[h] = true
	}
}
