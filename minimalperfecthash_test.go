package mph

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/opencoff/go-fasthash"
)

func TestMinimalPerfectHashEmpty(t *testing.T) {
	mp := NewMinimalPerfectHash()
	if err := mp.Build(nil, 0); err != nil {
		t.Fatalf("Build(nil): %v", err)
	}
	if mp.Len() != 0 || mp.GetRange() != 0 {
		t.Fatalf("empty build: Len()=%d GetRange()=%d, want 0, 0", mp.Len(), mp.GetRange())
	}
}

func TestMinimalPerfectHashIsBijective(t *testing.T) {
	assert := newAsserter(t)

	for _, n := range []int{0, 1, 2, 3, 5, 8, 13, 50, 100} {
		keys := intKeys(n)
		mp := NewMinimalPerfectHash()
		err := mp.Build(keys, uint64(n)+1)
		assert(err == nil, "n=%d: Build failed: %v", n, err)
		assert(int(mp.GetRange()) == n, "n=%d: GetRange()=%d", n, mp.GetRange())

		seen := make([]bool, n)
		for _, k := range keys {
			h := mp.GetHash(k)
			assert(int(h) < n, "n=%d: GetHash out of range: %d", n, h)
			assert(!seen[h], "n=%d: collision at minimal index %d", n, h)
			seen[h] = true
		}
		for i, s := range seen {
			assert(s, "n=%d: index %d never produced", n, i)
		}
	}
}

func TestMinimalPerfectHashSizeSweep(t *testing.T) {
	assert := newAsserter(t)

	for n := 0; n <= 100; n++ {
		keys := intKeys(n)
		mp := NewMinimalPerfectHash()
		err := mp.Build(keys, uint64(n)*31+17)
		assert(err == nil, "n=%d: Build failed: %v", n, err)

		seen := make([]bool, n)
		for _, k := range keys {
			h := mp.GetHash(k)
			assert(int(h) < n, "n=%d: out of range %d", n, h)
			assert(!seen[h], "n=%d: duplicate index %d", n, h)
			seen[h] = true
		}
	}
}

func TestMinimalPerfectHashPermutationOfIntRange(t *testing.T) {
	assert := newAsserter(t)

	const n = 1000
	keys := intKeys(n)
	mp := NewMinimalPerfectHash()
	err := mp.Build(keys, 0xdeadbeef)
	assert(err == nil, "Build: %v", err)

	perm := make([]int, n)
	for i, k := range keys {
		perm[i] = int(mp.GetHash(k))
	}

	seen := make([]bool, n)
	for _, p := range perm {
		assert(!seen[p], "index %d produced twice", p)
		seen[p] = true
	}
}

func TestMinimalPerfectHashStringPermutation(t *testing.T) {
	assert := newAsserter(t)

	words := make([]string, 0, 500)
	for i := 0; i < 500; i++ {
		words = append(words, randomishWord(i))
	}
	keys := stringKeys(words)

	mp := NewMinimalPerfectHash()
	err := mp.Build(keys, 0xc0ffee)
	assert(err == nil, "Build: %v", err)

	seen := make([]bool, len(keys))
	for _, k := range keys {
		h := mp.GetHash(k)
		assert(int(h) < len(keys), "out of range: %d", h)
		assert(!seen[h], "collision at %d", h)
		seen[h] = true
	}
}

// randomishWord deterministically derives a distinct short string from i
// using fasthash, so the string-keyed tests don't depend on math/rand.
func randomishWord(i int) string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(i))
	h := fasthash.Hash64(0x9e3779b9, b[:])
	return fmt.Sprintf("%x", h)
}

func TestMinimalPerfectHashLargeKeySet(t *testing.T) {
	assert := newAsserter(t)

	const n = 50000
	keys := intKeys(n)
	mp := NewMinimalPerfectHash()
	err := mp.Build(keys, 0x1234567890abcdef)
	assert(err == nil, "Build: %v", err)
	assert(int(mp.GetRange()) == n, "GetRange()=%d, want %d", mp.GetRange(), n)

	seen := make([]bool, n)
	for _, k := range keys {
		h := mp.GetHash(k)
		assert(int(h) < n, "out of range: %d", h)
		assert(!seen[h], "collision at %d", h)
		seen[h] = true
	}
}
