// perfecthash.go -- the PerfectHash facade (spec.md §4.6): build + query for
// the non-minimal variant, whose output range is M (not N).
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mph

import (
	"fmt"
	"io"
)

// PerfectHash maps a fixed key set S injectively into [0, GetRange()).
// A zero-value PerfectHash is empty (N=0) until Build succeeds; it is then
// immutable and safe for concurrent read-only use.
type PerfectHash struct {
	n    uint64
	m    uint64
	seed uint64
	g    *gArray
}

// NewPerfectHash returns an empty, unbuilt PerfectHash.
func NewPerfectHash() *PerfectHash {
	return &PerfectHash{}
}

// Build consumes keys and attempts to construct a perfect hash, retrying
// with seeds derived from 'seed' up to an internal attempt cap. It returns
// ErrDuplicateKey if two keys encode to identical bytes, or
// ErrBuildExhausted if every attempt failed to produce a peelable
// hypergraph. On success the instance is frozen; on failure it is left
// empty.
func (p *PerfectHash) Build(keys []KeyBytes, seed uint64) error {
	return p.build(keys, seed, defaultMaxAttempts)
}

func (p *PerfectHash) build(keys []KeyBytes, seed uint64, maxAttempts int) error {
	n := uint64(len(keys))
	if n == 0 {
		p.n, p.m, p.seed, p.g = 0, 0, seed, newGArray(0)
		return nil
	}

	if err := checkDuplicates(keys); err != nil {
		*p = PerfectHash{}
		return err
	}

	m := tableSize(n)
	s := seed
	for attempt := 0; attempt < maxAttempts; attempt++ {
		g, ok := peelOnce(keys, m, s)
		if ok {
			p.n, p.m, p.seed, p.g = n, m, s, g
			return nil
		}
		s = mix(s + 1)
	}

	*p = PerfectHash{}
	return ErrBuildExhausted
}

// checkDuplicates returns ErrDuplicateKey if any two keys in 'keys' encode
// to the same bytes.
func checkDuplicates(keys []KeyBytes) error {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		kb := string(k.ToBytes())
		if _, ok := seen[kb]; ok {
			return ErrDuplicateKey
		}
		seen[kb] = struct{}{}
	}
	return nil
}

// GetHash returns the slot assigned to key, in [0, GetRange()). The result
// is meaningful only for keys that were present in the build set; behavior
// on any other key is undefined (spec.md §1, §7).
func (p *PerfectHash) GetHash(key KeyBytes) uint32 {
	if p.m == 0 {
		return 0
	}

	kb := key.ToBytes()
	third := p.m / 3
	s0, s1, s2 := deriveSeeds(p.seed)

	u0 := hashSlot(0, s0, kb, third)
	u1 := hashSlot(1, s1, kb, third)
	u2 := hashSlot(2, s2, kb, third)

	g0 := p.g.get(uint64(u0))
	g1 := p.g.get(uint64(u1))
	g2 := p.g.get(uint64(u2))

	switch (int(g0) + int(g1) + int(g2)) % 3 {
	case 0:
		return u0
	case 1:
		return u1
	default:
		return u2
	}
}

// GetRange returns M: the exclusive upper bound on values from GetHash.
func (p *PerfectHash) GetRange() uint32 {
	return uint32(p.m)
}

// Len returns N: the number of keys this instance was built from.
func (p *PerfectHash) Len() int {
	return int(p.n)
}

// DumpMeta writes a short human-readable summary of the built instance to w.
func (p *PerfectHash) DumpMeta(w io.Writer) {
	fmt.Fprintf(w, "PerfectHash: n=%d m=%d seed=%#x\n", p.n, p.m, p.seed)
}
