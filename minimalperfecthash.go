// minimalperfecthash.go -- the MinimalPerfectHash facade (spec.md §4.7):
// wraps PerfectHash plus the occupancy bitmap and rank dictionary needed to
// fold a PH slot in [0, M) down to a minimal index in [0, N).
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

// MinimalPerfectHash maps a fixed key set S bijectively onto [0, N).
// Like PerfectHash, it is immutable and safe for concurrent read-only use
// once Build succeeds.
type MinimalPerfectHash struct {
	ph   *PerfectHash
	occ  *bitVector
	rank *rankDict
}

// NewMinimalPerfectHash returns an empty, unbuilt MinimalPerfectHash.
func NewMinimalPerfectHash() *MinimalPerfectHash {
	return &MinimalPerfectHash{ph: NewPerfectHash()}
}

// Build consumes keys and builds the inner PerfectHash, then derives the
// occupancy bitmap and rank dictionary needed by GetHash. See
// PerfectHash.Build for the error contract.
func (mp *MinimalPerfectHash) Build(keys []KeyBytes, seed uint64) error {
	if err := mp.ph.Build(keys, seed); err != nil {
		mp.occ, mp.rank = nil, nil
		return err
	}
	mp.deriveAuxiliaries()
	return nil
}

// deriveAuxiliaries computes b (the occupancy bitmap) and the rank index
// over it, per spec.md §4.7 steps 1-2.
func (mp *MinimalPerfectHash) deriveAuxiliaries() {
	m := mp.ph.m
	occ := newBitVector(m)
	for i := uint64(0); i < m; i++ {
		if mp.ph.g.get(i) != gUnused {
			occ.Set(i)
		}
	}
	mp.occ = occ
	mp.rank = buildRankDict(occ, m)
}

// GetHash returns the minimal index assigned to key, in [0, GetRange()).
// As with PerfectHash, the result is meaningful only for keys that were
// present in the build set.
func (mp *MinimalPerfectHash) GetHash(key KeyBytes) uint32 {
	if mp.rank == nil {
		return 0
	}
	slot := mp.ph.GetHash(key)
	return uint32(mp.rank.rank1(uint64(slot)))
}

// GetRange returns N: the number of keys this instance was built from, and
// the exclusive upper bound on values from GetHash.
func (mp *MinimalPerfectHash) GetRange() uint32 {
	return uint32(mp.ph.n)
}

// Len returns N, identically to GetRange but typed as an int for callers
// that want a slice-length-shaped value.
func (mp *MinimalPerfectHash) Len() int {
	return mp.ph.Len()
}

// DumpMeta writes a short human-readable summary of the built instance to w.
func (mp *MinimalPerfectHash) DumpMeta(w io.Writer) {
	fmt.Fprintf(w, "MinimalPerfectHash: n=%d m=%d seed=%#x\n", mp.ph.n, mp.ph.m, mp.ph.seed)
}
