// hash.go -- the three seedable hash functions h0/h1/h2 over KeyBytes
// (spec.md §4.2). Each build derives three independent sub-seeds from the
// build seed and hashes with a pinned little-endian encoding so that the
// same seed and key sequence produce the same slot assignments on any
// platform.
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
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// splitmix64-style constants used only to decorrelate the three sub-seeds
// derived from a single build seed; they carry no cryptographic intent.
const (
	subSeedConst0 uint64 = 0x9E3779B97F4A7C15
	subSeedConst1 uint64 = 0xBF58476D1CE4E5B9
	subSeedConst2 uint64 = 0x94D049BB133111EB
)

// mix is a fast 64-bit finalizer, borrowed from Zi Long Tan's superfast hash
// (same compression step the teacher's rhash used).
func mix(h uint64) uint64 {
	h ^= h >> 23
	h *= 0x2127599bf4325c37
	h ^= h >> 47
	return h
}

// deriveSeeds turns one build seed into three independent sub-seeds for
// h0, h1, h2.
func deriveSeeds(seed uint64) (s0, s1, s2 uint64) {
	s0 = mix(seed ^ subSeedConst0)
	s1 = mix(seed ^ subSeedConst1)
	s2 = mix(seed ^ subSeedConst2)
	return
}

// seededHash computes a 64-bit hash of kb, keyed by subseed. The sub-seed is
// folded in as an explicit little-endian prefix rather than passed as a
// numeric seed parameter, so the result is identical regardless of host
// endianness.
func seededHash(subseed uint64, kb []byte) uint64 {
	var sb [8]byte
	binary.LittleEndian.PutUint64(sb[:], subseed)

	d := xxhash.New()
	d.Write(sb[:])
	d.Write(kb)
	return d.Sum64()
}

// hashSlot computes h_part(key): a hash into the exclusive codomain
// [part*third, (part+1)*third) that h_part owns (spec.md §4.2, §4.3). third
// must be M/3 and non-zero.
func hashSlot(part int, subseed uint64, kb []byte, third uint64) uint32 {
	h := seededHash(subseed, kb)
	return uint32(h%third) + uint32(part)*uint32(third)
}
