// garray.go -- the bit-packed per-slot assignment table (spec.md §4.4).
// Each of the M slots holds a 2-bit value in {0,1,2,3}: 0/1/2 select
// h0/h1/h2 at query time, 3 marks the slot as unused by the peeler.
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mph

// gUnused is the sentinel stored for a slot the peeler never claimed.
const gUnused uint8 = 3

// gArray is the packed g-array: 2 bits per slot, little-endian within each
// byte, ⌈M/4⌉ bytes total.
type gArray struct {
	b []byte
	m uint64
}

// newGArray allocates a g-array for m slots, all initialized to "unused".
func newGArray(m uint64) *gArray {
	n := (m + 3) / 4
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xff // four 0b11 (unused) values per byte
	}
	return &gArray{b: b, m: m}
}

// get returns the 2-bit value stored at slot i.
func (g *gArray) get(i uint64) uint8 {
	byteIdx := i / 4
	shift := uint((i % 4) * 2)
	return (g.b[byteIdx] >> shift) & 0x3
}

// set stores a 2-bit value at slot i.
func (g *gArray) set(i uint64, v uint8) {
	byteIdx := i / 4
	shift := uint((i % 4) * 2)
	g.b[byteIdx] = (g.b[byteIdx] &^ (0x3 << shift)) | ((v & 0x3) << shift)
}
