// rand.go -- utilities that generate random values
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
	"crypto/rand"
	"encoding/binary"
	"io"
)

func rand64() uint64 {
	var b [8]byte

	_, err := io.ReadFull(rand.Reader, b[:])
	if err != nil {
		panic("can't read crypto/rand")
	}

	return binary.BigEndian.Uint64(b[:])
}

// NewSeed returns a fresh, unpredictable 64-bit seed suitable for Build().
// The core never generates a seed on its own - per spec.md §9's redesign
// note, callers own reproducibility by supplying (and recording) the seed
// they used. NewSeed is offered purely as a convenience for callers who
// don't care about reproducibility.
func NewSeed() uint64 {
	return rand64()
}
