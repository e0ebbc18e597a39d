// errors.go -- error values for the mph package
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
	"errors"
	"fmt"
)

func errShortWrite(n int) error {
	return fmt.Errorf("mph: incomplete write; saw %d bytes", n)
}

var (
	// ErrBuildExhausted is returned when Build() could not find a peelable
	// hypergraph within the retry budget. Retrying with a different initial
	// seed (or a larger load-factor constant) may succeed.
	ErrBuildExhausted = errors.New("mph: exhausted retries building perfect hash")

	// ErrDuplicateKey is returned when the input key vector to Build() contains
	// two keys whose KeyBytes encoding is identical. The peeler cannot
	// distinguish duplicate hyperedges and silently corrupts if fed them, so
	// we reject them up front.
	ErrDuplicateKey = errors.New("mph: duplicate key in build set")

	// ErrDeserializeCorrupt is returned by UnmarshalBinary/UnmarshalText when
	// the magic, version, or declared field widths don't match what was
	// written, or the decoded state fails the §3 invariants.
	ErrDeserializeCorrupt = errors.New("mph: corrupt or incompatible serialized data")
)
