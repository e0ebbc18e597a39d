// errors.go -- error values for the mphdb package
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mphdb

import (
	"errors"
	"fmt"
)

func errShortWrite(n int) error {
	return fmt.Errorf("mphdb: incomplete write; saw %d bytes", n)
}

var (
	// ErrFrozen is returned when attempting to add new records to an
	// already frozen DB. It is also returned when trying to freeze a DB
	// that's already frozen.
	ErrFrozen = errors.New("DB already frozen")

	// ErrValueTooLarge is returned if the value-length is larger than
	// 2^32-1 bytes.
	ErrValueTooLarge = errors.New("value is larger than 2^32-1 bytes")

	// ErrExists is returned if a duplicate key is added to the DB.
	ErrExists = errors.New("key exists in DB")

	// ErrNoKey is returned when a key cannot be found in the DB, or when
	// the fingerprint recorded at the key's minimal index doesn't match
	// the key being looked up (spec.md §7's "strict mode").
	ErrNoKey = errors.New("no such key")

	// ErrMPHFail is returned when Freeze() could not build a minimal
	// perfect hash over the accumulated keys.
	ErrMPHFail = errors.New("failed to build minimal perfect hash")
)
