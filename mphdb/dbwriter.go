// dbwriter.go -- constant, read-only key/value database built atop a
// MinimalPerfectHash.
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
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"

	mph "github.com/opencoff/go-mph"
)

// Most data is serialized as big-endian integers. The exceptions are the
// offset and value-length tables, which are mmap'd into the process and
// written little-endian so they can be reinterpreted in place on (by far
// the most common) little-endian hosts; on the rest, DBWriter and DBReader
// byte-swap each entry on the fly. The marshaled MinimalPerfectHash uses
// its own little-endian layout.

// DBWriter builds a read-only constant database keyed by an arbitrary
// mph.KeyBytes domain, using MinimalPerfectHash for O(1) lookups. Keys and
// values are arbitrary byte sequences. The DB metadata is protected by a
// strong checksum (SHA512-256) and each stored value by a distinct
// siphash-2-4. Once all Add calls are complete, Freeze writes the DB to
// disk.
//
// We don't checksum the entire file with SHA512-256, since that would mean
// reading a potentially large file back in NewDBReader. Using a per-record
// siphash instead means NewDBReader only has to verify the (small) metadata
// strongly, and verifies individual records opportunistically as they are
// read.
//
// On-disk layout:
//   - 64-byte header, big-endian:
//     magic [4]byte "MPDB", flags uint32 (0), salt [16]byte, nkeys uint64,
//     offtbl uint64 (file offset of the offset table)
//   - Contiguous records, one per key: cksum uint64 (siphash of offset+value,
//     big-endian) followed by the value bytes
//   - Padding to the next page boundary
//   - Offset table: nkeys entries, little-endian, two uint64 words each:
//     file offset of the value, and an xxhash64 fingerprint of the key's
//     bytes (spec.md §7's "strict mode": cheap confirmation that the key
//     landed at its expected minimal index, without retaining the key
//     itself)
//   - Value-length table: nkeys uint32 entries, little-endian
//   - Marshaled MinimalPerfectHash (MinimalPerfectHash.MarshalBinary)
//   - 32 bytes of SHA512-256 over the header, offset table, value-length
//     table and marshaled hash
type DBWriter struct {
	fd *os.File

	keys []mph.KeyBytes
	vals [][]byte

	// detects duplicate keys, keyed by the key's encoded bytes
	keymap map[string]struct{}

	salt []byte // siphash key

	off uint64 // running write offset within fd

	fntmp  string
	fn     string
	frozen bool
}

// NewDBWriter prepares file 'fn' to hold a constant DB. Once Freeze()
// succeeds, readers open it with NewDBReader.
func NewDBWriter(fn string) (*DBWriter, error) {
	tmp := fmt.Sprintf("%s.tmp.%d", fn, rand32())
	fd, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, err
	}

	w := &DBWriter{
		fd:     fd,
		keymap: make(map[string]struct{}),
		salt:   randbytes(16),
		off:    64,
		fn:     fn,
		fntmp:  tmp,
	}

	var z [64]byte
	if _, err := writeAll(fd, z[:]); err != nil {
		return nil, err
	}

	return w, nil
}

// Len returns the number of distinct keys added so far.
func (w *DBWriter) Len() int {
	return len(w.keys)
}

// Add adds a single key/value pair. Adding the same key twice returns
// ErrExists.
func (w *DBWriter) Add(key mph.KeyBytes, val []byte) error {
	if w.frozen {
		return ErrFrozen
	}
	return w.addRecord(key, val)
}

// AddKeyVals adds a series of matched key/value pairs; if the slices are of
// unequal length, only the smaller of the two lengths is used. Returns the
// number of records added.
func (w *DBWriter) AddKeyVals(keys []mph.KeyBytes, vals [][]byte) (int, error) {
	if w.frozen {
		return 0, ErrFrozen
	}

	n := len(keys)
	if len(vals) < n {
		n = len(vals)
	}

	var z int
	for i := 0; i < n; i++ {
		if err := w.addRecord(keys[i], vals[i]); err != nil {
			return z, err
		}
		z++
	}
	return z, nil
}

func (w *DBWriter) addRecord(key mph.KeyBytes, val []byte) error {
	if uint64(len(val)) > uint64(1<<32)-1 {
		return ErrValueTooLarge
	}

	kb := key.ToBytes()
	ks := string(kb)
	if _, ok := w.keymap[ks]; ok {
		return ErrExists
	}

	off := w.off
	if len(val) > 0 {
		if err := w.writeRecord(val, off); err != nil {
			return err
		}
	}

	w.keymap[ks] = struct{}{}
	w.keys = append(w.keys, key)
	w.vals = append(w.vals, val)

	return nil
}

func (w *DBWriter) writeRecord(val []byte, off uint64) error {
	var o [8]byte
	var c [8]byte

	be := binary.BigEndian
	be.PutUint64(o[:], off)

	h := siphash.New(w.salt)
	h.Write(o[:])
	h.Write(val)
	be.PutUint64(c[:], h.Sum64())

	if _, err := writeAll(w.fd, c[:]); err != nil {
		return err
	}
	if _, err := writeAll(w.fd, val); err != nil {
		return err
	}

	w.off += uint64(len(val)) + 8
	return nil
}

// Freeze builds the minimal perfect hash over the accumulated keys using a
// freshly generated seed, writes the DB, and closes it. Use FreezeWithSeed
// for a reproducible build.
func (w *DBWriter) Freeze() error {
	return w.FreezeWithSeed(mph.NewSeed())
}

// FreezeWithSeed is like Freeze but lets the caller pin the MPH build seed,
// for byte-for-byte reproducible output across runs (spec.md §9).
func (w *DBWriter) FreezeWithSeed(seed uint64) (err error) {
	defer func() {
		if err != nil {
			w.fd.Close()
			os.Remove(w.fntmp)
		}
	}()

	if w.frozen {
		return ErrFrozen
	}

	m := mph.NewMinimalPerfectHash()
	if err = m.Build(w.keys, seed); err != nil {
		return ErrMPHFail
	}

	h := sha512.New512_256()
	tee := io.MultiWriter(w.fd, h)

	pgsz := uint64(os.Getpagesize())
	pgszM1 := pgsz - 1
	offtbl := (w.off + pgszM1) &^ pgszM1

	if offtbl > w.off {
		zeroes := make([]byte, offtbl-w.off)
		if _, err = writeAll(w.fd, zeroes); err != nil {
			return err
		}
		w.off = offtbl
	}

	var ehdr [64]byte
	be := binary.BigEndian
	copy(ehdr[:4], []byte("MPDB"))

	i := 8
	i += copy(ehdr[i:], w.salt)
	be.PutUint64(ehdr[i:i+8], uint64(len(w.keys)))
	i += 8
	be.PutUint64(ehdr[i:i+8], offtbl)

	h.Write(ehdr[:])

	if err = w.marshalOffsets(tee, m); err != nil {
		return err
	}

	nw, err := m.MarshalBinary(tee)
	if err != nil {
		return err
	}
	w.off += uint64(nw)

	cksum := h.Sum(nil)
	if _, err = writeAll(w.fd, cksum); err != nil {
		return err
	}

	if _, err = w.fd.Seek(0, 0); err != nil {
		return err
	}
	if _, err = writeAll(w.fd, ehdr[:]); err != nil {
		return err
	}

	w.frozen = true
	w.fd.Sync()
	w.fd.Close()

	return os.Rename(w.fntmp, w.fn)
}

// marshalOffsets writes the offset table and the value-length table, both
// ordered by each key's minimal perfect hash index.
func (w *DBWriter) marshalOffsets(tee io.Writer, m *mph.MinimalPerfectHash) error {
	n := uint64(len(w.keys))
	offset := make([]uint64, 2*n)
	vlen := make([]uint32, n)

	runningOff := uint64(64)
	for idx, key := range w.keys {
		val := w.vals[idx]

		i := uint64(m.GetHash(key))
		vlen[i] = toLittleEndianUint32(uint32(len(val)))

		j := i * 2
		offset[j] = toLittleEndianUint64(runningOff)
		offset[j+1] = toLittleEndianUint64(xxhash.Sum64(key.ToBytes()))

		if len(val) > 0 {
			runningOff += uint64(len(val)) + 8
		}
	}

	bs := u64sToByteSlice(offset)
	if _, err := writeAll(tee, bs); err != nil {
		return err
	}

	bs = u32sToByteSlice(vlen)
	if _, err := writeAll(tee, bs); err != nil {
		return err
	}

	w.off += n * (8 + 8 + 4)
	return nil
}

// Abort discards the in-progress construction and removes the temp file.
func (w *DBWriter) Abort() {
	w.fd.Close()
	os.Remove(w.fntmp)
}

func writeAll(w io.Writer, buf []byte) (int, error) {
	n, err := w.Write(buf)
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return n, errShortWrite(n)
	}
	return n, nil
}
