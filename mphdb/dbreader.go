// dbreader.go -- constant, read-only key/value database built atop a
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
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
	"github.com/opencoff/golang-lru"

	mph "github.com/opencoff/go-mph"
)

// DBReader is the query interface for a database previously written by
// DBWriter.Freeze. The only meaningful operation is Find/Lookup.
type DBReader struct {
	mph *mph.MinimalPerfectHash

	cache *lru.ARCCache

	// memory-mapped offset+fingerprint table
	offset []uint64

	// memory-mapped value-length table
	vlen []uint32

	nkeys uint64
	salt  []byte

	mmap []byte
	fd   *os.File
	fn   string
}

// NewDBReader opens a previously constructed database in file 'fn' and
// prepares it for querying. Records are opportunistically cached after
// being read from disk; up to 'cache' of them are retained (default 128).
func NewDBReader(fn string, cache int) (rd *DBReader, err error) {
	fd, err := os.Open(fn)
	if err != nil {
		return nil, err
	}

	if cache <= 0 {
		cache = 128
	}

	rd = &DBReader{
		mph:  mph.NewMinimalPerfectHash(),
		salt: make([]byte, 16),
		fd:   fd,
		fn:   fn,
	}

	st, err := fd.Stat()
	if err != nil {
		return nil, fmt.Errorf("%s: can't stat: %s", fn, err)
	}

	if st.Size() < (64 + 32) {
		return nil, fmt.Errorf("%s: file too small or corrupted", fn)
	}

	var hdrb [64]byte
	if _, err = io.ReadFull(fd, hdrb[:]); err != nil {
		return nil, fmt.Errorf("%s: can't read header: %s", fn, err)
	}

	offtbl, err := rd.decodeHeader(hdrb[:], st.Size())
	if err != nil {
		return nil, err
	}

	if err = rd.verifyChecksum(hdrb[:], offtbl, st.Size()); err != nil {
		return nil, err
	}

	// 8+8+4: offset, fingerprint, vlen per key
	tblsz := rd.nkeys * (8 + 8 + 4)
	if uint64(st.Size()) < (64 + 32 + tblsz) {
		return nil, fmt.Errorf("%s: corrupt header", fn)
	}

	rd.cache, err = lru.NewARC(cache)
	if err != nil {
		return nil, err
	}

	mmapsz := st.Size() - int64(offtbl) - 32
	bs, err := syscall.Mmap(int(fd.Fd()), int64(offtbl), int(mmapsz), syscall.PROT_READ, syscall.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%s: can't mmap %d bytes at off %d: %s", fn, mmapsz, offtbl, err)
	}

	offsz := rd.nkeys * (8 + 8)
	vlensz := rd.nkeys * 4

	rd.mmap = bs
	rd.offset = bsToUint64Slice(bs[:offsz])
	rd.vlen = bsToUint32Slice(bs[offsz : offsz+vlensz])

	if err := rd.mph.UnmarshalBinary(&mmapReader{b: bs[offsz+vlensz:]}); err != nil {
		return nil, fmt.Errorf("%s: can't unmarshal minimal perfect hash: %s", fn, err)
	}

	return rd, nil
}

// Len returns the total number of distinct keys in the DB.
func (rd *DBReader) Len() int {
	return int(rd.nkeys)
}

// Close unmaps and closes the underlying file, and releases the cache.
func (rd *DBReader) Close() {
	syscall.Munmap(rd.mmap)
	rd.fd.Close()
	rd.cache.Purge()
	rd.mph = nil
	rd.fd = nil
	rd.salt = nil
	rd.fn = ""
}

// Lookup looks up 'key' and returns its value, or false if not found.
func (rd *DBReader) Lookup(key mph.KeyBytes) ([]byte, bool) {
	v, err := rd.Find(key)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Find looks up 'key' and returns its value. It returns ErrNoKey if the
// fingerprint recorded at the key's minimal index doesn't match (the key
// was never in the build set), and a descriptive error on disk I/O failure
// or record checksum mismatch.
func (rd *DBReader) Find(key mph.KeyBytes) ([]byte, error) {
	kb := key.ToBytes()
	ks := string(kb)
	if v, ok := rd.cache.Get(ks); ok {
		return v.([]byte), nil
	}

	i := uint64(rd.mph.GetHash(key))
	if i >= rd.nkeys {
		return nil, ErrNoKey
	}
	j := i * 2

	fp := toLittleEndianUint64(rd.offset[j+1])
	if want := xxhash.Sum64(kb); fp != want {
		return nil, ErrNoKey
	}

	vlen := toLittleEndianUint32(rd.vlen[i])
	off := toLittleEndianUint64(rd.offset[j])

	val, err := rd.decodeRecord(off, vlen)
	if err != nil {
		return nil, err
	}

	rd.cache.Add(ks, val)
	return val, nil
}

func (rd *DBReader) decodeRecord(off uint64, vlen uint32) ([]byte, error) {
	if vlen == 0 {
		return []byte{}, nil
	}

	if _, err := rd.fd.Seek(int64(off), 0); err != nil {
		return nil, err
	}

	data := make([]byte, vlen+8)
	if _, err := io.ReadFull(rd.fd, data); err != nil {
		return nil, err
	}

	be := binary.BigEndian
	csum := be.Uint64(data[:8])

	var o [8]byte
	be.PutUint64(o[:], off)

	h := siphash.New(rd.salt)
	h.Write(o[:])
	h.Write(data[8:])
	exp := h.Sum64()

	if csum != exp {
		return nil, fmt.Errorf("%s: corrupted record at off %d (exp %#x, saw %#x)", rd.fn, off, exp, csum)
	}
	return data[8:], nil
}

// verifyChecksum re-derives the SHA512-256 over the header, offset table,
// value-length table and marshaled hash, and compares it (in constant time)
// against the trailer stored at the end of the file.
func (rd *DBReader) verifyChecksum(hdrb []byte, offtbl uint64, sz int64) error {
	h := sha512.New512_256()
	h.Write(hdrb)

	remsz := sz - int64(offtbl) - 32

	if _, err := rd.fd.Seek(int64(offtbl), 0); err != nil {
		return err
	}

	nw, err := io.CopyN(h, rd.fd, remsz)
	if err != nil {
		return fmt.Errorf("%s: metadata i/o error: %s", rd.fn, err)
	}
	if nw != remsz {
		return fmt.Errorf("%s: partial read while verifying checksum, exp %d, saw %d", rd.fn, remsz, nw)
	}

	var expsum [32]byte
	if _, err := rd.fd.Seek(sz-32, 0); err != nil {
		return err
	}
	if _, err := io.ReadFull(rd.fd, expsum[:]); err != nil {
		return fmt.Errorf("%s: checksum i/o error: %s", rd.fn, err)
	}

	csum := h.Sum(nil)
	if subtle.ConstantTimeCompare(csum, expsum[:]) != 1 {
		return fmt.Errorf("%s: checksum failure; exp %#x, saw %#x", rd.fn, expsum[:], csum)
	}

	_, err = rd.fd.Seek(int64(offtbl), 0)
	return err
}

// entry condition: b is 64 bytes long.
func (rd *DBReader) decodeHeader(b []byte, sz int64) (uint64, error) {
	if string(b[:4]) != "MPDB" {
		return 0, fmt.Errorf("%s: bad file magic", rd.fn)
	}

	be := binary.BigEndian
	i := 8 // skip magic and flags

	copy(rd.salt, b[i:i+16])
	i += 16
	rd.nkeys = be.Uint64(b[i : i+8])
	i += 8
	offtbl := be.Uint64(b[i : i+8])

	if offtbl < 64 || offtbl >= uint64(sz-32) {
		return 0, fmt.Errorf("%s: corrupt header", rd.fn)
	}

	return offtbl, nil
}

// mmapReader adapts an mmap'd byte slice to io.Reader, so
// MinimalPerfectHash.UnmarshalBinary can decode directly from the mapped
// region without an intervening copy.
type mmapReader struct {
	b []byte
}

func (m *mmapReader) Read(p []byte) (int, error) {
	if len(m.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, m.b)
	m.b = m.b[n:]
	return n, nil
}
