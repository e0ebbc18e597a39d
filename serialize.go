// serialize.go -- bit-exact save/load of PerfectHash/MinimalPerfectHash
// (spec.md §4.8, §6). Two wire forms are supported: a compact binary form
// (little-endian, fixed widths) and a whitespace-delimited decimal textual
// form; both round-trip losslessly.
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
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

const (
	wireMagic   = "MPHF"
	wireVersion = uint16(1)
	kindPH      = uint8(0)
	kindMPH     = uint8(1)

	// magic(4) + version(2) + kind(1) + N(8) + M(8) + seed(8)
	binHeaderSize = 4 + 2 + 1 + 8 + 8 + 8
)

// MarshalBinary writes the canonical binary layout (spec.md §6) for this
// PerfectHash to w and returns the number of bytes written.
func (p *PerfectHash) MarshalBinary(w io.Writer) (int, error) {
	return p.marshalBinary(w, kindPH)
}

// UnmarshalBinary reads a PerfectHash previously written by MarshalBinary.
// It returns ErrDeserializeCorrupt on a magic/version/kind mismatch, a
// truncated payload, or a post-load invariant violation.
func (p *PerfectHash) UnmarshalBinary(r io.Reader) error {
	return p.unmarshalBinary(r, kindPH)
}

// MarshalText writes the whitespace-delimited decimal textual form.
func (p *PerfectHash) MarshalText(w io.Writer) (int, error) {
	return p.marshalText(w, kindPH)
}

// UnmarshalText reads a PerfectHash previously written by MarshalText.
func (p *PerfectHash) UnmarshalText(r io.Reader) error {
	return p.unmarshalText(r, kindPH)
}

// MarshalBinary writes the canonical binary layout for this
// MinimalPerfectHash. Per spec.md §4.8's "recompute on load" option, the
// occupancy bitmap and rank index are not persisted - UnmarshalBinary
// rebuilds them from the g-array alone.
func (mp *MinimalPerfectHash) MarshalBinary(w io.Writer) (int, error) {
	return mp.ph.marshalBinary(w, kindMPH)
}

// UnmarshalBinary reads a MinimalPerfectHash previously written by
// MarshalBinary, recomputing its auxiliary rank structures.
func (mp *MinimalPerfectHash) UnmarshalBinary(r io.Reader) error {
	if mp.ph == nil {
		mp.ph = NewPerfectHash()
	}
	if err := mp.ph.unmarshalBinary(r, kindMPH); err != nil {
		return err
	}
	mp.deriveAuxiliaries()
	return nil
}

// MarshalText writes the whitespace-delimited decimal textual form.
func (mp *MinimalPerfectHash) MarshalText(w io.Writer) (int, error) {
	return mp.ph.marshalText(w, kindMPH)
}

// UnmarshalText reads a MinimalPerfectHash previously written by MarshalText.
func (mp *MinimalPerfectHash) UnmarshalText(r io.Reader) error {
	if mp.ph == nil {
		mp.ph = NewPerfectHash()
	}
	if err := mp.ph.unmarshalText(r, kindMPH); err != nil {
		return err
	}
	mp.deriveAuxiliaries()
	return nil
}

func (p *PerfectHash) marshalBinary(w io.Writer, kind uint8) (int, error) {
	var hdr [binHeaderSize]byte
	copy(hdr[0:4], wireMagic)
	binary.LittleEndian.PutUint16(hdr[4:6], wireVersion)
	hdr[6] = kind
	binary.LittleEndian.PutUint64(hdr[7:15], p.n)
	binary.LittleEndian.PutUint64(hdr[15:23], p.m)
	binary.LittleEndian.PutUint64(hdr[23:31], p.seed)

	nw, err := writeAll(w, hdr[:])
	if err != nil {
		return nw, err
	}
	if p.g == nil {
		return nw, nil
	}

	gw, err := writeAll(w, p.g.b)
	return nw + gw, err
}

func (p *PerfectHash) unmarshalBinary(r io.Reader, wantKind uint8) error {
	var hdr [binHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return ErrDeserializeCorrupt
	}
	if string(hdr[0:4]) != wireMagic {
		return ErrDeserializeCorrupt
	}
	if binary.LittleEndian.Uint16(hdr[4:6]) != wireVersion {
		return ErrDeserializeCorrupt
	}
	if hdr[6] != wantKind {
		return ErrDeserializeCorrupt
	}

	n := binary.LittleEndian.Uint64(hdr[7:15])
	m := binary.LittleEndian.Uint64(hdr[15:23])
	seed := binary.LittleEndian.Uint64(hdr[23:31])

	glen := (m + 3) / 4
	gb := make([]byte, glen)
	if glen > 0 {
		if _, err := io.ReadFull(r, gb); err != nil {
			return ErrDeserializeCorrupt
		}
	}

	g := &gArray{b: gb, m: m}
	if err := validateInvariants(n, m, g); err != nil {
		return err
	}

	p.n, p.m, p.seed, p.g = n, m, seed, g
	return nil
}

func (p *PerfectHash) marshalText(w io.Writer, kind uint8) (int, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d %d %d %d", wireVersion, kind, p.n, p.m, p.seed)

	if p.g != nil {
		for _, b := range p.g.b {
			fmt.Fprintf(&buf, " %d", b)
		}
	}
	fmt.Fprintln(&buf)

	return writeAll(w, buf.Bytes())
}

func (p *PerfectHash) unmarshalText(r io.Reader, wantKind uint8) error {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func() (uint64, bool) {
		if !sc.Scan() {
			return 0, false
		}
		v, err := strconv.ParseUint(sc.Text(), 10, 64)
		return v, err == nil
	}

	ver, ok := next()
	if !ok || ver != uint64(wireVersion) {
		return ErrDeserializeCorrupt
	}
	kind, ok := next()
	if !ok || uint8(kind) != wantKind {
		return ErrDeserializeCorrupt
	}
	n, ok := next()
	if !ok {
		return ErrDeserializeCorrupt
	}
	m, ok := next()
	if !ok {
		return ErrDeserializeCorrupt
	}
	seed, ok := next()
	if !ok {
		return ErrDeserializeCorrupt
	}

	glen := (m + 3) / 4
	gb := make([]byte, glen)
	for i := uint64(0); i < glen; i++ {
		v, ok := next()
		if !ok || v > 255 {
			return ErrDeserializeCorrupt
		}
		gb[i] = byte(v)
	}

	g := &gArray{b: gb, m: m}
	if err := validateInvariants(n, m, g); err != nil {
		return err
	}

	p.n, p.m, p.seed, p.g = n, m, seed, g
	return nil
}

// validateInvariants re-checks the §3 invariants that relate N, M and g
// after a load: M is 0 or a multiple of 3, and exactly N slots are occupied.
func validateInvariants(n, m uint64, g *gArray) error {
	if m == 0 {
		if n != 0 {
			return ErrDeserializeCorrupt
		}
		return nil
	}
	if m%3 != 0 {
		return ErrDeserializeCorrupt
	}

	var occupied uint64
	for i := uint64(0); i < m; i++ {
		if g.get(i) != gUnused {
			occupied++
		}
	}
	if occupied != n {
		return ErrDeserializeCorrupt
	}
	return nil
}

func writeAll(w io.Writer, buf []byte) (int, error) {
	n, err := w.Write(buf)
	if err != nil {
		return n, err
	}
	if n != len(buf) {
		return n, errShortWrite(n)
	}
	return n, nil
}
