// text.go -- read from a variety of text file formats and populate a
// mphdb.DBWriter

package main

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	mph "github.com/opencoff/go-mph"
	"github.com/opencoff/go-mph/mphdb"
)

type record struct {
	key string
	val []byte
}

// AddTextFile adds contents from text file 'fn' where key and value are
// separated by one of the characters in 'delim'. Empty lines and comment
// lines (starting with '#') are skipped. Returns the number of records
// added.
func AddTextFile(w *mphdb.DBWriter, fn string, delim string) (uint64, error) {
	fd, err := os.Open(fn)
	if err != nil {
		return 0, err
	}
	defer fd.Close()

	if len(delim) == 0 {
		delim = " \t"
	}

	return AddTextStream(w, fd, delim)
}

// AddTextStream is like AddTextFile but reads from an already-open stream.
func AddTextStream(w *mphdb.DBWriter, fd io.Reader, delim string) (uint64, error) {
	rd := bufio.NewReader(fd)
	sc := bufio.NewScanner(rd)
	ch := make(chan *record, 10)

	go func(sc *bufio.Scanner, ch chan *record) {
		var empty string

		for sc.Scan() {
			s := strings.TrimSpace(sc.Text())
			if len(s) == 0 || s[0] == '#' {
				continue
			}

			var k, v string

			i := strings.IndexAny(s, delim)
			if i > 0 {
				k = s[:i]
				v = strings.TrimSpace(s[i:])
			} else {
				k = s
				v = empty
			}

			if len(v) >= 4294967295 {
				continue
			}

			ch <- &record{key: k, val: []byte(v)}
		}

		close(ch)
	}(sc, ch)

	return addFromChan(w, ch)
}

// AddCSVFile adds contents from CSV file 'fn'. kwfield/valfield (default 0,
// 1) name the key/value column index; comma/comment set the CSV reader's
// delimiter and comment rune. Returns the number of records added.
func AddCSVFile(w *mphdb.DBWriter, fn string, comma, comment rune, kwfield, valfield int) (uint64, error) {
	fd, err := os.Open(fn)
	if err != nil {
		return 0, err
	}
	defer fd.Close()

	return AddCSVStream(w, fd, comma, comment, kwfield, valfield)
}

// AddCSVStream is like AddCSVFile but reads from an already-open stream.
func AddCSVStream(w *mphdb.DBWriter, fd io.Reader, comma, comment rune, kwfield, valfield int) (uint64, error) {
	if kwfield < 0 {
		kwfield = 0
	}
	if valfield < 0 {
		valfield = 1
	}

	max := valfield
	if kwfield > valfield {
		max = kwfield
	}
	max++

	ch := make(chan *record, 10)
	cr := csv.NewReader(fd)
	cr.Comma = comma
	cr.Comment = comment
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	go func(cr *csv.Reader, ch chan *record) {
		for {
			v, err := cr.Read()
			if err != nil {
				break
			}
			if len(v) < max {
				continue
			}
			ch <- &record{key: v[kwfield], val: []byte(v[valfield])}
		}
		close(ch)
	}(cr, ch)

	return addFromChan(w, ch)
}

// addFromChan drains partial records from ch and writes them to w, skipping
// duplicate keys rather than aborting the whole load.
func addFromChan(w *mphdb.DBWriter, ch chan *record) (uint64, error) {
	var n uint64
	for r := range ch {
		if err := w.Add(mph.Str(r.key), r.val); err != nil {
			if err == mphdb.ErrExists {
				continue
			}
			return n, err
		}
		n++
	}

	return n, nil
}
