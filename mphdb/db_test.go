// db_test.go -- test suite for dbreader/dbwriter
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
	"flag"
	"fmt"
	"math/rand"
	"os"
	"testing"

	mph "github.com/opencoff/go-mph"
)

var keep bool

func init() {
	flag.BoolVar(&keep, "keep", false, "Keep test DB")
}

var words = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
	"hotel", "india", "juliet", "kilo", "lima", "mike", "november",
	"oscar", "papa", "quebec", "romeo", "sierra", "tango", "uniform",
	"victor", "whiskey", "xray", "yankee", "zulu",
}

func newAsserter(t *testing.T) func(cond bool, f string, v ...interface{}) {
	t.Helper()
	return func(cond bool, f string, v ...interface{}) {
		if !cond {
			t.Helper()
			t.Fatalf(f, v...)
		}
	}
}

func TestDBRoundTrip(t *testing.T) {
	assert := newAsserter(t)

	fn := fmt.Sprintf("%s/mphdb%d.db", os.TempDir(), rand.Int())

	wr, err := NewDBWriter(fn)
	assert(err == nil, "can't create db: %s", err)

	defer func() {
		if keep {
			t.Logf("DB in %s retained after test\n", fn)
		} else {
			os.Remove(fn)
		}
	}()

	kvmap := make(map[string]string, len(words))
	for _, s := range words {
		err = wr.Add(mph.Str(s), []byte(s))
		assert(err == nil, "can't add key %s: %s", s, err)
		kvmap[s] = s
	}

	err = wr.FreezeWithSeed(0xfeedface)
	assert(err == nil, "freeze failed: %s", err)

	rd, err := NewDBReader(fn, 10)
	assert(err == nil, "read failed: %s", err)
	defer rd.Close()

	assert(rd.Len() == len(words), "Len()=%d, want %d", rd.Len(), len(words))

	for k, v := range kvmap {
		s, err := rd.Find(mph.Str(k))
		assert(err == nil, "can't find key %s: %s", k, err)
		assert(string(s) == v, "key %s: value mismatch; exp %s, saw %s", k, v, string(s))
	}

	// keys never added must not resolve
	for _, s := range []string{"not-a-key", "neither-is-this", ""} {
		v, err := rd.Find(mph.Str(s))
		assert(err != nil, "whoa: found unadded key %q => %s", s, string(v))
	}
}

func TestDBDuplicateKeyRejected(t *testing.T) {
	assert := newAsserter(t)

	fn := fmt.Sprintf("%s/mphdb%d.db", os.TempDir(), rand.Int())
	wr, err := NewDBWriter(fn)
	assert(err == nil, "can't create db: %s", err)
	defer wr.Abort()

	assert(wr.Add(mph.Str("dup"), []byte("first")) == nil, "first add failed")
	err = wr.Add(mph.Str("dup"), []byte("second"))
	assert(err == ErrExists, "duplicate add: got %v, want ErrExists", err)
}

func TestDBEmptyValues(t *testing.T) {
	assert := newAsserter(t)

	fn := fmt.Sprintf("%s/mphdb%d.db", os.TempDir(), rand.Int())
	wr, err := NewDBWriter(fn)
	assert(err == nil, "can't create db: %s", err)
	defer os.Remove(fn)

	for _, s := range words[:10] {
		assert(wr.Add(mph.Str(s), nil) == nil, "add %s failed", s)
	}

	assert(wr.FreezeWithSeed(1) == nil, "freeze failed")

	rd, err := NewDBReader(fn, 4)
	assert(err == nil, "read failed: %s", err)
	defer rd.Close()

	for _, s := range words[:10] {
		v, err := rd.Find(mph.Str(s))
		assert(err == nil, "can't find key %s: %s", s, err)
		assert(len(v) == 0, "key %s: expected empty value, got %q", s, v)
	}
}
