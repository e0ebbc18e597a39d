// main.go -- build or verify an MPH-backed constant DB from txt or CSV files
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// mphdemo is an example of using mphdb.DBWriter/DBReader. It builds the
// on-disk DB from:
//   - white space delimited text file: first field is key, second is value
//   - comma separated text file (CSV): first field is key, second is value
//
// With no input files, it reads whitespace-delimited key/value pairs from
// stdin.

package main

import (
	"fmt"
	"os"
	"strings"

	mph "github.com/opencoff/go-mph"
	"github.com/opencoff/go-mph/mphdb"

	flag "github.com/opencoff/pflag"
)

func main() {
	var seed uint64
	var verify bool
	var demo bool
	var cache int

	usage := fmt.Sprintf("%s [options] OUTPUT [INPUT ...]", os.Args[0])

	flag.Uint64VarP(&seed, "seed", "s", 0, "Use `SEED` for the MPH build (0 picks a fresh random seed)")
	flag.BoolVarP(&verify, "verify", "V", false, "Verify a constant DB")
	flag.BoolVarP(&demo, "demo", "d", false, "Print <key><TAB><hash> for a hard-coded illustrative keyset, and exit")
	flag.IntVarP(&cache, "cache", "c", 128, "Keep `N` recently-read records cached in memory")
	flag.Usage = func() {
		fmt.Printf("mphdemo - build or verify an MPH-backed constant DB\nUsage: %s\n", usage)
		flag.PrintDefaults()
	}

	flag.Parse()
	args := flag.Args()

	if demo {
		runDemo()
		return
	}

	if len(args) < 1 {
		die("no output file name!\nUsage: %s\n", usage)
	}

	fn := args[0]
	args = args[1:]

	if verify {
		db, err := mphdb.NewDBReader(fn, cache)
		if err != nil {
			die("can't read %s: %s", fn, err)
		}

		fmt.Printf("%s: %d records\n", fn, db.Len())
		db.Close()
		return
	}

	db, err := mphdb.NewDBWriter(fn)
	if err != nil {
		die("can't create MPH DB: %s", err)
	}

	var n uint64
	if len(args) > 0 {
		for _, f := range args {
			switch {
			case strings.HasSuffix(f, ".txt"):
				n, err = AddTextFile(db, f, " \t")

			case strings.HasSuffix(f, ".csv"):
				n, err = AddCSVFile(db, f, ',', '#', 0, 1)

			default:
				warn("don't know how to add %s", f)
				continue
			}

			if err != nil {
				warn("can't add %s: %s", f, err)
				continue
			}

			fmt.Printf("+ %s: %d records\n", f, n)
		}
	} else {
		n, err = AddTextStream(db, os.Stdin, " \t")
		if err != nil {
			db.Abort()
			die("can't add STDIN: %s", err)
		}

		fmt.Printf("+ <STDIN>: %d records\n", n)
	}

	if seed == 0 {
		err = db.Freeze()
	} else {
		err = db.FreezeWithSeed(seed)
	}
	if err != nil {
		db.Abort()
		die("can't write db %s: %s", fn, err)
	}
}

// runDemo builds a MinimalPerfectHash over two small hard-coded keysets
// (ints, then strings) and prints "<key>\t<hash>" for each, one keyset at a
// time. Purely illustrative - not part of the library's tested surface.
func runDemo() {
	ints := []int{1, 11, 111, 1111, 11111, 111111}
	intKeys := make([]mph.KeyBytes, len(ints))
	for i, v := range ints {
		intKeys[i] = mph.Int(v)
	}

	m := mph.NewMinimalPerfectHash()
	if err := m.Build(intKeys, mph.NewSeed()); err != nil {
		die("int demo: build failed: %s", err)
	}
	for i, v := range ints {
		fmt.Printf("%d\t%d\n", v, m.GetHash(intKeys[i]))
	}
	fmt.Println()

	words := []string{"hoge", "piyo", "fuga", "foo", "bar"}
	wordKeys := make([]mph.KeyBytes, len(words))
	for i, w := range words {
		wordKeys[i] = mph.Str(w)
	}

	if err := m.Build(wordKeys, mph.NewSeed()); err != nil {
		die("string demo: build failed: %s", err)
	}
	for i, w := range words {
		fmt.Printf("%s\t%d\n", w, m.GetHash(wordKeys[i]))
	}
	fmt.Println()
}

func die(f string, v ...interface{}) {
	warn(f, v...)
	os.Exit(1)
}

func warn(f string, v ...interface{}) {
	z := fmt.Sprintf("%s: %s", os.Args[0], f)
	s := fmt.Sprintf(z, v...)
	if n := len(s); s[n-1] != '\n' {
		s += "\n"
	}

	os.Stderr.WriteString(s)
	os.Stderr.Sync()
}
