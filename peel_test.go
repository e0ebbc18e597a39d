package mph

import "testing"

func TestTableSizeIsMultipleOfThree(t *testing.T) {
	for n := uint64(0); n < 200; n++ {
		m := tableSize(n)
		if m%3 != 0 {
			t.Fatalf("tableSize(%d) = %d, not a multiple of 3", n, m)
		}
		if n > 0 && m < n {
			t.Fatalf("tableSize(%d) = %d, smaller than n", n, m)
		}
	}
}

func TestTableSizeZero(t *testing.T) {
	if m := tableSize(0); m != 0 {
		t.Fatalf("tableSize(0) = %d, want 0", m)
	}
}

func TestPeelOnceSucceedsForSmallKeySet(t *testing.T) {
	var keys []KeyBytes
	for i := 0; i < 64; i++ {
		keys = append(keys, Int[int](i))
	}

	m := tableSize(uint64(len(keys)))
	var g *gArray
	var ok bool
	seed := uint64(1)
	for attempt := 0; attempt < defaultMaxAttempts; attempt++ {
		g, ok = peelOnce(keys, m, seed)
		if ok {
			break
		}
		seed = mix(seed + 1)
	}
	if !ok {
		t.Fatalf("peelOnce never succeeded within %d attempts", defaultMaxAttempts)
	}

	// Every slot assigned by an edge must carry a non-unused value, and each
	// edge's designated vertex (e.v[(g[v0]+g[v1]+g[v2]) % 3], the query
	// formula) must be unique across all keys.
	edges := buildEdges(keys, m, seed)
	seen := make(map[uint32]bool)
	for _, e := range edges {
		var sum int
		for _, v := range e.v {
			sum += int(g.get(uint64(v)))
		}
		designated := e.v[sum%3]
		if g.get(uint64(designated)) == gUnused {
			t.Fatalf("edge %v designates unused vertex %d", e.v, designated)
		}
		if seen[designated] {
			t.Fatalf("vertex %d designated by more than one edge", designated)
		}
		seen[designated] = true
	}
}
