// peel.go -- the hypergraph peeler: the heart of Build (spec.md §4.3).
// Each key is modeled as a 3-uniform hyperedge over the vertex set [0, M);
// a build attempt succeeds iff that hypergraph's 2-core is empty, i.e. it
// can be fully peeled by repeatedly removing edges incident to a
// degree-1 vertex.
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mph

import "math"

// loadFactor is "c" from spec.md §4.3: M = ceil(c*N), rounded up to a
// multiple of 3. 1.23 carries a small safety margin over the c* ~= 1.2298
// peelability threshold for random 3-uniform hypergraphs.
const loadFactor = 1.23

// defaultMaxAttempts caps the number of seed retries before Build reports
// ErrBuildExhausted (spec.md §4.3).
const defaultMaxAttempts = 100

// tableSize computes M for n keys: divisible by 3, at least n (when n>0),
// and at least 6 when n>1.
func tableSize(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	m := uint64(math.Ceil(loadFactor * float64(n)))
	if m < n {
		m = n
	}
	if rem := m % 3; rem != 0 {
		m += 3 - rem
	}
	// With M = 3 every key hashes to the same hyperedge {0, 1, 2}, which
	// can never be peeled once there are two or more keys.
	if n > 1 && m < 6 {
		m = 6
	}
	if m == 0 {
		m = 3
	}
	return m
}

// hyperedge holds the three vertices hashed from one key, in h0/h1/h2 order.
type hyperedge struct {
	v [3]uint32
}

// buildEdges computes the hyperedge for every key under the given seed.
func buildEdges(keys []KeyBytes, m uint64, seed uint64) []hyperedge {
	s0, s1, s2 := deriveSeeds(seed)
	third := m / 3

	edges := make([]hyperedge, len(keys))
	for i, k := range keys {
		kb := k.ToBytes()
		edges[i].v[0] = hashSlot(0, s0, kb, third)
		edges[i].v[1] = hashSlot(1, s1, kb, third)
		edges[i].v[2] = hashSlot(2, s2, kb, third)
	}
	return edges
}

// peelEntry records a (vertex, edge) pair in the order the peeler retired it.
type peelEntry struct {
	v uint32
	e uint32
}

// peelOnce attempts one build attempt: hash all keys into hyperedges under
// 'seed' and try to fully peel the resulting hypergraph. On success it
// returns the finished g-array; on failure (non-empty 2-core) ok is false
// and the caller should retry with a different seed.
func peelOnce(keys []KeyBytes, m uint64, seed uint64) (*gArray, bool) {
	n := len(keys)
	edges := buildEdges(keys, m, seed)

	// adjacency: for each vertex, the list of edge indices touching it.
	deg := make([]int32, m)
	for _, e := range edges {
		deg[e.v[0]]++
		deg[e.v[1]]++
		deg[e.v[2]]++
	}

	adj := make([][]uint32, m)
	for i := range adj {
		if deg[i] > 0 {
			adj[i] = make([]uint32, 0, deg[i])
		}
	}
	for i, e := range edges {
		adj[e.v[0]] = append(adj[e.v[0]], uint32(i))
		adj[e.v[1]] = append(adj[e.v[1]], uint32(i))
		adj[e.v[2]] = append(adj[e.v[2]], uint32(i))
	}

	queue := make([]uint32, 0, m)
	for v := uint64(0); v < m; v++ {
		if deg[v] == 1 {
			queue = append(queue, uint32(v))
		}
	}

	removedEdge := make([]bool, n)
	stack := make([]peelEntry, 0, n)

	for len(queue) > 0 {
		v := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if deg[v] != 1 {
			continue // stale queue entry; v was already consumed by another edge
		}

		var e uint32
		found := false
		for _, ei := range adj[v] {
			if !removedEdge[ei] {
				e = ei
				found = true
				break
			}
		}
		if !found {
			continue
		}

		stack = append(stack, peelEntry{v: v, e: e})
		removedEdge[e] = true
		deg[v] = 0

		for _, u := range edges[e].v {
			if u == v {
				continue
			}
			deg[u]--
			if deg[u] == 1 {
				queue = append(queue, u)
			}
		}
	}

	if len(stack) != n {
		return nil, false // 2-core non-empty: this seed doesn't peel
	}

	g := newGArray(m)
	// Assign in LIFO order (last peeled first): every other vertex of the
	// edge is either designated by an edge peeled strictly later in forward
	// time (hence processed strictly earlier here, so its value in g is
	// final) or never designated at all, in which case it keeps gUnused (3),
	// which counts as 0 mod 3 both here and at query time.
	for i := len(stack) - 1; i >= 0; i-- {
		v, ei := stack[i].v, stack[i].e
		e := edges[ei]

		var pos int
		var sum int
		for idx, u := range e.v {
			if u == v {
				pos = idx
				continue
			}
			sum += int(g.get(uint64(u)))
		}
		val := ((pos-sum)%3 + 3) % 3
		g.set(uint64(v), uint8(val))
	}

	return g, true
}
