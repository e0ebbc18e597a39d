package mph

import "testing"

func TestGArrayDefaultUnused(t *testing.T) {
	g := newGArray(10)
	for i := uint64(0); i < 10; i++ {
		if v := g.get(i); v != gUnused {
			t.Fatalf("slot %d: got %d, want gUnused(%d)", i, v, gUnused)
		}
	}
}

func TestGArraySetGet(t *testing.T) {
	g := newGArray(17)
	for i := uint64(0); i < 17; i++ {
		g.set(i, uint8(i%3))
	}
	for i := uint64(0); i < 17; i++ {
		want := uint8(i % 3)
		if got := g.get(i); got != want {
			t.Fatalf("slot %d: got %d, want %d", i, got, want)
		}
	}
}

func TestGArraySizeRounding(t *testing.T) {
	for _, m := range []uint64{0, 1, 3, 4, 5, 8, 9} {
		g := newGArray(m)
		want := (m + 3) / 4
		if uint64(len(g.b)) != want {
			t.Fatalf("m=%d: got %d bytes, want %d", m, len(g.b), want)
		}
	}
}
