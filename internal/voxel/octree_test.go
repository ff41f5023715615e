package voxel

import (
	"testing"
)

func TestSetAndColorAt(t *testing.T) {
	tr := New(3)
	tr.Set(1, 2, 3, 3, 0xff102030)
	got, ok := tr.ColorAt(1, 2, 3, 3)
	if !ok || got != 0xff102030 {
		t.Errorf("ColorAt(1,2,3) = %#x, %v, want 0xff102030, true", got, ok)
	}
	if _, ok := tr.ColorAt(0, 0, 0, 3); ok {
		t.Error("ColorAt(0,0,0) = set, want empty")
	}
}

func TestAverageClosure(t *testing.T) {
	// Four children: black, green, blue, red. Per-channel mean is 63.75,
	// so the parent lands on 0x3f per channel (give or take rounding).
	tr := New(1)
	tr.Set(0, 0, 0, 1, 0xff000000)
	tr.Set(0, 0, 1, 1, 0xff00ff00)
	tr.Set(0, 1, 0, 1, 0xff0000ff)
	tr.Set(0, 1, 1, 1, 0xffff0000)
	tr.Average()

	got := tr.Node(tr.Root).Color
	for shift := uint(0); shift <= 16; shift += 8 {
		ch := got >> shift & 0xff
		if ch < 0x3e || ch > 0x40 {
			t.Errorf("root color = %#x, channel at shift %d outside 0x3f±1", got, shift)
		}
	}
	if got>>24 != 0xff {
		t.Errorf("root color = %#x, want opaque alpha", got)
	}
}

func TestAverageClosureDeep(t *testing.T) {
	tr := New(2)
	tr.Set(0, 0, 0, 2, 0xff000000)
	tr.Set(3, 3, 3, 2, 0xff808080)
	tr.Average()

	got := tr.Node(tr.Root).Color
	want := uint32(0xff404040)
	if got != want {
		t.Errorf("root color = %#x, want %#x", got, want)
	}
}

func TestLeafSelfLoop(t *testing.T) {
	tr := New(2)
	tr.Set(0, 0, 0, 2, 0xffffffff)
	tr.Average()

	// Walk to the bottom voxel node; it has no children, so Average must
	// have self-looped it.
	id := tr.Root
	for d := 1; d >= 0; d-- {
		id = tr.Node(id).Child[0]
	}
	n := tr.Node(id)
	if !n.Leaf {
		t.Fatal("bottom node not marked leaf")
	}
	for i := 0; i < 8; i++ {
		if n.Child[i] != id {
			t.Errorf("leaf child %d = %d, want self %d", i, n.Child[i], id)
		}
	}
}

func TestAverageIdempotent(t *testing.T) {
	tr := New(3)
	tr.Set(0, 0, 0, 3, 0xff112233)
	tr.Set(7, 7, 7, 3, 0xff445566)
	tr.Average()
	before := tr.Node(tr.Root).Color
	nodes := tr.Len()

	tr.Average()
	if got := tr.Node(tr.Root).Color; got != before {
		t.Errorf("second Average changed root color: %#x -> %#x", before, got)
	}
	if tr.Len() != nodes {
		t.Errorf("second Average changed node count: %d -> %d", nodes, tr.Len())
	}
}

func TestReplicateNoop(t *testing.T) {
	tr := New(3)
	tr.Set(1, 2, 3, 3, 0xffaabbcc)
	tr.Average()
	root := *tr.Node(tr.Root)

	tr.Replicate(7, 0)
	if *tr.Node(tr.Root) != root {
		t.Error("Replicate(7, 0) modified the root")
	}
	tr.Replicate(7, 4)
	if *tr.Node(tr.Root) != root {
		t.Error("Replicate(7, 4) modified the root")
	}
}

func TestReplicateEquivalence(t *testing.T) {
	// mask=2 clears the x and z axis bits, tiling the content along x and z
	// for the top two levels.
	tr := New(3)
	tr.Set(0, 0, 0, 3, 0xff0000ff)
	tr.Set(1, 7, 1, 3, 0xff00ff00)
	tr.Average()
	tr.Replicate(2, 2)

	type probe struct{ x, y, z int }
	for _, p := range []probe{{0, 0, 0}, {1, 7, 1}} {
		want, ok := tr.ColorAt(p.x, p.y, p.z, 3)
		if !ok {
			t.Fatalf("original voxel (%d,%d,%d) missing", p.x, p.y, p.z)
		}
		// Mirrors along x and z at the two replicated levels.
		for _, dx := range []int{0, 4, 2, 6} {
			for _, dz := range []int{0, 4, 2, 6} {
				got, ok := tr.ColorAt(p.x+dx, p.y, p.z+dz, 3)
				if !ok || got != want {
					t.Errorf("replica at (%d,%d,%d) = %#x, %v, want %#x",
						p.x+dx, p.y, p.z+dz, got, ok, want)
				}
			}
		}
	}
}

func TestPruneAbsorbsSingleLeafChild(t *testing.T) {
	tr := New(2)
	tr.Prune = true
	tr.Set(0, 0, 0, 2, 0xff123456)
	tr.Average()

	if got := tr.Node(tr.Root).Color; got != 0xff123456 {
		t.Errorf("pruned root color = %#x, want 0xff123456", got)
	}
	if _, ok := tr.ColorAt(0, 0, 0, 2); !ok {
		t.Error("pruned tree lost the voxel")
	}
}

func TestArenaChunking(t *testing.T) {
	var a arena
	const n = chunkSize + 100
	ids := make([]NodeID, n)
	for i := range ids {
		ids[i] = a.alloc()
	}
	if a.len() != n {
		t.Fatalf("arena len = %d, want %d", a.len(), n)
	}
	// Writes through early pointers must survive later allocations.
	first := a.node(ids[0])
	first.Color = 0xdeadbeef
	a.alloc()
	if a.node(ids[0]).Color != 0xdeadbeef {
		t.Error("node pointer invalidated by later allocation")
	}
	if a.node(ids[n-1]) == a.node(ids[n-2]) {
		t.Error("distinct ids resolve to the same node")
	}
}
