package render

import (
	"testing"
)

func TestFaceMapRoundsUpToEven(t *testing.T) {
	f := NewFaceMap(5)
	if f.K != 6 || f.Size != 64 || f.levels != 3 {
		t.Errorf("NewFaceMap(5) = K %d size %d levels %d, want 6, 64, 3", f.K, f.Size, f.levels)
	}
	if f.L != 17 {
		t.Errorf("leaf-parent start = %d, want 17", f.L)
	}
}

func TestFaceMapBuildMarksScreen(t *testing.T) {
	f := NewFaceMap(6)
	w, h := 50, 40
	f.Build(w, h)

	marked := 0
	for y := 0; y < f.Size; y++ {
		for x := 0; x < f.Size; x++ {
			if f.Marked(x, y) {
				if x >= w || y >= h {
					t.Fatalf("pixel (%d,%d) outside screen is marked", x, y)
				}
				marked++
			}
		}
	}
	if marked != w*h {
		t.Errorf("marked pixels = %d, want %d", marked, w*h)
	}
	if f.Map[0] == 0 {
		t.Error("root mask empty after Build")
	}
}

func TestFaceMapSetFaceAndSample(t *testing.T) {
	f := NewFaceMap(6)
	f.Build(64, 64)

	x, y := 21, 35
	q := int32(f.L + f.blockIndex(x>>2, y>>2))
	i := (y&3)<<2 | x&3

	if _, painted := f.Sample(x, y); painted {
		t.Fatal("pixel reports painted before SetFace")
	}
	f.SetFace(q, i, 0xffabcdef)
	col, painted := f.Sample(x, y)
	if !painted || col != 0xffabcdef {
		t.Errorf("Sample = %#x, %v, want 0xffabcdef, true", col, painted)
	}
	if f.Marked(x, y) {
		t.Error("painted pixel still marked")
	}
}

func TestFaceMapComputeCompletion(t *testing.T) {
	f := NewFaceMap(4)
	f.Build(f.Size, f.Size)

	// Paint every cell of one leaf parent; its bit in the parent must
	// clear on the next Compute.
	q := int32(f.L + f.blockIndex(0, 0))
	for i := 0; i < 16; i++ {
		f.SetFace(q, i, 0xff010101)
	}
	if f.Map[q] != 0 {
		t.Fatalf("leaf parent mask = %#x after painting all cells, want 0", f.Map[q])
	}

	parent := (q - 1) / 16
	bit := q - 16*parent - 1
	if f.Map[parent]>>bit&1 != 1 {
		t.Fatal("parent bit already clear")
	}
	f.Compute(parent)
	if f.Map[parent]>>bit&1 != 0 {
		t.Error("Compute left the completed subtree's bit set")
	}
}

func TestFaceIndexMatchesSample(t *testing.T) {
	f := NewFaceMap(4)
	f.Build(f.Size, f.Size)
	for _, p := range [][2]int{{0, 0}, {3, 3}, {4, 0}, {9, 13}, {15, 15}} {
		idx := f.FaceIndex(p[0], p[1])
		f.Face[idx] = 0xff000000 | uint32(idx)
		got, _ := f.Sample(p[0], p[1])
		if got != 0xff000000|uint32(idx) {
			t.Errorf("Sample(%d,%d) = %#x, want face index %d", p[0], p[1], got, idx)
		}
	}
}

func TestMaskExtent(t *testing.T) {
	cases := []struct {
		w, h   int
		grid16 bool
		want   int
	}{
		{1024, 768, false, 1024},
		{1024, 768, true, 1024},
		{100, 100, false, 128},
		{100, 100, true, 256},
		{640, 480, false, 1024},
	}
	for _, tc := range cases {
		if got := MaskExtent(tc.w, tc.h, tc.grid16); got != tc.want {
			t.Errorf("MaskExtent(%d,%d,%v) = %d, want %d", tc.w, tc.h, tc.grid16, got, tc.want)
		}
	}
}
