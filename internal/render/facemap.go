package render

import "math/bits"

// FaceMap is the direct-to-screen occlusion mask of the integer-frustum
// renderer: a 16-ary pyramid where each node owns a 4×4 grid of descendants
// two quadtree levels down. Node 0 is the root and the children of node q
// are 16q+1..16q+16; cell i of the grid sits at (i&3, i>>2). Nodes at
// index L and above are leaf parents whose sixteen cells are single pixels.
//
// Map holds a 16-bit uncovered mask per node. Face holds one color per
// pixel in descent order (base-4 digit interleave of the coordinates).
type FaceMap struct {
	K      int
	Size   int
	levels int
	L      int // first leaf-parent index

	Map  []uint16
	Face []uint32
}

// NewFaceMap builds a mask with 1<<k cells per side; k is rounded up to
// even so the 4×4 grouping divides the pyramid exactly.
func NewFaceMap(k int) *FaceMap {
	if k%2 != 0 {
		k++
	}
	f := &FaceMap{
		K:      k,
		Size:   1 << k,
		levels: k / 2,
	}
	f.L = (pow16(f.levels-1) - 1) / 15
	total := (pow16(f.levels) - 1) / 15
	f.Map = make([]uint16, total)
	f.Face = make([]uint32, f.Size*f.Size)
	return f
}

func pow16(n int) int { return 1 << (4 * n) }

// Clear resets all coverage bits and discards face colors.
func (f *FaceMap) Clear() {
	clear(f.Map)
	clear(f.Face)
}

// Build marks every pixel inside the w×h screen as uncovered and
// propagates the masks bottom-up. Pixels beyond the screen stay clear, so
// traversal never paints them.
func (f *FaceMap) Build(w, h int) {
	blocks := f.Size / 4
	for by := 0; by < blocks; by++ {
		for bx := 0; bx < blocks; bx++ {
			q := f.L + f.blockIndex(bx, by)
			baseX, baseY := bx*4, by*4
			switch {
			case baseX+4 <= w && baseY+4 <= h:
				f.Map[q] = 0xffff
			case baseX >= w || baseY >= h:
				f.Map[q] = 0
			default:
				var m uint16
				for i := 0; i < 16; i++ {
					if baseX+i&3 < w && baseY+i>>2 < h {
						m |= 1 << i
					}
				}
				f.Map[q] = m
			}
		}
	}
	for q := f.L - 1; q >= 0; q-- {
		var m uint16
		for i := 0; i < 16; i++ {
			if f.Map[16*q+1+i] != 0 {
				m |= 1 << i
			}
		}
		f.Map[q] = m
	}
}

// SetFace paints cell i of leaf parent q and clears its coverage bit. The
// cell is immutable until the next Build.
func (f *FaceMap) SetFace(q int32, i int, color uint32) {
	f.Face[(int(q)-f.L)*16+i] = color
	f.Map[q] &^= 1 << i
}

// Compute clears bits of q whose child subtree has become fully painted.
func (f *FaceMap) Compute(q int32) {
	if int(q) >= f.L {
		return
	}
	m := f.Map[q]
	for v := m; v != 0; v &= v - 1 {
		i := bits.TrailingZeros16(v)
		if f.Map[16*int(q)+1+i] == 0 {
			m &^= 1 << i
		}
	}
	f.Map[q] = m
}

// Sample returns the color at pixel (fx,fy) and whether it was painted
// this frame.
func (f *FaceMap) Sample(fx, fy int) (uint32, bool) {
	q := f.L + f.blockIndex(fx>>2, fy>>2)
	i := (fy&3)<<2 | fx&3
	return f.Face[(q-f.L)*16+i], f.Map[q]>>i&1 == 0
}

// Marked reports whether pixel (fx,fy) still carries its coverage mark.
func (f *FaceMap) Marked(fx, fy int) bool {
	q := f.L + f.blockIndex(fx>>2, fy>>2)
	return f.Map[q]>>((fy&3)<<2|fx&3)&1 != 0
}

// FaceIndex maps pixel coordinates to the Face array slot.
func (f *FaceMap) FaceIndex(fx, fy int) int {
	q := f.blockIndex(fx>>2, fy>>2)
	return q*16 + ((fy&3)<<2 | fx&3)
}

// blockIndex interleaves the base-4 digits of the block coordinates into
// the leaf-parent's position within its level, matching descent order.
func (f *FaceMap) blockIndex(bx, by int) int {
	idx := 0
	for l := f.levels - 2; l >= 0; l-- {
		idx = idx<<4 | (by>>(2*l)&3)<<2 | bx>>(2*l)&3
	}
	return idx
}
