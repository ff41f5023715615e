package render

import (
	"math"
	"math/bits"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/voxelgard/internal/voxel"
)

// vec4i carries (x1, x2, y1, y2) bound values, or one value per axis with
// the fourth lane unused. All traversal arithmetic stays in 32-bit signed
// integers; the depth cap of 26 keeps the magnitudes inside that range.
type vec4i [4]int32

// Octant axis bits and the center offsets of the eight child octants,
// ordered to match (x=4, y=2, z=1).
const (
	axisX = 4
	axisY = 2
	axisZ = 1
)

var octantDelta = [8]vec4i{
	{-1, -1, -1},
	{-1, -1, 1},
	{-1, 1, -1},
	{-1, 1, 1},
	{1, -1, -1},
	{1, -1, 1},
	{1, 1, -1},
	{1, 1, 1},
}

// FrustumRenderer is the unified octree×quadtree traversal: one recursion
// descends the octree while the projected bound is coarser than a quadtree
// cell and the screen mask otherwise, with integer frustum bounds pushed
// through an affine recursion instead of per-pixel transforms.
type FrustumRenderer struct {
	tree *voxel.Tree
	face *FaceMap
	w, h int
	rays []faceUV

	bg         *Background
	clearColor uint32

	corner int
	stats  *Stats
}

// NewFrustum builds an integer-frustum renderer for the given screen.
// bg may be nil.
func NewFrustum(tree *voxel.Tree, w, h int, bg *Background) *FrustumRenderer {
	f := &FrustumRenderer{
		tree:       tree,
		face:       NewFaceMap(ceilLog2(max(w, h))),
		w:          w,
		h:          h,
		bg:         bg,
		clearColor: 0xff000000,
	}
	if bg != nil {
		f.rays = make([]faceUV, w*h)
	}
	return f
}

// quadtreeBounds returns the four frustum plane ratios at z=1, widened
// from the screen to the (square, power of two) quadtree extent.
func quadtreeBounds(w, h, size int) [4]float64 {
	fov := 1 / float64(h)
	left := -float64(w) / 2 * fov
	right := float64(w) / 2 * fov
	top := 0.5
	bottom := -0.5
	return [4]float64{
		left,
		left + (right-left)*float64(size)/float64(w),
		top + (bottom-top)*float64(size)/float64(h),
		top,
	}
}

// Render draws one frame: rebuild the screen mask, project the eight root
// corners to pick the furthest octant and the per-axis bound deltas, run
// the traversal, then blit painted cells to the framebuffer.
func (f *FrustumRenderer) Render(pos mgl64.Vec3, orient mgl64.Mat3, fb *Framebuffer) Stats {
	var st Stats
	f.stats = &st
	t0 := time.Now()
	f.face.Build(f.w, f.h)
	st.Prepare = time.Since(t0)

	t1 := time.Now()
	depth := f.tree.Depth
	qb := quadtreeBounds(f.w, f.h, f.face.Size)

	var bounds [8]vec4i
	maxZ := math.Inf(-1)
	c := 0
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{
			float64(int(octantDelta[i][0]) << depth),
			float64(int(octantDelta[i][1]) << depth),
			float64(int(octantDelta[i][2]) << depth),
		}
		coord := orient.Mul3x1(corner.Sub(pos))
		bounds[i] = vec4i{
			int32(coord.Z()*qb[0] - coord.X()),
			int32(coord.Z()*qb[1] - coord.X()),
			int32(coord.Z()*qb[2] - coord.Y()),
			int32(coord.Z()*qb[3] - coord.Y()),
		}
		if coord.Z() > maxZ {
			maxZ = coord.Z()
			c = i
		}
	}
	f.corner = c
	dx := sub4(bounds[c^axisX], bounds[c])
	dy := sub4(bounds[c^axisY], bounds[c])
	dz := sub4(bounds[c^axisZ], bounds[c])
	dltz := negParts(dx, dy, dz)
	dgtz := posParts(dx, dy, dz)
	campos := vec4i{-int32(pos.X()), -int32(pos.Y()), -int32(pos.Z())}
	rootColor := f.tree.Node(f.tree.Root).Color
	f.traverse(0, f.tree.Root, rootColor, bounds[c], dx, dy, dz, dltz, dgtz, campos, depth-1)
	st.Query = time.Since(t1)

	t2 := time.Now()
	f.blit(pos, orient, fb)
	st.Transfer = time.Since(t2)

	st.Frame = time.Since(t0)
	f.stats = nil
	return st
}

// traverse reports whether the quadtree node is fully rendered. C is the
// octant corner furthest from the camera; pos is the center of the current
// octree node relative to the viewer.
func (f *FrustumRenderer) traverse(
	quadnode int32, octnode voxel.NodeID, octcolor uint32,
	bound, dx, dy, dz, dltz, dgtz vec4i,
	pos vec4i, depth int,
) bool {
	f.stats.Total++
	if depth >= 0 && int64(bound[1])-int64(bound[0]) <= int64(4)<<f.tree.Depth {
		// Octree descent, nearest octant first: visiting child
		// furthest^k for k=0.. walks near to far.
		s := f.tree.Node(octnode)
		furthest := 0
		if pos[0] < 0 {
			furthest |= axisX
		}
		if pos[1] < 0 {
			furthest |= axisY
		}
		if pos[2] < 0 {
			furthest |= axisZ
		}
		for k := 0; k < 8; k++ {
			i := furthest ^ k
			id := s.Child[i]
			if id == voxel.Nil {
				continue
			}
			nb := shl4(bound)
			ci := f.corner ^ i
			if ci&axisX != 0 {
				nb = add4(nb, dx)
			}
			if ci&axisY != 0 {
				nb = add4(nb, dy)
			}
			if ci&axisZ != 0 {
				nb = add4(nb, dz)
			}
			if !frustumHit(nb, dltz, dgtz) {
				continue
			}
			f.stats.Oct++
			np := vec4i{
				pos[0] + octantDelta[i][0]<<depth,
				pos[1] + octantDelta[i][1]<<depth,
				pos[2] + octantDelta[i][2]<<depth,
			}
			if f.traverse(quadnode, id, f.tree.Node(id).Color, nb, dx, dy, dz, dltz, dgtz, np, depth-1) {
				return true
			}
		}
		return false
	}

	// Quadtree descent over the sixteen 4×4 subregions, in ascending bit
	// order of the coverage mask.
	val := f.face.Map[quadnode]
	for val != 0 {
		i := bits.TrailingZeros16(val)
		val &= val - 1
		x := int32(i & 3)
		y := int32(i >> 2)
		a := vec4i{4 - x, x + 1, y + 1, 4 - y}
		b := vec4i{x, 3 - x, 3 - y, y}
		nb := lerp4(a, b, bound)
		ndx := lerp4(a, b, dx)
		ndy := lerp4(a, b, dy)
		ndz := lerp4(a, b, dz)
		ndltz := negParts(ndx, ndy, ndz)
		ndgtz := posParts(ndx, ndy, ndz)
		if !frustumHit(nb, ndltz, ndgtz) {
			continue
		}
		if int(quadnode) < f.face.L {
			f.stats.Quad++
			f.traverse(16*quadnode+int32(i)+1, octnode, octcolor, nb, ndx, ndy, ndz, ndltz, ndgtz, pos, depth)
		} else {
			f.face.SetFace(quadnode, i, octcolor)
		}
	}
	f.face.Compute(quadnode)
	return f.face.Map[quadnode] == 0
}

// blit copies painted cells to the pixel sink; unpainted pixels fall back
// to the background cubemap or the clear color.
func (f *FrustumRenderer) blit(pos mgl64.Vec3, orient mgl64.Mat3, fb *Framebuffer) {
	if f.bg != nil {
		fov := 1 / float64(f.h)
		inv := orient.Transpose()
		i := 0
		for y := 0; y < f.h; y++ {
			for x := 0; x < f.w; x++ {
				p := inv.Mul3x1(mgl64.Vec3{
					(float64(x) - float64(f.w)/2) * fov,
					(float64(f.h)/2 - float64(y)) * fov,
					1,
				})
				face, fx, fy := classify(p, f.bg.Size())
				f.rays[i] = faceUV{face: uint8(face), fx: int32(fx), fy: int32(fy)}
				i++
			}
		}
	}
	i := 0
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			col, painted := f.face.Sample(x, y)
			if !painted {
				col = f.clearColor
				if f.bg != nil {
					r := f.rays[i]
					col = f.bg.At(int(r.face), int(r.fx), int(r.fy))
				}
			}
			fb.PutPixel(x, y, col)
			i++
		}
	}
}

// frustumHit is the conservative visibility test: the projected node must
// be inside all four image-plane half-planes after the worst-case inward
// and outward offsets its descendants can add.
func frustumHit(b, dltz, dgtz vec4i) bool {
	return b[0]-dltz[0] < 0 && b[1]-dgtz[1] > 0 && b[2]-dltz[2] < 0 && b[3]-dgtz[3] > 0
}

func add4(a, b vec4i) vec4i {
	return vec4i{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func sub4(a, b vec4i) vec4i {
	return vec4i{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

func shl4(a vec4i) vec4i {
	return vec4i{a[0] << 1, a[1] << 1, a[2] << 1, a[3] << 1}
}

// lerp4 projects a bound vector onto one 1/16th subregion: per lane
// (a*v + b*shuffle(v)) >> 2 with the shuffle swapping each lane with its
// opposite side.
func lerp4(a, b, v vec4i) vec4i {
	return vec4i{
		(a[0]*v[0] + b[0]*v[1]) >> 2,
		(a[1]*v[1] + b[1]*v[0]) >> 2,
		(a[2]*v[2] + b[2]*v[3]) >> 2,
		(a[3]*v[3] + b[3]*v[2]) >> 2,
	}
}

// negParts sums, per lane, the negated negative deltas: subtracting the
// result from a bound yields the most inward value any descendant reaches.
func negParts(dx, dy, dz vec4i) vec4i {
	var s vec4i
	for j := range s {
		if dx[j] < 0 {
			s[j] -= dx[j]
		}
		if dy[j] < 0 {
			s[j] -= dy[j]
		}
		if dz[j] < 0 {
			s[j] -= dz[j]
		}
	}
	return s
}

// posParts is the outward counterpart of negParts.
func posParts(dx, dy, dz vec4i) vec4i {
	var s vec4i
	for j := range s {
		if dx[j] > 0 {
			s[j] -= dx[j]
		}
		if dy[j] > 0 {
			s[j] -= dy[j]
		}
		if dz[j] > 0 {
			s[j] -= dz[j]
		}
	}
	return s
}
