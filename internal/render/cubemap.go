package render

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/voxelgard/internal/voxel"
)

// Cubemap face order. The indices are chosen so the face renderer's axis
// decomposition lines up with the octree child numbering (x=4, y=2, z=1).
const (
	FaceYPos = iota
	FaceZPos
	FaceXPos
	FaceZNeg
	FaceXNeg
	FaceYNeg
)

// faceSpec fixes the axis decomposition of one cubemap face: the nearest
// child octant seen from the face and the permutation of octree axes onto
// face x, face y and depth.
type faceSpec struct {
	c, ax, ay, az int
}

var faceSpecs = [6]faceSpec{
	FaceYPos: {c: 0, ax: 4, ay: 1, az: 2},
	FaceZPos: {c: 0, ax: 4, ay: 2, az: 1},
	FaceXPos: {c: 3, ax: 1, ay: 2, az: 4},
	FaceZNeg: {c: 5, ax: 4, ay: 2, az: 1},
	FaceXNeg: {c: 6, ax: 1, ay: 2, az: 4},
	FaceYNeg: {c: 3, ax: 4, ay: 1, az: 2},
}

func init() {
	for _, s := range faceSpecs {
		if s.ax*s.ay*s.az != 8 || s.ax+s.ay+s.az != 7 {
			panic("render: face axis decomposition is not a permutation of x,y,z")
		}
	}
}

// faceUV is one screen pixel's cubemap classification, cached per frame so
// prepare and transfer share the ray math.
type faceUV struct {
	face   uint8
	fx, fy int32
}

// classify picks the dominant axis of a view ray and maps it to a cubemap
// face and face coordinates in [0,size). A ray on the exact edge between
// two faces lands on the last row of the first, so readback stays in
// bounds.
func classify(p mgl64.Vec3, size int) (int, int, int) {
	face, fx, fy := classifyRaw(p, size)
	if fx >= size {
		fx = size - 1
	}
	if fy >= size {
		fy = size - 1
	}
	return face, fx, fy
}

func classifyRaw(p mgl64.Vec3, size int) (int, int, int) {
	s := float64(size)
	ax := math.Abs(p.X())
	ay := math.Abs(p.Y())
	az := math.Abs(p.Z())
	switch {
	case ax >= ay && ax >= az:
		if p.X() > 0 {
			return FaceXPos, int(s * (-p.Z()/ax/2 + 0.5)), int(s * (-p.Y()/ax/2 + 0.5))
		}
		return FaceXNeg, int(s * (p.Z()/ax/2 + 0.5)), int(s * (-p.Y()/ax/2 + 0.5))
	case ay >= ax && ay >= az:
		if p.Y() > 0 {
			return FaceYPos, int(s * (p.X()/ay/2 + 0.5)), int(s * (p.Z()/ay/2 + 0.5))
		}
		return FaceYNeg, int(s * (p.X()/ay/2 + 0.5)), int(s * (-p.Z()/ay/2 + 0.5))
	default:
		if p.Z() > 0 {
			return FaceZPos, int(s * (p.X()/az/2 + 0.5)), int(s * (p.Y()/az/2 + 0.5))
		}
		return FaceZNeg, int(s * (-p.X()/az/2 + 0.5)), int(s * (p.Y()/az/2 + 0.5))
	}
}

// CubemapRenderer projects the octree onto six per-face occlusion
// quadtrees and reads the result back through the same pixel rays.
type CubemapRenderer struct {
	tree  *voxel.Tree
	faces [6]*Quadtree
	w, h  int
	fov   float64
	rays  []faceUV

	bg         *Background
	clearColor uint32
}

// NewCubemap builds a cubemap renderer for the given screen. The quadtree
// side is the next power of two at or above the larger screen dimension,
// so every pixel has a leaf. bg may be nil.
func NewCubemap(tree *voxel.Tree, w, h int, bg *Background) *CubemapRenderer {
	k := ceilLog2(max(w, h))
	c := &CubemapRenderer{
		tree:       tree,
		w:          w,
		h:          h,
		fov:        1 / float64(h),
		rays:       make([]faceUV, w*h),
		bg:         bg,
		clearColor: 0xff000000,
	}
	for i := range c.faces {
		c.faces[i] = NewQuadtree(k)
	}
	return c
}

func ceilLog2(v int) int {
	k := 0
	for 1<<k < v {
		k++
	}
	return k
}

// MaskExtent returns the occlusion-mask side length used for a w×h screen:
// the next power of two at or above the larger dimension, rounded up to an
// even exponent when the 16-ary mask is in use.
func MaskExtent(w, h int, grid16 bool) int {
	k := ceilLog2(max(w, h))
	if grid16 && k%2 != 0 {
		k++
	}
	return 1 << k
}

// Render draws one frame: mark the screen's coverage on the six faces,
// traverse the octree front to back painting face leaves, then blit the
// painted colors (or the background) through the cached rays.
func (c *CubemapRenderer) Render(pos mgl64.Vec3, orient mgl64.Mat3, fb *Framebuffer) Stats {
	var st Stats
	t0 := time.Now()

	// The orientation is orthonormal, so its inverse is its transpose.
	inv := orient.Transpose()
	size := c.faces[0].Size
	i := 0
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			p := inv.Mul3x1(mgl64.Vec3{
				(float64(x) - float64(c.w)/2) * c.fov,
				(float64(c.h)/2 - float64(y)) * c.fov,
				1,
			})
			face, fx, fy := classify(p, size)
			c.rays[i] = faceUV{face: uint8(face), fx: int32(fx), fy: int32(fy)}
			i++
		}
	}
	for _, f := range c.faces {
		f.Clear()
	}
	for _, r := range c.rays {
		c.faces[r.face].Set(int(r.fx), int(r.fy))
	}
	for _, f := range c.faces {
		f.Build()
	}
	st.Prepare = time.Since(t0)

	t1 := time.Now()
	x := int(pos.X())
	y := int(pos.Y())
	z := int(pos.Z())
	w := c.tree.SceneSize()
	c.renderFace(FaceZPos, x, y, w-z, &st)
	c.renderFace(FaceZNeg, -x, y, w+z, &st)
	c.renderFace(FaceXPos, -z, -y, w-x, &st)
	c.renderFace(FaceXNeg, z, -y, w+x, &st)
	c.renderFace(FaceYPos, x, z, w-y, &st)
	c.renderFace(FaceYNeg, x, -z, w+y, &st)
	st.Query = time.Since(t1)

	t2 := time.Now()
	i = 0
	for py := 0; py < c.h; py++ {
		for px := 0; px < c.w; px++ {
			r := c.rays[i]
			i++
			col, painted := c.faces[r.face].Sample(int(r.fx), int(r.fy))
			if !painted {
				col = c.clearColor
				if c.bg != nil {
					col = c.bg.At(int(r.face), int(r.fx), int(r.fy))
				}
			}
			fb.PutPixel(px, py, col)
		}
	}
	st.Transfer = time.Since(t2)

	st.Frame = time.Since(t0)
	return st
}

// renderFace splits one face rendering into its four axis-signed quadrants.
// (x, y) are the camera's coordinates in face space and q the distance from
// the camera to the far edge of the scene along the face's axis.
func (c *CubemapRenderer) renderFace(face, x, y, q int, st *Stats) {
	spec := faceSpecs[face]
	f := c.faces[face]
	one := c.tree.SceneSize()
	p := subface{
		q:        f,
		tree:     c.tree,
		ax:       spec.ax,
		ay:       spec.ay,
		az:       spec.az,
		one:      one,
		maxDepth: c.tree.Depth,
		stats:    st,
	}
	root := c.tree.Root
	if f.Map[0] != 0 {
		p.dx, p.dy, p.corner = -1, -1, spec.c ^ spec.ax ^ spec.ay
		p.traverse(0, root, x-q, x, -one, 0, y-q, y, -one, 0, 0)
	}
	if f.Map[1] != 0 {
		p.dx, p.dy, p.corner = 1, -1, spec.c ^ spec.ay
		p.traverse(1, root, x, x+q, 0, one, y-q, y, -one, 0, 0)
	}
	if f.Map[2] != 0 {
		p.dx, p.dy, p.corner = -1, 1, spec.c ^ spec.ax
		p.traverse(2, root, x-q, x, -one, 0, y, y+q, 0, one, 0)
	}
	if f.Map[3] != 0 {
		p.dx, p.dy, p.corner = 1, 1, spec.c
		p.traverse(3, root, x, x+q, 0, one, y, y+q, 0, one, 0)
	}
}
