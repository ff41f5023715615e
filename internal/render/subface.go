package render

import (
	"github.com/Faultbox/voxelgard/internal/voxel"
)

// subface walks one quadrant of one cubemap face: an octree and the face's
// quadtree descended in lockstep. dx,dy (±1) pick the quadrant, ax,ay,az
// is the permutation mapping octree axes onto face x, face y and depth,
// and corner names the child octant nearest the camera; it is visited
// first and the others follow near to far, so painting runs front to back.
//
// Bounds (x1,x2,y1,y2) give the projected extent of the current octree
// node on the face, with (x1p,x2p,y1p,y2p) tracking how they scale when
// descending one octree level; one is the face half-extent in those units.
type subface struct {
	q        *Quadtree
	tree     *voxel.Tree
	dx       int
	dy       int
	corner   int
	ax       int
	ay       int
	az       int
	one      int
	maxDepth int
	stats    *Stats
}

func (p *subface) traverse(r int, s voxel.NodeID, x1, x2, x1p, x2p, y1, y2, y1p, y2p, d int) {
	p.stats.Total++
	// Entirely outside this face quadrant.
	if x2-(1-p.dx)*x2p <= -p.one || p.one <= x1-(1+p.dx)*x1p {
		return
	}
	if y2-(1-p.dy)*y2p <= -p.one || p.one <= y1-(1+p.dy)*y1p {
		return
	}

	if x2-x1 <= 2*p.one && y2-y1 <= 2*p.one && d < p.maxDepth {
		// Octree descent. The four near children first, inside the
		// shrunken bounds, then the four far ones; the first paint on a
		// quadtree leaf wins.
		p.stats.Oct++
		one := p.one
		dx, dy := p.dx, p.dy
		c := p.tree.Node(s).Child
		x3 := x1 - x1p
		x4 := x2 - x2p
		y3 := y1 - y1p
		y4 := y2 - y2p
		if x3 < x4 && y3 < y4 {
			if id := c[p.corner]; id != voxel.Nil {
				p.traverse(r, id, 2*x3+dx*one, 2*x4+dx*one, x1p, x2p, 2*y3+dy*one, 2*y4+dy*one, y1p, y2p, d+1)
			}
			if id := c[p.corner^p.ax]; id != voxel.Nil {
				p.traverse(r, id, 2*x3-dx*one, 2*x4-dx*one, x1p, x2p, 2*y3+dy*one, 2*y4+dy*one, y1p, y2p, d+1)
			}
			if id := c[p.corner^p.ay]; id != voxel.Nil {
				p.traverse(r, id, 2*x3+dx*one, 2*x4+dx*one, x1p, x2p, 2*y3-dy*one, 2*y4-dy*one, y1p, y2p, d+1)
			}
			if id := c[p.corner^p.ax^p.ay]; id != voxel.Nil {
				p.traverse(r, id, 2*x3-dx*one, 2*x4-dx*one, x1p, x2p, 2*y3-dy*one, 2*y4-dy*one, y1p, y2p, d+1)
			}
		}
		if id := c[p.corner^p.az]; id != voxel.Nil {
			p.traverse(r, id, 2*x1+dx*one, 2*x2+dx*one, x1p, x2p, 2*y1+dy*one, 2*y2+dy*one, y1p, y2p, d+1)
		}
		if id := c[p.corner^p.ax^p.az]; id != voxel.Nil {
			p.traverse(r, id, 2*x1-dx*one, 2*x2-dx*one, x1p, x2p, 2*y1+dy*one, 2*y2+dy*one, y1p, y2p, d+1)
		}
		if id := c[p.corner^p.ay^p.az]; id != voxel.Nil {
			p.traverse(r, id, 2*x1+dx*one, 2*x2+dx*one, x1p, x2p, 2*y1-dy*one, 2*y2-dy*one, y1p, y2p, d+1)
		}
		if id := c[p.corner^p.ax^p.ay^p.az]; id != voxel.Nil {
			p.traverse(r, id, 2*x1-dx*one, 2*x2-dx*one, x1p, x2p, 2*y1-dy*one, 2*y2-dy*one, y1p, y2p, d+1)
		}
	} else {
		// Quadtree descent.
		p.stats.Quad++
		xm := (x1 + x2) / 2
		xmp := (x1p + x2p) / 2
		ym := (y1 + y2) / 2
		ymp := (y1p + y2p) / 2
		if r < p.q.paintBound {
			if p.q.Map[4*r+4] != 0 {
				p.traverse(4*r+4, s, x1, xm, x1p, xmp, y1, ym, y1p, ymp, d)
			}
			if p.q.Map[4*r+5] != 0 {
				p.traverse(4*r+5, s, xm, x2, xmp, x2p, y1, ym, y1p, ymp, d)
			}
			if p.q.Map[4*r+6] != 0 {
				p.traverse(4*r+6, s, x1, xm, x1p, xmp, ym, y2, ymp, y2p, d)
			}
			if p.q.Map[4*r+7] != 0 {
				p.traverse(4*r+7, s, xm, x2, xmp, x2p, ym, y2, ymp, y2p, d)
			}
		} else {
			if p.q.Map[4*r+4] != 0 {
				p.paint(4*r+4, s, x1, xm, x1p, xmp, y1, ym, y1p, ymp)
			}
			if p.q.Map[4*r+5] != 0 {
				p.paint(4*r+5, s, xm, x2, xmp, x2p, y1, ym, y1p, ymp)
			}
			if p.q.Map[4*r+6] != 0 {
				p.paint(4*r+6, s, x1, xm, x1p, xmp, ym, y2, ymp, y2p)
			}
			if p.q.Map[4*r+7] != 0 {
				p.paint(4*r+7, s, xm, x2, xmp, x2p, ym, y2, ymp, y2p)
			}
		}
		p.q.Compute(r)
	}
}

func (p *subface) paint(r int, s voxel.NodeID, x1, x2, x1p, x2p, y1, y2, y1p, y2p int) {
	if x2-(1-p.dx)*x2p <= -p.one || p.one <= x1-(1+p.dx)*x1p {
		return
	}
	if y2-(1-p.dy)*y2p <= -p.one || p.one <= y1-(1+p.dy)*y1p {
		return
	}
	p.q.Face[r-p.q.leafStart] = p.tree.Node(s).Color
	p.q.Map[r] = 0
}
