// Package render implements the CPU octree renderer: per-face occlusion
// quadtrees, the axis-decomposed cubemap traversal and the integer-frustum
// traversal, and the framebuffer they paint into.
package render

// Framebuffer is a 32-bit 0xAARRGGBB pixel sink. The buffer is one flat
// row-major array sized at construction; the window uploads it as-is.
type Framebuffer struct {
	W, H int
	Pix  []uint32
}

// NewFramebuffer returns a framebuffer of the given dimensions.
func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{W: w, H: h, Pix: make([]uint32, w*h)}
}

// PutPixel writes one pixel. Callers stay in bounds; the renderer calls
// this at most once per pixel per frame.
func (f *Framebuffer) PutPixel(x, y int, color uint32) {
	f.Pix[y*f.W+x] = color
}

// At reads one pixel back.
func (f *Framebuffer) At(x, y int) uint32 {
	return f.Pix[y*f.W+x]
}

// Fill sets every pixel to the given color.
func (f *Framebuffer) Fill(color uint32) {
	for i := range f.Pix {
		f.Pix[i] = color
	}
}
