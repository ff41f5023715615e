package render

import "github.com/go-gl/mathgl/mgl64"

// Renderer draws one frame from a camera pose into a framebuffer and
// reports the frame's timings and traversal counters. The octree is
// read-only during rendering; all per-frame state lives in the renderer.
type Renderer interface {
	Render(pos mgl64.Vec3, orient mgl64.Mat3, fb *Framebuffer) Stats
}

var (
	_ Renderer = (*CubemapRenderer)(nil)
	_ Renderer = (*FrustumRenderer)(nil)
)
