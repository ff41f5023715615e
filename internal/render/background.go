package render

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	_ "image/jpeg" // decoder registration
	_ "image/png"  // decoder registration

	_ "golang.org/x/image/bmp" // BMP decoder registration
)

// Background is an optional six-image environment cubemap sampled for
// pixels the scene traversal left unpainted. Faces follow the renderer's
// cubemap order and are resized to the occlusion quadtree's extent, so
// face coordinates address both directly.
type Background struct {
	size  int
	faces [6][]uint32
}

// LoadBackground reads cubemap0..cubemap5 image files (any registered
// format) from dir and converts them to size×size 32-bit BGRA faces.
func LoadBackground(dir string, size int) (*Background, error) {
	bg := &Background{size: size}
	for i := 0; i < 6; i++ {
		matches, err := filepath.Glob(filepath.Join(dir, fmt.Sprintf("cubemap%d.*", i)))
		if err != nil || len(matches) == 0 {
			return nil, fmt.Errorf("background face %d not found in %s", i, dir)
		}
		img, err := decodeImage(matches[0])
		if err != nil {
			return nil, fmt.Errorf("background face %d: %w", i, err)
		}
		face := imaging.Resize(img, size, size, imaging.Linear)
		bg.faces[i] = make([]uint32, size*size)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				o := y*face.Stride + x*4
				r := uint32(face.Pix[o])
				g := uint32(face.Pix[o+1])
				b := uint32(face.Pix[o+2])
				bg.faces[i][y*size+x] = 0xff000000 | r<<16 | g<<8 | b
			}
		}
	}
	return bg, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// Size returns the face side length.
func (b *Background) Size() int {
	return b.size
}

// At samples one face texel.
func (b *Background) At(face, fx, fy int) uint32 {
	return b.faces[face][fy*b.size+fx]
}
