package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeFace(t *testing.T, dir string, i int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for p := 0; p < 8*8; p++ {
		img.SetNRGBA(p%8, p/8, c)
	}
	f, err := os.Create(filepath.Join(dir, "cubemap"+string(rune('0'+i))+".png"))
	if err != nil {
		t.Fatalf("creating face file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding face: %v", err)
	}
}

func TestLoadBackground(t *testing.T) {
	dir := t.TempDir()
	colors := [6]color.NRGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
		{G: 255, B: 255, A: 255},
		{R: 128, G: 128, B: 128, A: 255},
	}
	for i, c := range colors {
		writeFace(t, dir, i, c)
	}

	bg, err := LoadBackground(dir, 16)
	if err != nil {
		t.Fatalf("LoadBackground: %v", err)
	}
	if bg.Size() != 16 {
		t.Fatalf("size = %d, want 16", bg.Size())
	}

	want := [6]uint32{
		0xffff0000,
		0xff00ff00,
		0xff0000ff,
		0xffffff00,
		0xff00ffff,
		0xff808080,
	}
	for i := range want {
		if got := bg.At(i, 8, 8); got != want[i] {
			t.Errorf("face %d sample = %#x, want %#x", i, got, want[i])
		}
	}
}

func TestLoadBackgroundMissingFace(t *testing.T) {
	if _, err := LoadBackground(t.TempDir(), 8); err == nil {
		t.Error("LoadBackground succeeded with no face files")
	}
}
