// Package window handles SDL2 window creation and CPU framebuffer
// presentation.
package window

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	// SDL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps an SDL2 window with a streaming texture the renderer's
// framebuffer is uploaded to each frame.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	renderer  *sdl.Renderer
	texture   *sdl.Texture
	scratch   []byte
	w, h      int
}

// New creates a window sized to the configuration.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
		w:      cfg.Width,
		h:      cfg.Height,
	}

	slog.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	rflags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		rflags |= sdl.RENDERER_PRESENTVSYNC
	}
	w.renderer, err = sdl.CreateRenderer(w.sdlWindow, -1, rflags)
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}

	if err := w.createTexture(); err != nil {
		w.renderer.Destroy()
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, err
	}

	slog.Info("window created",
		"title", cfg.Title,
		"width", cfg.Width,
		"height", cfg.Height,
		"fullscreen", cfg.Fullscreen,
		"vsync", cfg.VSync,
	)

	return w, nil
}

func (w *Window) createTexture() error {
	tex, err := w.renderer.CreateTexture(
		sdl.PIXELFORMAT_ARGB8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(w.w),
		int32(w.h),
	)
	if err != nil {
		return fmt.Errorf("SDL_CreateTexture failed: %w", err)
	}
	w.texture = tex
	w.scratch = make([]byte, w.w*w.h*4)
	return nil
}

// Present uploads the 0xAARRGGBB framebuffer and flips it to the screen.
// SDL_UpdateTexture wants bytes, so each pixel is re-packed little-endian
// (B,G,R,A for ARGB8888) into a scratch buffer that lives as long as the
// texture.
func (w *Window) Present(pix []uint32) error {
	for i, c := range pix {
		o := i * 4
		w.scratch[o] = byte(c)
		w.scratch[o+1] = byte(c >> 8)
		w.scratch[o+2] = byte(c >> 16)
		w.scratch[o+3] = byte(c >> 24)
	}
	if err := w.texture.Update(nil, w.scratch, w.w*4); err != nil {
		return fmt.Errorf("texture update failed: %w", err)
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return fmt.Errorf("renderer copy failed: %w", err)
	}
	w.renderer.Present()
	return nil
}

// Resize recreates the streaming texture for a new window size.
func (w *Window) Resize(width, height int) error {
	if w.texture != nil {
		w.texture.Destroy()
	}
	w.w, w.h = width, height
	return w.createTexture()
}

// GetSize returns the current presentation size.
func (w *Window) GetSize() (int, int) {
	return w.w, w.h
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	slog.Info("closing window")

	if w.texture != nil {
		w.texture.Destroy()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}
