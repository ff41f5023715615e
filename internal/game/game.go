// Package game implements the main loop: input, camera, render, present.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelgard/internal/config"
	"github.com/Faultbox/voxelgard/internal/engine/camera"
	"github.com/Faultbox/voxelgard/internal/engine/debug"
	"github.com/Faultbox/voxelgard/internal/engine/input"
	"github.com/Faultbox/voxelgard/internal/engine/window"
	"github.com/Faultbox/voxelgard/internal/logger"
	"github.com/Faultbox/voxelgard/internal/render"
	"github.com/Faultbox/voxelgard/internal/voxel"
)

// Game owns the scene, the renderer and the interactive loop.
type Game struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	input    *input.Input
	camera   *camera.FreeCamera
	tree     *voxel.Tree
	renderer render.Renderer
	fb       *render.Framebuffer

	shots *debug.ScreenshotCapture

	dragging bool
	moved    bool
}

// New loads the scene and creates the window and renderer.
func New(cfg *config.Config) (*Game, error) {
	logger.Sugar.Infof("loading scene %s (depth %d)", cfg.Scene.Path, cfg.Scene.Depth)
	start := time.Now()
	tree, err := voxel.Load(cfg.Scene.Path, voxel.LoadConfig{
		Depth:           cfg.Scene.Depth,
		ReplicateMask:   cfg.Scene.ReplicateMask,
		ReplicateDepth:  cfg.Scene.ReplicateDepth,
		DownsampleShift: cfg.Scene.DownsampleShift,
		Prune:           cfg.Scene.Prune,
	})
	if err != nil {
		return nil, fmt.Errorf("loading scene: %w", err)
	}
	logger.Sugar.Infof("model loaded in %.2fms", float64(time.Since(start).Microseconds())/1000)

	g := &Game{
		cfg:   cfg,
		tree:  tree,
		moved: true,
	}

	g.window, err = window.New(window.Config{
		Title:      "Voxelgard",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := g.buildRenderer(cfg.Graphics.Width, cfg.Graphics.Height); err != nil {
		g.window.Close()
		return nil, err
	}

	g.input = input.New()
	g.shots = debug.NewScreenshotCapture("screenshots", "voxelgard")
	g.camera = camera.New(tree.SceneSize())
	g.camera.Position[2] = -2 * float64(tree.SceneSize())

	return g, nil
}

// buildRenderer sizes the occlusion masks and framebuffer for a screen.
func (g *Game) buildRenderer(w, h int) error {
	grid16 := g.cfg.Renderer.Variant == config.VariantFrustum

	var bg *render.Background
	if dir := g.cfg.Renderer.BackgroundDir; dir != "" {
		var err error
		bg, err = render.LoadBackground(dir, render.MaskExtent(w, h, grid16))
		if err != nil {
			return fmt.Errorf("loading background cubemap: %w", err)
		}
	}

	g.fb = render.NewFramebuffer(w, h)
	switch g.cfg.Renderer.Variant {
	case config.VariantCubemap:
		g.renderer = render.NewCubemap(g.tree, w, h, bg)
	default:
		g.renderer = render.NewFrustum(g.tree, w, h, bg)
	}
	return nil
}

// Run starts the main loop. It returns when the user quits.
func (g *Game) Run() error {
	g.running = true
	lastTime := time.Now()

	for g.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		if g.input.Update() {
			break
		}
		g.handleEvents()
		g.handleMovement(dt)

		if g.moved {
			st := g.renderer.Render(g.camera.Position, g.camera.Orientation(), g.fb)
			logger.Sugar.Infof("%s", st)
			g.moved = false
		}
		if err := g.window.Present(g.fb.Pix); err != nil {
			return fmt.Errorf("present error: %w", err)
		}

		if limit := g.cfg.Graphics.FPSLimit; limit > 0 {
			budget := time.Second / time.Duration(limit)
			if spent := time.Since(frameStart); spent < budget {
				time.Sleep(budget - spent)
			}
		}
	}
	return nil
}

func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventQuit:
			g.running = false
		case input.EventWindowResize:
			if err := g.resize(event.Width, event.Height); err != nil {
				logger.Error("resize failed", zap.Error(err))
				g.running = false
			}
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
			case sdl.SCANCODE_F12:
				if name, err := g.shots.CaptureFromPixels(g.fb.Pix, g.fb.W, g.fb.H); err != nil {
					logger.Warn("screenshot failed", zap.Error(err))
				} else {
					logger.Info("screenshot saved", zap.String("file", name))
				}
			}
		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_LEFT {
				g.dragging = true
			}
		case input.EventMouseUp:
			if event.Button == sdl.BUTTON_LEFT {
				g.dragging = false
			}
		case input.EventMouseMove:
			if g.dragging {
				g.camera.HandleDrag(float64(event.RelX), float64(event.RelY))
				g.moved = true
			}
		case input.EventMouseWheel:
			g.camera.HandleWheel(float64(event.WheelY))
		}
	}
}

func (g *Game) handleMovement(dt float64) {
	var forward, right, up float64
	if g.input.KeyHeld(sdl.SCANCODE_W) {
		forward++
	}
	if g.input.KeyHeld(sdl.SCANCODE_S) {
		forward--
	}
	if g.input.KeyHeld(sdl.SCANCODE_D) {
		right++
	}
	if g.input.KeyHeld(sdl.SCANCODE_A) {
		right--
	}
	if g.input.KeyHeld(sdl.SCANCODE_E) {
		up++
	}
	if g.input.KeyHeld(sdl.SCANCODE_Q) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		g.camera.Move(forward, right, up, dt)
		g.moved = true
	}
}

func (g *Game) resize(w, h int) error {
	if err := g.window.Resize(w, h); err != nil {
		return err
	}
	if err := g.buildRenderer(w, h); err != nil {
		return err
	}
	g.moved = true
	return nil
}

// Close releases the window.
func (g *Game) Close() {
	if g.window != nil {
		g.window.Close()
	}
}
