// Package game wires the engine pieces into the demo loop.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/veldtgames/skewline/internal/assets"
	"github.com/veldtgames/skewline/internal/config"
	"github.com/veldtgames/skewline/internal/engine/camera"
	"github.com/veldtgames/skewline/internal/engine/input"
	"github.com/veldtgames/skewline/internal/engine/lighting"
	"github.com/veldtgames/skewline/internal/engine/renderer"
	"github.com/veldtgames/skewline/internal/engine/scene"
	"github.com/veldtgames/skewline/internal/engine/sprite"
	"github.com/veldtgames/skewline/internal/engine/tilemap"
	"github.com/veldtgames/skewline/internal/engine/window"
	"github.com/veldtgames/skewline/internal/game/worldgen"
	"github.com/veldtgames/skewline/internal/logger"
	"github.com/veldtgames/skewline/pkg/geom"
)

// Game is the demo instance.
type Game struct {
	cfg     *config.Config
	running bool

	window      *window.Window
	device      *renderer.Device
	drawer      *scene.SpriteDrawer
	input       *input.Input
	assets      *assets.Manager
	sprites     *sprite.Manager
	tileMap     *tilemap.Map
	camera      *camera.IsoCamera
	lights      *lighting.Pool
	lightBuffer *lighting.Buffer

	dragging bool
}

// New creates the demo instance. The window and GL context exist after
// this returns.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:         cfg,
		input:       input.New(),
		lights:      lighting.NewPool(),
		lightBuffer: lighting.NewBuffer(),
	}

	var err error
	g.window, err = window.New(window.Config{
		Title:      "Skewline",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer after window, the GL context must exist.
	if err := g.createRenderer(); err != nil {
		g.window.Close()
		return nil, err
	}

	g.assets = assets.NewManager()
	for _, root := range cfg.Assets.Roots {
		if err := g.assets.AddRoot(root); err != nil {
			logger.Warn("skipping asset root", zap.Error(err))
		}
	}

	pageSize := cfg.Sprites.PageSize
	g.sprites = sprite.NewManager(g.device, assets.NewSpriteLoader(g.assets), geom.Pt(pageSize, pageSize))

	g.tileMap = g.loadMap()
	g.tileMap.LoadTiles(g.sprites)

	g.camera = camera.NewIsoCamera(cfg.Graphics.Width, cfg.Graphics.Height)
	g.camera.FitToMap(g.tileMap.CellWidth(), g.tileMap.CellHeight(), g.tileMap.TileSize())

	g.placeDemoLights()

	logger.Info("game initialized",
		zap.String("map", g.tileMap.Name()),
		zap.Int("sprites", g.sprites.SpriteCount()))
	return g, nil
}

func (g *Game) createRenderer() error {
	width, height := g.cfg.Graphics.Width, g.cfg.Graphics.Height
	device, err := renderer.New(width, height)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	drawer, err := scene.NewSpriteDrawer()
	if err != nil {
		return fmt.Errorf("failed to create sprite drawer: %w", err)
	}
	g.device = device
	g.drawer = drawer
	return nil
}

// loadMap reads the configured map description, falling back to a
// generated map when no name is configured or loading fails.
func (g *Game) loadMap() *tilemap.Map {
	if name := g.cfg.Map.Name; name != "" {
		data, err := g.assets.Load("maps/" + name + ".yaml")
		if err == nil {
			m, perr := tilemap.Parse(data)
			if perr == nil {
				return m
			}
			err = perr
		}
		logger.Warn("map unavailable, generating one instead",
			zap.String("map", name), zap.Error(err))
	}

	return worldgen.Generate(worldgen.Params{
		Name:     "generated",
		Width:    g.cfg.Map.Width,
		Height:   g.cfg.Map.Height,
		Seed:     g.cfg.Map.Seed,
		TileSize: geom.Vec3{X: 32, Y: 32, Z: 16},
	})
}

// placeDemoLights scatters a few warm lights over the map so the
// per-pixel lighting has something to show.
func (g *Game) placeDemoLights() {
	ts := g.tileMap.TileSize()
	stepX := float32(g.tileMap.CellWidth()) * ts.X / 4
	stepY := float32(g.tileMap.CellHeight()) * ts.Y / 8
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			g.lights.Add(lighting.PointLight{
				Position:  geom.Vec3{X: float32(i+1) * stepX, Y: float32(j+1) * stepY, Z: ts.Z * 2},
				Color:     [3]float32{1.0, 0.85, 0.6},
				Range:     ts.X * 8,
				Intensity: 1.2,
			})
		}
	}
}

// Run drives the main loop until quit.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if g.input.Update() {
			break
		}
		if err := g.handleEvents(); err != nil {
			return err
		}

		g.render()
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Float64("dtMs", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) handleEvents() error {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.device.Resize(event.Width, event.Height)
			g.camera.SetViewport(event.Width, event.Height)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				g.running = false
			case sdl.SCANCODE_F11:
				if err := g.toggleFullscreen(); err != nil {
					return err
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
				g.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}
		case input.EventMouseWheel:
			g.camera.HandleZoom(event.WheelY)
		}
	}
	return nil
}

// toggleFullscreen recreates the GL context and walks the sprite manager
// through its renderer-switch protocol so every page is rebuilt on the
// new device.
func (g *Game) toggleFullscreen() error {
	g.sprites.PrepareForRendererSwitch()
	g.drawer.Destroy()

	g.cfg.Graphics.Fullscreen = !g.cfg.Graphics.Fullscreen
	g.window.SetFullscreen(g.cfg.Graphics.Fullscreen)
	if err := g.window.RecreateContext(); err != nil {
		return err
	}
	if err := g.createRenderer(); err != nil {
		return err
	}
	if err := g.sprites.SwitchRenderer(g.device); err != nil {
		return fmt.Errorf("renderer switch: %w", err)
	}

	width, height := g.window.Size()
	g.device.Resize(width, height)
	g.camera.SetViewport(width, height)
	return nil
}

func (g *Game) render() {
	g.device.Begin()

	view := g.camera.ViewRect()
	center := view.Center()
	focus := geom.Vec3{X: center.X, Y: center.Y}
	radius := center.Distance(view.Min)
	g.lights.Select(focus, radius, g.lightBuffer)

	g.drawer.SetViewProjection(g.camera.ViewProjection())
	g.drawer.SetSunDirection(lighting.SunDirection(30, 55))
	g.drawer.SetLights(g.lightBuffer)

	tilemap.NewMapRenderer(g.tileMap, g.drawer, g.camera, nil).Draw()
}

// Close cleans up game resources.
func (g *Game) Close() {
	logger.Info("closing game")
	if g.tileMap != nil {
		g.tileMap.DeleteTiles()
	}
	if g.sprites != nil {
		g.sprites.Destroy()
	}
	if g.drawer != nil {
		g.drawer.Destroy()
	}
	if g.assets != nil {
		g.assets.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
