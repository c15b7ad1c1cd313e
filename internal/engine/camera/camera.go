// Package camera provides the 2D camera for the isometric view.
package camera

import (
	"github.com/veldtgames/skewline/pkg/geom"
)

// IsoCamera frames a world-space rectangle around a center point. Zoom is
// expressed in screen pixels per world unit, so the visible world area
// shrinks as zoom grows.
type IsoCamera struct {
	// Center of the view in world coordinates
	CenterX, CenterY float32

	// Viewport size in pixels
	ViewportWidth, ViewportHeight int

	Zoom    float32
	MinZoom float32
	MaxZoom float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewIsoCamera creates a camera with default settings for a viewport.
func NewIsoCamera(viewportWidth, viewportHeight int) *IsoCamera {
	return &IsoCamera{
		ViewportWidth:   viewportWidth,
		ViewportHeight:  viewportHeight,
		Zoom:            2.0,
		MinZoom:         0.5,
		MaxZoom:         8.0,
		DragSensitivity: 1.0,
		ZoomSensitivity: 0.1,
	}
}

// SetViewport updates the viewport size after a window resize.
func (c *IsoCamera) SetViewport(width, height int) {
	c.ViewportWidth = width
	c.ViewportHeight = height
}

// SetCenter moves the view center to a world position.
func (c *IsoCamera) SetCenter(x, y float32) {
	c.CenterX = x
	c.CenterY = y
}

// HandleDrag pans the view by a mouse delta in pixels.
func (c *IsoCamera) HandleDrag(deltaX, deltaY float32) {
	c.CenterX -= deltaX * c.DragSensitivity / c.Zoom
	c.CenterY -= deltaY * c.DragSensitivity / c.Zoom
}

// HandleZoom changes the zoom based on scroll wheel delta, keeping the
// view center fixed.
func (c *IsoCamera) HandleZoom(delta float32) {
	c.Zoom += delta * c.Zoom * c.ZoomSensitivity
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}

// ViewRect returns the visible world rectangle.
func (c *IsoCamera) ViewRect() geom.Rect2 {
	halfW := float32(c.ViewportWidth) * 0.5 / c.Zoom
	halfH := float32(c.ViewportHeight) * 0.5 / c.Zoom
	return geom.Rect2{
		Min: geom.Vec2{X: c.CenterX - halfW, Y: c.CenterY - halfH},
		Max: geom.Vec2{X: c.CenterX + halfW, Y: c.CenterY + halfH},
	}
}

// ViewProjection returns the orthographic matrix mapping the visible
// world rectangle to clip space, with world Y growing downwards on
// screen.
func (c *IsoCamera) ViewProjection() geom.Mat4 {
	view := c.ViewRect()
	return geom.Ortho(view.Min.X, view.Max.X, view.Max.Y, view.Min.Y, -4096, 4096)
}

// FitToMap centers the camera on a cell grid and zooms out far enough to
// show all of it. Rows overlap by half a tile on screen, so the grid's
// world height is half its naive extent.
func (c *IsoCamera) FitToMap(cellWidth, cellHeight int, tileSize geom.Vec3) {
	worldW := float32(cellWidth) * tileSize.X
	worldH := float32(cellHeight) * tileSize.Y * 0.5
	c.CenterX = worldW * 0.5
	c.CenterY = worldH * 0.5

	if worldW <= 0 || worldH <= 0 {
		return
	}
	zoomX := float32(c.ViewportWidth) / worldW
	zoomY := float32(c.ViewportHeight) / worldH
	c.Zoom = zoomX
	if zoomY < c.Zoom {
		c.Zoom = zoomY
	}
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}
