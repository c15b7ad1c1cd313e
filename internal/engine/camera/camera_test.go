package camera

import (
	"testing"

	"github.com/veldtgames/skewline/pkg/geom"
)

func TestViewRectCenteredOnCamera(t *testing.T) {
	c := NewIsoCamera(800, 600)
	c.SetCenter(100, 50)
	c.Zoom = 2

	view := c.ViewRect()
	if view.Dx() != 400 || view.Dy() != 300 {
		t.Fatalf("view extent = %vx%v, want 400x300", view.Dx(), view.Dy())
	}
	center := view.Center()
	if center.X != 100 || center.Y != 50 {
		t.Fatalf("view center = %v, want (100, 50)", center)
	}
}

func TestHandleDragMovesAgainstDelta(t *testing.T) {
	c := NewIsoCamera(800, 600)
	c.Zoom = 2
	c.HandleDrag(10, -20)
	if c.CenterX != -5 || c.CenterY != 10 {
		t.Fatalf("center = (%v, %v), want (-5, 10)", c.CenterX, c.CenterY)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewIsoCamera(800, 600)
	for i := 0; i < 100; i++ {
		c.HandleZoom(5)
	}
	if c.Zoom != c.MaxZoom {
		t.Errorf("zoom = %v after zooming in, want clamp at %v", c.Zoom, c.MaxZoom)
	}
	for i := 0; i < 100; i++ {
		c.HandleZoom(-5)
	}
	if c.Zoom != c.MinZoom {
		t.Errorf("zoom = %v after zooming out, want clamp at %v", c.Zoom, c.MinZoom)
	}
}

func TestFitToMapCoversGrid(t *testing.T) {
	c := NewIsoCamera(640, 480)
	c.MinZoom = 0.01
	c.FitToMap(20, 20, geom.Vec3{X: 32, Y: 32, Z: 16})

	view := c.ViewRect()
	if view.Min.X > 0 || view.Max.X < 20*32 {
		t.Errorf("view %v does not span the grid width", view)
	}
	if view.Min.Y > 0 || view.Max.Y < 20*16 {
		t.Errorf("view %v does not span the grid height", view)
	}
}
