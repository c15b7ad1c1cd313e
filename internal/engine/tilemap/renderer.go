package tilemap

import (
	"math"

	"github.com/veldtgames/skewline/internal/engine/sprite"
	"github.com/veldtgames/skewline/internal/engine/tileshape"
	"github.com/veldtgames/skewline/pkg/geom"
)

// SpriteDrawer is the drawing collaborator MapRenderer submits tiles to.
// Draw calls are only valid between StartDrawing and StopDrawing; nesting
// start calls is a contract violation on the implementation's side.
type SpriteDrawer interface {
	StartDrawing()
	StopDrawing()
	SetClipBounds(bounds geom.Box)
	DrawSprite(s *sprite.Sprite, position geom.Vec3, zRotation float32)
}

// Camera supplies the world-space rectangle currently in view.
type Camera interface {
	ViewRect() geom.Rect2
}

// CellDrawFunc is invoked once per visited cell layer (and once more above
// the topmost layer) so the caller can draw entities standing there. The
// drawer's clip bounds are already set to the layer's box.
type CellDrawFunc func(cellX, cellY, layer int, bounds geom.Box)

// drawAreaPadding widens the visible cell rectangle to compensate for the
// shear between cell and world coordinates.
const drawAreaPadding = 2

// MapRenderer walks the visible part of a map in screen-row order and
// draws tiles through a SpriteDrawer, interleaved with a per-cell
// callback. It is cheap to construct and meant to live for one Draw call.
type MapRenderer struct {
	tileMap  *Map
	drawer   SpriteDrawer
	camera   Camera
	drawCell CellDrawFunc
}

// NewMapRenderer prepares a renderer for one frame.
func NewMapRenderer(m *Map, drawer SpriteDrawer, camera Camera, drawCell CellDrawFunc) *MapRenderer {
	if m == nil || drawer == nil || camera == nil {
		panic("tilemap: map renderer needs a map, a drawer and a camera")
	}
	return &MapRenderer{tileMap: m, drawer: drawer, camera: camera, drawCell: drawCell}
}

// Draw renders every visible cell. Sprite-drawing mode is stopped again
// even when a draw callback panics.
func (r *MapRenderer) Draw() {
	r.drawer.StartDrawing()
	defer r.drawer.StopDrawing()

	area := r.drawArea()

	// Cell rows sit half a tile apart on screen and shear eastwards by
	// half a tile every other row. The two strip counters track the
	// accumulated shear so cell and world coordinates stay in lockstep.
	xStrip := area.Min.X + area.Min.Y/2
	yStrip := -((area.Min.Y + 1) / 2)

	for cellY := area.Min.Y; cellY < area.Max.Y; cellY++ {
		for cellX := area.Min.X; cellX < area.Max.X; cellX++ {
			r.drawCellAt(cellX, cellY, xStrip+(cellX-area.Min.X), yStrip)
		}
		xStrip += cellY % 2
		yStrip -= 1 - cellY%2
	}
}

// drawArea converts the camera view rectangle into a clamped cell
// rectangle, extended on the far side so tall stacks below the view still
// reach into it.
func (r *MapRenderer) drawArea() geom.Rect {
	view := r.camera.ViewRect()
	ts := r.tileMap.TileSize()
	halfH := ts.Y * 0.5
	stackHeight := float32(r.tileMap.MaxLayerCount()) * ts.Z

	minY := int(math.Floor(float64(view.Min.Y/halfH))) - drawAreaPadding
	maxY := int(math.Ceil(float64((view.Max.Y+stackHeight)/halfH))) + drawAreaPadding

	// The shear shifts row y east by y/2 cells, so the X range has to
	// account for the whole visited row span.
	minX := int(math.Floor(float64(view.Min.X/ts.X))) - maxY/2 - drawAreaPadding
	maxX := int(math.Ceil(float64(view.Max.X/ts.X))) - minY/2 + drawAreaPadding

	area := geom.Rct(minX, minY, maxX, maxY)
	return area.Intersect(geom.Rct(0, 0, r.tileMap.CellWidth(), r.tileMap.CellHeight()))
}

// cellOrigin returns the world position of a cell's north-west corner
// given its strip coordinates.
func (r *MapRenderer) cellOrigin(cellY, xStrip, yStrip int) geom.Vec2 {
	ts := r.tileMap.TileSize()
	odd := float32(cellY & 1)
	return geom.Vec2{
		X: (float32(xStrip) + 0.5*odd) * ts.X,
		Y: (float32(-yStrip)*2 - odd) * ts.Y * 0.5,
	}
}

func (r *MapRenderer) drawCellAt(cellX, cellY, xStrip, yStrip int) {
	cell, ok := r.tileMap.CellAt(cellX, cellY)
	if !ok {
		return
	}

	ts := r.tileMap.TileSize()
	origin := r.cellOrigin(cellY, xStrip, yStrip)

	topLayer := -1
	for layer := 0; layer < cell.LayerCount(); layer++ {
		tile := r.tileMap.tileInCell(cell, layer)
		if tile == nil {
			continue
		}
		topLayer = layer

		bounds := geom.Box{
			Min: geom.Vec3{X: origin.X, Y: origin.Y, Z: float32(layer) * ts.Z},
			Max: geom.Vec3{X: origin.X + ts.X, Y: origin.Y + ts.Y, Z: float32(layer+1) * ts.Z},
		}

		above, diagonals := r.obscuredAt(cellX, cellY, layer)
		if above && diagonals {
			continue
		}

		tileBounds := bounds
		if diagonals && tile.Shape == tileshape.Flat {
			// The diagonal neighbors hide the tile's lower pixels,
			// only the top surface can show through.
			tileBounds.Min.Z = tileBounds.Max.Z - ts.Z*0.5
		}

		position := geom.Vec3{X: origin.X, Y: origin.Y, Z: float32(layer) * ts.Z}
		if tile.Shape != tileshape.Flat {
			r.drawTile(tile, tileBounds, position)
			r.callDrawCell(cellX, cellY, layer, bounds)
		} else {
			r.callDrawCell(cellX, cellY, layer, bounds)
			r.drawTile(tile, tileBounds, position)
		}
	}

	// One more pass above the stack for anything floating over it.
	top := geom.Box{
		Min: geom.Vec3{X: origin.X, Y: origin.Y, Z: float32(topLayer+1) * ts.Z},
		Max: geom.Vec3{X: origin.X + ts.X, Y: origin.Y + ts.Y, Z: float32(r.tileMap.MaxLayerCount()+1) * ts.Z},
	}
	r.callDrawCell(cellX, cellY, topLayer+1, top)
}

func (r *MapRenderer) drawTile(tile *Tile, bounds geom.Box, position geom.Vec3) {
	if tile.Sprite == nil {
		return
	}
	r.drawer.SetClipBounds(bounds)
	r.drawer.DrawSprite(tile.Sprite, position, 0)
}

func (r *MapRenderer) callDrawCell(cellX, cellY, layer int, bounds geom.Box) {
	if r.drawCell == nil {
		return
	}
	r.drawer.SetClipBounds(bounds)
	r.drawCell(cellX, cellY, layer, bounds)
}

// CullTile reports whether the tile at a cell layer is fully hidden by
// the tile above it together with both lower-screen diagonal neighbors.
// Border cells are never culled so map edges stay intact.
func (r *MapRenderer) CullTile(cellX, cellY, layer int) bool {
	above, diagonals := r.obscuredAt(cellX, cellY, layer)
	return above && diagonals
}

// obscuredAt splits the occlusion test into the above-neighbor part and
// the diagonal-neighbor part; the flat clip shrink needs them separately.
func (r *MapRenderer) obscuredAt(cellX, cellY, layer int) (above, diagonals bool) {
	m := r.tileMap
	if cellY == 0 || cellX == 0 || cellX == m.cellWidth-1 {
		return false, false
	}

	aboveTile := m.TileAt(cellX, cellY, layer+1)
	above = aboveTile != nil && tileshape.ObscuresFromAbove(aboveTile.Shape)

	// On the staggered grid the two cells below on screen are the
	// south-west and south-east diagonal neighbors.
	odd := cellY & 1
	sw := m.TileAt(cellX-1+odd, cellY+1, layer)
	se := m.TileAt(cellX+odd, cellY+1, layer)
	diagonals = sw != nil && tileshape.ObscuresDiagonal(sw.Shape) &&
		se != nil && tileshape.ObscuresDiagonal(se.Shape)
	return above, diagonals
}
