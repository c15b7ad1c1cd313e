package tilemap

import (
	"iter"
	"math"

	"github.com/veldtgames/skewline/internal/engine/tileshape"
	"github.com/veldtgames/skewline/pkg/geom"
)

// GroundDescription is one walkable surface at a world position.
type GroundDescription struct {
	Valid  bool
	Layer  int
	Height float32
	Normal geom.Vec3
}

// NoGround is returned by queries that found no walkable surface.
var NoGround = GroundDescription{}

// worldToCell maps a world position to its cell and the position local to
// that cell. ok is false outside the grid.
func (m *Map) worldToCell(world geom.Vec2) (cellX, cellY int, local geom.Vec2, ok bool) {
	fx := world.X / m.tileSize.X
	fy := world.Y / m.tileSize.Y
	cellX = int(math.Floor(float64(fx)))
	cellY = int(math.Floor(float64(fy)))
	if cellX < 0 || cellY < 0 || cellX >= m.cellWidth || cellY >= m.cellHeight {
		return 0, 0, geom.Vec2{}, false
	}
	local = geom.Vec2{
		X: world.X - float32(cellX)*m.tileSize.X,
		Y: world.Y - float32(cellY)*m.tileSize.Y,
	}
	return cellX, cellY, local, true
}

// GroundLevelsAt yields every walkable surface under a world position in
// ascending layer order. Flat tiles with a tile directly above them are
// skipped; shaped tiles always count. The sequence is finite and can be
// iterated more than once.
func (m *Map) GroundLevelsAt(world geom.Vec2) iter.Seq[GroundDescription] {
	return func(yield func(GroundDescription) bool) {
		cellX, cellY, local, ok := m.worldToCell(world)
		if !ok {
			return
		}
		cell := m.cells[cellY*m.cellWidth+cellX]
		for layer := 0; layer < int(cell.layerCount); layer++ {
			tile := m.tileInCell(cell, layer)
			if tile == nil {
				continue
			}

			base := float32(layer) * m.tileSize.Z
			var gd GroundDescription
			if tile.Shape == tileshape.Flat {
				if m.tileInCell(cell, layer+1) != nil {
					continue
				}
				gd = GroundDescription{
					Valid:  true,
					Layer:  layer,
					Height: base + tileshape.FlatHeight(m.tileSize),
					Normal: tileshape.NormalUp,
				}
			} else {
				s := tileshape.Query(tile.Shape, local.X, local.Y, m.tileSize)
				gd = GroundDescription{
					Valid:  true,
					Layer:  layer,
					Height: base + s.Height,
					Normal: s.Normal,
				}
			}
			if !yield(gd) {
				return
			}
		}
	}
}

// GroundAt returns the topmost walkable surface at a world position, or
// NoGround when the cell offers none.
func (m *Map) GroundAt(world geom.Vec2) GroundDescription {
	result := NoGround
	for gd := range m.GroundLevelsAt(world) {
		result = gd
	}
	return result
}

// NeighborGround returns the walkable surface at a world position whose
// height is closest to a reference height, for stepping between adjacent
// cells. NoGround when the position has no surface at all.
func (m *Map) NeighborGround(refHeight float32, world geom.Vec2) GroundDescription {
	best := NoGround
	bestDist := float32(math.Inf(1))
	for gd := range m.GroundLevelsAt(world) {
		dist := gd.Height - refHeight
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best = gd
			bestDist = dist
		}
	}
	return best
}
