// Package tilemap provides the height-mapped tile grid and its renderer.
//
// A map is a 2D grid of cells; each cell stacks zero or more tile layers
// bottom-to-top. For ground queries cell (x, y) occupies the world
// rectangle [x*tileSize.X, (x+1)*tileSize.X) x [y*tileSize.Y,
// (y+1)*tileSize.Y); the isometric shear is applied only when mapping
// cells to the screen inside MapRenderer.
package tilemap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/veldtgames/skewline/internal/engine/sprite"
	"github.com/veldtgames/skewline/internal/engine/tileshape"
	"github.com/veldtgames/skewline/internal/logger"
	"github.com/veldtgames/skewline/pkg/geom"
)

// AirLayer is the layer-index sentinel for "no tile at this layer".
const AirLayer = uint16(0xFFFF)

// MaxLayerCount is the largest representable cell layer count.
const MaxLayerCount = 0xFFFF

// Tile is one deduplicated tile type. The sprite is loaded lazily through
// LoadTiles and may stay nil when its asset is missing; such tiles simply
// draw nothing.
type Tile struct {
	Name   string
	Shape  tileshape.Shape
	Sprite *sprite.Sprite
}

// Cell is a view into the map's shared layer-index array.
type Cell struct {
	layerStart uint32
	layerCount uint16
}

// LayerCount returns the number of layer slots the cell holds.
func (c Cell) LayerCount() int {
	return int(c.layerCount)
}

// Map is a grid of multi-layer cells over a shared tile table.
type Map struct {
	name string

	cellWidth  int
	cellHeight int
	tileSize   geom.Vec3

	cells        []Cell
	layerIndices []uint16
	tiles        []Tile

	maxLayerCount int
}

// NewMap creates an empty map with fixed grid dimensions. Populate it once
// with SetTiles and PopulateCells before use.
func NewMap(name string, cellWidth, cellHeight int, tileSize geom.Vec3) *Map {
	if cellWidth <= 0 || cellHeight <= 0 {
		panic(fmt.Sprintf("tilemap: invalid grid %dx%d", cellWidth, cellHeight))
	}
	if tileSize.X <= 0 || tileSize.Y <= 0 || tileSize.Z <= 0 {
		panic(fmt.Sprintf("tilemap: invalid tile size %+v", tileSize))
	}
	return &Map{
		name:       name,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		tileSize:   tileSize,
		cells:      make([]Cell, cellWidth*cellHeight),
	}
}

// Name returns the map name.
func (m *Map) Name() string { return m.name }

// CellWidth returns the grid width in cells.
func (m *Map) CellWidth() int { return m.cellWidth }

// CellHeight returns the grid height in cells.
func (m *Map) CellHeight() int { return m.cellHeight }

// TileSize returns the world extent of one tile slot.
func (m *Map) TileSize() geom.Vec3 { return m.tileSize }

// MaxLayerCount returns the tallest cell's layer count.
func (m *Map) MaxLayerCount() int { return m.maxLayerCount }

// SetTiles installs the deduplicated tile table.
func (m *Map) SetTiles(tiles []Tile) {
	m.tiles = tiles
}

// Tiles returns the tile table.
func (m *Map) Tiles() []Tile {
	return m.tiles
}

// PopulateCells fills the grid from per-row, per-cell layer lists
// (bottom-to-top). Entries of -1 mean air; indices outside the tile table
// are replaced with air under a warning. Layer counts beyond the
// representable range are clamped, also under a warning. Must be called
// exactly once, after SetTiles.
func (m *Map) PopulateCells(rows [][][]int) {
	if len(rows) != m.cellHeight {
		panic(fmt.Sprintf("tilemap: %d rows for a %d-row grid", len(rows), m.cellHeight))
	}

	for y, row := range rows {
		if len(row) != m.cellWidth {
			panic(fmt.Sprintf("tilemap: row %d has %d cells, want %d", y, len(row), m.cellWidth))
		}
		for x, layers := range row {
			if len(layers) > MaxLayerCount {
				logger.Warn("cell layer count clamped",
					zap.String("map", m.name),
					zap.Int("x", x), zap.Int("y", y),
					zap.Int("count", len(layers)))
				layers = layers[:MaxLayerCount]
			}

			cell := &m.cells[y*m.cellWidth+x]
			cell.layerStart = uint32(len(m.layerIndices))
			cell.layerCount = uint16(len(layers))

			for _, idx := range layers {
				if idx < 0 {
					m.layerIndices = append(m.layerIndices, AirLayer)
					continue
				}
				if idx >= len(m.tiles) {
					logger.Warn("tile index out of range, treating as air",
						zap.String("map", m.name),
						zap.Int("x", x), zap.Int("y", y), zap.Int("index", idx))
					m.layerIndices = append(m.layerIndices, AirLayer)
					continue
				}
				m.layerIndices = append(m.layerIndices, uint16(idx))
			}

			if int(cell.layerCount) > m.maxLayerCount {
				m.maxLayerCount = int(cell.layerCount)
			}
		}
	}
}

// CellAt returns the cell at grid coordinates, ok=false outside bounds.
func (m *Map) CellAt(x, y int) (Cell, bool) {
	if x < 0 || y < 0 || x >= m.cellWidth || y >= m.cellHeight {
		return Cell{}, false
	}
	return m.cells[y*m.cellWidth+x], true
}

// TileAt returns the tile at a cell layer, or nil for air, out-of-bounds
// coordinates or layers.
func (m *Map) TileAt(x, y, layer int) *Tile {
	cell, ok := m.CellAt(x, y)
	if !ok {
		return nil
	}
	return m.tileInCell(cell, layer)
}

func (m *Map) tileInCell(cell Cell, layer int) *Tile {
	if layer < 0 || layer >= int(cell.layerCount) {
		return nil
	}
	idx := m.layerIndices[int(cell.layerStart)+layer]
	if idx == AirLayer {
		return nil
	}
	return &m.tiles[idx]
}

// HasGroundAtLayer reports whether a cell layer offers standable ground:
// any non-flat tile, or a flat tile with nothing directly above it.
func (m *Map) HasGroundAtLayer(x, y, layer int) bool {
	tile := m.TileAt(x, y, layer)
	if tile == nil {
		return false
	}
	if tile.Shape != tileshape.Flat {
		return true
	}
	return m.TileAt(x, y, layer+1) == nil
}

// LoadTiles resolves every tile's sprite through the sprite manager.
// Missing sprites are logged and left nil.
func (m *Map) LoadTiles(sprites *sprite.Manager) {
	for i := range m.tiles {
		t := &m.tiles[i]
		if t.Sprite != nil {
			continue
		}
		t.Sprite = sprites.Load(t.Name)
		if t.Sprite == nil {
			logger.Warn("tile sprite unavailable, tile will not draw",
				zap.String("map", m.name), zap.String("tile", t.Name))
		}
	}
}

// DeleteTiles releases every tile sprite. The map structure stays intact
// and tiles can be reloaded later.
func (m *Map) DeleteTiles() {
	deleted := make(map[*sprite.Sprite]bool)
	for i := range m.tiles {
		t := &m.tiles[i]
		if t.Sprite == nil {
			continue
		}
		// Tiles may share a sprite when their names alias.
		if !deleted[t.Sprite] {
			deleted[t.Sprite] = true
			t.Sprite.Delete()
		}
		t.Sprite = nil
	}
}
