// Package worldgen builds demo maps from layered perlin noise.
package worldgen

import (
	"math"

	"github.com/aquilax/go-perlin"
	"go.uber.org/zap"

	"github.com/veldtgames/skewline/internal/engine/tilemap"
	"github.com/veldtgames/skewline/internal/engine/tileshape"
	"github.com/veldtgames/skewline/internal/logger"
	"github.com/veldtgames/skewline/pkg/geom"
)

const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
	noiseScale   = 0.08

	// Terrain rises at most this many tile layers above the base layer.
	reliefLayers = 4
)

// Params configure a generated map.
type Params struct {
	Name     string
	Width    int
	Height   int
	Seed     int64
	TileSize geom.Vec3
}

// Generate builds a height-mapped map from perlin noise. Columns are
// filled with dirt up to the sampled height and topped with grass; where
// a column steps down towards a neighbor the top tile becomes the
// matching slope so the terrain reads as connected.
func Generate(params Params) *tilemap.Map {
	if params.Width <= 0 || params.Height <= 0 {
		panic("worldgen: invalid map dimensions")
	}
	ts := params.TileSize
	if ts.X <= 0 {
		ts = geom.Vec3{X: 32, Y: 32, Z: 16}
	}

	noise := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, params.Seed)
	heights := sampleHeights(noise, params.Width, params.Height)

	builder := newTileTable()
	rows := make([][][]int, params.Height)
	for y := 0; y < params.Height; y++ {
		rows[y] = make([][]int, params.Width)
		for x := 0; x < params.Width; x++ {
			rows[y][x] = buildColumn(builder, heights, x, y, params.Width, params.Height)
		}
	}

	m := tilemap.NewMap(params.Name, params.Width, params.Height, ts)
	m.SetTiles(builder.tiles)
	m.PopulateCells(rows)

	logger.Info("map generated",
		zap.String("map", params.Name),
		zap.Int64("seed", params.Seed),
		zap.Int("width", params.Width),
		zap.Int("height", params.Height),
		zap.Int("tileTypes", len(builder.tiles)))
	return m
}

// sampleHeights maps noise in [-1, 1] to layer counts in [1, 1+reliefLayers].
func sampleHeights(noise *perlin.Perlin, width, height int) [][]int {
	heights := make([][]int, height)
	for y := range heights {
		heights[y] = make([]int, width)
		for x := range heights[y] {
			n := noise.Noise2D(float64(x)*noiseScale, float64(y)*noiseScale)
			h := 1 + int(math.Round((n+1)*0.5*reliefLayers))
			if h < 1 {
				h = 1
			}
			if h > 1+reliefLayers {
				h = 1 + reliefLayers
			}
			heights[y][x] = h
		}
	}
	return heights
}

// buildColumn stacks dirt below a surface tile chosen from the height
// difference to the cardinal neighbors.
func buildColumn(table *tileTable, heights [][]int, x, y, width, height int) []int {
	h := heights[y][x]
	column := make([]int, 0, h)
	for layer := 0; layer < h-1; layer++ {
		column = append(column, table.index("dirt-flat"))
	}
	column = append(column, table.index(surfaceTile(heights, x, y, width, height)))
	return column
}

// surfaceTile picks the top tile name. A single neighbor exactly one
// layer up turns the surface into the slope rising towards it; everything
// else stays flat grass.
func surfaceTile(heights [][]int, x, y, width, height int) string {
	h := heights[y][x]
	higher := func(nx, ny int) bool {
		if nx < 0 || ny < 0 || nx >= width || ny >= height {
			return false
		}
		return heights[ny][nx] == h+1
	}

	n := higher(x, y-1)
	e := higher(x+1, y)
	s := higher(x, y+1)
	w := higher(x-1, y)

	// Shape choice follows the height-field table: SlopeNW rises
	// eastwards, SlopeSE westwards, SlopeNE southwards, SlopeSW
	// northwards.
	switch {
	case n && !e && !s && !w:
		return "grass-" + tileshape.SlopeSW.String()
	case e && !n && !s && !w:
		return "grass-" + tileshape.SlopeNW.String()
	case s && !n && !e && !w:
		return "grass-" + tileshape.SlopeNE.String()
	case w && !n && !e && !s:
		return "grass-" + tileshape.SlopeSE.String()
	}
	return "grass-" + tileshape.Flat.String()
}

// tileTable deduplicates tile names into a tile slice.
type tileTable struct {
	tiles   []tilemap.Tile
	indices map[string]int
}

func newTileTable() *tileTable {
	return &tileTable{indices: make(map[string]int)}
}

func (t *tileTable) index(name string) int {
	if idx, ok := t.indices[name]; ok {
		return idx
	}
	shape, ok := tileshape.FromSuffix(name)
	if !ok {
		shape = tileshape.Flat
		logger.Warn("tile name has no shape suffix, using flat",
			zap.String("tile", name))
	}
	idx := len(t.tiles)
	t.tiles = append(t.tiles, tilemap.Tile{Name: name, Shape: shape})
	t.indices[name] = idx
	return idx
}
