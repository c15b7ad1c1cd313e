package tilemap

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/veldtgames/skewline/internal/engine/tileshape"
	"github.com/veldtgames/skewline/internal/logger"
	"github.com/veldtgames/skewline/pkg/geom"
)

// descriptionVersion is the only map file format revision we read.
const descriptionVersion = 1

type mapDescription struct {
	Version  int       `yaml:"version"`
	Name     string    `yaml:"name"`
	Width    int       `yaml:"width"`
	Height   int       `yaml:"height"`
	TileSize vec3Desc  `yaml:"tile_size"`
	Tiles    []string  `yaml:"tiles"`
	Cells    [][][]int `yaml:"cells"`
}

type vec3Desc struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// Parse builds a map from a YAML description. Tile shapes are derived from
// the tile name suffix, so "rock-cliff-n" is a north cliff while names
// without a shape suffix stay flat. Structural problems fail the whole
// load; individual bad cell entries only degrade to air.
func Parse(data []byte) (*Map, error) {
	var desc mapDescription
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parsing map description: %w", err)
	}

	if desc.Version != descriptionVersion {
		return nil, fmt.Errorf("unsupported map version %d, want %d", desc.Version, descriptionVersion)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("map %q has invalid dimensions %dx%d", desc.Name, desc.Width, desc.Height)
	}
	if desc.TileSize.X <= 0 || desc.TileSize.Y <= 0 || desc.TileSize.Z <= 0 {
		return nil, fmt.Errorf("map %q has invalid tile size %+v", desc.Name, desc.TileSize)
	}
	if len(desc.Cells) != desc.Height {
		return nil, fmt.Errorf("map %q has %d cell rows, want %d", desc.Name, len(desc.Cells), desc.Height)
	}
	for y, row := range desc.Cells {
		if len(row) != desc.Width {
			return nil, fmt.Errorf("map %q row %d has %d cells, want %d", desc.Name, y, len(row), desc.Width)
		}
	}

	tiles := make([]Tile, len(desc.Tiles))
	seen := make(map[string]bool, len(desc.Tiles))
	for i, name := range desc.Tiles {
		if name == "" {
			return nil, fmt.Errorf("map %q tile %d has an empty name", desc.Name, i)
		}
		if seen[name] {
			logger.Warn("duplicate tile entry",
				zap.String("map", desc.Name), zap.String("tile", name))
		}
		seen[name] = true

		shape, ok := tileshape.FromSuffix(name)
		if !ok {
			shape = tileshape.Flat
			logger.Warn("tile name has no shape suffix, using flat",
				zap.String("map", desc.Name), zap.String("tile", name))
		}
		tiles[i] = Tile{Name: name, Shape: shape}
	}

	tileSize := geom.Vec3{X: desc.TileSize.X, Y: desc.TileSize.Y, Z: desc.TileSize.Z}
	m := NewMap(desc.Name, desc.Width, desc.Height, tileSize)
	m.SetTiles(tiles)
	m.PopulateCells(desc.Cells)

	logger.Info("map loaded",
		zap.String("map", desc.Name),
		zap.Int("width", desc.Width),
		zap.Int("height", desc.Height),
		zap.Int("tiles", len(tiles)),
		zap.Int("maxLayers", m.MaxLayerCount()))
	return m, nil
}
