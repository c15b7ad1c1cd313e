package assets

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/veldtgames/skewline/internal/engine/gfx"
	"github.com/veldtgames/skewline/internal/engine/sprite"
	"github.com/veldtgames/skewline/pkg/geom"
)

// spriteDescVersion is the only sprite file format revision we read.
const spriteDescVersion = 1

type spriteDesc struct {
	Version     int          `yaml:"version"`
	Size        vec2Desc     `yaml:"size"`
	OffsetScale float32      `yaml:"offset_scale"`
	BoundingBox boxDesc      `yaml:"bounding_box"`
	Facings     []facingDesc `yaml:"facings"`
}

type facingDesc struct {
	Rotation float32 `yaml:"rotation"`
	Diffuse  string  `yaml:"diffuse"`
	Normal   string  `yaml:"normal"`
	Offset   string  `yaml:"offset"`
}

type vec2Desc struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

type vec3Desc struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

type boxDesc struct {
	Min vec3Desc `yaml:"min"`
	Max vec3Desc `yaml:"max"`
}

// SpriteLoader resolves sprite names to their YAML descriptions and layer
// images. It implements sprite.DescriptionLoader.
type SpriteLoader struct {
	manager *Manager
}

// NewSpriteLoader wraps an asset manager for sprite loading.
func NewSpriteLoader(manager *Manager) *SpriteLoader {
	return &SpriteLoader{manager: manager}
}

// LoadSpriteDescription loads "sprites/<name>.yaml" and its referenced
// layer images. Image paths inside the description are relative to the
// asset roots.
func (l *SpriteLoader) LoadSpriteDescription(name string) (*sprite.Description, error) {
	data, err := l.manager.Load("sprites/" + name + ".yaml")
	if err != nil {
		return nil, err
	}

	var desc spriteDesc
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("%w: sprite %s: %v", ErrBadFormat, name, err)
	}
	if desc.Version != spriteDescVersion {
		return nil, fmt.Errorf("%w: sprite %s: unsupported version %d", ErrBadFormat, name, desc.Version)
	}
	if len(desc.Facings) == 0 {
		return nil, fmt.Errorf("%w: sprite %s: no facings", ErrBadFormat, name)
	}

	result := &sprite.Description{
		Size:        geom.Vec2{X: desc.Size.X, Y: desc.Size.Y},
		OffsetScale: desc.OffsetScale,
		BoundingBox: geom.Bx(
			desc.BoundingBox.Min.X, desc.BoundingBox.Min.Y, desc.BoundingBox.Min.Z,
			desc.BoundingBox.Max.X, desc.BoundingBox.Max.Y, desc.BoundingBox.Max.Z,
		),
		Facings: make([]sprite.FacingDescription, 0, len(desc.Facings)),
	}

	for i, f := range desc.Facings {
		if f.Diffuse == "" || f.Normal == "" || f.Offset == "" {
			return nil, fmt.Errorf("%w: sprite %s: facing %d misses a layer path", ErrBadFormat, name, i)
		}
		diffuse, err := l.loadLayer(f.Diffuse, gfx.FormatRGBA)
		if err != nil {
			return nil, err
		}
		normal, err := l.loadLayer(f.Normal, gfx.FormatRGB)
		if err != nil {
			return nil, err
		}
		offset, err := l.loadLayer(f.Offset, gfx.FormatRGB)
		if err != nil {
			return nil, err
		}
		result.Facings = append(result.Facings, sprite.FacingDescription{
			// Descriptions store rotation in degrees, the engine works
			// in radians.
			ZRotation: f.Rotation * math.Pi / 180,
			Diffuse:   diffuse,
			Normal:    normal,
			Offset:    offset,
		})
	}
	return result, nil
}

func (l *SpriteLoader) loadLayer(path string, format gfx.Format) (*gfx.Image, error) {
	data, err := l.manager.Load(path)
	if err != nil {
		return nil, err
	}
	return DecodeImage(path, data, format)
}
