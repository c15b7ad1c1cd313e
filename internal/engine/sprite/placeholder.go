package sprite

import (
	"github.com/veldtgames/skewline/internal/engine/gfx"
	"github.com/veldtgames/skewline/pkg/geom"
)

// PlaceholderExtent is the pixel size of the synthetic placeholder sprite.
const PlaceholderExtent = 32

// placeholderChecker is the checker square size in pixels.
const placeholderChecker = 8

// PlaceholderDescription builds the synthetic magenta/black checkerboard
// sprite substituted when a sprite's asset cannot be reloaded after a
// renderer switch.
func PlaceholderDescription() *Description {
	diffuse := gfx.NewImage(PlaceholderExtent, PlaceholderExtent, gfx.FormatRGBA)
	for y := 0; y < PlaceholderExtent; y++ {
		for x := 0; x < PlaceholderExtent; x++ {
			if (x/placeholderChecker+y/placeholderChecker)%2 == 0 {
				diffuse.SetPixel(x, y, 0xFF, 0x00, 0xFF, 0xFF)
			} else {
				diffuse.SetPixel(x, y, 0x00, 0x00, 0x00, 0xFF)
			}
		}
	}

	// Flat surface normal, no pixel depth offsets.
	normal := gfx.NewImage(PlaceholderExtent, PlaceholderExtent, gfx.FormatRGB)
	normal.Fill(0x80, 0x80, 0xFF)
	offset := gfx.NewImage(PlaceholderExtent, PlaceholderExtent, gfx.FormatRGB)

	return &Description{
		Size:        geom.Vec2{X: PlaceholderExtent, Y: PlaceholderExtent},
		OffsetScale: 1,
		BoundingBox: geom.Bx(-0.5, -0.5, 0, 0.5, 0.5, 1),
		Facings: []FacingDescription{
			{ZRotation: 0, Diffuse: diffuse, Normal: normal, Offset: offset},
		},
	}
}
