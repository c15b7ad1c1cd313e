// Package sprite manages sprite atlas pages and the sprites placed on
// them. A sprite is a named set of facings; each facing is one image per
// layer (diffuse, normal, offset) placed into a shared atlas page.
package sprite

import (
	"fmt"
	"math"

	"github.com/veldtgames/skewline/internal/engine/gfx"
	"github.com/veldtgames/skewline/pkg/geom"
)

// FacingDescription is one decoded facing of a sprite asset.
type FacingDescription struct {
	// ZRotation in radians, already converted from the asset's degrees.
	ZRotation float32
	Diffuse   *gfx.Image
	Normal    *gfx.Image
	Offset    *gfx.Image
}

// Description is the decoded asset description for one sprite.
type Description struct {
	Size        geom.Vec2
	OffsetScale float32
	BoundingBox geom.Box
	Facings     []FacingDescription
}

// DescriptionLoader resolves a sprite name to its decoded description.
// Implemented by the asset layer.
type DescriptionLoader interface {
	LoadSpriteDescription(name string) (*Description, error)
}

// validate checks one facing's layer images for insertion: all three
// present, identical size, and the expected channel formats.
func (fd *FacingDescription) validate() error {
	if fd.Diffuse == nil || fd.Normal == nil || fd.Offset == nil {
		return fmt.Errorf("facing is missing a layer image")
	}
	if math.IsNaN(float64(fd.ZRotation)) {
		return fmt.Errorf("facing rotation is NaN")
	}
	if fd.Diffuse.Format != gfx.FormatRGBA {
		return fmt.Errorf("diffuse layer must be RGBA")
	}
	if fd.Normal.Format != gfx.FormatRGB || fd.Offset.Format != gfx.FormatRGB {
		return fmt.Errorf("normal and offset layers must be RGB")
	}
	w, h := fd.Diffuse.Width, fd.Diffuse.Height
	if fd.Normal.Width != w || fd.Normal.Height != h ||
		fd.Offset.Width != w || fd.Offset.Height != h {
		return fmt.Errorf("layer sizes differ: diffuse %dx%d, normal %dx%d, offset %dx%d",
			w, h, fd.Normal.Width, fd.Normal.Height, fd.Offset.Width, fd.Offset.Height)
	}
	for _, img := range []*gfx.Image{fd.Diffuse, fd.Normal, fd.Offset} {
		if err := img.Validate(); err != nil {
			return err
		}
	}
	return nil
}
