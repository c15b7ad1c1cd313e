package sprite

import (
	"math"

	"github.com/veldtgames/skewline/internal/engine/atlas"
	"github.com/veldtgames/skewline/pkg/geom"
)

const tau = 2 * math.Pi

// Facing is one rotation-indexed image of a sprite: its atlas area, the
// page holding it, and the quad's index-buffer offset. The page reference
// is non-owning.
type Facing struct {
	Area        atlas.Area
	Page        *Page
	ZRotation   float32
	IndexOffset int
}

// Valid reports whether the facing is fully populated.
func (f Facing) Valid() bool {
	return f.Area.Valid() && f.Page != nil && !math.IsNaN(float64(f.ZRotation))
}

// Sprite is a named collection of facings, owned by a Manager.
type Sprite struct {
	name    string
	manager *Manager

	Size        geom.Vec2
	OffsetScale float32
	BoundingBox geom.Box
	Facings     []Facing
}

// Name returns the sprite's asset name.
func (s *Sprite) Name() string {
	return s.name
}

// ClosestFacing returns the index of the facing whose rotation is nearest
// to zRotation by circular distance, ties resolved to the lowest index
// (load order). Returns -1 for a sprite with no facings.
func (s *Sprite) ClosestFacing(zRotation float32) int {
	best := -1
	bestDist := float32(math.Inf(1))
	for i := range s.Facings {
		d := circularDistance(zRotation, s.Facings[i].ZRotation)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// circularDistance is the absolute angular distance with wrap-around at 2π.
func circularDistance(a, b float32) float32 {
	d := float32(math.Mod(math.Abs(float64(a-b)), tau))
	if d > tau/2 {
		d = tau - d
	}
	return d
}

// Delete removes the sprite's images from their pages and releases its
// slot in the owning manager. The sprite must not be used afterwards.
func (s *Sprite) Delete() {
	for i := range s.Facings {
		f := &s.Facings[i]
		if f.Valid() {
			f.Page.RemoveImage(f.Area, f.IndexOffset)
		}
		f.Area = atlas.Area{ID: atlas.InvalidNodeID}
		f.Page = nil
	}
	s.Facings = nil
	s.manager.spriteDeleted(s)
}
