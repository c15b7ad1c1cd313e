// Package tileshape defines the sixteen non-flat tile silhouettes and their
// height-field functions. Coordinates are tile-local: x grows east, y grows
// south, z is up.
package tileshape

import "strings"

// Shape identifies a tile silhouette.
type Shape uint8

const (
	// Flat fills its entire vertical slot. It is excluded from the
	// height-field table; callers special-case it for speed.
	Flat Shape = iota

	// Cliffs are binary height steps across a tile diagonal.
	CliffN
	CliffE
	CliffS
	CliffW

	// Simple slopes are linear ramps across the whole tile.
	SlopeNE
	SlopeSE
	SlopeSW
	SlopeNW

	// Half-tile slopes ramp radially away from a tile diagonal, covering
	// one triangular half.
	SlopeNTop
	SlopeNBottom
	SlopeETop
	SlopeEBottom
	SlopeSTop
	SlopeSBottom
	SlopeWTop
	SlopeWBottom

	ShapeCount
)

var shapeNames = [ShapeCount]string{
	"flat",
	"cliff-n", "cliff-e", "cliff-s", "cliff-w",
	"slope-ne", "slope-se", "slope-sw", "slope-nw",
	"slope-n-top", "slope-n-bottom",
	"slope-e-top", "slope-e-bottom",
	"slope-s-top", "slope-s-bottom",
	"slope-w-top", "slope-w-bottom",
}

func (s Shape) String() string {
	if s >= ShapeCount {
		return "invalid"
	}
	return shapeNames[s]
}

// FromSuffix infers a shape from a tile name's trailing shape tag, e.g.
// "grass-flat" or "rock-cliff-n". The second return is false when no known
// suffix matches; callers default to Flat and warn.
func FromSuffix(name string) (Shape, bool) {
	// Longer suffixes first so "-slope-n-top" never matches "-slope-n".
	for s := ShapeCount - 1; ; s-- {
		if strings.HasSuffix(name, shapeNames[s]) {
			return s, true
		}
		if s == 0 {
			break
		}
	}
	return Flat, false
}
