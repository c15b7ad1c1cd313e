package tileshape

import (
	"fmt"
	"math"

	"github.com/veldtgames/skewline/pkg/geom"
)

// Sample is the surface evaluation at one tile-local point.
type Sample struct {
	Normal geom.Vec3
	Height float32
}

// HeightFunc evaluates a shape's surface at a tile-local point.
// x is in [0, tileSize.X), y in [0, tileSize.Y).
type HeightFunc func(x, y float32, tileSize geom.Vec3) Sample

// The nine surface normals a tile can report. Simple slopes use the
// diagonal tilts, half-tile slopes the axis tilts, everything else is up.
var (
	NormalUp = geom.Vec3{X: 0, Y: 0, Z: 1}
	NormalN  = geom.Vec3{X: 0, Y: -1, Z: 1}.Normalize()
	NormalE  = geom.Vec3{X: 1, Y: 0, Z: 1}.Normalize()
	NormalS  = geom.Vec3{X: 0, Y: 1, Z: 1}.Normalize()
	NormalW  = geom.Vec3{X: -1, Y: 0, Z: 1}.Normalize()
	NormalNE = geom.Vec3{X: 1, Y: -1, Z: 1}.Normalize()
	NormalSE = geom.Vec3{X: 1, Y: 1, Z: 1}.Normalize()
	NormalSW = geom.Vec3{X: -1, Y: 1, Z: 1}.Normalize()
	NormalNW = geom.Vec3{X: -1, Y: -1, Z: 1}.Normalize()
)

var heightField = [ShapeCount]HeightFunc{
	// Flat stays nil: flat tiles occupy their whole slot and callers
	// must use FlatHeight instead of evaluating the table.
	CliffN: cliffN,
	CliffE: cliffE,
	CliffS: cliffS,
	CliffW: cliffW,

	SlopeNE: slopeNE,
	SlopeSE: slopeSE,
	SlopeSW: slopeSW,
	SlopeNW: slopeNW,

	SlopeNTop:    halfSlope(mainDiagonal, northSide, topProfile, NormalN),
	SlopeNBottom: halfSlope(mainDiagonal, northSide, bottomProfile, NormalN),
	SlopeETop:    halfSlope(antiDiagonal, eastSide, topProfile, NormalE),
	SlopeEBottom: halfSlope(antiDiagonal, eastSide, bottomProfile, NormalE),
	SlopeSTop:    halfSlope(mainDiagonal, southSide, topProfile, NormalS),
	SlopeSBottom: halfSlope(mainDiagonal, southSide, bottomProfile, NormalS),
	SlopeWTop:    halfSlope(antiDiagonal, westSide, topProfile, NormalW),
	SlopeWBottom: halfSlope(antiDiagonal, westSide, bottomProfile, NormalW),
}

// Query evaluates the height field of a non-flat shape. Querying Flat is a
// contract violation.
func Query(s Shape, x, y float32, tileSize geom.Vec3) Sample {
	if s == Flat {
		panic("tileshape: height query on a flat tile")
	}
	if s >= ShapeCount {
		panic(fmt.Sprintf("tileshape: height query on invalid shape %d", s))
	}
	return heightField[s](x, y, tileSize)
}

// FlatHeight is the constant surface height of a flat tile.
func FlatHeight(tileSize geom.Vec3) float32 {
	return tileSize.Z
}

// Cliffs step across a diagonal; the boundary itself belongs to the high
// side. Both plateaus are level, so the normal is always up.

func cliffN(x, y float32, ts geom.Vec3) Sample {
	h := float32(0)
	if y <= x {
		h = ts.Z
	}
	return Sample{Normal: NormalUp, Height: h}
}

func cliffS(x, y float32, ts geom.Vec3) Sample {
	h := float32(0)
	if y >= x {
		h = ts.Z
	}
	return Sample{Normal: NormalUp, Height: h}
}

func cliffE(x, y float32, ts geom.Vec3) Sample {
	h := float32(0)
	if x+y >= ts.X {
		h = ts.Z
	}
	return Sample{Normal: NormalUp, Height: h}
}

func cliffW(x, y float32, ts geom.Vec3) Sample {
	h := float32(0)
	if x+y <= ts.X {
		h = ts.Z
	}
	return Sample{Normal: NormalUp, Height: h}
}

// Simple slopes are linear ramps along one axis; the name gives the facing
// of the authored tile art, which tilts diagonally.

func slopeSE(x, _ float32, ts geom.Vec3) Sample {
	return Sample{Normal: NormalSE, Height: ts.Z * (1 - x/ts.X)}
}

func slopeNW(x, _ float32, ts geom.Vec3) Sample {
	return Sample{Normal: NormalNW, Height: ts.Z * (x / ts.X)}
}

func slopeNE(_, y float32, ts geom.Vec3) Sample {
	return Sample{Normal: NormalNE, Height: ts.Z * (y / ts.Y)}
}

func slopeSW(_, y float32, ts geom.Vec3) Sample {
	return Sample{Normal: NormalSW, Height: ts.Z * (1 - y/ts.Y)}
}

// Half-tile slopes. The height profile is radial falloff from a tile
// diagonal, scaled by the half-diagonal length. The math is empirical and
// matched to the authored tile art; do not re-derive it.

type diagonalFunc func(x, y float32, ts geom.Vec3) float32

func mainDiagonal(x, y float32, _ geom.Vec3) float32 { return x - y }
func antiDiagonal(x, y float32, ts geom.Vec3) float32 { return x + y - ts.X }

type sideFunc func(diff float32) bool

func northSide(diff float32) bool { return diff > 0 }
func southSide(diff float32) bool { return diff < 0 }
func eastSide(diff float32) bool  { return diff > 0 }
func westSide(diff float32) bool  { return diff < 0 }

type profileFunc func(inside bool, t, zMax float32) float32

// topProfile rises from the diagonal toward the named corner and is zero
// on the far half.
func topProfile(inside bool, t, zMax float32) float32 {
	if !inside {
		return 0
	}
	return zMax * t
}

// bottomProfile is full height on the far half and falls toward the named
// corner.
func bottomProfile(inside bool, t, zMax float32) float32 {
	if !inside {
		return zMax
	}
	return zMax * (1 - t)
}

func halfSlope(diag diagonalFunc, side sideFunc, profile profileFunc, normal geom.Vec3) HeightFunc {
	return func(x, y float32, ts geom.Vec3) Sample {
		halfDiagonal := float32(math.Sqrt(float64(ts.X*ts.X+ts.Y*ts.Y))) * 0.5
		diff := diag(x, y, ts)
		t := float32(math.Sqrt(float64(2*diff*diff))) * 0.5 / halfDiagonal
		if t > 1 {
			t = 1
		}
		return Sample{
			Normal: normal,
			Height: profile(side(diff), t, ts.Z),
		}
	}
}

// ObscuresFromAbove reports whether a tile of this shape, sitting directly
// above another tile, fully hides it from a top-down view. Only full-slot
// tiles are safe to treat as opaque.
func ObscuresFromAbove(s Shape) bool {
	return s == Flat
}

// ObscuresDiagonal reports whether a tile of this shape, as a south-west or
// south-east neighbor, fully hides the tile behind it on screen.
func ObscuresDiagonal(s Shape) bool {
	return s == Flat
}
