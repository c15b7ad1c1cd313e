package tileshape

import (
	"math"
	"testing"

	"github.com/veldtgames/skewline/pkg/geom"
)

var testTileSize = geom.Vec3{X: 32, Y: 32, Z: 16}

func TestSlopeSEEndpoints(t *testing.T) {
	for _, y := range []float32{0, 8, 16, 31} {
		high := Query(SlopeSE, 0, y, testTileSize)
		if high.Height != testTileSize.Z {
			t.Errorf("SlopeSE at x=0 y=%v: height %v, want %v", y, high.Height, testTileSize.Z)
		}
		low := Query(SlopeSE, testTileSize.X, y, testTileSize)
		if low.Height != 0 {
			t.Errorf("SlopeSE at x=max y=%v: height %v, want 0", y, low.Height)
		}
	}
}

func TestSlopeRampsAreLinear(t *testing.T) {
	mid := Query(SlopeSE, 16, 5, testTileSize)
	if mid.Height != 8 {
		t.Errorf("SlopeSE midpoint height %v, want 8", mid.Height)
	}
	mid = Query(SlopeSW, 3, 16, testTileSize)
	if mid.Height != 8 {
		t.Errorf("SlopeSW midpoint height %v, want 8", mid.Height)
	}
}

func TestCliffNStep(t *testing.T) {
	cases := []struct {
		x, y float32
		want float32
	}{
		{10, 20, 0},             // y > x: low side
		{20, 10, testTileSize.Z}, // y < x: high side
		{15, 15, testTileSize.Z}, // boundary belongs to the high side
		{0, 0, testTileSize.Z},
	}
	for _, tc := range cases {
		got := Query(CliffN, tc.x, tc.y, testTileSize)
		if got.Height != tc.want {
			t.Errorf("CliffN at (%v,%v): height %v, want %v", tc.x, tc.y, got.Height, tc.want)
		}
		if got.Normal != NormalUp {
			t.Errorf("CliffN normal = %v, want up", got.Normal)
		}
	}
}

func TestHalfSlopeContinuousAtDiagonal(t *testing.T) {
	// On the diagonal itself the top profile is zero and the bottom
	// profile is full height, from both sides.
	for _, p := range []float32{4, 16, 28} {
		top := Query(SlopeNTop, p, p, testTileSize)
		if top.Height != 0 {
			t.Errorf("SlopeNTop on diagonal at %v: height %v, want 0", p, top.Height)
		}
		bottom := Query(SlopeNBottom, p, p, testTileSize)
		if bottom.Height != testTileSize.Z {
			t.Errorf("SlopeNBottom on diagonal at %v: height %v, want zMax", p, bottom.Height)
		}
	}
}

func TestHalfSlopeRadialFalloff(t *testing.T) {
	// One step off the diagonal the height must follow
	// sqrt(2*diff^2)*0.5/halfDiagonal exactly.
	halfDiagonal := float32(math.Sqrt(float64(testTileSize.X*testTileSize.X+testTileSize.Y*testTileSize.Y))) * 0.5
	diff := float32(8)
	want := testTileSize.Z * float32(math.Sqrt(float64(2*diff*diff))) * 0.5 / halfDiagonal

	got := Query(SlopeNTop, 16, 8, testTileSize) // north side, diff = 8
	if math.Abs(float64(got.Height-want)) > 1e-4 {
		t.Errorf("SlopeNTop off-diagonal height %v, want %v", got.Height, want)
	}
	if got.Normal != NormalN {
		t.Errorf("SlopeNTop normal = %v, want NormalN", got.Normal)
	}
}

func TestQueryFlatPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("querying Flat should panic")
		}
	}()
	Query(Flat, 0, 0, testTileSize)
}

func TestNormalsAreUnit(t *testing.T) {
	for _, n := range []geom.Vec3{
		NormalUp, NormalN, NormalE, NormalS, NormalW,
		NormalNE, NormalSE, NormalSW, NormalNW,
	} {
		if l := n.Length(); math.Abs(float64(l-1)) > 1e-5 {
			t.Errorf("normal %v has length %v", n, l)
		}
	}
}

func TestFromSuffix(t *testing.T) {
	cases := []struct {
		name  string
		shape Shape
		known bool
	}{
		{"grass-flat", Flat, true},
		{"rock-cliff-n", CliffN, true},
		{"rock-cliff-w", CliffW, true},
		{"dirt-slope-ne", SlopeNE, true},
		{"dirt-slope-n-top", SlopeNTop, true},
		{"dirt-slope-s-bottom", SlopeSBottom, true},
		{"mystery-block", Flat, false},
	}
	for _, tc := range cases {
		shape, known := FromSuffix(tc.name)
		if shape != tc.shape || known != tc.known {
			t.Errorf("FromSuffix(%q) = %v,%v, want %v,%v", tc.name, shape, known, tc.shape, tc.known)
		}
	}
}
