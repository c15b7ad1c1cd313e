package sprite

import (
	"fmt"
	"math"
	"testing"

	"github.com/veldtgames/skewline/internal/engine/gfx"
	"github.com/veldtgames/skewline/pkg/geom"
)

// stubLoader serves canned descriptions and counts loads per name.
type stubLoader struct {
	descs map[string]*Description
	loads map[string]int
}

func newStubLoader() *stubLoader {
	return &stubLoader{
		descs: make(map[string]*Description),
		loads: make(map[string]int),
	}
}

func (l *stubLoader) LoadSpriteDescription(name string) (*Description, error) {
	l.loads[name]++
	desc, ok := l.descs[name]
	if !ok {
		return nil, fmt.Errorf("sprite %q not found", name)
	}
	return desc, nil
}

// testDescription builds a description with one facing per rotation.
func testDescription(w, h int, rotations ...float32) *Description {
	desc := &Description{
		Size:        geom.Vec2{X: float32(w), Y: float32(h)},
		OffsetScale: 1,
		BoundingBox: geom.Bx(-0.5, -0.5, 0, 0.5, 0.5, 1),
	}
	for _, rot := range rotations {
		diffuse := gfx.NewImage(w, h, gfx.FormatRGBA)
		normal := gfx.NewImage(w, h, gfx.FormatRGB)
		normal.Fill(0x80, 0x80, 0xFF)
		offset := gfx.NewImage(w, h, gfx.FormatRGB)
		desc.Facings = append(desc.Facings, FacingDescription{
			ZRotation: rot, Diffuse: diffuse, Normal: normal, Offset: offset,
		})
	}
	return desc
}

func newTestManager(t *testing.T) (*Manager, *stubLoader, *gfx.MemDevice) {
	t.Helper()
	device := &gfx.MemDevice{}
	loader := newStubLoader()
	return NewManager(device, loader, geom.Pt(128, 128)), loader, device
}

func TestLoadDeduplicatesByName(t *testing.T) {
	m, loader, _ := newTestManager(t)
	loader.descs["soldier"] = testDescription(16, 16, 0)

	first := m.Load("soldier")
	if first == nil {
		t.Fatal("load failed")
	}
	second := m.Load("soldier")
	if second != first {
		t.Error("second load should return the same sprite")
	}
	if loader.loads["soldier"] != 1 {
		t.Errorf("loader invoked %d times, want 1", loader.loads["soldier"])
	}
}

func TestLoadMissingSpriteReturnsNil(t *testing.T) {
	m, _, _ := newTestManager(t)
	if s := m.Load("ghost"); s != nil {
		t.Errorf("expected nil for missing sprite, got %v", s)
	}
	if m.SpriteCount() != 0 {
		t.Error("failed load must not leave a tracked sprite")
	}
}

func TestLoadUnwindsPartialSprite(t *testing.T) {
	m, loader, _ := newTestManager(t)

	// Second facing has mismatched layer sizes, so construction fails
	// after the first facing was already placed.
	desc := testDescription(16, 16, 0, math.Pi)
	desc.Facings[1].Normal = gfx.NewImage(8, 8, gfx.FormatRGB)
	loader.descs["broken"] = desc

	if s := m.Load("broken"); s != nil {
		t.Fatal("expected nil for broken sprite")
	}
	for _, page := range m.Pages() {
		if !page.Empty() {
			t.Error("partial facings were not unwound")
		}
	}
}

func TestFacingGeometryOffsets(t *testing.T) {
	m, loader, _ := newTestManager(t)
	loader.descs["arrow"] = testDescription(16, 16, 0, float32(math.Pi/2), float32(math.Pi))

	s := m.Load("arrow")
	if s == nil {
		t.Fatal("load failed")
	}
	if len(s.Facings) != 3 {
		t.Fatalf("got %d facings, want 3", len(s.Facings))
	}
	for i, f := range s.Facings {
		if !f.Valid() {
			t.Fatalf("facing %d invalid", i)
		}
		if f.IndexOffset != i*IndicesPerQuad {
			t.Errorf("facing %d index offset = %d, want %d", i, f.IndexOffset, i*IndicesPerQuad)
		}
	}
	page := s.Facings[0].Page
	if page.QuadCount() != 3 {
		t.Errorf("page quad count = %d, want 3", page.QuadCount())
	}
}

func TestClosestFacing(t *testing.T) {
	m, loader, _ := newTestManager(t)
	loader.descs["biped"] = testDescription(8, 8, 0, float32(math.Pi))
	s := m.Load("biped")
	if s == nil {
		t.Fatal("load failed")
	}

	cases := []struct {
		query float32
		want  int
	}{
		{0, 0},
		{float32(math.Pi), 1},
		{float32(3 * math.Pi / 4), 1},        // closer to pi
		{float32(math.Pi / 4), 0},            // closer to 0
		{float32(2 * math.Pi), 0},            // wraps around
		{float32(math.Pi / 2), 0},            // exact tie resolves to lowest index
		{float32(2*math.Pi + math.Pi/8), 0},  // wrap plus offset
		{float32(-math.Pi + 0.1), 1},         // negative angles wrap too
	}
	for _, tc := range cases {
		if got := s.ClosestFacing(tc.query); got != tc.want {
			t.Errorf("ClosestFacing(%v) = %d, want %d", tc.query, got, tc.want)
		}
	}
}

func TestNewPageCreatedOnOverflow(t *testing.T) {
	device := &gfx.MemDevice{}
	loader := newStubLoader()
	m := NewManager(device, loader, geom.Pt(32, 32))

	// Each sprite fills a whole 32x32 page.
	loader.descs["a"] = testDescription(32, 32, 0)
	loader.descs["b"] = testDescription(32, 32, 0)

	if m.Load("a") == nil || m.Load("b") == nil {
		t.Fatal("loads failed")
	}
	if len(m.Pages()) != 2 {
		t.Errorf("got %d pages, want 2", len(m.Pages()))
	}
}

func TestOversizedImageGetsBiggerPage(t *testing.T) {
	device := &gfx.MemDevice{}
	loader := newStubLoader()
	m := NewManager(device, loader, geom.Pt(32, 32))

	loader.descs["banner"] = testDescription(100, 40, 0)
	s := m.Load("banner")
	if s == nil {
		t.Fatal("load failed")
	}
	page := s.Facings[0].Page
	if page.Size().X < 128 || page.Size().Y < 64 {
		t.Errorf("page size = %v, want at least 128x64", page.Size())
	}
}

func TestPageSizeHalvingOnDeviceLimit(t *testing.T) {
	// The device rejects anything above 64, so the recommended 256 page
	// must be retried downward until it fits.
	device := &gfx.MemDevice{MaxTextureExtent: 64}
	loader := newStubLoader()
	m := NewManager(device, loader, geom.Pt(256, 256))

	loader.descs["pebble"] = testDescription(16, 16, 0)
	s := m.Load("pebble")
	if s == nil {
		t.Fatal("load failed")
	}
	if got := s.Facings[0].Page.Size(); got.X != 64 || got.Y != 64 {
		t.Errorf("page size = %v, want 64x64", got)
	}
}

func TestSpriteDeleteFreesPageSpace(t *testing.T) {
	m, loader, _ := newTestManager(t)
	loader.descs["crate"] = testDescription(16, 16, 0)

	s := m.Load("crate")
	if s == nil {
		t.Fatal("load failed")
	}
	page := s.Facings[0].Page
	s.Delete()

	if !page.Empty() {
		t.Error("page should be empty after sprite deletion")
	}
	if m.SpriteCount() != 0 {
		t.Error("sprite slot should be freed")
	}

	// The name can be loaded again afterwards.
	if m.Load("crate") == nil {
		t.Error("reload after delete failed")
	}
	if loader.loads["crate"] != 2 {
		t.Errorf("loader invoked %d times, want 2", loader.loads["crate"])
	}
}

func TestDoubleDeletePanics(t *testing.T) {
	m, loader, _ := newTestManager(t)
	loader.descs["crate"] = testDescription(16, 16, 0)
	s := m.Load("crate")
	s.Delete()

	defer func() {
		if recover() == nil {
			t.Error("double delete should panic")
		}
	}()
	s.Delete()
}

func TestRendererSwitchRebuildsSprites(t *testing.T) {
	m, loader, _ := newTestManager(t)
	loader.descs["soldier"] = testDescription(16, 16, 0, float32(math.Pi))
	s := m.Load("soldier")
	if s == nil {
		t.Fatal("load failed")
	}

	m.PrepareForRendererSwitch()
	if len(m.Pages()) != 0 {
		t.Fatal("pages must be gone after prepare")
	}
	for _, f := range s.Facings {
		if f.Valid() {
			t.Fatal("facings must be invalidated during prepare")
		}
	}

	newDevice := &gfx.MemDevice{}
	if err := m.SwitchRenderer(newDevice); err != nil {
		t.Fatalf("SwitchRenderer failed: %v", err)
	}

	if len(s.Facings) != 2 {
		t.Fatalf("got %d facings after switch, want 2", len(s.Facings))
	}
	for i, f := range s.Facings {
		if !f.Valid() {
			t.Errorf("facing %d invalid after switch", i)
		}
	}
	if newDevice.TexturesCreated == 0 {
		t.Error("new device was not used for the rebuilt pages")
	}
}

func TestRendererSwitchSubstitutesPlaceholder(t *testing.T) {
	m, loader, _ := newTestManager(t)
	loader.descs["soldier"] = testDescription(16, 16, 0)
	s := m.Load("soldier")
	if s == nil {
		t.Fatal("load failed")
	}

	// Asset disappears before the switch.
	delete(loader.descs, "soldier")

	m.PrepareForRendererSwitch()
	if err := m.SwitchRenderer(&gfx.MemDevice{}); err != nil {
		t.Fatalf("SwitchRenderer failed: %v", err)
	}

	// The same pointer external code holds is now the placeholder.
	if len(s.Facings) != 1 || !s.Facings[0].Valid() {
		t.Fatal("placeholder facings missing")
	}
	if s.Size.X != PlaceholderExtent {
		t.Errorf("sprite size = %v, want placeholder extent", s.Size)
	}
}
