package sprite

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/veldtgames/skewline/internal/engine/atlas"
	"github.com/veldtgames/skewline/internal/engine/gfx"
	"github.com/veldtgames/skewline/internal/logger"
	"github.com/veldtgames/skewline/pkg/geom"
)

// Manager owns every Sprite and Page created for one graphics-device
// lifetime. Sprites live in stable slots; deleting a sprite clears its
// slot but never shifts the others.
type Manager struct {
	device gfx.Device
	loader DescriptionLoader

	// recommendedPageSize is the preferred extent for new pages;
	// oversized images force bigger ones.
	recommendedPageSize geom.Point

	sprites []*Sprite
	pages   []*Page

	// switchPrepared is set between the two renderer-switch phases; no
	// page may exist while it is set.
	switchPrepared bool
}

// NewManager creates a sprite manager on the given device.
func NewManager(device gfx.Device, loader DescriptionLoader, recommendedPageSize geom.Point) *Manager {
	return &Manager{
		device:              device,
		loader:              loader,
		recommendedPageSize: recommendedPageSize,
	}
}

// Load returns the sprite with the given name, loading it on first use.
// Returns nil on any asset or resource error; the reason is logged and
// any partially constructed sprite is fully unwound.
func (m *Manager) Load(name string) *Sprite {
	for _, s := range m.sprites {
		if s != nil && s.name == name {
			return s
		}
	}

	desc, err := m.loader.LoadSpriteDescription(name)
	if err != nil {
		logger.Warn("sprite load failed", zap.String("sprite", name), zap.Error(err))
		return nil
	}

	s, err := m.build(name, desc)
	if err != nil {
		logger.Warn("sprite construction failed", zap.String("sprite", name), zap.Error(err))
		return nil
	}
	m.track(s)
	return s
}

// build constructs a sprite from its description, placing every facing on
// a page. On failure all already-placed facings are removed again.
func (m *Manager) build(name string, desc *Description) (*Sprite, error) {
	s := &Sprite{
		name:        name,
		manager:     m,
		Size:        desc.Size,
		OffsetScale: desc.OffsetScale,
		BoundingBox: desc.BoundingBox,
	}

	for i := range desc.Facings {
		fd := &desc.Facings[i]
		// Validate here so a bad asset is a recoverable load failure;
		// past this point a malformed facing is a programmer error.
		if err := fd.validate(); err != nil {
			m.unwind(s)
			return nil, fmt.Errorf("facing %d: %w", i, err)
		}

		area, page, indexOffset, err := m.fitImageToAPage(fd, desc.BoundingBox)
		if err != nil {
			m.unwind(s)
			return nil, fmt.Errorf("facing %d: %w", i, err)
		}
		s.Facings = append(s.Facings, Facing{
			Area:        area,
			Page:        page,
			ZRotation:   fd.ZRotation,
			IndexOffset: indexOffset,
		})
	}

	return s, nil
}

func (m *Manager) unwind(s *Sprite) {
	for i := range s.Facings {
		f := &s.Facings[i]
		if f.Valid() {
			f.Page.RemoveImage(f.Area, f.IndexOffset)
		}
	}
	s.Facings = nil
}

// fitImageToAPage places a facing on the first existing page with room,
// or on a freshly created page. New pages start at
// max(recommendedPageSize, image size rounded up to a power of two) and
// retry at half that size down to the image's pow2 size; only when even
// that page cannot be created does the error propagate.
func (m *Manager) fitImageToAPage(fd *FacingDescription, bb geom.Box) (atlas.Area, *Page, int, error) {
	for _, page := range m.pages {
		if area, indexOffset := page.InsertImage(fd, bb); area.Valid() {
			return area, page, indexOffset, nil
		}
	}

	minSize := geom.Pt(nextPow2(fd.Diffuse.Width), nextPow2(fd.Diffuse.Height))
	size := geom.Pt(
		max(m.recommendedPageSize.X, minSize.X),
		max(m.recommendedPageSize.Y, minSize.Y),
	)

	var page *Page
	for {
		var err error
		page, err = NewPage(m.device, size)
		if err == nil {
			break
		}
		if size == minSize {
			return atlas.Area{ID: atlas.InvalidNodeID}, nil, 0,
				fmt.Errorf("creating %dx%d page: %w", size.X, size.Y, err)
		}
		size = geom.Pt(max(size.X/2, minSize.X), max(size.Y/2, minSize.Y))
		logger.Debug("retrying page allocation", zap.Int("width", size.X), zap.Int("height", size.Y))
	}
	m.pages = append(m.pages, page)

	area, indexOffset := page.InsertImage(fd, bb)
	if !area.Valid() {
		// The page was sized to hold at least this image.
		panic("sprite: image does not fit a fresh page of its own size")
	}
	return area, page, indexOffset, nil
}

// track stores the sprite in the first free slot.
func (m *Manager) track(s *Sprite) {
	for i, slot := range m.sprites {
		if slot == nil {
			m.sprites[i] = s
			return
		}
	}
	m.sprites = append(m.sprites, s)
}

// spriteDeleted releases the sprite's slot. A sprite not tracked by this
// manager, or deleted twice, is a contract violation.
func (m *Manager) spriteDeleted(s *Sprite) {
	for i, slot := range m.sprites {
		if slot == s {
			m.sprites[i] = nil
			return
		}
	}
	panic(fmt.Sprintf("sprite: deletion of untracked sprite %q", s.name))
}

// PrepareForRendererSwitch removes every sprite's images from their pages
// and destroys all pages, keeping CPU-side sprite metadata intact.
// No drawing may happen until SwitchRenderer completes.
func (m *Manager) PrepareForRendererSwitch() {
	for _, s := range m.sprites {
		if s == nil {
			continue
		}
		for i := range s.Facings {
			f := &s.Facings[i]
			if f.Valid() {
				f.Page.RemoveImage(f.Area, f.IndexOffset)
			}
			f.Area = atlas.Area{ID: atlas.InvalidNodeID}
			f.Page = nil
		}
	}

	for _, page := range m.pages {
		// A page still holding images after every sprite released
		// theirs means the bookkeeping is corrupt.
		if !page.Empty() {
			panic("sprite: page not empty after all sprites were removed")
		}
		page.Destroy()
	}
	m.pages = nil
	m.switchPrepared = true
}

// SwitchRenderer rebuilds every sprite's pages on a new device. Sprites
// whose assets no longer load are rebuilt from a placeholder so that
// external holders of the pointer never see a gutted sprite. Returns an
// error only when even a placeholder cannot be placed.
func (m *Manager) SwitchRenderer(device gfx.Device) error {
	if !m.switchPrepared {
		panic("sprite: SwitchRenderer without PrepareForRendererSwitch")
	}
	m.device = device

	for _, s := range m.sprites {
		if s == nil {
			continue
		}
		desc, err := m.loader.LoadSpriteDescription(s.name)
		if err != nil {
			logger.Warn("sprite reload failed, using placeholder",
				zap.String("sprite", s.name), zap.Error(err))
			desc = PlaceholderDescription()
		}

		s.Size = desc.Size
		s.OffsetScale = desc.OffsetScale
		s.BoundingBox = desc.BoundingBox
		s.Facings = s.Facings[:0]
		for i := range desc.Facings {
			fd := &desc.Facings[i]
			area, page, indexOffset, err := m.fitImageToAPage(fd, desc.BoundingBox)
			if err != nil {
				return fmt.Errorf("rebuilding sprite %q: %w", s.name, err)
			}
			s.Facings = append(s.Facings, Facing{
				Area:        area,
				Page:        page,
				ZRotation:   fd.ZRotation,
				IndexOffset: indexOffset,
			})
		}
	}

	m.switchPrepared = false
	return nil
}

// Pages returns the manager's pages in creation order.
func (m *Manager) Pages() []*Page {
	return m.pages
}

// SpriteCount returns the number of live sprites.
func (m *Manager) SpriteCount() int {
	n := 0
	for _, s := range m.sprites {
		if s != nil {
			n++
		}
	}
	return n
}

// Destroy deletes every remaining sprite and page.
func (m *Manager) Destroy() {
	for _, s := range m.sprites {
		if s != nil {
			s.Delete()
		}
	}
	for _, page := range m.pages {
		page.Destroy()
	}
	m.pages = nil
	m.sprites = nil
}
