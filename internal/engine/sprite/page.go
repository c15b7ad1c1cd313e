package sprite

import (
	"fmt"
	"math"

	"github.com/veldtgames/skewline/internal/engine/atlas"
	"github.com/veldtgames/skewline/internal/engine/gfx"
	"github.com/veldtgames/skewline/pkg/geom"
)

// Texture units the three page layers bind to.
const (
	UnitDiffuse = 0
	UnitNormal  = 1
	UnitOffset  = 2
)

// VertexStride is the float count per page vertex:
// position (2), uv (2), bounding-box min (3), bounding-box max (3).
const VertexStride = 10

// IndicesPerQuad is the index count emitted per inserted image.
const IndicesPerQuad = 6

// Page owns one texture atlas: a packer, three equally sized texture
// layers and the quad geometry for every image placed on it.
//
// Geometry is append-only. A removed image frees its packer rectangle but
// its quad stays in the buffers, so every other quad's index offset is
// stable for the page's lifetime.
type Page struct {
	size   geom.Point
	packer *atlas.Packer

	diffuse gfx.TextureLayer
	normal  gfx.TextureLayer
	offset  gfx.TextureLayer

	vertices gfx.VertexBuffer
	indices  gfx.IndexBuffer

	quadCount int
}

// NewPage creates a page with three size x size layers on the device.
// The extent must be a power of two within the packer's representable
// range.
func NewPage(device gfx.Device, size geom.Point) (*Page, error) {
	if !isPow2(size.X) || !isPow2(size.Y) {
		return nil, fmt.Errorf("page size %dx%d is not a power of two", size.X, size.Y)
	}
	if size.X > atlas.MaxSurfaceExtent || size.Y > atlas.MaxSurfaceExtent {
		return nil, fmt.Errorf("page size %dx%d exceeds maximum extent", size.X, size.Y)
	}

	p := &Page{
		size:   size,
		packer: atlas.NewPacker(size.X, size.Y),
	}

	var err error
	if p.diffuse, err = device.CreateTextureLayer(size.X, size.Y, gfx.FormatRGBA); err != nil {
		return nil, fmt.Errorf("diffuse layer: %w", err)
	}
	if p.normal, err = device.CreateTextureLayer(size.X, size.Y, gfx.FormatRGB); err != nil {
		p.diffuse.Destroy()
		return nil, fmt.Errorf("normal layer: %w", err)
	}
	if p.offset, err = device.CreateTextureLayer(size.X, size.Y, gfx.FormatRGB); err != nil {
		p.diffuse.Destroy()
		p.normal.Destroy()
		return nil, fmt.Errorf("offset layer: %w", err)
	}
	if p.vertices, err = device.CreateVertexBuffer(VertexStride); err != nil {
		p.destroyLayers()
		return nil, fmt.Errorf("vertex buffer: %w", err)
	}
	if p.indices, err = device.CreateIndexBuffer(); err != nil {
		p.destroyLayers()
		p.vertices.Destroy()
		return nil, fmt.Errorf("index buffer: %w", err)
	}

	return p, nil
}

// Size returns the page extent.
func (p *Page) Size() geom.Point {
	return p.size
}

// InsertImage places one facing's layer images on the page and appends its
// quad geometry. On packer failure the returned area is invalid and no
// geometry is added; callers must check Area.Valid before treating the
// insertion as successful. Malformed layer images are a contract
// violation.
func (p *Page) InsertImage(fd *FacingDescription, boundingBox geom.Box) (atlas.Area, int) {
	if err := fd.validate(); err != nil {
		panic(fmt.Sprintf("sprite: insert of malformed facing: %v", err))
	}

	w, h := fd.Diffuse.Width, fd.Diffuse.Height
	area := p.packer.Allocate(geom.Pt(w, h))
	if !area.Valid() {
		return area, 0
	}

	p.diffuse.UploadSubregion(area.Min.X, area.Min.Y, fd.Diffuse)
	p.normal.UploadSubregion(area.Min.X, area.Min.Y, fd.Normal)
	p.offset.UploadSubregion(area.Min.X, area.Min.Y, fd.Offset)

	indexOffset := p.appendQuad(area, boundingBox)
	return area, indexOffset
}

// appendQuad emits four vertices and six indices for an allocated area and
// returns the quad's starting index offset.
func (p *Page) appendQuad(area atlas.Area, bb geom.Box) int {
	// Integer pixel half-extents keep quad edges on pixel boundaries so
	// filtering never blurs sprite borders.
	w, h := area.Size().X, area.Size().Y
	left := float32(-(w / 2))
	right := float32(w - w/2)
	top := float32(-(h / 2))
	bottom := float32(h - h/2)

	u0 := float32(area.Min.X) / float32(p.size.X)
	v0 := float32(area.Min.Y) / float32(p.size.Y)
	u1 := float32(area.Max.X) / float32(p.size.X)
	v1 := float32(area.Max.Y) / float32(p.size.Y)

	p.vertices.Append([]float32{
		left, top, u0, v0, bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z,
		right, top, u1, v0, bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z,
		right, bottom, u1, v1, bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z,
		left, bottom, u0, v1, bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z,
	})

	// Quad geometry is append-only, so remove/insert churn grows quadCount
	// until the 16-bit index space runs out. Fail fast instead of letting
	// the vertex base wrap into earlier quads.
	if p.quadCount*4+3 > math.MaxUint16 {
		panic(fmt.Sprintf("sprite: page exhausted its 16-bit index space after %d quads", p.quadCount))
	}
	base := uint16(p.quadCount * 4)
	p.indices.Append([]uint16{
		base, base + 1, base + 2,
		base, base + 2, base + 3,
	})

	indexOffset := p.quadCount * IndicesPerQuad
	p.quadCount++
	return indexOffset
}

// RemoveImage frees the image's packer rectangle. Quad geometry is never
// reclaimed; index offsets of the remaining quads stay valid.
func (p *Page) RemoveImage(area atlas.Area, indexOffset int) {
	_ = indexOffset
	p.packer.Free(area)
}

// Empty reports whether no image remains on the page.
func (p *Page) Empty() bool {
	return p.packer.Empty()
}

// QuadCount returns the number of quads ever inserted.
func (p *Page) QuadCount() int {
	return p.quadCount
}

// Bind makes the page's layers and buffers current for drawing.
func (p *Page) Bind() {
	p.diffuse.Bind(UnitDiffuse)
	p.normal.Bind(UnitNormal)
	p.offset.Bind(UnitOffset)
	p.vertices.Bind()
	p.indices.Bind()
}

// Destroy releases the page's device resources. Destroying a non-empty
// page is a contract violation.
func (p *Page) Destroy() {
	if !p.Empty() {
		panic("sprite: destroy of non-empty page")
	}
	p.destroyLayers()
	p.vertices.Destroy()
	p.indices.Destroy()
}

func (p *Page) destroyLayers() {
	p.diffuse.Destroy()
	p.normal.Destroy()
	p.offset.Destroy()
}

func isPow2(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// nextPow2 rounds v up to the next power of two.
func nextPow2(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}
