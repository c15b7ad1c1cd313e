package gfx

import "fmt"

// MemDevice is a CPU-backed Device. It is used by tests and by headless
// tools that need the full sprite/atlas pipeline without a GL context.
type MemDevice struct {
	// TexturesCreated counts CreateTextureLayer calls, for tests that
	// assert on allocation behavior.
	TexturesCreated int

	// MaxTextureExtent, when non-zero, makes larger texture requests
	// fail the way a memory-starved device would.
	MaxTextureExtent int
}

// CreateTextureLayer creates an in-memory texture layer.
func (d *MemDevice) CreateTextureLayer(width, height int, format Format) (TextureLayer, error) {
	if d.MaxTextureExtent > 0 && (width > d.MaxTextureExtent || height > d.MaxTextureExtent) {
		return nil, fmt.Errorf("mem device: texture %dx%d exceeds limit %d", width, height, d.MaxTextureExtent)
	}
	d.TexturesCreated++
	return &memTexture{img: NewImage(width, height, format)}, nil
}

// CreateVertexBuffer creates an in-memory vertex buffer.
func (d *MemDevice) CreateVertexBuffer(stride int) (VertexBuffer, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("mem device: invalid vertex stride %d", stride)
	}
	return &memVertexBuffer{stride: stride}, nil
}

// CreateIndexBuffer creates an in-memory index buffer.
func (d *MemDevice) CreateIndexBuffer() (IndexBuffer, error) {
	return &memIndexBuffer{}, nil
}

type memTexture struct {
	img       *Image
	destroyed bool
}

func (t *memTexture) UploadSubregion(x, y int, img *Image) {
	if t.destroyed {
		panic("gfx: upload to destroyed texture")
	}
	if img.Format != t.img.Format {
		panic(fmt.Sprintf("gfx: upload format %v into %v layer", img.Format, t.img.Format))
	}
	n := t.img.Format.Channels()
	for row := 0; row < img.Height; row++ {
		src := img.Pix[row*img.Stride() : (row+1)*img.Stride()]
		dstOff := ((y+row)*t.img.Width + x) * n
		copy(t.img.Pix[dstOff:dstOff+len(src)], src)
	}
}

func (t *memTexture) Bind(unit int) {}

func (t *memTexture) Destroy() {
	t.destroyed = true
}

// Pixels exposes the backing image, for tests that verify blits.
func (t *memTexture) Pixels() *Image {
	return t.img
}

type memVertexBuffer struct {
	stride int
	data   []float32
}

func (b *memVertexBuffer) Append(data []float32) {
	if len(data)%b.stride != 0 {
		panic(fmt.Sprintf("gfx: vertex data length %d not a multiple of stride %d", len(data), b.stride))
	}
	b.data = append(b.data, data...)
}

func (b *memVertexBuffer) Len() int {
	return len(b.data) / b.stride
}

func (b *memVertexBuffer) Bind() {}

func (b *memVertexBuffer) Destroy() {
	b.data = nil
}

type memIndexBuffer struct {
	data []uint16
}

func (b *memIndexBuffer) Append(indices []uint16) {
	b.data = append(b.data, indices...)
}

func (b *memIndexBuffer) Len() int {
	return len(b.data)
}

func (b *memIndexBuffer) Bind() {}

func (b *memIndexBuffer) Destroy() {
	b.data = nil
}
