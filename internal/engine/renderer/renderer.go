// Package renderer provides the OpenGL implementation of the graphics
// device capability surface.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/veldtgames/skewline/internal/engine/gfx"
	"github.com/veldtgames/skewline/internal/logger"
)

// Device is the OpenGL graphics device. All bound-texture bookkeeping
// lives here, not in module-level state, so replacing the device after a
// context loss leaves no stale bindings behind.
type Device struct {
	width          int
	height         int
	maxTextureSize int

	boundTextures [8]uint32
}

// New initializes OpenGL and creates the device.
// IMPORTANT: Must be called AFTER the GL context is created!
func New(width, height int) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	// Sprites are drawn back-to-front, depth testing would only fight
	// the painter's order.
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)

	d := &Device{
		width:          width,
		height:         height,
		maxTextureSize: int(maxSize),
	}
	d.Resize(width, height)
	return d, nil
}

// Begin starts a new frame.
func (d *Device) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Resize handles window resize.
func (d *Device) Resize(width, height int) {
	d.width = width
	d.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// MaxTextureSize returns the driver's texture extent limit.
func (d *Device) MaxTextureSize() int {
	return d.maxTextureSize
}

func glFormats(format gfx.Format) (internal int32, pixel uint32) {
	if format == gfx.FormatRGBA {
		return gl.RGBA8, gl.RGBA
	}
	return gl.RGB8, gl.RGB
}

// CreateTextureLayer allocates an empty 2D texture.
func (d *Device) CreateTextureLayer(width, height int, format gfx.Format) (gfx.TextureLayer, error) {
	if width > d.maxTextureSize || height > d.maxTextureSize {
		return nil, fmt.Errorf("texture %dx%d exceeds device limit %d", width, height, d.maxTextureSize)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	d.boundTextures[0] = id

	internal, pixel := glFormats(format)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(width), int32(height), 0, pixel, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	return &texture{device: d, id: id, format: format}, nil
}

type texture struct {
	device *Device
	id     uint32
	format gfx.Format
}

func (t *texture) UploadSubregion(x, y int, img *gfx.Image) {
	if img.Format != t.format {
		panic(fmt.Sprintf("renderer: uploading %v pixels into a %v texture", img.Format, t.format))
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	t.device.boundTextures[0] = t.id

	// Rows are tightly packed for both 3- and 4-channel images.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	_, pixel := glFormats(t.format)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(x), int32(y), int32(img.Width), int32(img.Height),
		pixel, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
}

func (t *texture) Bind(unit int) {
	if t.device.boundTextures[unit] == t.id {
		return
	}
	gl.ActiveTexture(uint32(gl.TEXTURE0 + unit))
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	t.device.boundTextures[unit] = t.id
}

func (t *texture) Destroy() {
	gl.DeleteTextures(1, &t.id)
	for unit, bound := range t.device.boundTextures {
		if bound == t.id {
			t.device.boundTextures[unit] = 0
		}
	}
	t.id = 0
}

// vertexBuffer keeps a CPU-side copy and re-uploads on growth, so vertex
// offsets handed out earlier stay valid for the buffer's lifetime.
type vertexBuffer struct {
	id     uint32
	stride int
	data   []float32
	dirty  bool
}

// CreateVertexBuffer allocates an empty growable vertex buffer.
func (d *Device) CreateVertexBuffer(stride int) (gfx.VertexBuffer, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("invalid vertex stride %d", stride)
	}
	var id uint32
	gl.GenBuffers(1, &id)
	return &vertexBuffer{id: id, stride: stride}, nil
}

func (b *vertexBuffer) Append(data []float32) {
	if len(data)%b.stride != 0 {
		panic(fmt.Sprintf("renderer: appending %d floats to a stride-%d buffer", len(data), b.stride))
	}
	b.data = append(b.data, data...)
	b.dirty = true
}

func (b *vertexBuffer) Len() int {
	return len(b.data) / b.stride
}

func (b *vertexBuffer) Bind() {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	if b.dirty {
		gl.BufferData(gl.ARRAY_BUFFER, len(b.data)*4, gl.Ptr(b.data), gl.DYNAMIC_DRAW)
		b.dirty = false
	}
}

func (b *vertexBuffer) Destroy() {
	gl.DeleteBuffers(1, &b.id)
	b.id = 0
	b.data = nil
}

type indexBuffer struct {
	id    uint32
	data  []uint16
	dirty bool
}

// CreateIndexBuffer allocates an empty growable index buffer.
func (d *Device) CreateIndexBuffer() (gfx.IndexBuffer, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	return &indexBuffer{id: id}, nil
}

func (b *indexBuffer) Append(indices []uint16) {
	b.data = append(b.data, indices...)
	b.dirty = true
}

func (b *indexBuffer) Len() int {
	return len(b.data)
}

func (b *indexBuffer) Bind() {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.id)
	if b.dirty {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(b.data)*2, gl.Ptr(b.data), gl.DYNAMIC_DRAW)
		b.dirty = false
	}
}

func (b *indexBuffer) Destroy() {
	gl.DeleteBuffers(1, &b.id)
	b.id = 0
	b.data = nil
}
