// Package gfx defines the graphics-device capability surface the engine
// core consumes. The core never issues draw-API calls itself; it only
// requests texture and buffer storage and fills it.
package gfx

// Format describes the channel layout of a pixel image or texture layer.
type Format int

const (
	// FormatRGBA is 4 bytes per pixel, used for diffuse layers.
	FormatRGBA Format = iota
	// FormatRGB is 3 bytes per pixel, used for normal and offset layers.
	FormatRGB
)

// Channels returns the number of bytes per pixel.
func (f Format) Channels() int {
	if f == FormatRGBA {
		return 4
	}
	return 3
}

// TextureLayer is one 2D texture owned by the device.
type TextureLayer interface {
	// UploadSubregion copies img into the layer at (x, y). The image
	// format must match the layer format.
	UploadSubregion(x, y int, img *Image)
	// Bind makes the layer current on the given texture unit.
	Bind(unit int)
	Destroy()
}

// VertexBuffer is a growable device vertex buffer. Appended data is never
// reordered; offsets handed out stay stable for the buffer's lifetime.
type VertexBuffer interface {
	Append(data []float32)
	// Len returns the number of vertices appended so far.
	Len() int
	Bind()
	Destroy()
}

// IndexBuffer is a growable device index buffer.
type IndexBuffer interface {
	Append(indices []uint16)
	// Len returns the number of indices appended so far.
	Len() int
	Bind()
	Destroy()
}

// Device creates GPU-side resources. Implementations own all bound-state
// bookkeeping; the core never touches ambient graphics state.
type Device interface {
	CreateTextureLayer(width, height int, format Format) (TextureLayer, error)
	CreateVertexBuffer(stride int) (VertexBuffer, error)
	CreateIndexBuffer() (IndexBuffer, error)
}
