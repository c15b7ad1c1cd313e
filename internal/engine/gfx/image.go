package gfx

import "fmt"

// Image is a CPU-side pixel rectangle in row-major order.
type Image struct {
	Width  int
	Height int
	Format Format
	Pix    []byte
}

// NewImage allocates a zeroed image.
func NewImage(width, height int, format Format) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Format: format,
		Pix:    make([]byte, width*height*format.Channels()),
	}
}

// Validate checks the pixel buffer length against the declared dimensions.
func (im *Image) Validate() error {
	want := im.Width * im.Height * im.Format.Channels()
	if len(im.Pix) != want {
		return fmt.Errorf("image %dx%d: %d pixel bytes, want %d",
			im.Width, im.Height, len(im.Pix), want)
	}
	return nil
}

// Stride returns the number of bytes per row.
func (im *Image) Stride() int {
	return im.Width * im.Format.Channels()
}

// Fill sets every pixel to the given channel values. The number of values
// must match the format's channel count.
func (im *Image) Fill(channels ...byte) {
	n := im.Format.Channels()
	if len(channels) != n {
		panic(fmt.Sprintf("gfx: fill with %d channels into %d-channel image", len(channels), n))
	}
	for i := 0; i < len(im.Pix); i += n {
		copy(im.Pix[i:i+n], channels)
	}
}

// SetPixel writes one pixel. Out-of-bounds coordinates panic.
func (im *Image) SetPixel(x, y int, channels ...byte) {
	n := im.Format.Channels()
	if len(channels) != n {
		panic(fmt.Sprintf("gfx: set %d channels into %d-channel image", len(channels), n))
	}
	off := (y*im.Width + x) * n
	copy(im.Pix[off:off+n], channels)
}
