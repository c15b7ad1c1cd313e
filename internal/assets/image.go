package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path"
	"strings"

	"github.com/veldtgames/skewline/internal/engine/gfx"
)

// DecodeImage decodes PNG or TGA asset bytes into a pixel image with the
// requested channel layout. The format is chosen by file extension.
func DecodeImage(name string, data []byte, format gfx.Format) (*gfx.Image, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		img, err = png.Decode(bytes.NewReader(data))
	case ".tga":
		img, err = DecodeTGA(data)
	default:
		return nil, fmt.Errorf("%w: %s: unknown image extension", ErrBadImage, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadImage, name, err)
	}
	return toPixels(img, format), nil
}

// toPixels converts a decoded image into the tightly packed layout the
// sprite pages upload. RGB formats simply drop the alpha channel.
func toPixels(img image.Image, format gfx.Format) *gfx.Image {
	bounds := img.Bounds()
	out := gfx.NewImage(bounds.Dx(), bounds.Dy(), format)
	channels := format.Channels()

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			out.Pix[i+0] = uint8(r16 >> 8)
			out.Pix[i+1] = uint8(g16 >> 8)
			out.Pix[i+2] = uint8(b16 >> 8)
			if channels == 4 {
				out.Pix[i+3] = uint8(a16 >> 8)
			}
			i += channels
		}
	}
	return out
}
