package assets

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	tgaTypeUncompressed = 2  // Uncompressed true-color
	tgaTypeRLE          = 10 // RLE compressed true-color
)

// DecodeTGA decodes a TGA image. Supports uncompressed true-color
// (type 2) and RLE compressed (type 10) files at 24 or 32 bits per pixel,
// which covers the offset-layer assets the sprite pipeline uses.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != tgaTypeUncompressed && imageType != tgaTypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	dec := tgaDecoder{
		img:           image.NewRGBA(image.Rect(0, 0, width, height)),
		pixelData:     data[offset:],
		width:         width,
		height:        height,
		bytesPerPixel: bpp / 8,
		// Bit 5 of the descriptor means rows are stored top-to-bottom.
		topToBottom: descriptor&0x20 != 0,
	}

	var err error
	if imageType == tgaTypeUncompressed {
		err = dec.decodeRaw()
	} else {
		err = dec.decodeRLE()
	}
	if err != nil {
		return nil, err
	}
	return dec.img, nil
}

type tgaDecoder struct {
	img           *image.RGBA
	pixelData     []byte
	width         int
	height        int
	bytesPerPixel int
	topToBottom   bool
}

// readPixel reads one BGR(A) pixel at a byte offset.
func (d *tgaDecoder) readPixel(i int) color.RGBA {
	c := color.RGBA{
		B: d.pixelData[i],
		G: d.pixelData[i+1],
		R: d.pixelData[i+2],
		A: 255,
	}
	if d.bytesPerPixel == 4 {
		c.A = d.pixelData[i+3]
	}
	return c
}

// setPixel stores a pixel by its index in file order, flipping rows for
// bottom-to-top files.
func (d *tgaDecoder) setPixel(pixelIdx int, c color.RGBA) {
	x := pixelIdx % d.width
	y := pixelIdx / d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
}

func (d *tgaDecoder) decodeRaw() error {
	expected := d.width * d.height * d.bytesPerPixel
	if len(d.pixelData) < expected {
		return fmt.Errorf("TGA pixel data truncated")
	}
	for pixelIdx := 0; pixelIdx < d.width*d.height; pixelIdx++ {
		d.setPixel(pixelIdx, d.readPixel(pixelIdx*d.bytesPerPixel))
	}
	return nil
}

func (d *tgaDecoder) decodeRLE() error {
	pixelCount := d.width * d.height
	pixelIdx := 0
	dataIdx := 0

	for pixelIdx < pixelCount && dataIdx < len(d.pixelData) {
		packet := d.pixelData[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// RLE packet, one pixel repeated count times.
			if dataIdx+d.bytesPerPixel > len(d.pixelData) {
				break
			}
			c := d.readPixel(dataIdx)
			dataIdx += d.bytesPerPixel
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				d.setPixel(pixelIdx, c)
				pixelIdx++
			}
		} else {
			// Raw packet, count literal pixels.
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				if dataIdx+d.bytesPerPixel > len(d.pixelData) {
					return nil
				}
				d.setPixel(pixelIdx, d.readPixel(dataIdx))
				dataIdx += d.bytesPerPixel
				pixelIdx++
			}
		}
	}
	return nil
}
