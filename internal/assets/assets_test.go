package assets

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/veldtgames/skewline/internal/engine/gfx"
)

func writeAsset(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSearchesRootsInReverseOrder(t *testing.T) {
	base := t.TempDir()
	patch := t.TempDir()
	writeAsset(t, base, "maps/town.yaml", []byte("base"))
	writeAsset(t, patch, "maps/town.yaml", []byte("patch"))

	m := NewManager()
	if err := m.AddRoot(base); err != nil {
		t.Fatal(err)
	}
	if err := m.AddRoot(patch); err != nil {
		t.Fatal(err)
	}

	data, err := m.Load("maps/town.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "patch" {
		t.Fatalf("loaded %q, want the later root to win", data)
	}
}

func TestLoadMissingAssetIsNotFound(t *testing.T) {
	m := NewManager()
	if err := m.AddRoot(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	_, err := m.Load("nope.yaml")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddRootRejectsFiles(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewManager()
	if err := m.AddRoot(file); err == nil {
		t.Error("AddRoot accepted a plain file")
	}
	if err := m.AddRoot(filepath.Join(root, "missing")); err == nil {
		t.Error("AddRoot accepted a missing directory")
	}
}

func TestLoadServesCachedBytesAfterFileRemoval(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "a.txt", []byte("cached"))

	m := NewManager()
	if err := m.AddRoot(root); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Load("a.txt"); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(root, "a.txt")); err != nil {
		t.Fatal(err)
	}
	data, err := m.Load("a.txt")
	if err != nil || string(data) != "cached" {
		t.Fatalf("cached load = %q, %v", data, err)
	}
}

// buildTGA encodes a tiny uncompressed 32-bit TGA in bottom-to-top row
// order with the given RGBA pixels (row-major, top-down).
func buildTGA(width, height int, pixels [][4]uint8) []byte {
	header := make([]byte, 18)
	header[2] = tgaTypeUncompressed
	header[12] = uint8(width)
	header[13] = uint8(width >> 8)
	header[14] = uint8(height)
	header[15] = uint8(height >> 8)
	header[16] = 32

	data := header
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			p := pixels[y*width+x]
			data = append(data, p[2], p[1], p[0], p[3]) // BGRA
		}
	}
	return data
}

func TestDecodeTGAUncompressed(t *testing.T) {
	pixels := [][4]uint8{
		{255, 0, 0, 255}, {0, 255, 0, 255},
		{0, 0, 255, 255}, {10, 20, 30, 128},
	}
	img, err := DecodeTGA(buildTGA(2, 2, pixels))
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v, want 2x2", img.Bounds())
	}
	r, g, b, a := img.At(0, 0).RGBA()
	if uint8(r>>8) != 255 || uint8(g>>8) != 0 || uint8(b>>8) != 0 || uint8(a>>8) != 255 {
		t.Errorf("pixel (0,0) = %v %v %v %v, want red", r>>8, g>>8, b>>8, a>>8)
	}
	r, g, b, a = img.At(1, 1).RGBA()
	// At alpha 128 the RGBA() accessor reports premultiplied values.
	if uint8(a>>8) != 128 {
		t.Errorf("pixel (1,1) alpha = %v, want 128", a>>8)
	}
	_ = r
	_ = g
	_ = b
}

func TestDecodeTGARejectsBadData(t *testing.T) {
	if _, err := DecodeTGA([]byte{1, 2, 3}); err == nil {
		t.Error("accepted truncated header")
	}
	bad := buildTGA(2, 2, make([][4]uint8, 4))
	bad[2] = 3 // grayscale, unsupported
	if _, err := DecodeTGA(bad); err == nil {
		t.Error("accepted unsupported image type")
	}
	short := buildTGA(2, 2, make([][4]uint8, 4))
	if _, err := DecodeTGA(short[:20]); err == nil {
		t.Error("accepted truncated pixel data")
	}
}

func pngBytes(t *testing.T, img *gfx.Image) []byte {
	t.Helper()
	if img.Format != gfx.FormatRGBA {
		t.Fatal("pngBytes needs an RGBA source")
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	copy(rgba.Pix, img.Pix)
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeImageDropsAlphaForRGB(t *testing.T) {
	src := gfx.NewImage(2, 1, gfx.FormatRGBA)
	src.SetPixel(0, 0, 10, 20, 30, 255)
	src.SetPixel(1, 0, 40, 50, 60, 255)

	img, err := DecodeImage("layer.png", pngBytes(t, src), gfx.FormatRGB)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if img.Format != gfx.FormatRGB {
		t.Fatalf("format = %v, want RGB", img.Format)
	}
	if len(img.Pix) != 2*3 {
		t.Fatalf("pix length = %d, want 6", len(img.Pix))
	}
	if img.Pix[0] != 10 || img.Pix[1] != 20 || img.Pix[2] != 30 {
		t.Errorf("first pixel = %v, want [10 20 30]", img.Pix[:3])
	}
}

func TestDecodeImageUnknownExtension(t *testing.T) {
	_, err := DecodeImage("thing.bmp", []byte{0}, gfx.FormatRGBA)
	if !errors.Is(err, ErrBadImage) {
		t.Fatalf("err = %v, want ErrBadImage", err)
	}
}

func TestSpriteLoaderRoundTrip(t *testing.T) {
	root := t.TempDir()

	layer := gfx.NewImage(4, 4, gfx.FormatRGBA)
	layer.Fill(200, 100, 50, 255)
	writeAsset(t, root, "sprites/crate/diffuse.png", pngBytes(t, layer))
	writeAsset(t, root, "sprites/crate/normal.png", pngBytes(t, layer))
	writeAsset(t, root, "sprites/crate/offset.png", pngBytes(t, layer))
	writeAsset(t, root, "sprites/crate.yaml", []byte(`
version: 1
size: {x: 1, y: 1}
offset_scale: 0.5
bounding_box:
  min: {x: -0.5, y: -0.5, z: 0}
  max: {x: 0.5, y: 0.5, z: 1}
facings:
  - rotation: 0
    diffuse: sprites/crate/diffuse.png
    normal: sprites/crate/normal.png
    offset: sprites/crate/offset.png
`))

	m := NewManager()
	if err := m.AddRoot(root); err != nil {
		t.Fatal(err)
	}
	desc, err := NewSpriteLoader(m).LoadSpriteDescription("crate")
	if err != nil {
		t.Fatalf("LoadSpriteDescription: %v", err)
	}
	if len(desc.Facings) != 1 {
		t.Fatalf("facings = %d, want 1", len(desc.Facings))
	}
	f := desc.Facings[0]
	if f.Diffuse.Format != gfx.FormatRGBA || f.Normal.Format != gfx.FormatRGB || f.Offset.Format != gfx.FormatRGB {
		t.Error("layer formats not RGBA/RGB/RGB")
	}
	if desc.OffsetScale != 0.5 {
		t.Errorf("offset scale = %v, want 0.5", desc.OffsetScale)
	}
}

func TestSpriteLoaderConvertsRotationToRadians(t *testing.T) {
	root := t.TempDir()

	layer := gfx.NewImage(2, 2, gfx.FormatRGBA)
	writeAsset(t, root, "sprites/barrel/d.png", pngBytes(t, layer))
	writeAsset(t, root, "sprites/barrel/n.png", pngBytes(t, layer))
	writeAsset(t, root, "sprites/barrel/o.png", pngBytes(t, layer))
	writeAsset(t, root, "sprites/barrel.yaml", []byte(`
version: 1
size: {x: 1, y: 1}
offset_scale: 1
bounding_box:
  min: {x: 0, y: 0, z: 0}
  max: {x: 1, y: 1, z: 1}
facings:
  - rotation: 0
    diffuse: sprites/barrel/d.png
    normal: sprites/barrel/n.png
    offset: sprites/barrel/o.png
  - rotation: 90
    diffuse: sprites/barrel/d.png
    normal: sprites/barrel/n.png
    offset: sprites/barrel/o.png
  - rotation: -45
    diffuse: sprites/barrel/d.png
    normal: sprites/barrel/n.png
    offset: sprites/barrel/o.png
`))

	m := NewManager()
	if err := m.AddRoot(root); err != nil {
		t.Fatal(err)
	}
	desc, err := NewSpriteLoader(m).LoadSpriteDescription("barrel")
	if err != nil {
		t.Fatalf("LoadSpriteDescription: %v", err)
	}
	want := []float64{0, math.Pi / 2, -math.Pi / 4}
	for i, w := range want {
		got := float64(desc.Facings[i].ZRotation)
		if math.Abs(got-w) > 1e-6 {
			t.Errorf("facing %d rotation = %v rad, want %v", i, got, w)
		}
	}
}

func TestSpriteLoaderErrors(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "sprites/bad.yaml", []byte("version: 99"))
	writeAsset(t, root, "sprites/hollow.yaml", []byte(`
version: 1
size: {x: 1, y: 1}
facings: []
`))

	m := NewManager()
	if err := m.AddRoot(root); err != nil {
		t.Fatal(err)
	}
	loader := NewSpriteLoader(m)

	if _, err := loader.LoadSpriteDescription("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing sprite err = %v, want ErrNotFound", err)
	}
	if _, err := loader.LoadSpriteDescription("bad"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("bad version err = %v, want ErrBadFormat", err)
	}
	if _, err := loader.LoadSpriteDescription("hollow"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("empty facings err = %v, want ErrBadFormat", err)
	}
}
