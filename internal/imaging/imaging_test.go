package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return buf.Bytes()
}

func makePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestNormalizeDownscaleFitsBounds(t *testing.T) {
	data := makeJPEG(t, 2000, 1500)
	out, err := Normalize(data, "jpg")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	w, h := decodeDims(t, out)
	if w > MaxWidth || h > MaxHeight {
		t.Errorf("expected at most %dx%d, got %dx%d", MaxWidth, MaxHeight, w, h)
	}

	// 2000x1500 is 4:3, same as 800x600, so both bounds should be hit.
	if w != 800 || h != 600 {
		t.Errorf("expected 800x600, got %dx%d", w, h)
	}
}

func TestNormalizePreservesAspectRatio(t *testing.T) {
	// 3000x600 is wider than tall: width should bind.
	data := makeJPEG(t, 3000, 600)
	out, err := Normalize(data, "jpg")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	w, h := decodeDims(t, out)
	if w != 800 {
		t.Errorf("expected width 800, got %d", w)
	}
	if h != 160 {
		t.Errorf("expected height 160 (aspect preserved), got %d", h)
	}
}

func TestNormalizeSmallImageNotUpscaled(t *testing.T) {
	data := makeJPEG(t, 50, 50)
	out, err := Normalize(data, "jpg")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	w, h := decodeDims(t, out)
	if w != 50 || h != 50 {
		t.Errorf("small image should not be resized: got %dx%d", w, h)
	}
}

func TestNormalizeFlattensAlpha(t *testing.T) {
	// Fully transparent PNG: flattening should land on the white background.
	data := makePNG(t, 10, 10, color.NRGBA{0, 0, 0, 0})
	out, err := Normalize(data, "png")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	r, g, b, a := img.At(5, 5).RGBA()
	if a != 0xffff {
		t.Errorf("expected opaque output, got alpha %d", a)
	}
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("expected white background, got rgb(%d, %d, %d)", r, g, b)
	}
}

func TestNormalizePNGStaysPNG(t *testing.T) {
	data := makePNG(t, 20, 20, color.NRGBA{0, 0, 255, 255})
	out, err := Normalize(data, "png")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Error("expected PNG output for png extension")
	}
}

func TestNormalizeCorruptData(t *testing.T) {
	if _, err := Normalize([]byte("not an image"), "jpg"); err == nil {
		t.Error("expected error for corrupt data")
	}
}

func TestNormalizeWebPNotReencoded(t *testing.T) {
	// No webp encoder exists; Normalize must report it so the caller can
	// keep the raw upload.
	data := makeJPEG(t, 10, 10)
	if _, err := Normalize(data, "webp"); err == nil {
		t.Error("expected error for webp re-encode")
	}
}
