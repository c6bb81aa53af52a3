package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxWidth and MaxHeight bound stored images. Larger uploads are scaled
// down proportionally to fit inside the box.
const (
	MaxWidth  = 800
	MaxHeight = 600
)

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// Normalize decodes image data, flattens alpha or palette images to an
// opaque representation, downscales anything larger than MaxWidth x
// MaxHeight, and re-encodes in the format named by ext ("jpg", "png", ...).
// Callers treat a failure here as non-fatal: the raw upload stays as-is.
func Normalize(data []byte, ext string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = flatten(img)
	img = downscale(img, MaxWidth, MaxHeight)

	var buf bytes.Buffer
	switch ext {
	case "jpg", "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality})
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		// No encoder for this format (e.g. webp); keep the raw upload.
		return nil, fmt.Errorf("no encoder for %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", ext, err)
	}

	return buf.Bytes(), nil
}

// flatten composites alpha or palette images onto an opaque white
// background so every stored image is a plain three-channel picture.
// Opaque formats (e.g. JPEG's YCbCr) pass through untouched.
func flatten(img image.Image) image.Image {
	switch img.(type) {
	case *image.NRGBA, *image.RGBA, *image.NRGBA64, *image.RGBA64, *image.Paletted:
	default:
		return img
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

// downscale resizes the image proportionally so it fits within maxW x maxH.
// Uses high-quality Catmull-Rom interpolation.
// Returns the original image if already within bounds.
func downscale(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxW && h <= maxH {
		return img
	}

	// Fit inside the box, preserving aspect ratio.
	newW, newH := w, h
	if newW > maxW {
		newH = newH * maxW / newW
		newW = maxW
	}
	if newH > maxH {
		newW = newW * maxH / newH
		newH = maxH
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	// Register decoders (jpeg is registered by default, but be explicit).
	// The webp decoder registers itself through its blank import.
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
	image.RegisterFormat("gif", "GIF8", gif.Decode, gif.DecodeConfig)
}
