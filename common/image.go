package common

import (
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
)

// CropImage crops an image to the specified rectangle.
func CropImage(img image.Image, rect image.Rectangle) image.Image {
	intersect := rect.Intersect(img.Bounds())
	if intersect.Empty() {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(intersect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, intersect.Dx(), intersect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, intersect.Min, draw.Src)
	return dst
}

// SavePNG writes an image to path, creating parent directories as needed.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
