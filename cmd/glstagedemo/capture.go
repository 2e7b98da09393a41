package main

import (
	"errors"
	"fmt"
	"image"
	"os"

	"golang.org/x/image/bmp"

	"github.com/gogpu/glstage/hal"
)

// pixelReader is implemented by devices that can read back the framebuffer.
type pixelReader interface {
	ReadPixels(x, y, width, height int32) []byte
}

var errNoReadback = errors.New("backend cannot read pixels")

// toImage converts bottom-up RGBA8 rows into an image.
func toImage(pixels []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := 4 * width
	for y := 0; y < height; y++ {
		src := pixels[(height-1-y)*row : (height-y)*row]
		copy(img.Pix[y*img.Stride:], src)
	}
	return img
}

// capture writes the framebuffer of dev to path as a BMP.
func capture(dev hal.Device, width, height int, path string) error {
	r, ok := dev.(pixelReader)
	if !ok {
		return errNoReadback
	}
	pixels := r.ReadPixels(0, 0, int32(width), int32(height))
	if len(pixels) != 4*width*height {
		return fmt.Errorf("read %d bytes for %dx%d", len(pixels), width, height)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, toImage(pixels, width, height)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
