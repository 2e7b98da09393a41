package main

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/gogpu/glstage/hal/softgl"
)

func TestToImageFlipsRows(t *testing.T) {
	// two rows, bottom row red, top row blue
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
	img := toImage(pixels, 2, 2)
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top left = %v, want blue", got)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom right = %v, want red", got)
	}

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if r, _, b, _ := decoded.At(0, 0).RGBA(); r != 0 || b != 0xffff {
		t.Errorf("decoded top left = %v", decoded.At(0, 0))
	}
}

func TestCaptureNeedsReadback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.bmp")
	if err := capture(softgl.New(), 4, 4, path); !errors.Is(err, errNoReadback) {
		t.Errorf("capture() error = %v, want errNoReadback", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("capture created a file")
	}
}
