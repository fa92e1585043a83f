package images

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/png"
	"testing"
)

func encode(t *testing.T, w, h int, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := enc(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("unable to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestProbe(t *testing.T) {
	pngData := encode(t, 3, 2, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) })
	gifData := encode(t, 7, 5, func(b *bytes.Buffer, img image.Image) error { return gif.Encode(b, img, nil) })
	svgData := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50.5"><rect width="100" height="50"/></svg>`)

	tests := []struct {
		name string
		data []byte
		file string
		want Info
	}{
		{"png", pngData, "a.png", Info{MIME: "image/png", Width: 3, Height: 2}},
		{"gif with wrong extension", gifData, "a.png", Info{MIME: "image/gif", Width: 7, Height: 5}},
		{"svg by content", svgData, "icon", Info{MIME: SVGMime, Width: 100, Height: 51}},
		{"svg by extension", []byte(`<?xml version="1.0"?>` + "\n" + string(svgData)), "icon.SVG", Info{MIME: SVGMime, Width: 100, Height: 51}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Probe(tt.data, tt.file)
			if err != nil {
				t.Fatalf("Probe() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Probe() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProbe_Errors(t *testing.T) {
	pngData := encode(t, 3, 2, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) })

	t.Run("empty", func(t *testing.T) {
		if _, err := Probe(nil, "a.png"); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Probe() error = %v, want ErrUnknownFormat", err)
		}
	})

	t.Run("text", func(t *testing.T) {
		if _, err := Probe([]byte("just some text"), "a.txt"); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Probe() error = %v, want ErrUnknownFormat", err)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		got, err := Probe([]byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"), "a.pdf")
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Probe() error = %v, want ErrUnknownFormat", err)
		}
		if got.MIME != "application/pdf" {
			t.Errorf("MIME = %q, want application/pdf", got.MIME)
		}
	})

	t.Run("truncated header", func(t *testing.T) {
		got, err := Probe(pngData[:12], "a.png")
		if err == nil {
			t.Fatal("Expected error for truncated png")
		}
		if got.MIME != "image/png" || got.Width != 0 {
			t.Errorf("Probe() = %+v, want type without dimensions", got)
		}
	})
}
