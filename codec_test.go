package atlaspack

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestMeasure_Formats(t *testing.T) {
	src := solid(7, 3, color.NRGBA{R: 200, A: 255})
	encoders := map[string]func(*bytes.Buffer) error{
		"png":  func(b *bytes.Buffer) error { return png.Encode(b, src) },
		"jpeg": func(b *bytes.Buffer) error { return jpeg.Encode(b, src, nil) },
		"gif":  func(b *bytes.Buffer) error { return gif.Encode(b, src, nil) },
		"bmp":  func(b *bytes.Buffer) error { return bmp.Encode(b, src) },
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := enc(&buf); err != nil {
				t.Fatalf("encode: %v", err)
			}
			w, h, err := Measure(buf.Bytes())
			if err != nil {
				t.Fatalf("Measure: %v", err)
			}
			if w != 7 || h != 3 {
				t.Errorf("Measure = %dx%d, want 7x3", w, h)
			}
			img, err := Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if b := img.Bounds(); b != image.Rect(0, 0, 7, 3) {
				t.Errorf("Decode bounds = %v, want (0,0)-(7,3)", b)
			}
		})
	}
}

func TestDecode_PNGExact(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(2, 1, color.NRGBA{B: 255, A: 128})
	img, err := Decode(encodePNG(t, src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got, want := img.NRGBAAt(x, y), src.NRGBAAt(x, y); got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDecode_ConvertsOpaqueRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img, err := Decode(encodePNG(t, src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestToNRGBA_OffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	src.SetNRGBA(5, 5, color.NRGBA{G: 9, A: 255})
	got := toNRGBA(src)
	if got.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds = %v, want origin-based", got.Bounds())
	}
	if c := got.NRGBAAt(0, 0); c != (color.NRGBA{G: 9, A: 255}) {
		t.Errorf("pixel = %v", c)
	}
}

func TestMeasure_Unreadable(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("not an image"), []byte("\x89PNG\r\n\x1a\n")} {
		if _, _, err := Measure(data); !errors.Is(err, ErrUnreadableImage) {
			t.Errorf("Measure(%q) err = %v, want ErrUnreadableImage", data, err)
		}
		if _, err := Decode(data); !errors.Is(err, ErrUnreadableImage) {
			t.Errorf("Decode(%q) err = %v, want ErrUnreadableImage", data, err)
		}
	}
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	src := solid(4, 4, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	for _, level := range []png.CompressionLevel{png.DefaultCompression, png.BestSpeed, png.BestCompression, png.NoCompression} {
		var buf bytes.Buffer
		if err := EncodePNG(&buf, src, level); err != nil {
			t.Fatalf("EncodePNG(%d): %v", level, err)
		}
		img, err := Decode(buf.Bytes())
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(img.Pix, src.Pix) {
			t.Errorf("level %d: pixels differ after round trip", level)
		}
	}
}

func TestEncodePNG_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, image.NewNRGBA(image.Rect(0, 0, 0, 0)), png.DefaultCompression); err == nil {
		t.Error("expected error encoding an empty image")
	}
}
