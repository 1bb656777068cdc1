package atlaspack

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Codec measures and decodes encoded sprite images.
type Codec interface {
	Measure(data []byte) (width, height int, err error)
	Decode(data []byte) (*image.NRGBA, error)
}

// ImageCodec is the Codec backed by the image package's registered formats.
type ImageCodec struct{}

func (ImageCodec) Measure(data []byte) (int, int, error)   { return Measure(data) }
func (ImageCodec) Decode(data []byte) (*image.NRGBA, error) { return Decode(data) }

// Measure returns the pixel size of an encoded image without decoding its
// pixels. Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP.
func Measure(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Decode decodes an encoded image into a straight-alpha NRGBA buffer whose
// bounds start at the origin.
func Decode(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	return toNRGBA(img), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// EncodePNG writes img to w as PNG at the given compression level.
func EncodePNG(w io.Writer, img image.Image, level png.CompressionLevel) error {
	enc := png.Encoder{CompressionLevel: level}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("atlaspack: encode png: %w", err)
	}
	return nil
}
