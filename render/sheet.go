// Package render loads a packed atlas into ebiten and hands out sprite
// sub-images by name.
package render

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/atlaspack"
)

// Debug enables a log line whenever a missing sprite name is requested.
var Debug bool

// TextureRegion describes one sprite's sub-rectangle within the atlas page.
type TextureRegion struct {
	X, Y          int
	Width, Height int
	// Placeholder is true for the magenta stand-in returned for unknown names.
	Placeholder bool
}

// Rect returns the region as an image.Rectangle in page coordinates.
func (r TextureRegion) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Sheet is a loaded atlas page plus its name lookup.
type Sheet struct {
	// Page is the atlas image.
	Page   *ebiten.Image
	lookup func(name string) (atlaspack.Rect, bool)
}

// LoadSheet pairs an atlaspack index (the nested single-character JSON) with
// its atlas page.
func LoadSheet(indexJSON []byte, page *ebiten.Image) (*Sheet, error) {
	index, err := atlaspack.ParseIndex(indexJSON)
	if err != nil {
		return nil, fmt.Errorf("render: load index: %w", err)
	}
	if err := checkFits(page, index.Walk); err != nil {
		return nil, err
	}
	return &Sheet{Page: page, lookup: index.Lookup}, nil
}

// LoadTexturePacker pairs TexturePacker hash-format JSON with its page.
func LoadTexturePacker(jsonData []byte, page *ebiten.Image) (*Sheet, error) {
	rects, err := atlaspack.ParseTexturePacker(jsonData)
	if err != nil {
		return nil, fmt.Errorf("render: load texturepacker: %w", err)
	}
	walk := func(fn func(string, atlaspack.Rect) error) error {
		for name, r := range rects {
			if err := fn(name, r); err != nil {
				return err
			}
		}
		return nil
	}
	if err := checkFits(page, walk); err != nil {
		return nil, err
	}
	return &Sheet{
		Page: page,
		lookup: func(name string) (atlaspack.Rect, bool) {
			r, ok := rects[name]
			return r, ok
		},
	}, nil
}

// checkFits rejects regions that fall outside the page.
func checkFits(page *ebiten.Image, walk func(func(string, atlaspack.Rect) error) error) error {
	if page == nil {
		return fmt.Errorf("render: nil atlas page")
	}
	b := page.Bounds()
	bounds := atlaspack.Rect{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()}
	return walk(func(name string, r atlaspack.Rect) error {
		if !bounds.Contains(r) {
			return fmt.Errorf("render: region %q %v outside page %dx%d", name, r, b.Dx(), b.Dy())
		}
		return nil
	})
}

// Region returns the TextureRegion for name. Unknown names yield a 1×1
// magenta placeholder region; with Debug set a warning is logged.
func (s *Sheet) Region(name string) TextureRegion {
	if r, ok := s.lookup(name); ok {
		return TextureRegion{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	}
	if Debug {
		log.Printf("render: sprite %q not found, using magenta placeholder", name)
	}
	return magentaRegion()
}

// Image returns the sub-image for name, or the magenta placeholder image.
func (s *Sheet) Image(name string) *ebiten.Image {
	r := s.Region(name)
	if r.Placeholder {
		return ensureMagentaImage()
	}
	return s.Page.SubImage(r.Rect()).(*ebiten.Image)
}

// magenta placeholder singleton; ebiten images are used from the game goroutine only.
var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}

func magentaRegion() TextureRegion {
	return TextureRegion{Width: 1, Height: 1, Placeholder: true}
}
