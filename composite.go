package atlaspack

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Sprite pairs a placed box with its decoded pixels.
type Sprite struct {
	Box    SpriteBox
	Pixels *image.NRGBA
}

// CompositeOptions tunes Composite. The zero value composites onto a fully
// transparent sheet using GOMAXPROCS workers.
type CompositeOptions struct {
	// Background fills every pixel not covered by a sprite.
	Background color.NRGBA
	// Workers bounds the number of sprites copied concurrently.
	Workers int
	// Progress, if set, is called after each sprite is copied.
	Progress ProgressFunc
}

// Composite copies every sprite into a new atlas-sized image at its packed
// position. Packed rectangles never overlap, so workers write disjoint parts
// of the destination without locking. ctx is checked between sprites.
func Composite(ctx context.Context, atlas Atlas, sprites []Sprite, opts CompositeOptions) (*image.NRGBA, error) {
	if atlas.Width <= 0 || atlas.Height <= 0 {
		return nil, fmt.Errorf("atlaspack: %w: atlas %dx%d", ErrInvalidDimension, atlas.Width, atlas.Height)
	}
	bounds := atlas.Bounds()
	for _, s := range sprites {
		if err := checkSprite(s, bounds); err != nil {
			return nil, err
		}
	}

	dst := image.NewNRGBA(bounds.Image())
	fill(dst, opts.Background)

	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(opts.Workers))
	for i := range sprites {
		s := &sprites[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			blit(dst, s.Pixels, s.Box.X, s.Box.Y)
			if opts.Progress != nil {
				opts.Progress(StageComposite, int(done.Add(1)), len(sprites))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dst, nil
}

func checkSprite(s Sprite, bounds Rect) error {
	if s.Pixels == nil {
		return spriteErr(s.Box.Name, fmt.Errorf("%w: no pixels", ErrSizeMismatch))
	}
	size := s.Pixels.Bounds().Size()
	if size.X != s.Box.Width || size.Y != s.Box.Height {
		return spriteErr(s.Box.Name, fmt.Errorf("%w: decoded %dx%d, measured %dx%d",
			ErrSizeMismatch, size.X, size.Y, s.Box.Width, s.Box.Height))
	}
	if !bounds.Contains(s.Box.Rect()) {
		return spriteErr(s.Box.Name, fmt.Errorf("%w: %v outside atlas %dx%d",
			ErrInvalidDimension, s.Box.Rect(), bounds.Width, bounds.Height))
	}
	return nil
}

// fill sets every pixel of dst to c. A zero colour is already the state of a
// fresh image.NRGBA.
func fill(dst *image.NRGBA, c color.NRGBA) {
	if c == (color.NRGBA{}) {
		return
	}
	px := []uint8{c.R, c.G, c.B, c.A}
	for i := 0; i < len(dst.Pix); i += 4 {
		copy(dst.Pix[i:i+4], px)
	}
}

// blit copies src row by row into dst with its top-left corner at (x, y).
func blit(dst, src *image.NRGBA, x, y int) {
	sb := src.Bounds()
	rowBytes := sb.Dx() * 4
	for row := 0; row < sb.Dy(); row++ {
		so := src.PixOffset(sb.Min.X, sb.Min.Y+row)
		do := dst.PixOffset(x, y+row)
		copy(dst.Pix[do:do+rowBytes], src.Pix[so:so+rowBytes])
	}
}

func workerCount(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}
