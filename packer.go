package atlaspack

import (
	"fmt"
	"math"
	"sort"
)

// SpriteBox is one sprite's packing unit. Width and Height are measured before
// packing; X and Y are assigned by Pack.
type SpriteBox struct {
	Name          string
	Width, Height int
	X, Y          int
}

// Rect returns the box's placed rectangle.
func (b SpriteBox) Rect() Rect {
	return Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// Atlas is the size of the packed sheet: the tight bounding box of every
// placed sprite.
type Atlas struct {
	Width, Height int
}

// Bounds returns the atlas area as a Rect anchored at the origin.
func (a Atlas) Bounds() Rect {
	return Rect{Width: a.Width, Height: a.Height}
}

// Default packing parameters.
const (
	DefaultFillRatio = 0.9
	DefaultAspect    = 1.0
)

// PackOptions tunes Pack. The zero value packs with the defaults.
type PackOptions struct {
	// FillRatio is the expected share of the sheet covered by sprites. It
	// sizes the starting width; values outside (0, 1] use DefaultFillRatio.
	FillRatio float64
	// Aspect is the target height/width ratio of the working sheet. When the
	// sheet is flatter than this it grows downward, otherwise rightward.
	// Non-positive values use DefaultAspect.
	Aspect float64
	// Padding reserves this many empty pixels right of and below each sprite.
	Padding int
	// Progress, if set, is called after each sprite is placed.
	Progress ProgressFunc
}

func (o PackOptions) withDefaults() PackOptions {
	if !(o.FillRatio > 0 && o.FillRatio <= 1) {
		o.FillRatio = DefaultFillRatio
	}
	if !(o.Aspect > 0) {
		o.Aspect = DefaultAspect
	}
	return o
}

// Pack assigns an origin to every box so that no two boxes overlap, and
// returns the resulting atlas size. Boxes keep their order in the slice; only
// X and Y are written.
//
// Boxes are placed largest side first into the newest free region that fits.
// When none fits, the working sheet grows by one strip sized to the box, so
// every growth step is followed by a successful placement. The output is a
// pure function of the input order and sizes.
func Pack(boxes []SpriteBox, opts PackOptions) (Atlas, error) {
	if len(boxes) == 0 {
		return Atlas{}, ErrNoSprites
	}
	if opts.Padding < 0 {
		return Atlas{}, fmt.Errorf("atlaspack: negative padding %d", opts.Padding)
	}
	opts = opts.withDefaults()

	var totalArea float64
	maxWidth := 0
	for i := range boxes {
		b := &boxes[i]
		if b.Width <= 0 || b.Height <= 0 {
			return Atlas{}, spriteErr(b.Name,
				fmt.Errorf("%w: %dx%d", ErrInvalidDimension, b.Width, b.Height))
		}
		w, h := b.Width+opts.Padding, b.Height+opts.Padding
		totalArea += float64(w) * float64(h)
		maxWidth = max(maxWidth, w)
	}

	order := packingOrder(boxes)

	s := &sheet{
		width:  max(maxWidth, int(math.Ceil(math.Sqrt(totalArea/opts.FillRatio)))),
		aspect: opts.Aspect,
		free:   newFreeList(2 * len(boxes)),
	}

	for done, idx := range order {
		b := &boxes[idx]
		w, h := b.Width+opts.Padding, b.Height+opts.Padding
		i := s.free.find(w, h)
		for i < 0 {
			s.grow(w, h)
			i = s.free.find(w, h)
		}
		free := s.free.take(i)
		b.X, b.Y = free.X, free.Y
		s.free.split(free, w, h)
		if opts.Progress != nil {
			opts.Progress(StagePack, done+1, len(boxes))
		}
	}

	return Bounds(boxes), nil
}

// Bounds returns the tight bounding box of the placed boxes.
func Bounds(boxes []SpriteBox) Atlas {
	var a Atlas
	for _, b := range boxes {
		a.Width = max(a.Width, b.X+b.Width)
		a.Height = max(a.Height, b.Y+b.Height)
	}
	return a
}

// packingOrder returns box indices sorted by longest side, then shortest
// side, both descending; ties keep input order.
func packingOrder(boxes []SpriteBox) []int {
	order := make([]int, len(boxes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := boxes[order[i]], boxes[order[j]]
		amax, amin := max(a.Width, a.Height), min(a.Width, a.Height)
		bmax, bmin := max(b.Width, b.Height), min(b.Width, b.Height)
		if amax != bmax {
			return amax > bmax
		}
		return amin > bmin
	})
	return order
}

// sheet is the packer's working container. It may end up larger than the
// final atlas; Pack trims it with Bounds.
type sheet struct {
	width, height int
	aspect        float64
	free          *freeList
}

// grow adds one strip that can hold a w×h box. The width never drops below
// the widest box, so a bottom strip always fits; a right strip is only added
// when the sheet is already tall enough for the box.
func (s *sheet) grow(w, h int) {
	tooWide := float64(s.height)/float64(s.width) < s.aspect
	if tooWide || s.height < h {
		s.free.push(Rect{X: 0, Y: s.height, Width: s.width, Height: h})
		s.height += h
		return
	}
	s.free.push(Rect{X: s.width, Y: 0, Width: w, Height: s.height})
	s.width += w
}
