package atlaspack

// freeList is the packer's set of regions known to hold no sprite. Entries
// live in one backing slice; scans run newest-first so the strips left by the
// last placement are reused before older ones.
type freeList struct {
	rects []Rect
}

func newFreeList(capacity int) *freeList {
	return &freeList{rects: make([]Rect, 0, capacity)}
}

// push appends r unless it has zero area.
func (l *freeList) push(r Rect) {
	if r.Empty() {
		return
	}
	l.rects = append(l.rects, r)
}

// find returns the index of the most recently added rect that can hold a
// w×h box, or -1.
func (l *freeList) find(w, h int) int {
	for i := len(l.rects) - 1; i >= 0; i-- {
		r := l.rects[i]
		if r.Width >= w && r.Height >= h {
			return i
		}
	}
	return -1
}

// take removes and returns the rect at index i, keeping the order of the rest.
func (l *freeList) take(i int) Rect {
	r := l.rects[i]
	copy(l.rects[i:], l.rects[i+1:])
	l.rects = l.rects[:len(l.rects)-1]
	return r
}

// split places a w×h box at the origin of free and pushes the leftover
// L-shaped space as two disjoint strips. The cut runs along the shorter
// leftover side: when the space right of the box is narrower than the space
// below it, the bottom strip spans the full width of free and the right
// strip only the box height; otherwise the right strip spans the full height
// and the bottom strip only the box width. The right strip is pushed last so
// the next scan tries it first.
func (l *freeList) split(free Rect, w, h int) {
	restW, restH := free.Width-w, free.Height-h
	if restW < restH {
		l.push(Rect{X: free.X, Y: free.Y + h, Width: free.Width, Height: restH})
		l.push(Rect{X: free.X + w, Y: free.Y, Width: restW, Height: h})
		return
	}
	l.push(Rect{X: free.X, Y: free.Y + h, Width: w, Height: restH})
	l.push(Rect{X: free.X + w, Y: free.Y, Width: restW, Height: free.Height})
}

func (l *freeList) len() int { return len(l.rects) }
