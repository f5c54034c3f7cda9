// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

// Boxes accumulates boxes, optionally clipping each one against a set of
// limit boxes as it is added.
type Boxes struct {
	items        []Box
	limits       []Box
	limit        Box
	pixelAligned bool
}

// NewBoxes returns an empty, unlimited box set.
func NewBoxes() *Boxes {
	return &Boxes{pixelAligned: true}
}

// BoxesOf wraps items without clipping. The slice is not copied.
func BoxesOf(items []Box) *Boxes {
	b := &Boxes{items: items, pixelAligned: true}
	for _, box := range items {
		if !box.IsPixelAligned() {
			b.pixelAligned = false
			break
		}
	}
	return b
}

// Limit clips all subsequently added boxes to the union of limits.
func (b *Boxes) Limit(limits []Box) {
	b.limits = limits
	if len(limits) == 0 {
		return
	}
	b.limit = limits[0]
	for _, l := range limits[1:] {
		b.limit = b.limit.Union(l)
	}
}

// Add appends box. Under AntialiasNone the box is first snapped to the pixel
// grid. Degenerate boxes are dropped. A reversed box keeps its direction
// through clipping; the stored box always has P1.Y < P2.Y.
func (b *Boxes) Add(aa Antialias, box Box) {
	if box.P1.Y == box.P2.Y || box.P1.X == box.P2.X {
		return
	}
	if aa == AntialiasNone {
		box = Box{
			P1: Pt(RoundDown(box.P1.X), RoundDown(box.P1.Y)),
			P2: Pt(RoundDown(box.P2.X), RoundDown(box.P2.Y)),
		}
		if box.P1.Y == box.P2.Y || box.P1.X == box.P2.X {
			return
		}
	}

	n, dir := box.Normalize()
	if len(b.limits) == 0 {
		b.addInternal(n, dir)
		return
	}

	if n.P1.X >= b.limit.P2.X || n.P2.X <= b.limit.P1.X ||
		n.P1.Y >= b.limit.P2.Y || n.P2.Y <= b.limit.P1.Y {
		return
	}
	for _, l := range b.limits {
		c := n.Intersect(l)
		if c.IsEmpty() {
			continue
		}
		b.addInternal(c, dir)
	}
}

func (b *Boxes) addInternal(n Box, dir int) {
	if dir < 0 {
		n.P1.X, n.P2.X = n.P2.X, n.P1.X
	}
	if b.pixelAligned && !n.IsPixelAligned() {
		b.pixelAligned = false
	}
	b.items = append(b.items, n)
}

// Len returns the number of boxes.
func (b *Boxes) Len() int { return len(b.items) }

// Items returns the stored boxes. The slice aliases internal storage.
func (b *Boxes) Items() []Box { return b.items }

// IsPixelAligned reports whether every stored box is pixel aligned.
func (b *Boxes) IsPixelAligned() bool { return b.pixelAligned }

// Clear removes all boxes but keeps the limits.
func (b *Boxes) Clear() {
	b.items = b.items[:0]
	b.pixelAligned = true
}

// Extents returns the normalized bounding box of all stored boxes.
func (b *Boxes) Extents() Box {
	if len(b.items) == 0 {
		return Box{}
	}
	ext, _ := b.items[0].Normalize()
	for _, box := range b.items[1:] {
		n, _ := box.Normalize()
		ext = ext.Union(n)
	}
	return ext
}

// Copy returns an independent copy without limits.
func (b *Boxes) Copy() *Boxes {
	c := &Boxes{pixelAligned: b.pixelAligned}
	c.items = append([]Box(nil), b.items...)
	return c
}

// Intersect returns the intersection of two sets of pairwise disjoint,
// normalized boxes. The result is again pairwise disjoint.
func (b *Boxes) Intersect(o *Boxes) *Boxes {
	out := NewBoxes()
	for _, x := range b.items {
		for _, y := range o.items {
			c := x.Intersect(y)
			if !c.IsEmpty() {
				out.addInternal(c, 1)
			}
		}
	}
	return out
}
