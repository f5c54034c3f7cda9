// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sweep

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/spans/geom"
	"github.com/gogpu/spans/internal/status"
)

// Sink receives the sweep output: the region between x = left and
// x = right for top <= y < bottom. Returning an error aborts the sweep.
type Sink interface {
	AddSpan(top, bottom, left, right fixed.Int26_6) error
}

// Rect is one input rectangle. Left must not exceed Right; Dir is the
// winding of the left edge (the right edge gets -Dir).
type Rect struct {
	Left, Right fixed.Int26_6
	Top, Bottom fixed.Int26_6
	Dir         int
}

const (
	nilEdge  int32 = -1
	headEdge int32 = 0
	tailEdge int32 = 1

	maxRects = (math.MaxInt32 - 2) / 2
)

// edge is a node of the active edge list. While an edge opens a span,
// right names the edge closing it and top is where the span began.
type edge struct {
	prev, next int32
	right      int32
	x, top     fixed.Int26_6
	dir        int
}

type rectangle struct {
	top, bottom fixed.Int26_6
}

type sweepLine struct {
	edges []edge
	rects []rectangle

	start    []int32
	startPos int
	stop     []int32 // 1-based binary heap on bottom

	cursor   int32
	currentY fixed.Int26_6
	lastY    fixed.Int26_6

	rule geom.FillRule
	sink Sink
}

func leftOf(r int32) int32  { return 2 + 2*r }
func rightOf(r int32) int32 { return 3 + 2*r }

// Tessellate sweeps rects under rule and emits the filled region to sink.
// Rectangles without height are dropped; rectangles without width take part
// in winding but never produce output.
func Tessellate(rects []Rect, rule geom.FillRule, sink Sink) error {
	valid := make([]Rect, 0, len(rects))
	for _, r := range rects {
		if r.Top >= r.Bottom {
			continue
		}
		if r.Left > r.Right {
			r.Left, r.Right = r.Right, r.Left
			r.Dir = -r.Dir
		}
		if r.Dir == 0 {
			r.Dir = 1
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return nil
	}
	if len(valid) > maxRects {
		return fmt.Errorf("sweep: %d rectangles: %w", len(valid), status.ErrNoMemory)
	}

	s := newSweepLine(valid, rule, sink)
	return s.run()
}

func newSweepLine(rects []Rect, rule geom.FillRule, sink Sink) *sweepLine {
	n := len(rects)
	s := &sweepLine{
		edges:    make([]edge, 2+2*n),
		rects:    make([]rectangle, n),
		start:    make([]int32, n),
		stop:     make([]int32, 1, n+1),
		cursor:   tailEdge,
		currentY: geom.MinFixed,
		lastY:    geom.MinFixed,
		rule:     rule,
		sink:     sink,
	}
	s.edges[headEdge] = edge{prev: nilEdge, next: tailEdge, right: nilEdge, x: geom.MinFixed}
	s.edges[tailEdge] = edge{prev: headEdge, next: nilEdge, right: nilEdge, x: geom.MaxFixed}

	for i, r := range rects {
		ri := int32(i)
		s.rects[i] = rectangle{top: r.Top, bottom: r.Bottom}
		s.edges[leftOf(ri)] = edge{right: nilEdge, x: r.Left, dir: r.Dir}
		s.edges[rightOf(ri)] = edge{right: nilEdge, x: r.Right, dir: -r.Dir}
		s.start[i] = ri
	}
	slices.SortStableFunc(s.start, func(a, b int32) int {
		if c := cmp.Compare(s.rects[a].top, s.rects[b].top); c != 0 {
			return c
		}
		return cmp.Compare(s.edges[leftOf(a)].x, s.edges[leftOf(b)].x)
	})
	return s
}

func (s *sweepLine) popStart() (int32, bool) {
	if s.startPos == len(s.start) {
		return nilEdge, false
	}
	r := s.start[s.startPos]
	s.startPos++
	return r, true
}

func (s *sweepLine) run() error {
	update := false
	rect, ok := s.popStart()
	for ok {
		top := s.rects[rect].top
		if top < s.currentY {
			panic(fmt.Sprintf("sweep: rectangle %d starts at %v, above the sweep line at %v", rect, top, s.currentY))
		}
		if top != s.currentY {
			for stop, more := s.peekStop(); more && s.rects[stop].bottom < top; stop, more = s.peekStop() {
				if bottom := s.rects[stop].bottom; bottom != s.currentY {
					if update {
						if err := s.flush(); err != nil {
							return err
						}
						update = false
					}
					s.currentY = bottom
				}
				if err := s.delete(stop); err != nil {
					return err
				}
				update = true
			}
			if update {
				if err := s.flush(); err != nil {
					return err
				}
				update = false
			}
			s.currentY = top
		}

		for {
			s.insert(rect)
			update = true
			rect, ok = s.popStart()
			if !ok || s.rects[rect].top != s.currentY {
				break
			}
		}
	}

	for stop, more := s.peekStop(); more; stop, more = s.peekStop() {
		if bottom := s.rects[stop].bottom; bottom != s.currentY {
			if update {
				if err := s.flush(); err != nil {
					return err
				}
				update = false
			}
			s.currentY = bottom
		}
		if err := s.delete(stop); err != nil {
			return err
		}
		update = true
	}
	return nil
}

// insertEdge links e into the active list, after any edges with the same x.
// The search starts at pos and walks in whichever direction is needed.
func (s *sweepLine) insertEdge(e, pos int32) {
	x := s.edges[e].x
	if s.edges[pos].x > x {
		for s.edges[s.edges[pos].prev].x > x {
			pos = s.edges[pos].prev
		}
	} else {
		for s.edges[pos].x <= x {
			pos = s.edges[pos].next
		}
	}

	prev := s.edges[pos].prev
	s.edges[prev].next = e
	s.edges[e].prev = prev
	s.edges[e].next = pos
	s.edges[pos].prev = e
}

func (s *sweepLine) insert(r int32) {
	if rc := s.rects[r]; rc.top >= rc.bottom {
		panic(fmt.Sprintf("sweep: rectangle %d has non-positive height [%v, %v)", r, rc.top, rc.bottom))
	}
	left, right := leftOf(r), rightOf(r)
	s.insertEdge(left, s.cursor)
	s.insertEdge(right, left)
	s.cursor = left
	s.pushStop(r)
}

func (s *sweepLine) deleteEdge(e int32) error {
	ed := &s.edges[e]
	if ed.right != nilEdge {
		next := &s.edges[ed.next]
		if next.x == ed.x && next.right == nilEdge {
			next.top = ed.top
			next.right = ed.right
			ed.right = nilEdge
		} else if err := s.endSpan(e, s.currentY); err != nil {
			return err
		}
	}

	if s.cursor == e {
		s.cursor = ed.prev
	}
	s.edges[ed.prev].next = ed.next
	s.edges[ed.next].prev = ed.prev
	return nil
}

func (s *sweepLine) delete(r int32) error {
	if err := s.deleteEdge(leftOf(r)); err != nil {
		return err
	}
	if err := s.deleteEdge(rightOf(r)); err != nil {
		return err
	}
	s.popStop()
	return nil
}

// endSpan closes the span opened by left at bottom. This is the only place
// output is produced, and only for spans with positive height.
func (s *sweepLine) endSpan(left int32, bottom fixed.Int26_6) error {
	l := &s.edges[left]
	if r := s.edges[l.right].x; r < l.x {
		panic(fmt.Sprintf("sweep: active edges out of order, span [%v, %v)", l.x, r))
	}
	if l.top < bottom {
		if err := s.sink.AddSpan(l.top, bottom, l.x, s.edges[l.right].x); err != nil {
			return err
		}
	}
	l.right = nilEdge
	return nil
}

func (s *sweepLine) startOrContinue(left, right int32, top fixed.Int26_6) error {
	l := &s.edges[left]
	if l.right == right {
		return nil
	}
	if l.right != nilEdge {
		if right != nilEdge && s.edges[l.right].x == s.edges[right].x {
			// the right boundary did not move, only its carrier
			l.right = right
			return nil
		}
		if err := s.endSpan(left, top); err != nil {
			return err
		}
	}
	if right != nilEdge && l.x != s.edges[right].x {
		l.top = top
		l.right = right
	}
	return nil
}

// flush converts the active edges at currentY into open spans.
func (s *sweepLine) flush() error {
	top := s.currentY
	if s.lastY == top {
		return nil
	}
	pos := s.edges[headEdge].next
	if pos == tailEdge {
		return nil
	}

	var err error
	if s.rule == geom.FillRuleWinding {
		err = s.flushWinding(pos, top)
	} else {
		err = s.flushEvenOdd(pos, top)
	}
	if err != nil {
		return err
	}
	s.lastY = top
	return nil
}

func (s *sweepLine) flushWinding(pos int32, top fixed.Int26_6) error {
	for pos != tailEdge {
		left := pos
		winding := s.edges[left].dir
		right := s.edges[left].next

		// Coalesce edges sharing the left x; an open span on any of them
		// moves onto left.
		for s.edges[right].x == s.edges[left].x {
			if s.edges[right].right != nilEdge {
				if s.edges[left].right == nilEdge {
					s.edges[left].top = s.edges[right].top
					s.edges[left].right = s.edges[right].right
					s.edges[right].right = nilEdge
				} else if err := s.endSpan(right, top); err != nil {
					return err
				}
			}
			winding += s.edges[right].dir
			right = s.edges[right].next
		}

		if winding == 0 {
			if s.edges[left].right != nilEdge {
				if err := s.endSpan(left, top); err != nil {
					return err
				}
			}
			pos = right
			continue
		}

		for {
			if s.edges[right].right != nilEdge {
				if err := s.endSpan(right, top); err != nil {
					return err
				}
			}
			winding += s.edges[right].dir
			if winding == 0 && s.edges[right].x != s.edges[s.edges[right].next].x {
				break
			}
			right = s.edges[right].next
		}

		if err := s.startOrContinue(left, right, top); err != nil {
			return err
		}
		pos = s.edges[right].next
	}
	return nil
}

func (s *sweepLine) flushEvenOdd(pos int32, top fixed.Int26_6) error {
	for pos != tailEdge {
		right := s.edges[pos].next
		count := 0
		for {
			if s.edges[right].right != nilEdge {
				if err := s.endSpan(right, top); err != nil {
					return err
				}
			}
			count++
			if count&1 == 1 && s.edges[right].x != s.edges[s.edges[right].next].x {
				break
			}
			right = s.edges[right].next
		}

		if err := s.startOrContinue(pos, right, top); err != nil {
			return err
		}
		pos = s.edges[right].next
	}
	return nil
}
