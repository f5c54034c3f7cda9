package surface

import (
	"image"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/spans"
)

// scratchPool reuses scratch surfaces between compositing operations.
//
// Surfaces are grouped by size and format, so a scratch released after one
// operation can serve any later operation of the same size wherever it
// lies on the destination.
//
// Thread safety: All methods are safe for concurrent use.
type scratchPool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*ImageSurface
	maxSize int // max surfaces per bucket
}

// poolKey identifies a bucket of interchangeable surfaces.
type poolKey struct {
	width  int
	height int
	format gputypes.TextureFormat
}

// newScratchPool creates a pool retaining up to maxPerBucket surfaces of
// each size and format. Zero or less disables pooling.
func newScratchPool(maxPerBucket int) *scratchPool {
	return &scratchPool{
		buckets: make(map[poolKey][]*ImageSurface),
		maxSize: maxPerBucket,
	}
}

// get returns a transparent scratch covering r.
func (p *scratchPool) get(format gputypes.TextureFormat, r image.Rectangle) (*ImageSurface, error) {
	key := poolKey{width: r.Dx(), height: r.Dy(), format: format}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		s := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		s.move(r)
		return s, nil
	}
	p.mu.Unlock()

	s, err := newSurface(format, r, spans.KindScratch)
	if err != nil {
		return nil, err
	}
	s.pooled = true
	return s, nil
}

// put returns s to the pool. Surfaces the pool did not create are ignored.
func (p *scratchPool) put(s *ImageSurface) {
	if s == nil || !s.pooled {
		return
	}
	s.zero()

	r := s.Bounds()
	key := poolKey{width: r.Dx(), height: r.Dy(), format: s.Format()}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize <= 0 || len(bucket) >= p.maxSize {
		return
	}
	for _, b := range bucket {
		if b == s {
			spans.Logger().Warn("surface: scratch released twice", "bounds", r)
			return
		}
	}
	p.buckets[key] = append(bucket, s)
}

// len returns the number of idle surfaces.
func (p *scratchPool) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}

// move re-anchors a zeroed scratch at r, which has the same size.
func (s *ImageSurface) move(r image.Rectangle) {
	if s.alpha != nil {
		s.alpha.Rect = r
	} else {
		s.rgba.Rect = r
	}
	s.clear = true
}
