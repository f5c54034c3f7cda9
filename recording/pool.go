package recording

import "github.com/gogpu/spans/path"

// ResourcePool stores the paths referenced by recording commands. Each
// path is cloned on insertion so that later edits by the caller do not
// reach the recording.
//
// ResourcePool is not safe for concurrent use.
type ResourcePool struct {
	paths []*path.Path
}

// NewResourcePool creates an empty resource pool with pre-allocated capacity.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		paths: make([]*path.Path, 0, 64),
	}
}

// AddPath adds a clone of p to the pool and returns its reference.
func (p *ResourcePool) AddPath(pt *path.Path) PathRef {
	p.paths = append(p.paths, pt.Clone())
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	return PathRef(uint32(len(p.paths) - 1))
}

// GetPath returns the path for the given reference, or nil if the
// reference is invalid.
func (p *ResourcePool) GetPath(ref PathRef) *path.Path {
	if !ref.IsValid() || int(ref) >= len(p.paths) {
		return nil
	}
	return p.paths[ref]
}

// PathCount returns the number of paths in the pool.
func (p *ResourcePool) PathCount() int {
	return len(p.paths)
}

// Clear removes every path.
func (p *ResourcePool) Clear() {
	clear(p.paths)
	p.paths = p.paths[:0]
}
