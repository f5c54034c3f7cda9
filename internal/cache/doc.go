// Package cache provides a generic fixed-capacity LRU cache.
//
// The image backend keeps rendered snapshots of recording patterns in it,
// keyed by recording, area and recording generation:
//
//	c := cache.New[key, *Snapshot](4, func(k key, s *Snapshot) { s.Free() })
//	c.Put(k, snap)
//	snap, ok := c.Get(k)
//
// The cache is safe for concurrent use and must not be copied.
package cache
