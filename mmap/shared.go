package mmap

import "sync/atomic"

// Shared wraps a *Region with a reference count so that multiple
// CompactFst clones (copies are meant to be O(1) and cheap, per spec
// §3) can share one underlying mapping and release it deterministically
// when the last clone drops it.
type Shared struct {
	region *Region
	refs   *int32
}

// NewShared takes ownership of region; the returned Shared starts with
// one reference.
func NewShared(region *Region) *Shared {
	refs := int32(1)
	return &Shared{region: region, refs: &refs}
}

// Acquire returns a new handle to the same region, incrementing the
// refcount. The returned value must be Released independently of s.
func (s *Shared) Acquire() *Shared {
	atomic.AddInt32(s.refs, 1)
	return &Shared{region: s.region, refs: s.refs}
}

func (s *Shared) Region() *Region { return s.region }

// Release decrements the refcount, closing the underlying region once it
// reaches zero. Calling Release more than once per Acquire/NewShared is
// a caller bug; it is not guarded against beyond what atomic decrement
// naturally provides.
func (s *Shared) Release() error {
	if atomic.AddInt32(s.refs, -1) == 0 {
		return s.region.Close()
	}
	return nil
}
