// Package cache implements the per-state lazy computation cache (spec
// §4.5) that backs delayed/on-demand FSTs: a thread-unsafe store of
// final weights and out-arcs, expanded on demand and bounded by a byte
// budget with FIFO eviction of unpinned states.
package cache

import (
	"unsafe"

	"golang.org/x/xerrors"

	"github.com/fstkit/fst"
	"github.com/fstkit/fst/weight"
)

// DefaultGCLimit is used when a Config's DefaultCacheGCLimit is left at
// its zero value but GC is enabled (mirrors --fst_default_cache_gc_limit's
// upstream default order of magnitude: tens of megabytes).
const DefaultGCLimit int64 = 64 << 20

// ErrArcsFinalized is returned by PushArc once SetArcs has already been
// called for that state (spec §4.5 invariant).
var ErrArcsFinalized = xerrors.New("cache: arcs already finalized for this state (SetArcs already called)")

type cacheState[W weight.Semiring[W]] struct {
	hasFinal bool
	final    W
	expand   bool // expansion started (arcs being populated, not yet finalized)
	arcsSet  bool
	arcs     []fst.Arc[W]
	pins     int
}

// Store is the bounded lazy cache. The zero value is not valid; use New.
type Store[W weight.Semiring[W]] struct {
	states map[fst.StateId]*cacheState[W]
	order  []fst.StateId // FIFO order of states with arcs resident

	limit int64
	used  int64
	gc    bool

	hasStart bool
	start    fst.StateId

	arcSize int64
}

// New creates a cache bounded to limit bytes of resident arcs, with GC
// toggled by gcEnabled. With GC enabled, limit <= 0 effectively disables
// retention: a state's arcs are evicted as soon as SetArcs finalizes
// them, so memory never grows past one state's worth (Lazy still returns
// the arcs it has just expanded). With GC disabled nothing is evicted
// unless Evict is called.
func New[W weight.Semiring[W]](limit int64, gcEnabled bool) *Store[W] {
	var zero fst.Arc[W]
	return &Store[W]{
		states:  make(map[fst.StateId]*cacheState[W]),
		limit:   limit,
		gc:      gcEnabled,
		start:   fst.NoStateId,
		arcSize: int64(unsafe.Sizeof(zero)),
	}
}

func (c *Store[W]) getOrCreate(s fst.StateId) *cacheState[W] {
	st, ok := c.states[s]
	if !ok {
		st = &cacheState[W]{}
		c.states[s] = st
	}
	return st
}

func (c *Store[W]) HasStart() bool          { return c.hasStart }
func (c *Store[W]) SetStart(s fst.StateId)  { c.hasStart = true; c.start = s }
func (c *Store[W]) Start() fst.StateId      { return c.start }

func (c *Store[W]) HasFinal(s fst.StateId) bool {
	st, ok := c.states[s]
	return ok && st.hasFinal
}

func (c *Store[W]) SetFinal(s fst.StateId, w W) {
	st := c.getOrCreate(s)
	st.hasFinal = true
	st.final = w
}

func (c *Store[W]) Final(s fst.StateId) W {
	return c.states[s].final
}

func (c *Store[W]) HasArcs(s fst.StateId) bool {
	st, ok := c.states[s]
	return ok && st.arcsSet
}

// PushArc appends one arc to state s's still-open arc list. It is an
// error to call PushArc after SetArcs for the same state (spec §4.5).
func (c *Store[W]) PushArc(s fst.StateId, a fst.Arc[W]) error {
	st := c.getOrCreate(s)
	if st.arcsSet {
		return ErrArcsFinalized
	}
	st.expand = true
	st.arcs = append(st.arcs, a)
	c.used += c.arcSize
	return nil
}

// SetArcs finalizes state s's arc list, making it resident and eligible
// for GC accounting and eviction.
func (c *Store[W]) SetArcs(s fst.StateId) {
	st := c.getOrCreate(s)
	st.arcsSet = true
	c.order = append(c.order, s)
	c.maybeGC()
}

func (c *Store[W]) Arcs(s fst.StateId) []fst.Arc[W] {
	st, ok := c.states[s]
	if !ok {
		return nil
	}
	return st.arcs
}

func (c *Store[W]) NumArcs(s fst.StateId) int { return len(c.Arcs(s)) }

func (c *Store[W]) NumInputEpsilons(s fst.StateId) int {
	n := 0
	for _, a := range c.Arcs(s) {
		if a.ILabel == fst.Epsilon {
			n++
		}
	}
	return n
}

func (c *Store[W]) NumOutputEpsilons(s fst.StateId) int {
	n := 0
	for _, a := range c.Arcs(s) {
		if a.OLabel == fst.Epsilon {
			n++
		}
	}
	return n
}

// Pin marks s as currently iterated, exempting it from GC until a
// matching Unpin. Pins nest.
func (c *Store[W]) Pin(s fst.StateId) {
	c.getOrCreate(s).pins++
}

func (c *Store[W]) Unpin(s fst.StateId) {
	if st, ok := c.states[s]; ok && st.pins > 0 {
		st.pins--
	}
}

// GCEnabled reports whether eviction runs automatically after SetArcs.
func (c *Store[W]) GCEnabled() bool      { return c.gc }
func (c *Store[W]) SetGCEnabled(v bool)  { c.gc = v }
func (c *Store[W]) Limit() int64         { return c.limit }
func (c *Store[W]) ResidentBytes() int64 { return c.used }

// Evict forces a GC pass regardless of the gc_enabled toggle; used by
// tests and by callers that want deterministic control over eviction
// timing.
func (c *Store[W]) Evict() { c.evict() }

func (c *Store[W]) maybeGC() {
	if !c.gc {
		return
	}
	if c.limit <= 0 {
		// limit<=0: never retain past the state that triggered SetArcs.
		c.evictOne(len(c.order) - 1)
		return
	}
	c.evict()
}

func (c *Store[W]) evict() {
	for c.used > c.limit && len(c.order) > 0 {
		if !c.evictOldest() {
			break // everything left resident is pinned
		}
	}
}

// evictOldest evicts the oldest unpinned resident state's arcs, in
// insertion order, skipping pinned states but not removing them from
// the order queue (they remain candidates once unpinned). It returns
// false if no unpinned state was found.
func (c *Store[W]) evictOldest() bool {
	for i, s := range c.order {
		st, ok := c.states[s]
		if !ok || !st.arcsSet {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return true
		}
		if st.pins > 0 {
			continue
		}
		c.used -= int64(len(st.arcs)) * c.arcSize
		st.arcs = nil
		st.arcsSet = false
		st.expand = false
		c.order = append(c.order[:i], c.order[i+1:]...)
		return true
	}
	return false
}

// evictOne evicts a specific order-slot index's state, used by the
// limit<=0 fast path above; it is a no-op if that state is pinned.
func (c *Store[W]) evictOne(idx int) {
	if idx < 0 || idx >= len(c.order) {
		return
	}
	s := c.order[idx]
	st := c.states[s]
	if st.pins > 0 {
		return
	}
	c.used -= int64(len(st.arcs)) * c.arcSize
	st.arcs = nil
	st.arcsSet = false
	st.expand = false
	c.order = append(c.order[:idx], c.order[idx+1:]...)
}

// Resident reports the states currently holding finalized, non-evicted
// arcs, in insertion (FIFO) order. Exposed for tests of the eviction
// policy (spec §8 scenario 6).
func (c *Store[W]) Resident() []fst.StateId {
	out := make([]fst.StateId, 0, len(c.order))
	for _, s := range c.order {
		if st := c.states[s]; st != nil && st.arcsSet {
			out = append(out, s)
		}
	}
	return out
}
